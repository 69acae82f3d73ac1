package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-pollination-agent/internal/domain"
	"github.com/KasumiMercury/primind-pollination-agent/internal/observability/tracing"
)

const (
	ackOutboxKey = "pollination:ack_outbox"

	// acks older than this are past any reminder they could refer to
	ackOutboxTTL = 7 * 24 * time.Hour

	maxWatchRetries = 5
)

type pendingAckRecord struct {
	PlantID  string    `json:"plant_id"`
	Type     string    `json:"type"`
	QueuedAt time.Time `json:"queued_at"`
	Attempts int       `json:"attempts"`
}

type redisOutbox struct {
	client *redis.Client
}

func NewRedisOutbox(client *redis.Client) domain.AckOutbox {
	return &redisOutbox{
		client: client,
	}
}

func (o *redisOutbox) Enqueue(ctx context.Context, ack domain.PendingAck) error {
	ctx, span := tracing.StartRedisOperationSpan(ctx, "enqueue", ackOutboxKey)
	err := o.enqueue(ctx, ack)
	tracing.EndWithError(span, err)
	return err
}

func (o *redisOutbox) enqueue(ctx context.Context, ack domain.PendingAck) error {
	field := ack.Key().String()

	txf := func(tx *redis.Tx) error {
		var existing domain.PendingAck
		data, err := tx.HGet(ctx, ackOutboxKey, field).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return err
		default:
			existing, err = decodeAck(data)
			if err != nil {
				return err
			}
		}

		encoded, err := encodeAck(merge(existing, ack))
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, ackOutboxKey, field, encoded)
			pipe.Expire(ctx, ackOutboxKey, ackOutboxTTL)
			return nil
		})
		return err
	}

	for i := 0; i < maxWatchRetries; i++ {
		err := o.client.Watch(ctx, txf, ackOutboxKey)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrRedisConnection, err)
		}
		return nil
	}
	return fmt.Errorf("%w: enqueue %s: too much contention", ErrRedisConnection, field)
}

func (o *redisOutbox) List(ctx context.Context) ([]domain.PendingAck, error) {
	ctx, span := tracing.StartRedisOperationSpan(ctx, "list", ackOutboxKey)

	values, err := o.client.HGetAll(ctx, ackOutboxKey).Result()
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrRedisConnection, err)
		tracing.EndWithError(span, err)
		return nil, err
	}
	tracing.EndWithError(span, nil)

	out := make([]domain.PendingAck, 0, len(values))
	for field, data := range values {
		ack, err := decodeAck([]byte(data))
		if err != nil {
			slog.WarnContext(ctx, "dropping unreadable pending ack",
				slog.String("field", field),
				slog.String("error", err.Error()),
			)
			o.client.HDel(ctx, ackOutboxKey, field)
			continue
		}
		out = append(out, ack)
	}

	sortByQueuedAt(out)
	return out, nil
}

func (o *redisOutbox) Remove(ctx context.Context, key domain.ReminderKey) error {
	ctx, span := tracing.StartRedisOperationSpan(ctx, "remove", ackOutboxKey)

	err := o.client.HDel(ctx, ackOutboxKey, key.String()).Err()
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrRedisConnection, err)
	}
	tracing.EndWithError(span, err)
	return err
}

func encodeAck(ack domain.PendingAck) ([]byte, error) {
	data, err := json.Marshal(pendingAckRecord{
		PlantID:  ack.PlantID,
		Type:     ack.Type.String(),
		QueuedAt: ack.QueuedAt,
		Attempts: ack.Attempts,
	})
	if err != nil {
		return nil, ErrInvalidAckData
	}
	return data, nil
}

func decodeAck(data []byte) (domain.PendingAck, error) {
	var record pendingAckRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return domain.PendingAck{}, ErrInvalidAckData
	}
	typ := domain.ReminderType(record.Type)
	if record.PlantID == "" || !typ.IsValid() {
		return domain.PendingAck{}, ErrInvalidAckData
	}
	return domain.PendingAck{
		PlantID:  record.PlantID,
		Type:     typ,
		QueuedAt: record.QueuedAt,
		Attempts: record.Attempts,
	}, nil
}
