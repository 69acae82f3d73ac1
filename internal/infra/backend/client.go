package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/KasumiMercury/primind-pollination-agent/internal/config"
	"github.com/KasumiMercury/primind-pollination-agent/internal/domain"
	"github.com/KasumiMercury/primind-pollination-agent/internal/observability/logging"
	"github.com/KasumiMercury/primind-pollination-agent/internal/observability/tracing"
)

const maxErrorBody = 4 << 10

var (
	ErrUnexpectedResponse = errors.New("unexpected backend response")
	ErrInvalidPlantID     = errors.New("invalid plant id")
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

var _ ReconciliationClient = (*Client)(nil)

func NewClient(cfg *config.BackendConfig) *Client {
	limit := rate.Inf
	burst := 1
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
		burst = cfg.RatePerSecond
	}

	httpClient := newHTTPClient(cfg.URL)
	httpClient.Timeout = cfg.Timeout

	return &Client{
		baseURL:    cfg.URL,
		token:      cfg.Token,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, burst),
	}
}

func (c *Client) FetchPending(ctx context.Context) ([]domain.ReminderRecord, error) {
	const op = "fetch_pending"

	var resp pendingResponse
	if err := c.do(ctx, op, http.MethodGet, []string{"pollination", "notifications", "pending"}, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Success != nil && !*resp.Success {
		return nil, fmt.Errorf("%s: %w: success=false", op, ErrUnexpectedResponse)
	}

	records := make([]domain.ReminderRecord, 0, len(resp.Data))
	for _, r := range resp.Data {
		if r.PlantID == "" || !r.Type.IsValid() || r.ScheduledTime.IsZero() {
			slog.WarnContext(ctx, "dropping malformed reminder record",
				slog.String("plant_id", r.PlantID),
				slog.String("type", string(r.Type)),
			)
			continue
		}
		records = append(records, r)
	}

	slog.DebugContext(ctx, "fetched pending reminders",
		slog.Int("count", len(records)),
	)

	return records, nil
}

func (c *Client) AckSent(ctx context.Context, plantID string, reminderType domain.ReminderType) error {
	return c.writePlant(ctx, "ack_sent", plantID, "notification-sent", notificationSentRequest{
		NotificationType: reminderType,
	})
}

func (c *Client) MarkFlowering(ctx context.Context, plantID string, gender domain.Gender, date time.Time) error {
	return c.writePlant(ctx, "mark_flowering", plantID, "flowering", floweringRequest{
		Gender: gender,
		Date:   date,
	})
}

func (c *Client) MarkPollinated(ctx context.Context, plantID string, date time.Time) error {
	return c.writePlant(ctx, "mark_pollinated", plantID, "pollinate", pollinateRequest{
		Date: date,
	})
}

func (c *Client) AdvanceStatus(ctx context.Context, plantID string, to domain.LifecycleStatus) error {
	return c.writePlant(ctx, "advance_status", plantID, "status", statusRequest{
		NewStatus: to,
	})
}

// writePlant posts to /pollination/{plantId}/{action}. The id is a single
// escaped path segment.
func (c *Client) writePlant(ctx context.Context, op, plantID, action string, body any) error {
	if plantID == "" || plantID == "." || plantID == ".." {
		return fmt.Errorf("%s: %w: %q", op, ErrInvalidPlantID, plantID)
	}
	return c.write(ctx, op, []string{"pollination", url.PathEscape(plantID), action}, body)
}

func (c *Client) write(ctx context.Context, op string, path []string, body any) error {
	var resp envelope
	if err := c.do(ctx, op, http.MethodPost, path, body, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("%s: %w: %s", op, ErrUnexpectedResponse, resp.Message)
	}
	return nil
}

func (c *Client) do(ctx context.Context, op, method string, path []string, body any, out any) error {
	u, err := url.JoinPath(c.baseURL, path...)
	if err != nil {
		return fmt.Errorf("%s: failed to build URL: %w", op, err)
	}

	ctx, span := tracing.StartExternalAPISpan(ctx, op, u)
	err = c.send(ctx, op, method, u, body, out)
	tracing.EndWithError(span, err)
	return err
}

func (c *Client) send(ctx context.Context, op, method, u string, body any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &domain.NetworkError{Op: op, Err: err}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: failed to marshal request body: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("%s: failed to create request: %w", op, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	requestID := logging.ValidateAndExtractRequestID(logging.RequestIDFromContext(ctx))
	req.Header.Set("x-request-id", requestID)
	tracing.InjectToHTTPRequest(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.WarnContext(ctx, "failed to send request to backend",
			slog.String("op", op),
			slog.String("url", u),
			slog.String("error", err.Error()),
		)
		return &domain.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if err := classifyStatus(op, resp); err != nil {
		slog.WarnContext(ctx, "unexpected status code from backend",
			slog.String("op", op),
			slog.String("url", u),
			slog.Int("status_code", resp.StatusCode),
		)
		return err
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", op, err)
	}
	return nil
}

// classifyStatus maps a response status onto the client error types.
func classifyStatus(op string, resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return &domain.AuthError{Op: op, StatusCode: code}
	case code == http.StatusRequestTimeout || code == http.StatusTooManyRequests || code >= 500:
		return &domain.NetworkError{Op: op, StatusCode: code}
	default:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%s: unexpected status code %d: %s", op, code, bytes.TrimSpace(msg))
	}
}
