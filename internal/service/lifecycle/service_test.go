package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KasumiMercury/primind-pollination-agent/internal/domain"
	"go.uber.org/mock/gomock"
)

func newTestService(mirror Mirror) *Service {
	s := NewService(newTestMachine(), mirror)
	s.now = func() time.Time { return day(100) }
	return s
}

func TestServiceApply_Synced(t *testing.T) {
	ctrl := gomock.NewController(t)
	mirror := NewMockMirror(ctrl)
	mirror.EXPECT().MarkFlowering(gomock.Any(), "p1", domain.GenderMale, day(45)).Return(nil)

	res, err := newTestService(mirror).Apply(context.Background(), planted(), MarkFlowering{Gender: domain.GenderMale, Date: day(45)})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !res.Synced {
		t.Error("Synced = false, want true")
	}
	if res.Plant.Status != domain.StatusFlowering {
		t.Errorf("status = %s, want flowering", res.Plant.Status)
	}
}

func TestServiceApply_InvalidNeverReachesBackend(t *testing.T) {
	ctrl := gomock.NewController(t)
	mirror := NewMockMirror(ctrl)

	_, err := newTestService(mirror).Apply(context.Background(), planted(), MarkPollinated{Date: day(45)})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("Apply() error = %v, want ErrInvalidTransition", err)
	}
}

func TestServiceApply_BackendFailures(t *testing.T) {
	tests := []struct {
		name       string
		backendErr error
		wantErr    error
		wantStatus domain.LifecycleStatus
		wantSynced bool
	}{
		{
			name:       "network error keeps optimistic state",
			backendErr: &domain.NetworkError{Op: "pollinate", StatusCode: 503},
			wantStatus: domain.StatusPollinated,
		},
		{
			name:       "rejection rolls back",
			backendErr: errors.New("unexpected status code 409"),
			wantErr:    ErrRemoteRejected,
			wantStatus: domain.StatusFlowering,
		},
		{
			name:       "auth error rolls back",
			backendErr: &domain.AuthError{Op: "pollinate", StatusCode: 401},
			wantErr:    domain.ErrAuth,
			wantStatus: domain.StatusFlowering,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mirror := NewMockMirror(ctrl)
			mirror.EXPECT().MarkPollinated(gomock.Any(), "p1", day(46)).Return(tt.backendErr)

			res, err := newTestService(mirror).Apply(context.Background(), flowering(45), MarkPollinated{Date: day(46)})
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Apply() error = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Apply() error = %v, want %v", err, tt.wantErr)
			}
			if res.Plant.Status != tt.wantStatus {
				t.Errorf("status = %s, want %s", res.Plant.Status, tt.wantStatus)
			}
			if res.Synced != tt.wantSynced {
				t.Errorf("Synced = %v, want %v", res.Synced, tt.wantSynced)
			}
		})
	}
}
