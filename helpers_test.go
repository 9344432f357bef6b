package smtppool

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/javi11/smtppool/pkg/smtpcli"
)

func TestDialSMTP(t *testing.T) {
	errRefused := errors.New("connection refused")

	tests := []struct {
		name        string
		config      ServerConfig
		setupMocks  func(*gomock.Controller) smtpcli.Client
		wantErr     error
		errContains string
	}{
		{
			name: "successful connection with authentication",
			config: ServerConfig{
				Host:     "smtp.example.com",
				Port:     587,
				Security: smtpcli.SecurityStartTLS,
				Username: "user",
				Password: "pass",
			},
			setupMocks: func(ctrl *gomock.Controller) smtpcli.Client {
				mockClient := smtpcli.NewMockClient(ctrl)
				mockConn := smtpcli.NewMockConnection(ctrl)

				mockClient.EXPECT().
					Dial(gomock.Any(), "smtp.example.com", 587, smtpcli.DialConfig{Security: smtpcli.SecurityStartTLS}).
					Return(mockConn, nil)
				mockConn.EXPECT().Authenticate(gomock.Any(), "user", "pass").Return(nil)

				return mockClient
			},
		},
		{
			name: "anonymous connection skips authentication",
			config: ServerConfig{
				Host:               "smtp.example.com",
				Port:               465,
				Security:           smtpcli.SecurityImplicitTLS,
				InsecureSkipVerify: true,
				LocalName:          "client.example.com",
			},
			setupMocks: func(ctrl *gomock.Controller) smtpcli.Client {
				mockClient := smtpcli.NewMockClient(ctrl)
				mockConn := smtpcli.NewMockConnection(ctrl)

				mockClient.EXPECT().
					Dial(gomock.Any(), "smtp.example.com", 465, smtpcli.DialConfig{
						Security:           smtpcli.SecurityImplicitTLS,
						InsecureSkipVerify: true,
						LocalName:          "client.example.com",
					}).
					Return(mockConn, nil)

				return mockClient
			},
		},
		{
			name:   "dial failure is wrapped",
			config: ServerConfig{Host: "smtp.example.com", Port: 25},
			setupMocks: func(ctrl *gomock.Controller) smtpcli.Client {
				mockClient := smtpcli.NewMockClient(ctrl)
				mockClient.EXPECT().Dial(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errRefused)

				return mockClient
			},
			wantErr:     errRefused,
			errContains: "smtp.example.com:25",
		},
		{
			name:   "authentication failure closes the transport",
			config: ServerConfig{Host: "smtp.example.com", Port: 587, Username: "user", Password: "wrong"},
			setupMocks: func(ctrl *gomock.Controller) smtpcli.Client {
				mockClient := smtpcli.NewMockClient(ctrl)
				mockConn := smtpcli.NewMockConnection(ctrl)

				mockClient.EXPECT().Dial(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(mockConn, nil)
				mockConn.EXPECT().Authenticate(gomock.Any(), "user", "wrong").Return(smtpcli.ErrAuthFailed)
				mockConn.EXPECT().Close().Return(nil)

				return mockClient
			},
			wantErr:     smtpcli.ErrAuthFailed,
			errContains: "as user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			conn, err := dialSMTP(context.Background(), tt.setupMocks(ctrl), tt.config, nil)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("dialSMTP() error = %v, want %v", err, tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("dialSMTP() error = %q, want it to contain %q", err, tt.errContains)
				}
				if conn != nil {
					t.Error("dialSMTP() returned a connection with an error")
				}

				return
			}

			if err != nil {
				t.Fatalf("dialSMTP() unexpected error = %v", err)
			}
			if conn == nil {
				t.Fatal("dialSMTP() returned nil connection")
			}
		})
	}
}

func TestMergeContext(t *testing.T) {
	t.Run("lifetime cancellation keeps its cause", func(t *testing.T) {
		lifetime, stop := context.WithCancelCause(context.Background())

		merged, cancel := mergeContext(context.Background(), lifetime)
		defer cancel()

		stop(ErrPoolDisposed)

		select {
		case <-merged.Done():
		case <-time.After(time.Second):
			t.Fatal("merged context not canceled with lifetime")
		}

		if !errors.Is(context.Cause(merged), ErrPoolDisposed) {
			t.Errorf("Cause = %v, want %v", context.Cause(merged), ErrPoolDisposed)
		}
	})

	t.Run("caller deadline is kept", func(t *testing.T) {
		ctx, cancelCtx := context.WithTimeout(context.Background(), time.Millisecond)
		defer cancelCtx()

		merged, cancel := mergeContext(ctx, context.Background())
		defer cancel()

		<-merged.Done()

		if !errors.Is(merged.Err(), context.DeadlineExceeded) {
			t.Errorf("Err = %v, want %v", merged.Err(), context.DeadlineExceeded)
		}
	})

	t.Run("cancel releases the lifetime hook", func(t *testing.T) {
		lifetime, stop := context.WithCancelCause(context.Background())
		defer stop(nil)

		merged, cancel := mergeContext(context.Background(), lifetime)
		cancel()

		if !errors.Is(context.Cause(merged), context.Canceled) {
			t.Errorf("Cause = %v, want %v", context.Cause(merged), context.Canceled)
		}
	})
}

func TestNewResourcePool(t *testing.T) {
	pool, err := newResourcePool(3, NewPoolMetrics())
	if err != nil {
		t.Fatalf("newResourcePool() error = %v", err)
	}
	defer pool.Close()

	stat := pool.Stat()
	if stat.TotalResources() != 3 || stat.IdleResources() != 3 {
		t.Errorf("resources total/idle = %d/%d, want 3/3", stat.TotalResources(), stat.IdleResources())
	}

	for _, res := range pool.AcquireAllIdle() {
		if res.Value().State() != StateDisconnected {
			t.Errorf("new connection state = %v, want %v", res.Value().State(), StateDisconnected)
		}

		res.Release()
	}
}
