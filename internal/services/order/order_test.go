package order

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyenbachduyhoang/cafedaily/internal/backend"
	"github.com/nguyenbachduyhoang/cafedaily/internal/config"
	"github.com/nguyenbachduyhoang/cafedaily/internal/models"
)

// stubGateway scripts the subscription statuses returned on successive
// polls and records how often it was asked.
type stubGateway struct {
	mu       sync.Mutex
	statuses []string
	calls    int
	orderErr error
	payErr   error
	payInfo  *models.PaymentInstructions
}

func (g *stubGateway) OrderSubscription(_ context.Context, token string, planID int) (*models.Order, error) {
	if g.orderErr != nil {
		return nil, g.orderErr
	}
	return &models.Order{
		Subscription: models.Subscription{
			SubscriptionID: "sub-1",
			PlanID:         planID,
			Status:         models.StatusPendingPayment,
		},
		Instructions: models.PaymentInstructions{BankName: "VCB", Amount: 100},
	}, nil
}

func (g *stubGateway) MySubscriptions(_ context.Context, token string) ([]models.Subscription, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	status := models.StatusPendingPayment
	if g.calls < len(g.statuses) {
		status = g.statuses[g.calls]
	} else if len(g.statuses) > 0 {
		status = g.statuses[len(g.statuses)-1]
	}
	g.calls++
	return []models.Subscription{{SubscriptionID: "sub-1", Status: status}}, nil
}

func (g *stubGateway) PaymentInfo(_ context.Context, token, subscriptionID string) (*models.PaymentInstructions, error) {
	if g.payErr != nil {
		return nil, g.payErr
	}
	return g.payInfo, nil
}

func (g *stubGateway) pollCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

// fastFlow compresses the intervals so the tests finish in milliseconds.
func fastFlow() config.PaymentFlow {
	return config.PaymentFlow{
		PollInterval:     5 * time.Millisecond,
		CardAutoClose:    20 * time.Millisecond,
		SuccessAutoClose: 20 * time.Millisecond,
	}
}

func waitForState(t *testing.T, s *Service, id string, want State) Snapshot {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatalf("flow %s never reached state %s", id, want)
		default:
		}
		if snap, ok := s.Status(id); ok && snap.State == want {
			return snap
		}
		time.Sleep(time.Millisecond)
	}
}

func TestPlace_Preconditions(t *testing.T) {
	s := New(&stubGateway{}, fastFlow(), newNoopLogger())
	defer s.Shutdown()

	_, err := s.Place(context.Background(), "", 1, MethodTransfer)
	require.Error(t, err)
	assert.Equal(t, backend.KindAuthRequired, backend.KindOf(err))

	_, err = s.Place(context.Background(), "tok", 0, MethodTransfer)
	require.Error(t, err)
	assert.Equal(t, backend.KindValidation, backend.KindOf(err))
}

func TestPlace_OrderFailureIsSynchronous(t *testing.T) {
	gw := &stubGateway{orderErr: &backend.Error{Kind: backend.KindServer, Message: "boom"}}
	s := New(gw, fastFlow(), newNoopLogger())
	defer s.Shutdown()

	_, err := s.Place(context.Background(), "tok", 1, MethodTransfer)
	require.Error(t, err)
	assert.Equal(t, backend.KindServer, backend.KindOf(err))
}

func TestTransferFlow_PollsUntilActive(t *testing.T) {
	gw := &stubGateway{statuses: []string{
		models.StatusPendingPayment,
		models.StatusPendingPayment,
		models.StatusActive,
	}}
	s := New(gw, fastFlow(), newNoopLogger())
	defer s.Shutdown()

	snap, err := s.Place(context.Background(), "tok", 1, MethodTransfer)
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingPayment, snap.State)
	require.NotNil(t, snap.Instructions)
	assert.Equal(t, "VCB", snap.Instructions.BankName)

	got := waitForState(t, s, snap.ID, StateSucceeded)
	assert.Equal(t, models.StatusActive, got.Subscription.Status)

	// The poller stops at the confirming tick.
	polls := gw.pollCount()
	assert.Equal(t, 3, polls)
	time.Sleep(4 * fastFlow().PollInterval)
	assert.Equal(t, polls, gw.pollCount(), "no polling after success")
}

func TestTransferFlow_SuccessAutoCloses(t *testing.T) {
	gw := &stubGateway{statuses: []string{models.StatusActive}}
	s := New(gw, fastFlow(), newNoopLogger())
	defer s.Shutdown()

	snap, err := s.Place(context.Background(), "tok", 1, MethodTransfer)
	require.NoError(t, err)

	waitForState(t, s, snap.ID, StateSucceeded)

	deadline := time.After(time.Second)
	for {
		if _, ok := s.Status(snap.ID); !ok {
			break
		}
		select {
		case <-deadline:
			t.Fatal("flow never auto-closed after success")
		default:
			time.Sleep(time.Millisecond)
		}
	}
}

func TestCardFlow_AutoCloses(t *testing.T) {
	gw := &stubGateway{}
	s := New(gw, fastFlow(), newNoopLogger())
	defer s.Shutdown()

	snap, err := s.Place(context.Background(), "tok", 1, MethodCard)
	require.NoError(t, err)
	assert.Equal(t, StateCardSucceeded, snap.State)
	assert.Equal(t, 0, gw.pollCount(), "card payments never poll")

	deadline := time.After(time.Second)
	for {
		if _, ok := s.Status(snap.ID); !ok {
			break
		}
		select {
		case <-deadline:
			t.Fatal("card flow never auto-closed")
		default:
			time.Sleep(time.Millisecond)
		}
	}
}

func TestClose_StopsPollingAndIsIdempotent(t *testing.T) {
	gw := &stubGateway{statuses: []string{models.StatusPendingPayment}}
	s := New(gw, fastFlow(), newNoopLogger())

	snap, err := s.Place(context.Background(), "tok", 1, MethodTransfer)
	require.NoError(t, err)

	s.Close(snap.ID)
	_, ok := s.Status(snap.ID)
	assert.False(t, ok)

	// Let any tick that was already in flight drain before sampling.
	time.Sleep(2 * fastFlow().PollInterval)
	polls := gw.pollCount()
	time.Sleep(5 * fastFlow().PollInterval)
	assert.Equal(t, polls, gw.pollCount(), "poller must stop on close")

	// Closing again, or closing an unknown id, is a no-op.
	s.Close(snap.ID)
	s.Close("missing")
}

func TestRepay(t *testing.T) {
	t.Run("instructions still stored", func(t *testing.T) {
		gw := &stubGateway{payInfo: &models.PaymentInstructions{BankName: "VCB"}}
		s := New(gw, fastFlow(), newNoopLogger())

		info, err := s.Repay(context.Background(), "tok", "sub-1", 0)
		require.NoError(t, err)
		assert.Equal(t, "VCB", info.BankName)
	})

	t.Run("fallback re-order with plan id", func(t *testing.T) {
		gw := &stubGateway{payErr: &backend.Error{Kind: backend.KindNotFound, Message: "gone"}}
		s := New(gw, fastFlow(), newNoopLogger())

		info, err := s.Repay(context.Background(), "tok", "sub-1", 3)
		require.NoError(t, err)
		assert.Equal(t, float64(100), info.Amount)
	})

	t.Run("no plan id surfaces the lookup error", func(t *testing.T) {
		gw := &stubGateway{payErr: &backend.Error{Kind: backend.KindNotFound, Message: "gone"}}
		s := New(gw, fastFlow(), newNoopLogger())

		_, err := s.Repay(context.Background(), "tok", "sub-1", 0)
		require.Error(t, err)
		assert.Equal(t, backend.KindNotFound, backend.KindOf(err))
	})
}
