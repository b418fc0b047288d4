// Package order orchestrates the subscription purchase flow: place the
// order, hand out the transfer instructions, poll the backend until the
// payment is confirmed, auto-close on success. The backend drives every
// status transition; this service only observes.
package order

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nguyenbachduyhoang/cafedaily/internal/backend"
	"github.com/nguyenbachduyhoang/cafedaily/internal/config"
	"github.com/nguyenbachduyhoang/cafedaily/internal/lib/sl"
	"github.com/nguyenbachduyhoang/cafedaily/internal/models"
)

// State of a purchase flow.
type State string

const (
	// StateOrdering is the transient state while the order call is in
	// flight.
	StateOrdering State = "ordering"
	// StateAwaitingPayment means the QR is shown and the poller runs.
	StateAwaitingPayment State = "awaiting_payment"
	// StateSucceeded means the poller observed the subscription active.
	StateSucceeded State = "succeeded"
	// StateCardSucceeded is the synchronous card path, instantly
	// confirmed (mock) and auto-closed.
	StateCardSucceeded State = "card_succeeded"
	// StateClosed means the flow was reset and all ephemeral state is
	// gone.
	StateClosed State = "closed"
)

// Payment methods accepted by Place.
const (
	MethodTransfer = "transfer"
	MethodCard     = "card"
)

// Gateway is the slice of the backend client the flow needs.
type Gateway interface {
	OrderSubscription(ctx context.Context, token string, planID int) (*models.Order, error)
	MySubscriptions(ctx context.Context, token string) ([]models.Subscription, error)
	PaymentInfo(ctx context.Context, token, subscriptionID string) (*models.PaymentInstructions, error)
}

// Snapshot is the externally visible state of one flow.
type Snapshot struct {
	ID           string                      `json:"id"`
	State        State                       `json:"state"`
	Subscription models.Subscription         `json:"subscription"`
	Instructions *models.PaymentInstructions `json:"instructions,omitempty"`
}

// flow is one in-progress purchase. token, planID and the subscription id
// are set before the poller starts and never mutated afterwards; state
// and instructions are guarded by the service mutex.
type flow struct {
	id           string
	token        string
	planID       int
	state        State
	sub          models.Subscription
	instructions *models.PaymentInstructions
	cancel       context.CancelFunc
}

// Service runs the purchase flows. Safe for concurrent use.
type Service struct {
	gateway Gateway
	cfg     config.PaymentFlow
	log     *slog.Logger

	mu    sync.Mutex
	flows map[string]*flow
}

// New creates the flow service.
func New(gateway Gateway, cfg config.PaymentFlow, log *slog.Logger) *Service {
	return &Service{
		gateway: gateway,
		cfg:     cfg,
		log:     log,
		flows:   make(map[string]*flow),
	}
}

// Place creates a subscription order. Preconditions: an authenticated
// session and a selected plan. Order failures are surfaced synchronously
// so the caller can offer a retry; once the order succeeds the flow moves
// to awaiting-payment (transfer, polling starts) or card-succeeded
// (auto-closes after the configured delay).
func (s *Service) Place(ctx context.Context, token string, planID int, method string) (Snapshot, error) {
	if token == "" {
		return Snapshot{}, backend.ErrNoToken
	}
	if planID <= 0 {
		return Snapshot{}, &backend.Error{Kind: backend.KindValidation, Message: "no plan selected"}
	}

	order, err := s.gateway.OrderSubscription(ctx, token, planID)
	if err != nil {
		return Snapshot{}, err
	}

	f := &flow{
		id:           uuid.NewString(),
		token:        token,
		planID:       planID,
		sub:          order.Subscription,
		instructions: &order.Instructions,
	}

	s.mu.Lock()
	s.flows[f.id] = f
	if method == MethodCard {
		f.state = StateCardSucceeded
		s.scheduleClose(f.id, s.cfg.CardAutoClose)
	} else {
		f.state = StateAwaitingPayment
		pollCtx, cancel := context.WithCancel(context.Background())
		f.cancel = cancel
		go s.poll(pollCtx, f)
	}
	snap := snapshotLocked(f)
	s.mu.Unlock()

	s.log.Info("order placed",
		slog.String("flow", f.id),
		slog.String("subscription", f.sub.SubscriptionID),
		slog.String("state", string(snap.State)))
	return snap, nil
}

// poll re-fetches the subscription list every tick until the target
// subscription turns active. Tick failures are swallowed and retried on
// the next tick; polling terminates only on success or flow close.
func (s *Service) poll(ctx context.Context, f *flow) {
	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			subs, err := s.gateway.MySubscriptions(ctx, f.token)
			if err != nil {
				continue
			}
			for _, sub := range subs {
				if sub.SubscriptionID == f.sub.SubscriptionID && models.StatusIs(sub.Status, models.StatusActive) {
					s.succeed(f)
					return
				}
			}
		}
	}
}

// succeed transitions the flow to succeeded and schedules the auto-close.
// A flow already closed underneath the poller stays closed.
func (s *Service) succeed(f *flow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f.state != StateAwaitingPayment {
		return
	}
	f.state = StateSucceeded
	f.sub.Status = models.StatusActive
	s.scheduleClose(f.id, s.cfg.SuccessAutoClose)
	s.log.Info("payment confirmed", slog.String("flow", f.id))
}

func (s *Service) scheduleClose(id string, after time.Duration) {
	time.AfterFunc(after, func() { s.Close(id) })
}

// Close resets the flow: cancels the poller unconditionally and drops all
// ephemeral state. Closing an unknown or already closed flow is a no-op,
// so every exit path may call it.
func (s *Service) Close(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.flows[id]
	if !ok {
		return
	}
	if f.cancel != nil {
		f.cancel()
	}
	f.state = StateClosed
	f.instructions = nil
	delete(s.flows, id)
}

// Status returns the current snapshot of a flow.
func (s *Service) Status(id string) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.flows[id]
	if !ok {
		return Snapshot{}, false
	}
	return snapshotLocked(f), true
}

// Repay fetches the transfer instructions for a subscription left in
// pending-payment. When the lookup fails and the plan id is known, a
// fresh order for the same plan mints new instructions; without a plan id
// the lookup error is surfaced as is.
func (s *Service) Repay(ctx context.Context, token, subscriptionID string, planID int) (*models.PaymentInstructions, error) {
	info, err := s.gateway.PaymentInfo(ctx, token, subscriptionID)
	if err == nil {
		return info, nil
	}
	if planID <= 0 {
		return nil, err
	}
	s.log.Warn("payment info lookup failed, re-ordering plan",
		sl.Err(err), slog.Int("plan", planID))
	order, err := s.gateway.OrderSubscription(ctx, token, planID)
	if err != nil {
		return nil, err
	}
	return &order.Instructions, nil
}

// Shutdown closes every live flow, stopping all pollers.
func (s *Service) Shutdown() {
	s.mu.Lock()
	ids := make([]string, 0, len(s.flows))
	for id := range s.flows {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	for _, id := range ids {
		s.Close(id)
	}
}

func snapshotLocked(f *flow) Snapshot {
	snap := Snapshot{ID: f.id, State: f.state, Subscription: f.sub}
	if f.instructions != nil {
		in := *f.instructions
		snap.Instructions = &in
	}
	return snap
}
