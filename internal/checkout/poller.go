package checkout

import (
	"context"
	"log"
	"time"
)

// StatusChecker reports the current payment status of a checkout.
type StatusChecker interface {
	PaymentStatus(ctx context.Context, checkoutID string) (PaymentStatus, error)
}

// Poller re-checks a checkout's payment status at a fixed interval, no
// backoff, until the status turns terminal or the countdown budget runs
// out. Every watch is a revocable handle, so teardown stops polling
// deterministically.
type Poller struct {
	checker  StatusChecker
	interval time.Duration
	budget   time.Duration
}

func NewPoller(checker StatusChecker, interval, budget time.Duration) *Poller {
	return &Poller{
		checker:  checker,
		interval: interval,
		budget:   budget,
	}
}

// Result is the terminal outcome of one watch.
type Result struct {
	Status PaymentStatus
	Err    error
}

// Watch is a cancellable polling task for one checkout.
type Watch struct {
	cancel context.CancelFunc
	done   chan Result
}

// Done delivers exactly one Result when the watch ends.
func (w *Watch) Done() <-chan Result {
	return w.done
}

// Stop revokes the watch. Safe to call after completion.
func (w *Watch) Stop() {
	w.cancel()
}

// Start begins polling the checkout. The countdown budget bounds the whole
// watch; when it lapses with the payment still pending the watch reports
// PaymentStatusExpired.
func (p *Poller) Start(ctx context.Context, checkoutID string) *Watch {
	ctx, cancel := context.WithCancel(ctx)
	w := &Watch{
		cancel: cancel,
		done:   make(chan Result, 1),
	}

	go p.run(ctx, checkoutID, w)
	return w
}

func (p *Poller) run(ctx context.Context, checkoutID string, w *Watch) {
	ticker := time.NewTicker(p.interval)
	deadline := time.NewTimer(p.budget)
	defer ticker.Stop()
	defer deadline.Stop()
	defer w.cancel()

	for {
		select {
		case <-ticker.C:
			status, err := p.checker.PaymentStatus(ctx, checkoutID)
			if err != nil {
				// transient errors keep the loop alive until the budget lapses
				log.Printf("payment status check failed for %s: %v", checkoutID, err)
				continue
			}
			if status.IsTerminal() {
				w.done <- Result{Status: status}
				return
			}
		case <-deadline.C:
			w.done <- Result{Status: PaymentStatusExpired}
			return
		case <-ctx.Done():
			w.done <- Result{Status: PaymentStatusExpired, Err: ctx.Err()}
			return
		}
	}
}
