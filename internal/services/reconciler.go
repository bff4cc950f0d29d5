package services

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

// Reconciler periodically recomputes every user's balance from the ledger and
// reports drift. Drift should be impossible given that balance mutations and
// ledger writes share a transaction; the sweep exists to catch it anyway.
type Reconciler struct {
	store    Store
	interval time.Duration
	sched    gocron.Scheduler
}

// NewReconciler constructs a Reconciler sweeping at the given interval.
func NewReconciler(store Store, interval time.Duration) *Reconciler {
	return &Reconciler{store: store, interval: interval}
}

// Start launches the periodic sweep.
func (r *Reconciler) Start() error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(r.interval),
		gocron.NewTask(r.runOnce),
	)
	if err != nil {
		return err
	}

	sched.Start()
	r.sched = sched
	return nil
}

// Stop shuts the scheduler down.
func (r *Reconciler) Stop() {
	if r.sched != nil {
		_ = r.sched.Shutdown()
	}
}

func (r *Reconciler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	drifts, err := r.store.ListBalanceDrift(ctx)
	if err != nil {
		logrus.WithError(err).Error("balance reconciliation sweep failed")
		return
	}

	for _, d := range drifts {
		logrus.WithFields(logrus.Fields{
			"user":          d.UserID,
			"balance_cents": d.BalanceCents,
			"ledger_cents":  d.LedgerCents,
		}).Warn("balance drifts from ledger sum")
	}

	if len(drifts) == 0 {
		logrus.Debug("balance reconciliation sweep clean")
	}
}
