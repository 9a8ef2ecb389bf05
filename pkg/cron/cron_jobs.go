package cron

import (
	"context"
	"fmt"
	"time"

	"dompet_api/internal/models"
	"dompet_api/pkg/utils"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const (
	reconcileWindow  = 24 * time.Hour
	reconcileTimeout = 45 * time.Second
)

type LedgerScanner interface {
	ListUnbalancedReferences(ctx context.Context, since time.Time) ([]models.ReferenceImbalance, error)
}

// StartCronJob schedules the transfer reconciliation job and starts the scheduler.
func StartCronJob(schedule string, ledger LedgerScanner) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
		defer cancel()

		if _, err := ReconcileTransfers(ctx, ledger, time.Now()); err != nil {
			utils.Logger.Errorf("Cron job failed to reconcile transfers: %v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule reconciliation job %q: %w", schedule, err)
	}

	c.Start()
	utils.Logger.Infof("Cron jobs started (transfer reconciliation %q)", schedule)
	return c, nil
}

// ReconcileTransfers logs every transfer reference from the last 24 hours whose
// legs do not pair up. It never modifies the ledger.
func ReconcileTransfers(ctx context.Context, ledger LedgerScanner, now time.Time) ([]models.ReferenceImbalance, error) {
	imbalances, err := ledger.ListUnbalancedReferences(ctx, now.Add(-reconcileWindow))
	if err != nil {
		return nil, err
	}

	for _, im := range imbalances {
		utils.Logger.WithFields(logrus.Fields{
			"reference":     im.Reference,
			"legs":          im.Legs,
			"expense_total": im.ExpenseTotal.String(),
			"income_total":  im.IncomeTotal.String(),
		}).Error("unbalanced transfer reference")
	}

	if len(imbalances) == 0 {
		utils.Logger.Debug("transfer reconciliation found no unbalanced references")
	}
	return imbalances, nil
}
