package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/bankofmilo/bank/internal/models"
	"github.com/bankofmilo/bank/internal/repository"
	"github.com/cenkalti/backoff/v4"
)

// transientRetries bounds the exponential backoff retries of one account's
// or loan's unit of work within a tick before the item is left for the next
// tick.
const transientRetries = 3

// FeeProcessor charges the periodic maintenance fee. One tick examines every
// non-closed account and charges at most one fee per account: eligibility
// and the deduction are decided together under the account lock, with
// last_fee_date advancing in the same atomic unit as the balance write.
//
// An account that was unreachable for several billing periods is still
// charged only once per tick, never caught up retroactively.
type FeeProcessor struct {
	store  repository.Store
	logger *slog.Logger
	now    func() time.Time
	fee    float64
	period int // billing period in days
}

// NewFeeProcessor creates a FeeProcessor charging fee once per period days
func NewFeeProcessor(store repository.Store, fee float64, periodDays int, logger *slog.Logger) *FeeProcessor {
	return &FeeProcessor{
		store:  store,
		logger: logger,
		now:    time.Now,
		fee:    fee,
		period: periodDays,
	}
}

func (p *FeeProcessor) Name() string { return "maintenance-fees" }

// RunTick examines all accounts. A failure on one account is logged and
// skipped; the remaining accounts still get processed.
func (p *FeeProcessor) RunTick(ctx context.Context) error {
	accounts, err := p.store.ListAccounts(ctx)
	if err != nil {
		return err
	}

	today := models.DateOf(p.now())
	for _, account := range accounts {
		if account.Status == models.AccountStatusClosed {
			continue
		}
		if err := p.chargeAccount(ctx, account, today); err != nil {
			p.logger.Error("fee charge failed, deferring to next tick",
				"account_number", account.AccountNumber,
				"error", err,
			)
		}
	}
	return nil
}

// chargeAccount is safe to retry: eligibility is re-checked under the lock
// on every attempt, so a retry after a partial failure cannot double-charge.
func (p *FeeProcessor) chargeAccount(ctx context.Context, account *models.Account, today time.Time) error {
	op := func() error {
		return p.store.WithAccountLock(ctx, account.ID, func(ctx context.Context, tx repository.AccountTx) error {
			locked := tx.Account()
			if locked.Status == models.AccountStatusClosed {
				return nil
			}
			if daysBetween(locked.LastFeeDate, today) < p.period {
				return nil
			}

			locked.Balance -= p.fee
			locked.LastFeeDate = today
			locked.ReconcileStatus()
			if err := tx.SaveAccount(ctx); err != nil {
				return err
			}

			_, err := tx.Record(ctx, models.TransactionTypeFee, -p.fee, "Monthly maintenance fee")
			if err != nil {
				return err
			}

			p.logger.Info("maintenance fee charged",
				"account_number", locked.AccountNumber,
				"fee", p.fee,
				"balance", locked.Balance,
			)
			return nil
		})
	}

	return backoff.Retry(op, backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), transientRetries), ctx))
}

// daysBetween returns the number of whole days from one calendar date to
// another. Both arguments must already be date-truncated.
func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
