package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bankofmilo/bank/internal/models"
	"github.com/bankofmilo/bank/internal/repository"
	"github.com/cenkalti/backoff/v4"
)

const (
	// firstPaymentRate is the share of the principal collected at the
	// first settlement date.
	firstPaymentRate = 0.5
	// finalPaymentRate is the full principal plus 9.99% interest,
	// collected at the second settlement date.
	finalPaymentRate = 1.0999
)

// LoanProcessor settles approved loans. Each tick examines every approved
// loan; a payment whose date has arrived is attempted only if the balance
// suffices at that moment, and is otherwise silently deferred to a later
// tick. The second payment is considered only when the first was already
// done before the current tick, so both stages never fire in one pass.
type LoanProcessor struct {
	store  repository.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewLoanProcessor creates a LoanProcessor
func NewLoanProcessor(store repository.Store, logger *slog.Logger) *LoanProcessor {
	return &LoanProcessor{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

func (p *LoanProcessor) Name() string { return "loan-settlement" }

// RunTick examines all approved loans. A failure on one loan is logged and
// skipped; the remaining loans still get processed.
func (p *LoanProcessor) RunTick(ctx context.Context) error {
	loans, err := p.store.ListLoansByStatus(ctx, models.LoanStatusApproved)
	if err != nil {
		return err
	}

	today := models.DateOf(p.now())
	for _, loan := range loans {
		if err := p.settleLoan(ctx, loan, today); err != nil {
			p.logger.Error("loan settlement failed, deferring to next tick",
				"loan_id", loan.ID,
				"error", err,
			)
		}
	}
	return nil
}

// settleLoan is safe to retry: payment eligibility is re-read under the
// account lock on every attempt.
func (p *LoanProcessor) settleLoan(ctx context.Context, loan *models.Loan, today time.Time) error {
	op := func() error {
		return p.store.WithAccountLock(ctx, loan.AccountID, func(ctx context.Context, tx repository.AccountTx) error {
			locked, err := tx.GetLoan(ctx, loan.ID)
			if err != nil {
				return err
			}
			if locked.Status != models.LoanStatusApproved {
				return nil
			}

			// Decide second-payment eligibility before the first payment may
			// run, so a first payment in this pass defers the second to the
			// next tick and each tick stays auditable as one step.
			firstDoneAtStart := locked.Stage.FirstPaymentDone()

			if !firstDoneAtStart && dateDue(locked.ApprovedDate1, today) {
				if err := p.attemptFirstPayment(ctx, tx, locked); err != nil {
					return err
				}
			}

			if firstDoneAtStart && !locked.Stage.SecondPaymentDone() && dateDue(locked.ApprovedDate2, today) {
				if err := p.attemptFinalPayment(ctx, tx, locked); err != nil {
					return err
				}
			}

			return nil
		})
	}

	return backoff.Retry(op, backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), transientRetries), ctx))
}

func (p *LoanProcessor) attemptFirstPayment(ctx context.Context, tx repository.AccountTx, loan *models.Loan) error {
	amount := loan.Amount * firstPaymentRate
	account := tx.Account()
	if account.Balance < amount {
		// Not an error: the payment is re-evaluated on the next tick.
		p.logger.Info("first loan payment deferred, insufficient funds",
			"loan_id", loan.ID,
			"required", amount,
			"balance", account.Balance,
		)
		return nil
	}

	account.Balance -= amount
	account.ReconcileStatus()
	if err := tx.SaveAccount(ctx); err != nil {
		return err
	}
	if _, err := tx.Record(ctx, models.TransactionTypeLoanPayment, -amount,
		fmt.Sprintf("First loan payment for loan %s", loan.ID)); err != nil {
		return err
	}

	loan.Stage = models.PaymentStageFirstPaid
	if err := tx.SaveLoan(ctx, loan); err != nil {
		return err
	}

	p.logger.Info("first loan payment collected",
		"loan_id", loan.ID,
		"amount", amount,
		"balance", account.Balance,
	)
	return nil
}

func (p *LoanProcessor) attemptFinalPayment(ctx context.Context, tx repository.AccountTx, loan *models.Loan) error {
	amount := loan.Amount * finalPaymentRate
	account := tx.Account()
	if account.Balance < amount {
		p.logger.Info("final loan payment deferred, insufficient funds",
			"loan_id", loan.ID,
			"required", amount,
			"balance", account.Balance,
		)
		return nil
	}

	account.Balance -= amount
	account.ReconcileStatus()
	if err := tx.SaveAccount(ctx); err != nil {
		return err
	}
	if _, err := tx.Record(ctx, models.TransactionTypeLoanPayment, -amount,
		fmt.Sprintf("Final loan payment for loan %s", loan.ID)); err != nil {
		return err
	}

	loan.Stage = models.PaymentStageCompleted
	loan.Status = models.LoanStatusCompleted
	if err := tx.SaveLoan(ctx, loan); err != nil {
		return err
	}

	p.logger.Info("final loan payment collected, loan completed",
		"loan_id", loan.ID,
		"amount", amount,
		"balance", account.Balance,
	)
	return nil
}

// dateDue reports whether a settlement date is set and has arrived
func dateDue(date *time.Time, today time.Time) bool {
	return date != nil && !today.Before(*date)
}
