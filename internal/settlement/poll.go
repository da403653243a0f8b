package settlement

import (
	"context"
	"errors"
	"time"

	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/apperr"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/models"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/repository"
)

// Sleeper suspends the caller between poll attempts.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type timerSleeper struct{}

func (timerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type PollOutcome string

const (
	PollPaid    PollOutcome = "paid"
	PollTimeout PollOutcome = "timeout"
)

type PollResult struct {
	Outcome  PollOutcome
	Attempts int
	// Payment is the last record read, nil if it never appeared.
	Payment *models.Payment
}

// PollStatus reads the payment up to maxAttempts times, interval apart,
// and returns as soon as it is paid. Running out of attempts is a timeout
// outcome, not an error.
func (e *Engine) PollStatus(ctx context.Context, providerRef string, maxAttempts int, interval time.Duration) (*PollResult, error) {
	if providerRef == "" {
		return nil, apperr.New(apperr.InvalidArgument, "provider reference is required")
	}
	if maxAttempts < 1 {
		return nil, apperr.New(apperr.InvalidArgument, "attempts must be at least 1")
	}

	res := &PollResult{Outcome: PollTimeout}
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			if err := e.sleeper.Sleep(ctx, interval); err != nil {
				return nil, err
			}
		}

		res.Attempts = attempt
		p, err := e.store.FindPaymentByRef(ctx, e.provider.Name(), providerRef)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			continue
		case err != nil:
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, apperr.Wrap(apperr.Internal, "load payment", err)
		}

		res.Payment = p
		if p.IsPaid() {
			res.Outcome = PollPaid
			return res, nil
		}
	}
	return res, nil
}

// FindPayment reads the payment carrying providerRef once.
func (e *Engine) FindPayment(ctx context.Context, providerRef string) (*models.Payment, error) {
	p, err := e.store.FindPaymentByRef(ctx, e.provider.Name(), providerRef)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Wrap(apperr.NotFound, "Payment not found", err)
		}
		return nil, apperr.Wrap(apperr.Internal, "load payment", err)
	}
	return p, nil
}
