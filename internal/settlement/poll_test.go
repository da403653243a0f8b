package settlement

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/models"
)

// stepSleeper records waits and runs an optional hook before each one.
type stepSleeper struct {
	calls  int
	waited []time.Duration
	before func(call int)
}

func (s *stepSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.calls++
	s.waited = append(s.waited, d)
	if s.before != nil {
		s.before(s.calls)
	}
	return ctx.Err()
}

func TestPollStatusPaidWithinWindow(t *testing.T) {
	e, db, _ := newTestEngine(t, &fakeProvider{name: models.ProviderStripe, configured: true})
	p := seedPending(t, e, db)

	sleeper := &stepSleeper{before: func(call int) {
		if call == 2 {
			if _, err := e.ConfirmCharge(context.Background(), p.ProviderRef(), "pi_1"); err != nil {
				t.Errorf("confirm: %v", err)
			}
		}
	}}
	e.sleeper = sleeper

	res, err := e.PollStatus(context.Background(), p.ProviderRef(), 5, 2*time.Second)
	if err != nil {
		t.Fatalf("PollStatus: %v", err)
	}
	if res.Outcome != PollPaid || res.Attempts != 3 {
		t.Errorf("result = %+v, want paid on attempt 3", res)
	}
	if len(sleeper.waited) != 2 || sleeper.waited[0] != 2*time.Second {
		t.Errorf("waited = %v", sleeper.waited)
	}
}

func TestPollStatusTimeout(t *testing.T) {
	e, db, _ := newTestEngine(t, &fakeProvider{name: models.ProviderStripe, configured: true})
	p := seedPending(t, e, db)
	sleeper := &stepSleeper{}
	e.sleeper = sleeper

	res, err := e.PollStatus(context.Background(), p.ProviderRef(), 4, time.Second)
	if err != nil {
		t.Fatalf("timeout must not be an error: %v", err)
	}
	if res.Outcome != PollTimeout || res.Attempts != 4 {
		t.Errorf("result = %+v, want timeout after 4 attempts", res)
	}
	if sleeper.calls != 3 {
		t.Errorf("sleeps = %d, want 3", sleeper.calls)
	}
	if res.Payment == nil || res.Payment.Status != models.PaymentStatusCreated {
		t.Errorf("last read = %+v", res.Payment)
	}
}

func TestPollStatusNeverAppears(t *testing.T) {
	e, _, _ := newTestEngine(t, &fakeProvider{name: models.ProviderStripe, configured: true})
	e.sleeper = &stepSleeper{}

	res, err := e.PollStatus(context.Background(), "cs_missing", 3, time.Millisecond)
	if err != nil {
		t.Fatalf("PollStatus: %v", err)
	}
	if res.Outcome != PollTimeout || res.Attempts != 3 || res.Payment != nil {
		t.Errorf("result = %+v", res)
	}
}

func TestPollStatusCancelled(t *testing.T) {
	e, _, _ := newTestEngine(t, &fakeProvider{name: models.ProviderStripe, configured: true})
	ctx, cancel := context.WithCancel(context.Background())
	e.sleeper = &stepSleeper{before: func(int) { cancel() }}

	_, err := e.PollStatus(ctx, "cs_missing", 10, time.Second)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestTimerSleeperHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := (timerSleeper{}).Sleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v", err)
	}
}
