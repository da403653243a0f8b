// Package notify tells the owner and the renter that a payment went through.
// Delivery is best effort: failures are logged and reported, never returned
// to the settlement path.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/models"
	"golang.org/x/sync/errgroup"
)

var (
	ErrChannelUnconfigured = errors.New("notification channel not configured")
	ErrRecipientUnknown    = errors.New("recipient not found")
)

type UserFinder interface {
	FindUserByUID(ctx context.Context, uid string) (*models.User, error)
}

type ListingFinder interface {
	FindListing(ctx context.Context, id uuid.UUID) (*models.Listing, error)
}

type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

const (
	RoleOwner  = "owner"
	RoleRenter = "renter"

	ChannelEmail = "email"
	ChannelSMS   = "sms"

	StatusSent    = "sent"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// Delivery is the outcome of one channel for one recipient.
type Delivery struct {
	Role    string
	Channel string
	Status  string
	Err     error
}

type Dispatcher struct {
	users    UserFinder
	listings ListingFinder
	email    EmailSender
	sms      SMSSender
}

// configurable is implemented by senders that can exist without credentials.
type configurable interface {
	Configured() bool
}

// NewDispatcher builds a dispatcher. A nil or unconfigured sender disables
// that channel; its deliveries are skipped with ErrChannelUnconfigured.
func NewDispatcher(users UserFinder, listings ListingFinder, email EmailSender, sms SMSSender) *Dispatcher {
	if c, ok := email.(configurable); ok && !c.Configured() {
		email = nil
	}
	if c, ok := sms.(configurable); ok && !c.Configured() {
		sms = nil
	}
	return &Dispatcher{users: users, listings: listings, email: email, sms: sms}
}

// Notify satisfies settlement.Notifier.
func (d *Dispatcher) Notify(ctx context.Context, p *models.Payment) {
	d.Dispatch(ctx, p)
}

// Dispatch sends the paid-payment messages to the owner and the renter
// concurrently and returns every delivery outcome.
func (d *Dispatcher) Dispatch(ctx context.Context, p *models.Payment) []Delivery {
	title := p.ListingID.String()
	if listing, err := d.listings.FindListing(ctx, p.ListingID); err == nil {
		title = listing.Title
	} else {
		slog.Warn("notify: listing lookup failed", "payment_id", p.ID, "error", err)
	}

	amount := fmt.Sprintf("%s %s", p.Amount.StringFixed(2), p.Currency)
	recipients := []struct {
		role, uid string
		msg       message
	}{
		{RoleOwner, p.OwnerID, message{
			subject: fmt.Sprintf("Payment received for %s", title),
			body:    fmt.Sprintf("Payment of %s received for listing %s.\nPayment reference: %s", amount, title, p.ProviderRef()),
			sms:     fmt.Sprintf("Your listing %s was paid %s.", title, amount),
		}},
		{RoleRenter, p.RenterID, message{
			subject: "Payment successful",
			body:    fmt.Sprintf("You paid %s for %s.", amount, title),
			sms:     fmt.Sprintf("You paid %s for %s.", amount, title),
		}},
	}

	results := make([][]Delivery, len(recipients))
	var g errgroup.Group
	for i, r := range recipients {
		i, r := i, r
		g.Go(func() error {
			results[i] = d.deliver(ctx, p, r.role, r.uid, r.msg)
			return nil
		})
	}
	_ = g.Wait()

	var out []Delivery
	for _, rs := range results {
		out = append(out, rs...)
	}
	return out
}

type message struct {
	subject string
	body    string
	sms     string
}

func (d *Dispatcher) deliver(ctx context.Context, p *models.Payment, role, uid string, msg message) []Delivery {
	user, err := d.users.FindUserByUID(ctx, uid)
	if err != nil {
		d.report(p, role, "lookup", fmt.Errorf("%w: %v", ErrRecipientUnknown, err))
		return []Delivery{
			{Role: role, Channel: ChannelEmail, Status: StatusFailed, Err: ErrRecipientUnknown},
			{Role: role, Channel: ChannelSMS, Status: StatusFailed, Err: ErrRecipientUnknown},
		}
	}

	out := make([]Delivery, 0, 2)

	switch {
	case user.Email == "" || !user.EmailNotifications:
		out = append(out, Delivery{Role: role, Channel: ChannelEmail, Status: StatusSkipped})
	case d.email == nil:
		out = append(out, Delivery{Role: role, Channel: ChannelEmail, Status: StatusSkipped, Err: ErrChannelUnconfigured})
	default:
		out = append(out, d.send(p, role, ChannelEmail, d.email.SendEmail(ctx, user.Email, msg.subject, msg.body)))
	}

	switch {
	case user.Phone == "":
		out = append(out, Delivery{Role: role, Channel: ChannelSMS, Status: StatusSkipped})
	case d.sms == nil:
		out = append(out, Delivery{Role: role, Channel: ChannelSMS, Status: StatusSkipped, Err: ErrChannelUnconfigured})
	default:
		out = append(out, d.send(p, role, ChannelSMS, d.sms.SendSMS(ctx, user.Phone, msg.sms)))
	}

	return out
}

func (d *Dispatcher) send(p *models.Payment, role, channel string, err error) Delivery {
	if err != nil {
		d.report(p, role, channel, err)
		return Delivery{Role: role, Channel: channel, Status: StatusFailed, Err: err}
	}
	return Delivery{Role: role, Channel: channel, Status: StatusSent}
}

func (d *Dispatcher) report(p *models.Payment, role, channel string, err error) {
	slog.Error("payment notification failed",
		"action", "notify."+channel,
		"payment_id", p.ID,
		"provider_ref", p.ProviderRef(),
		"recipient", role,
		"error", err,
	)
	if errors.Is(err, ErrChannelUnconfigured) {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("channel", channel)
		scope.SetTag("recipient", role)
		scope.SetExtra("payment_id", p.ID.String())
		sentry.CaptureException(err)
	})
}
