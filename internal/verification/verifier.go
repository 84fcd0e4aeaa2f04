// Package verification issues and checks one-time SMS codes for phone
// numbers.
package verification

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/storefront/internal/models"
)

// Credentials identify the sending account at the SMS gateway.
type Credentials struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

// Configured reports whether every credential is present.
func (c Credentials) Configured() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.FromNumber != ""
}

// Config is fixed at construction.
type Config struct {
	CodeLength int
	Expiry     time.Duration
	Gateway    Credentials
}

// Gateway delivers a text message.
type Gateway interface {
	Send(ctx context.Context, to, from, body string) error
}

// Store persists verification records.
type Store interface {
	SavePhoneNumber(ctx context.Context, rec *models.PhoneNumber) error
}

// SendResult tells the caller what happened to a send request. Users see the
// same message for all outcomes.
type SendResult int

const (
	Sent SendResult = iota
	NotConfigured
	DeliveryFailed
)

func (r SendResult) String() string {
	switch r {
	case Sent:
		return "sent"
	case NotConfigured:
		return "not_configured"
	case DeliveryFailed:
		return "delivery_failed"
	default:
		return "unknown"
	}
}

// Verifier sends and checks verification codes. Concurrent sends for the
// same record are not serialised; the last successful write wins.
type Verifier struct {
	cfg     Config
	gateway Gateway
	store   Store
	log     *zap.Logger
	now     func() time.Time
}

// Option customises a Verifier.
type Option func(*Verifier)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(v *Verifier) { v.now = now }
}

// NewVerifier constructs a Verifier.
func NewVerifier(cfg Config, gateway Gateway, store Store, log *zap.Logger, opts ...Option) *Verifier {
	if cfg.CodeLength <= 0 {
		cfg.CodeLength = DefaultCodeLength
	}
	if log == nil {
		log = zap.NewNop()
	}

	v := &Verifier{cfg: cfg, gateway: gateway, store: store, log: log, now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// State reports the current state of rec.
func (v *Verifier) State(rec *models.PhoneNumber) State {
	return StateOf(rec, v.now(), v.cfg.Expiry)
}

// Send texts a new code to rec. Without gateway credentials nothing happens.
// A gateway failure is logged and reported as DeliveryFailed; the record is
// left as it was, so an earlier SentAt (or none) stays in effect.
func (v *Verifier) Send(ctx context.Context, rec *models.PhoneNumber) (SendResult, error) {
	if !v.cfg.Gateway.Configured() {
		return NotConfigured, nil
	}
	if v.State(rec) == Verified {
		return NotConfigured, ErrAlreadyVerified
	}

	code, err := GenerateCode(v.cfg.CodeLength)
	if err != nil {
		return DeliveryFailed, fmt.Errorf("generate security code: %w", err)
	}

	body := fmt.Sprintf("Your verification code is %s", code)
	if err := v.gateway.Send(ctx, rec.Number, v.cfg.Gateway.FromNumber, body); err != nil {
		v.log.Warn("sms delivery failed", zap.String("phone_number", rec.Number), zap.Error(err))
		return DeliveryFailed, nil
	}

	prev := *rec
	if err := Issue(rec, code, v.now()); err != nil {
		return DeliveryFailed, err
	}
	// The text already went out, but the code was never stored, so rec is
	// rolled back to match the store and the delivered code will not verify.
	if err := v.store.SavePhoneNumber(ctx, rec); err != nil {
		*rec = prev
		return DeliveryFailed, fmt.Errorf("save phone number: %w", err)
	}
	return Sent, nil
}

// Check verifies code against rec and persists the verified flag.
func (v *Verifier) Check(ctx context.Context, rec *models.PhoneNumber, code string) error {
	if err := Confirm(rec, code, v.now(), v.cfg.Expiry); err != nil {
		return err
	}
	if err := v.store.SavePhoneNumber(ctx, rec); err != nil {
		return fmt.Errorf("save phone number: %w", err)
	}
	return nil
}
