package verification

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/example/storefront/internal/models"
)

// State is the lifecycle position of a phone verification record.
type State int

const (
	// Unsent records have never had a code delivered.
	Unsent State = iota
	// Pending records hold a delivered code that has not expired.
	Pending
	// Expired records hold a delivered code older than the expiry window.
	Expired
	// Verified is terminal.
	Verified
)

func (s State) String() string {
	switch s {
	case Unsent:
		return "unsent"
	case Pending:
		return "pending"
	case Expired:
		return "expired"
	case Verified:
		return "verified"
	default:
		return "unknown"
	}
}

var (
	// ErrVerificationFailed covers a wrong code, an expired or unsent code and
	// an already verified record. Callers never learn which.
	ErrVerificationFailed = errors.New("your security code is wrong, expired or this phone is verified before")
	// ErrAlreadyVerified is returned when a code is issued for a verified record.
	ErrAlreadyVerified = errors.New("phone number is already verified")
)

// StateOf derives the state of rec at now. A code is expired once
// SentAt+expiry is less than or equal to now.
func StateOf(rec *models.PhoneNumber, now time.Time, expiry time.Duration) State {
	switch {
	case rec.IsVerified || rec.Status == models.VerificationVerified:
		return Verified
	case rec.SentAt == nil:
		return Unsent
	case !now.Before(rec.SentAt.Add(expiry)):
		return Expired
	default:
		return Pending
	}
}

// Issue records a freshly delivered code. Any earlier code stops matching.
func Issue(rec *models.PhoneNumber, code string, now time.Time) error {
	if rec.IsVerified || rec.Status == models.VerificationVerified {
		return ErrAlreadyVerified
	}

	sent := now
	rec.SecurityCode = code
	rec.SentAt = &sent
	rec.Status = models.VerificationPending
	return nil
}

// Confirm moves a pending record to verified when code matches. There is no
// path back out of Verified.
func Confirm(rec *models.PhoneNumber, code string, now time.Time, expiry time.Duration) error {
	if StateOf(rec, now, expiry) != Pending {
		return ErrVerificationFailed
	}
	if rec.SecurityCode == "" || subtle.ConstantTimeCompare([]byte(rec.SecurityCode), []byte(code)) != 1 {
		return ErrVerificationFailed
	}

	rec.IsVerified = true
	rec.Status = models.VerificationVerified
	return nil
}
