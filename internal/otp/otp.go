// Package otp issues and verifies the numeric one-time codes that gate work
// session transitions between employer and employee.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
)

// DefaultTTL is how long an issued code stays valid.
const DefaultTTL = 30 * time.Minute

// CodeLength is the number of digits in a code.
const CodeLength = 6

// Result classifies a verification attempt. Mismatch and Expired are
// distinct so callers can prompt "wrong code" vs "code expired".
type Result int

// Verification results
const (
	Match Result = iota
	Mismatch
	Expired
)

func (r Result) String() string {
	switch r {
	case Match:
		return "match"
	case Mismatch:
		return "mismatch"
	case Expired:
		return "expired"
	}
	return "unknown"
}

// Issuer generates one-time codes and their expiry timestamps.
type Issuer struct {
	ttl time.Duration
	now func() time.Time
}

// NewIssuer creates an Issuer with the given TTL. A non-positive TTL falls
// back to DefaultTTL.
func NewIssuer(ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{ttl: ttl, now: time.Now}
}

// Issue generates a uniformly random six-digit code as a zero-padded string
// (range 000000-999999) and its expiry. Zero-padding is the documented
// choice here; Verify tolerates codes that lost their padding in transit.
func (i *Issuer) Issue() (string, time.Time, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate code: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64())
	return code, i.now().Add(i.ttl), nil
}

// Verify compares a submitted code against the stored one and checks the
// expiry independently. Both sides are trimmed; the comparison accepts
// either an exact string match or an equal integer value, so codes survive
// numeric round-trips through lossy storage that drop leading zeros.
func (i *Issuer) Verify(submitted, stored string, expiresAt time.Time) Result {
	if i.now().After(expiresAt) {
		return Expired
	}

	submitted = strings.TrimSpace(submitted)
	stored = strings.TrimSpace(stored)
	if submitted == "" || stored == "" {
		return Mismatch
	}
	if submitted == stored {
		return Match
	}

	sub, err1 := strconv.Atoi(submitted)
	sto, err2 := strconv.Atoi(stored)
	if err1 == nil && err2 == nil && sub == sto {
		return Match
	}
	return Mismatch
}
