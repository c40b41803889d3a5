package checker

import (
	"context"
	"errors"
	"time"
)

// Verdict is the availability classification for a single domain.
type Verdict string

const (
	VerdictAvailable     Verdict = "available"
	VerdictRegistered    Verdict = "registered"
	VerdictIndeterminate Verdict = "indeterminate"
)

// Normalized lookup failures. Backend-specific errors collapse to one of
// these before a result leaves the adapter.
var (
	ErrTimeout           = errors.New("lookup timed out")
	ErrNetwork           = errors.New("network failure")
	ErrMalformedResponse = errors.New("malformed registry response")
)

// Record holds the registration fields extracted from a WHOIS or RDAP
// response. Zero values mean the field was absent from the response.
type Record struct {
	Registrar      string
	CreatedDate    string
	UpdatedDate    string
	ExpirationDate string
	Expiration     *time.Time // parsed form of ExpirationDate when available
	NameServers    []string
	Statuses       []string
}

// LookupResult is the outcome of one registry query for one domain.
type LookupResult struct {
	Domain    string
	CheckedAt time.Time
	Source    string  // backend that produced the result, e.g. "whois"
	Record    *Record // nil when the query failed or no record exists
	NotFound  bool    // registry explicitly reported no matching object
	// Restricted marks names the registry withholds from normal
	// registration (reserved, premium, blocked).
	Restricted string
	// Err wraps ErrTimeout, ErrNetwork or ErrMalformedResponse, or carries
	// the caller's context error when the query was canceled.
	Err error
}

// Failed reports whether the query produced no usable answer.
func (r LookupResult) Failed() bool { return r.Err != nil }

// DomainChecker is the interface all lookup backends satisfy.
type DomainChecker interface {
	// Check performs one lookup for a normalized domain name. It never
	// returns transport errors directly; failures are normalized into the
	// result.
	Check(ctx context.Context, domain string) LookupResult

	// Name identifies the backend, e.g. "whois" or "rdap".
	Name() string
}
