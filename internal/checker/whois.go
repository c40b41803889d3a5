package checker

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"
	"go.uber.org/zap"
)

// DefaultLookupTimeout bounds a single WHOIS query when no timeout is
// configured.
const DefaultLookupTimeout = 10 * time.Second

// retryBackoff is the initial wait before a retried query; it doubles per
// attempt.
const retryBackoff = 500 * time.Millisecond

// WhoisChecker performs WHOIS lookups through the likexian whois client and
// normalizes the parsed response into a LookupResult.
type WhoisChecker struct {
	Timeout time.Duration
	Retries int // additional attempts after a transport failure
	Log     *zap.SugaredLogger

	client *whois.Client
}

// NewWhoisChecker returns a checker whose underlying client enforces
// timeout on every connection. A nil logger disables debug output.
func NewWhoisChecker(timeout time.Duration, log *zap.SugaredLogger) *WhoisChecker {
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}
	return &WhoisChecker{
		Timeout: timeout,
		Log:     log,
		client:  whois.NewClient().SetTimeout(timeout),
	}
}

// Name implements DomainChecker.
func (c *WhoisChecker) Name() string { return "whois" }

// Check queries the registry for domain and returns a normalized result. A
// pending query aborts when ctx is canceled.
func (c *WhoisChecker) Check(ctx context.Context, domain string) LookupResult {
	res := LookupResult{Domain: domain, CheckedAt: time.Now().UTC(), Source: c.Name()}

	raw, err := c.query(ctx, domain)
	if err != nil {
		res.Err = normalizeLookupError(err)
		return res
	}

	info, err := whoisparser.Parse(raw)
	if err != nil {
		applyParserError(&res, err)
		return res
	}
	res.Record = recordFromWhois(info)
	return res
}

// query runs the blocking library call in a goroutine so the select can
// observe ctx, retrying transport failures with doubling backoff.
func (c *WhoisChecker) query(ctx context.Context, domain string) (string, error) {
	if c.client == nil {
		timeout := c.Timeout
		if timeout <= 0 {
			timeout = DefaultLookupTimeout
		}
		c.client = whois.NewClient().SetTimeout(timeout)
	}

	type answer struct {
		raw string
		err error
	}

	var lastErr error
	backoff := retryBackoff
	for attempt := 0; attempt <= c.Retries; attempt++ {
		if attempt > 0 {
			if c.Log != nil {
				c.Log.Debugw("retrying whois query",
					"domain", domain, "attempt", attempt, "error", lastErr)
			}
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		ch := make(chan answer, 1)
		go func() {
			raw, err := c.client.Whois(domain)
			ch <- answer{raw: raw, err: err}
		}()

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case ans := <-ch:
			if ans.err == nil {
				return ans.raw, nil
			}
			lastErr = ans.err
		}
	}
	return "", lastErr
}

// normalizeLookupError collapses transport errors into the package's
// sentinel failures. Context cancellation passes through untouched so the
// session loop can tell an interrupt from a lookup failure.
func normalizeLookupError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	if strings.Contains(strings.ToLower(err.Error()), "timeout") {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}

// applyParserError maps whois-parser outcomes onto the result. A "not
// found" response is a successful lookup that proves absence, not an error.
func applyParserError(res *LookupResult, err error) {
	switch {
	case errors.Is(err, whoisparser.ErrNotFoundDomain):
		res.NotFound = true
	case errors.Is(err, whoisparser.ErrReservedDomain):
		res.Restricted = "reserved by the registry"
	case errors.Is(err, whoisparser.ErrPremiumDomain):
		res.Restricted = "a premium name held by the registry"
	case errors.Is(err, whoisparser.ErrBlockedDomain):
		res.Restricted = "blocked by the registry"
	case errors.Is(err, whoisparser.ErrDomainLimitExceed):
		res.Err = fmt.Errorf("%w: whois query limit exceeded", ErrNetwork)
	default:
		res.Err = fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
}

// recordFromWhois flattens the parsed WHOIS document into the shared
// record shape.
func recordFromWhois(info whoisparser.WhoisInfo) *Record {
	rec := &Record{}
	if info.Domain != nil {
		rec.CreatedDate = info.Domain.CreatedDate
		rec.UpdatedDate = info.Domain.UpdatedDate
		rec.ExpirationDate = info.Domain.ExpirationDate
		rec.Expiration = info.Domain.ExpirationDateInTime
		rec.NameServers = info.Domain.NameServers
		rec.Statuses = info.Domain.Status
	}
	if info.Registrar != nil {
		rec.Registrar = info.Registrar.Name
	}
	return rec
}
