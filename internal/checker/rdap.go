package checker

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/openrdap/rdap"
	"go.uber.org/zap"
)

// RDAPChecker looks domains up over RDAP, the structured successor to
// WHOIS. It serves as a second opinion for TLDs with flaky WHOIS servers.
type RDAPChecker struct {
	Log *zap.SugaredLogger

	client *rdap.Client
}

// NewRDAPChecker returns a checker backed by the default RDAP bootstrap
// registry.
func NewRDAPChecker(log *zap.SugaredLogger) *RDAPChecker {
	return &RDAPChecker{Log: log, client: &rdap.Client{}}
}

// Name implements DomainChecker.
func (c *RDAPChecker) Name() string { return "rdap" }

// Check implements DomainChecker. A pending query aborts when ctx is
// canceled.
func (c *RDAPChecker) Check(ctx context.Context, domain string) LookupResult {
	res := LookupResult{Domain: domain, CheckedAt: time.Now().UTC(), Source: c.Name()}
	if c.client == nil {
		c.client = &rdap.Client{}
	}

	type answer struct {
		dom *rdap.Domain
		err error
	}
	ch := make(chan answer, 1)
	go func() {
		dom, err := c.client.QueryDomain(domain)
		ch <- answer{dom: dom, err: err}
	}()

	select {
	case <-ctx.Done():
		res.Err = ctx.Err()
		return res
	case ans := <-ch:
		if ans.err != nil {
			if isRDAPNotFound(ans.err) {
				res.NotFound = true
				return res
			}
			res.Err = normalizeLookupError(ans.err)
			return res
		}
		res.Record = recordFromRDAP(ans.dom)
		return res
	}
}

// isRDAPNotFound reports whether the error means the registry has no object
// for the queried name.
func isRDAPNotFound(err error) bool {
	var cerr *rdap.ClientError
	if errors.As(err, &cerr) {
		return cerr.Type == rdap.ObjectDoesNotExist
	}
	return strings.Contains(strings.ToLower(err.Error()), "object does not exist")
}

// recordFromRDAP maps an RDAP domain object onto the shared record shape.
// Registration facts live in the event list; the registrar is the entity
// carrying the "registrar" role.
func recordFromRDAP(dom *rdap.Domain) *Record {
	if dom == nil {
		return &Record{}
	}

	rec := &Record{Statuses: dom.Status}
	for _, ev := range dom.Events {
		switch ev.Action {
		case "registration":
			rec.CreatedDate = ev.Date
		case "expiration":
			rec.ExpirationDate = ev.Date
			if t, err := time.Parse(time.RFC3339, ev.Date); err == nil {
				rec.Expiration = &t
			}
		case "last changed":
			rec.UpdatedDate = ev.Date
		}
	}
	for _, ns := range dom.Nameservers {
		if ns.LDHName != "" {
			rec.NameServers = append(rec.NameServers, ns.LDHName)
		}
	}
	for _, ent := range dom.Entities {
		if !hasRole(ent.Roles, "registrar") || ent.VCard == nil {
			continue
		}
		if name := ent.VCard.Name(); name != "" {
			rec.Registrar = name
			break
		}
	}
	return rec
}

func hasRole(roles []string, want string) bool {
	for _, r := range roles {
		if strings.EqualFold(r, want) {
			return true
		}
	}
	return false
}

// FallbackChecker tries a primary backend and, when the query itself fails,
// retries through a secondary one. Definitive outcomes from the primary
// (record found, not found, restricted) are final.
type FallbackChecker struct {
	Primary   DomainChecker
	Secondary DomainChecker
	Log       *zap.SugaredLogger
}

// Name implements DomainChecker.
func (c *FallbackChecker) Name() string {
	return c.Primary.Name() + "+" + c.Secondary.Name()
}

// Check implements DomainChecker. When both backends fail, the primary's
// failure is the one reported.
func (c *FallbackChecker) Check(ctx context.Context, domain string) LookupResult {
	res := c.Primary.Check(ctx, domain)
	if res.Err == nil || errors.Is(res.Err, context.Canceled) || ctx.Err() != nil {
		return res
	}

	if c.Log != nil {
		c.Log.Debugw("primary lookup failed, trying fallback",
			"domain", domain, "fallback", c.Secondary.Name(), "error", res.Err)
	}
	fallback := c.Secondary.Check(ctx, domain)
	if fallback.Err != nil {
		return res
	}
	return fallback
}
