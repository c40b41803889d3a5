package checker

import (
	"fmt"
	"strings"
	"time"
)

// Classification pairs a verdict with the message shown to the user.
type Classification struct {
	Verdict Verdict
	Message string
}

// Classify applies the availability policy to a lookup result using the
// current time for the expiry comparison. See ClassifyAt for the policy.
func Classify(res LookupResult) Classification {
	return ClassifyAt(res, time.Now())
}

// ClassifyAt is the pure core of the classifier: the same result and clock
// always yield the same classification.
//
// Policy: failed queries are indeterminate; registry-restricted names are
// registered; a missing record, a record whose expiration date has passed,
// or a record with neither creation date nor registrar counts as available;
// anything else is registered, with whichever registration details the
// record carries.
func ClassifyAt(res LookupResult, now time.Time) Classification {
	if res.Failed() {
		return Classification{
			Verdict: VerdictIndeterminate,
			Message: fmt.Sprintf("could not check %s: %v", res.Domain, res.Err),
		}
	}

	if res.Restricted != "" {
		return Classification{
			Verdict: VerdictRegistered,
			Message: fmt.Sprintf("domain %s is %s and cannot be registered normally", res.Domain, res.Restricted),
		}
	}

	if res.NotFound || res.Record == nil {
		return available(res.Domain)
	}

	rec := res.Record
	if rec.Expiration != nil && rec.Expiration.Before(now) {
		return Classification{
			Verdict: VerdictAvailable,
			Message: fmt.Sprintf("domain %s expired on %s and may be available for registration",
				res.Domain, rec.Expiration.Format("2006-01-02")),
		}
	}

	if rec.CreatedDate == "" && rec.Registrar == "" {
		return available(res.Domain)
	}

	details := registrationDetails(rec)
	if len(details) == 0 {
		return Classification{
			Verdict: VerdictRegistered,
			Message: fmt.Sprintf("domain %s appears to be registered, but limited details are available", res.Domain),
		}
	}
	return Classification{
		Verdict: VerdictRegistered,
		Message: fmt.Sprintf("domain %s is registered (%s)", res.Domain, strings.Join(details, " | ")),
	}
}

func available(domain string) Classification {
	return Classification{
		Verdict: VerdictAvailable,
		Message: fmt.Sprintf("domain %s appears to be available (no registration record found)", domain),
	}
}

// registrationDetails renders the record fields that are present, in the
// order registries usually list them.
func registrationDetails(rec *Record) []string {
	var details []string
	if rec.CreatedDate != "" {
		details = append(details, "created: "+rec.CreatedDate)
	}
	if rec.ExpirationDate != "" {
		details = append(details, "expires: "+rec.ExpirationDate)
	}
	if rec.Registrar != "" {
		details = append(details, "registrar: "+rec.Registrar)
	}
	if n := len(rec.NameServers); n > 0 {
		details = append(details, fmt.Sprintf("nameservers: %d configured", n))
	}
	if len(rec.Statuses) > 0 {
		details = append(details, "status: "+summarizeStatuses(rec.Statuses))
	}
	return details
}

// summarizeStatuses keeps status lists short; registries can attach a dozen
// EPP statuses to one domain.
func summarizeStatuses(statuses []string) string {
	if len(statuses) <= 2 {
		return strings.Join(statuses, ", ")
	}
	return fmt.Sprintf("%s and %d more", strings.Join(statuses[:2], ", "), len(statuses)-2)
}
