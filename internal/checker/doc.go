// Package checker implements the lookup side of domlook.
//
// Architecture overview:
//
//   - ValidateDomain and NormalizeDomain gate every user-supplied name
//     before a single byte goes on the wire.
//   - Lookup backends implement the DomainChecker interface (Check + Name).
//     WhoisChecker queries the registry through the likexian whois client
//     and parses the raw response; RDAPChecker is the RDAP equivalent;
//     FallbackChecker chains the two so a WHOIS outage does not immediately
//     surface as an indeterminate verdict.
//   - Every backend collapses its library-specific failures into the
//     sentinel errors ErrTimeout, ErrNetwork and ErrMalformedResponse, so
//     callers never see transport detail.
//   - Classify turns a LookupResult into an availability verdict. It is a
//     pure function; the interactive loop in internal/session is its only
//     production caller.
//
// This layout keeps protocol logic internal while cmd/ simply assembles a
// backend and feeds it into the session loop.
package checker
