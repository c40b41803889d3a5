package checker

import (
	"fmt"
	"regexp"
	"strings"
)

// domainPattern matches standard hostnames: dot-separated labels of
// alphanumerics and hyphens (no leading or trailing hyphen, 63 characters
// per label) ending in an alphabetic TLD of 2-10 characters.
var domainPattern = regexp.MustCompile(`^([a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,10}$`)

// maxDomainLength is the RFC 1035 limit on a full domain name.
const maxDomainLength = 253

// NormalizeDomain trims surrounding whitespace and lowercases the name.
// Applying it twice yields the same result.
func NormalizeDomain(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// ValidateDomain normalizes raw input and checks it against the hostname
// pattern. It returns the normalized name, or an error describing why the
// input is not a plausible domain name. Validation failures are never
// fatal; callers re-prompt.
func ValidateDomain(raw string) (string, error) {
	name := NormalizeDomain(raw)
	if name == "" {
		return "", fmt.Errorf("domain name cannot be empty")
	}
	if len(name) > maxDomainLength {
		return "", fmt.Errorf("domain name exceeds %d characters", maxDomainLength)
	}
	if !domainPattern.MatchString(name) {
		return "", fmt.Errorf("invalid domain format: %q", name)
	}
	return name, nil
}
