package session

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/nvkha/domlook/internal/checker"
)

func TestRun_MissingDependencies(t *testing.T) {
	sess := &Session{}
	state, err := sess.Run(context.Background())
	if !errors.Is(err, ErrMissingDependencies) {
		t.Fatalf("expected ErrMissingDependencies, got %v", err)
	}
	if state == nil {
		t.Fatal("expected an empty state even on misconfiguration")
	}
}

// scriptedChecker returns canned results per domain and records every call.
type scriptedChecker struct {
	results map[string]checker.LookupResult
	calls   []string
}

func (s *scriptedChecker) Name() string { return "scripted" }

func (s *scriptedChecker) Check(ctx context.Context, domain string) checker.LookupResult {
	s.calls = append(s.calls, domain)
	res, ok := s.results[domain]
	if !ok {
		res = checker.LookupResult{NotFound: true}
	}
	res.Domain = domain
	res.Source = s.Name()
	return res
}

func availableResult() checker.LookupResult {
	return checker.LookupResult{NotFound: true}
}

func registeredResult() checker.LookupResult {
	return checker.LookupResult{
		Record: &checker.Record{
			Registrar:   "Example Registrar Inc",
			CreatedDate: "1995-08-14",
		},
	}
}

func timeoutResult() checker.LookupResult {
	return checker.LookupResult{Err: checker.ErrTimeout}
}

func runSession(t *testing.T, input string, chk checker.DomainChecker) (*State, string) {
	t.Helper()
	var out bytes.Buffer
	sess := &Session{In: strings.NewReader(input), Out: &out, Checker: chk}
	state, err := sess.Run(context.Background())
	if err != nil {
		t.Fatalf("session failed: %v", err)
	}
	return state, out.String()
}

func TestRun_ExitTokens(t *testing.T) {
	for _, token := range []string{"quit", "exit", "q", "QUIT", "Exit", " Q "} {
		t.Run(token, func(t *testing.T) {
			chk := &scriptedChecker{}
			state, _ := runSession(t, token+"\n", chk)
			if state.Checked != 0 {
				t.Errorf("exit token must not count as a lookup, got %d", state.Checked)
			}
			if len(chk.calls) != 0 {
				t.Errorf("exit token must not trigger a lookup, got %v", chk.calls)
			}
		})
	}
}

func TestRun_EOFTerminates(t *testing.T) {
	chk := &scriptedChecker{}
	state, _ := runSession(t, "", chk)
	if state.Checked != 0 || len(state.Available) != 0 {
		t.Errorf("unexpected state after EOF: %+v", state)
	}
}

func TestRun_InvalidInputSkipsLookup(t *testing.T) {
	chk := &scriptedChecker{}
	state, output := runSession(t, "not a domain!!\nquit\n", chk)

	if len(chk.calls) != 0 {
		t.Fatalf("invalid input must never reach the checker, got calls %v", chk.calls)
	}
	if state.Checked != 0 {
		t.Errorf("invalid input must not count, got %d", state.Checked)
	}
	if !strings.Contains(output, "Invalid domain format") {
		t.Errorf("expected a format error, got output:\n%s", output)
	}
	if !strings.Contains(output, "example.com, sub.example.net") {
		t.Errorf("expected a pattern hint, got output:\n%s", output)
	}
}

func TestRun_EmptyLineReprompts(t *testing.T) {
	chk := &scriptedChecker{}
	state, output := runSession(t, "\n   \nquit\n", chk)

	if state.Checked != 0 || len(chk.calls) != 0 {
		t.Error("blank lines must not trigger lookups")
	}
	if !strings.Contains(output, "Please enter a domain name") {
		t.Errorf("expected blank-line message, got output:\n%s", output)
	}
}

func TestRun_AvailableDomainRecorded(t *testing.T) {
	chk := &scriptedChecker{results: map[string]checker.LookupResult{
		"some-definitely-unregistered-name-xyz123.com": availableResult(),
	}}
	state, output := runSession(t, "some-definitely-unregistered-name-xyz123.com\nexit\n", chk)

	if state.Checked != 1 {
		t.Errorf("expected 1 lookup, got %d", state.Checked)
	}
	if len(state.Available) != 1 || state.Available[0] != "some-definitely-unregistered-name-xyz123.com" {
		t.Errorf("expected domain in available list, got %v", state.Available)
	}
	if !strings.Contains(output, "✓") {
		t.Errorf("expected a positive confirmation, got output:\n%s", output)
	}
}

func TestRun_RegisteredDomainNotRecorded(t *testing.T) {
	chk := &scriptedChecker{results: map[string]checker.LookupResult{
		"example.com": registeredResult(),
	}}
	state, output := runSession(t, "example.com\nexit\n", chk)

	if state.Checked != 1 {
		t.Errorf("expected 1 lookup, got %d", state.Checked)
	}
	if len(state.Available) != 0 {
		t.Errorf("registered domain must not be recorded, got %v", state.Available)
	}
	if !strings.Contains(output, "✗") {
		t.Errorf("expected a negative confirmation, got output:\n%s", output)
	}
	if !strings.Contains(output, "registrar: Example Registrar Inc") {
		t.Errorf("expected registrar detail, got output:\n%s", output)
	}
}

func TestRun_IndeterminateNotRecorded(t *testing.T) {
	chk := &scriptedChecker{results: map[string]checker.LookupResult{
		"example.com": timeoutResult(),
	}}
	state, output := runSession(t, "example.com\nexit\n", chk)

	if len(state.Available) != 0 {
		t.Errorf("indeterminate verdict must not be recorded, got %v", state.Available)
	}
	if !strings.Contains(output, "?") {
		t.Errorf("expected indeterminate marker, got output:\n%s", output)
	}
}

func TestRun_DedupByNormalizedName(t *testing.T) {
	chk := &scriptedChecker{results: map[string]checker.LookupResult{
		"unclaimed-name.com": availableResult(),
	}}
	state, _ := runSession(t, "unclaimed-name.com\nUNCLAIMED-NAME.com\nquit\n", chk)

	if state.Checked != 2 {
		t.Errorf("both lookups should count, got %d", state.Checked)
	}
	if len(state.Available) != 1 {
		t.Errorf("expected one deduplicated entry, got %v", state.Available)
	}
}

func TestRun_DuplicatesAllowedWhenConfigured(t *testing.T) {
	chk := &scriptedChecker{results: map[string]checker.LookupResult{
		"unclaimed-name.com": availableResult(),
	}}
	var out bytes.Buffer
	sess := &Session{
		In:              strings.NewReader("unclaimed-name.com\nunclaimed-name.com\nquit\n"),
		Out:             &out,
		Checker:         chk,
		AllowDuplicates: true,
	}
	state, err := sess.Run(context.Background())
	if err != nil {
		t.Fatalf("session failed: %v", err)
	}
	if len(state.Available) != 2 {
		t.Errorf("expected both occurrences recorded, got %v", state.Available)
	}
}

func TestRun_MixedSessionPreservesOrder(t *testing.T) {
	chk := &scriptedChecker{results: map[string]checker.LookupResult{
		"first-free.com":  availableResult(),
		"example.com":     registeredResult(),
		"second-free.net": availableResult(),
	}}
	state, _ := runSession(t, "first-free.com\nexample.com\nsecond-free.net\nexit\n", chk)

	if state.Checked != 3 {
		t.Errorf("expected 3 lookups, got %d", state.Checked)
	}
	want := []string{"first-free.com", "second-free.net"}
	if len(state.Available) != len(want) {
		t.Fatalf("expected %v, got %v", want, state.Available)
	}
	for i := range want {
		if state.Available[i] != want[i] {
			t.Fatalf("insertion order lost: expected %v, got %v", want, state.Available)
		}
	}
}

func TestRun_InterruptDuringPendingQuery(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	chk := &scriptedChecker{
		results: map[string]checker.LookupResult{"prior-free.com": availableResult()},
	}
	// First query succeeds; the second simulates an interrupt mid-query.
	var out bytes.Buffer
	sess := &Session{
		In:      strings.NewReader("prior-free.com\nexample.com\n"),
		Out:     &out,
		Checker: &interruptOnNthCall{n: 2, cancel: cancel, inner: chk},
	}

	state, err := sess.Run(ctx)
	if err != nil {
		t.Fatalf("session failed: %v", err)
	}
	if state.Checked != 2 {
		t.Errorf("both attempts should count, got %d", state.Checked)
	}
	if len(state.Available) != 1 || state.Available[0] != "prior-free.com" {
		t.Errorf("state accumulated before the interrupt must survive, got %v", state.Available)
	}
	if !strings.Contains(out.String(), "Search interrupted") {
		t.Errorf("expected interrupt notice, got output:\n%s", out.String())
	}
}

// interruptOnNthCall cancels the session context on its nth lookup.
type interruptOnNthCall struct {
	n      int
	calls  int
	cancel context.CancelFunc
	inner  checker.DomainChecker
}

func (s *interruptOnNthCall) Name() string { return "interrupting" }

func (s *interruptOnNthCall) Check(ctx context.Context, domain string) checker.LookupResult {
	s.calls++
	if s.calls >= s.n {
		s.cancel()
		return checker.LookupResult{Domain: domain, Err: context.Canceled}
	}
	return s.inner.Check(ctx, domain)
}

func TestRun_InterruptWhileAwaitingInput(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pr, pw := io.Pipe()
	defer pw.Close()

	var out bytes.Buffer
	sess := &Session{In: pr, Out: &out, Checker: &scriptedChecker{}}

	done := make(chan *State, 1)
	go func() {
		state, _ := sess.Run(ctx)
		done <- state
	}()

	cancel()

	select {
	case state := <-done:
		if state == nil {
			t.Fatal("expected state even after interrupt")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("session did not terminate on context cancellation")
	}
}
