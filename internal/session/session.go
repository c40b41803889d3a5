// Package session drives the interactive read-eval loop and renders the
// end-of-session summary. State lives in an explicit object owned by the
// loop and handed back to the caller, so the loop is testable without
// process-level side effects.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/nvkha/domlook/internal/checker"
)

// exitTokens end the interactive loop when typed on their own line.
var exitTokens = map[string]struct{}{
	"quit": {},
	"exit": {},
	"q":    {},
}

// StyleFunc renders user-facing text; fatih/color SprintFuncs satisfy it.
// A nil StyleFunc renders plain text.
type StyleFunc func(a ...interface{}) string

// State accumulates the outcome of one interactive session. It is created
// by Run and mutated only by the loop that owns it.
type State struct {
	// Checked counts lookups performed; inputs rejected by validation do
	// not count.
	Checked int
	// Available lists available domains in insertion order.
	Available []string

	seen map[string]struct{}
}

func newState() *State {
	return &State{seen: make(map[string]struct{})}
}

// recordAvailable appends domain to the available list. Unless duplicates
// are allowed, a domain is recorded at most once per session.
func (s *State) recordAvailable(domain string, allowDuplicates bool) {
	if !allowDuplicates {
		if _, ok := s.seen[domain]; ok {
			return
		}
		s.seen[domain] = struct{}{}
	}
	s.Available = append(s.Available, domain)
}

// Session wires the interactive loop together. In, Out and Checker are
// required; everything else is optional.
type Session struct {
	In      io.Reader
	Out     io.Writer
	Checker checker.DomainChecker

	// Limiter paces successive lookups so WHOIS servers are not hammered.
	Limiter *rate.Limiter
	// AllowDuplicates records every available occurrence instead of
	// deduplicating by normalized name.
	AllowDuplicates bool
	Log             *zap.SugaredLogger

	// Styling hooks for positive, negative and cautionary output.
	Good StyleFunc
	Bad  StyleFunc
	Warn StyleFunc
}

// ErrMissingDependencies reports a session started without its required
// collaborators.
var ErrMissingDependencies = errors.New("session: missing dependencies")

// Run drives the loop until an exit token, end of input, or context
// cancellation, and returns the accumulated state on every exit path. The
// returned error is non-nil only when the session is misconfigured or the
// input stream itself breaks.
func (s *Session) Run(ctx context.Context) (*State, error) {
	state := newState()
	if s.In == nil || s.Out == nil || s.Checker == nil {
		return state, ErrMissingDependencies
	}

	// Input is read on its own goroutine so an interrupt is observed even
	// while blocked on a read.
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.In)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		fmt.Fprint(s.Out, "\nEnter domain to check (e.g. example.com): ")

		var line string
		var open bool
		select {
		case <-ctx.Done():
			s.printInterrupted()
			return state, nil
		case line, open = <-lines:
			if !open {
				select {
				case err := <-readErr:
					if err != nil {
						return state, fmt.Errorf("reading input: %w", err)
					}
				default:
				}
				fmt.Fprintln(s.Out)
				return state, nil
			}
		}

		input := checker.NormalizeDomain(line)
		if input == "" {
			fmt.Fprintln(s.Out, "Please enter a domain name")
			continue
		}
		if _, ok := exitTokens[input]; ok {
			return state, nil
		}

		domain, err := checker.ValidateDomain(input)
		if err != nil {
			fmt.Fprintln(s.Out, s.bad("Invalid domain format: "+input))
			fmt.Fprintln(s.Out, "Domain should match pattern: example.com, sub.example.net, etc.")
			if s.Log != nil {
				s.Log.Debugw("rejected input", "input", input, "error", err)
			}
			continue
		}

		if s.Limiter != nil {
			if err := s.Limiter.Wait(ctx); err != nil {
				s.printInterrupted()
				return state, nil
			}
		}

		fmt.Fprintln(s.Out, s.warn("Checking "+domain+"..."))
		state.Checked++

		res := s.Checker.Check(ctx, domain)
		if ctx.Err() != nil {
			s.printInterrupted()
			return state, nil
		}

		cls := checker.Classify(res)
		switch cls.Verdict {
		case checker.VerdictAvailable:
			state.recordAvailable(domain, s.AllowDuplicates)
			fmt.Fprintln(s.Out, s.good("✓ "+cls.Message))
		case checker.VerdictRegistered:
			fmt.Fprintln(s.Out, s.bad("✗ "+cls.Message))
		default:
			fmt.Fprintln(s.Out, s.warn("? "+cls.Message))
		}

		if s.Log != nil {
			s.Log.Debugw("domain checked",
				"domain", domain, "verdict", string(cls.Verdict), "source", res.Source)
		}
	}
}

func (s *Session) printInterrupted() {
	fmt.Fprintln(s.Out)
	fmt.Fprintln(s.Out, s.warn("Search interrupted."))
}

func (s *Session) good(text string) string { return render(s.Good, text) }
func (s *Session) bad(text string) string  { return render(s.Bad, text) }
func (s *Session) warn(text string) string { return render(s.Warn, text) }

func render(style StyleFunc, text string) string {
	if style == nil {
		return text
	}
	return style(text)
}
