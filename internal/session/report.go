package session

import (
	"fmt"
	"io"
)

// Reporter renders the end-of-session summary. It runs exactly once per
// session, regardless of how the loop terminated.
type Reporter struct {
	Out     io.Writer
	Heading StyleFunc
	Good    StyleFunc
}

// Write prints the lookup count and the ordered list of available domains,
// or an explicit notice when none were found.
func (r *Reporter) Write(state *State) {
	fmt.Fprintln(r.Out)
	fmt.Fprintln(r.Out, render(r.Heading, "=== Domain Lookup Summary ==="))
	fmt.Fprintf(r.Out, "Domains checked: %d\n", state.Checked)
	fmt.Fprintf(r.Out, "Available domains found: %d\n", len(state.Available))

	if len(state.Available) == 0 {
		fmt.Fprintln(r.Out, "No available domains found.")
	} else {
		fmt.Fprintln(r.Out)
		fmt.Fprintln(r.Out, render(r.Good, "Available domains:"))
		for _, domain := range state.Available {
			fmt.Fprintf(r.Out, "  - %s\n", domain)
		}
	}

	fmt.Fprintln(r.Out)
	fmt.Fprintln(r.Out, render(r.Heading, "Thank you for using the Domain Availability Checker!"))
}
