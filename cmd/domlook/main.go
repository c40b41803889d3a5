// The domlook command is the installable entry point; it is equivalent to
// running the repository root package directly.
package main

import "github.com/nvkha/domlook/cmd"

func main() {
	cmd.Execute()
}
