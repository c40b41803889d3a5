package main

import "github.com/nvkha/domlook/cmd"

// execCmd is indirected so main stays testable.
var execCmd = cmd.Execute

func main() {
	execCmd()
}
