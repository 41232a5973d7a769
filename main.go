package main

import "github.com/agentic-research/adtree/cmd"

func main() {
	cmd.Execute()
}
