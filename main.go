package main

import "github.com/neurovexon/axon-cli/cmd"

func main() {
	cmd.Execute()
}
