package main

import "reelog/cmd/cli/command"

func main() {
	command.Execute()
}
