package main

import (
	"os"

	"adaremote/cmd/adaremote/commands"
)

func main() {
	os.Exit(commands.ExitCode(commands.Execute()))
}
