package main

import (
	"os"

	"github.com/ledgertriage/ledgertriage/internal/commands"
)

func main() {
	os.Exit(commands.Execute())
}
