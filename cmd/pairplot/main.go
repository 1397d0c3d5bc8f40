package main

import (
	"os"

	"github.com/spektr-org/pairplot/cmd/pairplot/commands"
)

func main() {
	os.Exit(commands.Execute())
}
