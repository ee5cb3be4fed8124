package main

import (
	"os"

	"github.com/fastygo/tasklist/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
