package main

import (
	"os"

	"github.com/funvibe/kite/pkg/cli"
)

func main() {
	os.Exit(cli.Entry(os.Args[1:]))
}
