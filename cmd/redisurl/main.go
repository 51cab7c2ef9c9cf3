package main

import (
	"fmt"
	"os"
)

var (
	version = "dev"
	commit  = "<none>"
	date    = "<unknown>"
)

func main() {
	app := newApp(os.Stdout)
	app.Version = fmt.Sprintf("%s (commit: %s; date: %s)", version, commit, date)

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
