package main

import (
	"fmt"
	"os"

	"github.com/riskibarqy/football-history/internal/cli"
)

// migration is the schema tool shipped in the service image; it is the same
// command as "fdhistory migrate".
func main() {
	cmd := cli.NewMigrateCommand(&cli.RootOptions{})
	cmd.Use = "migration"
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "migration:", err)
		os.Exit(1)
	}
}
