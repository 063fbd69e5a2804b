// Command tsvcheck validates tab-separated files cell by cell.
//
//	tsvcheck check [--rules rules.yaml] data.tsv
//	tsvcheck serve
//	tsvcheck kinds
package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// Exit codes.
const (
	exitOK       = 0
	exitFailures = 1
	exitError    = 2
)

// version is set at build time via -ldflags "-X main.version=1.0.0".
var version = "dev"

func main() {
	// Variables already in the environment win over .env entries.
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env file")
	}

	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdin)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return exitCode(cmd.Execute(), stderr)
}
