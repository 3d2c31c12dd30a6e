// Package main provides the solidity-ls CLI entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/w84us/solidity/internal/lsp"
)

func main() {
	verbosity := flag.Int("log-level", 0, "commonlog verbosity (0=off, higher is more verbose)")
	logFile := flag.String("log-file", "", "path to a log file; empty logs to stderr only")
	flag.Parse()

	var logFilePath *string
	if *logFile != "" {
		logFilePath = logFile
	}
	commonlog.Configure(*verbosity, logFilePath)
	logger := commonlog.GetLogger("solidity-ls")

	srv := lsp.NewServerWithLogger(func(msg string) { logger.Infof("%s", msg) })
	if err := srv.RunStdio(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "solidity-ls:", err)
		os.Exit(1)
	}
	os.Exit(srv.ExitCode())
}
