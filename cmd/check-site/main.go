package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/contextbench/leaderboard/internal/checksite"
)

// Default configuration constants.
const (
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 10 * time.Second
	defaultTestTimeout = 5 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:9080", "Base URL of the server")
		workers = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Concurrent rank probes")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile = flag.String("log", "", "Log file (default: stderr)")
		verbose = flag.Bool("verbose", false, "Log every passing check")
	)
	flag.Parse()

	if err := checksite.SetupLogging(os.Stderr, *logFile, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultTestTimeout)
	defer cancel()

	report, err := checksite.Run(ctx, &checksite.Config{
		BaseURL: *baseURL,
		Workers: *workers,
		Timeout: *timeout,
		LogFile: *logFile,
		Verbose: *verbose,
	})
	checksite.WriteReport(os.Stdout, report)
	if err != nil {
		os.Stderr.WriteString("Check failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
