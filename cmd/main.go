package main

import (
	"context"
	"os"

	"github.com/contextbench/leaderboard/internal/cli"
)

func main() {
	if err := cli.Execute(context.Background(), os.Args[1:]); err != nil {
		os.Stderr.WriteString("contextbench: " + err.Error() + "\n")
		os.Exit(1)
	}
}
