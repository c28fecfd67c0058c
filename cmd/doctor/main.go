// Command doctor checks that the services needed for local development are
// reachable and prints one line per check.
//
//	doctor                      run every probe
//	doctor -probe database,redis
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/clubsantiago/sistema-billar/diagnostics"
	"github.com/clubsantiago/sistema-billar/utils"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	probeList := fs.String("probe", "", "comma separated probe names (default: all)")
	backendURL := fs.String("backend-url", "http://127.0.0.1:8000", "backend URL")
	frontendURL := fs.String("frontend-url", "http://localhost:3000", "frontend URL")
	timeout := fs.Duration("timeout", 5*time.Second, "timeout per probe")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	_ = godotenv.Load()
	utils.SilenceLoggers()

	runner := diagnostics.NewRunner(*timeout, diagnostics.DefaultProbes(diagnostics.Options{
		BackendURL:  *backendURL,
		FrontendURL: *frontendURL,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		AMQPURL:     os.Getenv("AMQP_URL"),
	})...)

	ctx := context.Background()
	if *probeList == "" {
		for _, res := range runner.RunAll(ctx) {
			fmt.Fprintln(stdout, res)
		}
		return 0
	}

	for _, name := range strings.Split(*probeList, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		res, err := runner.Run(ctx, name)
		if errors.Is(err, diagnostics.ErrUnknownProbe) {
			fmt.Fprintln(stderr, err)
			return 2
		}
		fmt.Fprintln(stdout, res)
	}
	return 0
}
