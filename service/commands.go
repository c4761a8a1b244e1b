package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"postsapi/app/config"
)

// HandleCommand runs a subcommand and returns the process exit code.
func HandleCommand(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printCommandHelp(stdout)
		return 1
	}

	cmd := args[0]
	switch cmd {
	case "serve":
		return serve(args[1:], stderr)
	case "config":
		return printConfig(args[1:], stdout, stderr)
	case "help":
		printCommandHelp(stdout)
		return 0
	default:
		fmt.Fprintf(stdout, "Unknown command: %s\n\n", cmd)
		printCommandHelp(stdout)
		return 1
	}
}

func printCommandHelp(w io.Writer) {
	helpText := `Usage: postsapi <serve|config> [options]

Options:
  -config <file>             Relaxed JSON configuration file
  -addr <addr>               Address to listen on (default :3000)
  -store <memory|badger>     Post store (default memory)
  -id-format <uuid|ulid>     Post id format (default uuid)
  -log-level <level>         Log level (default info)
  -log-format <text|json>    Log format (default text)
  -metrics                   Expose Prometheus metrics on /metrics
  -shutdown-timeout <dur>    Grace period for in-flight requests (default 10s)
`
	fmt.Fprintln(w, helpText)
}

// serve runs the API until SIGINT or SIGTERM.
func serve(args []string, stderr io.Writer) int {
	cfg, err := config.Parse("serve", args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	app, err := NewApp(cfg, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	ln, err := app.Listen()
	if err != nil {
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, ln); err != nil {
		app.Logger.Error(err)
		return 1
	}
	app.Logger.Info("Server stopped")
	return 0
}

// printConfig writes the effective configuration as JSON.
func printConfig(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Parse("config", args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cfg); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
