package main

import (
	"fmt"
	"os"
	"strings"

	"postsapi/service"
)

// CliVersion is reported by the version command.
const CliVersion = "1.0.0"

// exit is swapped out in tests.
var exit = os.Exit

func main() {
	RealMain()
}

// RealMain dispatches the command named by os.Args[1].
func RealMain() {
	if len(os.Args) < 2 {
		printHelp()
		exit(1)
		return
	}

	cmd := strings.ToLower(os.Args[1])
	switch cmd {
	case "help":
		printHelp()
	case "version":
		fmt.Printf("postsapi version %s\n", CliVersion)
	case "serve", "config":
		if code := service.HandleCommand(append([]string{cmd}, os.Args[2:]...), os.Stdout, os.Stderr); code != 0 {
			exit(code)
		}
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printHelp()
		exit(1)
	}
}

func printHelp() {
	helpText := `Usage: postsapi <command> [options]
Commands:
  help                           Display this help message.
  version                        Show version information.
  serve  [options]               Run the posts API (default :3000).
  config [options]               Print the effective configuration as JSON.

Options for serve and config:
  -config <file>  -addr <addr>  -store <memory|badger>  -id-format <uuid|ulid>
  -log-level <level>  -log-format <text|json>  -metrics  -shutdown-timeout <dur>
`
	fmt.Println(helpText)
}
