package main

import (
	"fmt"
	"os"
	"strings"
)

// Version is set at build time via ldflags
var Version = "dev"

const (
	daemonAddr = "http://127.0.0.1:7143"
	pidFile    = "pacerd.pid"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "init":
		err = cmdInit()
	case "start":
		err = cmdStart()
	case "stop":
		err = cmdStop()
	case "status":
		err = cmdStatus()
	case "logs":
		err = cmdLogs()
	case "config":
		err = cmdConfig()
	case "module":
		err = cmdModule(os.Args[2:])
	case "difficulty":
		err = cmdDifficulty(os.Args[2:])
	case "predict":
		err = cmdPredict(os.Args[2:])
	case "model":
		err = cmdModel(os.Args[2:])
	case "history":
		err = cmdHistory(os.Args[2:])
	case "progress":
		err = cmdProgress(os.Args[2:])
	case "attempt":
		err = cmdAttempt(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Printf("pacer %s\n", Version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Pacer - Adaptive Difficulty Pacing for Learning

Usage:
  pacer <command> [arguments]

Setup Commands:
  init            Initialize Pacer (first-time setup)
  config          Show current configuration

Daemon Commands:
  start           Start the Pacer daemon
  stop            Stop the Pacer daemon
  status          Show daemon status
  logs            View daemon logs

Catalog Commands:
  module list     List available learning modules
  module info     Show module details

Difficulty Commands:
  difficulty      Show current difficulty for a user/module pair
  predict         Predict starting difficulty for a user/module pair
  history         Show difficulty adjustment history
  model           Show a user's learner trait model
  progress        Show a user's progress report

Attempt Commands:
  attempt start     Begin an exercise attempt
  attempt run       Record a code run (with optional errors)
  attempt hint      Record a delivered hint
  attempt complete  Finish an attempt with a graded score
  attempt abandon   Give up on an attempt
  attempt show      Show attempt details

Other:
  help            Show this help message
  version         Show version information

Examples:
  pacer start                                    # Start daemon
  pacer module list                              # List modules
  pacer predict ada lionagi-v1/branches          # Predict starting difficulty
  pacer attempt start ada lionagi-v1/branches    # Begin an attempt
  pacer progress ada                             # Progress report`)
}

// renderProgressBar creates a visual progress bar
func renderProgressBar(value float64, width int) string {
	filled := int(value * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	empty := width - filled

	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", empty) + "]"
}
