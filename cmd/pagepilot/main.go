// File: cmd/pagepilot/main.go
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/xkilldash9x/pagepilot/cmd"
	"github.com/xkilldash9x/pagepilot/internal/observability"
)

const panicLogFile = "panic.log"

// Function variables for dependency injection in tests.
var (
	osWriteFile = os.WriteFile
	osExit      = os.Exit
	execute     = cmd.Execute

	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func main() {
	defer handlePanic()

	// Cancel the run on SIGINT/SIGTERM so open browsers are shut down.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(os.Args) > 1 {
		osExit(exitCode(execute(ctx)))
		return
	}

	interactive(ctx)
}

// exitCode maps a command error to the process exit status. An interrupted run
// exits 0 unless a scenario had already failed.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, cmd.ErrScenariosFailed):
		return 1
	case errors.Is(err, context.Canceled):
		return 0
	default:
		return 1
	}
}

// interactive reads commands from stdin until EOF or "exit".
func interactive(ctx context.Context) {
	fmt.Fprintf(stdout, "pagepilot %s, type 'exit' to quit.\n", cmd.Version)
	scanner := bufio.NewScanner(stdin)

	for {
		fmt.Fprint(stdout, "pagepilot > ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}
		executeInteractiveCommand(ctx, line)
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintln(stderr, "Error reading from stdin:", err)
		osExit(1)
		return
	}
	fmt.Fprintln(stdout, "Exiting pagepilot.")
}

// executeInteractiveCommand runs one line on a fresh command tree so flags do not
// leak between commands.
func executeInteractiveCommand(ctx context.Context, line string) {
	rootCmd := cmd.NewRootCommand()
	rootCmd.SetArgs(strings.Fields(line))
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(stderr, "Error: command panicked: %v\n", r)
		}
	}()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
	}
}

// handlePanic writes the panic and stack to panicLogFile and exits non-zero.
func handlePanic() {
	if r := recover(); r != nil {
		observability.Sync()

		panicMessage := fmt.Sprintf("panic: %v\n\n%s", r, debug.Stack())
		if err := osWriteFile(panicLogFile, []byte(panicMessage), 0o644); err != nil {
			fmt.Fprintf(stderr, "CRITICAL: Failed to write panic log: %v\n", err)
			fmt.Fprintf(stderr, "Panic details:\n%s\n", panicMessage)
			osExit(2)
			return
		}
		fmt.Fprintf(stderr, "pagepilot crashed. Details logged to %s\n", panicLogFile)
		osExit(2)
	}
}
