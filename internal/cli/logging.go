package cli

import (
	"context"
	"flag"
	"time"

	"github.com/google/subcommands"

	"portfoliodb/internal/logger"
	"portfoliodb/internal/uuid"
)

// loggedCommand logs each run of the wrapped command with a unique run ID,
// its exit status and latency.
type loggedCommand struct {
	subcommands.Command
}

func logged(c subcommands.Command) subcommands.Command {
	return loggedCommand{Command: c}
}

func (c loggedCommand) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	start := time.Now()
	runID := uuid.New()

	status := c.Command.Execute(ctx, f, args...)

	logger.Get().Debugw("command",
		"run_id", runID,
		"command", c.Name(),
		"status", int(status),
		"latency_ms", time.Since(start).Milliseconds(),
	)
	return status
}
