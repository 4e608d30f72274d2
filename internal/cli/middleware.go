package cli

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"time"

	"github.com/KotFed0t/finfusion/utils"
	"github.com/google/subcommands"
)

type loggedCmd struct {
	subcommands.Command
}

// Logged gives every run of cmd its own request id and logs how long it took.
func Logged(cmd subcommands.Command) subcommands.Command {
	return loggedCmd{Command: cmd}
}

func (c loggedCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	now := time.Now()

	ctx = utils.CreateCtxWithRqID(ctx)
	rqID := utils.GetRequestIDFromCtx(ctx)

	slog.Info(
		"start command",
		slog.String("rqID", rqID),
		slog.String("command", c.Name()),
	)

	status := c.Command.Execute(ctx, f, args...)

	slog.Info(
		"command finished",
		slog.String("rqID", rqID),
		slog.String("command", c.Name()),
		slog.Int("status", int(status)),
		slog.String("duration", fmt.Sprintf("%.2fs", time.Since(now).Seconds())),
	)

	return status
}
