package cli

import (
	"context"
	"flag"
	"testing"

	"github.com/KotFed0t/finfusion/utils"
	"github.com/google/subcommands"
)

type recordCmd struct {
	rqID string
}

func (*recordCmd) Name() string           { return "record" }
func (*recordCmd) Synopsis() string       { return "record the request id" }
func (*recordCmd) Usage() string          { return "record\n" }
func (*recordCmd) SetFlags(*flag.FlagSet) {}
func (c *recordCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	c.rqID = utils.GetRequestIDFromCtx(ctx)
	return subcommands.ExitSuccess
}

func TestLogged_AssignsRequestID(t *testing.T) {
	inner := &recordCmd{}
	cmd := Logged(inner)

	if cmd.Name() != "record" {
		t.Fatalf("name = %q", cmd.Name())
	}

	status := cmd.Execute(context.Background(), flag.NewFlagSet("record", flag.ContinueOnError))
	if status != subcommands.ExitSuccess {
		t.Fatalf("status = %v", status)
	}
	if inner.rqID == "" {
		t.Fatal("expected a request id")
	}

	first := inner.rqID
	cmd.Execute(context.Background(), flag.NewFlagSet("record", flag.ContinueOnError))
	if inner.rqID == first {
		t.Fatal("expected a fresh request id per run")
	}
}
