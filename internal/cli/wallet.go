package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/KotFed0t/finfusion/internal/converter/cliConverter"
	"github.com/KotFed0t/finfusion/internal/model"
	"github.com/KotFed0t/finfusion/internal/service"
	"github.com/KotFed0t/finfusion/utils"
	"github.com/google/subcommands"
)

const defaultCategory = "General"

type sendCmd struct {
	app *App
}

func (*sendCmd) Name() string     { return "send" }
func (*sendCmd) Synopsis() string { return "send money to a contact" }
func (*sendCmd) Usage() string {
	return `finfusion send <mobile> <amount> [category]

  Transfers amount from the wallet to the contact with the given mobile number.
  The category defaults to "General".
`
}
func (*sendCmd) SetFlags(*flag.FlagSet) {}

func (c *sendCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 2 || f.NArg() > 3 {
		return c.app.usage("send requires <mobile> <amount> [category]")
	}
	mobile, amount, category := f.Arg(0), f.Arg(1), defaultCategory
	if f.NArg() == 3 {
		category = f.Arg(2)
	}

	// checked again by the executor, here they only spare the login round trip
	if err := service.ValidateMPIN(c.app.creds.MPIN); err != nil {
		return c.app.fail(err, service.MsgTransferFailed)
	}
	if _, err := service.ParsePositiveAmount(amount); err != nil {
		return c.app.fail(err, service.MsgTransferFailed)
	}
	if err := service.ValidateRequired("category", category); err != nil {
		return c.app.fail(err, service.MsgTransferFailed)
	}

	ctx = utils.CreateCtxWithRqID(ctx)

	ws, err := c.app.login(ctx)
	if err != nil {
		return c.app.fail(err, "Login failed.")
	}

	contact, ok := ws.session.FindContact(mobile)
	if !ok {
		// the backend is the judge of unknown receivers
		contact = model.Contact{MobileNumber: mobile, Name: mobile}
	}

	outcome, err := ws.transfers.Execute(ctx, &contact, amount, c.app.creds.MPIN, category)
	if err != nil {
		return c.app.fail(err, service.MsgTransferFailed)
	}

	<-outcome.Animation
	fmt.Fprint(c.app.out, cliConverter.TransferOutcomeText(outcome, c.app.cfg.Currency))
	return subcommands.ExitSuccess
}
