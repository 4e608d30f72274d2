package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/KotFed0t/finfusion/internal/converter/cliConverter"
	"github.com/KotFed0t/finfusion/internal/model"
	"github.com/KotFed0t/finfusion/utils"
	"github.com/google/subcommands"
)

type signupCmd struct {
	app      *App
	name     string
	email    string
	password string
}

func (*signupCmd) Name() string     { return "signup" }
func (*signupCmd) Synopsis() string { return "create a new account" }
func (*signupCmd) Usage() string {
	return `finfusion -mobile <number> -mpin <mpin> signup -name <name> -email <email> -password <password>

  Registers the mobile number with a name, email, password and MPIN.
`
}

func (c *signupCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "display name")
	f.StringVar(&c.email, "email", "", "email address")
	f.StringVar(&c.password, "password", "", "password, at least 8 characters")
}

func (c *signupCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx = utils.CreateCtxWithRqID(ctx)

	msg, err := c.app.sessions.Signup(ctx, model.SignupRequest{
		MobileNumber: c.app.creds.Mobile,
		Name:         c.name,
		Email:        c.email,
		Password:     c.password,
		MPIN:         c.app.creds.MPIN,
	})
	if err != nil {
		return c.app.fail(err, "Signup failed.")
	}

	if msg == "" {
		msg = "Account created."
	}
	fmt.Fprintf(c.app.out, "✅ %s\n", msg)
	return subcommands.ExitSuccess
}

type balanceCmd struct {
	app *App
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "show the wallet balance" }
func (*balanceCmd) Usage() string {
	return `finfusion balance

  Signs in and prints the current wallet balance.
`
}
func (*balanceCmd) SetFlags(*flag.FlagSet) {}

func (c *balanceCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx = utils.CreateCtxWithRqID(ctx)

	ws, err := c.app.login(ctx)
	if err != nil {
		return c.app.fail(err, "Login failed.")
	}

	fmt.Fprint(c.app.out, cliConverter.BalanceText(ws.session, c.app.cfg.Currency))
	return subcommands.ExitSuccess
}

type contactsCmd struct {
	app *App
}

func (*contactsCmd) Name() string     { return "contacts" }
func (*contactsCmd) Synopsis() string { return "list contacts and recent contacts" }
func (*contactsCmd) Usage() string {
	return `finfusion contacts
`
}
func (*contactsCmd) SetFlags(*flag.FlagSet) {}

func (c *contactsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx = utils.CreateCtxWithRqID(ctx)

	ws, err := c.app.login(ctx)
	if err != nil {
		return c.app.fail(err, "Login failed.")
	}

	fmt.Fprint(c.app.out, cliConverter.ContactsText(ws.session.Contacts(), ws.session.RecentContacts()))
	return subcommands.ExitSuccess
}
