package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/KotFed0t/finfusion/config"
	"github.com/KotFed0t/finfusion/internal/externalApi/assistantApi"
	"github.com/KotFed0t/finfusion/internal/externalApi/ledgerApi"
	"github.com/KotFed0t/finfusion/internal/metrics"
	"github.com/KotFed0t/finfusion/internal/model"
	"github.com/KotFed0t/finfusion/internal/scheduler"
	"github.com/KotFed0t/finfusion/internal/service"
	"github.com/KotFed0t/finfusion/internal/service/sessionService"
	"github.com/KotFed0t/finfusion/internal/service/tradeService"
	"github.com/KotFed0t/finfusion/internal/service/transferService"
	"github.com/google/subcommands"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
)

// Credentials are the global -mobile and -mpin flags.
type Credentials struct {
	Mobile string
	MPIN   string
}

func (c *Credentials) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.Mobile, "mobile", os.Getenv("FINFUSION_MOBILE"), "account mobile number (env FINFUSION_MOBILE)")
	f.StringVar(&c.MPIN, "mpin", os.Getenv("FINFUSION_MPIN"), "6 digit MPIN (env FINFUSION_MPIN)")
}

// ConfigLoader is called once, by the first command that needs configuration.
type ConfigLoader func() (*config.Config, error)

// App holds what every command shares.
type App struct {
	load     ConfigLoader
	cfg      *config.Config
	creds    *Credentials
	out      io.Writer
	errOut   io.Writer
	in       io.Reader
	ledger   *ledgerApi.LedgerApi
	sessions *sessionService.SessionService
	metrics  *metrics.Collector
	server   *http.Server

	// markdownStyle is a glamour standard style, empty picks one from the terminal.
	markdownStyle string
}

func NewApp(load ConfigLoader, creds *Credentials, collector *metrics.Collector, in io.Reader, out, errOut io.Writer) *App {
	return &App{
		load:    load,
		creds:   creds,
		out:     out,
		errOut:  errOut,
		in:      in,
		metrics: collector,
	}
}

// Register adds every command to commander.
func (a *App) Register(commander *subcommands.Commander) {
	commander.Register(a.configured(Logged(&signupCmd{app: a})), "account")
	commander.Register(a.configured(Logged(&balanceCmd{app: a})), "account")
	commander.Register(a.configured(Logged(&contactsCmd{app: a})), "account")

	commander.Register(a.configured(Logged(&sendCmd{app: a})), "wallet")

	commander.Register(a.configured(Logged(&portfolioCmd{app: a})), "brokerage")
	commander.Register(a.configured(Logged(&tradeCmd{app: a, side: model.SideBuy})), "brokerage")
	commander.Register(a.configured(Logged(&tradeCmd{app: a, side: model.SideSell})), "brokerage")
	commander.Register(a.configured(Logged(&exploreCmd{app: a})), "brokerage")
	commander.Register(a.configured(Logged(&exportCmd{app: a})), "brokerage")

	commander.Register(a.configured(Logged(&chatCmd{app: a})), "assistant")
}

// Close stops the metrics server if a command started one.
func (a *App) Close(ctx context.Context) {
	metrics.Shutdown(ctx, a.server)
}

// ready loads the configuration and builds the backend clients on first use.
func (a *App) ready() error {
	if a.cfg != nil {
		return nil
	}

	cfg, err := a.load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	a.cfg = cfg
	a.ledger = ledgerApi.New(cfg)
	a.sessions = sessionService.New(a.ledger)
	if cfg.Metrics.Addr != "" {
		a.server = a.metrics.StartServer(cfg.Metrics.Addr)
	}
	return nil
}

type configuredCmd struct {
	subcommands.Command
	app *App
}

// configured loads the configuration before cmd runs. Commands that are never run,
// like everything during help, need no configuration.
func (a *App) configured(cmd subcommands.Command) subcommands.Command {
	return configuredCmd{Command: cmd, app: a}
}

func (c configuredCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if err := c.app.ready(); err != nil {
		fmt.Fprintf(c.app.errOut, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return c.Command.Execute(ctx, f, args...)
}

// workspace is one signed-in session with its executors.
type workspace struct {
	session   *model.SessionContext
	animator  *transferService.BalanceAnimator
	transfers *transferService.TransferService
	trades    *tradeService.TradeService
}

func (a *App) login(ctx context.Context) (*workspace, error) {
	session, err := a.sessions.Login(ctx, a.creds.Mobile, a.creds.MPIN)
	if err != nil {
		return nil, err
	}

	animator := transferService.NewBalanceAnimator(
		session,
		clockwork.NewRealClock(),
		a.cfg.Animation.BalanceDuration,
		a.cfg.Animation.BalanceFrame,
		func(balance decimal.Decimal) { a.metrics.SetDisplayedBalance(balance.InexactFloat64()) },
	)
	a.metrics.SetDisplayedBalance(session.DisplayedBalance().InexactFloat64())

	return &workspace{
		session:   session,
		animator:  animator,
		transfers: transferService.New(session, a.ledger, animator, a.metrics),
		trades:    tradeService.New(session, a.ledger, a.metrics),
	}, nil
}

func (a *App) newRelay(ctx context.Context) (assistantApi.Relay, error) {
	return assistantApi.New(ctx, a.cfg)
}

// startSync keeps the workspace fresh in the background until the returned stop is called.
func (a *App) startSync(ws *workspace) (stop func(), err error) {
	s, err := scheduler.New()
	if err != nil {
		return nil, err
	}

	err = s.Every("balanceSync", a.cfg.Jobs.BalanceSyncInterval, func(ctx context.Context) error {
		return a.sessions.SyncBalance(ctx, ws.session, ws.transfers, ws.animator)
	}, false)
	if err != nil {
		return nil, err
	}

	err = s.Every("portfolioSync", a.cfg.Jobs.PortfolioSyncInterval, func(ctx context.Context) error {
		return a.sessions.SyncPortfolio(ctx, ws.session, ws.trades)
	}, false)
	if err != nil {
		return nil, err
	}

	s.Start()
	return s.Stop, nil
}

func (a *App) fail(err error, fallback string) subcommands.ExitStatus {
	fmt.Fprintf(a.errOut, "Error: %s\n", service.UserMessage(err, fallback))
	return subcommands.ExitFailure
}

func (a *App) usage(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(a.errOut, format+"\n", args...)
	return subcommands.ExitUsageError
}
