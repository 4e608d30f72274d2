package cli

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/KotFed0t/finfusion/internal/converter/cliConverter"
	"github.com/KotFed0t/finfusion/internal/externalApi/cloudStorageApi/googleDriveApi"
	"github.com/KotFed0t/finfusion/internal/model"
	"github.com/KotFed0t/finfusion/internal/reportGenerator/xslsxGenerator"
	"github.com/KotFed0t/finfusion/internal/service"
	"github.com/KotFed0t/finfusion/utils"
	"github.com/google/subcommands"
)

type portfolioCmd struct {
	app    *App
	period string
}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "show holdings" }
func (*portfolioCmd) Usage() string {
	return `finfusion portfolio [-period day|week|month]
`
}

func (c *portfolioCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "period", string(model.PeriodDay), "price history period: day, week or month")
}

func (c *portfolioCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	period, err := model.ParsePeriod(c.period)
	if err != nil {
		return c.app.usage("%v", err)
	}

	ctx = utils.CreateCtxWithRqID(ctx)

	ws, err := c.app.login(ctx)
	if err != nil {
		return c.app.fail(err, "Login failed.")
	}

	if err := c.app.sessions.LoadPortfolio(ctx, ws.session); err != nil {
		return c.app.fail(err, "Failed to fetch portfolio.")
	}

	fmt.Fprint(c.app.out, cliConverter.PortfolioText(ws.session.Holdings(), period, c.app.cfg.Currency))
	return subcommands.ExitSuccess
}

// tradeCmd is both buy and sell.
type tradeCmd struct {
	app  *App
	side model.Side
}

func (c *tradeCmd) Name() string { return string(c.side) }
func (c *tradeCmd) Synopsis() string {
	return fmt.Sprintf("%s shares", c.side)
}
func (c *tradeCmd) Usage() string {
	if c.side == model.SideSell {
		return `finfusion sell <symbol> <quantity> <price>
`
	}
	return `finfusion buy <symbol> <quantity> <price> [company]
`
}
func (*tradeCmd) SetFlags(*flag.FlagSet) {}

func (c *tradeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	maxArgs := 3
	if c.side == model.SideBuy {
		maxArgs = 4
	}
	if f.NArg() < 3 || f.NArg() > maxArgs {
		return c.app.usage("usage: %s", c.Usage())
	}

	quantity, err := strconv.Atoi(f.Arg(1))
	if err != nil {
		return c.app.usage("quantity must be a whole number")
	}
	if err := service.ValidatePositiveQuantity(quantity); err != nil {
		return c.app.fail(err, service.MsgTradeFailed)
	}
	price, err := service.ParsePrice(f.Arg(2))
	if err != nil {
		return c.app.fail(err, service.MsgTradeFailed)
	}
	if err := service.ValidateRequired("symbol", f.Arg(0)); err != nil {
		return c.app.fail(err, service.MsgTradeFailed)
	}

	ctx = utils.CreateCtxWithRqID(ctx)

	ws, err := c.app.login(ctx)
	if err != nil {
		return c.app.fail(err, "Login failed.")
	}

	// the sell pre-check needs the current holdings
	if err := c.app.sessions.LoadPortfolio(ctx, ws.session); err != nil {
		return c.app.fail(err, "Failed to fetch portfolio.")
	}

	outcome, err := ws.trades.Execute(ctx, c.side, f.Arg(0), f.Arg(3), quantity, price)
	if err != nil {
		return c.app.fail(err, service.MsgTradeFailed)
	}

	fmt.Fprint(c.app.out, cliConverter.TradeOutcomeText(outcome, c.app.cfg.Currency))
	return subcommands.ExitSuccess
}

type exploreCmd struct {
	app *App
}

func (*exploreCmd) Name() string     { return "explore" }
func (*exploreCmd) Synopsis() string { return "list companies by category" }
func (*exploreCmd) Usage() string {
	return `finfusion explore
`
}
func (*exploreCmd) SetFlags(*flag.FlagSet) {}

func (c *exploreCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx = utils.CreateCtxWithRqID(ctx)

	catalog, err := c.app.sessions.Explore(ctx)
	if err != nil {
		return c.app.fail(err, "Failed to fetch data.")
	}

	fmt.Fprint(c.app.out, cliConverter.CatalogText(catalog))
	return subcommands.ExitSuccess
}

type exportCmd struct {
	app *App
	out string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export a portfolio statement as xlsx" }
func (*exportCmd) Usage() string {
	return `finfusion export [-out <file>]

  Writes the statement to a file. When Google Drive credentials are configured the
  statement is also uploaded and a read-only link is printed.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.out, "out", "", "output file, defaults to statement-<account>-<date>.xlsx")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx = utils.CreateCtxWithRqID(ctx)

	ws, err := c.app.login(ctx)
	if err != nil {
		return c.app.fail(err, "Login failed.")
	}

	if err := c.app.sessions.LoadPortfolio(ctx, ws.session); err != nil {
		return c.app.fail(err, "Failed to fetch portfolio.")
	}

	statement := model.Statement{
		AccountID:   ws.session.AccountID(),
		DisplayName: ws.session.DisplayName(),
		Currency:    c.app.cfg.Currency,
		Balance:     ws.session.ConfirmedBalance(),
		Holdings:    ws.session.Holdings(),
		GeneratedAt: time.Now(),
	}

	data, ext, err := xslsxGenerator.New().Generate(ctx, statement)
	if err != nil {
		return c.app.fail(err, "Failed to build the statement.")
	}

	filename := c.out
	if filename == "" {
		filename = fmt.Sprintf("statement-%s-%s%s", statement.AccountID, statement.GeneratedAt.Format("2006-01-02"), ext)
	}

	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return c.app.fail(err, "Failed to write the statement.")
	}
	fmt.Fprintf(c.app.out, "📄 Statement written to %s\n", filename)

	if c.app.cfg.GoogleDrive.CredentialsFile == "" {
		return subcommands.ExitSuccess
	}

	drive, err := googleDriveApi.New(ctx, c.app.cfg)
	if err != nil {
		return c.app.fail(err, "Failed to connect to Google Drive.")
	}

	if _, err := drive.DeleteOldFiles(ctx); err != nil {
		fmt.Fprintf(c.app.errOut, "Warning: old statements not cleaned up: %v\n", err)
	}

	link, err := drive.UploadFile(ctx, bytes.NewReader(data), filepath.Base(filename))
	if err != nil {
		return c.app.fail(err, "Failed to upload the statement.")
	}
	fmt.Fprintf(c.app.out, "🔗 %s\n", link)

	return subcommands.ExitSuccess
}
