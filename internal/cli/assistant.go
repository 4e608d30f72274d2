package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/KotFed0t/finfusion/internal/converter/cliConverter"
	"github.com/KotFed0t/finfusion/internal/model"
	"github.com/KotFed0t/finfusion/internal/service"
	"github.com/KotFed0t/finfusion/internal/service/assistantService"
	"github.com/KotFed0t/finfusion/utils"
	"github.com/google/subcommands"
	"github.com/google/uuid"
)

const chatPrompt = "you> "

type chatCmd struct {
	app *App
}

func (*chatCmd) Name() string     { return "chat" }
func (*chatCmd) Synopsis() string { return "talk to the financial assistant" }
func (*chatCmd) Usage() string {
	return `finfusion chat [question...]

  Starts an interactive session with the assistant. An optional question is asked first.
  Commands inside the session:
    /about <symbol|category>  ask about a holding, a listed company or a category
    /balance                  show the wallet balance
    bye                       leave
`
}
func (*chatCmd) SetFlags(*flag.FlagSet) {}

func (c *chatCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx = utils.CreateCtxWithRqID(ctx)

	ws, err := c.app.login(ctx)
	if err != nil {
		return c.app.fail(err, "Login failed.")
	}

	if err := c.app.sessions.LoadPortfolio(ctx, ws.session); err != nil {
		fmt.Fprintf(c.app.out, "⚠️ portfolio unavailable: %s\n", service.UserMessage(err, "Failed to fetch portfolio."))
	}

	relay, err := c.app.newRelay(ctx)
	if err != nil {
		return c.app.fail(err, "Assistant is not configured.")
	}

	stopSync, err := c.app.startSync(ws)
	if err != nil {
		return c.app.fail(err, "Failed to start background sync.")
	}
	defer stopSync()

	renderer, err := cliConverter.NewMarkdownRenderer(c.app.markdownStyle)
	if err != nil {
		return c.app.fail(err, "Failed to start the renderer.")
	}

	chat := &chatSession{
		app:       c.app,
		ws:        ws,
		assistant: assistantService.New(c.app.ledger, relay, c.app.metrics),
		renderer:  renderer,
	}

	var first []string
	if f.NArg() > 0 {
		first = append(first, strings.Join(f.Args(), " "))
	}

	if err := chat.run(ctx, bufio.NewReader(c.app.in), first); err != nil {
		return c.app.fail(err, service.MsgAssistantFailed)
	}
	return subcommands.ExitSuccess
}

type chatSession struct {
	app       *App
	ws        *workspace
	assistant *assistantService.AssistantService
	renderer  *cliConverter.MarkdownRenderer
	catalog   model.Catalog
}

func (s *chatSession) run(ctx context.Context, r *bufio.Reader, pending []string) error {
	for _, msg := range s.assistant.Conversation().Messages() {
		fmt.Fprintln(s.app.out, cliConverter.TranscriptLine(msg))
	}

	for {
		fmt.Fprint(s.app.out, chatPrompt)

		var input string
		if len(pending) > 0 {
			input, pending = pending[0], pending[1:]
			fmt.Fprintln(s.app.out, input)
		} else {
			line, err := r.ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			if err != nil && strings.TrimSpace(line) == "" {
				return nil
			}
			input = line
		}

		input = strings.TrimSpace(input)
		switch {
		case input == "":
			continue
		case input == "bye":
			return nil
		case input == "/balance":
			fmt.Fprint(s.app.out, cliConverter.BalanceText(s.ws.session, s.app.cfg.Currency))
			continue
		case strings.HasPrefix(input, "/about"):
			s.about(ctx, strings.TrimSpace(strings.TrimPrefix(input, "/about")))
			continue
		}

		s.print(s.assistant.Ask(turnCtx(ctx), input, s.ws.session.AccountID()))
	}
}

func (s *chatSession) about(ctx context.Context, symbol string) {
	if symbol == "" {
		fmt.Fprintln(s.app.out, "usage: /about <symbol|category>")
		return
	}

	ctx = turnCtx(ctx)

	topic, ok := cliConverter.AskAboutTopic(symbol, s.ws.session.Holdings(), s.catalog)
	if !ok && s.catalog == nil {
		catalog, err := s.app.sessions.Explore(ctx)
		if err == nil {
			s.catalog = catalog
			topic, ok = cliConverter.AskAboutTopic(symbol, s.ws.session.Holdings(), s.catalog)
		}
	}
	if !ok {
		fmt.Fprintf(s.app.out, "nothing known about %s\n", symbol)
		return
	}

	s.print(s.assistant.AskAbout(ctx, topic, s.ws.session.AccountID()))
}

// turnCtx gives every question of the session its own request id.
func turnCtx(ctx context.Context) context.Context {
	return utils.WithRequestID(ctx, uuid.NewString())
}

// print shows the answer. A failed ask still has one, the fallback text.
func (s *chatSession) print(reply assistantService.Reply, err error) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		fmt.Fprintln(s.app.out, validationErr.Error())
		return
	}
	if reply.Answer.ID == 0 {
		return
	}

	if reply.Failed {
		fmt.Fprintln(s.app.out, cliConverter.TranscriptLine(reply.Answer))
		return
	}
	fmt.Fprint(s.app.out, "assistant>\n"+s.renderer.Render(reply.Answer.Text))
}
