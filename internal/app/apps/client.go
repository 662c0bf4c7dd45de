package apps

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/ofirzvishaboo/mcp-server/internal"
	"github.com/ofirzvishaboo/mcp-server/internal/pkg/assistant"
	"github.com/ofirzvishaboo/mcp-server/internal/pkg/client"
	"github.com/ofirzvishaboo/mcp-server/internal/pkg/validate"
)

// historyMenuLimit caps how many past runs the menu shows.
const historyMenuLimit = 10

// ClientAppCfg configures a ClientApp.
type ClientAppCfg interface {
	ApplyClientApp(*ClientApp) error
}

// ClientApp is the interactive shopping assistant application.
type ClientApp struct {
	ServerURL string `validate:"required,url"`

	// In and Out default to stdin/stdout; tests replace them.
	In  io.Reader
	Out io.Writer
}

// NewClientApp creates a new ClientApp.
func NewClientApp(cfgs ...ClientAppCfg) (*ClientApp, error) {
	app := &ClientApp{}
	for _, cfg := range cfgs {
		if err := cfg.ApplyClientApp(app); err != nil {
			return nil, errors.Wrap(err, "apply ClientApp cfg failed")
		}
	}
	if app.ServerURL == "" {
		app.ServerURL = internal.ServerURL
	}
	if app.In == nil {
		app.In = os.Stdin
	}
	if app.Out == nil {
		app.Out = os.Stdout
	}
	if err := validate.Validate().Struct(app); err != nil {
		return nil, errors.Wrap(err, "validate ClientApp failed")
	}
	return app, nil
}

// Run connects to the server and drives the interactive menu until
// the user exits or input ends.
func (app *ClientApp) Run(ctx context.Context, _ []string) error {
	// Optional .env for the assistant credentials.
	_ = godotenv.Load()

	c, err := client.NewClient(client.WithServerURL(app.ServerURL))
	if err != nil {
		return errors.Wrap(err, "create client failed")
	}
	fmt.Fprintln(app.Out, "Connecting to price comparison server...")
	if err := c.Connect(ctx); err != nil {
		return errors.Wrap(err, "connect client failed")
	}
	defer func() {
		if err := c.Close(); err != nil {
			logger.WithError(err).Warning("close client failed")
		}
	}()
	fmt.Fprintln(app.Out, "Connected successfully!")

	analyst, err := assistant.FromEnv()
	if err != nil && !errors.Is(err, assistant.ErrNotConfigured) {
		return errors.Wrap(err, "create assistant failed")
	}

	return app.menu(ctx, c, analyst)
}

func (app *ClientApp) menu(ctx context.Context, c *client.Client, analyst *assistant.Assistant) error {
	scanner := bufio.NewScanner(app.In)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintln(app.Out, "\nTech Shopping Assistant")
		fmt.Fprintln(app.Out, "1. Compare prices")
		fmt.Fprintln(app.Out, "2. Get AI shopping recommendation")
		fmt.Fprintln(app.Out, "3. View available websites")
		fmt.Fprintln(app.Out, "4. View comparison history")
		fmt.Fprintln(app.Out, "5. Exit")

		choice, ok := app.prompt(scanner, "\nEnter your choice (1-5): ")
		if !ok {
			return nil
		}
		switch choice {
		case "1":
			product, ok := app.prompt(scanner, "\nEnter product name to compare: ")
			if !ok {
				return nil
			}
			fmt.Fprintln(app.Out, "\nFetching prices...")
			app.show(c.ComparePrices(ctx, product))
		case "2":
			if analyst == nil {
				fmt.Fprintln(app.Out, "AI analysis is disabled: set OPENAI_API_KEY to enable it.")
				continue
			}
			product, ok := app.prompt(scanner, "\nEnter product name for AI recommendation: ")
			if !ok {
				return nil
			}
			fmt.Fprintln(app.Out, "\nAnalyzing prices and getting AI recommendation...")
			app.show(app.recommend(ctx, c, analyst, product))
		case "3":
			app.show(c.AvailableWebsites(ctx))
		case "4":
			product, ok := app.prompt(scanner, "\nEnter product name to look up: ")
			if !ok {
				return nil
			}
			app.show(c.PriceHistory(ctx, product, historyMenuLimit))
		case "5":
			return nil
		default:
			fmt.Fprintln(app.Out, "Invalid choice. Please try again.")
		}
	}
}

// recommend combines a fresh comparison with the assistant's analysis.
func (app *ClientApp) recommend(ctx context.Context, c *client.Client, analyst *assistant.Assistant, product string) (string, error) {
	priceData, err := c.ComparePrices(ctx, product)
	if err != nil {
		return "", errors.Wrap(err, "compare prices failed")
	}
	analysis, err := analyst.Analyze(ctx, priceData)
	if err != nil {
		return "", errors.Wrap(err, "analyze prices failed")
	}
	return fmt.Sprintf("Price Comparison:\n%s\n\nAI Analysis:\n%s", priceData, analysis), nil
}

// prompt prints a prompt and reads one trimmed line. ok is false when
// input has ended.
func (app *ClientApp) prompt(scanner *bufio.Scanner, text string) (string, bool) {
	fmt.Fprint(app.Out, text)
	if !scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(scanner.Text()), true
}

// show prints a tool result, or the error that replaced it.
func (app *ClientApp) show(result string, err error) {
	if err != nil {
		fmt.Fprintf(app.Out, "Error: %s\n", err)
		return
	}
	fmt.Fprintln(app.Out, "\nResults:")
	fmt.Fprintln(app.Out, result)
}
