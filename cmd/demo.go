package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shaharia-lab/stockroom/internal/eventbus"
	"github.com/shaharia-lab/stockroom/internal/inventory"
	"github.com/shaharia-lab/stockroom/internal/logger"
	"github.com/shaharia-lab/stockroom/internal/storage"
	"github.com/shaharia-lab/stockroom/internal/telemetry"
)

type demoOptions struct {
	item    string
	stock   int
	noColor bool
	verbose bool
}

// NewDemoCmd returns the "demo" subcommand that runs the scripted
// add / request / sell scenario against an in-memory store.
func NewDemoCmd() *cobra.Command {
	opts := demoOptions{}

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the scripted inventory scenario in the terminal",
		Long: `Run a short scenario through the event bus and print every event as it
is dispatched. Nested events are indented under the event whose listener
emitted them.

Examples:
  stockroom demo
  stockroom demo --item Pears --stock 20
  stockroom demo --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemo(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.item, "item", "Apples", "Item used in the scenario")
	cmd.Flags().IntVar(&opts.stock, "stock", 50, "Initial quantity added to stock")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log bus activity to stderr")
	return cmd
}

func runDemo(ctx context.Context, out io.Writer, opts demoOptions) error {
	if opts.stock <= 0 {
		return fmt.Errorf("--stock must be positive, got %d", opts.stock)
	}
	p := newPalette(out, opts.noColor)

	var log *slog.Logger
	var hooks []eventbus.Hook
	if opts.verbose {
		log = logger.NewConsoleLogger(os.Stderr, slog.LevelDebug)
		hooks = append(hooks, telemetry.NewLogHook(log))
	}

	bus := eventbus.New(eventbus.Config{Hooks: hooks})
	for _, name := range inventory.EventNames {
		if err := bus.SubscribeFunc(name, printEvent(out, p)); err != nil {
			return err
		}
	}

	agents := inventory.NewAgents(
		inventory.NewItemStock(storage.NewMemoryStockStore(), bus),
		bus,
		inventory.NewActivityLog(0),
	)
	if err := inventory.Wire(bus, agents, log); err != nil {
		return fmt.Errorf("wiring agents: %w", err)
	}

	request := max(opts.stock/5, 1)
	steps := []struct {
		title string
		run   func() error
	}{
		{
			title: fmt.Sprintf("Add %d %s to stock", opts.stock, opts.item),
			run: func() error {
				_, err := agents.Stock.AddItem(ctx, opts.item, opts.stock)
				return err
			},
		},
		{
			title: fmt.Sprintf("Customer requests %d %s", request, opts.item),
			run: func() error {
				return agents.Requests.RequestItem(ctx, opts.item, request)
			},
		},
		{
			title: fmt.Sprintf("Sell %d %s", request, opts.item),
			run:   func() error { return sell(ctx, out, p, agents.Sales, opts.item, request) },
		},
		{
			title: fmt.Sprintf("Sell %d %s", opts.stock, opts.item),
			run:   func() error { return sell(ctx, out, p, agents.Sales, opts.item, opts.stock) },
		},
		{
			title: "Generate inventory report",
			run: func() error {
				levels, err := agents.Stock.Levels(ctx)
				if err != nil {
					return err
				}
				report, err := agents.Check.GenerateReport(ctx, levels)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, p.muted.Render(report.Text))
				return nil
			},
		},
	}

	for i, step := range steps {
		fmt.Fprintln(out, p.title.Render(fmt.Sprintf("%d. %s", i+1, step.title)))
		if err := step.run(); err != nil {
			return fmt.Errorf("%s: %w", step.title, err)
		}
		fmt.Fprintln(out)
	}
	return nil
}

func sell(ctx context.Context, out io.Writer, p palette, sales *inventory.Sales, item string, qty int) error {
	receipt, err := sales.SellItem(ctx, item, qty)
	if err != nil {
		return err
	}
	if receipt.Fulfilled {
		fmt.Fprintln(out, p.ok.Render(fmt.Sprintf("sold %d %s, %d left", qty, item, receipt.Remaining)))
		return nil
	}
	fmt.Fprintln(out, p.warn.Render(fmt.Sprintf("not enough %s in stock, %d left", item, receipt.Remaining)))
	return nil
}

// printEvent renders each event indented by its nesting depth.
func printEvent(out io.Writer, p palette) func(context.Context, eventbus.Event) error {
	return func(_ context.Context, e eventbus.Event) error {
		indent := strings.Repeat("  ", e.Depth+1)
		style := p.event
		if e.Name == inventory.EventStockInsufficient {
			style = p.warn
		}
		payload := fmt.Sprintf("%+v", e.Payload)
		if r, ok := e.Payload.(inventory.ReportPayload); ok {
			payload = fmt.Sprintf("%d items", len(r.Levels))
		}
		fmt.Fprintf(out, "%s%s %s\n", indent, style.Render(e.Name), p.muted.Render(payload))
		return nil
	}
}
