package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/turktranslate/internal/cli"
	"codeberg.org/snonux/turktranslate/internal/processor"
)

func main() {
	// Ctrl-C aborts the remote call in progress
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Create flags instance
	flags := cli.NewFlags()

	// Create root command with one handler per subcommand
	rootCmd := cli.CreateRootCommand(flags, cli.Handlers{
		Publish: func(ctx context.Context, phraseFile string) error {
			return withProcessor(ctx, flags, func(p *processor.Processor) error {
				return p.Publish(ctx, phraseFile)
			})
		},
		Review: func(ctx context.Context, taskFile string) error {
			return withProcessor(ctx, flags, func(p *processor.Processor) error {
				return p.Review(ctx, taskFile)
			})
		},
		Balance: func(ctx context.Context) error {
			return withProcessor(ctx, flags, func(p *processor.Processor) error {
				return p.Balance(ctx)
			})
		},
		History: func(ctx context.Context) error {
			return withProcessor(ctx, flags, func(p *processor.Processor) error {
				return p.History(ctx)
			})
		},
		Models: func(ctx context.Context) error {
			return withProcessor(ctx, flags, func(p *processor.Processor) error {
				return p.ListModels(ctx)
			})
		},
	})

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func withProcessor(ctx context.Context, flags *cli.Flags, fn func(p *processor.Processor) error) error {
	proc, err := processor.NewProcessor(ctx, flags)
	if err != nil {
		return err
	}
	defer proc.Close()

	return fn(proc)
}
