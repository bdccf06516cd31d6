package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"telepathic-go/packages/telepathic/config"
	"telepathic-go/packages/telepathic/util"
)

var logLevel string

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "telepathic",
		Short:         "Inspect and render data-bound templates",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn, error or off (default from TELEPATHIC_LOG_LEVEL)")
	root.AddCommand(newMarkersCommand(), newRenderCommand())
	return root
}

// loadConfig reads TELEPATHIC_* variables, letting --log-level win
func loadConfig() (*config.Config, util.Console, error) {
	var opts []config.Option
	if logLevel != "" {
		opts = append(opts, config.WithLogLevel(logLevel))
	}
	cfg := config.FromEnvironment(opts...)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, util.NewConsole(os.Stderr, util.ParseLogLevel(cfg.LogLevel)), nil
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "telepathic: %v\n", err)
		os.Exit(1)
	}
}
