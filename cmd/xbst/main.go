package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/benz9527/xbst/xlog"
)

type options struct {
	treeKind        string
	logLevel        string
	logEncoder      string
	metrics         string
	metricsAddr     string
	metricsInterval time.Duration
	noColor         bool
}

func defaultLogLevel() string {
	if lvl := os.Getenv(xlog.XLogLevelEnv); len(lvl) > 0 {
		return lvl
	}
	return xlog.LogLevelWarn.String()
}

func addFlags(flags *pflag.FlagSet, opts *options) {
	flags.StringVar(&opts.treeKind, "tree", "rb", "initial tree kind, rb, avl or none")
	flags.StringVar(&opts.logLevel, "log-level", defaultLogLevel(), "log level, debug, info, warn or error")
	flags.StringVar(&opts.logEncoder, "log-encoder", "text", "log encoder, json or text")
	flags.StringVar(&opts.metrics, "metrics", "none", "metrics exporter, none, console or prometheus")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", ":9464", "listen address of the prometheus metrics endpoint")
	flags.DurationVar(&opts.metricsInterval, "metrics-interval", 10*time.Second, "export interval of the console metrics")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "xbst",
		Short:         "Interactive shell over the self-balancing binary search trees",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	addFlags(cmd.Flags(), opts)
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
