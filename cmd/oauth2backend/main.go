// Command oauth2backend checks deploy prerequisites of the OAuth2 backend
// stack and renders its resource graph.
//
// Usage:
//
//	oauth2backend preflight --region eu-west-1
//	oauth2backend graph --region eu-west-1 --account 123456789012 --code-dir dist
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type globalOptions struct {
	debug  bool
	region string
	prefix string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "oauth2backend",
		Short:         "Tooling for the Decap CMS OAuth2 backend stack",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&opts.region, "region", os.Getenv("AWS_REGION"), "AWS region of the parameter store")
	rootCmd.PersistentFlags().StringVar(&opts.prefix, "prefix", "/tilled-docs", "Parameter store path of docs VPC settings")

	rootCmd.AddCommand(
		newPreflightCmd(opts),
		newGraphCmd(opts),
	)

	return rootCmd
}

func newLogger(debug bool) *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return logger.Sugar()
}
