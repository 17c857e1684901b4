package main

import (
	"context"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/tilled/decapcms-oauth2-backend/pkg/preflight"
	"github.com/tilled/decapcms-oauth2-backend/pkg/stacks/oauth2backend"
)

func newPreflightCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "preflight",
		Short: "Check that the docs VPC parameters exist and are readable",
		Long: `Reads the four parameter store entries the stack looks up at synth time,
resolves the CIDR of the docs VPC and reports every missing or unreadable one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger(opts.debug)
			defer func() { _ = logger.Sync() }()

			checker, err := preflight.NewChecker(cmd.Context(), opts.region, logger)
			if err != nil {
				return err
			}

			names := oauth2backend.ParameterNames(opts.prefix)
			lookup, err := resolve(cmd.Context(), checker, names)
			if renderErr := renderParameters(cmd.OutOrStdout(), names.All(), lookup); renderErr != nil {
				return renderErr
			}
			return err
		},
	}
}

// resolve reads the parameters and the CIDR of the VPC they name into a
// lookup usable for synth without account access.
func resolve(ctx context.Context, checker *preflight.Checker, names oauth2backend.Parameters) (oauth2backend.StaticLookup, error) {
	values, err := checker.Resolve(ctx, names.All())
	lookup := oauth2backend.StaticLookup{Values: values}
	if err != nil {
		return lookup, fmt.Errorf("preflight failed: %w", err)
	}

	if lookup.VpcCidrBlock, err = checker.VpcCidrBlock(ctx, values[names.VpcID]); err != nil {
		return lookup, fmt.Errorf("preflight failed: %w", err)
	}
	return lookup, nil
}

func renderParameters(w io.Writer, names []string, lookup oauth2backend.StaticLookup) error {
	table := tablewriter.NewWriter(w)
	table.Options(
		tablewriter.WithHeader([]string{"Parameter", "Value"}),
		tablewriter.WithAlignment(tw.MakeAlign(2, tw.AlignLeft)),
	)

	for _, name := range names {
		if err := table.Append([]string{name, valueOrMissing(lookup.Values[name])}); err != nil {
			return fmt.Errorf("failed to append row: %w", err)
		}
	}
	if err := table.Append([]string{"VPC CIDR", valueOrMissing(lookup.VpcCidrBlock)}); err != nil {
		return fmt.Errorf("failed to append row: %w", err)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}

func valueOrMissing(value string) string {
	if value == "" {
		return "MISSING"
	}
	return value
}
