package main

import (
	"fmt"
	"os"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"
	"github.com/spf13/cobra"

	"github.com/tilled/decapcms-oauth2-backend/pkg/graph"
	"github.com/tilled/decapcms-oauth2-backend/pkg/preflight"
	"github.com/tilled/decapcms-oauth2-backend/pkg/stacks/oauth2backend"
)

type graphOptions struct {
	account           string
	codeDir           string
	format            string
	cluster           bool
	includeParameters bool
}

func newGraphCmd(opts *globalOptions) *cobra.Command {
	gopts := &graphOptions{}

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the resource dependency graph of the stack",
		Long: `Resolves the docs VPC parameters, synthesizes the stack and renders the
declared resources with their dependency edges.

    oauth2backend graph --region eu-west-1 --account 123456789012 --code-dir dist | dot -Tpng -o stack.png
    oauth2backend graph --region eu-west-1 --account 123456789012 --code-dir dist -f mermaid`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGraph(cmd, opts, gopts)
		},
	}

	cmd.Flags().StringVar(&gopts.account, "account", os.Getenv("CDK_DEFAULT_ACCOUNT"), "AWS account of the stack")
	cmd.Flags().StringVar(&gopts.codeDir, "code-dir", "dist", "Directory with built handler modules")
	cmd.Flags().StringVarP(&gopts.format, "format", "f", "dot", "Output format: dot or mermaid")
	cmd.Flags().BoolVarP(&gopts.cluster, "cluster", "c", false, "Cluster resources by AWS service")
	cmd.Flags().BoolVarP(&gopts.includeParameters, "include-parameters", "p", false, "Include template parameters")

	return cmd
}

func runGraph(cmd *cobra.Command, opts *globalOptions, gopts *graphOptions) error {
	logger := newLogger(opts.debug)
	defer func() { _ = logger.Sync() }()

	checker, err := preflight.NewChecker(cmd.Context(), opts.region, logger)
	if err != nil {
		return err
	}
	lookup, err := resolve(cmd.Context(), checker, oauth2backend.ParameterNames(opts.prefix))
	if err != nil {
		return err
	}

	outdir, err := os.MkdirTemp("", "oauth2backend-graph-")
	if err != nil {
		return fmt.Errorf("failed to create assembly dir: %w", err)
	}
	defer os.RemoveAll(outdir)

	defer jsii.Close()
	app := awscdk.NewApp(&awscdk.AppProps{Outdir: jsii.String(outdir)})
	stack, err := oauth2backend.NewStack(app, "DecapCMSLambdaOauth2BackendStack", oauth2backend.StackProps{
		StackProps: awscdk.StackProps{
			Env: &awscdk.Environment{
				Account: jsii.String(gopts.account),
				Region:  jsii.String(opts.region),
			},
		},
		CodeDir:         gopts.codeDir,
		ParameterPrefix: opts.prefix,
		Lookup:          lookup,
	})
	if err != nil {
		return fmt.Errorf("could not create stack: %w", err)
	}

	artifact := app.Synth(nil).GetStackByName(stack.Stack.StackName())
	logger.Debugw("stack synthesized", "template", *artifact.TemplateFullPath())

	doc, err := os.ReadFile(*artifact.TemplateFullPath())
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}

	g, err := graph.FromTemplate(doc)
	if err != nil {
		return err
	}

	gen := &graph.Generator{
		Format:            graph.Format(gopts.format),
		ClusterByService:  gopts.cluster,
		IncludeParameters: gopts.includeParameters,
	}
	return gen.Generate(g, cmd.OutOrStdout())
}
