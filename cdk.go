package main

import (
	"os"
	"strings"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"
	"go.uber.org/zap"

	"github.com/tilled/decapcms-oauth2-backend/pkg/stacks/oauth2backend"
)

const defaultStackName = "DecapCMSLambdaOauth2BackendStack"

func main() {
	defer jsii.Close()

	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	app := awscdk.NewApp(nil)
	props := oauth2backend.StackProps{
		StackProps: awscdk.StackProps{
			Env: env(),
		},
	}

	readStackProps(app, &props)

	stackName := readCtxParam[string](app, "stackName")
	if stackName == "" {
		stackName = defaultStackName
	}

	if _, err := oauth2backend.NewStack(app, stackName, props); err != nil {
		logger.Errorw("could not create stack", "stack", stackName, "error", err)
		os.Exit(1)
	}

	logger.Debugw("synthesizing", "stack", stackName)
	app.Synth(nil)
}

func newLogger() *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	if readBoolEnv("CDK_DEBUG") {
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return logger.Sugar()
}

func readStackProps(app awscdk.App, props *oauth2backend.StackProps) {
	props.CodeDir = readCtxParam[string](app, "codeDir")
	props.S3BucketName = readCtxParam[string](app, "s3BucketName")
	props.S3KeyPrefix = readCtxParam[string](app, "s3KeyPrefix")
	props.Version = readCtxParam[string](app, "version")
	props.Runtime = readCtxParam[string](app, "runtime")
	props.Handler = readCtxParam[string](app, "handler")
	props.ParameterPrefix = readCtxParam[string](app, "parameterPrefix")
	props.GitHubClientID = readCtxParam[string](app, "githubClientID")
	// read secret from env var
	props.GitHubClientSecret = getEnvFromVars(oauth2backend.EnvGitHubClientSecret)
	props.Lookup = readLookup(app, props.ParameterPrefix)
}

// readLookup switches to static values when the docs VPC is given in context,
// otherwise everything is looked up in the target account.
func readLookup(app awscdk.App, prefix string) oauth2backend.Lookup {
	vpcID := readCtxParam[string](app, "vpcID")
	if vpcID == "" {
		return oauth2backend.ContextLookup{}
	}

	if prefix == "" {
		prefix = oauth2backend.DefaultStackProps.ParameterPrefix
	}
	names := oauth2backend.ParameterNames(prefix)
	values := map[string]string{
		names.VpcID:                 vpcID,
		names.EndpointSecurityGroup: readCtxParam[string](app, "endpointSecurityGroupID"),
	}

	if ids := readCtxParam[string](app, "endpointSubnetIDs"); ids != "" {
		subnets := strings.Split(ids, ",")
		values[names.EndpointSubnet1] = strings.TrimSpace(subnets[0])
		if len(subnets) > 1 {
			values[names.EndpointSubnet2] = strings.TrimSpace(subnets[1])
		}
	}

	return oauth2backend.StaticLookup{
		Values:       values,
		VpcCidrBlock: readCtxParam[string](app, "vpcCidrBlock"),
	}
}

func readCtxParam[T any](app awscdk.App, key string) T {
	var t T
	val, ok := app.Node().TryGetContext(jsii.String(key)).(T)
	if !ok {
		return t
	}
	return val
}

func env() *awscdk.Environment {
	return &awscdk.Environment{
		Account: jsii.String(getEnvFromVars("CDK_DEPLOY_ACCOUNT", "CDK_DEFAULT_ACCOUNT")),
		Region:  jsii.String(getEnvFromVars("CDK_DEPLOY_REGION", "CDK_DEFAULT_REGION")),
	}
}

func getEnvFromVars(vars ...string) string {
	for _, v := range vars {
		if val, ok := os.LookupEnv(v); ok {
			return val
		}
	}
	return ""
}

func readBoolEnv(name string) bool {
	switch strings.ToLower(getEnvFromVars(name)) {
	case "1", "true", "yes":
		return true
	}
	return false
}
