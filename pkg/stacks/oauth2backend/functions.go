package oauth2backend

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/jsii-runtime-go"
)

const (
	EnvGitHubClientID     = "OAUTH_GITHUB_CLIENT_ID"
	EnvGitHubClientSecret = "OAUTH_GITHUB_CLIENT_SECRET"
)

var runtimes = map[string]func() awslambda.Runtime{
	"nodejs18.x": awslambda.Runtime_NODEJS_18_X,
	"nodejs20.x": awslambda.Runtime_NODEJS_20_X,
	"nodejs22.x": awslambda.Runtime_NODEJS_22_X,
}

// function describes one compute unit: an entry module exporting a handler.
// A nil role lets CDK generate a function-local one.
type function struct {
	id      string
	entry   string
	role    awsiam.IRole
	withEnv bool
}

func handlerName(props StackProps, entry string) string {
	return entry + "." + props.Handler
}

func oauthEnvironment(props StackProps) map[string]*string {
	return map[string]*string{
		EnvGitHubClientID:     jsii.String(props.GitHubClientID),
		EnvGitHubClientSecret: jsii.String(props.GitHubClientSecret),
	}
}

func createFunction(stack awscdk.Stack, code *codeSource, f function, props StackProps) awslambda.Function {
	fprops := &awslambda.FunctionProps{
		Code:    code.forEntry(f.entry),
		Handler: jsii.String(handlerName(props, f.entry)),
		Runtime: runtimes[props.Runtime](),
	}

	if f.role != nil {
		fprops.Role = f.role
	}

	if f.withEnv {
		env := oauthEnvironment(props)
		fprops.Environment = &env
	}

	return awslambda.NewFunction(stack, jsii.String(f.id), fprops)
}

func createDefaultFunction(stack awscdk.Stack, code *codeSource, props StackProps) awslambda.Function {
	return createFunction(stack, code, function{
		id:    "lambda",
		entry: props.DefaultEntry,
	}, props)
}

func createAuthFunction(stack awscdk.Stack, code *codeSource, role awsiam.IRole, props StackProps) awslambda.Function {
	return createFunction(stack, code, function{
		id:      "AuthFunction",
		entry:   props.AuthEntry,
		role:    role,
		withEnv: true,
	}, props)
}

func createCallbackFunction(stack awscdk.Stack, code *codeSource, role awsiam.IRole, props StackProps) awslambda.Function {
	return createFunction(stack, code, function{
		id:      "CallbackFunction",
		entry:   props.CallbackEntry,
		role:    role,
		withEnv: true,
	}, props)
}
