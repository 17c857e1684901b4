package oauth2backend

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsapigateway"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/constructs-go/constructs/v10"
)

type Stack struct {
	Stack            awscdk.Stack
	DefaultFunction  awslambda.Function
	AuthFunction     awslambda.Function
	CallbackFunction awslambda.Function
	ExecutionRole    awsiam.Role
	Endpoint         awsec2.InterfaceVpcEndpoint
	API              awsapigateway.LambdaRestApi
	AuthURL          awscdk.CfnOutput
	CallbackURL      awscdk.CfnOutput
}

// NewStack declares the private OAuth2 backend. Docs VPC settings are read
// from the parameter store under props.ParameterPrefix.
func NewStack(scope constructs.Construct, id string, props StackProps) (Stack, error) {
	var (
		err    error
		sprops awscdk.StackProps
		stack  awscdk.Stack
		params resolvedParameters
		code   *codeSource
		out    Stack
	)
	setDefaultStackProps(&props)
	sprops = props.StackProps

	if err = validateStackProps(props); err != nil {
		return Stack{}, fmt.Errorf("invalid stack props %w", err)
	}
	stack = awscdk.NewStack(scope, &id, &sprops)

	if params, err = resolveParameters(stack, props.Lookup, ParameterNames(props.ParameterPrefix)); err != nil {
		return Stack{}, fmt.Errorf("could not resolve parameters %w", err)
	}

	code = newCodeSource(stack, props)

	out.Stack = stack
	out.DefaultFunction = createDefaultFunction(stack, code, props)
	out.ExecutionRole = createExecutionRole(stack)
	out.AuthFunction = createAuthFunction(stack, code, out.ExecutionRole, props)
	out.CallbackFunction = createCallbackFunction(stack, code, out.ExecutionRole, props)
	if out.Endpoint, err = createRestApiVpcEndpoint(stack, props.Lookup, params); err != nil {
		return Stack{}, fmt.Errorf("could not import docs vpc %w", err)
	}

	out.API = createRestApi(stack, out.DefaultFunction, out.Endpoint)
	addGetRoute(out.API, AuthPath, out.AuthFunction)
	addGetRoute(out.API, CallbackPath, out.CallbackFunction)

	out.AuthURL = createPathOutput(stack, out.API, AuthPath)
	out.CallbackURL = createPathOutput(stack, out.API, CallbackPath)

	return out, nil
}
