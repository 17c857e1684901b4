package oauth2backend

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsapigateway"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/jsii-runtime-go"
)

const (
	AuthPath     = "auth"
	CallbackPath = "callback"
)

func createRestApi(stack awscdk.Stack, handler awslambda.IFunction, endpoint awsec2.InterfaceVpcEndpoint) awsapigateway.LambdaRestApi {
	return awsapigateway.NewLambdaRestApi(stack, jsii.String("OAuth2BackendAPI"), &awsapigateway.LambdaRestApiProps{
		Handler: handler,
		Proxy:   jsii.Bool(false),
		EndpointConfiguration: &awsapigateway.EndpointConfiguration{
			Types:        &[]awsapigateway.EndpointType{awsapigateway.EndpointType_PRIVATE},
			VpcEndpoints: &[]awsec2.IVpcEndpoint{endpoint},
		},
		Policy: newAccessPolicy(endpoint),
	})
}

// addGetRoute binds GET /<path> to fn. Other methods are rejected by API Gateway.
func addGetRoute(api awsapigateway.RestApi, path string, fn awslambda.IFunction) awsapigateway.Resource {
	resource := api.Root().AddResource(jsii.String(path), nil)
	resource.AddMethod(jsii.String("GET"), awsapigateway.NewLambdaIntegration(fn, nil), nil)
	return resource
}

func createPathOutput(stack awscdk.Stack, api awsapigateway.RestApi, path string) awscdk.CfnOutput {
	return awscdk.NewCfnOutput(stack, jsii.String(path+"path"), &awscdk.CfnOutputProps{
		Value:       awscdk.Fn_Join(jsii.String(""), &[]*string{api.Url(), jsii.String(path)}),
		Description: jsii.String(path),
	})
}
