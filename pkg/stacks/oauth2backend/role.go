package oauth2backend

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/jsii-runtime-go"
)

var executionRoleManagedPolicies = []string{
	"service-role/AWSLambdaBasicExecutionRole",
	"AmazonSSMReadOnlyAccess",
}

// createExecutionRole grants logging and read-only parameter store access.
// Any other permission has to be added here.
func createExecutionRole(stack awscdk.Stack) awsiam.Role {
	policies := make([]awsiam.IManagedPolicy, 0, len(executionRoleManagedPolicies))
	for _, name := range executionRoleManagedPolicies {
		policies = append(policies, awsiam.ManagedPolicy_FromAwsManagedPolicyName(jsii.String(name)))
	}

	return awsiam.NewRole(stack, jsii.String("SSMSecureStringLambdaRole"), &awsiam.RoleProps{
		AssumedBy:       awsiam.NewServicePrincipal(jsii.String("lambda.amazonaws.com"), nil),
		ManagedPolicies: &policies,
	})
}
