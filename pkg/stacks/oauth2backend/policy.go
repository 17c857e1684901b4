package oauth2backend

import (
	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/jsii-runtime-go"
)

const (
	invokeAction   = "execute-api:Invoke"
	invokeResource = "execute-api:/*"
)

// newAccessPolicy narrows invocation to requests arriving through the endpoint.
// Both statements are required: the deny alone grants nothing and the allow
// alone opens the API to every endpoint.
func newAccessPolicy(endpoint awsec2.IVpcEndpoint) awsiam.PolicyDocument {
	return awsiam.NewPolicyDocument(&awsiam.PolicyDocumentProps{
		Statements: &[]awsiam.PolicyStatement{
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Principals: &[]awsiam.IPrincipal{awsiam.NewAnyPrincipal()},
				Actions:    jsii.Strings(invokeAction),
				Resources:  jsii.Strings(invokeResource),
				Effect:     awsiam.Effect_DENY,
				Conditions: &map[string]interface{}{
					"StringNotEquals": map[string]interface{}{
						"aws:SourceVpce": endpoint.VpcEndpointId(),
					},
				},
			}),
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Principals: &[]awsiam.IPrincipal{awsiam.NewAnyPrincipal()},
				Actions:    jsii.Strings(invokeAction),
				Resources:  jsii.Strings(invokeResource),
				Effect:     awsiam.Effect_ALLOW,
			}),
		},
	})
}
