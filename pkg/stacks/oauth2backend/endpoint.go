package oauth2backend

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/jsii-runtime-go"
)

func createRestApiVpcEndpoint(stack awscdk.Stack, lookup Lookup, params resolvedParameters) (awsec2.InterfaceVpcEndpoint, error) {
	var (
		vpc     awsec2.IVpc
		sg      awsec2.ISecurityGroup
		subnet1 awsec2.ISubnet
		subnet2 awsec2.ISubnet
		err     error
	)

	if vpc, err = lookup.Vpc(stack, "DocsVPC", params.vpcID); err != nil {
		return nil, err
	}
	sg = lookup.SecurityGroup(stack, "DocsSecurityGroup", params.securityGroupID)
	subnet1 = awsec2.Subnet_FromSubnetId(stack, jsii.String("DocsSubnet1"), params.subnet1ID)
	subnet2 = awsec2.Subnet_FromSubnetId(stack, jsii.String("DocsSubnet2"), params.subnet2ID)

	// com.amazonaws.<region>.execute-api on 443, open to the VPC CIDR
	return awsec2.NewInterfaceVpcEndpoint(stack, jsii.String("DocsRestApiVpcEndpoint"), &awsec2.InterfaceVpcEndpointProps{
		Vpc:     vpc,
		Service: awsec2.InterfaceVpcEndpointAwsService_APIGATEWAY(),
		Subnets: &awsec2.SubnetSelection{
			Subnets: &[]awsec2.ISubnet{subnet1, subnet2},
		},
		PrivateDnsEnabled: jsii.Bool(true),
		SecurityGroups:    &[]awsec2.ISecurityGroup{sg},
	}), nil
}
