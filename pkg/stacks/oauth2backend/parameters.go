package oauth2backend

import (
	"errors"
	"fmt"
	"path"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsssm"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

const (
	VpcIDParameter                 = "DOCS_VPC_ID"
	EndpointSecurityGroupParameter = "DOCS_VPC_ENDPOINT_SG_ID"
	EndpointSubnet1Parameter       = "DOCS_VPC_ENDPOINT_SUBNET1"
	EndpointSubnet2Parameter       = "DOCS_VPC_ENDPOINT_SUBNET2"
)

var (
	ErrParameterMissing = errors.New("parameter missing")
	ErrVpcCidrMissing   = errors.New("vpc cidr block missing")
)

// Parameters holds the fully qualified parameter store names the stack reads.
type Parameters struct {
	VpcID                 string
	EndpointSecurityGroup string
	EndpointSubnet1       string
	EndpointSubnet2       string
}

func ParameterNames(prefix string) Parameters {
	return Parameters{
		VpcID:                 path.Join(prefix, VpcIDParameter),
		EndpointSecurityGroup: path.Join(prefix, EndpointSecurityGroupParameter),
		EndpointSubnet1:       path.Join(prefix, EndpointSubnet1Parameter),
		EndpointSubnet2:       path.Join(prefix, EndpointSubnet2Parameter),
	}
}

// All returns the names in declaration order.
func (p Parameters) All() []string {
	return []string{p.VpcID, p.EndpointSecurityGroup, p.EndpointSubnet1, p.EndpointSubnet2}
}

// Lookup resolves deploy-time values the stack depends on.
type Lookup interface {
	StringParameter(scope constructs.Construct, name string) (*string, error)
	Vpc(scope constructs.Construct, id string, vpcID *string) (awsec2.IVpc, error)
	SecurityGroup(scope constructs.Construct, id string, securityGroupID *string) awsec2.ISecurityGroup
}

// ContextLookup resolves through CDK context providers. Values are fetched
// by the toolkit at synth time and a missing parameter fails the plan.
type ContextLookup struct{}

func (ContextLookup) StringParameter(scope constructs.Construct, name string) (*string, error) {
	return awsssm.StringParameter_ValueFromLookup(scope, jsii.String(name), nil, nil), nil
}

func (ContextLookup) Vpc(scope constructs.Construct, id string, vpcID *string) (awsec2.IVpc, error) {
	return awsec2.Vpc_FromLookup(scope, jsii.String(id), &awsec2.VpcLookupOptions{
		VpcId: vpcID,
	}), nil
}

func (ContextLookup) SecurityGroup(scope constructs.Construct, id string, securityGroupID *string) awsec2.ISecurityGroup {
	return awsec2.SecurityGroup_FromLookupById(scope, jsii.String(id), securityGroupID)
}

// StaticLookup serves values resolved ahead of synth, e.g. from CDK context
// overrides or a preflight run. Nothing is looked up in the account.
type StaticLookup struct {
	Values map[string]string
	// VpcCidrBlock of the docs VPC, the endpoint admits 443 from it
	VpcCidrBlock string
	// AvailabilityZones of the VPC, stack AZs when empty
	AvailabilityZones []string
}

func (l StaticLookup) StringParameter(_ constructs.Construct, name string) (*string, error) {
	value, ok := l.Values[name]
	if !ok || value == "" {
		return nil, fmt.Errorf("%w: %s", ErrParameterMissing, name)
	}
	return jsii.String(value), nil
}

func (l StaticLookup) Vpc(scope constructs.Construct, id string, vpcID *string) (awsec2.IVpc, error) {
	if l.VpcCidrBlock == "" {
		return nil, fmt.Errorf("%w: %s", ErrVpcCidrMissing, *vpcID)
	}
	azs := jsii.Strings(l.AvailabilityZones...)
	if len(l.AvailabilityZones) == 0 {
		azs = awscdk.Stack_Of(scope).AvailabilityZones()
	}
	return awsec2.Vpc_FromVpcAttributes(scope, jsii.String(id), &awsec2.VpcAttributes{
		VpcId:             vpcID,
		VpcCidrBlock:      jsii.String(l.VpcCidrBlock),
		AvailabilityZones: azs,
	}), nil
}

func (l StaticLookup) SecurityGroup(scope constructs.Construct, id string, securityGroupID *string) awsec2.ISecurityGroup {
	return awsec2.SecurityGroup_FromSecurityGroupId(scope, jsii.String(id), securityGroupID, nil)
}

type resolvedParameters struct {
	vpcID           *string
	securityGroupID *string
	subnet1ID       *string
	subnet2ID       *string
}

func resolveParameters(stack awscdk.Stack, lookup Lookup, names Parameters) (resolvedParameters, error) {
	var (
		resolved resolvedParameters
		errs     []error
	)

	get := func(name string) *string {
		value, err := lookup.StringParameter(stack, name)
		if err != nil {
			errs = append(errs, err)
		}
		return value
	}

	resolved.vpcID = get(names.VpcID)
	resolved.securityGroupID = get(names.EndpointSecurityGroup)
	resolved.subnet1ID = get(names.EndpointSubnet1)
	resolved.subnet2ID = get(names.EndpointSubnet2)

	return resolved, errors.Join(errs...)
}
