// Package preflight checks that the parameter store entries the stack reads
// at plan time exist and are readable, and resolves the docs VPC CIDR, before
// the toolkit is invoked.
package preflight

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

var (
	ErrMissingRegion     = errors.New("missing region")
	ErrParameterNotFound = errors.New("parameter not found")
	ErrParameterEmpty    = errors.New("parameter is empty")
	ErrVpcNotFound       = errors.New("vpc not found")
)

// SSMClient defines the parameter store operations used, enabling mock injection for testing.
type SSMClient interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// EC2Client defines the VPC operations used, enabling mock injection for testing.
type EC2Client interface {
	DescribeVpcs(ctx context.Context, params *ec2.DescribeVpcsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeVpcsOutput, error)
}

type Checker struct {
	client SSMClient
	vpcs   EC2Client
	logger *zap.SugaredLogger
}

// NewChecker creates a Checker with regional parameter store and EC2 clients.
func NewChecker(ctx context.Context, region string, logger *zap.SugaredLogger) (*Checker, error) {
	if region == "" {
		return nil, ErrMissingRegion
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewCheckerWithClients(ssm.NewFromConfig(cfg), ec2.NewFromConfig(cfg), logger), nil
}

func NewCheckerWithClients(client SSMClient, vpcs EC2Client, logger *zap.SugaredLogger) *Checker {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Checker{client: client, vpcs: vpcs, logger: logger}
}

// Resolve reads every name and returns the current values. All failures are
// reported together, each naming its parameter.
func (c *Checker) Resolve(ctx context.Context, names []string) (map[string]string, error) {
	var (
		values = make(map[string]string, len(names))
		errs   []error
	)

	for _, name := range names {
		value, err := c.get(ctx, name)
		if err != nil {
			c.logger.Warnw("parameter check failed", "name", name, "error", err)
			errs = append(errs, err)
			continue
		}
		c.logger.Debugw("parameter resolved", "name", name)
		values[name] = value
	}

	if err := errors.Join(errs...); err != nil {
		return values, err
	}
	return values, nil
}

func (c *Checker) get(ctx context.Context, name string) (string, error) {
	out, err := c.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name: aws.String(name),
	})
	if err != nil {
		var notFound *types.ParameterNotFound
		if errors.As(err, &notFound) {
			return "", fmt.Errorf("%w: %s", ErrParameterNotFound, name)
		}
		return "", fmt.Errorf("failed to read parameter %s: %w", name, err)
	}

	if out.Parameter == nil || aws.ToString(out.Parameter.Value) == "" {
		return "", fmt.Errorf("%w: %s", ErrParameterEmpty, name)
	}
	return aws.ToString(out.Parameter.Value), nil
}

// VpcCidrBlock returns the primary IPv4 CIDR of the VPC. The endpoint opens
// 443 to it, so a static synth needs it next to the parameter values.
func (c *Checker) VpcCidrBlock(ctx context.Context, vpcID string) (string, error) {
	out, err := c.vpcs.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{
		VpcIds: []string{vpcID},
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "InvalidVpcID.NotFound" {
			return "", fmt.Errorf("%w: %s", ErrVpcNotFound, vpcID)
		}
		return "", fmt.Errorf("failed to describe vpc %s: %w", vpcID, err)
	}

	if len(out.Vpcs) == 0 || aws.ToString(out.Vpcs[0].CidrBlock) == "" {
		return "", fmt.Errorf("%w: %s", ErrVpcNotFound, vpcID)
	}
	c.logger.Debugw("vpc resolved", "vpc", vpcID, "cidr", aws.ToString(out.Vpcs[0].CidrBlock))
	return aws.ToString(out.Vpcs[0].CidrBlock), nil
}
