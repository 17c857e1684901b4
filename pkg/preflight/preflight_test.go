package preflight

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSSMClient implements SSMClient for testing.
type mockSSMClient struct {
	values map[string]string
	errs   map[string]error
	calls  []string
}

func (m *mockSSMClient) GetParameter(
	_ context.Context,
	params *ssm.GetParameterInput,
	_ ...func(*ssm.Options),
) (*ssm.GetParameterOutput, error) {
	name := aws.ToString(params.Name)
	m.calls = append(m.calls, name)

	if err, ok := m.errs[name]; ok {
		return nil, err
	}
	value, ok := m.values[name]
	if !ok {
		return nil, &types.ParameterNotFound{Message: aws.String("not found")}
	}
	return &ssm.GetParameterOutput{
		Parameter: &types.Parameter{Name: params.Name, Value: aws.String(value)},
	}, nil
}

// mockEC2Client implements EC2Client for testing.
type mockEC2Client struct {
	cidrs map[string]string
	err   error
}

func (m *mockEC2Client) DescribeVpcs(
	_ context.Context,
	params *ec2.DescribeVpcsInput,
	_ ...func(*ec2.Options),
) (*ec2.DescribeVpcsOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := &ec2.DescribeVpcsOutput{}
	for _, id := range params.VpcIds {
		if cidr, ok := m.cidrs[id]; ok {
			out.Vpcs = append(out.Vpcs, ec2types.Vpc{VpcId: aws.String(id), CidrBlock: aws.String(cidr)})
		}
	}
	return out, nil
}

func TestChecker_Resolve(t *testing.T) {
	t.Parallel()

	names := []string{"/docs/A", "/docs/B", "/docs/C"}
	denied := errors.New("AccessDeniedException")

	tests := []struct {
		name       string
		values     map[string]string
		errs       map[string]error
		wantValues map[string]string
		wantErrs   []error
		wantNames  []string
	}{
		{
			name:       "all present",
			values:     map[string]string{"/docs/A": "a", "/docs/B": "b", "/docs/C": "c"},
			wantValues: map[string]string{"/docs/A": "a", "/docs/B": "b", "/docs/C": "c"},
		},
		{
			name:       "missing parameters are all reported",
			values:     map[string]string{"/docs/B": "b"},
			wantValues: map[string]string{"/docs/B": "b"},
			wantErrs:   []error{ErrParameterNotFound},
			wantNames:  []string{"/docs/A", "/docs/C"},
		},
		{
			name:       "empty value",
			values:     map[string]string{"/docs/A": "a", "/docs/B": "", "/docs/C": "c"},
			wantValues: map[string]string{"/docs/A": "a", "/docs/C": "c"},
			wantErrs:   []error{ErrParameterEmpty},
			wantNames:  []string{"/docs/B"},
		},
		{
			name:       "read error is wrapped",
			values:     map[string]string{"/docs/A": "a", "/docs/B": "b"},
			errs:       map[string]error{"/docs/C": denied},
			wantValues: map[string]string{"/docs/A": "a", "/docs/B": "b"},
			wantErrs:   []error{denied},
			wantNames:  []string{"/docs/C"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			client := &mockSSMClient{values: tc.values, errs: tc.errs}
			checker := NewCheckerWithClients(client, nil, nil)

			values, err := checker.Resolve(context.Background(), names)
			assert.Equal(t, tc.wantValues, values)
			assert.Equal(t, names, client.calls)

			if len(tc.wantErrs) == 0 {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, want := range tc.wantErrs {
				assert.ErrorIs(t, err, want)
			}
			for _, name := range tc.wantNames {
				assert.Contains(t, err.Error(), name)
			}
		})
	}
}

func TestNewChecker_MissingRegion(t *testing.T) {
	t.Parallel()

	_, err := NewChecker(context.Background(), "", nil)
	assert.ErrorIs(t, err, ErrMissingRegion)
}

func TestChecker_VpcCidrBlock(t *testing.T) {
	t.Parallel()

	denied := errors.New("UnauthorizedOperation")

	tests := []struct {
		name     string
		client   *mockEC2Client
		vpcID    string
		wantCidr string
		wantErr  error
	}{
		{
			name:     "known vpc",
			client:   &mockEC2Client{cidrs: map[string]string{"vpc-123": "10.0.0.0/16"}},
			vpcID:    "vpc-123",
			wantCidr: "10.0.0.0/16",
		},
		{
			name:    "empty result",
			client:  &mockEC2Client{},
			vpcID:   "vpc-404",
			wantErr: ErrVpcNotFound,
		},
		{
			name:    "not found api error",
			client:  &mockEC2Client{err: &smithy.GenericAPIError{Code: "InvalidVpcID.NotFound", Message: "gone"}},
			vpcID:   "vpc-404",
			wantErr: ErrVpcNotFound,
		},
		{
			name:    "describe error is wrapped",
			client:  &mockEC2Client{err: denied},
			vpcID:   "vpc-123",
			wantErr: denied,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			checker := NewCheckerWithClients(nil, tc.client, nil)
			cidr, err := checker.VpcCidrBlock(context.Background(), tc.vpcID)

			if tc.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, tc.wantCidr, cidr)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Contains(t, err.Error(), tc.vpcID)
		})
	}
}
