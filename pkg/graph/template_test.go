package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTemplate = `{
  "Parameters": {
    "BootstrapVersion": {"Type": "AWS::SSM::Parameter::Value<String>"}
  },
  "Resources": {
    "Endpoint": {
      "Type": "AWS::EC2::VPCEndpoint",
      "Properties": {
        "VpcId": "vpc-123",
        "ServiceName": {"Fn::Join": ["", ["com.amazonaws.", {"Ref": "AWS::Region"}, ".execute-api"]]}
      }
    },
    "Role": {
      "Type": "AWS::IAM::Role",
      "Properties": {"Path": "/"}
    },
    "Fn": {
      "Type": "AWS::Lambda::Function",
      "Properties": {"Role": {"Fn::GetAtt": ["Role", "Arn"]}},
      "DependsOn": ["Role"]
    },
    "Api": {
      "Type": "AWS::ApiGateway::RestApi",
      "Properties": {
        "Policy": {"Condition": {"StringNotEquals": {"aws:SourceVpce": {"Ref": "Endpoint"}}}}
      }
    },
    "Method": {
      "Type": "AWS::ApiGateway::Method",
      "Properties": {
        "RestApiId": {"Ref": "Api"},
        "Uri": {"Fn::Sub": "arn:aws:apigateway:${AWS::Region}:lambda:path/functions/${Fn.Arn}/invocations"},
        "Check": {"Ref": "BootstrapVersion"}
      },
      "DependsOn": "Api"
    }
  }
}`

func TestFromTemplate_Dependencies(t *testing.T) {
	g, err := FromTemplate([]byte(sampleTemplate))
	require.NoError(t, err)

	require.Len(t, g.Resources, 5)
	assert.Empty(t, g.Dependencies("Endpoint"))
	assert.Empty(t, g.Dependencies("Role"))
	assert.Equal(t, []string{"Role"}, g.Dependencies("Fn"))
	assert.True(t, g.Resources["Fn"].AttrRefs["Role"])
	assert.Equal(t, []string{"Endpoint"}, g.Dependencies("Api"))
	assert.Equal(t, []string{"Api", "Fn"}, g.Dependencies("Method"))
	assert.True(t, g.Resources["Method"].AttrRefs["Fn"])
	assert.Equal(t, []string{"BootstrapVersion"}, g.Resources["Method"].Parameters)
	assert.Nil(t, g.Dependencies("Missing"))
}

func TestGraph_DependsOn(t *testing.T) {
	g, err := FromTemplate([]byte(sampleTemplate))
	require.NoError(t, err)

	assert.True(t, g.DependsOn("Method", "Endpoint"))
	assert.True(t, g.DependsOn("Method", "Role"))
	assert.False(t, g.DependsOn("Endpoint", "Api"))
	assert.False(t, g.DependsOn("Role", "Fn"))
}

func TestGraph_Order(t *testing.T) {
	g, err := FromTemplate([]byte(sampleTemplate))
	require.NoError(t, err)

	order, err := g.Order()
	require.NoError(t, err)
	assert.Equal(t, []string{"Endpoint", "Api", "Role", "Fn", "Method"}, order)

	again, err := g.Order()
	require.NoError(t, err)
	assert.Equal(t, order, again)
}

func TestGraph_OrderCycle(t *testing.T) {
	doc := `{"Resources": {
	  "A": {"Type": "AWS::SNS::Topic", "Properties": {"X": {"Ref": "B"}}},
	  "B": {"Type": "AWS::SNS::Topic", "Properties": {"X": {"Ref": "A"}}},
	  "C": {"Type": "AWS::SNS::Topic"}
	}}`
	g, err := FromTemplate([]byte(doc))
	require.NoError(t, err)

	_, err = g.Order()
	require.ErrorIs(t, err, ErrCycle)
	assert.Contains(t, err.Error(), "A, B")
}

func TestGraph_OfType(t *testing.T) {
	g, err := FromTemplate([]byte(sampleTemplate))
	require.NoError(t, err)

	assert.Equal(t, []string{"Fn"}, g.OfType("AWS::Lambda::Function"))
	assert.Empty(t, g.OfType("AWS::S3::Bucket"))
}

func TestFromTemplate_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "not json", doc: "Resources:"},
		{name: "no resources", doc: `{"Outputs": {}}`},
		{name: "resources not an object", doc: `{"Resources": []}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromTemplate([]byte(tc.doc))
			assert.ErrorIs(t, err, ErrInvalidTemplate)
		})
	}
}
