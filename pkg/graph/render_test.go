package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Generate_DOT(t *testing.T) {
	g, err := FromTemplate([]byte(sampleTemplate))
	require.NoError(t, err)

	gen := &Generator{}
	var sb strings.Builder
	require.NoError(t, gen.Generate(g, &sb))

	output := sb.String()
	assert.Contains(t, output, "digraph")
	assert.Contains(t, output, "AWS::EC2::VPCEndpoint")
	assert.Contains(t, output, "blue")
	assert.NotContains(t, output, "BootstrapVersion")
}

func TestGenerator_Generate_Parameters(t *testing.T) {
	g, err := FromTemplate([]byte(sampleTemplate))
	require.NoError(t, err)

	gen := &Generator{IncludeParameters: true}
	output, err := gen.GenerateString(g)
	require.NoError(t, err)

	assert.Contains(t, output, "BootstrapVersion")
	assert.Contains(t, output, "dashed")
}

func TestGenerator_Generate_Cluster(t *testing.T) {
	g, err := FromTemplate([]byte(sampleTemplate))
	require.NoError(t, err)

	gen := &Generator{ClusterByService: true}
	output, err := gen.GenerateString(g)
	require.NoError(t, err)

	// Api and Method share ApiGateway, the other services have one resource each
	assert.Contains(t, output, "subgraph cluster_")
	assert.Contains(t, output, `label="ApiGateway"`)
	assert.NotContains(t, output, `label="Lambda"`)

	// every resource is declared once, edges reuse the clustered nodes
	assert.Equal(t, 1, strings.Count(output, "[AWS::ApiGateway::RestApi]"))
	assert.NotContains(t, output, `label="Api",`)
	assert.NotContains(t, output, `label="Endpoint",`)
	assert.Equal(t, len(g.Resources)+1, strings.Count(output, "label="))
}

func TestGenerator_Generate_Mermaid(t *testing.T) {
	g, err := FromTemplate([]byte(sampleTemplate))
	require.NoError(t, err)

	gen := &Generator{Format: FormatMermaid}
	output, err := gen.GenerateString(g)
	require.NoError(t, err)

	assert.Contains(t, output, "-->")
	assert.NotContains(t, output, "digraph")
}

func TestGenerator_Generate_UnknownFormat(t *testing.T) {
	g, err := FromTemplate([]byte(sampleTemplate))
	require.NoError(t, err)

	gen := &Generator{Format: "svg"}
	_, err = gen.GenerateString(g)
	assert.Error(t, err)
}

func TestGenerator_Generate_Stable(t *testing.T) {
	g, err := FromTemplate([]byte(sampleTemplate))
	require.NoError(t, err)

	gen := &Generator{ClusterByService: true, IncludeParameters: true}
	first, err := gen.GenerateString(g)
	require.NoError(t, err)
	second, err := gen.GenerateString(g)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestServiceOf(t *testing.T) {
	assert.Equal(t, "Lambda", serviceOf("AWS::Lambda::Function"))
	assert.Equal(t, "Other", serviceOf("Custom::Thing"))
}
