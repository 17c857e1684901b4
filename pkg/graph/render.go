package graph

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/emicklei/dot"
)

// Format specifies the output format for the graph.
type Format string

const (
	// FormatDOT outputs Graphviz DOT format.
	FormatDOT Format = "dot"
	// FormatMermaid outputs Mermaid format for markdown rendering.
	FormatMermaid Format = "mermaid"
)

// Generator renders a Graph.
type Generator struct {
	// IncludeParameters adds template parameters as dashed nodes.
	IncludeParameters bool

	// Format is dot or mermaid. Defaults to dot.
	Format Format

	// ClusterByService groups resources by AWS service, e.g. EC2 or Lambda.
	ClusterByService bool
}

// Generate writes the rendered graph to w.
func (gen *Generator) Generate(g *Graph, w io.Writer) error {
	graph := gen.build(g)

	var output string
	switch gen.Format {
	case "", FormatDOT:
		output = graph.String()
	case FormatMermaid:
		output = dot.MermaidGraph(graph, dot.MermaidTopToBottom)
	default:
		return fmt.Errorf("unknown graph format %q", gen.Format)
	}

	_, err := io.WriteString(w, output)
	return err
}

// GenerateString returns the rendered graph.
func (gen *Generator) GenerateString(g *Graph) (string, error) {
	var sb strings.Builder
	if err := gen.Generate(g, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (gen *Generator) build(g *Graph) *dot.Graph {
	graph := dot.NewGraph(dot.Directed)
	graph.Attr("rankdir", "TB")

	graph.NodeInitializer(func(n dot.Node) {
		n.Attr("shape", "box")
		n.Attr("fontname", "Arial")
	})
	graph.EdgeInitializer(func(e dot.Edge) {
		e.Attr("fontname", "Arial")
		e.Attr("fontsize", "10")
	})

	ids := make([]string, 0, len(g.Resources))
	for id := range g.Resources {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	nodes := make(map[string]dot.Node, len(ids))
	if gen.ClusterByService {
		gen.addClusteredNodes(graph, g, ids, nodes)
	} else {
		for _, id := range ids {
			nodes[id] = graph.Node(id).Label(nodeLabel(g.Resources[id]))
		}
	}

	if gen.IncludeParameters {
		params := make([]string, 0, len(g.Parameters))
		for name := range g.Parameters {
			params = append(params, name)
		}
		sort.Strings(params)
		for _, name := range params {
			n := graph.Node(name)
			n.Attr("shape", "ellipse")
			n.Attr("style", "dashed")
			nodes[name] = n.Label(name)
		}
	}

	// edges must connect the nodes created above, wherever they live
	for _, id := range ids {
		res := g.Resources[id]
		from := nodes[id]
		for _, dep := range res.Dependencies {
			to, ok := nodes[dep]
			if !ok {
				continue
			}
			e := graph.Edge(from, to)
			if res.AttrRefs[dep] {
				e.Attr("color", "blue")
			}
		}
		if gen.IncludeParameters {
			for _, p := range res.Parameters {
				if to, ok := nodes[p]; ok {
					graph.Edge(from, to).Attr("style", "dashed")
				}
			}
		}
	}

	return graph
}

func (gen *Generator) addClusteredNodes(graph *dot.Graph, g *Graph, ids []string, nodes map[string]dot.Node) {
	byService := map[string][]string{}
	var services []string
	for _, id := range ids {
		service := serviceOf(g.Resources[id].Type)
		if _, ok := byService[service]; !ok {
			services = append(services, service)
		}
		byService[service] = append(byService[service], id)
	}
	sort.Strings(services)

	for _, service := range services {
		members := byService[service]
		if len(members) == 1 {
			nodes[members[0]] = graph.Node(members[0]).Label(nodeLabel(g.Resources[members[0]]))
			continue
		}
		cluster := graph.Subgraph(service, dot.ClusterOption{})
		cluster.Attr("label", service)
		cluster.Attr("style", "rounded")
		cluster.Attr("bgcolor", "lightyellow")
		for _, id := range members {
			nodes[id] = cluster.Node(id).Label(nodeLabel(g.Resources[id]))
		}
	}
}

func nodeLabel(res *Resource) string {
	return res.LogicalID + "\\n[" + res.Type + "]"
}

// serviceOf extracts the service from a CloudFormation type.
// e.g., "AWS::Lambda::Function" -> "Lambda"
func serviceOf(cfnType string) string {
	parts := strings.Split(cfnType, "::")
	if len(parts) == 3 {
		return parts[1]
	}
	return "Other"
}
