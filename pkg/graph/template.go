// Package graph models a synthesized CloudFormation template as a directed
// graph of resources with dependency edges inferred from cross-references.
package graph

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	ErrInvalidTemplate = errors.New("invalid template")
	ErrCycle           = errors.New("dependency cycle")
)

// Resource is one template resource and the logical ids it references.
type Resource struct {
	LogicalID    string
	Type         string
	Dependencies []string
	// Parameters are template parameters the resource references.
	Parameters []string
	// AttrRefs marks dependencies reached through Fn::GetAtt.
	AttrRefs map[string]bool
}

// Graph is the declared resource graph of one stack.
type Graph struct {
	Resources  map[string]*Resource
	Parameters map[string]string
}

var subPlaceholder = regexp.MustCompile(`\$\{([^!}][^}]*)\}`)

// FromTemplate parses a CloudFormation template document.
func FromTemplate(doc []byte) (*Graph, error) {
	if !gjson.ValidBytes(doc) {
		return nil, fmt.Errorf("%w: not a json document", ErrInvalidTemplate)
	}

	root := gjson.ParseBytes(doc)
	resources := root.Get("Resources")
	if !resources.IsObject() {
		return nil, fmt.Errorf("%w: missing Resources", ErrInvalidTemplate)
	}

	g := &Graph{
		Resources:  map[string]*Resource{},
		Parameters: map[string]string{},
	}

	root.Get("Parameters").ForEach(func(name, value gjson.Result) bool {
		g.Parameters[name.String()] = value.Get("Type").String()
		return true
	})

	resources.ForEach(func(name, value gjson.Result) bool {
		g.Resources[name.String()] = &Resource{
			LogicalID: name.String(),
			Type:      value.Get("Type").String(),
			AttrRefs:  map[string]bool{},
		}
		return true
	})

	for id, res := range g.Resources {
		body := resources.Get(gjson.Escape(id))
		refs := &collector{graph: g, self: id, deps: map[string]bool{}, params: map[string]bool{}, attrs: res.AttrRefs}

		refs.walk(body.Get("Properties"))
		refs.walk(body.Get("Metadata"))

		depends := body.Get("DependsOn")
		if depends.IsArray() {
			depends.ForEach(func(_, v gjson.Result) bool {
				refs.resource(v.String())
				return true
			})
		} else if depends.Exists() {
			refs.resource(depends.String())
		}

		res.Dependencies = sortedKeys(refs.deps)
		res.Parameters = sortedKeys(refs.params)
	}

	return g, nil
}

type collector struct {
	graph  *Graph
	self   string
	deps   map[string]bool
	params map[string]bool
	attrs  map[string]bool
}

func (c *collector) resource(id string) bool {
	if id == c.self {
		return false
	}
	if _, ok := c.graph.Resources[id]; ok {
		c.deps[id] = true
		return true
	}
	if _, ok := c.graph.Parameters[id]; ok {
		c.params[id] = true
	}
	return false
}

func (c *collector) reference(name string) {
	// pseudo parameters, e.g. AWS::Region
	if strings.HasPrefix(name, "AWS::") {
		return
	}
	c.resource(name)
}

func (c *collector) attribute(target string) {
	if c.resource(target) {
		c.attrs[target] = true
	}
}

func (c *collector) walk(v gjson.Result) {
	switch {
	case v.IsArray():
		v.ForEach(func(_, item gjson.Result) bool {
			c.walk(item)
			return true
		})
	case v.IsObject():
		if ref := v.Get("Ref"); ref.Exists() && ref.Type == gjson.String {
			c.reference(ref.String())
		}
		if att := v.Get("Fn::GetAtt"); att.Exists() {
			switch {
			case att.IsArray():
				c.attribute(att.Get("0").String())
			case att.Type == gjson.String:
				c.attribute(strings.SplitN(att.String(), ".", 2)[0])
			}
		}
		if sub := v.Get("Fn::Sub"); sub.Exists() {
			text := sub
			if sub.IsArray() {
				text = sub.Get("0")
				c.walk(sub.Get("1"))
			}
			for _, m := range subPlaceholder.FindAllStringSubmatch(text.String(), -1) {
				name := strings.SplitN(m[1], ".", 2)[0]
				if strings.Contains(m[1], ".") {
					c.attribute(name)
				} else {
					c.reference(name)
				}
			}
		}
		v.ForEach(func(_, item gjson.Result) bool {
			c.walk(item)
			return true
		})
	}
}

// Dependencies returns the resources id references directly.
func (g *Graph) Dependencies(id string) []string {
	res, ok := g.Resources[id]
	if !ok {
		return nil
	}
	return res.Dependencies
}

// DependsOn reports whether id reaches target through any chain of references.
func (g *Graph) DependsOn(id, target string) bool {
	seen := map[string]bool{}
	stack := []string{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, dep := range g.Dependencies(cur) {
			if dep == target {
				return true
			}
			if !seen[dep] {
				seen[dep] = true
				stack = append(stack, dep)
			}
		}
	}
	return false
}

// OfType returns logical ids of resources with the given CloudFormation type.
func (g *Graph) OfType(cfnType string) []string {
	var ids []string
	for id, res := range g.Resources {
		if res.Type == cfnType {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Order returns logical ids so that every resource comes after its
// dependencies. Ties break alphabetically, so the order is stable.
func (g *Graph) Order() ([]string, error) {
	indegree := make(map[string]int, len(g.Resources))
	dependents := map[string][]string{}
	for id, res := range g.Resources {
		indegree[id] = len(res.Dependencies)
		for _, dep := range res.Dependencies {
			dependents[dep] = append(dependents[dep], id)
		}
	}

	var ready []string
	for id, n := range indegree {
		if n == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(g.Resources))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		next := dependents[id]
		sort.Strings(next)
		for _, d := range next {
			indegree[d]--
			if indegree[d] == 0 {
				ready = insertSorted(ready, d)
			}
		}
	}

	if len(order) != len(g.Resources) {
		var stuck []string
		for id, n := range indegree {
			if n > 0 {
				stuck = append(stuck, id)
			}
		}
		sort.Strings(stuck)
		return nil, fmt.Errorf("%w: %s", ErrCycle, strings.Join(stuck, ", "))
	}
	return order, nil
}

func insertSorted(list []string, s string) []string {
	i := sort.SearchStrings(list, s)
	list = append(list, "")
	copy(list[i+1:], list[i:])
	list[i] = s
	return list
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
