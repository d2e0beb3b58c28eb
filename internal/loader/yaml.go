package loader

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v2"

	"github.com/357r4bd/loosemac"
)

// yamlScenario is an alternative to the plain-text grammar for scenario
// fixtures and scripted runs — the same information, structured for
// readability rather than wire compactness.
type yamlScenario struct {
	Lambda int `yaml:"lambda"`
	Nodes  []struct {
		ID           int    `yaml:"id"`
		Name         string `yaml:"name"`
		Neighbors    []int  `yaml:"neighbors"`
		DefaultSlots []int  `yaml:"default_slots"`
	} `yaml:"nodes"`
}

// LoadYAML parses a YAML scenario document into the same (lambda,
// specs) shape Load returns, applying the same validation rules, except
// that a lambda of 0 is read as absent and defaults to the node count.
// Errors are plain errors without a line number.
func LoadYAML(r io.Reader) (lambda int, specs []loosemac.NodeSpec, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, nil, fmt.Errorf("loader: reading yaml scenario: %w", err)
	}

	var doc yamlScenario
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return 0, nil, fmt.Errorf("loader: invalid yaml scenario: %w", err)
	}
	if len(doc.Nodes) == 0 {
		return 0, nil, fmt.Errorf("loader: yaml scenario declares no nodes")
	}

	lambda = doc.Lambda
	if lambda < 0 {
		return 0, nil, fmt.Errorf("loader: lambda must be >= 1")
	}
	if lambda == 0 {
		lambda = len(doc.Nodes)
	}

	specs = make([]loosemac.NodeSpec, 0, len(doc.Nodes))
	seen := make(map[int]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		if seen[n.ID] {
			return 0, nil, fmt.Errorf("loader: duplicate node id %d", n.ID)
		}
		seen[n.ID] = true
		for _, s := range n.DefaultSlots {
			if s < 1 {
				return 0, nil, fmt.Errorf("loader: node %d: default slot must be >= 1, got %d", n.ID, s)
			}
		}
		specs = append(specs, loosemac.NodeSpec{
			ID:           n.ID,
			Name:         n.Name,
			Neighbors:    n.Neighbors,
			DefaultSlots: n.DefaultSlots,
		})
	}
	for _, s := range specs {
		for _, nb := range s.Neighbors {
			if !seen[nb] {
				return 0, nil, fmt.Errorf("loader: node %d references undeclared neighbor %d", s.ID, nb)
			}
		}
	}

	return lambda, specs, nil
}
