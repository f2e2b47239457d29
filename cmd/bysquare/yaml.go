package main

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// fromYAML converts a YAML document to JSON.
func fromYAML(b []byte) ([]byte, error) {
	var v any
	if err := yaml.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

// toYAML converts a JSON document to block-style YAML, keeping the
// order of keys.
func toYAML(b []byte) ([]byte, error) {
	var n yaml.Node
	if err := yaml.Unmarshal(b, &n); err != nil {
		return nil, err
	}
	restyle(&n)
	return yaml.Marshal(&n)
}

// restyle clears flow and quoting styles inherited from JSON.
func restyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		restyle(c)
	}
}
