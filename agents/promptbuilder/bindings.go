/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"encoding/json"
	"encoding/xml"
	"fmt"

	"gopkg.in/yaml.v3"
)

// binding renders the text for one placeholder.
type binding interface {
	render() (string, error)
}

// unbound marks a placeholder that has not been given a value yet.
type unbound string

func (u unbound) render() (string, error) {
	return "", fmt.Errorf("unbound placeholder: %s", string(u))
}

type xmlValue struct{ data any }

func (x xmlValue) render() (string, error) {
	b, err := xml.MarshalIndent(x.data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling XML: %w", err)
	}
	return string(b), nil
}

type jsonValue struct{ data any }

func (j jsonValue) render() (string, error) {
	b, err := json.MarshalIndent(j.data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return string(b), nil
}

type yamlValue struct{ data any }

func (y yamlValue) render() (string, error) {
	b, err := yaml.Marshal(y.data)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return string(b), nil
}
