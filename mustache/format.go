package mustache

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// ToMap converts a node to a native Go map for serialization.
// Every map has a "kind" key; the remaining keys depend on the node type.
func ToMap(n Node) map[string]any {
	m := map[string]any{"kind": n.Kind().String()}

	switch n := n.(type) {
	case *Text:
		m["literal"] = n.Literal

	case *Variable:
		m["name"] = n.Name
		m["escaped"] = n.Escaped

	case *Partial:
		m["name"] = n.Name
		if n.Indent != "" {
			m["indent"] = n.Indent
		}

	case *Section:
		m["name"] = n.Name
		m["raw_body"] = n.RawBody
		m["delims"] = n.Delims.String()
		m["body"] = ToList(n.Body)

	case *InvertedSection:
		m["name"] = n.Name
		m["body"] = ToList(n.Body)
	}

	return m
}

// ToList converts a node sequence to a slice of native maps.
func ToList(nodes []Node) []any {
	list := make([]any, len(nodes))
	for i, n := range nodes {
		list[i] = ToMap(n)
	}

	return list
}

// Format writes an indented, human-readable tree of nodes to w.
// An indent less than 1 writes one node per line without nesting.
func Format(_ context.Context, w io.Writer, nodes []Node, indent int) error {
	return formatSeq(w, nodes, indent, 0)
}

func formatSeq(w io.Writer, nodes []Node, indent, depth int) error {
	pad := strings.Repeat(" ", max(indent, 0)*depth)

	for _, n := range nodes {
		var line string

		switch n := n.(type) {
		case *Text:
			line = "Text " + strconv.Quote(n.Literal)

		case *Variable:
			line = "Variable " + n.Name
			if !n.Escaped {
				line += " (unescaped)"
			}

		case *Partial:
			line = "Partial " + n.Name
			if n.Indent != "" {
				line += " indent=" + strconv.Quote(n.Indent)
			}

		case *Section:
			line = "Section " + n.Name
			if n.Delims != DefaultDelims {
				line += " delims=" + strconv.Quote(n.Delims.String())
			}

		case *InvertedSection:
			line = "InvertedSection " + n.Name
		}

		if _, err := fmt.Fprintln(w, pad+line); err != nil {
			return err
		}

		var body []Node

		switch n := n.(type) {
		case *Section:
			body = n.Body

		case *InvertedSection:
			body = n.Body
		}

		if err := formatSeq(w, body, indent, depth+1); err != nil {
			return err
		}
	}

	return nil
}

// FormatJSON writes nodes as JSON to w.
func FormatJSON(_ context.Context, w io.Writer, nodes []Node, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(ToList(nodes), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(ToList(nodes))
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes nodes as YAML to w.
func FormatYAML(ctx context.Context, w io.Writer, nodes []Node, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, ToList(nodes), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(data))

	return err
}
