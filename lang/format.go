package lang

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes the exact original source text of the lossless tree to the
// writer. Together with [LST.String] this is the round-trip guarantee used
// by formatters and incremental editors.
func (t *LST) Format(w io.Writer) error {
	for _, tok := range t.Tokens {
		if _, err := io.WriteString(w, tok.String()); err != nil {
			return err
		}
	}

	return nil
}

// FormatJSON writes the evaluated context as JSON to the writer. String
// values encode as JSON strings, array values as JSON arrays.
func (c *Context) FormatJSON(w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(c.ToMap(), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(c.ToMap())
	}

	if err != nil {
		return err
	}

	data = append(data, '\n')

	_, err = w.Write(data)

	return err
}

// FormatYAML writes the evaluated context as YAML to the writer.
func (c *Context) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, c.ToMap(), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// MarshalJSON implements json.Marshaler for Context.
func (c *Context) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.ToMap())
}
