// Copyright (c) 2026 Monoxity Team
// Monoxity - key-value tables on embedded SQL
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/monoxity/monoxity/store"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

type outputFormat string

const (
	formatJSON  outputFormat = "json"
	formatYAML  outputFormat = "yaml"
	formatTable outputFormat = "table"
	formatPlain outputFormat = "plain"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

// resolveFormat validates the configured format. An empty format means a
// table on a terminal and JSON everywhere else.
func resolveFormat(name string, w io.Writer) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(name))); f {
	case formatJSON, formatYAML, formatTable, formatPlain:
		return f, nil
	case "":
		if isTerminal(w) {
			return formatTable, nil
		}
		return formatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want json, yaml, table or plain)", name)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// parseValueArg reads a command-line value. JSON text is taken as is,
// anything else becomes a JSON string. asString forces the string form.
func parseValueArg(arg string, asString bool) (store.Value, error) {
	if !asString {
		if v, err := store.ParseValue(arg); err == nil {
			return v, nil
		}
	}
	return store.ValueOf(arg)
}

func printEntries(w io.Writer, f outputFormat, entries []store.Entry) error {
	switch f {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case formatYAML:
		docs := make([]map[string]any, 0, len(entries))
		for _, e := range entries {
			x, err := plainValue(e.Value)
			if err != nil {
				return err
			}
			docs = append(docs, map[string]any{"key": e.Key, "value": x})
		}
		return writeYAML(w, docs)
	case formatTable:
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []string{e.Key, e.Value.String()})
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle.Padding(0, 1)
				}
				return lipgloss.NewStyle().Padding(0, 1)
			}).
			Headers("KEY", "VALUE").
			Rows(rows...)
		_, err := fmt.Fprintln(w, t.Render())
		return err
	default:
		for _, e := range entries {
			if _, err := fmt.Fprintf(w, "%s\t%s\n", e.Key, e.Value.String()); err != nil {
				return err
			}
		}
		return nil
	}
}

func printValue(w io.Writer, f outputFormat, v store.Value) error {
	switch f {
	case formatJSON:
		var buf bytes.Buffer
		if err := json.Indent(&buf, []byte(v.String()), "", "  "); err != nil {
			return err
		}
		buf.WriteByte('\n')
		_, err := w.Write(buf.Bytes())
		return err
	case formatYAML:
		x, err := plainValue(v)
		if err != nil {
			return err
		}
		return writeYAML(w, x)
	default:
		_, err := fmt.Fprintln(w, v.String())
		return err
	}
}

// printMessage writes a one-line status message. JSON and YAML output get a
// small document instead so scripts can parse every command.
func printMessage(w io.Writer, f outputFormat, doc map[string]any, format string, args ...any) error {
	switch f {
	case formatJSON:
		return json.NewEncoder(w).Encode(doc)
	case formatYAML:
		return writeYAML(w, doc)
	default:
		_, err := fmt.Fprintf(w, format+"\n", args...)
		return err
	}
}

func writeYAML(w io.Writer, doc any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

// plainValue decodes v for encoders that do not understand json.Number.
func plainValue(v store.Value) (any, error) {
	x, err := v.Interface()
	if err != nil {
		return nil, err
	}
	return convertNumbers(x), nil
}

func convertNumbers(x any) any {
	switch t := x.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case []any:
		for i := range t {
			t[i] = convertNumbers(t[i])
		}
		return t
	case map[string]any:
		for k := range t {
			t[k] = convertNumbers(t[k])
		}
		return t
	default:
		return x
	}
}
