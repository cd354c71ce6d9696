package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"linelex/token"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func validFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (text, json or yaml)", format)
}

// writeStructured writes v as JSON or YAML.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown output format %q", format)
}

// categoryColor picks the terminal color of a token category.
func categoryColor(c token.Category) *color.Color {
	switch {
	case c.IsKeyword():
		return color.New(color.FgMagenta, color.Bold)
	case c.IsComment():
		return color.New(color.FgHiBlack)
	}
	switch c {
	case token.String:
		return color.New(color.FgGreen)
	case token.Number, token.Boolean, token.Null:
		return color.New(color.FgCyan)
	case token.Type:
		return color.New(color.FgYellow)
	case token.Function:
		return color.New(color.FgBlue)
	case token.Preprocessor, token.Annotation:
		return color.New(color.FgRed)
	case token.Unknown:
		return color.New(color.FgRed, color.Underline)
	}
	return color.New(color.Reset)
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
