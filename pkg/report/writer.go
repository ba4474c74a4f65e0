package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Write prints the result in the given format. Unknown formats fall back to JSON.
func Write(w io.Writer, format string, r *Result) error {
	if format == FormatText {
		return WriteText(w, r)
	}
	return WriteJSON(w, r)
}

// WriteJSON prints the result as indented JSON.
func WriteJSON(w io.Writer, r *Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteText prints one line per element followed by a summary line.
func WriteText(w io.Writer, r *Result) error {
	var b strings.Builder
	for _, e := range r.Elements {
		b.WriteString(formatElement(e))
		b.WriteString("\n")
	}
	if r.Fallback != nil {
		fmt.Fprintf(&b, "fallback: %s", r.Fallback.Status)
		if r.Fallback.Locator != "" {
			fmt.Fprintf(&b, " %s", r.Fallback.Locator)
		}
		fmt.Fprintf(&b, " (%d candidates)\n", r.Fallback.Candidates)
	}
	if r.Error != nil {
		fmt.Fprintf(&b, "error [%s]: %s\n", r.Error.Category, r.Error.Message)
	}
	fmt.Fprintf(&b, "%s: %s, %d element(s) in %dms\n", r.Command, r.Status, r.Count, r.Duration)

	_, err := io.WriteString(w, b.String())
	return err
}

func formatElement(e Element) string {
	var b strings.Builder
	b.WriteString(e.ID)
	b.WriteString(" ")
	b.WriteString(e.Role)
	if e.ComputedName != "" {
		fmt.Fprintf(&b, " %q", e.ComputedName)
	}
	if e.Identifier != "" {
		b.WriteString(" #" + e.Identifier)
	}
	if len(e.Actions) > 0 {
		b.WriteString(" [" + strings.Join(e.Actions, ", ") + "]")
	}
	if e.Enabled != nil && !*e.Enabled {
		b.WriteString(" disabled")
	}
	if len(e.Path) > 0 {
		b.WriteString(" @" + strings.Join(e.Path, "/"))
	}
	return b.String()
}

// WriteFile saves the result as JSON, replacing path atomically.
func WriteFile(path string, r *Result) error {
	return atomicWriteJSON(path, r)
}

// atomicWriteJSON writes to a temp file in the same directory and renames it
// over path, so readers never see a partial file.
func atomicWriteJSON(path string, v interface{}) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}
