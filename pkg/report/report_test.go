package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/devicelab-dev/axlocator/pkg/core"
	"github.com/devicelab-dev/axlocator/pkg/element"
	"github.com/devicelab-dev/axlocator/pkg/hierarchy"
	"github.com/devicelab-dev/axlocator/pkg/locator"
	"github.com/devicelab-dev/axlocator/pkg/query"
)

const snapshot = `
id: app
role: AXApplication
title: Notes
windows:
  - id: main
    role: AXWindow
    title: Main
    children:
      - role: AXButton
        id: save
        title: Save
        identifier: save-button
        actions: [AXPress]
      - role: AXButton
        id: delete
        description: Delete
        enabled: false
        actions: [AXPress]
`

func loadSnapshot(t *testing.T) *hierarchy.Element {
	t.Helper()
	root, err := hierarchy.ParseYAML([]byte(snapshot))
	if err != nil {
		t.Fatalf("ParseYAML() error = %v", err)
	}
	return root
}

func nodeByID(t *testing.T, root element.Node, id string) element.Node {
	t.Helper()
	loc := locator.Locator{Criteria: map[string]string{locator.KeyRole: locator.Wildcard}}
	for _, n := range query.CollectAll(root, loc, query.DefaultMaxDepth, query.DefaultMaxElements) {
		if string(n.ID()) == id {
			return n
		}
	}
	t.Fatalf("no node %q in snapshot", id)
	return nil
}

func TestNewElement(t *testing.T) {
	root := loadSnapshot(t)

	enabled := false
	tests := []struct {
		id   string
		want Element
	}{
		{
			id: "save",
			want: Element{
				ID:           "save",
				Role:         "AXButton",
				Title:        "Save",
				Identifier:   "save-button",
				ComputedName: "Save",
				Actions:      []string{"AXPress"},
				Path:         []string{"AXWindow[1]", "AXButton[1]"},
			},
		},
		{
			id: "delete",
			want: Element{
				ID:           "delete",
				Role:         "AXButton",
				Description:  "Delete",
				ComputedName: "Delete",
				Actions:      []string{"AXPress"},
				Enabled:      &enabled,
				Path:         []string{"AXWindow[1]", "AXButton[2]"},
			},
		},
		{
			id: "app",
			want: Element{
				ID:           "app",
				Role:         "AXApplication",
				Title:        "Notes",
				ComputedName: "Notes",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got := NewElement(nodeByID(t, root, tt.id))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("NewElement() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFinish_Status(t *testing.T) {
	root := loadSnapshot(t)

	tests := []struct {
		name     string
		nodes    []element.Node
		err      error
		want     Status
		wantCode string
	}{
		{"found", []element.Node{root}, nil, StatusFound, ""},
		{"empty collect", nil, nil, StatusNotFound, ""},
		{"not found", nil, core.ErrElementNotFound.WithDetails(map[string]interface{}{"locator": "AXButton"}), StatusNotFound, "element_not_found"},
		{"ambiguous", nil, core.ErrAmbiguousTarget, StatusFailed, "ambiguous_target"},
		{"plain error", nil, errors.New("boom"), StatusFailed, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New("find")
			r.AddNodes(tt.nodes...)
			r.Finish(tt.err)

			if r.Status != tt.want {
				t.Errorf("Status = %q, want %q", r.Status, tt.want)
			}
			if r.Count != len(tt.nodes) {
				t.Errorf("Count = %d, want %d", r.Count, len(tt.nodes))
			}
			if tt.err == nil {
				if r.Error != nil {
					t.Errorf("Error = %+v, want nil", r.Error)
				}
				return
			}
			if r.Error == nil || r.Error.Code != tt.wantCode {
				t.Errorf("Error = %+v, want code %q", r.Error, tt.wantCode)
			}
		})
	}
}

func TestNewError(t *testing.T) {
	cause := errors.New("no such file")
	err := core.ErrHierarchyUnreadable.WithCause(cause).WithDetails(map[string]interface{}{"path": "app.xml"})

	got := NewError(err)
	want := &Error{
		Category: "input",
		Code:     "hierarchy_unreadable",
		Message:  "could not read element hierarchy: no such file",
		Details:  map[string]interface{}{"path": "app.xml"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NewError() mismatch (-want +got):\n%s", diff)
	}

	plain := NewError(errors.New("boom"))
	if plain.Category != "unknown" || plain.Message != "boom" {
		t.Errorf("NewError(plain) = %+v", plain)
	}
}

func TestSetFallback(t *testing.T) {
	root := loadSnapshot(t)
	save := nodeByID(t, root, "save")

	r := New("perform")
	r.SetFallback(query.FallbackOutcome{
		Status:     query.FallbackResolved,
		Locator:    locator.Locator{Criteria: map[string]string{locator.KeyRole: "AXButton"}},
		Candidates: []element.Node{save},
	})
	want := &Fallback{Status: "resolved", Locator: "AXButton", Candidates: 1}
	if diff := cmp.Diff(want, r.Fallback); diff != "" {
		t.Errorf("Fallback mismatch (-want +got):\n%s", diff)
	}

	r.SetFallback(query.FallbackOutcome{Status: query.FallbackSkipped})
	if r.Fallback.Locator != "" {
		t.Errorf("skipped fallback should have no locator, got %q", r.Fallback.Locator)
	}
}

func TestWriteJSON(t *testing.T) {
	root := loadSnapshot(t)

	r := New("collect")
	r.Locator = "AXButton"
	r.AddNodes(nodeByID(t, root, "save"), nodeByID(t, root, "delete"))
	r.Finish(nil)

	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, r); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var decoded Result
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if diff := cmp.Diff(r, &decoded, cmpopts.EquateApproxTime(0)); diff != "" {
		t.Errorf("decoded result mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteText(t *testing.T) {
	root := loadSnapshot(t)

	r := New("find")
	r.AddNodes(nodeByID(t, root, "delete"))
	r.SetFallback(query.FallbackOutcome{Status: query.FallbackNotFound, Locator: locator.Locator{Criteria: map[string]string{locator.KeyRole: "AXButton"}}})
	r.Finish(nil)
	r.Duration = 3

	var buf bytes.Buffer
	if err := Write(&buf, FormatText, r); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	want := strings.Join([]string{
		`delete AXButton "Delete" [AXPress] disabled @AXWindow[1]/AXButton[2]`,
		`fallback: notFound AXButton (0 candidates)`,
		`find: found, 1 element(s) in 3ms`,
		``,
	}, "\n")
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("WriteText() mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteText_Error(t *testing.T) {
	r := New("navigate").Finish(core.ErrPathNotResolved)
	r.Duration = 0

	var buf bytes.Buffer
	if err := WriteText(&buf, r); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}
	want := "error [path]: path hint could not be resolved\nnavigate: failed, 0 element(s) in 0ms\n"
	if buf.String() != want {
		t.Errorf("WriteText() = %q, want %q", buf.String(), want)
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "results", "find.json")

	r := New("find").Finish(nil)
	if err := WriteFile(path, r); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var decoded Result
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.Command != "find" || decoded.Version != Version {
		t.Errorf("decoded = %+v", decoded)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the result file, found %d entries", len(entries))
	}
}
