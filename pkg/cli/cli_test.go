package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/devicelab-dev/axlocator/pkg/config"
	"github.com/devicelab-dev/axlocator/pkg/core"
	"github.com/devicelab-dev/axlocator/pkg/report"
)

const editorXML = `<?xml version="1.0" encoding="UTF-8"?>
<hierarchy>
  <AXApplication id="app" title="Editor">
    <AXWindows>
      <AXWindow id="win" title="Untitled">
        <AXToolbar id="bar">
          <AXButton id="save" title="Save" identifier="save-button" actions="AXPress"/>
          <AXButton id="save-as" description="Save As" actions="AXPress"/>
          <AXButton id="trash" title="Delete" enabled="false" actions="AXPress"/>
        </AXToolbar>
        <AXStaticText id="label" value="Untitled"/>
      </AXWindow>
    </AXWindows>
  </AXApplication>
</hierarchy>`

// writeSnapshot writes the editor snapshot into a temp dir and isolates the
// config lookup from the developer's machine.
func writeSnapshot(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	config.ResetHome()
	t.Setenv("AXLOCATOR_HOME", dir)
	t.Cleanup(config.ResetHome)

	path := filepath.Join(dir, "editor.xml")
	if err := os.WriteFile(path, []byte(editorXML), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := NewApp()
	app.Writer = &out
	app.ErrWriter = io.Discard
	err := app.Run(append([]string{"axlocator"}, args...))
	return out.String(), err
}

func decodeResult(t *testing.T, out string) report.Result {
	t.Helper()
	var res report.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("output is not a JSON result: %v\n%s", err, out)
	}
	return res
}

func elementIDs(res report.Result) []string {
	ids := make([]string, 0, len(res.Elements))
	for _, e := range res.Elements {
		ids = append(ids, e.ID)
	}
	return ids
}

func TestGlobalFlags(t *testing.T) {
	flagNames := make(map[string]bool)
	for _, f := range GlobalFlags {
		for _, name := range f.Names() {
			flagNames[name] = true
		}
	}

	requiredFlags := []string{"hierarchy", "f", "config", "format", "max-depth", "log-file", "verbose"}
	for _, name := range requiredFlags {
		if !flagNames[name] {
			t.Errorf("expected flag %q to be defined", name)
		}
	}
}

func TestFind(t *testing.T) {
	snapshot := writeSnapshot(t)

	out, err := run(t, "-f", snapshot, "find", "--role", "AXButton", "-c", "title=Save")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res := decodeResult(t, out)
	if res.Command != "find" || res.Status != report.StatusFound || res.Count != 1 {
		t.Fatalf("result = %+v", res)
	}
	got := res.Elements[0]
	if got.ID != "save" || got.Identifier != "save-button" {
		t.Errorf("element = %+v, want save", got)
	}
	if diff := cmp.Diff([]string{"AXWindow[1]", "AXToolbar[1]", "AXButton[1]"}, got.Path); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}
	if res.Source != snapshot {
		t.Errorf("Source = %q, want %q", res.Source, snapshot)
	}
}

func TestFind_NotFound(t *testing.T) {
	snapshot := writeSnapshot(t)

	out, err := run(t, "-f", snapshot, "find", "--role", "AXButton", "-c", "title=Print")
	if !errors.Is(err, core.ErrElementNotFound) {
		t.Fatalf("error = %v, want ErrElementNotFound", err)
	}
	if code := exitCode(err); code != 1 {
		t.Errorf("exitCode = %d, want 1", code)
	}

	res := decodeResult(t, out)
	if res.Status != report.StatusNotFound || res.Error == nil || res.Error.Code != "element_not_found" {
		t.Errorf("result = %+v", res)
	}
}

func TestFind_ExpandsVariables(t *testing.T) {
	snapshot := writeSnapshot(t)

	out, err := run(t, "-f", snapshot, "find", "-c", "title=${DOC}", "-e", "DOC=Delete")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res := decodeResult(t, out)
	if diff := cmp.Diff([]string{"trash"}, elementIDs(res)); diff != "" {
		t.Errorf("elements mismatch (-want +got):\n%s", diff)
	}
}

func TestFind_LocatorFile(t *testing.T) {
	snapshot := writeSnapshot(t)
	locPath := filepath.Join(t.TempDir(), "save.yaml")
	content := "criteria:\n  role: AXButton\n  identifier: save-button\nrootPathHint: [\"AXWindow[1]\"]\n"
	if err := os.WriteFile(locPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "-f", snapshot, "find", "-l", locPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res := decodeResult(t, out)
	if diff := cmp.Diff([]string{"save"}, elementIDs(res)); diff != "" {
		t.Errorf("elements mismatch (-want +got):\n%s", diff)
	}
}

func TestFind_InvalidInput(t *testing.T) {
	snapshot := writeSnapshot(t)

	tests := []struct {
		name string
		args []string
		want error
		code int
	}{
		{"no criteria", []string{"-f", snapshot, "find"}, core.ErrInvalidLocator, 1},
		{"malformed criterion", []string{"-f", snapshot, "find", "-c", "title"}, core.ErrInvalidLocator, 1},
		{"missing locator file", []string{"-f", snapshot, "find", "-l", "/nonexistent/loc.yaml"}, core.ErrInvalidLocator, 1},
		{"bad path hint", []string{"-f", snapshot, "find", "--path", "AXWindow[4]", "--role", "AXButton"}, core.ErrPathNotResolved, 1},
		{"no hierarchy", []string{"find", "--role", "AXButton"}, core.ErrHierarchyUnreadable, 2},
		{"unreadable hierarchy", []string{"-f", "/nonexistent/app.xml", "find", "--role", "AXButton"}, core.ErrHierarchyUnreadable, 2},
		{"bad format", []string{"-f", snapshot, "--format", "csv", "find", "--role", "AXButton"}, core.ErrInvalidConfig, 2},
		{"negative depth", []string{"-f", snapshot, "--max-depth=-1", "find", "--role", "AXButton"}, core.ErrInvalidConfig, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			if code := exitCode(err); code != tt.code {
				t.Errorf("exitCode = %d, want %d", code, tt.code)
			}
		})
	}
}

func TestFind_TextFormatAndOutputFile(t *testing.T) {
	snapshot := writeSnapshot(t)
	resultPath := filepath.Join(t.TempDir(), "out", "result.json")

	out, err := run(t, "-f", snapshot, "--format", "text", "-o", resultPath, "find", "-c", "identifier=save-button")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `save AXButton "Save" #save-button [AXPress] @AXWindow[1]/AXToolbar[1]/AXButton[1]`) {
		t.Errorf("text output missing element line:\n%s", out)
	}
	if !strings.Contains(out, "find: found, 1 element(s)") {
		t.Errorf("text output missing summary:\n%s", out)
	}

	data, err := os.ReadFile(resultPath)
	if err != nil {
		t.Fatalf("result file not written: %v", err)
	}
	res := decodeResult(t, string(data))
	if res.Count != 1 {
		t.Errorf("file result Count = %d, want 1", res.Count)
	}
}

func TestCollect(t *testing.T) {
	snapshot := writeSnapshot(t)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"all buttons", []string{"collect", "--role", "AXButton"}, []string{"save", "save-as", "trash"}},
		{"capped", []string{"collect", "--role", "AXButton", "--max-elements", "2"}, []string{"save", "save-as"}},
		{"disabled only", []string{"collect", "--role", "*", "-c", "enabled=false"}, []string{"trash"}},
		{"where", []string{"collect", "--role", "AXButton", "--where", "el.enabled !== false && el.can('AXPress')"}, []string{"save", "save-as"}},
		{"where with env", []string{"collect", "--role", "AXButton", "-e", "NAME=Save As", "--where", "el.computedName === NAME"}, []string{"save-as"}},
		{"action set", []string{"collect", "-c", "actionNames=AXPress"}, []string{"save", "save-as", "trash"}},
		{"comma in value", []string{"collect", "-c", "actionNames=AXPress,AXShowMenu"}, []string{}},
		{"none", []string{"collect", "--role", "AXSlider"}, []string{}},
		{"root only", []string{"--max-depth", "0", "collect", "--role", "*"}, []string{"app"}},
		{"one level", []string{"--max-depth", "1", "collect", "--role", "*"}, []string{"app", "win"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, append([]string{"-f", snapshot}, tt.args...)...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			res := decodeResult(t, out)
			if diff := cmp.Diff(tt.want, elementIDs(res)); diff != "" {
				t.Errorf("elements mismatch (-want +got):\n%s", diff)
			}
			if res.Count != len(tt.want) {
				t.Errorf("Count = %d, want %d", res.Count, len(tt.want))
			}
		})
	}
}

func TestCollect_WhereError(t *testing.T) {
	snapshot := writeSnapshot(t)

	_, err := run(t, "-f", snapshot, "collect", "--role", "AXButton", "--where", "el.missing.field")
	if !errors.Is(err, core.ErrInvalidLocator) {
		t.Errorf("error = %v, want ErrInvalidLocator", err)
	}
}

func TestNavigate(t *testing.T) {
	snapshot := writeSnapshot(t)

	out, err := run(t, "-f", snapshot, "navigate", "AXWindow[1]/AXToolbar[1]", "AXButton[2]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res := decodeResult(t, out)
	if diff := cmp.Diff([]string{"save-as"}, elementIDs(res)); diff != "" {
		t.Errorf("elements mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"AXWindow[1]", "AXToolbar[1]", "AXButton[2]"}, res.Path); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}
}

func TestNavigate_Failures(t *testing.T) {
	snapshot := writeSnapshot(t)

	_, err := run(t, "-f", snapshot, "navigate", "AXWindow[1]/AXButton[9]")
	if !errors.Is(err, core.ErrPathNotResolved) {
		t.Errorf("error = %v, want ErrPathNotResolved", err)
	}

	_, err = run(t, "-f", snapshot, "navigate")
	if !errors.Is(err, core.ErrInvalidLocator) {
		t.Errorf("error = %v, want ErrInvalidLocator", err)
	}
}

func TestPerform(t *testing.T) {
	snapshot := writeSnapshot(t)

	out, err := run(t, "-f", snapshot, "perform", "-c", "title=Save")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res := decodeResult(t, out)
	if res.Action != "AXPress" || res.Fallback != nil {
		t.Errorf("result = %+v", res)
	}
	if diff := cmp.Diff([]string{"save"}, elementIDs(res)); diff != "" {
		t.Errorf("elements mismatch (-want +got):\n%s", diff)
	}
}

func TestPerform_Fallback(t *testing.T) {
	snapshot := writeSnapshot(t)

	out, err := run(t, "-f", snapshot, "perform", "--role", "AXButton", "-c", "title=Save As")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res := decodeResult(t, out)
	if diff := cmp.Diff([]string{"save-as"}, elementIDs(res)); diff != "" {
		t.Errorf("elements mismatch (-want +got):\n%s", diff)
	}
	if res.Fallback == nil || res.Fallback.Status != "resolved" || res.Fallback.Candidates != 1 {
		t.Errorf("Fallback = %+v, want resolved with 1 candidate", res.Fallback)
	}
}

func TestPerform_Unsupported(t *testing.T) {
	snapshot := writeSnapshot(t)

	_, err := run(t, "-f", snapshot, "perform", "-c", "title=Save", "--action", "AXShowMenu")
	if !errors.Is(err, core.ErrActionNotSupported) {
		t.Errorf("error = %v, want ErrActionNotSupported", err)
	}
}

func TestHierarchyCommand(t *testing.T) {
	snapshot := writeSnapshot(t)

	out, err := run(t, "-f", snapshot, "hierarchy", "--depth", "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "AXApplication") || !strings.Contains(out, "AXWindow") {
		t.Errorf("dump missing top levels:\n%s", out)
	}
	if strings.Contains(out, "AXButton") {
		t.Errorf("dump should stop at depth 1:\n%s", out)
	}

	out, err = run(t, "-f", snapshot, "hierarchy")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Count(out, "AXButton") != 3 {
		t.Errorf("full dump should list 3 buttons:\n%s", out)
	}
}

func TestConfigFile(t *testing.T) {
	snapshot := writeSnapshot(t)
	dir := filepath.Dir(snapshot)
	cfgPath := filepath.Join(dir, "axlocator.yaml")
	content := "hierarchy: editor.xml\noutput:\n  format: text\nenv:\n  DOC: Save\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "--config", cfgPath, "find", "-c", "title=${DOC}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "save AXButton") {
		t.Errorf("expected text output for save, got:\n%s", out)
	}

	// The home directory config is picked up without --config.
	out, err = run(t, "find", "-c", "identifier=save-button")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "save AXButton") {
		t.Errorf("expected home config to apply, got:\n%s", out)
	}
}

func TestConfigFile_Invalid(t *testing.T) {
	snapshot := writeSnapshot(t)
	cfgPath := filepath.Join(t.TempDir(), "axlocator.yaml")
	if err := os.WriteFile(cfgPath, []byte("search:\n  maxDepth: -1\n  maxElements: 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := run(t, "-f", snapshot, "--config", cfgPath, "find", "--role", "AXButton")
	if !errors.Is(err, core.ErrInvalidConfig) {
		t.Errorf("error = %v, want ErrInvalidConfig", err)
	}

	_, err = run(t, "-f", snapshot, "--config", "/nonexistent/axlocator.yaml", "find", "--role", "AXButton")
	if code := exitCode(err); code != 2 {
		t.Errorf("exitCode(%v) = %d, want 2", err, code)
	}
}

func TestLogFile(t *testing.T) {
	snapshot := writeSnapshot(t)
	logPath := filepath.Join(t.TempDir(), "logs", "axlocator.log")

	if _, err := run(t, "-f", snapshot, "--log-file", logPath, "find", "--role", "AXButton"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "[DEBUG]") {
		t.Errorf("log file should record debug lines:\n%s", data)
	}
}

func TestLogFile_BareNameUsesLogDir(t *testing.T) {
	snapshot := writeSnapshot(t)

	if _, err := run(t, "-f", snapshot, "--log-file", "run.log", "find", "--role", "AXButton"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	logPath := filepath.Join(config.GetLogDir(), "run.log")
	if want := filepath.Join(filepath.Dir(snapshot), "logs", "run.log"); logPath != want {
		t.Fatalf("log path = %q, want %q", logPath, want)
	}
	if _, err := os.Stat(logPath); err != nil {
		t.Errorf("log file not written under the log dir: %v", err)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{core.ErrElementNotFound, 1},
		{core.ErrPathNotResolved, 1},
		{core.ErrHierarchyUnreadable, 2},
		{core.ErrInvalidConfig, 2},
		{core.ErrQueueTimeout, 3},
		{errors.New("flag provided but not defined"), 1},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestParseEnvVars(t *testing.T) {
	result := parseEnvVars([]string{"USER=test", "URL=http://example.com?foo=bar", "EMPTY=", "NOEQUALS"})

	want := map[string]string{
		"USER":  "test",
		"URL":   "http://example.com?foo=bar",
		"EMPTY": "",
	}
	if diff := cmp.Diff(want, result); diff != "" {
		t.Errorf("parseEnvVars() mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeEnv_LaterWins(t *testing.T) {
	got := mergeEnv(map[string]string{"A": "1", "B": "2"}, map[string]string{"B": "3"})
	want := map[string]string{"A": "1", "B": "3"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mergeEnv() mismatch (-want +got):\n%s", diff)
	}
}
