package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	logLevel = ""
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level=off"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestMarkersCommand(t *testing.T) {
	t.Run("should list markers with their paths", func(t *testing.T) {
		dir := t.TempDir()
		file := writeFile(t, dir, "view.html", `<p>${this.user.name} ${this.user.name} ${count}</p>`)
		out, err := run(t, "markers", file)
		if err != nil {
			t.Fatalf("markers failed: %v", err)
		}
		lines := strings.Split(strings.TrimSpace(out), "\n")
		if len(lines) != 2 {
			t.Fatalf("Expected 2 lines, got %q", out)
		}
		if diff := cmp.Diff([]string{"${this.user.name}", "user.name"}, strings.Fields(lines[0])); diff != "" {
			t.Errorf("first line mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"${count}", "count"}, strings.Fields(lines[1])); diff != "" {
			t.Errorf("second line mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "card.md", "# ${this.title}\n\nby ${this.author.name}\n")
	data := writeFile(t, dir, "data.json", `{"title": "Notes", "author": {"name": "Ada"}, "pages": 3}`)

	t.Run("should render with --set writes", func(t *testing.T) {
		out, err := run(t, "render", "card", "--dir", dir, "--set", "title=Draft", "--set", "author.name=Grace")
		if err != nil {
			t.Fatalf("render failed: %v", err)
		}
		if !strings.Contains(out, "<h1><span>Draft</span></h1>") || !strings.Contains(out, "<span>Grace</span>") {
			t.Errorf("Unexpected output %q", out)
		}
	})

	t.Run("should render with a data file", func(t *testing.T) {
		out, err := run(t, "render", "card", "--dir", dir, "--data", data)
		if err != nil {
			t.Fatalf("render failed: %v", err)
		}
		if !strings.Contains(out, "<span>Notes</span>") || !strings.Contains(out, "<span>Ada</span>") {
			t.Errorf("Unexpected output %q", out)
		}
	})

	t.Run("should reject a malformed --set", func(t *testing.T) {
		if _, err := run(t, "render", "card", "--dir", dir, "--set", "title"); err == nil {
			t.Error("Expected an error")
		}
	})

	t.Run("should report a missing template", func(t *testing.T) {
		if _, err := run(t, "render", "nothing", "--dir", dir); err == nil || !strings.Contains(err.Error(), "404") {
			t.Errorf("Expected a 404 error, got %v", err)
		}
	})
}
