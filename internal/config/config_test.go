// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/invowk/worldc/internal/issue"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName())
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, path, err := Load(context.Background(), LoadOptions{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want empty without a config file", path)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
}

func TestLoad_FileInDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	want := writeConfig(t, dir, `
world_dir: "world"
output: {
	dir:      "internal/world"
	package:  "skyward"
	manifest: false
}
strict_events: false
log_level:     "debug"
`)

	cfg, path, err := Load(context.Background(), LoadOptions{Dir: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	expected := DefaultConfig()
	expected.WorldDir = "world"
	expected.Output.Dir = "internal/world"
	expected.Output.Package = "skyward"
	expected.Output.Manifest = false
	expected.StrictEvents = false
	expected.LogLevel = LogLevelDebug
	if diff := cmp.Diff(expected, cfg); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "syntax", content: "world_dir: {", want: "worldc.cue"},
		{name: "unknown field", content: `color: "red"`, want: "color"},
		{name: "bad log level", content: `log_level: "loud"`, want: "log_level"},
		{name: "bad package", content: `output: package: "9lives"`, want: "package"},
		{name: "wrong type", content: `strict_events: "yes"`, want: "strict_events"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeConfig(t, dir, tt.content)

			_, _, err := Load(context.Background(), LoadOptions{Dir: dir})
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if got := issue.CategoryOf(err); got != issue.ConfigLoadFailedId {
				t.Errorf("CategoryOf() = %d, want ConfigLoadFailedId", got)
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) || !ae.HasSuggestions() {
				t.Fatalf("error should be actionable with suggestions: %v", err)
			}
			if !strings.Contains(ae.Format(true), tt.want) {
				t.Errorf("error should mention %q: %s", tt.want, ae.Format(true))
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, _, err := Load(context.Background(), LoadOptions{ConfigFilePath: filepath.Join(t.TempDir(), "nope.cue")})
	if err == nil || !strings.Contains(err.Error(), "nope.cue") {
		t.Errorf("Load() error = %v, want the missing path", err)
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := Load(ctx, LoadOptions{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `output: dir: "from-file"`)
	t.Setenv("WORLDC_OUTPUT_DIR", "from-env")
	t.Setenv("WORLDC_STRICT_EVENTS", "false")

	cfg, _, err := NewProvider().Load(context.Background(), LoadOptions{Dir: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Output.Dir != "from-env" {
		t.Errorf("output.dir = %q, want the environment value", cfg.Output.Dir)
	}
	if cfg.StrictEvents {
		t.Error("strict_events should be overridden to false")
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.EntranceTableFile = ""
	cfg.Output.Package = "hyrule"
	dir := t.TempDir()
	writeConfig(t, dir, GenerateCUE(cfg))

	got, _, err := Load(context.Background(), LoadOptions{Dir: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	// An omitted entrance table falls back to the default path.
	cfg.EntranceTableFile = DefaultConfig().EntranceTableFile
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}

func TestCreateDefault(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "game", FileName())
	created, err := CreateDefault(path)
	if err != nil || !created {
		t.Fatalf("CreateDefault() = %v, %v", created, err)
	}
	if err := os.WriteFile(path, []byte("// edited\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	created, err = CreateDefault(path)
	if err != nil || created {
		t.Errorf("second CreateDefault() = %v, %v, want no overwrite", created, err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "// edited\n" {
		t.Errorf("existing file was overwritten: %q", data)
	}
}
