package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/vango-dev/weft/internal/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func errCode(err error) string {
	var we *errors.WeftError
	if stderrors.As(err, &we) {
		return we.Code
	}
	return ""
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Server.Host != DefaultHost {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, DefaultHost)
	}
	if cfg.Server.Live != DefaultLiveEndpoint {
		t.Errorf("Server.Live = %q, want %q", cfg.Server.Live, DefaultLiveEndpoint)
	}
	if cfg.IdleTimeout() != 50*time.Millisecond {
		t.Errorf("IdleTimeout() = %v, want 50ms", cfg.IdleTimeout())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(dir); errCode(err) != "E141" {
		t.Fatalf("Load on empty dir: got %v, want E141", err)
	}

	writeFile(t, filepath.Join(dir, ConfigFileName), `{
  "name": "counter",
  "scheduler": {"idleTimeout": "200ms", "debug": true},
  "server": {"port": 8080, "host": "0.0.0.0", "metrics": true},
  "export": {"bucket": "site", "prefix": "preview/"}
}
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	want := &Config{
		Name:      "counter",
		Scheduler: SchedulerConfig{IdleTimeout: "200ms", Debug: true},
		Server:    ServerConfig{Host: "0.0.0.0", Port: 8080, Live: DefaultLiveEndpoint, Metrics: true},
		Export:    ExportConfig{Bucket: "site", Region: DefaultRegion, Prefix: "preview/"},
	}
	if diff := cmp.Diff(want, cfg, cmpopts.IgnoreUnexported(Config{})); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}
	if cfg.Path() != filepath.Join(dir, ConfigFileName) {
		t.Errorf("Path() = %q", cfg.Path())
	}
	if cfg.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", cfg.Dir(), dir)
	}
	if cfg.Address() != "0.0.0.0:8080" {
		t.Errorf("Address() = %q", cfg.Address())
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "weft.yaml"), `
name: todo
server:
  port: 9000
  tracing: true
export:
  pretty: true
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Name != "todo" || cfg.Server.Port != 9000 || !cfg.Server.Tracing || !cfg.Export.Pretty {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Server.Host != DefaultHost {
		t.Errorf("Server.Host = %q, want default", cfg.Server.Host)
	}
}

func TestLoadPrefersJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "weft.json"), `{"name": "json"}`)
	writeFile(t, filepath.Join(dir, "weft.yml"), "name: yaml\n")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "json" {
		t.Errorf("Name = %q, want json", cfg.Name)
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		code    string
	}{
		{"invalid json", "weft.json", `{"name": `, "E120"},
		{"invalid yaml", "weft.yaml", "server: [port", "E120"},
		{"unsupported format", "weft.toml", "name = 'x'", "E121"},
		{"bad port", "weft.json", `{"server": {"port": 70000}}`, "E122"},
		{"bad duration", "weft.json", `{"scheduler": {"idleTimeout": "soon"}}`, "E123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			writeFile(t, path, tt.content)
			defer os.Remove(path)

			_, err := LoadFile(path)
			if got := errCode(err); got != tt.code {
				t.Errorf("LoadFile error = %v, want code %s", err, tt.code)
			}
		})
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.json")); errCode(err) != "E141" {
		t.Errorf("missing file: got %v, want E141", err)
	}
}

func TestValidateLiveEndpoint(t *testing.T) {
	cfg := New()
	cfg.Server.Live = "live"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for relative live endpoint")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	for _, name := range []string{"weft.json", "weft.yml"} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			cfg := New()
			cfg.Name = "saved"
			cfg.Export.Bucket = "bucket"
			if err := cfg.SaveTo(filepath.Join(dir, name)); err != nil {
				t.Fatalf("SaveTo: %v", err)
			}

			loaded, err := Load(dir)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if diff := cmp.Diff(cfg, loaded, cmpopts.IgnoreUnexported(Config{})); diff != "" {
				t.Errorf("round trip mismatch (-saved +loaded):\n%s", diff)
			}

			loaded.Name = "changed"
			if err := loaded.Save(); err != nil {
				t.Fatalf("Save: %v", err)
			}
		})
	}

	if err := New().Save(); err == nil {
		t.Error("Save without a path should fail")
	}
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ConfigFileName), `{}`)

	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	got, err := Find(nested)
	if err != nil {
		t.Fatalf("Find error: %v", err)
	}
	want, _ := filepath.Abs(root)
	if got != want {
		t.Errorf("Find() = %q, want %q", got, want)
	}

	if !Exists(root) {
		t.Error("Exists(root) = false")
	}
	if Exists(nested) {
		t.Error("Exists(nested) = true")
	}
}
