package envutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadYAMLEnvironmentWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nodetree.yaml")
	body := "NT_YAML_PORT: 9090\nNT_YAML_ORIGINS:\n  - https://a.example\n  - https://b.example\nNT_YAML_TTL: 2m\nNT_YAML_KEEP: from-file\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NT_YAML_KEEP", "from-env")
	for _, k := range []string{"NT_YAML_PORT", "NT_YAML_ORIGINS", "NT_YAML_TTL"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	n, err := LoadYAML(path)
	if err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	if n != 3 {
		t.Fatalf("applied %d keys, want 3", n)
	}
	if got := Int("NT_YAML_PORT", 0); got != 9090 {
		t.Fatalf("port: %d", got)
	}
	if got := List("NT_YAML_ORIGINS", nil); len(got) != 2 || got[1] != "https://b.example" {
		t.Fatalf("origins: %#v", got)
	}
	if got := Duration("NT_YAML_TTL", 0); got != 2*time.Minute {
		t.Fatalf("ttl: %v", got)
	}
	if got := String("NT_YAML_KEEP", ""); got != "from-env" {
		t.Fatalf("env should win, got %q", got)
	}
}

func TestLoadYAMLMissingFile(t *testing.T) {
	if _, err := LoadYAML(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
