package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `
servers:
  - "127.0.0.1:9001"
  - "127.0.0.1:9002"
  - "127.0.0.1:9003"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Servers) != 3 {
		t.Fatalf("expected 3 servers, got %d", len(cfg.Servers))
	}
	if cfg.Store.Driver != "memory" {
		t.Fatalf("expected default driver memory, got %q", cfg.Store.Driver)
	}
	if cfg.QuorumSize() != 2 {
		t.Fatalf("expected quorum 2 for 3 servers, got %d", cfg.QuorumSize())
	}
	id, err := cfg.NodeID("127.0.0.1:9002")
	if err != nil || id != 1 {
		t.Fatalf("expected node id 1, got %d, err %v", id, err)
	}
	if _, err := cfg.NodeID("127.0.0.1:9999"); err == nil {
		t.Fatal("expected error for non-member address")
	}
}

func TestLoadRejectsEmptyServers(t *testing.T) {
	path := writeConfig(t, "servers: []\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for empty servers list")
	}
}

func TestLoadRejectsDuplicateServers(t *testing.T) {
	path := writeConfig(t, `
servers:
  - "127.0.0.1:9001"
  - "127.0.0.1:9001"
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for duplicate server address")
	}
}

func TestQuorumSizeEvenCluster(t *testing.T) {
	path := writeConfig(t, `
servers:
  - "a:1"
  - "b:1"
  - "c:1"
  - "d:1"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.QuorumSize() != 3 {
		t.Fatalf("expected quorum 3 for 4 servers, got %d", cfg.QuorumSize())
	}
}
