package dashboard

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRenderMissingEnv(t *testing.T) {
	t.Setenv("GREPTIMEDB_DATASOURCE_UID", "")
	dir := t.TempDir()
	if err := Render(dir); err == nil {
		t.Fatalf("expected error for missing env vars")
	}
	if _, err := os.Stat(filepath.Join(dir, "grafana-orders.json")); !os.IsNotExist(err) {
		t.Fatalf("partial dashboard left behind: %v", err)
	}
}

func TestRenderSuccess(t *testing.T) {
	t.Setenv("GREPTIMEDB_DATASOURCE_UID", "uid1")

	dir := t.TempDir()
	if err := Render(dir); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "grafana-orders.json"))
	if err != nil {
		t.Fatalf("read dashboard: %v", err)
	}
	if !strings.Contains(string(b), "uid1") {
		t.Fatalf("greptime uid not rendered")
	}
	if !strings.Contains(string(b), "FROM unit_orders") || !strings.Contains(string(b), "FROM group_commands") {
		t.Fatalf("journal tables not rendered")
	}
	var v map[string]any
	if err := json.Unmarshal(b, &v); err != nil {
		t.Fatalf("dashboard is not valid JSON: %v", err)
	}
}
