// Grafana dashboard rendering for the GreptimeDB order journal
package dashboard

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"groupcmd/internal/journal"
)

//go:embed templates/*.tmpl
var templates embed.FS

var templateFiles = []string{
	"templates/grafana-orders.json.tmpl",
}

// data is what the templates see besides the env function.
type data struct {
	OrderTable string
	IssueTable string
}

// Render executes the dashboard templates and writes the dashboards to outDir.
// Templates pull datasource ids from the environment and fail when one is unset.
func Render(outDir string) error {
	funcMap := template.FuncMap{
		"env": func(key string) (string, error) {
			v := os.Getenv(key)
			if v == "" {
				return "", fmt.Errorf("environment variable %s not set", key)
			}
			return v, nil
		},
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	d := data{OrderTable: journal.OrderTable, IssueTable: journal.IssueTable}
	for _, name := range templateFiles {
		t, err := template.New(filepath.Base(name)).Funcs(funcMap).ParseFS(templates, name)
		if err != nil {
			return err
		}
		outPath := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(name), ".tmpl"))
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		if err := t.Execute(f, d); err != nil {
			f.Close()
			os.Remove(outPath)
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
