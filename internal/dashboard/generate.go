package dashboard

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"lithosguard/internal/telemetry"
)

//go:embed templates/*.json.tmpl
var templates embed.FS

var templateFiles = []string{
	"templates/slope-stability.json.tmpl",
	"templates/alarm-commands.json.tmpl",
}

// Tables names the GreptimeDB tables the dashboards query.
type Tables struct {
	Telemetry string
	Commands  string
}

// DefaultTables returns the table names writers use.
func DefaultTables() Tables {
	return Tables{Telemetry: telemetry.TelemetryTableName, Commands: telemetry.CommandTableName}
}

// Render parses dashboard templates and writes rendered dashboards to outDir.
func Render(outDir string) error {
	return RenderTables(outDir, DefaultTables())
}

// RenderTables renders the dashboards against explicit table names.
func RenderTables(outDir string, tables Tables) error {
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
	for _, tplName := range templateFiles {
		t, err := template.New(filepath.Base(tplName)).Funcs(funcMap).ParseFS(templates, tplName)
		if err != nil {
			return err
		}
		outPath := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(tplName), ".tmpl"))
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		if err := t.Execute(f, tables); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
