package prompt

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"text/template"
)

// Template is a system prompt template parsed either from a file on disk or
// from an in-memory source such as an embedded default. Execution fails on
// missing keys so a renamed field surfaces at startup rather than as an empty
// instruction sent to the model.
type Template struct {
	name  string
	path  string
	funcs template.FuncMap

	mu     sync.RWMutex
	tmpl   *template.Template
	digest string
}

// NewTemplate parses the template file at path.
func NewTemplate(path string, funcs template.FuncMap) (*Template, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("prompt template path is empty")
	}
	t := &Template{
		name:  filepath.Base(path),
		path:  path,
		funcs: funcs,
	}
	if err := t.Reload(); err != nil {
		return nil, err
	}
	return t, nil
}

// Parse builds a template from src. The result is not backed by a file, so
// Reload keeps the parsed version.
func Parse(name, src string, funcs template.FuncMap) (*Template, error) {
	if name == "" {
		name = "inline"
	}
	t := &Template{name: name, funcs: funcs}
	if err := t.install([]byte(src)); err != nil {
		return nil, err
	}
	return t, nil
}

// MustParse is Parse that panics on error, for package level defaults.
func MustParse(name, src string, funcs template.FuncMap) *Template {
	t, err := Parse(name, src, funcs)
	if err != nil {
		panic(err)
	}
	return t
}

// Source names where the template came from: its path, or the inline name.
func (t *Template) Source() string {
	if t.path != "" {
		return t.path
	}
	return t.name
}

// Render executes the template with data. Leading and trailing whitespace is
// removed from the output.
func (t *Template) Render(data any) (string, error) {
	t.mu.RLock()
	tmpl := t.tmpl
	t.mu.RUnlock()

	if tmpl == nil {
		return "", fmt.Errorf("prompt template %q not parsed", t.Source())
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute prompt template %q: %w", t.Source(), err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// Reload rereads a file-backed template. A failed reload keeps the previous
// version in place.
func (t *Template) Reload() error {
	if t.path == "" {
		return nil
	}
	data, err := os.ReadFile(t.path)
	if err != nil {
		return fmt.Errorf("read prompt template %q: %w", t.path, err)
	}
	return t.install(data)
}

func (t *Template) install(data []byte) error {
	tmpl := template.New(t.name).Option("missingkey=error")
	if len(t.funcs) > 0 {
		tmpl = tmpl.Funcs(t.funcs)
	}
	if _, err := tmpl.Parse(string(data)); err != nil {
		return fmt.Errorf("parse prompt template %q: %w", t.Source(), err)
	}

	t.mu.Lock()
	t.tmpl = tmpl
	t.digest = Digest(data)
	t.mu.Unlock()
	return nil
}

// Digest returns the sha256 of the template source.
func (t *Template) Digest() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.digest
}
