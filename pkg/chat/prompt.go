package chat

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/abhinavsingh1103/OnBoarding-ChatBot/pkg/intent"
	"github.com/abhinavsingh1103/OnBoarding-ChatBot/pkg/prompt"
)

//go:embed system.tmpl
var defaultPromptSource string

var promptFuncs = template.FuncMap{
	"upper": strings.ToUpper,
}

// PromptInputs is the data available to the system prompt template.
type PromptInputs struct {
	AssistantName string
	DataType      string
	Marker        string
}

// PromptRenderer renders the system prompt template.
type PromptRenderer struct {
	template *prompt.Template
}

// NewPromptRenderer parses the template at path, or the built-in template
// when path is empty.
func NewPromptRenderer(path string) (*PromptRenderer, error) {
	var (
		tpl *prompt.Template
		err error
	)
	if path == "" {
		tpl, err = prompt.Parse("builtin:system.tmpl", defaultPromptSource, promptFuncs)
	} else {
		tpl, err = prompt.NewTemplate(path, promptFuncs)
	}
	if err != nil {
		return nil, err
	}
	return &PromptRenderer{template: tpl}, nil
}

// Render executes the template for cfg.
func (r *PromptRenderer) Render(cfg *Config) (string, error) {
	if r == nil || r.template == nil {
		return "", fmt.Errorf("chat prompt renderer not initialised")
	}
	if cfg == nil {
		return "", fmt.Errorf("chat prompt renderer requires config")
	}
	return r.template.Render(PromptInputs{
		AssistantName: cfg.AssistantName,
		DataType:      cfg.DataType,
		Marker:        intent.MetadataMarker,
	})
}

// Source names the template file, or the built-in template.
func (r *PromptRenderer) Source() string {
	if r == nil || r.template == nil {
		return ""
	}
	return r.template.Source()
}

// Digest exposes the template digest for version tracking.
func (r *PromptRenderer) Digest() string {
	if r == nil || r.template == nil {
		return ""
	}
	return r.template.Digest()
}
