package mailer

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var templatesYAML []byte

// Template names used by the services.
const (
	TemplatePasswordChanged = "password_changed"
	TemplateContact         = "contact"
)

// messageTemplate is a subject/body pair as defined in templates.yaml.
type messageTemplate struct {
	Subject string `yaml:"subject"`
	Body    string `yaml:"body"`
}

// Templates renders the outbound mail templates.
type Templates struct {
	subjects map[string]*template.Template
	bodies   map[string]*template.Template
}

// LoadTemplates parses the embedded template definitions.
func LoadTemplates() (*Templates, error) {
	var defs map[string]messageTemplate
	if err := yaml.Unmarshal(templatesYAML, &defs); err != nil {
		return nil, fmt.Errorf("failed to parse mail templates: %w", err)
	}

	t := &Templates{
		subjects: make(map[string]*template.Template, len(defs)),
		bodies:   make(map[string]*template.Template, len(defs)),
	}

	for name, def := range defs {
		subject, err := template.New(name + ".subject").Parse(def.Subject)
		if err != nil {
			return nil, fmt.Errorf("invalid subject template %q: %w", name, err)
		}
		body, err := template.New(name + ".body").Parse(def.Body)
		if err != nil {
			return nil, fmt.Errorf("invalid body template %q: %w", name, err)
		}
		t.subjects[name] = subject
		t.bodies[name] = body
	}

	return t, nil
}

// Render produces the subject and body for the named template.
func (t *Templates) Render(name string, data any) (subject, body string, err error) {
	st, ok := t.subjects[name]
	if !ok {
		return "", "", fmt.Errorf("unknown mail template: %s", name)
	}

	var sb, bb strings.Builder
	if err := st.Execute(&sb, data); err != nil {
		return "", "", fmt.Errorf("failed to render subject %q: %w", name, err)
	}
	if err := t.bodies[name].Execute(&bb, data); err != nil {
		return "", "", fmt.Errorf("failed to render body %q: %w", name, err)
	}

	return strings.TrimSpace(sb.String()), bb.String(), nil
}
