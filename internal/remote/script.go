package remote

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/shipward/shipward/internal/security"
)

// Script is a remote procedure with explicit substitution points. Values
// are interpolated in a distinct step before transmission and are shell
// escaped at the point of substitution, so remote-side syntax like $VAR
// or backticks in the body is never interpreted as a local placeholder.
type Script struct {
	name string
	tmpl *template.Template
}

// NewScript parses a script body. Substitution points use the
// {{.Name}} form; anything else is sent to the host verbatim.
func NewScript(name, body string) (*Script, error) {
	t, err := template.New(name).Option("missingkey=error").Parse(body)
	if err != nil {
		return nil, fmt.Errorf("invalid script %s: %w", name, err)
	}
	return &Script{name: name, tmpl: t}, nil
}

// MustScript is NewScript for package-level script literals
func MustScript(name, body string) *Script {
	s, err := NewScript(name, body)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the script's diagnostic name
func (s *Script) Name() string {
	return s.name
}

// Render substitutes values into the script. Every value is shell escaped;
// a reference to a value that was not supplied is an error rather than an
// empty expansion.
func (s *Script) Render(values map[string]string) (string, error) {
	escaped := make(map[string]string, len(values))
	for k, v := range values {
		escaped[k] = security.ShellEscape(v)
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, escaped); err != nil {
		return "", fmt.Errorf("script %s: %w", s.name, err)
	}
	return buf.String(), nil
}

// RenderRaw substitutes values without escaping. Reserved for values that
// are themselves command fragments already built from escaped parts, such
// as a rendered config file body inside a heredoc.
func (s *Script) RenderRaw(values map[string]string) (string, error) {
	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, values); err != nil {
		return "", fmt.Errorf("script %s: %w", s.name, err)
	}
	return buf.String(), nil
}
