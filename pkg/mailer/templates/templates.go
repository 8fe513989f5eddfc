package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	"strings"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// Template names.
const (
	ResetPassword = "reset_password"
)

func baseFuncs() map[string]any {
	return map[string]any{
		"now":        func() time.Time { return time.Now().UTC() },
		"formatTime": func(t time.Time, layout string) string { return t.Format(layout) },
		"upper":      strings.ToUpper,
	}
}

var (
	htmlFuncMap = htmpl.FuncMap(baseFuncs())
	textFuncMap = texttpl.FuncMap(baseFuncs())
)

// Subject returns the subject line for a known template name.
func Subject(name string) string {
	switch strings.ToLower(name) {
	case ResetPassword:
		return "Reset your password"
	default:
		return "Notification"
	}
}

// RenderHTML renders the HTML body of the named template.
func RenderHTML(name string, data map[string]any) (string, error) {
	t, err := htmpl.New(name + ".html.tmpl").Funcs(htmlFuncMap).ParseFS(FS, name+".html.tmpl")
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return buf.String(), nil
}

// RenderText renders the plain-text fallback of the named template.
func RenderText(name string, data map[string]any) (string, error) {
	t, err := texttpl.New(name + ".txt.tmpl").Funcs(textFuncMap).ParseFS(FS, name+".txt.tmpl")
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return buf.String(), nil
}
