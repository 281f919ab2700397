package mailer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTemplates(t *testing.T) {
	tmpl, err := LoadTemplates()
	require.NoError(t, err)

	for _, name := range []string{TemplatePasswordChanged, TemplateContact} {
		_, _, err := tmpl.Render(name, map[string]string{})
		assert.NoError(t, err, "template %s should render with empty data", name)
	}
}

func TestRenderContact(t *testing.T) {
	tmpl, err := LoadTemplates()
	require.NoError(t, err)

	subject, body, err := tmpl.Render(TemplateContact, map[string]string{
		"Subject": "Billing question",
		"Name":    "Ada Lovelace",
		"Email":   "ada@example.com",
		"Message": "How do I export my products?",
	})
	require.NoError(t, err)

	assert.Equal(t, "Contact - Billing question", subject)
	assert.Contains(t, body, "Ada Lovelace ada@example.com")
	assert.Contains(t, body, "How do I export my products?")
}

func TestRenderPasswordChanged(t *testing.T) {
	tmpl, err := LoadTemplates()
	require.NoError(t, err)

	subject, body, err := tmpl.Render(TemplatePasswordChanged, map[string]string{
		"Name":           "Ada",
		"ContactAddress": "contact@stockroom.local",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(subject, "Ada"), "subject should start with the name: %s", subject)
	assert.Contains(t, body, "contact@stockroom.local")
}

func TestRenderUnknownTemplate(t *testing.T) {
	tmpl, err := LoadTemplates()
	require.NoError(t, err)

	_, _, err = tmpl.Render("nope", nil)
	assert.Error(t, err)
}
