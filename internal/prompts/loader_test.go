package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_PolishingPrompts(t *testing.T) {
	ClearCache()

	system, err := Get(PolishingFile, KeyPolishSystem)
	require.NoError(t, err)
	assert.Equal(t, "You are a helpful, professional career coach and resume expert.", system)

	user, err := Get(PolishingFile, KeyPolishCV)
	require.NoError(t, err)
	assert.Contains(t, user, "CONTEXT - TARGET JOB:")
	assert.Contains(t, user, "1. Correct any grammar or spelling errors.")
	assert.Contains(t, user, `8. Format the "skills" and "interests" strings as clean, comma-separated lists.`)
	assert.True(t, strings.HasSuffix(user, "Here is the rough data:\n{{.CVData}}"))
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get(PolishingFile, "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
	assert.NotPanics(t, func() {
		assert.NotEmpty(t, MustGet(PolishingFile, KeyFallbackCompany))
	})
}

func TestFormat(t *testing.T) {
	template := "Applying to {{.Company}} as {{.Role}}"
	data := map[string]string{
		"Company": "Acme Corp",
		"Role":    "Engineer",
	}

	assert.Equal(t, "Applying to Acme Corp as Engineer", Format(template, data))
}

func TestFormat_ValueContainingPlaceholder(t *testing.T) {
	template := "{{.A}} / {{.B}}"
	data := map[string]string{"A": "{{.B}}", "B": "b"}

	assert.Equal(t, "{{.B}} / b", Format(template, data))
}

func TestFormat_MissingData(t *testing.T) {
	assert.Equal(t, "Hello {{.Name}}", Format("Hello {{.Name}}", nil))
	assert.Equal(t, "Hello {{.Name}}", Format("Hello {{.Name}}", map[string]string{"Other": "x"}))
}

func TestCaching(t *testing.T) {
	ClearCache()

	prompt1, err := Get(PolishingFile, KeyPolishCV)
	require.NoError(t, err)
	prompt2, err := Get(PolishingFile, KeyPolishCV)
	require.NoError(t, err)

	assert.Equal(t, prompt1, prompt2)
}
