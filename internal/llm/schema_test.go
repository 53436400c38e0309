package llm

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() *Schema {
	return Object([]string{"name"},
		Field{Name: "name", Schema: String("")},
		Field{Name: "tags", Schema: String("comma separated list")},
		Field{Name: "jobs", Schema: ArrayOf(Object([]string{"title"},
			Field{Name: "id", Schema: String("")},
			Field{Name: "title", Schema: String("")},
		))},
	)
}

func TestSchema_ToGenai(t *testing.T) {
	out := testSchema().toGenai()

	assert.Equal(t, genai.TypeObject, out.Type)
	assert.Equal(t, []string{"name"}, out.Required)
	require.Contains(t, out.Properties, "tags")
	assert.Equal(t, genai.TypeString, out.Properties["tags"].Type)
	assert.Equal(t, "comma separated list", out.Properties["tags"].Description)

	jobs := out.Properties["jobs"]
	require.NotNil(t, jobs)
	assert.Equal(t, genai.TypeArray, jobs.Type)
	require.NotNil(t, jobs.Items)
	assert.Equal(t, genai.TypeObject, jobs.Items.Type)
	assert.Equal(t, []string{"title"}, jobs.Items.Required)
	assert.Len(t, jobs.Items.Properties, 2)
}

func TestSchema_Describe(t *testing.T) {
	expected := `{
  "name": "string",
  "tags": "string (comma separated list)",
  "jobs": [
    {
      "id": "string",
      "title": "string"
    }
  ]
}`
	assert.Equal(t, expected, testSchema().Describe())
}

func TestSchema_NilToGenai(t *testing.T) {
	var s *Schema
	assert.Nil(t, s.toGenai())
}
