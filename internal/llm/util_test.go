package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json fence",
			input:    "```json\n{\"fullName\":\"A\"}\n```",
			expected: `{"fullName":"A"}`,
		},
		{
			name:     "bare fence",
			input:    "```\n{\"fullName\":\"A\"}\n```",
			expected: `{"fullName":"A"}`,
		},
		{
			name:     "fence with other language tag",
			input:    "```javascript\n{\"fullName\":\"A\"}\n```",
			expected: `{"fullName":"A"}`,
		},
		{
			name:     "fence on one line",
			input:    "```{\"fullName\":\"A\"}```",
			expected: `{"fullName":"A"}`,
		},
		{
			name:     "plain object with surrounding whitespace",
			input:    "  \n{\"fullName\":\"A\"}\n ",
			expected: `{"fullName":"A"}`,
		},
		{
			name:     "preamble before object",
			input:    "Here is the polished CV:\n{\"summary\": \"Seasoned engineer.\"}",
			expected: `{"summary": "Seasoned engineer."}`,
		},
		{
			name:     "trailing remark",
			input:    "{\"skills\": \"Go, SQL\"}\n\nGood luck with the application!",
			expected: `{"skills": "Go, SQL"}`,
		},
		{
			name:     "braces inside strings",
			input:    "Result: {\"description\": \"• Built {internal} tools \\\"fast\\\"\"}",
			expected: `{"description": "• Built {internal} tools \"fast\""}`,
		},
		{
			name:     "array",
			input:    "Items:\n[{\"id\": \"a\"}, {\"id\": \"b\"}]",
			expected: `[{"id": "a"}, {"id": "b"}]`,
		},
		{
			name:     "not json",
			input:    "I cannot help with that.",
			expected: "I cannot help with that.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestExtractBalanced(t *testing.T) {
	assert.Equal(t, `{"a": {"b": "c"}}`, extractJSONObject(`{"a": {"b": "c"}} tail`))
	assert.Equal(t, `[[1], [2]]`, extractJSONArray(`[[1], [2]] tail`))
	assert.Equal(t, "", extractJSONObject(""))
	assert.Equal(t, "", extractJSONObject("x{}"))
	assert.Equal(t, "", extractJSONObject(`{"unterminated": "`))
	assert.Equal(t, "", extractJSONArray("{}"))
}
