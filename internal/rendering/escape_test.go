package rendering

import (
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccentCSS(t *testing.T) {
	tests := []struct {
		in   string
		want template.CSS
	}{
		{"#4f46e5", "#4f46e5"},
		{" #FFF ", "#FFF"},
		{"teal", "teal"},
		{"", "#000"},
		{"#12345", "#000"},
		{"rgb(0,0,0)", "#000"},
		{"red;background:url(x)", "#000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, accentCSS(tt.in, "#000"), tt.in)
	}
}

func TestAttrs(t *testing.T) {
	assert.Equal(t, template.HTMLAttr(`a="1" c="&lt;&#34;&gt;"`), attrs("a", "1", "b", "", "c", `<">`))
	assert.Equal(t,
		template.HTMLAttr(`data-op="remove_item" data-section="awards" data-id="a1"`),
		removeItem("awards", "a1"))
	assert.Equal(t,
		template.HTMLAttr(`contenteditable="true" data-op="set_field" data-field="nickname"`),
		editField(true, "nickname"))
}

func TestEditAttrs_ReadOnly(t *testing.T) {
	assert.Empty(t, editField(false, "fullName"))
	assert.Empty(t, editItem(false, "experience", "x1", "company"))
	assert.Contains(t, string(editItem(true, "experience", "x1", "company")), `data-op="update_item"`)
}
