package rendering

import (
	"html/template"
	"regexp"
	"strings"

	"github.com/jonathan/cv-forge/internal/editor"
)

var (
	hexColor   = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	namedColor = regexp.MustCompile(`^[a-zA-Z]{3,20}$`)
)

// placeholders shown by empty editable elements
var placeholders = map[string]string{
	"fullName":     "YOUR NAME",
	"headline":     "Professional Headline",
	"email":        "Email",
	"phone":        "Phone",
	"location":     "Location",
	"linkedin":     "LinkedIn",
	"website":      "Website",
	"summary":      "Professional summary...",
	"skills":       "List your skills...",
	"interests":    "List your interests...",
	"jobTitle":     "Job Title",
	"company":      "Company",
	"startDate":    "Start",
	"endDate":      "End",
	"description":  "Description...",
	"school":       "School",
	"degree":       "Degree",
	"title":        "Title",
	"issuer":       "Issuer",
	"date":         "Date",
	"role":         "Role",
	"organization": "Organization",
}

// accentCSS returns color as a CSS value when it is a plain hex or named color,
// and fallback otherwise.
func accentCSS(color, fallback string) template.CSS {
	color = strings.TrimSpace(color)
	if hexColor.MatchString(color) || namedColor.MatchString(color) {
		return template.CSS(color)
	}
	return template.CSS(fallback)
}

// photoURL passes image data URLs through html/template's URL filter
func photoURL(s string) template.URL {
	if strings.HasPrefix(s, "data:image/") {
		return template.URL(s) //nolint:gosec // only image data URLs reach here
	}
	return ""
}

// attrs renders name="value" pairs with escaped values
func attrs(pairs ...string) template.HTMLAttr {
	var sb strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(pairs[i])
		sb.WriteString(`="`)
		sb.WriteString(template.HTMLEscapeString(pairs[i+1]))
		sb.WriteByte('"')
	}
	return template.HTMLAttr(sb.String()) //nolint:gosec // values escaped above
}

// editField marks an element as editing a scalar CV field; read-only output gets no attributes
func editField(editable bool, field string) template.HTMLAttr {
	if !editable {
		return ""
	}
	return attrs(
		"contenteditable", "true",
		"data-op", string(editor.OpSetField),
		"data-field", field,
		"data-placeholder", placeholders[field],
	)
}

// editItem marks an element as editing one field of a section entry
func editItem(editable bool, section, id, field string) template.HTMLAttr {
	if !editable {
		return ""
	}
	return attrs(
		"contenteditable", "true",
		"data-op", string(editor.OpUpdateItem),
		"data-section", section,
		"data-id", id,
		"data-field", field,
		"data-placeholder", placeholders[field],
	)
}

// removeItem marks a control that removes a section entry
func removeItem(section, id string) template.HTMLAttr {
	return attrs(
		"data-op", string(editor.OpRemoveItem),
		"data-section", section,
		"data-id", id,
	)
}

// addItem marks a control that appends an entry to a section
func addItem(section string) template.HTMLAttr {
	return attrs(
		"data-op", string(editor.OpAddItem),
		"data-section", section,
	)
}
