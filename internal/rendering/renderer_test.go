package rendering

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-forge/internal/types"
)

func sampleCV() types.CVData {
	cv := types.NewCVData()
	cv.FullName = "Jane Doe"
	cv.Email = "jane@example.com"
	cv.Summary = "Backend engineer. Ten years of Go."
	cv.Skills = "Go, SQL, Kubernetes"
	cv.Experience = []types.Experience{
		{ID: "x1", JobTitle: "Engineer", Company: "Acme", StartDate: "2020", EndDate: "Present", Description: "Built things"},
	}
	cv.Awards = []types.Award{{ID: "a1", Title: "Best Hack"}}
	return cv
}

func renderDoc(t *testing.T, name string, cv types.CVData, editable bool) *goquery.Document {
	t.Helper()
	r, err := Lookup(name)
	require.NoError(t, err)

	var sb strings.Builder
	if editable {
		require.NoError(t, r.RenderEditable(&sb, cv, "/sessions/s1/intents"))
	} else {
		require.NoError(t, r.Render(&sb, cv))
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(sb.String()))
	require.NoError(t, err)
	return doc
}

func TestLookup(t *testing.T) {
	r, err := Lookup("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTemplate, r.Name())

	r, err = Lookup(" Classic ")
	require.NoError(t, err)
	assert.Equal(t, "classic", r.Name())

	_, err = Lookup("fancy")
	assert.True(t, errors.Is(err, ErrUnknownTemplate))
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"classic", "minimal", "modern"}, Names())
}

func TestRender_AllTemplates(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			doc := renderDoc(t, name, sampleCV(), false)

			assert.Equal(t, name, doc.Find("body").AttrOr("data-template", ""))
			assert.Equal(t, "Jane Doe", doc.Find("h1").Text())
			assert.Equal(t, "Backend engineer", doc.Find(".headline").Text())
			assert.Equal(t, "Engineer", doc.Find(`.entry[data-entry="experience"] strong`).Text())
			assert.Equal(t, 0, doc.Find("script").Length())
			assert.NotContains(t, doc.Find("body").AttrOr("class", ""), "editable")
		})
	}
}

func TestRender_ReadOnlyHasNoEditControls(t *testing.T) {
	empty := types.NewCVData()
	empty.Experience = []types.Experience{{ID: "x1"}}

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			html := renderString(t, name, empty)
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
			require.NoError(t, err)

			assert.Equal(t, 0, doc.Find("[contenteditable]").Length())
			assert.Equal(t, 0, doc.Find("[data-op]").Length())
			assert.Equal(t, 0, doc.Find("[data-placeholder]").Length())
			assert.Equal(t, 0, doc.Find("button").Length())
			assert.NotContains(t, html, "YOUR NAME")
		})
	}
}

func TestRender_EditableAttributes(t *testing.T) {
	doc := renderDoc(t, "modern", sampleCV(), true)

	title := doc.Find(`[data-id="x1"][data-field="jobTitle"]`)
	assert.Equal(t, "true", title.AttrOr("contenteditable", ""))
	assert.Equal(t, "update_item", title.AttrOr("data-op", ""))
	assert.Equal(t, "experience", title.AttrOr("data-section", ""))
	assert.Equal(t, "Engineer", title.Text())

	name := doc.Find(`[data-field="fullName"]`)
	assert.Equal(t, "set_field", name.AttrOr("data-op", ""))
	assert.Equal(t, "YOUR NAME", name.AttrOr("data-placeholder", ""))

	assert.Equal(t, 1, doc.Find(`button[data-op="remove_item"][data-id="x1"]`).Length())
	assert.Equal(t, 1, doc.Find(`button[data-op="add_item"][data-section="education"]`).Length())
	assert.Contains(t, doc.Find("body").AttrOr("class", ""), "editable")
	script := doc.Find("script").Text()
	assert.Contains(t, script, "sessions")
	assert.Contains(t, script, "s1")
}

func TestRender_EmptySectionsHidden(t *testing.T) {
	cv := types.NewCVData()
	cv.FullName = "Jane"

	for _, name := range Names() {
		doc := renderDoc(t, name, cv, false)
		assert.Equal(t, 0, doc.Find(`section[data-section="experience"]`).Length(), name)
		assert.Equal(t, 0, doc.Find(`section[data-section="education"]`).Length(), name)
		assert.Equal(t, 0, doc.Find(`section[data-section="interests"]`).Length(), name)
		assert.Equal(t, 1, doc.Find(`section[data-section="skills"]`).Length(), name)
	}

	doc := renderDoc(t, "modern", cv, true)
	assert.Equal(t, 1, doc.Find(`section[data-section="experience"]`).Length())
}

func TestRender_ClassicCombinesHonors(t *testing.T) {
	cv := sampleCV()
	cv.Memberships = []types.Membership{{ID: "m1", Role: "Member", Organization: "ACM"}}

	doc := renderDoc(t, "classic", cv, false)
	honors := doc.Find(`section[data-section="honors"]`)
	assert.Equal(t, "Awards & Memberships", honors.Find("h2").Text())
	assert.Equal(t, 2, honors.Find(".entry").Length())
}

func TestRender_AccentFallback(t *testing.T) {
	cv := sampleCV()

	cv.ThemeColor = "#dc2626"
	html := renderString(t, "modern", cv)
	assert.Contains(t, html, "--accent: #dc2626")

	cv.ThemeColor = ""
	html = renderString(t, "classic", cv)
	assert.Contains(t, html, "--accent: #111827")

	cv.ThemeColor = "red;}</style><script>alert(1)</script>"
	html = renderString(t, "minimal", cv)
	assert.Contains(t, html, "--accent: #475569")
	assert.NotContains(t, html, "alert(1)")
}

func TestRender_EscapesContent(t *testing.T) {
	cv := sampleCV()
	cv.FullName = `<img src=x onerror="alert(1)">`
	cv.Experience[0].ID = `x1" onclick="evil`

	var sb strings.Builder
	require.NoError(t, mustLookup(t, "modern").RenderEditable(&sb, cv, "/sessions/s1/intents"))
	html := sb.String()
	assert.NotContains(t, html, `<img src=x`)
	assert.NotContains(t, html, `onclick="evil"`)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	assert.Equal(t, cv.FullName, doc.Find(`[data-field="fullName"]`).Text())
	assert.Equal(t, cv.Experience[0].ID, doc.Find(`[data-field="jobTitle"]`).AttrOr("data-id", ""))
}

func TestRender_Photo(t *testing.T) {
	cv := sampleCV()
	cv.PhotoURL = "data:image/png;base64,iVBORw0KGgo="

	doc := renderDoc(t, "modern", cv, false)
	assert.Equal(t, cv.PhotoURL, doc.Find("img.photo").AttrOr("src", ""))

	cv.PhotoURL = "javascript:alert(1)"
	doc = renderDoc(t, "modern", cv, false)
	assert.Equal(t, 0, doc.Find("img.photo").Length())
}

// renderString returns the read-only document for the named template
func renderString(t *testing.T, name string, cv types.CVData) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, mustLookup(t, name).Render(&sb, cv))
	return sb.String()
}

func mustLookup(t *testing.T, name string) Renderer {
	t.Helper()
	r, err := Lookup(name)
	require.NoError(t, err)
	return r
}
