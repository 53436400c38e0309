// Package types provides type definitions for structured data used throughout the cv-forge system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// DefaultThemeColor is the accent color of a fresh editing session (indigo)
const DefaultThemeColor = "#4f46e5"

// Palette is the fixed set of theme colors offered by the editor.
// Any other color string is accepted and passed through unchanged.
var Palette = []string{
	"#111827", // gray-900
	"#4f46e5", // indigo-600
	"#2563eb", // blue-600
	"#059669", // emerald-600
	"#dc2626", // red-600
	"#7c3aed", // violet-600
	"#ea580c", // orange-600
	"#be185d", // pink-700
}

// CVData is the root record of an editing session.
// Skills and Interests are comma separated free text and are never split into lists.
type CVData struct {
	// Target job context, used only as prompt context
	TargetCompany        string `json:"targetCompany"`
	TargetRole           string `json:"targetRole"`
	TargetJobDescription string `json:"targetJobDescription"`

	ThemeColor string `json:"themeColor"`

	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedin"`
	Website  string `json:"website"`
	PhotoURL string `json:"photoUrl,omitempty"` // data URL
	Headline string `json:"headline"`
	Summary  string `json:"summary"`

	Skills    string `json:"skills"`
	Interests string `json:"interests"`

	Experience  []Experience `json:"experience"`
	Education   []Education  `json:"education"`
	Awards      []Award      `json:"awards"`
	Memberships []Membership `json:"memberships"`
}

// Experience is a single job entry. Dates are free text ("Present" is valid).
type Experience struct {
	ID          string `json:"id"`
	JobTitle    string `json:"jobTitle"`
	Company     string `json:"company"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

// Education is a single school entry
type Education struct {
	ID          string `json:"id"`
	School      string `json:"school"`
	Degree      string `json:"degree"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

// Award is a single award or honor
type Award struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Issuer      string `json:"issuer"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

// Membership is a single professional affiliation
type Membership struct {
	ID           string `json:"id"`
	Role         string `json:"role"`
	Organization string `json:"organization"`
	Date         string `json:"date"`
}

// NewCVData returns the value a fresh editing session starts with.
func NewCVData() CVData {
	return CVData{
		ThemeColor:  DefaultThemeColor,
		Experience:  []Experience{},
		Education:   []Education{},
		Awards:      []Award{},
		Memberships: []Membership{},
	}
}

// Clone returns a deep copy; the copy shares no backing arrays with cv.
func (cv CVData) Clone() CVData {
	out := cv
	out.Experience = cloneSlice(cv.Experience)
	out.Education = cloneSlice(cv.Education)
	out.Awards = cloneSlice(cv.Awards)
	out.Memberships = cloneSlice(cv.Memberships)
	return out
}

// WithoutPhoto returns a clone with the photo removed.
func (cv CVData) WithoutPhoto() CVData {
	out := cv.Clone()
	out.PhotoURL = ""
	return out
}

// Normalize returns a copy with every nil list replaced by an empty one.
func (cv CVData) Normalize() CVData {
	out := cv
	if out.Experience == nil {
		out.Experience = []Experience{}
	}
	if out.Education == nil {
		out.Education = []Education{}
	}
	if out.Awards == nil {
		out.Awards = []Award{}
	}
	if out.Memberships == nil {
		out.Memberships = []Membership{}
	}
	return out
}

// DisplayHeadline returns the headline, falling back to the first sentence of the summary.
func (cv CVData) DisplayHeadline() string {
	if h := strings.TrimSpace(cv.Headline); h != "" {
		return h
	}
	first, _, _ := strings.Cut(cv.Summary, ".")
	return strings.TrimSpace(first)
}

// IsPaletteColor reports whether color is one of the fixed palette entries.
func IsPaletteColor(color string) bool {
	for _, c := range Palette {
		if strings.EqualFold(c, color) {
			return true
		}
	}
	return false
}

// SplitList splits a comma separated string for display, dropping empty entries.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
