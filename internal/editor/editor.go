// Package editor implements the functional-update operations shared by the form and the preview.
//
// Every operation takes a CVData value and returns a new value that differs only in the
// targeted field. Lists are copied before they are changed, so a value handed out earlier
// never observes a later edit.
package editor

import (
	"fmt"

	"github.com/jonathan/cv-forge/internal/types"
)

// maxIDAttempts bounds the number of regenerations when a fresh id collides
const maxIDAttempts = 16

// scalarFields maps JSON names to the text fields UpdateField may set.
// The photo is absent: it only changes through SetPhoto and ClearPhoto.
var scalarFields = map[string]func(*types.CVData) *string{
	"targetCompany":        func(cv *types.CVData) *string { return &cv.TargetCompany },
	"targetRole":           func(cv *types.CVData) *string { return &cv.TargetRole },
	"targetJobDescription": func(cv *types.CVData) *string { return &cv.TargetJobDescription },
	"themeColor":           func(cv *types.CVData) *string { return &cv.ThemeColor },
	"fullName":             func(cv *types.CVData) *string { return &cv.FullName },
	"email":                func(cv *types.CVData) *string { return &cv.Email },
	"phone":                func(cv *types.CVData) *string { return &cv.Phone },
	"location":             func(cv *types.CVData) *string { return &cv.Location },
	"linkedin":             func(cv *types.CVData) *string { return &cv.LinkedIn },
	"website":              func(cv *types.CVData) *string { return &cv.Website },
	"headline":             func(cv *types.CVData) *string { return &cv.Headline },
	"summary":              func(cv *types.CVData) *string { return &cv.Summary },
	"skills":               func(cv *types.CVData) *string { return &cv.Skills },
	"interests":            func(cv *types.CVData) *string { return &cv.Interests },
}

// UpdateField replaces a single scalar field, named by its JSON name.
func UpdateField(cv types.CVData, name, value string) (types.CVData, error) {
	field, ok := scalarFields[name]
	if !ok {
		return cv, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	out := cv
	*field(&out) = value
	return out, nil
}

// SetPhoto stores an encoded data URL as the profile photo.
func SetPhoto(cv types.CVData, dataURL string) types.CVData {
	out := cv
	out.PhotoURL = dataURL
	return out
}

// ClearPhoto removes the profile photo.
func ClearPhoto(cv types.CVData) types.CVData {
	return SetPhoto(cv, "")
}

// AddItem appends an empty entry with a fresh id to the section and returns the id.
func AddItem(cv types.CVData, section types.Section, newID IDFunc) (types.CVData, string, error) {
	if newID == nil {
		newID = NewID
	}
	id, err := UniqueID(cv.IDs(section), newID)
	if err != nil {
		return cv, "", err
	}

	out := cv
	switch section {
	case types.SectionExperience:
		out.Experience = appendItem(cv.Experience, types.Experience{ID: id})
	case types.SectionEducation:
		out.Education = appendItem(cv.Education, types.Education{ID: id})
	case types.SectionAwards:
		out.Awards = appendItem(cv.Awards, types.Award{ID: id})
	case types.SectionMemberships:
		out.Memberships = appendItem(cv.Memberships, types.Membership{ID: id})
	default:
		return cv, "", fmt.Errorf("unknown section %q", section)
	}
	return out, id, nil
}

// RemoveItem removes the entry with the given id; the remaining entries keep their order.
func RemoveItem(cv types.CVData, section types.Section, id string) (types.CVData, error) {
	out := cv
	var found bool
	switch section {
	case types.SectionExperience:
		out.Experience, found = removeByID(cv.Experience, id)
	case types.SectionEducation:
		out.Education, found = removeByID(cv.Education, id)
	case types.SectionAwards:
		out.Awards, found = removeByID(cv.Awards, id)
	case types.SectionMemberships:
		out.Memberships, found = removeByID(cv.Memberships, id)
	default:
		return cv, fmt.Errorf("unknown section %q", section)
	}
	if !found {
		return cv, fmt.Errorf("%w: %s/%s", ErrItemNotFound, section, id)
	}
	return out, nil
}

// UpdateItem replaces one field of the entry with the given id. The id itself cannot be changed.
func UpdateItem(cv types.CVData, section types.Section, id, field, value string) (types.CVData, error) {
	out := cv
	var err error
	switch section {
	case types.SectionExperience:
		out.Experience, err = updateByID(cv.Experience, id, fieldSetter(experienceFields, field, value))
	case types.SectionEducation:
		out.Education, err = updateByID(cv.Education, id, fieldSetter(educationFields, field, value))
	case types.SectionAwards:
		out.Awards, err = updateByID(cv.Awards, id, fieldSetter(awardFields, field, value))
	case types.SectionMemberships:
		out.Memberships, err = updateByID(cv.Memberships, id, fieldSetter(membershipFields, field, value))
	default:
		return cv, fmt.Errorf("unknown section %q", section)
	}
	if err != nil {
		return cv, fmt.Errorf("%s/%s: %w", section, id, err)
	}
	return out, nil
}

// UniqueID draws ids from newID until one is non-empty and not in existing.
func UniqueID(existing []string, newID IDFunc) (string, error) {
	taken := make(map[string]bool, len(existing))
	for _, id := range existing {
		taken[id] = true
	}
	for i := 0; i < maxIDAttempts; i++ {
		if id := newID(); id != "" && !taken[id] {
			return id, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique id after %d attempts", maxIDAttempts)
}
