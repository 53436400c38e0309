package editor

import (
	"fmt"

	"github.com/jonathan/cv-forge/internal/types"
)

type identified interface {
	ItemID() string
}

var experienceFields = map[string]func(*types.Experience) *string{
	"jobTitle":    func(e *types.Experience) *string { return &e.JobTitle },
	"company":     func(e *types.Experience) *string { return &e.Company },
	"startDate":   func(e *types.Experience) *string { return &e.StartDate },
	"endDate":     func(e *types.Experience) *string { return &e.EndDate },
	"description": func(e *types.Experience) *string { return &e.Description },
}

var educationFields = map[string]func(*types.Education) *string{
	"school":      func(e *types.Education) *string { return &e.School },
	"degree":      func(e *types.Education) *string { return &e.Degree },
	"startDate":   func(e *types.Education) *string { return &e.StartDate },
	"endDate":     func(e *types.Education) *string { return &e.EndDate },
	"description": func(e *types.Education) *string { return &e.Description },
}

var awardFields = map[string]func(*types.Award) *string{
	"title":       func(a *types.Award) *string { return &a.Title },
	"issuer":      func(a *types.Award) *string { return &a.Issuer },
	"date":        func(a *types.Award) *string { return &a.Date },
	"description": func(a *types.Award) *string { return &a.Description },
}

var membershipFields = map[string]func(*types.Membership) *string{
	"role":         func(m *types.Membership) *string { return &m.Role },
	"organization": func(m *types.Membership) *string { return &m.Organization },
	"date":         func(m *types.Membership) *string { return &m.Date },
}

// appendItem returns a new slice; the input's backing array is never written.
func appendItem[T any](items []T, item T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, items...)
	return append(out, item)
}

// removeByID drops the first entry with the given id.
func removeByID[T identified](items []T, id string) ([]T, bool) {
	out := make([]T, 0, len(items))
	found := false
	for _, it := range items {
		if !found && it.ItemID() == id {
			found = true
			continue
		}
		out = append(out, it)
	}
	if !found {
		return items, false
	}
	return out, true
}

func updateByID[T identified](items []T, id string, set func(*T) error) ([]T, error) {
	for i := range items {
		if items[i].ItemID() != id {
			continue
		}
		out := make([]T, len(items))
		copy(out, items)
		if err := set(&out[i]); err != nil {
			return items, err
		}
		return out, nil
	}
	return items, ErrItemNotFound
}

func fieldSetter[T any](fields map[string]func(*T) *string, field, value string) func(*T) error {
	return func(item *T) error {
		get, ok := fields[field]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
		*get(item) = value
		return nil
	}
}
