package editor

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/cv-forge/internal/types"
)

// Op identifies the kind of edit an Intent performs
type Op string

// Supported intent operations
const (
	OpSetField   Op = "set_field"
	OpAddItem    Op = "add_item"
	OpRemoveItem Op = "remove_item"
	OpUpdateItem Op = "update_item"
	OpSetPhoto   Op = "set_photo"
	OpClearPhoto Op = "clear_photo"
)

// Intent is a single edit dispatched by either editing surface (form or preview).
type Intent struct {
	Op      Op     `json:"op" validate:"required,oneof=set_field add_item remove_item update_item set_photo clear_photo"`
	Section string `json:"section,omitempty" validate:"omitempty,oneof=experience education awards memberships"`
	ID      string `json:"id,omitempty" validate:"max=64"`
	Field   string `json:"field,omitempty" validate:"max=64"`
	Value   string `json:"value"`
}

var validate = validator.New()

// Validate checks the intent's shape: known op, and the section/id/field each op needs.
func (in Intent) Validate() error {
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return &IntentError{Field: jsonName(verrs[0].Field()), Message: "failed " + verrs[0].Tag() + " check"}
		}
		return &IntentError{Message: err.Error()}
	}

	switch in.Op {
	case OpSetField:
		if in.Field == "" {
			return &IntentError{Field: "field", Message: "required for set_field"}
		}
	case OpAddItem:
		if in.Section == "" {
			return &IntentError{Field: "section", Message: "required for add_item"}
		}
	case OpRemoveItem, OpUpdateItem:
		if in.Section == "" {
			return &IntentError{Field: "section", Message: "required for " + string(in.Op)}
		}
		if in.ID == "" {
			return &IntentError{Field: "id", Message: "required for " + string(in.Op)}
		}
		if in.Op == OpUpdateItem && in.Field == "" {
			return &IntentError{Field: "field", Message: "required for update_item"}
		}
	case OpSetPhoto:
		if !strings.HasPrefix(in.Value, "data:image/") {
			return &IntentError{Field: "value", Message: "must be an image data URL"}
		}
	}
	return nil
}

// Apply validates the intent and performs it, returning the new value and the affected item id (if any).
func Apply(cv types.CVData, in Intent, newID IDFunc) (types.CVData, string, error) {
	if err := in.Validate(); err != nil {
		return cv, "", err
	}

	section := types.Section(in.Section)
	switch in.Op {
	case OpSetField:
		out, err := UpdateField(cv, in.Field, in.Value)
		return out, "", err
	case OpAddItem:
		return AddItem(cv, section, newID)
	case OpRemoveItem:
		out, err := RemoveItem(cv, section, in.ID)
		return out, in.ID, err
	case OpUpdateItem:
		out, err := UpdateItem(cv, section, in.ID, in.Field, in.Value)
		return out, in.ID, err
	case OpSetPhoto:
		return SetPhoto(cv, in.Value), "", nil
	case OpClearPhoto:
		return ClearPhoto(cv), "", nil
	}
	return cv, "", &IntentError{Field: "op", Message: "unsupported"}
}

func jsonName(structField string) string {
	if structField == "" || structField == strings.ToUpper(structField) {
		return strings.ToLower(structField)
	}
	return strings.ToLower(structField[:1]) + structField[1:]
}
