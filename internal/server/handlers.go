package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/jonathan/cv-forge/internal/editor"
	"github.com/jonathan/cv-forge/internal/rendering"
	"github.com/jonathan/cv-forge/internal/schemas"
	"github.com/jonathan/cv-forge/internal/session"
	"github.com/jonathan/cv-forge/internal/types"
)

// maxJSONBody bounds JSON request bodies; a CV carries at most one photo
const maxJSONBody = 8 << 20

// SessionResponse represents a session and its current CV
type SessionResponse struct {
	ID        string       `json:"id"`
	CV        types.CVData `json:"cv"`
	Polishing bool         `json:"polishing"`
}

// EditResponse is returned by every editing endpoint
type EditResponse struct {
	CV types.CVData `json:"cv"`
	// ItemID is set when the edit created an item
	ItemID string `json:"itemId,omitempty"`
}

// FieldRequest represents the request body for field updates
type FieldRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// TemplatesResponse lists preview templates and theme colors
type TemplatesResponse struct {
	Templates []string `json:"templates"`
	Default   string   `json:"default"`
	Palette   []string `json:"palette"`
}

// handleTemplates lists the available preview templates
func (s *Server) handleTemplates(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, TemplatesResponse{
		Templates: rendering.Names(),
		Default:   rendering.DefaultTemplate,
		Palette:   types.Palette,
	})
}

// handleCreateSession starts a session, optionally seeded with a CV document
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var seed *types.CVData
	if len(bytes.TrimSpace(body)) > 0 {
		cv, err := decodeCV(body)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		seed = &cv
	}

	sess := s.store.Create(seed)
	s.jsonResponse(w, http.StatusCreated, SessionResponse{ID: sess.ID, CV: sess.Snapshot()})
}

// handleGetSession returns the session's current CV
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, SessionResponse{
		ID:        sess.ID,
		CV:        sess.Snapshot(),
		Polishing: sess.Polishing(),
	})
}

// handleDeleteSession ends a session
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.PathValue("id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleIntent dispatches one editing intent posted by the form or the preview
func (s *Server) handleIntent(w http.ResponseWriter, r *http.Request) {
	var in editor.Intent
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	s.apply(w, r, in, http.StatusOK)
}

// handleUpdateField sets one scalar CV field
func (s *Server) handleUpdateField(w http.ResponseWriter, r *http.Request) {
	var req FieldRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	s.apply(w, r, editor.Intent{Op: editor.OpSetField, Field: req.Field, Value: req.Value}, http.StatusOK)
}

// handleAddItem appends an empty entry to a section
func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	section, err := pathSection(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.apply(w, r, editor.Intent{Op: editor.OpAddItem, Section: string(section)}, http.StatusCreated)
}

// handleUpdateItem sets one field of a section entry
func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	section, err := pathSection(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req FieldRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	s.apply(w, r, editor.Intent{
		Op:      editor.OpUpdateItem,
		Section: string(section),
		ID:      r.PathValue("item_id"),
		Field:   req.Field,
		Value:   req.Value,
	}, http.StatusOK)
}

// handleRemoveItem deletes a section entry
func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	section, err := pathSection(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.apply(w, r, editor.Intent{
		Op:      editor.OpRemoveItem,
		Section: string(section),
		ID:      r.PathValue("item_id"),
	}, http.StatusOK)
}

// handleSetPhoto accepts a multipart upload (field "photo") or a raw image body
func (s *Server) handleSetPhoto(w http.ResponseWriter, r *http.Request) {
	// Room for multipart framing on top of the image itself
	r.Body = http.MaxBytesReader(w, r.Body, s.maxPhotoBytes+64<<10)

	var src io.Reader = r.Body
	if mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mediaType == "multipart/form-data" {
		file, _, err := r.FormFile("photo")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				s.fail(w, r, err)
				return
			}
			s.fail(w, r, &ErrValidation{Field: "photo", Message: "multipart field 'photo' is required"})
			return
		}
		defer file.Close()
		src = file
	}

	dataURL, err := editor.EncodePhoto(src, s.maxPhotoBytes)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.apply(w, r, editor.Intent{Op: editor.OpSetPhoto, Value: dataURL}, http.StatusOK)
}

// handleClearPhoto removes the photo
func (s *Server) handleClearPhoto(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, editor.Intent{Op: editor.OpClearPhoto}, http.StatusOK)
}

// apply runs one intent against the session named in the path
func (s *Server) apply(w http.ResponseWriter, r *http.Request, in editor.Intent, status int) {
	sess, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	cv, itemID, err := sess.Apply(in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, status, EditResponse{CV: cv, ItemID: itemID})
}

// session looks up the session named in the path
func (s *Server) session(r *http.Request) (*session.Session, error) {
	return s.store.Get(r.PathValue("id"))
}

func pathSection(r *http.Request) (types.Section, error) {
	section, err := types.ParseSection(r.PathValue("section"))
	if err != nil {
		return "", &ErrValidation{Field: "section", Message: err.Error()}
	}
	return section, nil
}

// decodeJSON decodes a bounded JSON body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return &ErrValidation{Message: "Invalid request body: " + err.Error()}
	}
	return nil
}

// decodeCV checks a posted CV document against its schema and decodes it
func decodeCV(body []byte) (types.CVData, error) {
	if err := schemas.ValidateCVDocument(body); err != nil {
		return types.CVData{}, err
	}
	var cv types.CVData
	if err := json.Unmarshal(body, &cv); err != nil {
		return types.CVData{}, &ErrValidation{Message: fmt.Sprintf("Invalid CV document: %v", err)}
	}
	return cv.Normalize(), nil
}
