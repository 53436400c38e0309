package server

import (
	"bytes"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/jonathan/cv-forge/internal/rendering"
)

// handlePolishSession polishes the session's CV and stores the result.
// Clients sending Accept: text/event-stream receive progress events instead of one JSON body.
func (s *Server) handlePolishSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if !wantsEventStream(r) {
		cv, err := sess.Polish(r.Context(), s.polisher.Polish)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		s.jsonResponse(w, http.StatusOK, EditResponse{CV: cv})
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := sse.WriteEvent("polishing", map[string]string{"session_id": sess.ID}); err != nil {
		return
	}

	cv, err := sess.Polish(r.Context(), s.polisher.Polish)
	if err != nil {
		s.logger.Warn("streamed polish failed", zap.String("session_id", sess.ID), zap.Error(err))
		sse.WriteError(HTTPStatus(err), UserMessage(err))
		return
	}
	sse.WriteComplete(EditResponse{CV: cv})
}

// handlePolish polishes a posted CV document without a session
func (s *Server) handlePolish(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	cv, err := decodeCV(body)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	polished, err := s.polisher.Polish(r.Context(), cv)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, EditResponse{CV: polished})
}

// handlePreview renders the session's CV as an editable HTML page
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	renderer, err := rendering.Lookup(r.URL.Query().Get("template"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var buf bytes.Buffer
	if static, _ := strconv.ParseBool(r.URL.Query().Get("static")); static {
		err = renderer.Render(&buf, sess.Snapshot())
	} else {
		err = renderer.RenderEditable(&buf, sess.Snapshot(), "/sessions/"+sess.ID+"/intents")
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// handlePreviewPDF prints the session's CV to PDF
func (s *Server) handlePreviewPDF(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		s.fail(w, r, ErrPDFDisabled)
		return
	}
	sess, err := s.session(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	renderer, err := rendering.Lookup(r.URL.Query().Get("template"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	pdf, err := s.exporter.Export(r.Context(), renderer, sess.Snapshot())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="cv.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
