// Package relay forwards chat completion requests to the upstream provider,
// attaching the server-held credential so it never reaches the browser.
package relay

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultUpstream is the NVIDIA API origin
const DefaultUpstream = "https://integrate.api.nvidia.com"

// maxBodyBytes bounds the forwarded request body
const maxBodyBytes = 8 << 20

// Handler relays POST requests to Upstream with the mount prefix stripped
type Handler struct {
	// Upstream is the origin requests are forwarded to
	Upstream string
	// APIKey is sent as a bearer token; an empty key fails every request with 500
	APIKey string
	// Prefix is removed from the request path before forwarding
	Prefix string
	// Provider names the upstream in error messages
	Provider string

	HTTPClient *http.Client
	Logger     *zap.Logger
}

// New creates a relay handler with defaults filled in
func New(upstream, apiKey, prefix string, logger *zap.Logger) *Handler {
	if upstream == "" {
		upstream = DefaultUpstream
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Upstream:   strings.TrimRight(upstream, "/"),
		APIKey:     apiKey,
		Prefix:     prefix,
		Provider:   "NVIDIA",
		HTTPClient: &http.Client{Timeout: 5 * time.Minute},
		Logger:     logger,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if strings.TrimSpace(h.APIKey) == "" {
		h.Logger.Error("relay credential missing", zap.String("provider", h.Provider))
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("%s API key not configured", h.Provider))
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}

	target := h.Upstream + h.targetPath(r.URL.Path)
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+h.APIKey)

	start := time.Now()
	resp, err := h.HTTPClient.Do(req)
	if err != nil {
		h.Logger.Error("relay upstream request failed", zap.String("target", target), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer resp.Body.Close()

	h.Logger.Info("relayed request",
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		h.Logger.Warn("relay response copy interrupted", zap.Error(err))
	}
}

func (h *Handler) targetPath(path string) string {
	path = strings.TrimPrefix(path, h.Prefix)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
