package api

import (
	"net/http"
	"strings"
)

const serviceName = "Rapsodo Lesson Generator"

// RootHandler answers GET / with service information.
type RootHandler struct {
	docs bool
}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{docs: true}
}

type rootResponse struct {
	Service   string   `json:"service"`
	Docs      string   `json:"docs,omitempty"`
	Endpoints []string `json:"endpoints"`
}

// HandleRoot redirects browsers to the docs page and describes the API to
// everything else.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if h.docs && strings.Contains(r.Header.Get("Accept"), "text/html") {
		http.Redirect(w, r, "/api-docs", http.StatusFound)
		return
	}
	resp := rootResponse{
		Service: serviceName,
		Endpoints: []string{
			"POST /lesson/pitching",
			"POST /lesson/hitting",
			"GET /healthz",
			"GET /stats",
			"GET /metrics",
		},
	}
	if h.docs {
		resp.Docs = "/api-docs"
		resp.Endpoints = append(resp.Endpoints, "GET /api-docs", "GET /openapi.yaml")
	}
	writeJSON(w, http.StatusOK, resp)
}
