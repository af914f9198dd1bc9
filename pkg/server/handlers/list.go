package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"contentworks/csvexport/pkg/export"
	"contentworks/csvexport/pkg/server/middleware"
)

// ListResponse is the body of the export listing.
type ListResponse struct {
	Permission string      `json:"permission"`
	Exports    []ListEntry `json:"exports"`
}

// ListEntry is one exportable content type.
type ListEntry struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ListHandler lists the content types offered for export, one entry per
// menu item.
type ListHandler struct {
	exporter *export.Exporter
	prefix   string
}

// NewListHandler creates a listing handler; entry URLs are built under prefix.
func NewListHandler(exporter *export.Exporter, prefix string) *ListHandler {
	return &ListHandler{exporter: exporter, prefix: strings.TrimRight(prefix, "/")}
}

// ServeHTTP implements http.Handler.
func (h *ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		middleware.WriteError(w, r, http.StatusMethodNotAllowed, "invalid_request", "method not allowed")
		return
	}

	available := h.exporter.AvailableExports()
	resp := ListResponse{
		Permission: h.exporter.Permission(),
		Exports:    make([]ListEntry, 0, len(available)),
	}
	for _, ct := range available {
		resp.Exports = append(resp.Exports, ListEntry{
			Key:  ct.Key,
			Name: ct.Name,
			URL:  h.prefix + "/" + ct.Key,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}
