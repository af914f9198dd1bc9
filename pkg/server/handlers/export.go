package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"contentworks/csvexport/pkg/export"
	"contentworks/csvexport/pkg/server/middleware"
	"contentworks/csvexport/pkg/telemetry/logging"

	"github.com/relvacode/iso8601"
)

// ContentTypeParam is the path wildcard holding the requested content type.
const ContentTypeParam = "contenttype"

// ExportHandler serves CSV downloads for one content type.
//
// Optional query parameters:
//   - since: ISO 8601 time; only records created at or after it are exported
//   - limit: maximum number of records
//
// Unknown or disabled content types are answered with 200 and a body holding
// only the byte order mark.
type ExportHandler struct {
	exporter *export.Exporter
	source   export.Source
}

// NewExportHandler creates a new export handler.
func NewExportHandler(exporter *export.Exporter, source export.Source) *ExportHandler {
	return &ExportHandler{exporter: exporter, source: source}
}

// ServeHTTP implements http.Handler.
func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		middleware.WriteError(w, r, http.StatusMethodNotAllowed, "invalid_request", "method not allowed")
		return
	}

	contentType := r.PathValue(ContentTypeParam)
	ctx := logging.WithContentType(r.Context(), contentType)

	q, err := parseQuery(r)
	if err != nil {
		middleware.WriteError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	out, err := h.exporter.Run(ctx, h.source, contentType, q)
	if err != nil {
		slog.ErrorContext(ctx, "export failed", "error", err)
		middleware.WriteError(w, r, http.StatusInternalServerError, "export_error", "export failed")
		return
	}

	header := w.Header()
	if header.Get("Content-Type") == "" {
		header.Set("Content-Type", out.MIMEType)
	}
	header.Set("Content-Disposition", out.Disposition())
	header.Set("Content-Length", strconv.Itoa(len(out.Body)))
	header.Set("Cache-Control", "no-store")

	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(out.Body); err != nil {
		slog.WarnContext(ctx, "failed to write export body", "error", err)
	}
}

func parseQuery(r *http.Request) (export.Query, error) {
	var q export.Query
	values := r.URL.Query()

	if since := values.Get("since"); since != "" {
		t, err := iso8601.ParseString(since)
		if err != nil {
			return q, &queryError{param: "since", cause: err}
		}
		q.CreatedSince = &t
	}

	if limit := values.Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			return q, &queryError{param: "limit", cause: strconv.ErrSyntax}
		}
		q.Limit = n
	}

	return q, nil
}

type queryError struct {
	param string
	cause error
}

func (e *queryError) Error() string {
	return "invalid " + e.param + " parameter: " + e.cause.Error()
}

func (e *queryError) Unwrap() error {
	return e.cause
}
