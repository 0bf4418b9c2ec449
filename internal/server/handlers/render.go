package handlers

import (
	stderrors "errors"
	"io"
	"net/http"

	"github.com/anorak1709/research-usecase-generator/internal/foundation/errors"
	"github.com/anorak1709/research-usecase-generator/internal/markdown"
	"github.com/anorak1709/research-usecase-generator/internal/render"
	"github.com/anorak1709/research-usecase-generator/internal/report"
	"github.com/anorak1709/research-usecase-generator/internal/server/responses"
)

// RenderHandlers parse markdown posted by clients.
type RenderHandlers struct {
	summaryHeading string
	maxBodyBytes   int64
	errorAdapter   *errors.HTTPErrorAdapter
}

// NewRenderHandlers creates the render handlers.
func NewRenderHandlers(summaryHeading string, maxBodyBytes int64, adapter *errors.HTTPErrorAdapter) *RenderHandlers {
	if summaryHeading == "" {
		summaryHeading = report.DefaultSummaryHeading
	}
	return &RenderHandlers{summaryHeading: summaryHeading, maxBodyBytes: maxBodyBytes, errorAdapter: adapter}
}

// HandleRender parses the raw markdown request body. The summary heading can
// be overridden with ?heading=; ?html=1 adds the rendered HTML fragment.
func (h *RenderHandlers) HandleRender(w http.ResponseWriter, r *http.Request) {
	body := r.Body
	if h.maxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			h.errorAdapter.WriteErrorResponse(w, r, errors.TooLargeError("markdown body exceeds size limit").Build())
			return
		}
		h.errorAdapter.WriteErrorResponse(w, r, errors.ValidationError("failed to read request body").WithCause(err).Build())
		return
	}

	heading := h.summaryHeading
	if q := r.URL.Query().Get("heading"); q != "" {
		heading = q
	}

	text := string(raw)
	doc := report.ParseDocument(text)
	resp := responses.RenderResponse{
		Summary:  report.ExtractSection(text, heading),
		Document: doc,
		Outline:  markdown.Outline(raw, markdown.DefaultOptions()),
		Links:    markdown.ExtractLinks(raw, markdown.DefaultOptions()),
	}
	if v := r.URL.Query().Get("html"); v == "1" || v == "true" {
		resp.HTML = render.HTMLString(doc)
	}

	respond(w, r, h.errorAdapter, http.StatusOK, resp, "render")
}
