package handlers

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/anorak1709/research-usecase-generator/internal/events"
	"github.com/anorak1709/research-usecase-generator/internal/foundation/errors"
	"github.com/anorak1709/research-usecase-generator/internal/markdown"
	"github.com/anorak1709/research-usecase-generator/internal/render"
	"github.com/anorak1709/research-usecase-generator/internal/report"
	"github.com/anorak1709/research-usecase-generator/internal/server/responses"
	"github.com/anorak1709/research-usecase-generator/internal/store"
)

// DownloadFilename is the attachment name of a downloaded report.
const DownloadFilename = "research_to_business_report.md"

// maxListLimit caps ?limit= on the report list.
const maxListLimit = 500

// ReportHandlers serve stored reports.
type ReportHandlers struct {
	store          store.Store
	summaryHeading string
	errorAdapter   *errors.HTTPErrorAdapter
}

// NewReportHandlers creates the report handlers.
func NewReportHandlers(s store.Store, summaryHeading string, adapter *errors.HTTPErrorAdapter) *ReportHandlers {
	if summaryHeading == "" {
		summaryHeading = report.DefaultSummaryHeading
	}
	return &ReportHandlers{store: s, summaryHeading: summaryHeading, errorAdapter: adapter}
}

// HandleList lists recent reports, newest first, without their markdown.
func (h *ReportHandlers) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := store.DefaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxListLimit {
			h.errorAdapter.WriteErrorResponse(w, r, errors.ValidationError("invalid limit").
				WithContext("limit", raw).WithContext("max", maxListLimit).Build())
			return
		}
		limit = n
	}

	reports, err := h.store.ListReports(r.Context(), limit)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	h.write(w, r, responses.ReportListResponse{Reports: reports, Count: len(reports)})
}

// HandleGet returns one report with its parsed document and summary.
func (h *ReportHandlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.load(w, r)
	if !ok {
		return
	}
	h.write(w, r, responses.ReportResponse{
		Report:   rep,
		Summary:  report.ExtractSection(rep.Markdown, h.summaryHeading),
		Document: report.ParseDocument(rep.Markdown),
	})
}

// HandleEvents returns the journaled events of an analysis.
func (h *ReportHandlers) HandleEvents(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	envs, err := h.store.EventsFor(r.Context(), id)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	if len(envs) == 0 {
		h.errorAdapter.WriteErrorResponse(w, r, errors.NotFoundError("no events for analysis").
			WithContext("id", id).Build())
		return
	}

	resp := responses.EventsResponse{AnalysisID: id, Events: make([]responses.EventEntry, 0, len(envs))}
	for _, env := range envs {
		entry := responses.EventEntry{Type: string(env.Type), Timestamp: env.Timestamp, Payload: env.Payload}
		if evt, err := env.Decode(); err == nil {
			if p, ok := evt.(events.Progress); ok {
				entry.LogLine = p.LogLine()
			}
		}
		resp.Events = append(resp.Events, entry)
	}
	h.write(w, r, resp)
}

// HandleDownload serves the raw markdown as an attachment. The fingerprint
// is the ETag.
func (h *ReportHandlers) HandleDownload(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.load(w, r)
	if !ok {
		return
	}
	etag := strconv.Quote(rep.Fingerprint)
	w.Header().Set("ETag", etag)
	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+DownloadFilename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(rep.Markdown)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(rep.Markdown))
}

// HandleHTML serves the report as a standalone page. ?engine=commonmark
// renders through the CommonMark exporter instead of the report renderer.
func (h *ReportHandlers) HandleHTML(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.load(w, r)
	if !ok {
		return
	}
	summary := report.ExtractSection(rep.Markdown, h.summaryHeading)

	var buf bytes.Buffer
	var err error
	switch engine := r.URL.Query().Get("engine"); engine {
	case "", "report":
		err = render.Page(&buf, rep.Filename, summary, report.ParseDocument(rep.Markdown))
	case "commonmark":
		var fragment []byte
		fragment, err = markdown.ExportHTML([]byte(rep.Markdown), markdown.DefaultOptions())
		if err == nil {
			err = render.PageFragment(&buf, rep.Filename, summary, fragment)
		}
	default:
		h.errorAdapter.WriteErrorResponse(w, r, errors.ValidationError("unknown engine").
			WithContext("engine", engine).WithContext("valid", "report, commonmark").Build())
		return
	}
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r,
			errors.WrapError(err, errors.CategoryInternal, "failed to render report page").Build())
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *ReportHandlers) load(w http.ResponseWriter, r *http.Request) (store.Report, bool) {
	rep, err := h.store.GetReport(r.Context(), r.PathValue("id"))
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return store.Report{}, false
	}
	return rep, true
}

func (h *ReportHandlers) write(w http.ResponseWriter, r *http.Request, v any) {
	respond(w, r, h.errorAdapter, http.StatusOK, v, "report")
}

// etagMatches implements the If-None-Match list comparison, including "*"
// and weak validators.
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}
