package handlers

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/anorak1709/research-usecase-generator/internal/analysis"
	"github.com/anorak1709/research-usecase-generator/internal/foundation/errors"
	"github.com/anorak1709/research-usecase-generator/internal/server/responses"
)

// multipartMemory is the part of a multipart upload kept in memory; the rest
// spills to temporary files.
const multipartMemory = 8 << 20

// Analyzer runs an uploaded paper through the analysis pipeline.
type Analyzer interface {
	Analyze(ctx context.Context, u analysis.Upload) (analysis.Result, error)
}

// AnalyzeHandlers serves the upload endpoint.
type AnalyzeHandlers struct {
	analyzer       Analyzer
	maxUploadBytes int64
	errorAdapter   *errors.HTTPErrorAdapter
}

// NewAnalyzeHandlers creates the upload handlers.
func NewAnalyzeHandlers(a Analyzer, maxUploadBytes int64, adapter *errors.HTTPErrorAdapter) *AnalyzeHandlers {
	return &AnalyzeHandlers{analyzer: a, maxUploadBytes: maxUploadBytes, errorAdapter: adapter}
}

// HandleAnalyze accepts a multipart upload with a "file" part and an optional
// "industry" field, and returns the generated report.
func (h *AnalyzeHandlers) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	upload, err := h.readUpload(w, r)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	res, err := h.analyzer.Analyze(r.Context(), upload)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	resp := responses.AnalyzeResponse{
		ID:          res.ID,
		Source:      res.Source,
		Filename:    res.Filename,
		Industry:    res.Industry,
		Summary:     res.Summary,
		Report:      res.Report,
		Document:    res.Document,
		Fingerprint: res.Fingerprint,
		CreatedAt:   res.CreatedAt,
	}
	respond(w, r, h.errorAdapter, http.StatusOK, resp, "analyze")
}

func (h *AnalyzeHandlers) readUpload(w http.ResponseWriter, r *http.Request) (analysis.Upload, error) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return analysis.Upload{}, h.uploadError(err)
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		return analysis.Upload{}, errors.ValidationError("multipart field \"file\" is required").
			WithCause(err).Build()
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		return analysis.Upload{}, h.uploadError(err)
	}
	return analysis.Upload{
		Filename: header.Filename,
		Industry: r.FormValue("industry"),
		Content:  content,
	}, nil
}

func (h *AnalyzeHandlers) uploadError(err error) error {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return errors.TooLargeError("upload exceeds size limit").
			WithContext("limit", humanize.Bytes(uint64(tooLarge.Limit))).Build()
	}
	return errors.ValidationError("invalid multipart upload").WithCause(err).Build()
}
