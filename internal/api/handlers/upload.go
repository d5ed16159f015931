package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/luandafin/finance-dashboard/internal/api/middleware"
	"github.com/luandafin/finance-dashboard/internal/ingest"
)

// maxUploadBytes caps the in-memory multipart parse.
const maxUploadBytes = 32 << 20

// UploadHandler handles the transaction file upload endpoint.
type UploadHandler struct {
	pipeline *ingest.Pipeline
	log      zerolog.Logger
}

func NewUploadHandler(pipeline *ingest.Pipeline, log zerolog.Logger) *UploadHandler {
	return &UploadHandler{pipeline: pipeline, log: log}
}

// Upload handles POST /api/upload_transactions (multipart field
// "transaction_file").
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "No file part in the request")
		return
	}

	file, header, err := r.FormFile("transaction_file")
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "No file part in the request")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		middleware.WriteError(w, http.StatusBadRequest, "No selected file")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to read uploaded file")
		middleware.WriteError(w, http.StatusInternalServerError, "An error occurred while processing the file")
		return
	}

	result, err := h.pipeline.Ingest(r.Context(), header.Filename, data)
	if err != nil {
		h.writeFileFailure(w, err)
		return
	}

	switch result.Status() {
	case ingest.StatusImported:
		middleware.WriteJSON(w, http.StatusOK, map[string]any{
			"message": importedMessage(result.Imported),
		})
	case ingest.StatusEmpty:
		middleware.WriteJSON(w, http.StatusOK, map[string]any{
			"message": "No transactions found or processed in the file.",
		})
	case ingest.StatusPartial:
		middleware.WriteJSON(w, http.StatusMultiStatus, map[string]any{
			"message": importedMessage(result.Imported),
			"errors":  result.ErrorMessages(),
		})
	default:
		middleware.WriteJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "Failed to import any transactions. See errors.",
			"errors": result.ErrorMessages(),
		})
	}
}

func (h *UploadHandler) writeFileFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ingest.ErrUnsupportedFileType):
		middleware.WriteError(w, http.StatusBadRequest, "File type not allowed. Please upload CSV or XLSX.")
	case errors.Is(err, ingest.ErrEmptyFile):
		middleware.WriteError(w, http.StatusBadRequest, "The uploaded file is empty.")
	default:
		var colErr *ingest.MissingColumnsError
		if errors.As(err, &colErr) {
			middleware.WriteError(w, http.StatusBadRequest, colErr.Error())
			return
		}
		h.log.Error().Err(err).Msg("Failed to process uploaded file")
		middleware.WriteError(w, http.StatusBadRequest,
			fmt.Sprintf("An error occurred while processing the file: %v", err))
	}
}

func importedMessage(count int) string {
	return fmt.Sprintf("%d transactions imported successfully.", count)
}
