package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/yasinhessnawi1/Toolkit_Backend/internal/auth"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/constants"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/utils"
)

// TransferHandler handles export and import of the whole user state
type TransferHandler struct {
	transferService TransferService
}

// NewTransferHandler creates a new TransferHandler
func NewTransferHandler(transferService TransferService) *TransferHandler {
	return &TransferHandler{
		transferService: transferService,
	}
}

// ExportState sends every entity as a downloadable JSON file
func (h *TransferHandler) ExportState(w http.ResponseWriter, r *http.Request) {
	data, err := h.transferService.ExportAll(r.Context())
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	filename := fmt.Sprintf("%s-%s.json", constants.ExportFilenamePrefix, time.Now().UTC().Format("2006-01-02"))
	logger := requestLogger(r)
	logger.Info().Int("bytes", len(data)).Str("filename", filename).Msg("User state exported")
	utils.JsonFile(w, data, filename)
}

// ImportState restores entities from an export document.
// The document is either the raw request body or a multipart upload in the "file" field.
func (h *TransferHandler) ImportState(w http.ResponseWriter, r *http.Request) {
	blob, err := readImportBody(w, r)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	logger := requestLogger(r)
	if err := h.transferService.ImportAll(r.Context(), blob); err != nil {
		logger.Warn().Err(err).Int("bytes", len(blob)).Msg("User state import rejected")
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}
	logger.Info().Int("bytes", len(blob)).Msg("User state imported")

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"imported": true,
		"message":  constants.MsgStateImported,
	})
}

// readImportBody returns the uploaded export document
func readImportBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxImportSize)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get(constants.HeaderContentType))
	if mediaType != constants.ContentTypeMultipart {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, importReadError(err)
		}
		if len(data) == 0 {
			return nil, utils.NewBadRequestError(constants.MsgEmptyRequestBody)
		}
		return data, nil
	}

	if err := r.ParseMultipartForm(constants.MaxImportSize); err != nil {
		return nil, importReadError(err)
	}
	file, _, err := r.FormFile(constants.ImportFormField)
	if err != nil {
		return nil, utils.NewBadRequestError("Export file is required in the \"file\" field")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, importReadError(err)
	}
	return data, nil
}

func importReadError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return utils.NewBadRequestError(constants.MsgRequestBodyTooLarge)
	}
	return utils.NewBadRequestError("Invalid upload: " + err.Error())
}

// requestLogger returns a logger carrying the request ID and the authenticated subject
func requestLogger(r *http.Request) zerolog.Logger {
	requestID, _ := auth.GetRequestID(r)
	subject, _ := auth.GetSubject(r)
	return utils.RequestLogger(requestID, subject, r.Method, r.URL.Path)
}
