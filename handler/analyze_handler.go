package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Aashish23092/taxease-analyzer/dto"
	"github.com/Aashish23092/taxease-analyzer/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// multipartOverhead is the slack allowed on top of the file size limit for
// multipart boundaries and headers.
const multipartOverhead = 1 << 20

type Analyzer interface {
	Analyze(ctx context.Context, doc dto.Document) *dto.AnalysisResponse
	Threshold() decimal.Decimal
}

type AnalyzeHandler struct {
	analyzer       Analyzer
	maxUploadBytes int64
	logger         *slog.Logger
}

func NewAnalyzeHandler(analyzer Analyzer, maxUploadBytes int64, logger *slog.Logger) *AnalyzeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyzeHandler{
		analyzer:       analyzer,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Analyze handles POST /api/v1/analyze
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	doc, status, err := h.readUpload(c)
	if err != nil {
		h.sendError(c, status, uploadMessage(status), err)
		return
	}

	resp := h.analyzer.Analyze(c.Request.Context(), *doc)
	resp.ProcessedAt = time.Now().UTC().Format(time.RFC3339)

	c.JSON(statusCode(resp.Status), resp)
}

// readUpload pulls the single "file" field out of a multipart request.
// The returned status is the HTTP code to use when err is not nil.
func (h *AnalyzeHandler) readUpload(c *gin.Context) (*dto.Document, int, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		if isTooLarge(err) {
			return nil, http.StatusRequestEntityTooLarge, err
		}
		return nil, http.StatusBadRequest, fmt.Errorf("%w: %v", dto.ErrFileRequired, err)
	}
	if fileHeader.Size > h.maxUploadBytes {
		return nil, http.StatusRequestEntityTooLarge, fmt.Errorf("file is %d bytes, limit is %d", fileHeader.Size, h.maxUploadBytes)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("failed to read file: %w", err)
	}
	if int64(len(data)) > h.maxUploadBytes {
		return nil, http.StatusRequestEntityTooLarge, fmt.Errorf("file exceeds %d bytes", h.maxUploadBytes)
	}

	h.logger.Info("upload received",
		"request_id", middleware.GetRequestID(c),
		"filename", fileHeader.Filename,
		"size", len(data),
	)

	return &dto.Document{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}, http.StatusOK, nil
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func statusCode(status dto.DocumentStatus) int {
	switch status {
	case dto.StatusOK:
		return http.StatusOK
	case dto.StatusUnsupportedFormat:
		return http.StatusUnsupportedMediaType
	case dto.StatusExtractionFailed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func uploadMessage(status int) string {
	if status == http.StatusRequestEntityTooLarge {
		return "File too large"
	}
	return "File is required"
}

// sendError sends a structured error response
func (h *AnalyzeHandler) sendError(c *gin.Context, statusCode int, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
		h.logger.Warn(message, "request_id", middleware.GetRequestID(c), "error", err)
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:     errorMsg,
		Message:   message,
		Code:      statusCode,
		RequestID: middleware.GetRequestID(c),
	})
}
