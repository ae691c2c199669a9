package handlers

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/andresuchdata/inventory-health/internal/domain"
	inventoryhealth "github.com/andresuchdata/inventory-health/internal/pipeline/inventory_health"
	"github.com/andresuchdata/inventory-health/internal/service"
	"github.com/andresuchdata/inventory-health/internal/sheet"
	"github.com/andresuchdata/inventory-health/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// InventoryHealthService is the part of service.InventoryHealthService the handler uses.
type InventoryHealthService interface {
	Analyze(ctx context.Context, in service.AnalyzeInput) (*domain.AnalysisResponse, error)
	AnalyzeObject(ctx context.Context, key string, req domain.AnalysisRequest) (*domain.AnalysisResponse, error)
	ExportReport(ctx context.Context, resp *domain.AnalysisResponse, dir, uploadPrefix string) ([]string, error)
	ListObjects(ctx context.Context, prefix string) ([]storage.ObjectInfo, error)
	VoucherTypes(ctx context.Context) ([]string, error)
	RefreshVoucherTypes(ctx context.Context) ([]string, error)
}

type InventoryHealthHandler struct {
	service     InventoryHealthService
	maxUploadMB int
}

func NewInventoryHealthHandler(svc InventoryHealthService, maxUploadMB int) *InventoryHealthHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 32
	}
	return &InventoryHealthHandler{service: svc, maxUploadMB: maxUploadMB}
}

type analyzeObjectRequest struct {
	domain.AnalysisRequest
	ObjectKey    string `json:"object_key" binding:"required"`
	Export       bool   `json:"export"`
	UploadPrefix string `json:"upload_prefix"`
}

// Analyze handles a multipart upload of one stock summary. An optional
// voucher_file part supplies the voucher mapping for this request.
func (h *InventoryHealthHandler) Analyze(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, int64(h.maxUploadMB)<<20)

	var req domain.AnalysisRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form data", "details": err.Error()})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided"})
		return
	}
	if !sheet.Supported(fileHeader.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported file type: %s", fileHeader.Filename)})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file", "details": err.Error()})
		return
	}
	defer file.Close()

	in := service.AnalyzeInput{Request: req, Filename: fileHeader.Filename, Data: file}

	if voucherHeader, err := c.FormFile("voucher_file"); err == nil {
		var vf multipart.File
		if vf, err = voucherHeader.Open(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read voucher file", "details": err.Error()})
			return
		}
		defer vf.Close()
		in.Voucher = vf
		in.VoucherFilename = voucherHeader.Filename
	}

	resp, err := h.service.Analyze(c.Request.Context(), in)
	if err != nil {
		h.fail(c, "failed to analyze stock summary", err)
		return
	}

	if export, _ := strconv.ParseBool(c.PostForm("export")); export {
		if _, err := h.service.ExportReport(c.Request.Context(), resp, "", c.PostForm("upload_prefix")); err != nil {
			h.fail(c, "failed to export report", err)
			return
		}
	}

	c.JSON(http.StatusOK, resp)
}

// AnalyzeObject analyzes a stock summary already stored in object storage.
func (h *InventoryHealthHandler) AnalyzeObject(c *gin.Context) {
	var req analyzeObjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	resp, err := h.service.AnalyzeObject(c.Request.Context(), req.ObjectKey, req.AnalysisRequest)
	if err != nil {
		h.fail(c, "failed to analyze object", err)
		return
	}

	if req.Export {
		if _, err := h.service.ExportReport(c.Request.Context(), resp, "", req.UploadPrefix); err != nil {
			h.fail(c, "failed to export report", err)
			return
		}
	}

	c.JSON(http.StatusOK, resp)
}

// ListObjects lists analyzable objects under the prefix query parameter.
func (h *InventoryHealthHandler) ListObjects(c *gin.Context) {
	objects, err := h.service.ListObjects(c.Request.Context(), c.Query("prefix"))
	if err != nil {
		h.fail(c, "failed to list objects", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": objects})
}

func (h *InventoryHealthHandler) VoucherTypes(c *gin.Context) {
	types, err := h.service.VoucherTypes(c.Request.Context())
	if err != nil {
		h.fail(c, "failed to load voucher types", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": types})
}

func (h *InventoryHealthHandler) RefreshVoucherTypes(c *gin.Context) {
	types, err := h.service.RefreshVoucherTypes(c.Request.Context())
	if err != nil {
		h.fail(c, "failed to refresh voucher types", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": types})
}

func (h *InventoryHealthHandler) fail(c *gin.Context, message string, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg(message)
	}
	c.JSON(status, gin.H{"error": message, "details": err.Error()})
}

// StatusFor maps service errors onto HTTP status codes.
func StatusFor(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, inventoryhealth.ErrInvalidParameter),
		errors.Is(err, service.ErrNoVoucherSource):
		return http.StatusBadRequest
	case errors.Is(err, inventoryhealth.ErrMalformedInput),
		errors.Is(err, sheet.ErrUnsupportedFormat),
		errors.Is(err, sheet.ErrUnreadable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrStorageDisabled), errors.Is(err, service.ErrDatabaseDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

var _ InventoryHealthService = (*service.InventoryHealthService)(nil)
