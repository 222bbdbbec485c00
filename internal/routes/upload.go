package routes

import (
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/electrodrive/catalog-api/internal/blob"
	"github.com/electrodrive/catalog-api/internal/metrics"
)

// maxUploadSize caps image uploads at 5MB.
const maxUploadSize = 5 * 1024 * 1024

// UploadHandler handles image upload endpoints
type UploadHandler struct {
	blobStore *blob.Store
	logger    *logrus.Logger
}

func NewUploadHandler(blobStore *blob.Store, logger *logrus.Logger) *UploadHandler {
	return &UploadHandler{
		blobStore: blobStore,
		logger:    logger,
	}
}

// Upload handles POST /upload
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		metrics.RecordUploadOperation("upload", "failure")
		return badRequest(c, "please upload a file")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		metrics.RecordUploadOperation("upload", "failure")
		return badRequest(c, "please upload an image file")
	}

	if fileHeader.Size > maxUploadSize {
		metrics.RecordUploadOperation("upload", "failure")
		return badRequest(c, "please upload an image less than 5MB")
	}

	file, err := fileHeader.Open()
	if err != nil {
		metrics.RecordUploadOperation("upload", "failure")
		return respondError(c, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		metrics.RecordUploadOperation("upload", "failure")
		return respondError(c, err)
	}

	url, err := h.blobStore.Put(c.Context(), fileHeader.Filename, contentType, data)
	if err != nil {
		metrics.RecordUploadOperation("upload", "failure")
		h.logger.WithError(err).WithField("file_name", fileHeader.Filename).Error("Image upload failed")
		return respondError(c, err)
	}

	metrics.RecordUploadOperation("upload", "success")
	h.logger.WithFields(logrus.Fields{
		"file_name": fileHeader.Filename,
		"size":      fileHeader.Size,
		"url":       url,
	}).Info("Image uploaded")

	return c.JSON(fiber.Map{
		"success": true,
		"url":     url,
	})
}

// Delete handles DELETE /upload/:fileName
func (h *UploadHandler) Delete(c *fiber.Ctx) error {
	fileName := c.Params("fileName")
	if fileName == "" {
		metrics.RecordUploadOperation("delete", "failure")
		return badRequest(c, "please provide a file name")
	}

	if err := h.blobStore.Delete(c.Context(), fileName); err != nil {
		metrics.RecordUploadOperation("delete", "failure")
		return respondError(c, err)
	}

	metrics.RecordUploadOperation("delete", "success")
	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{},
	})
}
