package handler

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/middleware"
	"github.com/chirayupatel9/palm-cafe-api-sub001/pkg/logger"
)

// MaxUploadSize caps a single uploaded file at 5 MB.
const MaxUploadSize = 5 << 20

var allowedUploadExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// UploadHandler stores menu and branding images on local disk.
type UploadHandler struct {
	dir string
}

// NewUploadHandler creates an upload handler rooted at dir. The directory
// is created if missing.
func NewUploadHandler(dir string) (*UploadHandler, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &UploadHandler{dir: dir}, nil
}

// Upload accepts a multipart image and returns its public URL. Files are
// renamed to a uuid so uploads never collide across cafes.
func (h *UploadHandler) Upload(c echo.Context) error {
	log := logger.FromEcho(c)
	cafe := middleware.Cafe(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "file is required",
			"code":  "MISSING_FILE",
		})
	}
	if fileHeader.Size > MaxUploadSize {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{
			"error": "file exceeds the 5MB limit",
			"code":  "FILE_TOO_LARGE",
		})
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedUploadExts[ext] {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "unsupported file type",
			"code":  "UNSUPPORTED_FILE_TYPE",
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		log.Error("Failed to open uploaded file", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "upload failed",
			"code":  "INTERNAL_ERROR",
		})
	}
	defer src.Close()

	name := fmt.Sprintf("%d-%s%s", cafe.ID, uuid.New().String(), ext)
	dst, err := os.Create(filepath.Join(h.dir, name))
	if err != nil {
		log.Error("Failed to create upload file", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "upload failed",
			"code":  "INTERNAL_ERROR",
		})
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		log.Error("Failed to write uploaded file", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "upload failed",
			"code":  "INTERNAL_ERROR",
		})
	}

	log.Info("File uploaded",
		zap.Uint("cafe_id", cafe.ID),
		zap.String("file", name),
		zap.Int64("size", fileHeader.Size))
	return c.JSON(http.StatusCreated, echo.Map{
		"url": "/uploads/" + name,
	})
}
