package v1

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/metasearch/internal/gateway"
	"github.com/nulzo/metasearch/internal/server/validator"
	"github.com/nulzo/metasearch/pkg/api"
	"go.uber.org/zap"
)

// fileField is the multipart field carrying attachments.
const fileField = "files"

type AskHandler struct {
	service   gateway.Service
	logger    *zap.Logger
	maxUpload int64
}

func NewAskHandler(service gateway.Service, logger *zap.Logger, maxUpload int64) *AskHandler {
	return &AskHandler{
		service:   service,
		logger:    logger,
		maxUpload: maxUpload,
	}
}

// Ask fans the question out to every provider.
//
// POST /ask (multipart/form-data: question, compare, files)
func (h *AskHandler) Ask(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)

	var q api.Query
	if err := c.ShouldBind(&q); err != nil {
		if validator.IsTooLarge(err) {
			_ = c.Error(tooLarge(h.maxUpload))
			return
		}
		_ = c.Error(api.ValidationError(validator.ParseValidationError(err)))
		return
	}

	image, err := firstImage(c)
	if err != nil {
		if validator.IsTooLarge(err) {
			_ = c.Error(tooLarge(h.maxUpload))
			return
		}
		_ = c.Error(api.BadRequestError("could not read the uploaded image", api.WithLog(err)))
		return
	}
	q.Image = image

	h.logger.Info("Received question",
		zap.String("question", q.Question),
		zap.Bool("image", q.Image != nil),
		zap.Bool("compare", q.Compare),
	)

	result, err := h.service.Process(c.Request.Context(), q)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// firstImage returns the first attachment with an image/* content type.
// Other attachments, and any further images, are ignored.
func firstImage(c *gin.Context) (*api.Image, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}

	for _, fh := range form.File[fileField] {
		contentType := fh.Header.Get("Content-Type")
		if !api.IsImageContentType(contentType) {
			continue
		}
		data, err := readFile(fh)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", fh.Filename, err)
		}
		return api.NewImage(contentType, data), nil
	}

	return nil, nil
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return io.ReadAll(f)
}

func tooLarge(limit int64) *api.Problem {
	return api.NewError(
		http.StatusRequestEntityTooLarge,
		"Payload Too Large",
		fmt.Sprintf("request body exceeds %d MB", limit>>20),
	)
}
