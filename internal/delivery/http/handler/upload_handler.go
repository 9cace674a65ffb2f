package handler

import (
	"fmt"
	"io"

	"skill-upcycle/internal/delivery/http/middleware"
	"skill-upcycle/internal/pkg/response"
	"skill-upcycle/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// UploadFormField is the multipart field the resume travels in.
const UploadFormField = "arquivo"

type UploadHandler struct {
	uc       usecase.UploadUsecase
	optional fiber.Handler
	maxBytes int64
}

// NewUploadHandler takes the optional-auth middleware: anonymous uploads are
// accepted and kept until the visitor logs in.
func NewUploadHandler(uc usecase.UploadUsecase, optional fiber.Handler, maxBytes int64) *UploadHandler {
	return &UploadHandler{uc: uc, optional: optional, maxBytes: maxBytes}
}

func (h *UploadHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/", h.optional, h.Upload)
}

func (h *UploadHandler) Upload(c fiber.Ctx) error {
	fh, err := c.FormFile(UploadFormField)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Missing file field "+UploadFormField, nil, err)
	}
	if h.maxBytes > 0 && fh.Size > h.maxBytes {
		return mapUsecaseError(usecase.ErrFileTooLarge)
	}

	f, err := fh.Open()
	if err != nil {
		return badRequest(err)
	}
	defer f.Close()

	reader := io.Reader(f)
	if h.maxBytes > 0 {
		reader = io.LimitReader(f, h.maxBytes+1)
	}
	content, err := io.ReadAll(reader)
	if err != nil {
		return badRequest(fmt.Errorf("read upload: %w", err))
	}

	in := usecase.UploadInput{FileName: fh.Filename, Content: content}

	var res usecase.UploadResult
	if sess, ok := middleware.SessionFrom(c); ok {
		res, err = h.uc.Upload(c.Context(), &sess, "", in)
	} else {
		res, err = h.uc.Upload(c.Context(), nil, middleware.AnonIDFrom(c), in)
	}
	if err != nil {
		return mapUsecaseError(err)
	}

	if res.Status == usecase.UploadPartial {
		return response.Success(c, fiber.StatusAccepted, res.Message, res)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}
