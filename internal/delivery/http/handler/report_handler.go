package handler

import (
	"fmt"

	"skill-upcycle/internal/pkg/response"
	"skill-upcycle/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ReportHandler struct {
	uc usecase.ReportUsecase
}

func NewReportHandler(uc usecase.ReportUsecase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// RegisterRoutes expects r to be behind the auth middleware.
func (h *ReportHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/analyses/:id/report.pdf", h.PDF)
	r.Get("/analyses/:id/report.html", h.HTML)
}

func (h *ReportHandler) PDF(c fiber.Ctx) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	pdf, err := h.uc.ReportPDF(c.Context(), sess, id)
	if err != nil {
		return mapUsecaseError(err)
	}
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="analise-%d.pdf"`, id))
	return response.Binary(c, "application/pdf", pdf)
}

func (h *ReportHandler) HTML(c fiber.Ctx) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	page, err := h.uc.ReportHTML(c.Context(), sess, id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Binary(c, fiber.MIMETextHTMLCharsetUTF8, page)
}
