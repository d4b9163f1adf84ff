package handler

import (
	"helperhub/internal/delivery/http/dto"
	"helperhub/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type CatalogHandler struct{}

func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

func (h *CatalogHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/catalog", h.Get)
}

func (h *CatalogHandler) Get(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCatalogResponse())
}
