package handler

import (
	"context"
	"strings"

	"helperhub/internal/delivery/http/dto"
	"helperhub/internal/domain/business"
	"helperhub/internal/domain/profile"
	"helperhub/internal/domain/user"
	"helperhub/internal/pkg/response"
	"helperhub/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ProfileService interface {
	Get(ctx context.Context, userID uuid.UUID) (profile.Profile, error)
	Save(ctx context.Context, id user.Identity, patch profile.Patch) (profile.Profile, error)
	UploadImage(ctx context.Context, id user.Identity, img usecase.ImageUpload) (profile.Profile, error)
}

type BusinessService interface {
	Get(ctx context.Context, userID uuid.UUID) (business.Info, error)
	Save(ctx context.Context, id user.Identity, info business.Info) (business.Info, error)
}

const imageFormField = "image"

type ProfileHandler struct {
	profiles ProfileService
	business BusinessService
}

func NewProfileHandler(profiles ProfileService, business BusinessService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, business: business}
}

func (h *ProfileHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/profile", h.Get)
	r.Put("/profile", h.Save)
	r.Post("/profile/image", h.UploadImage)
	r.Get("/business-info", h.GetBusinessInfo)
	r.Put("/business-info", h.SaveBusinessInfo)
}

func (h *ProfileHandler) Get(c fiber.Ctx) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}

	p, err := h.profiles.Get(c.Context(), id.ID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProfileResponse(p))
}

func (h *ProfileHandler) Save(c fiber.Ctx) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req dto.SaveProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Invalid request payload", err)
	}
	patch := req.Patch()
	if patch.IsEmpty() {
		return badRequest("Invalid request payload", nil)
	}

	p, err := h.profiles.Save(c.Context(), id, patch)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProfileResponse(p))
}

func (h *ProfileHandler) UploadImage(c fiber.Ctx) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile(imageFormField)
	if err != nil {
		return badRequest("Missing image file", err)
	}
	f, err := fh.Open()
	if err != nil {
		return badRequest("Unreadable image file", err)
	}
	defer f.Close()

	contentType := strings.TrimSpace(fh.Header.Get("Content-Type"))
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}

	p, err := h.profiles.UploadImage(c.Context(), id, usecase.ImageUpload{
		ContentType: strings.ToLower(contentType),
		Size:        fh.Size,
		Data:        f,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProfileResponse(p))
}

func (h *ProfileHandler) GetBusinessInfo(c fiber.Ctx) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}

	info, err := h.business.Get(c.Context(), id.ID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewBusinessInfoResponse(info))
}

func (h *ProfileHandler) SaveBusinessInfo(c fiber.Ctx) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req dto.BusinessInfoRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Invalid request payload", err)
	}

	info, err := h.business.Save(c.Context(), id, req.Info())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewBusinessInfoResponse(info))
}
