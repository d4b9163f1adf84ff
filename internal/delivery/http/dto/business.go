package dto

import (
	"time"

	"helperhub/internal/domain/business"
	"helperhub/internal/domain/catalog"

	"github.com/google/uuid"
)

type BusinessInfoRequest struct {
	CompanyName  string `json:"companyName"`
	BusinessType string `json:"businessType"`
	Location     string `json:"location"`
	Description  string `json:"description"`
}

func (r BusinessInfoRequest) Info() business.Info {
	return business.Info{
		CompanyName:  r.CompanyName,
		BusinessType: catalog.BusinessType(r.BusinessType),
		Location:     r.Location,
		Description:  r.Description,
	}
}

type BusinessInfoResponse struct {
	UserID       uuid.UUID `json:"userId"`
	CompanyName  string    `json:"companyName"`
	BusinessType string    `json:"businessType"`
	Location     string    `json:"location"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func NewBusinessInfoResponse(i business.Info) BusinessInfoResponse {
	return BusinessInfoResponse{
		UserID:       i.UserID,
		CompanyName:  i.CompanyName,
		BusinessType: string(i.BusinessType),
		Location:     i.Location,
		Description:  i.Description,
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}
}
