package dto

import (
	"helperhub/internal/domain/user"

	"github.com/google/uuid"
)

type IdentityResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	Phone       string    `json:"phone"`
}

func NewIdentityResponse(id user.Identity) IdentityResponse {
	return IdentityResponse{ID: id.ID, Email: id.Email, DisplayName: id.DisplayName, Phone: id.Phone}
}

type SessionResponse struct {
	Identity        IdentityResponse `json:"identity"`
	Role            string           `json:"role"`
	RoleResolved    bool             `json:"roleResolved"`
	Gate            string           `json:"gate"`
	ProfileComplete bool             `json:"profileComplete"`
}
