package dto

import "helperhub/internal/domain/user"

type SignupRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Role            string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type TokensResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type AuthResponse struct {
	User IdentityResponse `json:"user"`
	Role string           `json:"role"`
	TokensResponse
}

func NewAuthResponse(u user.User, role user.Role, access, refresh string) AuthResponse {
	return AuthResponse{
		User:           NewIdentityResponse(user.Identity{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName, Phone: u.Phone}),
		Role:           string(role),
		TokensResponse: TokensResponse{AccessToken: access, RefreshToken: refresh},
	}
}
