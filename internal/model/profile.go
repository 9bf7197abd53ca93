package model

import "time"

// Profile is the database row. PasswordHash and ActivationToken never leave
// the service layer; API responses use ProfileResponse.
type Profile struct {
	ID              int64
	FullName        string
	Email           string
	PasswordHash    string
	ProfileImageURL *string
	IsActive        bool
	ActivationToken *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type RegisterRequest struct {
	FullName        string  `json:"fullName"`
	Email           string  `json:"email"`
	Password        string  `json:"password"`
	ProfileImageURL *string `json:"profileImageUrl,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ProfileResponse struct {
	ID              int64     `json:"id"`
	FullName        string    `json:"fullName"`
	Email           string    `json:"email"`
	ProfileImageURL *string   `json:"profileImageUrl,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type LoginResponse struct {
	Token string          `json:"token"`
	User  ProfileResponse `json:"user"`
}

// PublicProfile strips the credential fields from a row.
func (p *Profile) PublicProfile() ProfileResponse {
	return ProfileResponse{
		ID:              p.ID,
		FullName:        p.FullName,
		Email:           p.Email,
		ProfileImageURL: p.ProfileImageURL,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
