package dto

import (
	"asteca_portfolio/internal/domain/models"
)

type LoginResponse struct {
	Message      string      `json:"message"`
	User         models.User `json:"user"`
	SessionToken string      `json:"session_token"`
}

type MeResponse struct {
	User models.User `json:"user"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=128"`
}
