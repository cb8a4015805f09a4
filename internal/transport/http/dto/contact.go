package dto

import (
	"strings"

	"asteca_portfolio/internal/domain/models"
)

type ContactRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email,max=120"`
	Phone       string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Subject     string `json:"subject,omitempty" validate:"omitempty,max=200"`
	Message     string `json:"message" validate:"required"`
	ProjectType string `json:"project_type,omitempty" validate:"omitempty,max=50"`
}

func (r ContactRequest) ToDomain() models.ContactMessage {
	return models.ContactMessage{
		Name:        strings.TrimSpace(r.Name),
		Email:       strings.TrimSpace(r.Email),
		Phone:       strings.TrimSpace(r.Phone),
		Subject:     strings.TrimSpace(r.Subject),
		Message:     strings.TrimSpace(r.Message),
		ProjectType: strings.TrimSpace(r.ProjectType),
	}
}

type ContactResponse struct {
	Message   string                `json:"message"`
	ContactID string                `json:"contact_id"`
	Contact   models.ContactMessage `json:"contact"`
}

type ContactListResponse struct {
	Messages []models.ContactMessage `json:"messages"`
	Total    int                     `json:"total"`
}
