package models

import (
	"time"

	"github.com/google/uuid"
)

type ContactMessage struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	Subject     string    `json:"subject,omitempty"`
	Message     string    `json:"message"`
	ProjectType string    `json:"project_type,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	IsRead      bool      `json:"is_read"`
}

// Stats сводка для панели администратора, учитываются только активные элементы
type Stats struct {
	Portfolio PortfolioStats `json:"portfolio"`
	Contact   ContactStats   `json:"contact"`
}

type PortfolioStats struct {
	TotalItems int `json:"total_items"`
	Images     int `json:"images"`
	Videos     int `json:"videos"`
	Links      int `json:"links"`
}

type ContactStats struct {
	TotalMessages  int `json:"total_messages"`
	UnreadMessages int `json:"unread_messages"`
}
