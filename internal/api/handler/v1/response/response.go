package response

import "github.com/eventforge/hackathon-api/internal/domain"

type AuthResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type CertificateResponse struct {
	Success     bool               `json:"success"`
	Certificate domain.Certificate `json:"certificate"`
}

type CertificatesResponse struct {
	Certificates []domain.Certificate `json:"certificates"`
}

type EventResponse struct {
	Event domain.Event `json:"event"`
}

type EventsResponse struct {
	Events []domain.Event `json:"events"`
}

type TeamResponse struct {
	Team domain.Team `json:"team"`
}

type TeamsResponse struct {
	Teams []domain.Team `json:"teams"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
