package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/eventforge/hackathon-api/internal/domain"
)

type CreateTeamRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	MaxMembers  int      `json:"maxMembers"`
}

func (req *CreateTeamRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 60)),
		validation.Field(&req.Description, validation.Length(0, 500)),
		validation.Field(&req.MaxMembers, validation.Min(1), validation.Max(20)),
	)
}

func (req *CreateTeamRequest) ToDomain(eventID uint) domain.Team {
	return domain.Team{
		EventID:     eventID,
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
		MaxMembers:  req.MaxMembers,
	}
}
