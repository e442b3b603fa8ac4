package request

import (
	"encoding/json"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/eventforge/hackathon-api/internal/domain"
)

func eventStatuses() []interface{} {
	out := make([]interface{}, 0, len(domain.EventStatuses))
	for _, s := range domain.EventStatuses {
		out = append(out, string(s))
	}
	return out
}

type ElementRequest struct {
	Content  string   `json:"content"`
	X        *float64 `json:"x"`
	Y        *float64 `json:"y"`
	FontSize float64  `json:"fontSize,omitempty"`
	Color    string   `json:"color,omitempty"`
	Align    string   `json:"align,omitempty"`
}

func (e ElementRequest) Validate() error {
	return validation.ValidateStruct(
		&e,
		validation.Field(&e.Content, validation.Required),
		validation.Field(&e.X, validation.NotNil),
		validation.Field(&e.Y, validation.NotNil),
		validation.Field(&e.FontSize, validation.Min(1.0), validation.Max(500.0)),
		validation.Field(&e.Color, validation.Length(1, 32)),
		validation.Field(&e.Align, validation.In(
			string(domain.AlignLeft), string(domain.AlignCenter), string(domain.AlignRight),
		)),
	)
}

type TemplateRequest struct {
	BackgroundURL string           `json:"backgroundUrl,omitempty"`
	Elements      []ElementRequest `json:"elements"`
}

func (t *TemplateRequest) Validate() error {
	return validation.ValidateStruct(
		t,
		validation.Field(&t.BackgroundURL, validation.Length(0, 2048)),
		validation.Field(&t.Elements),
	)
}

// ToDomain converts the template. A nil receiver yields nil.
func (t *TemplateRequest) ToDomain() *domain.CertificateTemplate {
	if t == nil {
		return nil
	}

	tmpl := &domain.CertificateTemplate{
		BackgroundURL: t.BackgroundURL,
		Elements:      make([]domain.Element, 0, len(t.Elements)),
	}
	for _, e := range t.Elements {
		el := domain.Element{
			Content:  e.Content,
			FontSize: e.FontSize,
			Color:    e.Color,
			Align:    domain.Align(e.Align),
		}
		if e.X != nil {
			el.X = *e.X
		}
		if e.Y != nil {
			el.Y = *e.Y
		}
		tmpl.Elements = append(tmpl.Elements, el.WithDefaults())
	}

	return tmpl
}

type CreateEventRequest struct {
	Title                string               `json:"title"`
	Description          string               `json:"description"`
	StartDate            time.Time            `json:"startDate"`
	EndDate              time.Time            `json:"endDate"`
	RegistrationDeadline *time.Time           `json:"registrationDeadline"`
	Rules                []string             `json:"rules"`
	Tracks               []string             `json:"tracks"`
	Status               string               `json:"status"`
	Modules              *domain.ModulesPatch `json:"modules"`
	CertificateTemplate  *TemplateRequest     `json:"certificateTemplate"`
}

func (req *CreateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Description, validation.Required),
		validation.Field(&req.StartDate, validation.Required),
		validation.Field(&req.EndDate, validation.Required),
		validation.Field(&req.Status, validation.In(eventStatuses()...)),
		validation.Field(&req.CertificateTemplate),
	)
}

func (req *CreateEventRequest) ToDomain() domain.Event {
	return domain.Event{
		Title:                req.Title,
		Description:          req.Description,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		RegistrationDeadline: req.RegistrationDeadline,
		Rules:                req.Rules,
		Tracks:               req.Tracks,
		Status:               domain.EventStatus(req.Status),
		CertificateTemplate:  req.CertificateTemplate.ToDomain(),
	}
}

// NullableTime records whether the field was present, so an explicit null can clear a value.
type NullableTime struct {
	Set   bool
	Value *time.Time
}

func (n *NullableTime) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		n.Value = nil
		return nil
	}

	var t time.Time
	if err := json.Unmarshal(b, &t); err != nil {
		return err
	}
	n.Value = &t

	return nil
}

// UpdateEventRequest is a partial update; absent fields are left untouched.
type UpdateEventRequest struct {
	Title                *string              `json:"title"`
	Description          *string              `json:"description"`
	StartDate            *time.Time           `json:"startDate"`
	EndDate              *time.Time           `json:"endDate"`
	RegistrationDeadline NullableTime         `json:"registrationDeadline" swaggertype:"string" format:"date-time"`
	Rules                []string             `json:"rules"`
	Tracks               []string             `json:"tracks"`
	Status               *string              `json:"status"`
	Modules              *domain.ModulesPatch `json:"modules"`
	CertificateTemplate  *TemplateRequest     `json:"certificateTemplate"`
}

func (req *UpdateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&req.Description, validation.NilOrNotEmpty),
		validation.Field(&req.Status, validation.NilOrNotEmpty, validation.In(eventStatuses()...)),
		validation.Field(&req.CertificateTemplate),
	)
}

func (req *UpdateEventRequest) ToPatch() domain.EventPatch {
	patch := domain.EventPatch{
		Title:                   req.Title,
		Description:             req.Description,
		StartDate:               req.StartDate,
		EndDate:                 req.EndDate,
		SetRegistrationDeadline: req.RegistrationDeadline.Set,
		RegistrationDeadline:    req.RegistrationDeadline.Value,
		Rules:                   req.Rules,
		Tracks:                  req.Tracks,
		Modules:                 req.Modules,
		CertificateTemplate:     req.CertificateTemplate.ToDomain(),
	}
	if req.Status != nil {
		status := domain.EventStatus(*req.Status)
		patch.Status = &status
	}

	return patch
}

type CreateCertificateRequest struct {
	EventID        uint   `json:"eventId"`
	RecipientName  string `json:"recipientName"`
	RecipientEmail string `json:"recipientEmail"`
	Role           string `json:"role"`
}

// Validate checks formats only; missing fields are reported by the generator.
func (req *CreateCertificateRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.RecipientEmail, is.Email),
		validation.Field(&req.Role, validation.Length(0, 50)),
	)
}
