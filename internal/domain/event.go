package domain

import (
	"strings"
	"time"
)

type EventStatus string

const (
	StatusDraft     EventStatus = "draft"
	StatusUpcoming  EventStatus = "upcoming"
	StatusOngoing   EventStatus = "ongoing"
	StatusCompleted EventStatus = "completed"
	StatusEnded     EventStatus = "ended"
)

var EventStatuses = []EventStatus{StatusDraft, StatusUpcoming, StatusOngoing, StatusCompleted, StatusEnded}

type Modules struct {
	Judging      bool `json:"judging"`
	Certificates bool `json:"certificates"`
	Gallery      bool `json:"gallery"`
	Teams        bool `json:"teams"`
}

// DefaultModules is what a new event gets when the creator sends no modules.
func DefaultModules() Modules {
	return Modules{Judging: true, Certificates: true, Gallery: true, Teams: true}
}

// ModulesPatch carries optional module toggles; nil fields are left untouched on merge.
type ModulesPatch struct {
	Judging      *bool `json:"judging,omitempty"`
	Certificates *bool `json:"certificates,omitempty"`
	Gallery      *bool `json:"gallery,omitempty"`
	Teams        *bool `json:"teams,omitempty"`
}

func (m Modules) Merge(p ModulesPatch) Modules {
	if p.Judging != nil {
		m.Judging = *p.Judging
	}
	if p.Certificates != nil {
		m.Certificates = *p.Certificates
	}
	if p.Gallery != nil {
		m.Gallery = *p.Gallery
	}
	if p.Teams != nil {
		m.Teams = *p.Teams
	}

	return m
}

type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

const (
	DefaultElementFontSize = 24.0
	DefaultElementColor    = "#000000"
)

// Element is one positioned text unit of a certificate template.
type Element struct {
	Content  string  `json:"content"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	FontSize float64 `json:"fontSize,omitempty"`
	Color    string  `json:"color,omitempty"`
	Align    Align   `json:"align,omitempty"`
}

// WithDefaults fills the optional styling fields.
func (e Element) WithDefaults() Element {
	if e.FontSize <= 0 {
		e.FontSize = DefaultElementFontSize
	}
	if e.Color == "" {
		e.Color = DefaultElementColor
	}
	if e.Align == "" {
		e.Align = AlignLeft
	}

	return e
}

type CertificateTemplate struct {
	BackgroundURL string    `json:"backgroundUrl,omitempty"`
	Elements      []Element `json:"elements"`
}

// HasRemoteBackground reports whether the background must be fetched over HTTP.
func (t CertificateTemplate) HasRemoteBackground() bool {
	return strings.HasPrefix(t.BackgroundURL, "http://") || strings.HasPrefix(t.BackgroundURL, "https://")
}

type Event struct {
	ID                   uint                 `json:"id"`
	Title                string               `json:"title"`
	Description          string               `json:"description"`
	StartDate            time.Time            `json:"startDate"`
	EndDate              time.Time            `json:"endDate"`
	RegistrationDeadline *time.Time           `json:"registrationDeadline"`
	Rules                []string             `json:"rules"`
	Tracks               []string             `json:"tracks"`
	Status               EventStatus          `json:"status"`
	OrganizerID          uint                 `json:"organizerId"`
	Organizer            *User                `json:"organizer,omitempty"`
	Modules              Modules              `json:"modules"`
	CertificateTemplate  *CertificateTemplate `json:"certificateTemplate,omitempty"`
	CreatedAt            time.Time            `json:"createdAt"`
	UpdatedAt            time.Time            `json:"updatedAt"`
}

// EventPatch is a partial update. Only non-nil fields are applied.
type EventPatch struct {
	Title       *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	// SetRegistrationDeadline distinguishes an explicit null from an absent field.
	SetRegistrationDeadline bool
	RegistrationDeadline    *time.Time
	Rules                   []string
	Tracks                  []string
	Status                  *EventStatus
	Modules                 *ModulesPatch
	CertificateTemplate     *CertificateTemplate
}

// Apply writes the present fields of p onto e.
func (p EventPatch) Apply(e Event) Event {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.StartDate != nil {
		e.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		e.EndDate = *p.EndDate
	}
	if p.SetRegistrationDeadline {
		e.RegistrationDeadline = p.RegistrationDeadline
	}
	if p.Rules != nil {
		e.Rules = p.Rules
	}
	if p.Tracks != nil {
		e.Tracks = p.Tracks
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
	if p.Modules != nil {
		e.Modules = e.Modules.Merge(*p.Modules)
	}
	if p.CertificateTemplate != nil {
		e.CertificateTemplate = p.CertificateTemplate
	}

	return e
}

// CompletesEvent reports whether moving from old to the event's current status
// should issue certificates.
func CompletesEvent(old EventStatus, updated Event) bool {
	return old != StatusCompleted && updated.Status == StatusCompleted && updated.Modules.Certificates
}
