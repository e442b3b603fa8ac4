package dao

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrEventNotFound = errors.New("event not found")

type EventModules struct {
	Judging      bool `json:"judging"`
	Certificates bool `json:"certificates"`
	Gallery      bool `json:"gallery"`
	Teams        bool `json:"teams"`
}

type Event struct {
	ID                   uint      `gorm:"primaryKey"`
	Title                string    `gorm:"not null"`
	Description          string    `gorm:"not null"`
	StartDate            time.Time `gorm:"not null"`
	EndDate              time.Time `gorm:"not null"`
	RegistrationDeadline *time.Time
	Rules                pq.StringArray `gorm:"type:text[]"`
	Tracks               pq.StringArray `gorm:"type:text[]"`
	Status               string         `gorm:"not null;default:draft;index"`
	OrganizerID          uint           `gorm:"index"`
	Organizer            *User          `gorm:"foreignKey:OrganizerID"`
	Modules              datatypes.JSONType[EventModules]
	CertificateTemplate  datatypes.JSON // nil when the event has no template
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	result := d.db.WithContext(ctx).Omit("Organizer").Create(&event)
	if result.Error != nil {
		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindByID(ctx context.Context, id uint) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).Preload("Organizer").First(&event, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

// FindAll returns events newest first. An empty statuses slice matches every event.
func (d *EventDAO) FindAll(ctx context.Context, statuses []string) ([]Event, error) {
	var events []Event

	query := d.db.WithContext(ctx).Preload("Organizer")
	switch len(statuses) {
	case 0:
	case 1:
		query = query.Where("status = ?", statuses[0])
	default:
		query = query.Where("status IN ?", statuses)
	}

	result := query.Order("created_at DESC").Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (d *EventDAO) FindByOrganizerID(ctx context.Context, organizerID uint) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).Where("organizer_id = ?", organizerID).Order("created_at DESC").Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (d *EventDAO) Update(ctx context.Context, event Event) (Event, error) {
	result := d.db.WithContext(ctx).Omit("Organizer").Save(&event)
	if result.Error != nil {
		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Event{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}

func (d *EventDAO) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := d.db.WithContext(ctx).Model(&Event{}).Count(&n).Error; err != nil {
		return 0, err
	}

	return n, nil
}
