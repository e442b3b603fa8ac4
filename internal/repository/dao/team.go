package dao

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

var ErrTeamNotFound = errors.New("team not found")

type Team struct {
	ID          uint   `gorm:"primaryKey"`
	EventID     uint   `gorm:"not null;index"`
	LeaderID    *uint  `gorm:"index"`
	Leader      *User  `gorm:"foreignKey:LeaderID"`
	Members     []User `gorm:"many2many:team_members;"`
	Name        string `gorm:"not null"`
	Description string
	Tags        pq.StringArray `gorm:"type:text[]"`
	MaxMembers  int            `gorm:"not null;default:4"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type TeamDAO struct {
	db *gorm.DB
}

func NewTeamDAO(db *gorm.DB) *TeamDAO {
	return &TeamDAO{
		db: db,
	}
}

func (d *TeamDAO) Insert(ctx context.Context, team Team) (Team, error) {
	result := d.db.WithContext(ctx).Omit("Leader", "Members").Create(&team)
	if result.Error != nil {
		return Team{}, result.Error
	}

	return team, nil
}

func (d *TeamDAO) FindByID(ctx context.Context, id uint) (Team, error) {
	var team Team

	result := d.db.WithContext(ctx).Preload("Leader").Preload("Members").First(&team, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Team{}, ErrTeamNotFound
		}

		return Team{}, result.Error
	}

	return team, nil
}

// FindByEventID loads every team of an event with leader and members resolved.
func (d *TeamDAO) FindByEventID(ctx context.Context, eventID uint) ([]Team, error) {
	var teams []Team

	result := d.db.WithContext(ctx).
		Preload("Leader").
		Preload("Members").
		Where("event_id = ?", eventID).
		Order("id").
		Find(&teams)
	if result.Error != nil {
		return nil, result.Error
	}

	return teams, nil
}

// FindByUserID returns the teams a user leads or belongs to.
func (d *TeamDAO) FindByUserID(ctx context.Context, userID uint) ([]Team, error) {
	var teams []Team

	memberOf := d.db.Table("team_members").Select("team_id").Where("user_id = ?", userID)
	result := d.db.WithContext(ctx).
		Preload("Leader").
		Preload("Members").
		Where("leader_id = ?", userID).
		Or("id IN (?)", memberOf).
		Order("id").
		Find(&teams)
	if result.Error != nil {
		return nil, result.Error
	}

	return teams, nil
}

// FindByEventStatus returns teams of events in the given status.
func (d *TeamDAO) FindByEventStatus(ctx context.Context, status string) ([]Team, error) {
	var teams []Team

	events := d.db.Model(&Event{}).Select("id").Where("status = ?", status)
	result := d.db.WithContext(ctx).
		Preload("Leader").
		Preload("Members").
		Where("event_id IN (?)", events).
		Order("id").
		Find(&teams)
	if result.Error != nil {
		return nil, result.Error
	}

	return teams, nil
}

func (d *TeamDAO) AddMember(ctx context.Context, teamID, userID uint) error {
	team := Team{ID: teamID}

	return d.db.WithContext(ctx).Model(&team).Association("Members").Append(&User{ID: userID})
}
