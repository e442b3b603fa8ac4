package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrCertificateNotFound = errors.New("certificate not found")
	ErrCertificateExists   = errors.New("certificate already exists")
)

type Certificate struct {
	ID             uint   `gorm:"primaryKey"`
	EventID        uint   `gorm:"not null;index"`
	Event          *Event `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
	RecipientName  string `gorm:"not null"`
	RecipientEmail string `gorm:"index"`
	Role           string
	CertificateURL string
	CertificateID  *string `gorm:"uniqueIndex"`
	CreatedAt      time.Time
}

type CertificateDAO struct {
	db *gorm.DB
}

func NewCertificateDAO(db *gorm.DB) *CertificateDAO {
	return &CertificateDAO{
		db: db,
	}
}

func (d *CertificateDAO) Insert(ctx context.Context, cert Certificate) (Certificate, error) {
	result := d.db.WithContext(ctx).Omit("Event").Create(&cert)
	if result.Error != nil {
		if isUniqueViolation(result.Error, "") {
			return Certificate{}, ErrCertificateExists
		}

		return Certificate{}, result.Error
	}

	return cert, nil
}

// InsertBatch inserts certs in one statement, skipping rows that collide with an
// existing unique key. It returns how many rows were written.
func (d *CertificateDAO) InsertBatch(ctx context.Context, certs []Certificate) (int64, error) {
	if len(certs) == 0 {
		return 0, nil
	}

	result := d.db.WithContext(ctx).
		Omit("Event").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&certs)
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

func (d *CertificateDAO) FindByEventID(ctx context.Context, eventID uint) ([]Certificate, error) {
	var certs []Certificate

	result := d.db.WithContext(ctx).Where("event_id = ?", eventID).Order("created_at DESC").Find(&certs)
	if result.Error != nil {
		return nil, result.Error
	}

	return certs, nil
}

func (d *CertificateDAO) FindByRecipientEmail(ctx context.Context, email string) ([]Certificate, error) {
	var certs []Certificate

	result := d.db.WithContext(ctx).Where("recipient_email = ?", email).Order("created_at DESC").Find(&certs)
	if result.Error != nil {
		return nil, result.Error
	}

	return certs, nil
}

func (d *CertificateDAO) FindByCertificateID(ctx context.Context, certificateID string) (Certificate, error) {
	var cert Certificate

	result := d.db.WithContext(ctx).Where("certificate_id = ?", certificateID).First(&cert)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Certificate{}, ErrCertificateNotFound
		}

		return Certificate{}, result.Error
	}

	return cert, nil
}

// URLs returns every stored artifact URL.
func (d *CertificateDAO) URLs(ctx context.Context) ([]string, error) {
	var urls []string

	result := d.db.WithContext(ctx).Model(&Certificate{}).Pluck("certificate_url", &urls)
	if result.Error != nil {
		return nil, result.Error
	}

	return urls, nil
}

func (d *CertificateDAO) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := d.db.WithContext(ctx).Model(&Certificate{}).Count(&n).Error; err != nil {
		return 0, err
	}

	return n, nil
}
