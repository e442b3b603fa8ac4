package repository

import (
	"context"
	"fmt"

	"github.com/eventforge/hackathon-api/internal/domain"
	"github.com/eventforge/hackathon-api/internal/repository/dao"
)

var (
	ErrCertificateNotFound = dao.ErrCertificateNotFound
	ErrCertificateExists   = dao.ErrCertificateExists
)

type CertificateDAO interface {
	Insert(ctx context.Context, cert dao.Certificate) (dao.Certificate, error)
	InsertBatch(ctx context.Context, certs []dao.Certificate) (int64, error)
	FindByEventID(ctx context.Context, eventID uint) ([]dao.Certificate, error)
	FindByRecipientEmail(ctx context.Context, email string) ([]dao.Certificate, error)
	FindByCertificateID(ctx context.Context, certificateID string) (dao.Certificate, error)
	URLs(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
}

type CertificateRepository struct {
	dao CertificateDAO
}

func NewCertificateRepository(dao CertificateDAO) *CertificateRepository {
	return &CertificateRepository{
		dao: dao,
	}
}

func (r *CertificateRepository) Create(ctx context.Context, cert domain.Certificate) (domain.Certificate, error) {
	created, err := r.dao.Insert(ctx, certificateDomainToDao(cert))
	if err != nil {
		return domain.Certificate{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return certificateDaoToDomain(created), nil
}

// CreateBatch writes certs in one statement and reports how many were stored.
// Rows whose certificate id already exists are skipped.
func (r *CertificateRepository) CreateBatch(ctx context.Context, certs []domain.Certificate) (int, error) {
	rows := make([]dao.Certificate, 0, len(certs))
	for _, c := range certs {
		rows = append(rows, certificateDomainToDao(c))
	}

	n, err := r.dao.InsertBatch(ctx, rows)
	if err != nil {
		return 0, fmt.Errorf("r.dao.InsertBatch -> %w", err)
	}

	return int(n), nil
}

func (r *CertificateRepository) FindByEventID(ctx context.Context, eventID uint) ([]domain.Certificate, error) {
	found, err := r.dao.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByEventID -> %w", err)
	}

	return certificatesDaoToDomain(found), nil
}

func (r *CertificateRepository) FindByRecipientEmail(ctx context.Context, email string) ([]domain.Certificate, error) {
	found, err := r.dao.FindByRecipientEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByRecipientEmail -> %w", err)
	}

	return certificatesDaoToDomain(found), nil
}

func (r *CertificateRepository) FindByCertificateID(ctx context.Context, certificateID string) (domain.Certificate, error) {
	found, err := r.dao.FindByCertificateID(ctx, certificateID)
	if err != nil {
		return domain.Certificate{}, fmt.Errorf("r.dao.FindByCertificateID -> %w", err)
	}

	return certificateDaoToDomain(found), nil
}

func (r *CertificateRepository) URLs(ctx context.Context) ([]string, error) {
	urls, err := r.dao.URLs(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.URLs -> %w", err)
	}

	return urls, nil
}

func (r *CertificateRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.dao.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("r.dao.Count -> %w", err)
	}

	return n, nil
}

func certificateDomainToDao(c domain.Certificate) dao.Certificate {
	return dao.Certificate{
		ID:             c.ID,
		EventID:        c.EventID,
		RecipientName:  c.RecipientName,
		RecipientEmail: c.RecipientEmail,
		Role:           c.Role,
		CertificateURL: c.CertificateURL,
		CertificateID:  c.CertificateID,
		CreatedAt:      c.CreatedAt,
	}
}

func certificateDaoToDomain(c dao.Certificate) domain.Certificate {
	return domain.Certificate{
		ID:             c.ID,
		EventID:        c.EventID,
		RecipientName:  c.RecipientName,
		RecipientEmail: c.RecipientEmail,
		Role:           c.Role,
		CertificateURL: c.CertificateURL,
		CertificateID:  c.CertificateID,
		CreatedAt:      c.CreatedAt,
	}
}

func certificatesDaoToDomain(certs []dao.Certificate) []domain.Certificate {
	out := make([]domain.Certificate, 0, len(certs))
	for _, c := range certs {
		out = append(out, certificateDaoToDomain(c))
	}

	return out
}
