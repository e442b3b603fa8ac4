package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eventforge/hackathon-api/internal/domain"
	"github.com/eventforge/hackathon-api/internal/pkg/artifact"
	"github.com/eventforge/hackathon-api/internal/pkg/certrender"
	"github.com/eventforge/hackathon-api/internal/repository"
)

const certificateDateLayout = "1/2/2006"

type CertificateRepository interface {
	Create(ctx context.Context, cert domain.Certificate) (domain.Certificate, error)
	CreateBatch(ctx context.Context, certs []domain.Certificate) (int, error)
	FindByEventID(ctx context.Context, eventID uint) ([]domain.Certificate, error)
	FindByRecipientEmail(ctx context.Context, email string) ([]domain.Certificate, error)
	FindByCertificateID(ctx context.Context, certificateID string) (domain.Certificate, error)
}

type EventFinder interface {
	FindByID(ctx context.Context, id uint) (domain.Event, error)
}

type TeamFinder interface {
	FindByEventID(ctx context.Context, eventID uint) ([]domain.Team, error)
}

type CertificateRenderer interface {
	Render(ctx context.Context, tmpl *domain.CertificateTemplate, vars certrender.Variables) ([]byte, error)
	Extension() string
}

type ArtifactStore interface {
	Save(name string, data []byte) (string, error)
	Read(url string) ([]byte, error)
	Remove(url string) error
}

type CertificateService struct {
	repo     CertificateRepository
	events   EventFinder
	teams    TeamFinder
	renderer CertificateRenderer
	store    ArtifactStore
	now      func() time.Time
}

func NewCertificateService(
	repo CertificateRepository,
	events EventFinder,
	teams TeamFinder,
	renderer CertificateRenderer,
	store ArtifactStore,
) *CertificateService {
	return &CertificateService{
		repo:     repo,
		events:   events,
		teams:    teams,
		renderer: renderer,
		store:    store,
		now:      time.Now,
	}
}

type GenerateInput struct {
	EventID        uint
	RecipientName  string
	RecipientEmail string
	Role           string
}

// Generate issues one certificate. The artifact is fully written before the record
// is stored, so every stored certificate points at a complete document.
func (s *CertificateService) Generate(ctx context.Context, actor domain.Actor, in GenerateInput) (domain.Certificate, error) {
	if !actor.Role.CanManageEvents() {
		return domain.Certificate{}, ErrForbidden
	}

	in.RecipientName = strings.TrimSpace(in.RecipientName)
	verr := &ValidationError{Fields: map[string]string{}}
	if in.EventID == 0 {
		verr.Fields["eventId"] = "is required"
	}
	if in.RecipientName == "" {
		verr.Fields["recipientName"] = "is required"
	}
	if len(verr.Fields) > 0 {
		return domain.Certificate{}, verr
	}
	if in.Role == "" {
		in.Role = domain.DefaultCertificateRole
	}

	event, err := s.events.FindByID(ctx, in.EventID)
	if err != nil {
		return domain.Certificate{}, fmt.Errorf("s.events.FindByID -> %w", err)
	}
	if !actor.IsAdmin() && !actor.Owns(event) {
		return domain.Certificate{}, ErrForbidden
	}
	if !event.Modules.Certificates {
		return domain.Certificate{}, ErrCertificatesOff
	}

	url, err := s.renderAndStore(ctx, event, domain.Recipient{
		Name:  in.RecipientName,
		Email: in.RecipientEmail,
		Role:  in.Role,
	})
	if err != nil {
		return domain.Certificate{}, err
	}

	certID := fmt.Sprintf("CERT-%d-%s", event.ID, strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12]))
	created, err := s.repo.Create(ctx, domain.Certificate{
		EventID:        event.ID,
		RecipientName:  in.RecipientName,
		RecipientEmail: in.RecipientEmail,
		Role:           in.Role,
		CertificateURL: url,
		CertificateID:  &certID,
	})
	if err != nil {
		if rmErr := s.store.Remove(url); rmErr != nil {
			zap.L().Warn("failed to remove artifact of unsaved certificate", zap.String("url", url), zap.Error(rmErr))
		}
		return domain.Certificate{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// GenerateForEvent issues one certificate per leader and member of the event's teams.
// A recipient whose document fails to render is logged and skipped; certificate ids that
// already exist are skipped by the batch insert without affecting the other rows.
func (s *CertificateService) GenerateForEvent(ctx context.Context, event domain.Event) (domain.BulkResult, error) {
	result := domain.BulkResult{EventID: event.ID}

	teams, err := s.teams.FindByEventID(ctx, event.ID)
	if err != nil {
		return result, fmt.Errorf("s.teams.FindByEventID -> %w", err)
	}

	recipients := domain.Recipients(teams)
	result.Recipients = len(recipients)

	issuedAt := s.now()
	certs := make([]domain.Certificate, 0, len(recipients))
	for _, r := range recipients {
		url, err := s.renderAndStore(ctx, event, r)
		if err != nil {
			result.Failed++
			zap.L().Error("failed to generate certificate",
				zap.Uint("eventID", event.ID), zap.Uint("userID", r.UserID), zap.Error(err))
			continue
		}

		certID := domain.NewCertificateID(event.ID, r.UserID, issuedAt)
		certs = append(certs, domain.Certificate{
			EventID:        event.ID,
			RecipientName:  r.Name,
			RecipientEmail: r.Email,
			Role:           r.Role,
			CertificateURL: url,
			CertificateID:  &certID,
		})
	}
	result.Rendered = len(certs)

	inserted, err := s.repo.CreateBatch(ctx, certs)
	if err != nil {
		for _, c := range certs {
			_ = s.store.Remove(c.CertificateURL)
		}
		result.Failed += len(certs)
		result.FinishedAt = s.now()
		return result, fmt.Errorf("s.repo.CreateBatch -> %w", err)
	}

	result.Inserted = inserted
	result.Skipped = len(certs) - inserted
	result.FinishedAt = s.now()
	if result.Skipped > 0 {
		zap.L().Warn("some certificates already existed",
			zap.Uint("eventID", event.ID), zap.Int("skipped", result.Skipped))
	}

	return result, nil
}

func (s *CertificateService) renderAndStore(ctx context.Context, event domain.Event, r domain.Recipient) (string, error) {
	now := s.now()
	data, err := s.renderer.Render(ctx, event.CertificateTemplate, certrender.Variables{
		RecipientName: r.Name,
		EventTitle:    event.Title,
		Role:          r.Role,
		Date:          now.Format(certificateDateLayout),
	})
	if err != nil {
		return "", &GenerationError{Recipient: r.Name, Err: fmt.Errorf("s.renderer.Render -> %w", err)}
	}

	url, err := s.store.Save(artifact.FileName(r.Name, now, s.renderer.Extension()), data)
	if err != nil {
		return "", &GenerationError{Recipient: r.Name, Err: fmt.Errorf("s.store.Save -> %w", err)}
	}

	return url, nil
}

// ListForEvent returns the certificates of an event to its organizer or an admin.
func (s *CertificateService) ListForEvent(ctx context.Context, actor domain.Actor, eventID uint) ([]domain.Certificate, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.events.FindByID -> %w", err)
	}
	if !actor.IsAdmin() && !actor.Owns(event) {
		return nil, ErrForbidden
	}

	certs, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByEventID -> %w", err)
	}

	return certs, nil
}

func (s *CertificateService) Verify(ctx context.Context, certificateID string) (domain.Certificate, error) {
	cert, err := s.repo.FindByCertificateID(ctx, certificateID)
	if err != nil {
		if errors.Is(err, repository.ErrCertificateNotFound) {
			return domain.Certificate{}, ErrCertificateNotFound
		}
		return domain.Certificate{}, fmt.Errorf("s.repo.FindByCertificateID -> %w", err)
	}

	return cert, nil
}

// Document returns a verified certificate together with its stored document.
func (s *CertificateService) Document(ctx context.Context, certificateID string) (domain.Certificate, []byte, error) {
	cert, err := s.Verify(ctx, certificateID)
	if err != nil {
		return domain.Certificate{}, nil, err
	}

	data, err := s.store.Read(cert.CertificateURL)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Certificate{}, nil, ErrDocumentMissing
		}
		return domain.Certificate{}, nil, fmt.Errorf("s.store.Read -> %w", err)
	}

	return cert, data, nil
}
