package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventforge/hackathon-api/internal/api/middleware"
	"github.com/eventforge/hackathon-api/internal/config"
	"github.com/eventforge/hackathon-api/internal/domain"
	"github.com/eventforge/hackathon-api/internal/pkg/jwthelper"
	"github.com/eventforge/hackathon-api/internal/service"
)

const testSigningKey = "test-signing-key"

func init() {
	gin.SetMode(gin.TestMode)
}

func tokenFor(t *testing.T, userID uint, role domain.Role) string {
	t.Helper()
	token, err := jwthelper.GenerateToken([]byte(testSigningKey), userID, string(role), "", time.Hour)
	require.NoError(t, err)
	return token
}

func doRequest(r http.Handler, method, target, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

type stubEvents struct {
	statuses []domain.EventStatus
	actor    domain.Actor
	patch    domain.EventPatch
	err      error
	authErr  error
}

func (s *stubEvents) Create(_ context.Context, actor domain.Actor, in service.CreateEventInput) (domain.Event, error) {
	s.actor = actor
	if s.err != nil {
		return domain.Event{}, s.err
	}
	e := in.Event
	e.ID = 1
	e.OrganizerID = actor.UserID
	return e, nil
}

func (s *stubEvents) Get(_ context.Context, id uint) (domain.Event, error) {
	if s.err != nil {
		return domain.Event{}, s.err
	}
	return domain.Event{ID: id, Title: "Spring Hack"}, nil
}

func (s *stubEvents) Authorize(_ context.Context, actor domain.Actor, _ uint) error {
	s.actor = actor
	return s.authErr
}

func (s *stubEvents) List(_ context.Context, statuses []domain.EventStatus) ([]domain.Event, error) {
	s.statuses = statuses
	return nil, s.err
}

func (s *stubEvents) ApplyUpdate(_ context.Context, actor domain.Actor, id uint, patch domain.EventPatch) (domain.Event, error) {
	s.actor, s.patch = actor, patch
	if s.err != nil {
		return domain.Event{}, s.err
	}
	return domain.Event{ID: id, Status: domain.StatusCompleted}, nil
}

func (s *stubEvents) Delete(_ context.Context, _ domain.Actor, _ uint) error {
	return s.err
}

func eventRouter(svc EventService) *gin.Engine {
	h := NewEventHandler(svc)
	auth := middleware.NewAuthenticator(testSigningKey)

	r := gin.New()
	r.GET("/events", h.HandleListEvents)
	r.GET("/events/:eventID", h.HandleGetEvent)
	authed := r.Group("", auth.VerifyJWT())
	authed.POST("/events", h.HandleCreateEvent)
	authed.PUT("/events/:eventID", h.HandleUpdateEvent)
	authed.DELETE("/events/:eventID", h.HandleDeleteEvent)
	return r
}

func TestHandleListEvents(t *testing.T) {
	svc := &stubEvents{}
	w := doRequest(eventRouter(svc), http.MethodGet, "/events?status=ongoing,%20completed,", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []domain.EventStatus{domain.StatusOngoing, domain.StatusCompleted}, svc.statuses)
	assert.JSONEq(t, `{"events":[]}`, w.Body.String())
}

func TestHandleListEvents_InvalidStatus(t *testing.T) {
	svc := &stubEvents{err: service.NewValidationError("status", `unknown status "archived"`)}
	w := doRequest(eventRouter(svc), http.MethodGet, "/events?status=archived", "", nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Contains(t, body["details"], "status")
}

func TestHandleCreateEvent(t *testing.T) {
	svc := &stubEvents{}
	r := eventRouter(svc)
	payload := map[string]any{
		"title":       "Spring Hack",
		"description": "48h",
		"startDate":   "2026-03-01T09:00:00Z",
		"endDate":     "2026-03-03T09:00:00Z",
	}

	w := doRequest(r, http.MethodPost, "/events", "", payload)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(r, http.MethodPost, "/events", tokenFor(t, 10, domain.RoleOrganizer), payload)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, domain.Actor{UserID: 10, Role: domain.RoleOrganizer}, svc.actor)
	event := decodeBody(t, w)["event"].(map[string]any)
	assert.Equal(t, "Spring Hack", event["title"])
	assert.EqualValues(t, 10, event["organizerId"])

	w = doRequest(r, http.MethodPost, "/events", tokenFor(t, 10, domain.RoleOrganizer), map[string]any{"title": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleCreateEvent_Forbidden(t *testing.T) {
	svc := &stubEvents{err: service.ErrForbidden}
	w := doRequest(eventRouter(svc), http.MethodPost, "/events", tokenFor(t, 3, domain.RoleParticipant), map[string]any{
		"title":       "Spring Hack",
		"description": "48h",
		"startDate":   "2026-03-01T09:00:00Z",
		"endDate":     "2026-03-03T09:00:00Z",
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "forbidden", decodeBody(t, w)["error"])
}

func TestHandleUpdateEvent(t *testing.T) {
	svc := &stubEvents{}
	w := doRequest(eventRouter(svc), http.MethodPut, "/events/7", tokenFor(t, 10, domain.RoleOrganizer),
		map[string]any{"status": "completed", "registrationDeadline": nil})

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.patch.Status)
	assert.Equal(t, domain.StatusCompleted, *svc.patch.Status)
	assert.True(t, svc.patch.SetRegistrationDeadline)
}

func TestHandleUpdateEvent_Errors(t *testing.T) {
	token := tokenFor(t, 10, domain.RoleOrganizer)

	w := doRequest(eventRouter(&stubEvents{err: service.ErrEventNotFound}), http.MethodPut, "/events/7", token,
		map[string]any{"title": "New"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(eventRouter(&stubEvents{}), http.MethodPut, "/events/abc", token, map[string]any{"title": "New"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(eventRouter(&stubEvents{}), http.MethodPut, "/events/7", token, map[string]any{"status": "archived"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(eventRouter(&stubEvents{err: assert.AnError}), http.MethodPut, "/events/7", token, map[string]any{"title": "New"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", decodeBody(t, w)["error"])
}

func TestHandleUpdateEvent_OwnershipBeforeBody(t *testing.T) {
	token := tokenFor(t, 11, domain.RoleOrganizer)
	malformed := map[string]any{"status": "archived"}

	svc := &stubEvents{authErr: service.ErrForbidden}
	w := doRequest(eventRouter(svc), http.MethodPut, "/events/7", token, malformed)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Nil(t, svc.patch.Status)

	w = doRequest(eventRouter(&stubEvents{authErr: service.ErrEventNotFound}), http.MethodPut, "/events/7", token, malformed)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleDeleteEvent(t *testing.T) {
	token := tokenFor(t, 1, domain.RoleAdmin)

	w := doRequest(eventRouter(&stubEvents{}), http.MethodDelete, "/events/7", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	w = doRequest(eventRouter(&stubEvents{err: service.ErrEventNotFound}), http.MethodDelete, "/events/7", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

type stubCertificates struct {
	in    service.GenerateInput
	certs []domain.Certificate
	doc   []byte
	err   error
}

func (s *stubCertificates) Generate(_ context.Context, _ domain.Actor, in service.GenerateInput) (domain.Certificate, error) {
	s.in = in
	if s.err != nil {
		return domain.Certificate{}, s.err
	}
	id := "CERT-1-ABC"
	return domain.Certificate{ID: 1, EventID: in.EventID, RecipientName: in.RecipientName, CertificateID: &id,
		CertificateURL: "/certificates/a.pdf"}, nil
}

func (s *stubCertificates) ListForEvent(_ context.Context, _ domain.Actor, _ uint) ([]domain.Certificate, error) {
	return s.certs, s.err
}

func (s *stubCertificates) Verify(_ context.Context, certificateID string) (domain.Certificate, error) {
	if s.err != nil {
		return domain.Certificate{}, s.err
	}
	return domain.Certificate{ID: 1, CertificateID: &certificateID}, nil
}

func (s *stubCertificates) Document(_ context.Context, certificateID string) (domain.Certificate, []byte, error) {
	if s.err != nil {
		return domain.Certificate{}, nil, s.err
	}
	return domain.Certificate{CertificateID: &certificateID, CertificateURL: "/certificates/Ada_1.pdf"}, s.doc, nil
}

func certificateRouter(svc CertificateService) *gin.Engine {
	h := NewCertificateHandler(svc)
	auth := middleware.NewAuthenticator(testSigningKey)

	r := gin.New()
	r.GET("/certificates/verify/:certificateID", h.HandleVerifyCertificate)
	r.GET("/certificates/verify/:certificateID/document", h.HandleDownloadCertificate)
	authed := r.Group("", auth.VerifyJWT())
	authed.POST("/certificates", h.HandleCreateCertificate)
	authed.GET("/events/:eventID/certificates", h.HandleListEventCertificates)
	authed.GET("/events/:eventID/certificates/export", h.HandleExportEventCertificates)
	return r
}

func TestHandleCreateCertificate(t *testing.T) {
	svc := &stubCertificates{}
	w := doRequest(certificateRouter(svc), http.MethodPost, "/certificates", tokenFor(t, 10, domain.RoleOrganizer),
		map[string]any{"eventId": 7, "recipientName": "Ada", "recipientEmail": "ada@example.com"})

	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	cert := body["certificate"].(map[string]any)
	assert.Equal(t, "/certificates/a.pdf", cert["certificateUrl"])
	assert.Equal(t, uint(7), svc.in.EventID)
}

func TestHandleCreateCertificate_Errors(t *testing.T) {
	token := tokenFor(t, 10, domain.RoleOrganizer)

	w := doRequest(certificateRouter(&stubCertificates{
		err: &service.ValidationError{Fields: map[string]string{"recipientName": "is required"}},
	}), http.MethodPost, "/certificates", token, map[string]any{"eventId": 7})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, map[string]any{"recipientName": "is required"}, decodeBody(t, w)["details"])

	w = doRequest(certificateRouter(&stubCertificates{err: service.ErrEventNotFound}), http.MethodPost, "/certificates", token,
		map[string]any{"eventId": 7, "recipientName": "Ada"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(certificateRouter(&stubCertificates{err: service.ErrForbidden}), http.MethodPost, "/certificates", token,
		map[string]any{"eventId": 7, "recipientName": "Ada"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(certificateRouter(&stubCertificates{err: service.ErrCertificatesOff}), http.MethodPost, "/certificates", token,
		map[string]any{"eventId": 7, "recipientName": "Ada"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(certificateRouter(&stubCertificates{}), http.MethodPost, "/certificates", token,
		map[string]any{"eventId": 7, "recipientName": "Ada", "recipientEmail": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleExportEventCertificates(t *testing.T) {
	id := "CERT-7-1-1"
	svc := &stubCertificates{certs: []domain.Certificate{
		{ID: 1, EventID: 7, RecipientName: "Ada", Role: "participant", CertificateURL: "/certificates/a.pdf", CertificateID: &id},
	}}
	w := doRequest(certificateRouter(svc), http.MethodGet, "/events/7/certificates/export", tokenFor(t, 1, domain.RoleAdmin), nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "event-7-certificates.csv")

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "id,event_id,recipient_name"))
	assert.Contains(t, lines[1], "CERT-7-1-1")
}

func TestHandleListEventCertificates_Empty(t *testing.T) {
	w := doRequest(certificateRouter(&stubCertificates{}), http.MethodGet, "/events/7/certificates", tokenFor(t, 1, domain.RoleAdmin), nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"certificates":[]}`, w.Body.String())
}

func TestHandleVerifyCertificate(t *testing.T) {
	w := doRequest(certificateRouter(&stubCertificates{}), http.MethodGet, "/certificates/verify/CERT-1-ABC", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(certificateRouter(&stubCertificates{err: service.ErrCertificateNotFound}), http.MethodGet,
		"/certificates/verify/CERT-1-ABC", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleDownloadCertificate(t *testing.T) {
	svc := &stubCertificates{doc: []byte("%PDF-1.3\n...")}
	w := doRequest(certificateRouter(svc), http.MethodGet, "/certificates/verify/CERT-1-ABC/document", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Ada_1.pdf")

	w = doRequest(certificateRouter(&stubCertificates{err: service.ErrDocumentMissing}), http.MethodGet,
		"/certificates/verify/CERT-1-ABC/document", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

type stubAuth struct {
	user domain.User
	err  error
}

func (s *stubAuth) Signup(_ context.Context, user domain.User) (domain.User, error) {
	if s.err != nil {
		return domain.User{}, s.err
	}
	user.ID = 5
	user.Role = user.Role.OrDefault()
	return user, nil
}

func (s *stubAuth) Login(_ context.Context, _, _ string) (domain.User, error) {
	return s.user, s.err
}

func authRouter(svc AuthService) *gin.Engine {
	h := NewAuthHandler(&config.APIConfig{JWTSigningKey: testSigningKey, JWTTTL: time.Hour}, svc)
	r := gin.New()
	r.POST("/auth/signup", h.HandleSignup)
	r.POST("/auth/login", h.HandleLogin)
	return r
}

func TestHandleSignup(t *testing.T) {
	w := doRequest(authRouter(&stubAuth{}), http.MethodPost, "/auth/signup", "", map[string]any{
		"email":            "ada@example.com",
		"password":         "password1",
		"confirm_password": "password1",
		"name":             "Ada",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	claims, err := jwthelper.ParseToken([]byte(testSigningKey), body["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, "participant", claims.Role)
	_, hasPassword := body["user"].(map[string]any)["password"]
	assert.False(t, hasPassword)

	w = doRequest(authRouter(&stubAuth{err: service.ErrUserEmailExists}), http.MethodPost, "/auth/signup", "", map[string]any{
		"email":            "ada@example.com",
		"password":         "password1",
		"confirm_password": "password1",
		"name":             "Ada",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleLogin_WrongCredentials(t *testing.T) {
	w := doRequest(authRouter(&stubAuth{err: service.ErrWrongPassword}), http.MethodPost, "/auth/login", "",
		map[string]any{"email": "ada@example.com", "password": "nope"})

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "wrong email or password", decodeBody(t, w)["error"])
}
