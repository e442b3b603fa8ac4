package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
	"github.com/gocarina/gocsv"

	"github.com/eventforge/hackathon-api/internal/api/handler/v1/request"
	"github.com/eventforge/hackathon-api/internal/api/handler/v1/response"
	"github.com/eventforge/hackathon-api/internal/domain"
	"github.com/eventforge/hackathon-api/internal/service"
)

type CertificateService interface {
	Generate(ctx context.Context, actor domain.Actor, in service.GenerateInput) (domain.Certificate, error)
	ListForEvent(ctx context.Context, actor domain.Actor, eventID uint) ([]domain.Certificate, error)
	Verify(ctx context.Context, certificateID string) (domain.Certificate, error)
	Document(ctx context.Context, certificateID string) (domain.Certificate, []byte, error)
}

type CertificateHandler struct {
	svc CertificateService
}

func NewCertificateHandler(svc CertificateService) *CertificateHandler {
	return &CertificateHandler{
		svc: svc,
	}
}

// HandleCreateCertificate godoc
// @Summary      Issue a certificate
// @Description  Renders a certificate from the event template (or the default layout) and stores it.
// @Tags         certificates
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateCertificateRequest  true  "recipient"
// @Success      201      {object}  response.CertificateResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /certificates [post]
// @Security BearerAuth
func (h *CertificateHandler) HandleCreateCertificate(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	var req request.CreateCertificateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	cert, err := h.svc.Generate(ctx.Request.Context(), actor, service.GenerateInput{
		EventID:        req.EventID,
		RecipientName:  req.RecipientName,
		RecipientEmail: req.RecipientEmail,
		Role:           req.Role,
	})
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "id", req.EventID))
			return
		}
		renderServiceErr(ctx, "v1.HandleCreateCertificate -> h.svc.Generate", err)
		return
	}

	ctx.JSON(http.StatusCreated, response.CertificateResponse{
		Success:     true,
		Certificate: cert,
	})
}

// HandleListEventCertificates godoc
// @Summary      List the certificates of an event
// @Tags         certificates
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {object}  response.CertificatesResponse
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/certificates [get]
// @Security BearerAuth
func (h *CertificateHandler) HandleListEventCertificates(ctx *gin.Context) {
	certs, ok := h.eventCertificates(ctx, "v1.HandleListEventCertificates")
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, response.CertificatesResponse{Certificates: certs})
}

// HandleExportEventCertificates godoc
// @Summary      Export the certificate roster of an event as CSV
// @Tags         certificates
// @Produce      text/csv
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {string}  string
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/certificates/export [get]
// @Security BearerAuth
func (h *CertificateHandler) HandleExportEventCertificates(ctx *gin.Context) {
	certs, ok := h.eventCertificates(ctx, "v1.HandleExportEventCertificates")
	if !ok {
		return
	}

	body, err := gocsv.MarshalBytes(&certs)
	if err != nil {
		err = fmt.Errorf("v1.HandleExportEventCertificates -> gocsv.MarshalBytes -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="event-%v-certificates.csv"`, ctx.Param("eventID")))
	ctx.Data(http.StatusOK, "text/csv; charset=utf-8", body)
}

func (h *CertificateHandler) eventCertificates(ctx *gin.Context, op string) ([]domain.Certificate, bool) {
	actor, ok := currentActor(ctx)
	if !ok {
		return nil, false
	}
	eventID, ok := parseIDParam(ctx, "eventID")
	if !ok {
		return nil, false
	}

	certs, err := h.svc.ListForEvent(ctx.Request.Context(), actor, eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "id", eventID))
			return nil, false
		}
		renderServiceErr(ctx, op+" -> h.svc.ListForEvent", err)
		return nil, false
	}
	if certs == nil {
		certs = []domain.Certificate{}
	}

	return certs, true
}

// HandleVerifyCertificate godoc
// @Summary      Verify a certificate
// @Description  Public lookup of an issued certificate by its identifier.
// @Tags         certificates
// @Produce      json
// @Param        certificateID  path      string  true  "Certificate ID"
// @Success      200            {object}  response.CertificateResponse
// @Failure      404            {object}  response.Err
// @Failure      500            {object}  response.Err
// @Router       /certificates/verify/{certificateID} [get]
func (h *CertificateHandler) HandleVerifyCertificate(ctx *gin.Context) {
	certificateID := ctx.Param("certificateID")

	cert, err := h.svc.Verify(ctx.Request.Context(), certificateID)
	if err != nil {
		if errors.Is(err, service.ErrCertificateNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("certificate", "certificateId", certificateID))
			return
		}
		renderServiceErr(ctx, "v1.HandleVerifyCertificate -> h.svc.Verify", err)
		return
	}

	ctx.JSON(http.StatusOK, response.CertificateResponse{
		Success:     true,
		Certificate: cert,
	})
}

// HandleDownloadCertificate godoc
// @Summary      Download a certificate document
// @Description  Public download of the stored document of an issued certificate.
// @Tags         certificates
// @Produce      application/pdf
// @Produce      image/png
// @Param        certificateID  path      string  true  "Certificate ID"
// @Success      200            {file}    file
// @Failure      404            {object}  response.Err
// @Failure      500            {object}  response.Err
// @Router       /certificates/verify/{certificateID}/document [get]
func (h *CertificateHandler) HandleDownloadCertificate(ctx *gin.Context) {
	certificateID := ctx.Param("certificateID")

	cert, data, err := h.svc.Document(ctx.Request.Context(), certificateID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCertificateNotFound):
			response.RenderErr(ctx, response.ErrNotFound("certificate", "certificateId", certificateID))
		case errors.Is(err, service.ErrDocumentMissing):
			response.RenderErr(ctx, response.ErrNotFound("document", "certificateId", certificateID))
		default:
			renderServiceErr(ctx, "v1.HandleDownloadCertificate -> h.svc.Document", err)
		}
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s"`, path.Base(cert.CertificateURL)))
	ctx.Data(http.StatusOK, http.DetectContentType(data), data)
}
