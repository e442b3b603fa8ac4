package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/eventforge/hackathon-api/docs"
	v1 "github.com/eventforge/hackathon-api/internal/api/handler/v1"
	"github.com/eventforge/hackathon-api/internal/api/middleware"
	"github.com/eventforge/hackathon-api/internal/config"
	"github.com/eventforge/hackathon-api/internal/pkg/artifact"
	"github.com/eventforge/hackathon-api/internal/repository"
	"github.com/eventforge/hackathon-api/internal/repository/dao"
	"github.com/eventforge/hackathon-api/internal/service"
)

type Server struct {
	Config  *config.AppConfig
	Router  *gin.Engine
	Origins *middleware.AllowedOrigins
	Hub     *v1.LiveHub
	Queue   *service.QueueDispatcher // nil when certificates are generated inline
	Reaper  *service.ArtifactReaper
	Auth    *service.AuthService

	store *artifact.Store
	repos repositories
}

type repositories struct {
	users        *repository.UserRepository
	events       *repository.EventRepository
	teams        *repository.TeamRepository
	certificates *repository.CertificateRepository
}

func NewServer(conf *config.AppConfig, db *gorm.DB, renderer service.CertificateRenderer, store *artifact.Store) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config:  conf,
		Router:  engine,
		Origins: middleware.NewAllowedOrigins(conf.API.AllowedCORSDomains),
		store:   store,
		repos: repositories{
			users:        repository.NewUserRepository(dao.NewUserDAO(db)),
			events:       repository.NewEventRepository(dao.NewEventDAO(db)),
			teams:        repository.NewTeamRepository(dao.NewTeamDAO(db)),
			certificates: repository.NewCertificateRepository(dao.NewCertificateDAO(db)),
		},
	}

	s.MountMiddlewares()

	authHandler := s.initAuthHandler()
	certificateHandler, eventHandler := s.initCertificateAndEventHandlers(renderer)
	teamHandler := s.initTeamHandler()
	dashboardHandler := s.initDashboardHandler()
	s.Reaper = service.NewArtifactReaper(store, s.repos.certificates, conf.Reaper.Retention, conf.Reaper.DryRun)
	s.MountHandlers(authHandler, eventHandler, certificateHandler, teamHandler, dashboardHandler)

	return s
}

func (s *Server) initAuthHandler() *v1.AuthHandler {
	s.Auth = service.NewAuthService(s.repos.users)
	handler := v1.NewAuthHandler(s.Config.API, s.Auth)

	return handler
}

// initCertificateAndEventHandlers wires the generator into the lifecycle controller
// through the configured dispatcher.
func (s *Server) initCertificateAndEventHandlers(renderer service.CertificateRenderer) (*v1.CertificateHandler, *v1.EventHandler) {
	certSvc := service.NewCertificateService(s.repos.certificates, s.repos.events, s.repos.teams, renderer, s.store)

	s.Hub = v1.NewLiveHub(s.repos.events, s.Origins.Allow)

	var dispatcher service.BulkDispatcher
	if s.Config.Certificates.Async {
		s.Queue = service.NewQueueDispatcher(certSvc, s.Hub, s.Config.Certificates.QueueSize)
		dispatcher = s.Queue
	} else {
		dispatcher = service.NewInlineDispatcher(certSvc, s.Hub)
	}
	eventSvc := service.NewEventService(s.repos.events, dispatcher)

	return v1.NewCertificateHandler(certSvc), v1.NewEventHandler(eventSvc)
}

func (s *Server) initTeamHandler() *v1.TeamHandler {
	svc := service.NewTeamService(s.repos.teams, s.repos.events)
	handler := v1.NewTeamHandler(svc)

	return handler
}

func (s *Server) initDashboardHandler() *v1.DashboardHandler {
	svc := service.NewDashboardService(s.repos.users, s.repos.events, s.repos.teams, s.repos.certificates)
	handler := v1.NewDashboardHandler(svc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Origins))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	eventHandler *v1.EventHandler,
	certificateHandler *v1.CertificateHandler,
	teamHandler *v1.TeamHandler,
	dashboardHandler *v1.DashboardHandler,
) {
	const basePath = "/api/v1"
	authenticator := middleware.NewAuthenticator(s.Config.API.JWTSigningKey)

	public := s.Router.Group(basePath)
	{
		public.POST("/auth/signup", authHandler.HandleSignup)
		public.POST("/auth/login", authHandler.HandleLogin)
		public.GET("/events", eventHandler.HandleListEvents)
		public.GET("/events/:eventID", eventHandler.HandleGetEvent)
		public.GET("/events/:eventID/teams", teamHandler.HandleListTeams)
		public.GET("/certificates/verify/:certificateID", certificateHandler.HandleVerifyCertificate)
		public.GET("/certificates/verify/:certificateID/document", certificateHandler.HandleDownloadCertificate)
	}

	authed := s.Router.Group(basePath, authenticator.VerifyJWT())
	{
		authed.POST("/events", eventHandler.HandleCreateEvent)
		authed.PUT("/events/:eventID", eventHandler.HandleUpdateEvent)
		authed.DELETE("/events/:eventID", eventHandler.HandleDeleteEvent)
		authed.POST("/events/:eventID/teams", teamHandler.HandleCreateTeam)
		authed.POST("/teams/:teamID/members", teamHandler.HandleJoinTeam)
		authed.POST("/certificates", certificateHandler.HandleCreateCertificate)
		authed.GET("/events/:eventID/certificates", certificateHandler.HandleListEventCertificates)
		authed.GET("/events/:eventID/certificates/export", certificateHandler.HandleExportEventCertificates)
		authed.GET("/events/:eventID/certificates/live", s.Hub.HandleLive)
	}

	pages := s.Router.Group("", authenticator.OptionalJWT(), middleware.Gate())
	{
		pages.GET("/admin", dashboardHandler.HandleAdmin)
		pages.GET("/organizer", dashboardHandler.HandleOrganizer)
		pages.GET("/judge", dashboardHandler.HandleJudge)
		pages.GET("/mentor", dashboardHandler.HandleMentor)
		pages.GET("/participant", dashboardHandler.HandleParticipant)
		pages.GET("/profile", dashboardHandler.HandleProfile)
	}

	s.Router.NoRoute(authenticator.OptionalJWT(), middleware.PageGate(basePath), v1.HandleNotFound)

	s.Router.StaticFS(s.store.URLPrefix(), s.store.FileSystem())
	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Hackathon API"
	docs.SwaggerInfo.Description = "Hackathon events, teams and participation certificates."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
