package routes

import (
	"time"

	"aegis/config"
	"aegis/controllers"
	"aegis/middleware"
	"aegis/repositories"
	"aegis/services"
	"aegis/utils"
	"aegis/websocket"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupRoutes wires repositories, services and controllers into the
// router.
func SetupRoutes(cfg *config.Config, db *mongo.Database, redisClient *redis.Client, hub *websocket.Hub) *gin.Engine {
	router := gin.New()

	repos := initializeRepositories(db)
	svcs := initializeServices(cfg, repos, hub)
	ctrls := initializeControllers(cfg, db, redisClient, svcs, hub)
	authMW := middleware.NewAuthMiddleware(svcs.JWT, repos.User)

	setupGlobalMiddleware(router, cfg, redisClient)

	router.GET("/health", ctrls.Health.Health)
	router.Static("/media", cfg.MediaDir)

	v1 := router.Group("/api/v1")
	SetupAuthRoutes(v1, ctrls.Auth, ctrls.Responder, authMW)
	SetupEmergencyRoutes(v1, ctrls.Emergency, ctrls.Responder, authMW)
	SetupResponderRoutes(v1, ctrls.Responder, authMW)
	SetupContactRoutes(v1, ctrls.Contact, authMW)
	SetupCheckInRoutes(v1, ctrls.CheckIn, authMW)
	SetupIncidentRoutes(v1, ctrls.Incident, authMW)
	SetupLearningRoutes(v1, ctrls.Learning, authMW)
	SetupVideoRoutes(v1, ctrls.Video, authMW)
	SetupSafeRouteRoutes(v1, ctrls.SafeRoute, authMW)
	SetupNotificationRoutes(v1, ctrls.Notification, authMW)
	SetupWebSocketRoutes(router, ctrls.WebSocket, authMW)

	return router
}

type Repositories struct {
	User         *repositories.UserRepository
	Contact      *repositories.ContactRepository
	Alert        *repositories.AlertRepository
	CheckIn      *repositories.CheckInRepository
	Incident     *repositories.IncidentRepository
	Learning     *repositories.LearningRepository
	Video        *repositories.VideoRepository
	Notification *repositories.NotificationRepository
	SafeRoute    *repositories.SafeRouteRepository
}

func initializeRepositories(db *mongo.Database) *Repositories {
	return &Repositories{
		User:         repositories.NewUserRepository(db),
		Contact:      repositories.NewContactRepository(db),
		Alert:        repositories.NewAlertRepository(db),
		CheckIn:      repositories.NewCheckInRepository(db),
		Incident:     repositories.NewIncidentRepository(db),
		Learning:     repositories.NewLearningRepository(db),
		Video:        repositories.NewVideoRepository(db),
		Notification: repositories.NewNotificationRepository(db),
		SafeRoute:    repositories.NewSafeRouteRepository(db),
	}
}

type Services struct {
	JWT          *utils.JWTService
	Auth         *services.AuthService
	Contact      *services.ContactService
	Alert        *services.AlertService
	Responder    *services.ResponderService
	CheckIn      *services.CheckInService
	Incident     *services.IncidentService
	Learning     *services.LearningService
	Video        *services.VideoService
	Notification *services.NotificationService
	SafeRoute    *services.SafeRouteService
}

func initializeServices(cfg *config.Config, repos *Repositories, hub *websocket.Hub) *Services {
	jwtService := utils.NewJWTService(cfg.JWTSecret)
	dispatcher := utils.NewDispatcher(cfg.FirebaseCredentials, cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber)
	notificationService := services.NewNotificationService(repos.Notification, repos.User, dispatcher)
	routingClient := services.NewRoutingClient(services.RoutingClientConfig{
		BaseURL: cfg.RoutingAPIBaseURL,
		APIKey:  cfg.RoutingAPIKey,
	})

	return &Services{
		JWT:          jwtService,
		Auth:         services.NewAuthService(repos.User, jwtService, cfg.DefaultPIN),
		Contact:      services.NewContactService(repos.Contact, repos.User, notificationService),
		Alert:        services.NewAlertService(repos.Alert, repos.User, repos.Contact, notificationService, hub, cfg.MaxRespondersPerAlert),
		Responder:    services.NewResponderService(repos.Alert, repos.User, notificationService, hub),
		CheckIn:      services.NewCheckInService(repos.CheckIn, repos.Contact, repos.User, notificationService),
		Incident:     services.NewIncidentService(repos.Incident, notificationService),
		Learning:     services.NewLearningService(repos.Learning),
		Video:        services.NewVideoService(repos.Video, repos.Alert),
		Notification: notificationService,
		SafeRoute:    services.NewSafeRouteService(repos.SafeRoute, repos.Alert, routingClient),
	}
}

type Controllers struct {
	Auth         *controllers.AuthController
	Contact      *controllers.ContactController
	Emergency    *controllers.EmergencyController
	Responder    *controllers.ResponderController
	CheckIn      *controllers.CheckInController
	Incident     *controllers.IncidentController
	Learning     *controllers.LearningController
	Video        *controllers.VideoController
	SafeRoute    *controllers.SafeRouteController
	Notification *controllers.NotificationController
	WebSocket    *controllers.WebSocketController
	Health       *controllers.HealthController
}

func initializeControllers(cfg *config.Config, db *mongo.Database, redisClient *redis.Client, svcs *Services, hub *websocket.Hub) *Controllers {
	return &Controllers{
		Auth:         controllers.NewAuthController(svcs.Auth),
		Contact:      controllers.NewContactController(svcs.Contact),
		Emergency:    controllers.NewEmergencyController(svcs.Alert, cfg.MediaDir),
		Responder:    controllers.NewResponderController(svcs.Responder),
		CheckIn:      controllers.NewCheckInController(svcs.CheckIn),
		Incident:     controllers.NewIncidentController(svcs.Incident, cfg.MediaDir),
		Learning:     controllers.NewLearningController(svcs.Learning),
		Video:        controllers.NewVideoController(svcs.Video, cfg.MediaDir),
		SafeRoute:    controllers.NewSafeRouteController(svcs.SafeRoute),
		Notification: controllers.NewNotificationController(svcs.Notification),
		WebSocket:    controllers.NewWebSocketController(hub, svcs.Alert),
		Health:       controllers.NewHealthController(db, redisClient, "1.0.0"),
	}
}

func setupGlobalMiddleware(router *gin.Engine, cfg *config.Config, redisClient *redis.Client) {
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORSMiddleware(middleware.DefaultCORSConfig()))

	limiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Redis:     redisClient,
		Requests:  cfg.RateLimitRequests,
		Window:    time.Duration(cfg.RateLimitWindow) * time.Minute,
		KeyPrefix: "aegis:ratelimit",
		SkipPaths: []string{"/health"},
	})
	router.Use(limiter.Middleware())
}
