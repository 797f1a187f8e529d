package server

import (
	"context"
	"log"
	"strings"
	"time"

	"classpoints/internal/config"
	"classpoints/internal/handler"
	"classpoints/internal/identity"
	"classpoints/internal/middleware"
	"classpoints/internal/realtime"
	"classpoints/internal/repository"
	"classpoints/internal/service"
	"classpoints/internal/session"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *Server {
	userRepo := repository.NewUserRepository(db)
	identityRepo := repository.NewIdentityRepository(db)
	classRepo := repository.NewClassRepository(db)
	pointsRepo := repository.NewPointsRepository(db)

	identityProvider := identity.NewProvider(identityRepo)
	sessions := session.NewStore(redisClient)
	live := realtime.NewPublisher(redisClient)

	authSvc := service.NewAuthService(identityProvider, userRepo, sessions, cfg.JWTSecret, cfg.JWTTTL)
	authHandler := handler.NewAuthHandler(authSvc)

	supervisorSvc := service.NewSupervisorService(userRepo, identityProvider, live)
	supervisorHandler := handler.NewSupervisorHandler(supervisorSvc)

	classSvc := service.NewClassService(classRepo, live)
	classHandler := handler.NewClassHandler(classSvc)

	pointsSvc := service.NewPointsService(pointsRepo, classRepo, userRepo, live)
	pointsHandler := handler.NewPointsHandler(pointsSvc)

	leaderboardSvc := service.NewLeaderboardService(classRepo)
	leaderboardHandler := handler.NewLeaderboardHandler(leaderboardSvc)

	statSvc := service.NewStatService(classRepo, userRepo)
	statHandler := handler.NewStatHandler(statSvc)

	liveHandler := handler.NewLiveHandler(redisClient, userRepo, classSvc, leaderboardSvc, supervisorSvc, pointsSvc)

	auditSvc := service.NewLedgerAuditService(classRepo, pointsRepo)

	// Ledger audit job (background): report classes whose stored total has
	// drifted from the ledger sum. Admin overwrites make drift legitimate,
	// so this logs and never corrects.
	go func() {
		ticker := time.NewTicker(cfg.LedgerAuditInterval)
		defer ticker.Stop()

		for range ticker.C {
			drifts, err := auditSvc.Audit(context.Background())
			if err != nil {
				log.Printf("ledger audit failed: %v", err)
				continue
			}
			for _, d := range drifts {
				log.Printf("ledger drift: class %s (%s) total=%d ledger sum=%d", d.ClassName, d.ClassID, d.Points, d.LedgerSum)
			}
		}
	}()

	router := gin.New()

	setupCORS(router, cfg)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(userRepo, sessions, cfg.JWTSecret)

	api := router.Group("/api")

	// Public routes (no auth required)
	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
	}

	// Protected routes (apply auth middleware explicitly)
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/auth/me", authHandler.Me)

		// Admin routes
		adminGroup := protected.Group("/admin")
		adminGroup.Use(authMiddleware.RequireAdmin())
		{
			adminGroup.GET("/supervisors", supervisorHandler.List)
			adminGroup.POST("/supervisors", supervisorHandler.Create)
			adminGroup.DELETE("/supervisors/:id", supervisorHandler.Delete)

			adminGroup.POST("/classes", classHandler.Create)
			adminGroup.PUT("/classes/:id", classHandler.Update)
			adminGroup.DELETE("/classes/:id", classHandler.Delete)

			adminGroup.GET("/stats", statHandler.GetStats)
			adminGroup.GET("/activity", pointsHandler.AllActivity)
		}

		// Supervisor routes
		supervisorGroup := protected.Group("")
		supervisorGroup.Use(authMiddleware.RequireSupervisor())
		{
			supervisorGroup.POST("/points", pointsHandler.Award)
			supervisorGroup.GET("/activity/me", pointsHandler.MyActivity)
		}

		// Shared routes (any authenticated role)
		protected.GET("/classes", classHandler.List)
		protected.GET("/leaderboard", leaderboardHandler.GetLeaderboard)

		// Live streams (WebSocket)
		protected.GET("/live/:stream", liveHandler.Stream)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, cfg *config.Config) {
	var origins []string
	if cfg.AllowedOrigins != "" {
		origins = strings.Split(cfg.AllowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
