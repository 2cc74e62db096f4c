// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"padel-academy-service/internal/config"
	"padel-academy-service/internal/db"
	orderHandler "padel-academy-service/internal/handlers/order"
	planHandler "padel-academy-service/internal/handlers/plan"
	videoHandler "padel-academy-service/internal/handlers/video"
	weeklyHandler "padel-academy-service/internal/handlers/weekly"
	"padel-academy-service/internal/middleware"
	"padel-academy-service/internal/pkg/jwt"
	"padel-academy-service/internal/pkg/lock"
	"padel-academy-service/internal/repository/postgres"
	"padel-academy-service/internal/service/curriculum"
	orderUsecase "padel-academy-service/internal/service/order"
	planUsecase "padel-academy-service/internal/service/plan"
	"padel-academy-service/internal/service/progression"
	videoUsecase "padel-academy-service/internal/service/video"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg       config.AppConfig
	engine    *gin.Engine
	logger    *zap.Logger
	scheduler *progression.Scheduler
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.Default()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       0,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Println("[REDIS] connected")

	// ----- Logger -----
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	s.logger = logger

	// ----- JWT verifier -----
	verifier, err := jwt.LoadAndBuild(s.cfg.JWT)
	if err != nil {
		return fmt.Errorf("failed to build JWT verifier: %w", err)
	}

	// ----- Repositories -----
	orderRepo := postgres.NewOrderRepository(pool)
	planRepo := postgres.NewPlanRepository(pool)
	videoRepo := postgres.NewVideoRepository(pool)
	assignmentRepo := postgres.NewAssignmentRepository(pool)
	counterRepo := postgres.NewCounterRepository(pool)

	// ----- Services -----
	curriculumService := curriculum.NewService(assignmentRepo, videoRepo, s.cfg.WeeklyVideoCap, logger)
	orderService := orderUsecase.NewService(orderRepo, planRepo, counterRepo, curriculumService, logger)
	planService := planUsecase.NewPlanService(planRepo, logger)
	videoService := videoUsecase.NewVideoService(videoRepo, logger)

	// ----- Progression scheduler -----
	runner := progression.NewRunner(orderRepo, orderService, progression.DefaultOpTimeout, logger)
	runLock := lock.NewRedisLock(redisClient)
	s.scheduler = progression.NewScheduler(runner, runLock, s.cfg.ProgressionInterval, s.cfg.ProgressionRunOnStart, logger)
	s.scheduler.Start()

	// ----- Handlers -----
	orderHandlerInst := orderHandler.NewOrderHandler(orderService)
	planHandlerInst := planHandler.NewPlanHandler(planService)
	videoHandlerInst := videoHandler.NewVideoHandler(videoService)
	weeklyHandlerInst := weeklyHandler.NewWeeklyHandler(curriculumService, orderService)

	// ----- Middlewares -----
	authMiddleware := middleware.NewAuthMiddleware(verifier, logger)

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
		middleware.RateLimitMiddleware(redisClient, 120, time.Minute, logger),
	)

	// ----- Router -----
	handlers := &Handlers{
		OrderHandler:   orderHandlerInst,
		PlanHandler:    planHandlerInst,
		VideoHandler:   videoHandlerInst,
		WeeklyHandler:  weeklyHandlerInst,
		AuthMiddleware: authMiddleware,
	}
	SetupRouter(s.engine, logger, handlers)

	// ----- Start HTTP -----
	log.Printf("server running on %s", s.cfg.HTTPAddr)
	return s.engine.Run(s.cfg.HTTPAddr)
}

// Shutdown stops the background scheduler; the HTTP listener dies with
// the process.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	return nil
}
