package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/collegedesk/collegedesk-api/internal/config"
	"github.com/collegedesk/collegedesk-api/internal/database"
	"github.com/collegedesk/collegedesk-api/internal/handler"
	"github.com/collegedesk/collegedesk-api/internal/middleware"
	"github.com/collegedesk/collegedesk-api/internal/models"
	"github.com/collegedesk/collegedesk-api/internal/repository"
	"github.com/collegedesk/collegedesk-api/internal/router"
	"github.com/collegedesk/collegedesk-api/internal/service"
	"github.com/collegedesk/collegedesk-api/pkg/ai"
	cloud "github.com/collegedesk/collegedesk-api/pkg/cloudinary"
	"github.com/collegedesk/collegedesk-api/pkg/remote"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Student{},
		&models.SubjectAttendance{},
		&models.Faculty{},
		&models.FacultySubject{},
		&models.FacultyAttendance{},
		&models.StudentAttendanceLog{},
		&models.EditableSubjectResult{},
		&models.AcademicRecord{},
		&models.MarksAuditLog{},
		&models.LeaveRequest{},
		&models.FacultyLeaveProfile{},
		&models.LeaveHistoryEntry{},
		&models.Notification{},
		&models.SyncOutbox{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL, nats.Name(cfg.AppName))
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	}

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	var leaveParser ai.LeaveParser
	if cfg.AIProvider == "openai" && cfg.OpenAIAPIKey != "" {
		parser, err := ai.NewOpenAIParser(ai.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Logger: logger,
		})
		if err != nil {
			log.Fatalf("failed to create leave parser: %v", err)
		}
		leaveParser = parser
	}

	var remoteStore remote.Store = remote.NopStore{}
	if cfg.SyncRemoteURL != "" {
		store, err := remote.NewHTTPStore(cfg.SyncRemoteURL, cfg.SyncRemoteAPIKey, logger)
		if err != nil {
			log.Fatalf("failed to create remote sync store: %v", err)
		}
		remoteStore = store
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	studentRepo := repository.NewStudentRepository(db)
	facultyRepo := repository.NewFacultyRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	marksRepo := repository.NewMarksRepository(db)
	leaveRepo := repository.NewLeaveRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	outboxRepo := repository.NewOutboxRepository(db)

	syncService := service.NewSyncService(outboxRepo, remoteStore, natsConn, cfg.SyncInterval, logger)
	notificationService := service.NewNotificationService(notificationRepo, redisClient, cfg.NotificationChannel, natsConn, validate, logger)
	rosterService := service.NewRosterService(facultyRepo, studentRepo, logger)
	attendanceService := service.NewAttendanceService(attendanceRepo, studentRepo, rosterService, validate, syncService, logger)
	marksService := service.NewMarksService(marksRepo, studentRepo, validate, notificationService, syncService, logger)
	leaveService := service.NewLeaveService(leaveRepo, leaveParser, validate, syncService, logger)
	studentService := service.NewStudentService(studentRepo, uploader, logger)
	reportService := service.NewReportService(studentRepo, redisClient, cfg.ReportCacheTTL, logger)

	runCtx, stopServices := context.WithCancel(context.Background())
	defer stopServices()
	syncService.Start(runCtx)
	notificationService.Start(runCtx)

	attendanceHandler := handler.NewAttendanceHandler(attendanceService, rosterService, logger)
	marksHandler := handler.NewMarksHandler(marksService, logger)
	leaveHandler := handler.NewLeaveHandler(leaveService, logger)
	notificationHandler := handler.NewNotificationHandler(notificationService, logger, cfg.SSEKeepAlive)
	studentHandler := handler.NewStudentHandler(studentService, logger)
	reportHandler := handler.NewReportHandler(reportService, attendanceService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AttendanceHandler:   attendanceHandler,
		MarksHandler:        marksHandler,
		LeaveHandler:        leaveHandler,
		NotificationHandler: notificationHandler,
		StudentHandler:      studentHandler,
		ReportHandler:       reportHandler,
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, stopServices)
}

func waitForShutdown(app *fiber.App, stopServices context.CancelFunc) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	stopServices()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
