package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinicore/config"
	"clinicore/cron"
	"clinicore/database"
	adminRepo "clinicore/database/repository/admin"
	appointmentRepo "clinicore/database/repository/appointment"
	inquiryRepo "clinicore/database/repository/inquiry"
	logRepo "clinicore/database/repository/logs"
	noteRepo "clinicore/database/repository/notes"
	patientRepo "clinicore/database/repository/patient"
	"clinicore/handlers"
	"clinicore/middleware"
	"clinicore/routes"
	"clinicore/services/admin"
	"clinicore/services/audit"
	"clinicore/services/dashboard"
	"clinicore/services/inquiry"
	"clinicore/services/notes"
	"clinicore/services/notification"
	"clinicore/services/patient"
	"clinicore/services/scheduling"
	"clinicore/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	database.InitDB()
	utils.InitKV()

	// Repositories.
	appts := appointmentRepo.NewMongoAppointmentRepo()
	patients := patientRepo.NewMongoPatientRepo()
	inquiries := inquiryRepo.NewMongoInquiryRepo()
	admins := adminRepo.NewMongoAdminRepo()
	logs := logRepo.NewMongoLogRepo()
	clinicalNotes := noteRepo.NewMongoNoteRepo()

	// Services.
	auditSvc := audit.NewService(logs)
	queueClient := notification.NewAsynqClient()
	defer queueClient.Close()
	notifySvc := notification.NewEmailService(queueClient)

	patientSvc := patient.NewService(patients, auditSvc, nil)
	schedulingSvc := scheduling.NewAppointmentService(
		appts, patientSvc, notifySvc, auditSvc, nil, scheduling.PolicyFromConfig())
	inquirySvc := inquiry.NewService(inquiries, notifySvc, auditSvc, utils.GetKVStore(), nil)
	noteSvc := notes.NewService(clinicalNotes, appts, patients)
	adminSvc := admin.NewService(admins, auditSvc)
	dashboardSvc := dashboard.NewService(appts, patients, inquiries, clinicalNotes, nil)

	bundle := &handlers.HandlerBundle{
		Appointments: handlers.NewAppointmentHandler(schedulingSvc),
		Patients:     handlers.NewPatientHandler(patientSvc),
		Inquiries:    handlers.NewInquiryHandler(inquirySvc),
		Notes:        handlers.NewNoteHandler(noteSvc),
		Admins:       handlers.NewAdminHandler(adminSvc),
		Logs:         handlers.NewLogHandler(auditSvc),
		Dashboard:    handlers.NewDashboardHandler(dashboardSvc),
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), utils.ErrorHandler())
	routes.RegisterRoutes(router, bundle, adminSvc)

	// Background workers: the email queue drainer and the sweep schedule.
	go func() {
		if err := cron.StartEmailWorker(); err != nil {
			logger.Error("email worker stopped", zap.Error(err))
		}
	}()
	sweepSchedule := cron.StartSweepSchedule(schedulingSvc)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", zap.String("port", config.AppConfig.AppPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	sweepSchedule.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
	if err := database.MongoClient.Disconnect(ctx); err != nil {
		logger.Error("mongo disconnect failed", zap.Error(err))
	}
	logger.Info("bye")
}
