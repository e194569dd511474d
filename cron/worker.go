package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"clinicore/config"
	"clinicore/models"
	"clinicore/services/notification"
	"clinicore/services/scheduling"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StartEmailWorker runs the asynq server draining the email queue. Blocks, so
// callers run it on its own goroutine.
func StartEmailWorker() error {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPass,
			DB:       config.AppConfig.RedisQueueDB,
		},
		asynq.Config{Concurrency: 5},
	)

	sender := notification.NewSMTPSender()
	mux := asynq.NewServeMux()
	mux.HandleFunc(notification.TaskEmailSend, func(ctx context.Context, task *asynq.Task) error {
		var payload models.EmailPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("decode email payload: %w: %v", asynq.SkipRetry, err)
		}
		if err := sender.Send(payload); err != nil {
			zap.L().Warn("email delivery failed, will retry",
				zap.String("to", payload.To), zap.Error(err))
			return err
		}
		zap.L().Info("email sent", zap.String("to", payload.To), zap.String("subject", payload.Subject))
		return nil
	})

	return srv.Run(mux)
}

// StartSweepSchedule runs the missed-appointment sweep on a fixed interval.
// The sweep also runs inline on active-list reads; the schedule exists so
// stale appointments get cleaned up even on quiet days.
func StartSweepSchedule(svc scheduling.AppointmentService) *cron.Cron {
	interval := config.AppConfig.SweepIntervalMin
	if interval <= 0 {
		interval = 15
	}

	c := cron.New()
	spec := fmt.Sprintf("@every %dm", interval)
	if _, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		swept, err := svc.SweepMissed(ctx)
		if err != nil {
			zap.L().Error("scheduled sweep failed", zap.Error(err))
			return
		}
		if swept > 0 {
			zap.L().Info("scheduled sweep done", zap.Int("swept", swept))
		}
	}); err != nil {
		zap.L().Fatal("failed to register sweep schedule", zap.Error(err))
	}
	c.Start()
	zap.L().Info("sweep schedule started", zap.String("interval", spec))
	return c
}
