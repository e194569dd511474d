package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"clinicore/config"
	"clinicore/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TaskEmailSend is the asynq task type carrying one outbound email.
const TaskEmailSend = "email:send"

// Service delivers patient-facing email. Sends are queued through asynq so a
// slow SMTP server never stalls a booking request; the cron worker drains the
// queue.
type Service interface {
	SendAppointmentEvent(ctx context.Context, patient *models.Patient, appt models.Appointment, kind models.EventKind) error
	SendInquiryReply(ctx context.Context, inq models.Inquiry, message string) error
}

// EmailService implements Service on an asynq queue with a direct SMTP
// fallback for deployments running without Redis.
type EmailService struct {
	client *asynq.Client // nil means send synchronously
	sender *SMTPSender
}

// NewEmailService returns a queue-backed email service.
func NewEmailService(client *asynq.Client) *EmailService {
	return &EmailService{client: client, sender: NewSMTPSender()}
}

// SendAppointmentEvent queues a lifecycle email for the patient. Patients
// without an email address are skipped silently.
func (s *EmailService) SendAppointmentEvent(ctx context.Context, patient *models.Patient, appt models.Appointment, kind models.EventKind) error {
	if patient == nil || patient.Email == "" {
		return nil
	}
	return s.dispatch(ctx, buildAppointmentEmail(patient, appt, kind))
}

// SendInquiryReply queues the admin's reply to a contact-form inquiry.
func (s *EmailService) SendInquiryReply(ctx context.Context, inq models.Inquiry, message string) error {
	if inq.Email == "" {
		return fmt.Errorf("inquiry %s has no email address", inq.ID)
	}
	return s.dispatch(ctx, buildReplyEmail(inq, message))
}

func (s *EmailService) dispatch(ctx context.Context, payload models.EmailPayload) error {
	if s.client == nil {
		return s.sender.Send(payload)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email payload failed: %w", err)
	}
	info, err := s.client.EnqueueContext(ctx, asynq.NewTask(TaskEmailSend, raw), asynq.MaxRetry(3))
	if err != nil {
		return fmt.Errorf("enqueue email failed: %w", err)
	}
	zap.L().Debug("email queued",
		zap.String("taskId", info.ID),
		zap.String("to", payload.To))
	return nil
}

// NewAsynqClient builds the queue client from loaded configuration.
func NewAsynqClient() *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPass,
		DB:       config.AppConfig.RedisQueueDB,
	})
}
