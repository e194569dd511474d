package inquiry

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	inquiryRepo "clinicore/database/repository/inquiry"
	"clinicore/models"
	"clinicore/services/notification"
	"clinicore/services/scheduling"
	"clinicore/utils"

	"go.uber.org/zap"
)

// submitCooldown is the minimum gap between two contact-form submissions from
// the same client address.
const submitCooldown = time.Minute

// Service handles contact-form inquiries: public intake plus the back-office
// read/reply/archive flow.
type Service interface {
	Submit(ctx context.Context, clientIP string, inq models.Inquiry) (*models.Inquiry, error)
	GetByID(ctx context.Context, id string) (*models.Inquiry, error)
	List(ctx context.Context, f inquiryRepo.Filter) ([]models.Inquiry, int64, error)
	UpdateStatus(ctx context.Context, actor scheduling.Actor, id string, status models.InquiryStatus) (*models.Inquiry, error)
	Archive(ctx context.Context, actor scheduling.Actor, id, reason string) (*models.Inquiry, error)
	Restore(ctx context.Context, actor scheduling.Actor, id string) (*models.Inquiry, error)
	Reply(ctx context.Context, actor scheduling.Actor, id, message string) (*models.Inquiry, error)
	Delete(ctx context.Context, actor scheduling.Actor, id string) error
	Stats(ctx context.Context) (*models.InquiryStats, error)
}

// DefaultService implements Service over the inquiry repository.
type DefaultService struct {
	repo     inquiryRepo.InquiryRepository
	notifier notification.Service
	audit    scheduling.AuditRecorder
	kv       utils.KVStore
	clock    scheduling.Clock
}

// NewService returns the inquiry service. notifier, audit and kv may each be
// nil; a nil kv disables the intake cooldown.
func NewService(repo inquiryRepo.InquiryRepository, notifier notification.Service, audit scheduling.AuditRecorder, kv utils.KVStore, clock scheduling.Clock) *DefaultService {
	if clock == nil {
		clock = scheduling.SystemClock()
	}
	return &DefaultService{repo: repo, notifier: notifier, audit: audit, kv: kv, clock: clock}
}

func validateInquiry(inq models.Inquiry) error {
	if strings.TrimSpace(inq.FullName) == "" {
		return scheduling.ValidationError{Field: "fullName", Reason: "must not be empty"}
	}
	if _, err := mail.ParseAddress(inq.Email); err != nil {
		return scheduling.ValidationError{Field: "email", Reason: "not a valid address"}
	}
	if strings.TrimSpace(inq.Subject) == "" {
		return scheduling.ValidationError{Field: "subject", Reason: "must not be empty"}
	}
	if strings.TrimSpace(inq.Message) == "" {
		return scheduling.ValidationError{Field: "message", Reason: "must not be empty"}
	}
	return nil
}

// Submit accepts a public contact-form submission, throttled per client IP.
func (s *DefaultService) Submit(ctx context.Context, clientIP string, inq models.Inquiry) (*models.Inquiry, error) {
	if err := validateInquiry(inq); err != nil {
		return nil, err
	}

	if s.kv != nil && clientIP != "" {
		key := "inquiry:cooldown:" + clientIP
		if _, found, err := s.kv.Get(ctx, key); err != nil {
			zap.L().Warn("inquiry cooldown lookup failed", zap.Error(err))
		} else if found {
			return nil, scheduling.ConflictError{Reason: "too many inquiries, please wait a minute before trying again"}
		}
		if err := s.kv.Set(ctx, key, "1", submitCooldown); err != nil {
			zap.L().Warn("inquiry cooldown set failed", zap.Error(err))
		}
	}

	inq.Status = models.InquiryUnread
	inq.IsArchived = false
	id, err := s.repo.Create(ctx, inq)
	if err != nil {
		return nil, fmt.Errorf("submit inquiry failed: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID returns a single inquiry.
func (s *DefaultService) GetByID(ctx context.Context, id string) (*models.Inquiry, error) {
	inq, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, inquiryRepo.ErrNotFound) {
		return nil, scheduling.NotFoundError{Entity: "inquiry", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return inq, nil
}

// List returns a page of inquiries plus the total match count.
func (s *DefaultService) List(ctx context.Context, f inquiryRepo.Filter) ([]models.Inquiry, int64, error) {
	return s.repo.List(ctx, f)
}

// UpdateStatus moves the inquiry between Unread, Read and Replied.
func (s *DefaultService) UpdateStatus(ctx context.Context, actor scheduling.Actor, id string, status models.InquiryStatus) (*models.Inquiry, error) {
	switch status {
	case models.InquiryUnread, models.InquiryRead, models.InquiryReplied:
	default:
		return nil, scheduling.ValidationError{Field: "status", Reason: "unknown inquiry status " + string(status)}
	}

	inq, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	inq.Status = status
	if err := s.repo.Update(ctx, *inq); err != nil {
		return nil, fmt.Errorf("update inquiry failed: %w", err)
	}
	s.record(ctx, actor, models.ActionInquiryStatusUpdated, *inq, "Marked inquiry "+string(status))
	return inq, nil
}

// Archive hides the inquiry from the active list, keeping it queryable.
func (s *DefaultService) Archive(ctx context.Context, actor scheduling.Actor, id, reason string) (*models.Inquiry, error) {
	inq, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inq.IsArchived {
		return inq, nil
	}

	now := s.clock.Now()
	inq.IsArchived = true
	inq.ArchiveReason = reason
	inq.ArchivedAt = &now
	inq.ArchivedBy = actor.Name
	if err := s.repo.Update(ctx, *inq); err != nil {
		return nil, fmt.Errorf("archive inquiry failed: %w", err)
	}
	s.record(ctx, actor, models.ActionInquiryArchived, *inq, "Archived inquiry")
	return inq, nil
}

// Restore un-archives an inquiry.
func (s *DefaultService) Restore(ctx context.Context, actor scheduling.Actor, id string) (*models.Inquiry, error) {
	inq, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !inq.IsArchived {
		return inq, nil
	}

	inq.IsArchived = false
	inq.ArchiveReason = ""
	inq.ArchivedAt = nil
	inq.ArchivedBy = ""
	if err := s.repo.Update(ctx, *inq); err != nil {
		return nil, fmt.Errorf("restore inquiry failed: %w", err)
	}
	s.record(ctx, actor, models.ActionInquiryRestored, *inq, "Restored inquiry")
	return inq, nil
}

// Reply emails the sender and marks the inquiry Replied. Unlike appointment
// notifications the send is load-bearing here: a failed send leaves the
// inquiry un-replied.
func (s *DefaultService) Reply(ctx context.Context, actor scheduling.Actor, id, message string) (*models.Inquiry, error) {
	if strings.TrimSpace(message) == "" {
		return nil, scheduling.ValidationError{Field: "message", Reason: "must not be empty"}
	}

	inq, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.notifier == nil {
		return nil, fmt.Errorf("no notification backend configured")
	}
	if err := s.notifier.SendInquiryReply(ctx, *inq, message); err != nil {
		return nil, fmt.Errorf("send reply failed: %w", err)
	}

	inq.Status = models.InquiryReplied
	if err := s.repo.Update(ctx, *inq); err != nil {
		return nil, fmt.Errorf("update inquiry failed: %w", err)
	}
	s.record(ctx, actor, models.ActionInquiryReplied, *inq, "Replied to inquiry")
	return inq, nil
}

// Delete permanently removes an inquiry.
func (s *DefaultService) Delete(ctx context.Context, actor scheduling.Actor, id string) error {
	inq, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete inquiry failed: %w", err)
	}
	s.record(ctx, actor, models.ActionInquiryDeleted, *inq, "Deleted inquiry")
	return nil
}

// Stats returns the dashboard breakdown.
func (s *DefaultService) Stats(ctx context.Context) (*models.InquiryStats, error) {
	return s.repo.Stats(ctx)
}

func (s *DefaultService) record(ctx context.Context, actor scheduling.Actor, action string, inq models.Inquiry, description string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, models.AuditLog{
		ActorID:     actor.ID,
		ActorName:   actor.Name,
		Action:      action,
		EntityType:  "inquiry",
		EntityID:    inq.ID,
		EntityName:  inq.Subject,
		Description: description + " from " + inq.FullName,
	})
}
