package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"clinicore/models"
	"clinicore/services/scheduling"

	"github.com/gin-gonic/gin"
)

// stubScheduler records the arguments the handler passes through.
type stubScheduler struct {
	scheduling.AppointmentService
	cancelledID     string
	cancelledReason string
	slotsDate       string
}

func (s *stubScheduler) Cancel(ctx context.Context, actor scheduling.Actor, id, reason string) (*models.Appointment, error) {
	s.cancelledID, s.cancelledReason = id, reason
	return &models.Appointment{ID: id, Status: models.StatusCancelled, CancellationReason: reason}, nil
}

func (s *stubScheduler) AvailableSlots(ctx context.Context, date string) ([]models.SlotAvailability, error) {
	s.slotsDate = date
	return []models.SlotAvailability{{StartTime: "09:00", EndTime: "09:30", Available: true}}, nil
}

func newApptRouter() (*gin.Engine, *stubScheduler) {
	gin.SetMode(gin.TestMode)
	stub := &stubScheduler{}
	h := NewAppointmentHandler(stub)

	router := gin.New()
	router.PUT("/appointments/:id/cancel", h.Cancel)
	router.GET("/appointments/slots/:date", h.Slots)
	return router, stub
}

func TestCancelWithoutBody(t *testing.T) {
	router, stub := newApptRouter()

	// No body at all: the reason is simply absent, not a binding error.
	req := httptest.NewRequest(http.MethodPut, "/appointments/a1/cancel", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
	if stub.cancelledID != "a1" || stub.cancelledReason != "" {
		t.Errorf("cancelled %q with reason %q, want a1 with empty reason", stub.cancelledID, stub.cancelledReason)
	}
}

func TestCancelWithReason(t *testing.T) {
	router, stub := newApptRouter()

	req := httptest.NewRequest(http.MethodPut, "/appointments/a1/cancel",
		strings.NewReader(`{"reason":"patient request"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
	if stub.cancelledReason != "patient request" {
		t.Errorf("reason = %q, want %q", stub.cancelledReason, "patient request")
	}
}

func TestCancelMalformedBody(t *testing.T) {
	router, _ := newApptRouter()

	req := httptest.NewRequest(http.MethodPut, "/appointments/a1/cancel",
		strings.NewReader(`{"reason":`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for malformed JSON", w.Code)
	}
}

func TestSlotsDateFromPath(t *testing.T) {
	router, stub := newApptRouter()

	req := httptest.NewRequest(http.MethodGet, "/appointments/slots/2026-09-01", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
	if stub.slotsDate != "2026-09-01" {
		t.Errorf("slots date = %q, want 2026-09-01", stub.slotsDate)
	}
	if !strings.Contains(w.Body.String(), `"date":"2026-09-01"`) {
		t.Errorf("response missing the requested date: %s", w.Body.String())
	}
}
