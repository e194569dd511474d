package handlers

import (
	"errors"
	"io"
	"net/http"

	"clinicore/middleware"
	"clinicore/models"
	"clinicore/services/scheduling"

	"github.com/gin-gonic/gin"
)

// AppointmentHandler exposes the scheduling engine over HTTP.
type AppointmentHandler struct {
	svc scheduling.AppointmentService
}

// NewAppointmentHandler returns the appointment handler.
func NewAppointmentHandler(svc scheduling.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{svc: svc}
}

type createAppointmentRequest struct {
	PatientID string `json:"patientId" binding:"required"`
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
	Title     string `json:"title" binding:"required"`
}

// Create books an appointment on behalf of an admin.
func (h *AppointmentHandler) Create(c *gin.Context) {
	var req createAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	appt, err := h.svc.Create(c.Request.Context(), middleware.ActorFromContext(c), scheduling.CreateRequest{
		PatientID: req.PatientID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Title:     req.Title,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, appt)
}

// Request books an appointment from the public site; it starts Pending until
// an admin approves the slot.
func (h *AppointmentHandler) Request(c *gin.Context) {
	var req createAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	appt, err := h.svc.Create(c.Request.Context(), scheduling.Actor{}, scheduling.CreateRequest{
		PatientID:     req.PatientID,
		Date:          req.Date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Title:         req.Title,
		PublicRequest: true,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, appt)
}

// Get returns a single appointment.
func (h *AppointmentHandler) Get(c *gin.Context) {
	appt, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// List returns non-cancelled appointments, after sweeping missed ones.
func (h *AppointmentHandler) List(c *gin.Context) {
	appts, err := h.svc.ListActive(c.Request.Context(), scheduling.ListFilter{
		Date:      c.Query("date"),
		Status:    models.AppointmentStatus(c.Query("status")),
		PatientID: c.Query("patientId"),
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appts})
}

// Archived returns the most recent cancelled appointments.
func (h *AppointmentHandler) Archived(c *gin.Context) {
	appts, err := h.svc.ListArchived(c.Request.Context(), scheduling.ListFilter{
		Date:      c.Query("date"),
		PatientID: c.Query("patientId"),
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appts})
}

// ByPatient returns a patient's appointment history.
func (h *AppointmentHandler) ByPatient(c *gin.Context) {
	appts, err := h.svc.ListByPatient(c.Request.Context(), c.Param("id"), c.Query("sortBy"))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appts})
}

// Update applies a partial edit under the lifecycle rules.
func (h *AppointmentHandler) Update(c *gin.Context) {
	var patch models.AppointmentPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		bindError(c, err)
		return
	}

	appt, err := h.svc.Update(c.Request.Context(), middleware.ActorFromContext(c), c.Param("id"), patch)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

type rescheduleRequest struct {
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
	Title     string `json:"title"`
}

// Reschedule moves an appointment to a new slot.
func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	var req rescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	appt, err := h.svc.Reschedule(c.Request.Context(), middleware.ActorFromContext(c), c.Param("id"), scheduling.RescheduleRequest{
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Title:     req.Title,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

// Cancel marks the appointment Cancelled. Repeat calls are no-ops.
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		bindError(c, err)
		return
	}

	appt, err := h.svc.Cancel(c.Request.Context(), middleware.ActorFromContext(c), c.Param("id"), req.Reason)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// Slots reports per-increment availability for a date.
func (h *AppointmentHandler) Slots(c *gin.Context) {
	date := c.Param("date")
	slots, err := h.svc.AvailableSlots(c.Request.Context(), date)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "slots": slots})
}

// Sweep triggers the missed-appointment sweep on demand.
func (h *AppointmentHandler) Sweep(c *gin.Context) {
	swept, err := h.svc.SweepMissed(c.Request.Context())
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"swept": swept})
}
