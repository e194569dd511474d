package handlers

import (
	"net/http"
	"strconv"

	patientRepo "clinicore/database/repository/patient"
	"clinicore/middleware"
	"clinicore/models"
	"clinicore/services/patient"

	"github.com/gin-gonic/gin"
)

// PatientHandler exposes patient records and their treatment cases.
type PatientHandler struct {
	svc patient.Service
}

// NewPatientHandler returns the patient handler.
func NewPatientHandler(svc patient.Service) *PatientHandler {
	return &PatientHandler{svc: svc}
}

// Create registers a new patient.
func (h *PatientHandler) Create(c *gin.Context) {
	var p models.Patient
	if err := c.ShouldBindJSON(&p); err != nil {
		bindError(c, err)
		return
	}

	created, err := h.svc.Create(c.Request.Context(), middleware.ActorFromContext(c), p)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Get returns a single patient.
func (h *PatientHandler) Get(c *gin.Context) {
	p, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// List returns a page of patients with an optional name/contact search.
func (h *PatientHandler) List(c *gin.Context) {
	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)

	patients, total, err := h.svc.List(c.Request.Context(), patientRepo.ListOptions{
		Page:   page,
		Limit:  limit,
		Search: c.Query("search"),
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"patients": patients, "total": total, "page": page})
}

// Update replaces the patient's editable fields.
func (h *PatientHandler) Update(c *gin.Context) {
	var p models.Patient
	if err := c.ShouldBindJSON(&p); err != nil {
		bindError(c, err)
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), middleware.ActorFromContext(c), c.Param("id"), p)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Deactivate soft-deletes the patient.
func (h *PatientHandler) Deactivate(c *gin.Context) {
	if err := h.svc.Deactivate(c.Request.Context(), middleware.ActorFromContext(c), c.Param("id")); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Patient deactivated"})
}

// Restore re-activates a soft-deleted patient.
func (h *PatientHandler) Restore(c *gin.Context) {
	if err := h.svc.Restore(c.Request.Context(), middleware.ActorFromContext(c), c.Param("id")); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Patient restored"})
}

// HardDelete permanently removes the patient record. Superadmin only.
func (h *PatientHandler) HardDelete(c *gin.Context) {
	if err := h.svc.HardDelete(c.Request.Context(), middleware.ActorFromContext(c), c.Param("id")); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Patient permanently deleted"})
}

// AddCase opens a treatment case on the patient record.
func (h *PatientHandler) AddCase(c *gin.Context) {
	var tc models.Case
	if err := c.ShouldBindJSON(&tc); err != nil {
		bindError(c, err)
		return
	}

	p, err := h.svc.AddCase(c.Request.Context(), middleware.ActorFromContext(c), c.Param("id"), tc)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

type caseStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateCaseStatus moves a case between Active, Completed and Cancelled.
func (h *PatientHandler) UpdateCaseStatus(c *gin.Context) {
	var req caseStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	p, err := h.svc.UpdateCaseStatus(c.Request.Context(), middleware.ActorFromContext(c),
		c.Param("id"), c.Param("caseId"), req.Status)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// AddCaseNote appends a dated note to a case.
func (h *PatientHandler) AddCaseNote(c *gin.Context) {
	var note models.CaseNote
	if err := c.ShouldBindJSON(&note); err != nil {
		bindError(c, err)
		return
	}

	p, err := h.svc.AddCaseNote(c.Request.Context(), middleware.ActorFromContext(c),
		c.Param("id"), c.Param("caseId"), note)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// AddCasePayment records a payment against a case.
func (h *PatientHandler) AddCasePayment(c *gin.Context) {
	var payment models.CasePayment
	if err := c.ShouldBindJSON(&payment); err != nil {
		bindError(c, err)
		return
	}

	p, err := h.svc.AddCasePayment(c.Request.Context(), middleware.ActorFromContext(c),
		c.Param("id"), c.Param("caseId"), payment)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}
