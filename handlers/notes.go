package handlers

import (
	"net/http"

	"clinicore/middleware"
	"clinicore/models"
	"clinicore/services/notes"

	"github.com/gin-gonic/gin"
)

// NoteHandler exposes clinical notes.
type NoteHandler struct {
	svc notes.Service
}

// NewNoteHandler returns the notes handler.
func NewNoteHandler(svc notes.Service) *NoteHandler {
	return &NoteHandler{svc: svc}
}

// Create attaches a clinical note to an appointment.
func (h *NoteHandler) Create(c *gin.Context) {
	var note models.Note
	if err := c.ShouldBindJSON(&note); err != nil {
		bindError(c, err)
		return
	}

	created, err := h.svc.Create(c.Request.Context(), middleware.ActorFromContext(c), note)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Get returns a single note.
func (h *NoteHandler) Get(c *gin.Context) {
	note, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

// ByAppointment returns the note attached to an appointment.
func (h *NoteHandler) ByAppointment(c *gin.Context) {
	note, err := h.svc.GetByAppointment(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

// ByPatient returns the patient's notes, newest first.
func (h *NoteHandler) ByPatient(c *gin.Context) {
	list, err := h.svc.ListByPatient(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notes": list})
}

// Update replaces the note's content and payment state.
func (h *NoteHandler) Update(c *gin.Context) {
	var note models.Note
	if err := c.ShouldBindJSON(&note); err != nil {
		bindError(c, err)
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), middleware.ActorFromContext(c), c.Param("id"), note)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes a note.
func (h *NoteHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.ActorFromContext(c), c.Param("id")); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Note deleted"})
}
