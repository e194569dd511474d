package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	inquiryRepo "clinicore/database/repository/inquiry"
	"clinicore/middleware"
	"clinicore/models"
	"clinicore/services/inquiry"

	"github.com/gin-gonic/gin"
)

// InquiryHandler exposes contact-form intake and the back-office inquiry flow.
type InquiryHandler struct {
	svc inquiry.Service
}

// NewInquiryHandler returns the inquiry handler.
func NewInquiryHandler(svc inquiry.Service) *InquiryHandler {
	return &InquiryHandler{svc: svc}
}

// Submit accepts a public contact-form submission.
func (h *InquiryHandler) Submit(c *gin.Context) {
	var inq models.Inquiry
	if err := c.ShouldBindJSON(&inq); err != nil {
		bindError(c, err)
		return
	}

	created, err := h.svc.Submit(c.Request.Context(), middleware.GetClientIP(c), inq)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Get returns a single inquiry.
func (h *InquiryHandler) Get(c *gin.Context) {
	inq, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, inq)
}

// List returns a page of inquiries. archived=true selects the archive.
func (h *InquiryHandler) List(c *gin.Context) {
	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)

	archived := c.Query("archived") == "true"
	f := inquiryRepo.Filter{
		Status:   models.InquiryStatus(c.Query("status")),
		Archived: &archived,
		Page:     page,
		Limit:    limit,
	}

	inquiries, total, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"inquiries": inquiries, "total": total, "page": page})
}

type inquiryStatusRequest struct {
	Status models.InquiryStatus `json:"status" binding:"required"`
}

// UpdateStatus moves the inquiry between Unread, Read and Replied.
func (h *InquiryHandler) UpdateStatus(c *gin.Context) {
	var req inquiryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	inq, err := h.svc.UpdateStatus(c.Request.Context(), middleware.ActorFromContext(c), c.Param("id"), req.Status)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, inq)
}

type archiveRequest struct {
	Reason string `json:"reason"`
}

// Archive hides the inquiry from the active list.
func (h *InquiryHandler) Archive(c *gin.Context) {
	var req archiveRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		bindError(c, err)
		return
	}

	inq, err := h.svc.Archive(c.Request.Context(), middleware.ActorFromContext(c), c.Param("id"), req.Reason)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, inq)
}

// Restore un-archives an inquiry.
func (h *InquiryHandler) Restore(c *gin.Context) {
	inq, err := h.svc.Restore(c.Request.Context(), middleware.ActorFromContext(c), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, inq)
}

type replyRequest struct {
	Message string `json:"message" binding:"required"`
}

// Reply emails the sender and marks the inquiry Replied.
func (h *InquiryHandler) Reply(c *gin.Context) {
	var req replyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	inq, err := h.svc.Reply(c.Request.Context(), middleware.ActorFromContext(c), c.Param("id"), req.Message)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, inq)
}

// Delete permanently removes an inquiry. Superadmin only.
func (h *InquiryHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.ActorFromContext(c), c.Param("id")); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Inquiry deleted"})
}

// Stats returns the inquiry breakdown for the dashboard.
func (h *InquiryHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
