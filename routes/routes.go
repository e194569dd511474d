package routes

import (
	"net/http"
	"time"

	"clinicore/handlers"
	"clinicore/middleware"
	"clinicore/services/admin"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the full HTTP surface. Public routes carry the rate
// limiter; everything under /api/admin additionally requires a valid session.
func RegisterRoutes(router *gin.Engine, b *handlers.HandlerBundle, auth admin.Service) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public surface: booking requests, slot lookup and the contact form.
	public := router.Group("/api/public")
	public.Use(middleware.RateLimiter())
	{
		public.POST("/appointments/request", b.Appointments.Request)
		public.GET("/appointments/slots/:date", b.Appointments.Slots)
		public.POST("/inquiries", b.Inquiries.Submit)
	}

	router.POST("/api/admin/login", middleware.RateLimiter(), b.Admins.Login)

	// Back-office surface.
	api := router.Group("/api/admin")
	api.Use(middleware.AuthMiddleware(auth))
	{
		api.POST("/logout", b.Admins.Logout)
		api.GET("/me", b.Admins.Me)
		api.PUT("/password", b.Admins.ChangePassword)

		appts := api.Group("/appointments")
		{
			appts.POST("", b.Appointments.Create)
			appts.GET("", b.Appointments.List)
			appts.GET("/archived", b.Appointments.Archived)
			appts.GET("/slots/:date", b.Appointments.Slots)
			appts.POST("/sweep", b.Appointments.Sweep)
			appts.GET("/:id", b.Appointments.Get)
			appts.PATCH("/:id", b.Appointments.Update)
			appts.PUT("/:id/reschedule", b.Appointments.Reschedule)
			appts.PUT("/:id/cancel", b.Appointments.Cancel)
			appts.GET("/:id/note", b.Notes.ByAppointment)
		}

		patients := api.Group("/patients")
		{
			patients.POST("", b.Patients.Create)
			patients.GET("", b.Patients.List)
			patients.GET("/:id", b.Patients.Get)
			patients.PUT("/:id", b.Patients.Update)
			patients.PUT("/:id/deactivate", b.Patients.Deactivate)
			patients.PUT("/:id/restore", b.Patients.Restore)
			patients.DELETE("/:id", middleware.RequireRole("superadmin"), b.Patients.HardDelete)
			patients.GET("/:id/appointments", b.Appointments.ByPatient)
			patients.GET("/:id/notes", b.Notes.ByPatient)
			patients.POST("/:id/cases", b.Patients.AddCase)
			patients.PUT("/:id/cases/:caseId/status", b.Patients.UpdateCaseStatus)
			patients.POST("/:id/cases/:caseId/notes", b.Patients.AddCaseNote)
			patients.POST("/:id/cases/:caseId/payments", b.Patients.AddCasePayment)
		}

		inquiries := api.Group("/inquiries")
		{
			inquiries.GET("", b.Inquiries.List)
			inquiries.GET("/stats", b.Inquiries.Stats)
			inquiries.GET("/:id", b.Inquiries.Get)
			inquiries.PUT("/:id/status", b.Inquiries.UpdateStatus)
			inquiries.PUT("/:id/archive", b.Inquiries.Archive)
			inquiries.PUT("/:id/restore", b.Inquiries.Restore)
			inquiries.POST("/:id/reply", b.Inquiries.Reply)
			inquiries.DELETE("/:id", middleware.RequireRole("superadmin"), b.Inquiries.Delete)
		}

		notes := api.Group("/notes")
		{
			notes.POST("", b.Notes.Create)
			notes.GET("/:id", b.Notes.Get)
			notes.PUT("/:id", b.Notes.Update)
			notes.DELETE("/:id", b.Notes.Delete)
		}

		api.GET("/logs", b.Logs.List)
		api.GET("/logs/stats", b.Logs.Stats)
		api.GET("/dashboard", b.Dashboard.Stats)
		api.GET("/dashboard/revenue-trend", b.Dashboard.RevenueTrend)
	}
}
