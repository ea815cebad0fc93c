package handler

import (
	"github.com/dafibh/committee/committee-backend/internal/idempotency"
	"github.com/dafibh/committee/committee-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// Handlers groups every HTTP handler registered by RegisterRoutes
type Handlers struct {
	Auth         *AuthHandler
	Profile      *ProfileHandler
	Committee    *CommitteeHandler
	JoinRequest  *JoinRequestHandler
	Payout       *PayoutHandler
	Payment      *PaymentHandler
	Notification *NotificationHandler
	Upload       *UploadHandler
}

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, replayStore *idempotency.Store, h Handlers) {
	// API version 1
	api := e.Group("/api/v1")

	// The callback runs before the user exists, so it only needs a valid token
	auth := api.Group("/auth")
	auth.POST("/callback", h.Auth.Callback, authMiddleware.AuthenticateToken())
	auth.GET("/me", h.Auth.Me, authMiddleware.Authenticate())
	auth.POST("/logout", h.Auth.Logout, authMiddleware.Authenticate())

	// Everything else requires a registered user
	protected := api.Group("",
		authMiddleware.Authenticate(),
		middleware.RateLimitMiddleware(rateLimiter),
		idempotency.Middleware(replayStore),
	)

	// Profile routes
	profile := protected.Group("/profile")
	profile.GET("", h.Profile.GetProfile)
	profile.PUT("", h.Profile.UpdateProfile)
	profile.POST("/verification", h.Profile.SubmitVerification)

	// Committee routes
	committees := protected.Group("/committees")
	committees.GET("/available", h.Committee.ListAvailable)
	committees.GET("/mine", h.Committee.ListMine)
	committees.GET("/:id", h.Committee.GetCommittee)
	committees.GET("/:id/members", h.Committee.GetMembers)
	committees.GET("/:id/slots", h.Committee.GetSlots)
	committees.GET("/:id/slots/:slot", h.Committee.CheckSlot)
	committees.GET("/:id/fees", h.Committee.GetFees)
	protected.GET("/fees/estimate", h.Committee.EstimateFees)

	// Join request routes
	joinRequests := protected.Group("/join-requests")
	joinRequests.POST("", h.JoinRequest.CreateJoinRequest)
	joinRequests.GET("/mine", h.JoinRequest.ListMine)
	joinRequests.DELETE("/:id", h.JoinRequest.DeleteJoinRequest)

	// Payout routes
	payouts := protected.Group("/payouts")
	payouts.GET("/mine", h.Payout.ListMine)
	payouts.GET("/preview", h.Payout.PreviewPayout)

	// Payment routes
	payments := protected.Group("/payments")
	payments.POST("", h.Payment.SubmitPayment)
	payments.GET("/mine", h.Payment.ListMine)

	// Notification routes
	notifications := protected.Group("/notifications")
	notifications.GET("", h.Notification.List)
	notifications.GET("/unread-count", h.Notification.UnreadCount)
	notifications.PATCH("/read-all", h.Notification.MarkAllRead)
	notifications.PATCH("/:id/read", h.Notification.MarkRead)

	// Upload routes
	uploads := protected.Group("/uploads")
	uploads.POST("/receipts", h.Upload.UploadReceipt)
	uploads.POST("/documents", h.Upload.UploadDocument)
	uploads.GET("/url", h.Upload.GetURL)

	// Admin routes
	admin := protected.Group("/admin", middleware.RequireAdmin())
	admin.GET("/users", h.Profile.ListUsers)
	admin.GET("/verifications/pending", h.Profile.ListPendingVerifications)
	admin.POST("/users/:id/verification", h.Profile.ReviewVerification)

	admin.GET("/committees", h.Committee.ListCommittees)
	admin.POST("/committees", h.Committee.CreateCommittee)
	admin.PUT("/committees/:id", h.Committee.UpdateCommittee)
	admin.DELETE("/committees/:id", h.Committee.DeleteCommittee)
	admin.POST("/committees/:id/reminders", h.Payment.SendReminders)

	admin.GET("/join-requests", h.JoinRequest.ListAll)
	admin.GET("/join-requests/pending", h.JoinRequest.ListPending)
	admin.POST("/join-requests/:id/approve", h.JoinRequest.Approve)
	admin.POST("/join-requests/:id/reject", h.JoinRequest.Reject)

	admin.GET("/payouts", h.Payout.ListAll)
	admin.POST("/payouts", h.Payout.CreatePayout)
	admin.POST("/payouts/:id/complete", h.Payout.Complete)
	admin.PUT("/payouts/:id/receipt", h.Payout.AttachReceipt)
	admin.DELETE("/payouts/:id", h.Payout.DeletePayout)

	admin.GET("/payments", h.Payment.ListAll)
	admin.GET("/payments/pending", h.Payment.ListPending)
	admin.POST("/payments/:id/approve", h.Payment.Approve)
	admin.POST("/payments/:id/reject", h.Payment.Reject)
	admin.DELETE("/payments/:id", h.Payment.DeletePayment)
}
