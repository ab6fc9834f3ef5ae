package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hireloop-dev/hireloop/internal/services"
	"github.com/hireloop-dev/hireloop/internal/store"
	"github.com/hireloop-dev/hireloop/internal/types"
	"github.com/hireloop-dev/hireloop/internal/utils"
)

type SendMailRequest struct {
	To      string `json:"to" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

const notificationPageSize = 50

type NotificationHandler struct {
	mailer        *services.Mailer
	notifications *store.NotificationStore
}

func NewNotificationHandler(mailer *services.Mailer, notifications *store.NotificationStore) *NotificationHandler {
	return &NotificationHandler{mailer: mailer, notifications: notifications}
}

// Send handles POST /api/notify, the dispatcher passthrough kept for
// compatibility with clients that still send mail directly. Reviews no
// longer depend on it.
func (h *NotificationHandler) Send(ctx *gin.Context) {
	var req SendMailRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "to, subject and message are required"})
		return
	}

	if err := h.mailer.Send(ctx.Request.Context(), req.To, req.Subject, req.Message); err != nil {
		log.Printf("Failed to send mail: %v", err)
		ctx.JSON(http.StatusBadGateway, gin.H{"success": false, "message": "Error sending email"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Email sent successfully"})
}

// List handles GET /api/notifications, the caller's recent notifications
// most-recent-first.
func (h *NotificationHandler) List(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	notifications, err := h.notifications.FindByUser(ctx.Request.Context(), userID, notificationPageSize)

	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	rows := make([]types.NotificationResponse, 0, len(notifications))

	for _, notification := range notifications {
		rows = append(rows, types.NotificationResponse{
			ID:        notification.ID,
			Channel:   notification.Channel,
			Status:    notification.Status,
			Subject:   notification.Subject,
			Message:   notification.Message,
			CreatedAt: notification.CreatedAt,
			SentAt:    notification.SentAt,
		})
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "notifications": rows})
}
