package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hireloop-dev/hireloop/internal/services"
	"gorm.io/gorm"
)

type HealthHandler struct {
	gdb    *gorm.DB
	mailer *services.Mailer
}

func NewHealthHandler(gdb *gorm.DB, mailer *services.Mailer) *HealthHandler {
	return &HealthHandler{gdb: gdb, mailer: mailer}
}

// Check reports liveness plus the reachability of the two dependencies with
// their own failure domains: the database and the mail dispatcher.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	database := "up"

	sqlDB, err := h.gdb.DB()
	if err != nil || sqlDB.PingContext(ctx) != nil {
		database = "down"
	}

	mailer := "up"

	if err := h.mailer.Ping(ctx); err != nil {
		mailer = "down"
	}

	c.JSON(200, gin.H{
		"status":    "ok",
		"database":  database,
		"mailer":    mailer,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
