package types

import (
	"os"
	"strings"
)

const ContextUserKey = "user"

const (
	RoleJobSeeker = "job_seeker"
	RoleEmployer  = "employer"
)

const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

const (
	ChannelEmail = "email"
	ChannelInApp = "in_app"
)

const (
	DeliverySent   = "sent"
	DeliveryFailed = "failed"
)

// IsValidRole reports whether role is one of the two account roles.
func IsValidRole(role string) bool {
	return role == RoleJobSeeker || role == RoleEmployer
}

// IsValidStatus reports whether status is a known application status.
// "pending" is included so a review can reset an application.
func IsValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

var (
	// Default allowed origins for development
	defaultOrigins = []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}

	AllowedOrigins = initAllowedOrigins()
)

func initAllowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		envOrigins := strings.Split(allowedOrigins, ",")
		for _, origin := range envOrigins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}
