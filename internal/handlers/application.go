package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hireloop-dev/hireloop/internal/middleware"
	"github.com/hireloop-dev/hireloop/internal/services"
	"github.com/hireloop-dev/hireloop/internal/types"
	"github.com/hireloop-dev/hireloop/internal/utils"
)

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ApplicationHandler struct {
	applications *services.ApplicationService
}

func NewApplicationHandler(applications *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applications: applications}
}

// Apply handles POST /api/jobs/:job_id/apply.
func (h *ApplicationHandler) Apply(ctx *gin.Context) {
	caller, err := callerIdentity(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	jobID, err := utils.GetJobID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Job id is required"})
		return
	}

	application, err := h.applications.Apply(ctx.Request.Context(), jobID, caller)

	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Job applied successfully",
		"application": types.ApplicationSummary{
			ID:        application.ID,
			JobID:     application.JobID,
			Status:    application.Status,
			AppliedAt: application.CreatedAt,
		},
	})
}

// GetAppliedJobs handles GET /api/applications.
func (h *ApplicationHandler) GetAppliedJobs(ctx *gin.Context) {
	caller, err := callerIdentity(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	applications, err := h.applications.ListApplied(ctx.Request.Context(), caller)

	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "applications": applications})
}

// GetApplicants handles GET /api/jobs/:job_id/applicants.
func (h *ApplicationHandler) GetApplicants(ctx *gin.Context) {
	caller, err := callerIdentity(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	jobID, err := utils.GetJobID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid job id"})
		return
	}

	job, err := h.applications.ListApplicants(ctx.Request.Context(), jobID, caller)

	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "job": job})
}

// UpdateStatus handles PATCH /api/applications/:application_id/status.
// A failed notification enqueue shows up as a warning on an otherwise
// successful response.
func (h *ApplicationHandler) UpdateStatus(ctx *gin.Context) {
	caller, err := callerIdentity(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	applicationID, err := utils.GetApplicationID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid application id"})
		return
	}

	var req UpdateStatusRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Status is required"})
		return
	}

	result, warning, err := h.applications.Review(ctx.Request.Context(), applicationID, req.Status, caller)

	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	response := gin.H{
		"success":     true,
		"message":     "Status updated successfully",
		"application": result.Application,
		"job":         result.Job,
	}

	if warning != "" {
		response["warning"] = warning
	}

	ctx.JSON(http.StatusOK, response)
}

func callerIdentity(ctx *gin.Context) (services.Identity, error) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		return services.Identity{}, err
	}

	return identityFrom(user), nil
}

func identityFrom(user middleware.AuthenticatedUser) services.Identity {
	return services.Identity{
		ID:       user.ID,
		FullName: user.FullName,
		Email:    user.Email,
		Role:     user.Role,
	}
}

// respondDomainError maps the domain error taxonomy onto HTTP statuses.
func respondDomainError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, types.ErrInvalidInput):
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
	case errors.Is(err, types.ErrAlreadyApplied):
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "You have already applied for this job"})
	case errors.Is(err, types.ErrForbidden):
		ctx.JSON(http.StatusForbidden, gin.H{"success": false, "message": "You are not allowed to perform this action"})
	case errors.Is(err, types.ErrJobNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Job not found"})
	case errors.Is(err, types.ErrApplicationNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Application not found"})
	case errors.Is(err, types.ErrUnavailable):
		log.Printf("Store unavailable: %v", err)
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "Service temporarily unavailable"})
	default:
		log.Printf("Unexpected error: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
	}
}
