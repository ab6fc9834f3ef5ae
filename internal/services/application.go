package services

import (
	"context"
	"errors"
	"log"

	"github.com/hireloop-dev/hireloop/internal/models"
	"github.com/hireloop-dev/hireloop/internal/types"
)

// Identity is the authenticated caller as the services see it.
type Identity struct {
	ID       uint
	FullName string
	Email    string
	Role     string
}

// ApplicationStore is the persistence boundary for applications. The GORM
// implementation lives in internal/store; tests substitute a memory fake.
type ApplicationStore interface {
	FindByJobAndApplicant(ctx context.Context, jobID, applicantID uint) (*models.Application, error)
	Create(ctx context.Context, jobID, applicantID uint) (*models.Application, error)
	FindByApplicant(ctx context.Context, applicantID uint) ([]models.Application, error)
	FindByID(ctx context.Context, id uint) (*models.Application, error)
	UpdateStatus(ctx context.Context, id uint, status string) (*models.Application, error)
}

type JobStore interface {
	FindByID(ctx context.Context, id uint) (*models.Job, error)
	FindByIDWithApplicants(ctx context.Context, id uint) (*models.Job, error)
}

// Notifier schedules a status-change notification. Enqueue reports whether
// the event was accepted; a false return is surfaced to the caller as a
// warning, never as a failure of the review itself.
type Notifier interface {
	Enqueue(event StatusChangeEvent) bool
}

// ApplicationService orchestrates the application lifecycle: apply, list,
// review, notify. Role checks happen here, once, before any store access.
type ApplicationService struct {
	applications ApplicationStore
	jobs         JobStore
	notifier     Notifier
}

func NewApplicationService(applications ApplicationStore, jobs JobStore, notifier Notifier) *ApplicationService {
	return &ApplicationService{
		applications: applications,
		jobs:         jobs,
		notifier:     notifier,
	}
}

// Apply creates a pending application for the caller. The duplicate check
// here is a fast path; the store's unique constraint settles concurrent
// applies for the same pair.
func (s *ApplicationService) Apply(ctx context.Context, jobID uint, caller Identity) (*models.Application, error) {
	if caller.Role != types.RoleJobSeeker {
		return nil, types.ErrForbidden
	}

	if jobID == 0 {
		return nil, types.ErrInvalidInput
	}

	existing, err := s.applications.FindByJobAndApplicant(ctx, jobID, caller.ID)

	if err != nil {
		return nil, err
	}

	if existing != nil {
		return nil, types.ErrAlreadyApplied
	}

	if _, err := s.jobs.FindByID(ctx, jobID); err != nil {
		return nil, err
	}

	return s.applications.Create(ctx, jobID, caller.ID)
}

// ListApplied returns the caller's applications most-recent-first with job
// and company resolved. Any authenticated user may call it; an empty list
// is a success.
func (s *ApplicationService) ListApplied(ctx context.Context, caller Identity) ([]types.AppliedJobResponse, error) {
	applications, err := s.applications.FindByApplicant(ctx, caller.ID)

	if err != nil {
		return nil, err
	}

	rows := make([]types.AppliedJobResponse, 0, len(applications))

	for _, application := range applications {
		rows = append(rows, types.AppliedJobResponse{
			ID:        application.ID,
			Status:    application.Status,
			AppliedAt: application.CreatedAt,
			Job:       jobSummary(&application.Job),
		})
	}

	return rows, nil
}

// ListApplicants returns a job with its applications resolved for review.
// Any employer may view any job's applicants; cross-employer access is
// logged rather than rejected to match the observed contract.
func (s *ApplicationService) ListApplicants(ctx context.Context, jobID uint, caller Identity) (*types.JobApplicantsResponse, error) {
	if caller.Role != types.RoleEmployer {
		return nil, types.ErrForbidden
	}

	if jobID == 0 {
		return nil, types.ErrInvalidInput
	}

	job, err := s.jobs.FindByIDWithApplicants(ctx, jobID)

	if err != nil {
		return nil, err
	}

	if job.PostedByID != caller.ID {
		log.Printf("employer %d listed applicants for job %d owned by employer %d", caller.ID, job.ID, job.PostedByID)
	}

	applicants := make([]types.ApplicantRow, 0, len(job.Applications))

	for _, application := range job.Applications {
		applicants = append(applicants, types.ApplicantRow{
			ID:        application.ID,
			Status:    application.Status,
			AppliedAt: application.CreatedAt,
			Applicant: userResponse(&application.Applicant),
		})
	}

	return &types.JobApplicantsResponse{
		Job:        jobSummary(job),
		Applicants: applicants,
	}, nil
}

// Review transitions an application's status and schedules the applicant's
// notification. The returned warning is non-empty when the notification
// could not be scheduled; the status change stands regardless.
func (s *ApplicationService) Review(ctx context.Context, applicationID uint, status string, caller Identity) (*types.ReviewResponse, string, error) {
	if !types.IsValidStatus(status) {
		return nil, "", types.ErrInvalidInput
	}

	if caller.Role != types.RoleEmployer {
		return nil, "", types.ErrForbidden
	}

	if applicationID == 0 {
		return nil, "", types.ErrInvalidInput
	}

	application, err := s.applications.FindByID(ctx, applicationID)

	if err != nil {
		return nil, "", err
	}

	job, err := s.jobs.FindByID(ctx, application.JobID)

	if err != nil {
		if errors.Is(err, types.ErrJobNotFound) {
			log.Printf("integrity anomaly: application %d references missing job %d", application.ID, application.JobID)
		}
		return nil, "", err
	}

	updated, err := s.applications.UpdateStatus(ctx, application.ID, status)

	if err != nil {
		return nil, "", err
	}

	warning := s.notifyStatusChange(application, job, status)

	return &types.ReviewResponse{
		Application: types.ApplicationSummary{
			ID:        updated.ID,
			JobID:     updated.JobID,
			Status:    status,
			AppliedAt: updated.CreatedAt,
		},
		Job: jobSummary(job),
	}, warning, nil
}

func (s *ApplicationService) notifyStatusChange(application *models.Application, job *models.Job, status string) string {
	if application.Applicant.Email == "" {
		log.Printf("no email on applicant %d, skipping notification for application %d", application.ApplicantID, application.ID)
		return "status updated, but the applicant has no notification address"
	}

	accepted := s.notifier.Enqueue(StatusChangeEvent{
		ApplicationID: application.ID,
		ApplicantID:   application.ApplicantID,
		ApplicantName: application.Applicant.FullName,
		Email:         application.Applicant.Email,
		JobID:         job.ID,
		JobTitle:      job.Title,
		JobLocation:   job.Location,
		Status:        status,
	})

	if !accepted {
		log.Printf("notification for application %d was not accepted by the dispatcher", application.ID)
		return "status updated, but the notification could not be scheduled"
	}

	return ""
}

func jobSummary(job *models.Job) types.JobSummary {
	return types.JobSummary{
		ID:       job.ID,
		Title:    job.Title,
		Location: job.Location,
		Company: types.CompanySummary{
			ID:       job.Company.ID,
			Name:     job.Company.Name,
			Location: job.Company.Location,
		},
	}
}

func userResponse(user *models.User) types.UserResponse {
	return types.UserResponse{
		ID:          user.ID,
		FullName:    user.FullName,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		Role:        user.Role,
		Profile: types.ProfileResponse{
			Bio:        user.Profile.Bio,
			Skills:     user.Profile.Skills,
			ResumeURL:  user.Profile.ResumeURL,
			ResumeName: user.Profile.ResumeName,
		},
	}
}
