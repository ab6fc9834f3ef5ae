package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/hireloop-dev/hireloop/internal/models"
	"github.com/hireloop-dev/hireloop/internal/types"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ApplicationStore owns Application records and their status state machine.
type ApplicationStore struct {
	gdb *gorm.DB
}

func NewApplicationStore(gdb *gorm.DB) *ApplicationStore {
	return &ApplicationStore{gdb: gdb}
}

// FindByJobAndApplicant returns nil, nil when no application exists for the
// pair. Callers use it as a fast-path duplicate check only; Create is the
// authoritative guard.
func (s *ApplicationStore) FindByJobAndApplicant(ctx context.Context, jobID, applicantID uint) (*models.Application, error) {
	var application models.Application

	err := s.gdb.WithContext(ctx).
		Where("job_id = ? AND applicant_id = ?", jobID, applicantID).
		First(&application).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("%w: find application: %v", types.ErrUnavailable, err)
	}

	return &application, nil
}

// Create inserts a pending application. The composite unique index on
// (job_id, applicant_id) makes concurrent duplicate applies race to the
// INSERT; the loser's conflict is mapped to ErrAlreadyApplied.
func (s *ApplicationStore) Create(ctx context.Context, jobID, applicantID uint) (*models.Application, error) {
	application := models.Application{
		JobID:       jobID,
		ApplicantID: applicantID,
		Status:      types.StatusPending,
	}

	if err := s.gdb.WithContext(ctx).Create(&application).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, types.ErrAlreadyApplied
		}
		return nil, fmt.Errorf("%w: create application: %v", types.ErrUnavailable, err)
	}

	return &application, nil
}

// FindByApplicant returns the seeker's applications most-recent-first, each
// with its job and the job's company resolved for display.
func (s *ApplicationStore) FindByApplicant(ctx context.Context, applicantID uint) ([]models.Application, error) {
	var applications []models.Application

	err := s.gdb.WithContext(ctx).
		Preload("Job").
		Preload("Job.Company").
		Where("applicant_id = ?", applicantID).
		Order("created_at DESC, id DESC").
		Find(&applications).Error

	if err != nil {
		return nil, fmt.Errorf("%w: list applications: %v", types.ErrUnavailable, err)
	}

	return applications, nil
}

// FindByID resolves the applicant so review and notification can use the
// profile without a second lookup.
func (s *ApplicationStore) FindByID(ctx context.Context, id uint) (*models.Application, error) {
	var application models.Application

	err := s.gdb.WithContext(ctx).
		Preload("Applicant").
		First(&application, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.ErrApplicationNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("%w: find application: %v", types.ErrUnavailable, err)
	}

	return &application, nil
}

// UpdateStatus is a pure data update; dispatching the status-change
// notification is the service's job so the two stay independently testable.
func (s *ApplicationStore) UpdateStatus(ctx context.Context, id uint, status string) (*models.Application, error) {
	application, err := s.FindByID(ctx, id)

	if err != nil {
		return nil, err
	}

	// Update by primary key so the applicant loaded by FindByID is not
	// written back alongside the status.
	err = s.gdb.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ?", id).
		Update("status", status).Error

	if err != nil {
		return nil, fmt.Errorf("%w: update status: %v", types.ErrUnavailable, err)
	}

	application.Status = status
	return application, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error

	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	return errors.Is(err, gorm.ErrDuplicatedKey)
}
