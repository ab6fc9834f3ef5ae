package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/hireloop-dev/hireloop/internal/models"
	"github.com/hireloop-dev/hireloop/internal/types"
	"gorm.io/gorm"
)

// JobStore is the read side of the job catalog. Postings are created out of
// band; this core only looks them up.
type JobStore struct {
	gdb *gorm.DB
}

func NewJobStore(gdb *gorm.DB) *JobStore {
	return &JobStore{gdb: gdb}
}

func (s *JobStore) FindByID(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job

	err := s.gdb.WithContext(ctx).
		Preload("Company").
		First(&job, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.ErrJobNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("%w: find job: %v", types.ErrUnavailable, err)
	}

	return &job, nil
}

// FindByIDWithApplicants loads the job's backlink list most-recent-first
// with each applicant resolved, for employer review.
func (s *JobStore) FindByIDWithApplicants(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job

	err := s.gdb.WithContext(ctx).
		Preload("Company").
		Preload("Applications", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("applications.created_at DESC, applications.id DESC")
		}).
		Preload("Applications.Applicant").
		First(&job, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.ErrJobNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("%w: find job applicants: %v", types.ErrUnavailable, err)
	}

	return &job, nil
}
