package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hireloop-dev/hireloop/internal/models"
	"github.com/hireloop-dev/hireloop/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEpoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// memApplications mimics the store contract in memory, including the unique
// (job, applicant) constraint, so the service can be exercised without a
// database.
type memApplications struct {
	mu     sync.Mutex
	nextID uint
	byID   map[uint]*models.Application
}

func newMemApplications() *memApplications {
	return &memApplications{byID: make(map[uint]*models.Application)}
}

func (m *memApplications) seed(application models.Application) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if application.ID > m.nextID {
		m.nextID = application.ID
	}
	copied := application
	m.byID[application.ID] = &copied
}

func (m *memApplications) FindByJobAndApplicant(_ context.Context, jobID, applicantID uint) (*models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, application := range m.byID {
		if application.JobID == jobID && application.ApplicantID == applicantID {
			copied := *application
			return &copied, nil
		}
	}

	return nil, nil
}

func (m *memApplications) Create(_ context.Context, jobID, applicantID uint) (*models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, application := range m.byID {
		if application.JobID == jobID && application.ApplicantID == applicantID {
			return nil, types.ErrAlreadyApplied
		}
	}

	m.nextID++
	application := &models.Application{
		JobID:       jobID,
		ApplicantID: applicantID,
		Status:      types.StatusPending,
	}
	application.ID = m.nextID
	application.CreatedAt = testEpoch.Add(time.Duration(m.nextID) * time.Minute)
	m.byID[application.ID] = application

	copied := *application
	return &copied, nil
}

func (m *memApplications) FindByApplicant(_ context.Context, applicantID uint) ([]models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []models.Application
	for _, application := range m.byID {
		if application.ApplicantID == applicantID {
			result = append(result, *application)
		}
	}

	// most-recent-first
	for i := 0; i < len(result); i++ {
		for j := i + 1; j < len(result); j++ {
			if result[j].CreatedAt.After(result[i].CreatedAt) {
				result[i], result[j] = result[j], result[i]
			}
		}
	}

	return result, nil
}

func (m *memApplications) FindByID(_ context.Context, id uint) (*models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	application, exists := m.byID[id]
	if !exists {
		return nil, types.ErrApplicationNotFound
	}

	copied := *application
	return &copied, nil
}

func (m *memApplications) UpdateStatus(_ context.Context, id uint, status string) (*models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	application, exists := m.byID[id]
	if !exists {
		return nil, types.ErrApplicationNotFound
	}

	application.Status = status
	copied := *application
	return &copied, nil
}

type memJobs struct {
	mu   sync.Mutex
	byID map[uint]*models.Job
}

func newMemJobs() *memJobs {
	return &memJobs{byID: make(map[uint]*models.Job)}
}

func (m *memJobs) seed(job models.Job) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := job
	m.byID[job.ID] = &copied
}

func (m *memJobs) FindByID(_ context.Context, id uint) (*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.byID[id]
	if !exists {
		return nil, types.ErrJobNotFound
	}

	copied := *job
	return &copied, nil
}

func (m *memJobs) FindByIDWithApplicants(ctx context.Context, id uint) (*models.Job, error) {
	return m.FindByID(ctx, id)
}

type fakeNotifier struct {
	mu     sync.Mutex
	accept bool
	events []StatusChangeEvent
}

func (f *fakeNotifier) Enqueue(event StatusChangeEvent) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.accept {
		return false
	}

	f.events = append(f.events, event)
	return true
}

func (f *fakeNotifier) received() []StatusChangeEvent {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]StatusChangeEvent(nil), f.events...)
}

func newTestService() (*ApplicationService, *memApplications, *memJobs, *fakeNotifier) {
	applications := newMemApplications()
	jobs := newMemJobs()
	notifier := &fakeNotifier{accept: true}

	return NewApplicationService(applications, jobs, notifier), applications, jobs, notifier
}

func seedJob(jobs *memJobs, id uint) {
	job := models.Job{
		Title:      "Backend Engineer",
		Location:   "Berlin",
		CompanyID:  1,
		PostedByID: 42,
		Company:    models.Company{Name: "Acme"},
	}
	job.ID = id
	job.Company.ID = 1
	jobs.seed(job)
}

var (
	seeker   = Identity{ID: 7, FullName: "Sam Seeker", Email: "sam@example.com", Role: types.RoleJobSeeker}
	employer = Identity{ID: 42, FullName: "Erin Employer", Email: "erin@example.com", Role: types.RoleEmployer}
)

func TestApply(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending application", func(t *testing.T) {
		svc, _, jobs, _ := newTestService()
		seedJob(jobs, 1)

		application, err := svc.Apply(ctx, 1, seeker)
		require.NoError(t, err)
		assert.Equal(t, types.StatusPending, application.Status)
		assert.Equal(t, uint(1), application.JobID)
		assert.Equal(t, seeker.ID, application.ApplicantID)
	})

	t.Run("rejects employers", func(t *testing.T) {
		svc, _, jobs, _ := newTestService()
		seedJob(jobs, 1)

		_, err := svc.Apply(ctx, 1, employer)
		assert.ErrorIs(t, err, types.ErrForbidden)
	})

	t.Run("rejects a missing job id", func(t *testing.T) {
		svc, _, _, _ := newTestService()

		_, err := svc.Apply(ctx, 0, seeker)
		assert.ErrorIs(t, err, types.ErrInvalidInput)
	})

	t.Run("rejects an unknown job", func(t *testing.T) {
		svc, _, _, _ := newTestService()

		_, err := svc.Apply(ctx, 99, seeker)
		assert.ErrorIs(t, err, types.ErrJobNotFound)
	})

	t.Run("rejects a duplicate application", func(t *testing.T) {
		svc, _, jobs, _ := newTestService()
		seedJob(jobs, 1)

		_, err := svc.Apply(ctx, 1, seeker)
		require.NoError(t, err)

		_, err = svc.Apply(ctx, 1, seeker)
		assert.ErrorIs(t, err, types.ErrAlreadyApplied)
	})

	t.Run("allows the same seeker on different jobs", func(t *testing.T) {
		svc, _, jobs, _ := newTestService()
		seedJob(jobs, 1)
		seedJob(jobs, 2)

		_, err := svc.Apply(ctx, 1, seeker)
		require.NoError(t, err)

		_, err = svc.Apply(ctx, 2, seeker)
		require.NoError(t, err)
	})
}

func TestApplyConcurrentDuplicates(t *testing.T) {
	ctx := context.Background()
	svc, applications, jobs, _ := newTestService()
	seedJob(jobs, 1)

	const callers = 16

	var wg sync.WaitGroup
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			_, errs[slot] = svc.Apply(ctx, 1, seeker)
		}(i)
	}

	wg.Wait()

	var created, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			created++
		case errors.Is(err, types.ErrAlreadyApplied):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, created)
	assert.Equal(t, callers-1, rejected)

	stored, err := applications.FindByApplicant(ctx, seeker.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestListApplied(t *testing.T) {
	ctx := context.Background()
	svc, _, jobs, _ := newTestService()
	seedJob(jobs, 1)
	seedJob(jobs, 2)
	seedJob(jobs, 3)

	for _, jobID := range []uint{1, 2, 3} {
		_, err := svc.Apply(ctx, jobID, seeker)
		require.NoError(t, err)
	}

	rows, err := svc.ListApplied(ctx, seeker)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// most-recent-first
	for i := 1; i < len(rows); i++ {
		assert.True(t, !rows[i].AppliedAt.After(rows[i-1].AppliedAt),
			"expected descending applied_at, got %v before %v", rows[i-1].AppliedAt, rows[i].AppliedAt)
	}

	empty, err := svc.ListApplied(ctx, Identity{ID: 999, Role: types.RoleJobSeeker})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestListApplicants(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects seekers", func(t *testing.T) {
		svc, _, jobs, _ := newTestService()
		seedJob(jobs, 1)

		_, err := svc.ListApplicants(ctx, 1, seeker)
		assert.ErrorIs(t, err, types.ErrForbidden)
	})

	t.Run("unknown job", func(t *testing.T) {
		svc, _, _, _ := newTestService()

		_, err := svc.ListApplicants(ctx, 5, employer)
		assert.ErrorIs(t, err, types.ErrJobNotFound)
	})

	t.Run("returns resolved applicants", func(t *testing.T) {
		svc, _, jobs, _ := newTestService()

		applicant := models.User{FullName: "Sam Seeker", Email: "sam@example.com", Role: types.RoleJobSeeker}
		applicant.ID = 7

		application := models.Application{JobID: 1, ApplicantID: 7, Status: types.StatusPending, Applicant: applicant}
		application.ID = 11
		application.CreatedAt = testEpoch

		job := models.Job{Title: "Backend Engineer", Location: "Berlin", PostedByID: employer.ID,
			Company: models.Company{Name: "Acme"}, Applications: []models.Application{application}}
		job.ID = 1
		jobs.seed(job)

		result, err := svc.ListApplicants(ctx, 1, employer)
		require.NoError(t, err)
		assert.Equal(t, "Backend Engineer", result.Job.Title)
		require.Len(t, result.Applicants, 1)
		assert.Equal(t, "Sam Seeker", result.Applicants[0].Applicant.FullName)
		assert.Equal(t, types.StatusPending, result.Applicants[0].Status)
	})

	t.Run("other employers may still list", func(t *testing.T) {
		svc, _, jobs, _ := newTestService()
		seedJob(jobs, 1)

		other := Identity{ID: 500, Role: types.RoleEmployer}
		_, err := svc.ListApplicants(ctx, 1, other)
		assert.NoError(t, err)
	})
}

func seedReviewFixture(applications *memApplications, jobs *memJobs) {
	seedJob(jobs, 1)

	applicant := models.User{FullName: "Sam Seeker", Email: "sam@example.com", Role: types.RoleJobSeeker}
	applicant.ID = seeker.ID

	application := models.Application{JobID: 1, ApplicantID: seeker.ID, Status: types.StatusPending, Applicant: applicant}
	application.ID = 11
	application.CreatedAt = testEpoch
	applications.seed(application)
}

func TestReview(t *testing.T) {
	ctx := context.Background()

	t.Run("accepts an application and notifies", func(t *testing.T) {
		svc, applications, jobs, notifier := newTestService()
		seedReviewFixture(applications, jobs)

		result, warning, err := svc.Review(ctx, 11, types.StatusAccepted, employer)
		require.NoError(t, err)
		assert.Empty(t, warning)
		assert.Equal(t, types.StatusAccepted, result.Application.Status)
		assert.Equal(t, "Backend Engineer", result.Job.Title)

		stored, err := applications.FindByID(ctx, 11)
		require.NoError(t, err)
		assert.Equal(t, types.StatusAccepted, stored.Status)

		events := notifier.received()
		require.Len(t, events, 1)
		assert.Equal(t, "sam@example.com", events[0].Email)
		assert.Equal(t, "Backend Engineer", events[0].JobTitle)
		assert.Equal(t, types.StatusAccepted, events[0].Status)
	})

	t.Run("rejects an unknown status", func(t *testing.T) {
		svc, applications, jobs, _ := newTestService()
		seedReviewFixture(applications, jobs)

		_, _, err := svc.Review(ctx, 11, "Approved", employer)
		assert.ErrorIs(t, err, types.ErrInvalidInput)

		stored, findErr := applications.FindByID(ctx, 11)
		require.NoError(t, findErr)
		assert.Equal(t, types.StatusPending, stored.Status, "no mutation on invalid status")
	})

	t.Run("rejects seekers", func(t *testing.T) {
		svc, applications, jobs, _ := newTestService()
		seedReviewFixture(applications, jobs)

		_, _, err := svc.Review(ctx, 11, types.StatusAccepted, seeker)
		assert.ErrorIs(t, err, types.ErrForbidden)
	})

	t.Run("unknown application", func(t *testing.T) {
		svc, _, _, _ := newTestService()

		_, _, err := svc.Review(ctx, 1234, types.StatusAccepted, employer)
		assert.ErrorIs(t, err, types.ErrApplicationNotFound)
	})

	t.Run("application whose job was removed", func(t *testing.T) {
		svc, applications, _, _ := newTestService()

		applicant := models.User{Email: "sam@example.com"}
		applicant.ID = seeker.ID
		orphan := models.Application{JobID: 77, ApplicantID: seeker.ID, Status: types.StatusPending, Applicant: applicant}
		orphan.ID = 12
		applications.seed(orphan)

		_, _, err := svc.Review(ctx, 12, types.StatusAccepted, employer)
		assert.ErrorIs(t, err, types.ErrJobNotFound)
	})

	t.Run("is idempotent on the data effect", func(t *testing.T) {
		svc, applications, jobs, notifier := newTestService()
		seedReviewFixture(applications, jobs)

		_, _, err := svc.Review(ctx, 11, types.StatusRejected, employer)
		require.NoError(t, err)

		_, _, err = svc.Review(ctx, 11, types.StatusRejected, employer)
		require.NoError(t, err)

		stored, err := applications.FindByID(ctx, 11)
		require.NoError(t, err)
		assert.Equal(t, types.StatusRejected, stored.Status)

		// the notification may fire per review; the status may not drift
		assert.Len(t, notifier.received(), 2)
	})

	t.Run("allows resetting to pending", func(t *testing.T) {
		svc, applications, jobs, _ := newTestService()
		seedReviewFixture(applications, jobs)

		_, _, err := svc.Review(ctx, 11, types.StatusAccepted, employer)
		require.NoError(t, err)

		_, _, err = svc.Review(ctx, 11, types.StatusPending, employer)
		require.NoError(t, err)

		stored, err := applications.FindByID(ctx, 11)
		require.NoError(t, err)
		assert.Equal(t, types.StatusPending, stored.Status)
	})

	t.Run("surfaces a warning when the notification is not scheduled", func(t *testing.T) {
		svc, applications, jobs, notifier := newTestService()
		seedReviewFixture(applications, jobs)
		notifier.accept = false

		result, warning, err := svc.Review(ctx, 11, types.StatusAccepted, employer)
		require.NoError(t, err, "notification failure must not fail the review")
		assert.NotEmpty(t, warning)
		assert.Equal(t, types.StatusAccepted, result.Application.Status)

		stored, err := applications.FindByID(ctx, 11)
		require.NoError(t, err)
		assert.Equal(t, types.StatusAccepted, stored.Status, "status change stands")
	})

	t.Run("warns when the applicant has no email", func(t *testing.T) {
		svc, applications, jobs, notifier := newTestService()
		seedJob(jobs, 1)

		application := models.Application{JobID: 1, ApplicantID: 8, Status: types.StatusPending}
		application.ID = 13
		applications.seed(application)

		_, warning, err := svc.Review(ctx, 13, types.StatusAccepted, employer)
		require.NoError(t, err)
		assert.NotEmpty(t, warning)
		assert.Empty(t, notifier.received())
	})
}
