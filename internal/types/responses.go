package types

import "time"

type UserResponse struct {
	ID          uint            `json:"id"`
	FullName    string          `json:"fullname"`
	Email       string          `json:"email"`
	PhoneNumber string          `json:"phone_number"`
	Role        string          `json:"role"`
	Profile     ProfileResponse `json:"profile"`
}

type ProfileResponse struct {
	Bio        string   `json:"bio"`
	Skills     []string `json:"skills"`
	ResumeURL  string   `json:"resume_url,omitempty"`
	ResumeName string   `json:"resume_name,omitempty"`
}

type CompanySummary struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

type JobSummary struct {
	ID       uint           `json:"id"`
	Title    string         `json:"title"`
	Location string         `json:"location"`
	Company  CompanySummary `json:"company"`
}

// AppliedJobResponse is one row of a seeker's application history, with the
// job and its company resolved for display.
type AppliedJobResponse struct {
	ID        uint       `json:"id"`
	Status    string     `json:"status"`
	AppliedAt time.Time  `json:"applied_at"`
	Job       JobSummary `json:"job"`
}

// ApplicantRow is one row of an employer's review list, with the applicant's
// profile resolved.
type ApplicantRow struct {
	ID        uint         `json:"id"`
	Status    string       `json:"status"`
	AppliedAt time.Time    `json:"applied_at"`
	Applicant UserResponse `json:"applicant"`
}

type JobApplicantsResponse struct {
	Job        JobSummary     `json:"job"`
	Applicants []ApplicantRow `json:"applications"`
}

type ReviewResponse struct {
	Application ApplicationSummary `json:"application"`
	Job         JobSummary         `json:"job"`
}

type ApplicationSummary struct {
	ID        uint      `json:"id"`
	JobID     uint      `json:"job_id"`
	Status    string    `json:"status"`
	AppliedAt time.Time `json:"applied_at"`
}

type NotificationResponse struct {
	ID        uint       `json:"id"`
	Channel   string     `json:"channel"`
	Status    string     `json:"status"`
	Subject   string     `json:"subject"`
	Message   string     `json:"message"`
	CreatedAt time.Time  `json:"created_at"`
	SentAt    *time.Time `json:"sent_at"`
}
