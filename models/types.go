package models

import "time"

// ServiceOther is the service id that requires a free-text description
const ServiceOther = "other"

// Rating bounds for staff and process ratings
const (
	MinRating = 1
	MaxRating = 5
)

// MinCompletionSeconds is the fastest a human is expected to fill the form
const MinCompletionSeconds = 30

// UnknownIP is stored when the client address could not be determined
const UnknownIP = "unknown"

// Attempt outcomes recorded in the local ledger
const (
	OutcomeAccepted  = "accepted"
	OutcomeRejected  = "rejected"
	OutcomeThrottled = "throttled"
	OutcomeFailed    = "failed"
)

// Request types

// Environment carries the browser signals used for fingerprinting
type Environment struct {
	UserAgent        string `json:"user_agent"`
	ScreenResolution string `json:"screen_resolution"`
	TimezoneOffset   int    `json:"timezone_offset"`
	Locale           string `json:"locale"`
	Platform         string `json:"platform"`
	Canvas           string `json:"canvas"`
}

// ExperienceForm is what the citizen fills in
type ExperienceForm struct {
	Province     string   `json:"province"`
	District     string   `json:"district"`
	Ward         string   `json:"ward,omitempty"`
	OfficeType   string   `json:"office_type"`
	Services     []string `json:"services"`
	ServiceOther string   `json:"service_other,omitempty"`
	WaitMinutes  int      `json:"wait_minutes"`
	Mood         string   `json:"mood,omitempty"`

	StaffRating   int `json:"staff_rating"`
	ProcessRating int `json:"process_rating"`

	BribeRequested     bool `json:"bribe_requested"`
	UsedMiddleman      bool `json:"used_middleman"`
	ExtraDocuments     bool `json:"extra_documents"`
	RedundantDataEntry bool `json:"redundant_data_entry"`
}

type SubmitExperienceRequest struct {
	ExperienceForm
	Environment Environment `json:"environment"`
	// FormToken may also be sent as the X-Form-Token header
	FormToken string `json:"form_token,omitempty"`
}

// Response types

type StartFormResponse struct {
	FormToken            string    `json:"form_token"`
	IssuedAt             time.Time `json:"issued_at"`
	MinCompletionSeconds int       `json:"min_completion_seconds"`
}

// SubmitResult is the structured outcome reported to the widget
type SubmitResult struct {
	Success  bool     `json:"success"`
	ID       string   `json:"id,omitempty"`
	Error    string   `json:"error,omitempty"`
	Problems []string `json:"problems,omitempty"`
	Outcome  string   `json:"-"`
}

type StatsResponse struct {
	Since    time.Time      `json:"since"`
	Outcomes map[string]int `json:"outcomes"`
}

// Domain types

// OfficeExperience is the row written to the office_experiences table.
// Optional text columns are pointers so they serialize as null.
type OfficeExperience struct {
	Province     string   `json:"province"`
	District     string   `json:"district"`
	Ward         *string  `json:"ward"`
	OfficeType   string   `json:"office_type"`
	Services     []string `json:"services"`
	ServiceOther *string  `json:"service_other"`
	WaitMinutes  int      `json:"wait_minutes"`
	Mood         string   `json:"mood"`

	StaffRating   int `json:"staff_rating"`
	ProcessRating int `json:"process_rating"`

	BribeRequested     bool `json:"bribe_requested"`
	UsedMiddleman      bool `json:"used_middleman"`
	ExtraDocuments     bool `json:"extra_documents"`
	RedundantDataEntry bool `json:"redundant_data_entry"`

	IPAddress         string `json:"ip_address"`
	UserAgent         string `json:"user_agent"`
	CompletionSeconds int    `json:"completion_seconds"`
	Fingerprint       string `json:"fingerprint"`
}

// UserSession is the row written to the user_sessions table
type UserSession struct {
	IPAddress   string `json:"ip_address"`
	Fingerprint string `json:"fingerprint"`
}

// Attempt is one row of the local submission ledger
type Attempt struct {
	ID                string
	Fingerprint       string
	IPHash            string
	UserAgent         string
	Outcome           string
	RemoteID          string
	Error             string
	CompletionSeconds int
	CreatedAt         time.Time
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
