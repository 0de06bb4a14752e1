// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

  - ExperienceForm: the citizen's answers (location, office, services, ratings, flags)
  - Environment: browser signals used for the fingerprint
  - SubmitExperienceRequest: form + environment + optional form token

# Response Types

  - StartFormResponse: form_token, issued_at, min_completion_seconds
  - SubmitResult: success, id, error, problems
  - StatsResponse: attempt counts per outcome
  - ErrorResponse: error, message

# Domain Types

  - OfficeExperience: flat row for the office_experiences table
  - UserSession: flat row for the user_sessions table
  - Attempt: local ledger row

# Constants

Outcomes:

	OutcomeAccepted  = "accepted"
	OutcomeRejected  = "rejected"
	OutcomeThrottled = "throttled"
	OutcomeFailed    = "failed"

Limits:

	MinRating, MaxRating = 1, 5
	MinCompletionSeconds = 30
*/
package models
