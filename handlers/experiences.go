// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/office-pulse/auth"
	"github.com/danielhkuo/office-pulse/cliparse"
	"github.com/danielhkuo/office-pulse/middleware"
	"github.com/danielhkuo/office-pulse/models"
	"github.com/danielhkuo/office-pulse/submission"
)

const (
	FormTokenHeader = "X-Form-Token"
	// FormTokenMaxAge bounds how long a form may stay open
	FormTokenMaxAge = 24 * time.Hour
)

// Submitter is satisfied by *submission.Submitter
type Submitter interface {
	Submit(ctx context.Context, in submission.Input) models.SubmitResult
}

type ExperienceHandler struct {
	submitter Submitter
	cfg       cliparse.Config
	now       func() time.Time
}

func NewExperienceHandler(s Submitter, cfg cliparse.Config) *ExperienceHandler {
	return &ExperienceHandler{submitter: s, cfg: cfg, now: time.Now}
}

// StartForm handles GET /forms/start
func (h *ExperienceHandler) StartForm(w http.ResponseWriter, r *http.Request) {
	issuedAt := h.now()

	token, err := auth.GenerateFormToken(issuedAt, h.cfg.FormTokenSalt)
	if err != nil {
		slog.Error("failed to generate form token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to start form")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.StartFormResponse{
		FormToken:            token,
		IssuedAt:             issuedAt.UTC(),
		MinCompletionSeconds: models.MinCompletionSeconds,
	})
}

// Submit handles POST /experiences
func (h *ExperienceHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitExperienceRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.JSONResponse(w, http.StatusBadRequest, models.SubmitResult{Error: "Invalid JSON"})
		return
	}

	// Header wins over body
	token := r.Header.Get(FormTokenHeader)
	if token == "" {
		token = req.FormToken
	}
	if token == "" {
		middleware.JSONResponse(w, http.StatusBadRequest, models.SubmitResult{Error: "form token is required"})
		return
	}

	now := h.now()
	issuedAt, err := auth.ParseFormToken(token, h.cfg.FormTokenSalt, now, FormTokenMaxAge)
	if err != nil {
		msg := "Invalid form token"
		if errors.Is(err, auth.ErrTokenExpired) {
			msg = "Form token expired, reload the form"
		}
		slog.Warn("rejected form token", "error", err, "remote", middleware.ClientIP(r, h.cfg.TrustedProxies))
		middleware.JSONResponse(w, http.StatusBadRequest, models.SubmitResult{Error: msg})
		return
	}

	result := h.submitter.Submit(r.Context(), submission.Input{
		Form:              req.ExperienceForm,
		Environment:       req.Environment,
		ClientIP:          middleware.ClientIP(r, h.cfg.TrustedProxies),
		UserAgent:         r.UserAgent(),
		CompletionSeconds: auth.ElapsedSeconds(issuedAt, now),
		FormNonce:         auth.FormTokenNonce(token),
	})

	middleware.JSONResponse(w, statusFor(result), result)
}

func statusFor(result models.SubmitResult) int {
	switch result.Outcome {
	case models.OutcomeAccepted:
		return http.StatusCreated
	case models.OutcomeRejected:
		return http.StatusBadRequest
	case models.OutcomeThrottled:
		return http.StatusTooManyRequests
	default:
		return http.StatusBadGateway
	}
}
