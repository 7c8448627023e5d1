package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vedran77/flicksy/internal/service"
	"github.com/vedran77/flicksy/internal/transport/http/middleware"
	"github.com/vedran77/flicksy/pkg/validator"
)

type ModerationHandler struct {
	moderationService *service.ModerationService
}

func NewModerationHandler(moderationService *service.ModerationService) *ModerationHandler {
	return &ModerationHandler{moderationService: moderationService}
}

func (h *ModerationHandler) FileVerificationRequest(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserID(r.Context())

	var input service.FileVerificationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateVerificationReason(input.Reason); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	req, err := h.moderationService.FileRequest(r.Context(), callerID, input)
	if err != nil {
		switch {
		case writeAuthzError(w, err):
		case errors.Is(err, service.ErrAlreadyVerified):
			writeError(w, http.StatusConflict, "ALREADY_VERIFIED", "Your account is already verified")
		case errors.Is(err, service.ErrRequestPending):
			writeError(w, http.StatusConflict, "REQUEST_PENDING", "You already have a pending verification request")
		default:
			logrus.Errorf("file verification request: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusCreated, req)
}

func (h *ModerationHandler) ListVerificationRequests(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserID(r.Context())
	offset, limit := pagination(r, 50)

	reqs, err := h.moderationService.ListPendingRequests(r.Context(), callerID, offset, limit)
	if err != nil {
		if !writeAuthzError(w, err) {
			logrus.Errorf("list verification requests: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, reqs)
}

func (h *ModerationHandler) ApproveVerification(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.moderationService.Approve, "Verification request approved")
}

func (h *ModerationHandler) RejectVerification(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.moderationService.Reject, "Verification request rejected")
}

func (h *ModerationHandler) review(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, reviewerID, requestID uuid.UUID) error,
	message string,
) {
	callerID := middleware.GetUserID(r.Context())
	requestID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid request ID")
		return
	}

	if err := fn(r.Context(), callerID, requestID); err != nil {
		switch {
		case writeAuthzError(w, err):
		case errors.Is(err, service.ErrRequestNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Verification request not found")
		case errors.Is(err, service.ErrAlreadyProcessed):
			writeError(w, http.StatusConflict, "ALREADY_PROCESSED", "Verification request already processed")
		default:
			logrus.Errorf("review verification request: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

func (h *ModerationHandler) BanUser(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserID(r.Context())
	targetID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	if err := h.moderationService.Ban(r.Context(), callerID, targetID); err != nil {
		switch {
		case writeAuthzError(w, err):
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
		case errors.Is(err, service.ErrCannotBanAdmin):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Admins cannot be banned")
		default:
			logrus.Errorf("ban user: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User banned"})
}

func (h *ModerationHandler) UnbanUser(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserID(r.Context())
	targetID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	if err := h.moderationService.Unban(r.Context(), callerID, targetID); err != nil {
		switch {
		case writeAuthzError(w, err):
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
		default:
			logrus.Errorf("unban user: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User unbanned"})
}

func (h *ModerationHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserID(r.Context())
	offset, limit := pagination(r, 50)

	users, err := h.moderationService.ListUsers(r.Context(), callerID, offset, limit)
	if err != nil {
		if !writeAuthzError(w, err) {
			logrus.Errorf("list users: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, users)
}
