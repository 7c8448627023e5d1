package handlers

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vedran77/flicksy/internal/service"
	"github.com/vedran77/flicksy/internal/transport/http/middleware"
)

type UserHandler struct {
	userService *service.UserService
	postService *service.PostService
}

func NewUserHandler(userService *service.UserService, postService *service.PostService) *UserHandler {
	return &UserHandler{
		userService: userService,
		postService: postService,
	}
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.userService.GetProfile(r.Context(), r.PathValue("username"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
		} else {
			logrus.Errorf("get profile: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *UserHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserID(r.Context())
	offset, limit := pagination(r, 20)

	posts, err := h.postService.ListByAuthor(r.Context(), callerID, r.PathValue("username"), offset, limit)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
		} else {
			logrus.Errorf("list user posts: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

func (h *UserHandler) ToggleFollow(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserID(r.Context())

	resp, err := h.userService.ToggleFollow(r.Context(), callerID, r.PathValue("username"))
	if err != nil {
		switch {
		case writeAuthzError(w, err):
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
		case errors.Is(err, service.ErrCannotFollowSelf):
			writeError(w, http.StatusBadRequest, "INVALID_TARGET", "You cannot follow yourself")
		default:
			logrus.Errorf("toggle follow: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
