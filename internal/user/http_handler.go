package user

import (
	"errors"
	"net/http"

	"booktrend/internal/httpx"
	"booktrend/internal/logging"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// GetCurrentUser handles GET /v1/me
// @Summary Get current user
// @Description Resolve the authenticated subject by login, Kakao or Apple id
// @Tags users
// @Produce json
// @Security Bearer
// @Success 200 {object} httpx.SuccessResponse{data=User}
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/me [get]
func (h *HTTPHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	subject := httpx.UserIDFrom(r)
	if subject == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	u, err := h.service.Current(r.Context(), subject)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "User not found", nil)
			return
		}
		logging.Error().Err(err).Str("request_id", httpx.RequestIDFrom(r)).Msg("user lookup failed")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(w, r, map[string]any{
		"id":       u.ID,
		"nickname": u.Nickname,
		"role":     u.Role,
		"provider": u.Provider(),
	}, nil)
}
