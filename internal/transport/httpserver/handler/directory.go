package handler

import (
	"errors"
	"net/http"
	"strings"

	profiledomain "community-app-go/internal/domain/profile"
	"community-app-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type directoryEntryResponse struct {
	Profile      profileResponse `json:"profile"`
	DisplayName  string          `json:"displayName"`
	Tags         []tagResponse   `json:"tags"`
	Availability []slotResponse  `json:"availability"`
}

type directoryResponse struct {
	Message    string                   `json:"message"`
	Profiles   []directoryEntryResponse `json:"profiles"`
	Page       int                      `json:"page"`
	Limit      int                      `json:"limit"`
	Total      int64                    `json:"total"`
	TotalPages int                      `json:"totalPages"`
}

// Directory returns one page of the verified-member directory.
func (h *Handlers) Directory(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	page, err := parseIntParam(r.URL.Query().Get("page"), 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid page")
		return
	}
	limit, err := parseIntParam(r.URL.Query().Get("limit"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid limit")
		return
	}

	result, err := h.Profiles.Directory(r.Context(), principal.ID, page, limit, principal.IsAdmin())
	if err != nil {
		if errors.Is(err, profiledomain.ErrNotVerified) {
			h.log.BusinessError("directory: viewer not verified", err, "user_id", principal.ID)
			writeError(w, http.StatusUnauthorized, "not_verified", "profile is not verified")
			return
		}
		h.log.InternalError("directory: list failed", err, "user_id", principal.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	entries := make([]directoryEntryResponse, 0, len(result.Items))
	for _, item := range result.Items {
		entries = append(entries, directoryEntryResponse{
			Profile:      toProfileResponse(item.Profile),
			DisplayName:  item.DisplayName,
			Tags:         toTagResponses(item.Tags),
			Availability: toSlotResponses(item.Availability),
		})
	}

	writeJSON(w, http.StatusOK, directoryResponse{
		Message:    "Profiles",
		Profiles:   entries,
		Page:       result.Page,
		Limit:      result.Limit,
		Total:      result.Total,
		TotalPages: result.TotalPages,
	})
}

// GetProfile returns a single member profile with viewer-dependent redaction.
func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	targetID := strings.TrimSpace(chi.URLParam(r, "userId"))
	if targetID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "userId is required")
		return
	}

	detail, err := h.Profiles.GetByUserID(r.Context(), principal.ID, targetID, principal.IsAdmin())
	if err != nil {
		switch {
		case errors.Is(err, profiledomain.ErrNotVerified):
			h.log.BusinessError("profile.get: viewer not verified", err, "user_id", principal.ID)
			writeError(w, http.StatusUnauthorized, "not_verified", "profile is not verified")
		case errors.Is(err, profiledomain.ErrProfileNotFound):
			writeError(w, http.StatusNotFound, "profile_not_found", "Profile not found")
		default:
			h.log.InternalError("profile.get: fetch failed", err, "user_id", principal.ID, "target_id", targetID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, profileDetailResponse{
		Message:      "Profile found",
		Profile:      toProfileResponse(detail.Profile),
		Tags:         toTagResponses(detail.Tags),
		Availability: toSlotResponses(detail.Availability),
		Medals:       toMedalResponses(detail.Medals),
	})
}
