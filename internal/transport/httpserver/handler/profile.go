package handler

import (
	"errors"
	"net/http"
	"strings"

	profiledomain "community-app-go/internal/domain/profile"
	"community-app-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type proposeRequest struct {
	Snapshot profiledomain.Snapshot `json:"snapshot"`
}

type addTagsRequest struct {
	Tags []string `json:"tags"`
}

type addAvailabilityRequest struct {
	TimeSlots []slotResponse `json:"timeSlots"`
}

type profileDetailResponse struct {
	Message      string          `json:"message"`
	Profile      profileResponse `json:"profile"`
	Tags         []tagResponse   `json:"tags"`
	Availability []slotResponse  `json:"availability"`
	Medals       []medalResponse `json:"medals"`
}

// GetSelf returns the caller's profile, creating an empty one with a random
// handle on first access.
func (h *Handlers) GetSelf(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	detail, created, err := h.Profiles.GetSelf(r.Context(), principal.ID)
	if err != nil {
		h.log.InternalError("profile.self: fetch failed", err, "user_id", principal.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	message := "Profile found"
	if created {
		message = "Profile created"
	}
	writeJSON(w, http.StatusOK, profileDetailResponse{
		Message:      message,
		Profile:      toProfileResponse(detail.Profile),
		Tags:         toTagResponses(detail.Tags),
		Availability: toSlotResponses(detail.Availability),
		Medals:       toMedalResponses(detail.Medals),
	})
}

// Propose stages a profile edit for admin review.
func (h *Handlers) Propose(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	var req proposeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	if err := h.Profiles.Propose(r.Context(), principal.ID, req.Snapshot); err != nil {
		switch {
		case errors.Is(err, profiledomain.ErrHandleRequired),
			errors.Is(err, profiledomain.ErrHandleTooShort),
			errors.Is(err, profiledomain.ErrHandleInvalid),
			errors.Is(err, profiledomain.ErrHandleTaken):
			h.log.BusinessError("profile.propose: handle rejected", err, "user_id", principal.ID)
			writeError(w, http.StatusBadRequest, "invalid_handle", err.Error())
		case errors.Is(err, profiledomain.ErrModerationRejected):
			h.log.BusinessError("profile.propose: moderation rejected", err, "user_id", principal.ID)
			writeError(w, http.StatusBadRequest, "moderation_rejected", "content was not accepted")
		case errors.Is(err, profiledomain.ErrProfileNotFound):
			h.log.BusinessError("profile.propose: profile not found", err, "user_id", principal.ID)
			writeError(w, http.StatusNotFound, "profile_not_found", "profile not found")
		default:
			h.log.InternalError("profile.propose: stage failed", err, "user_id", principal.ID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Profile update submitted for review"})
}

func (h *Handlers) AddTags(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	var req addTagsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	if err := h.Profiles.AddTags(r.Context(), principal.ID, req.Tags); err != nil {
		if errors.Is(err, profiledomain.ErrTagNotFound) {
			h.log.BusinessError("profile.tags: unknown tag", err, "user_id", principal.ID)
			writeError(w, http.StatusNotFound, "tag_not_found", "tag not found")
			return
		}
		h.log.InternalError("profile.tags: add failed", err, "user_id", principal.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Tags updated"})
}

func (h *Handlers) RemoveTag(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	tagID := strings.TrimSpace(chi.URLParam(r, "tagId"))
	if err := h.Profiles.RemoveTag(r.Context(), principal.ID, tagID); err != nil {
		if errors.Is(err, profiledomain.ErrTagNotFound) {
			writeError(w, http.StatusNotFound, "tag_not_found", "tag not found")
			return
		}
		h.log.InternalError("profile.tags: remove failed", err, "user_id", principal.ID, "tag_id", tagID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Tag deleted"})
}

func (h *Handlers) AddAvailability(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	var req addAvailabilityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	slots := make([]profiledomain.Slot, 0, len(req.TimeSlots))
	for _, slot := range req.TimeSlots {
		slots = append(slots, profiledomain.Slot{WeekDay: slot.WeekDay, TimeSlot: slot.TimeSlot})
	}

	if err := h.Profiles.AddAvailability(r.Context(), principal.ID, slots); err != nil {
		if errors.Is(err, profiledomain.ErrInvalidSlot) {
			writeError(w, http.StatusBadRequest, "invalid_slot", "invalid availability slot")
			return
		}
		h.log.InternalError("profile.availability: add failed", err, "user_id", principal.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Availability updated"})
}

func (h *Handlers) RemoveAvailability(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	weekDay, err := parseIntParam(chi.URLParam(r, "weekDay"), -1)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid weekDay")
		return
	}
	timeSlot, err := parseIntParam(chi.URLParam(r, "timeSlot"), -1)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid timeSlot")
		return
	}

	if err := h.Profiles.RemoveAvailability(r.Context(), principal.ID, weekDay, timeSlot); err != nil {
		if errors.Is(err, profiledomain.ErrInvalidSlot) {
			writeError(w, http.StatusBadRequest, "invalid_slot", "invalid availability slot")
			return
		}
		h.log.InternalError("profile.availability: remove failed", err, "user_id", principal.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Availability deleted"})
}

// ListTags returns the global tag taxonomy for the self-tagging picker.
func (h *Handlers) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.Taxonomy.ListTags(r.Context())
	if err != nil {
		h.log.InternalError("profile.tags: list failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Tags",
		"tags":    toTaxonomyTagResponses(tags),
	})
}
