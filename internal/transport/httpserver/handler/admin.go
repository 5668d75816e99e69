package handler

import (
	"errors"
	"net/http"
	"strings"

	profiledomain "community-app-go/internal/domain/profile"
	taxonomydomain "community-app-go/internal/domain/taxonomy"
	"github.com/go-chi/chi/v5"
)

type decisionRequest struct {
	UserID  string `json:"userId"`
	Approve bool   `json:"approve"`
}

type tagRequest struct {
	Content  string `json:"content"`
	Category string `json:"category"`
}

type medalRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IconURL     string `json:"iconUrl"`
}

type grantMedalRequest struct {
	UserID  string `json:"userId"`
	MedalID string `json:"medalId"`
}

// ListPendingProfiles returns the admin review queue: every profile with a
// staged revision awaiting adjudication.
func (h *Handlers) ListPendingProfiles(w http.ResponseWriter, r *http.Request) {
	pending, err := h.Profiles.ListPending(r.Context())
	if err != nil {
		h.log.InternalError("admin.pending: list failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	rows := make([]profileResponse, 0, len(pending))
	for _, p := range pending {
		rows = append(rows, toProfileResponse(p))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Pending profiles",
		"profiles": rows,
	})
}

// DecideProfile adjudicates a staged revision: approve merges it into the
// live profile, reject discards it. Live fields are never touched by a
// rejection.
func (h *Handlers) DecideProfile(w http.ResponseWriter, r *http.Request) {
	var req decisionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "userId is required")
		return
	}

	if err := h.Profiles.Decide(r.Context(), req.UserID, req.Approve); err != nil {
		switch {
		case errors.Is(err, profiledomain.ErrProfileNotFound):
			h.log.BusinessError("admin.decide: profile not found", err, "target_user_id", req.UserID)
			writeError(w, http.StatusNotFound, "profile_not_found", "Profile not found")
		case errors.Is(err, profiledomain.ErrNoPendingRevision):
			writeError(w, http.StatusBadRequest, "no_pending_revision", "no pending revision")
		default:
			h.log.InternalError("admin.decide: adjudication failed", err, "target_user_id", req.UserID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Profile updated"})
}

func (h *Handlers) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if strings.TrimSpace(req.Content) == "" || strings.TrimSpace(req.Category) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "content and category are required")
		return
	}

	created, err := h.Taxonomy.CreateTag(r.Context(), taxonomydomain.CreateTagInput{
		Content:  req.Content,
		Category: req.Category,
	})
	if err != nil {
		if errors.Is(err, taxonomydomain.ErrTagExists) {
			writeError(w, http.StatusBadRequest, "tag_exists", "tag already exists")
			return
		}
		h.log.InternalError("admin.tags: create failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Tag created",
		"tag":     tagResponse{ID: created.ID, Content: created.Content, Category: created.Category},
	})
}

func (h *Handlers) UpdateTag(w http.ResponseWriter, r *http.Request) {
	tagID := strings.TrimSpace(chi.URLParam(r, "id"))
	if tagID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "id is required")
		return
	}

	var req tagRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if strings.TrimSpace(req.Content) == "" || strings.TrimSpace(req.Category) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "content and category are required")
		return
	}

	updated, err := h.Taxonomy.UpdateTag(r.Context(), taxonomydomain.UpdateTagInput{
		ID:       tagID,
		Content:  req.Content,
		Category: req.Category,
	})
	if err != nil {
		switch {
		case errors.Is(err, taxonomydomain.ErrTagNotFound):
			writeError(w, http.StatusNotFound, "tag_not_found", "tag not found")
		case errors.Is(err, taxonomydomain.ErrTagExists):
			writeError(w, http.StatusBadRequest, "tag_exists", "tag already exists")
		default:
			h.log.InternalError("admin.tags: update failed", err, "tag_id", tagID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Tag updated",
		"tag":     tagResponse{ID: updated.ID, Content: updated.Content, Category: updated.Category},
	})
}

func (h *Handlers) DeleteTag(w http.ResponseWriter, r *http.Request) {
	tagID := strings.TrimSpace(chi.URLParam(r, "id"))
	if tagID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "id is required")
		return
	}

	if err := h.Taxonomy.DeleteTag(r.Context(), tagID); err != nil {
		if errors.Is(err, taxonomydomain.ErrTagNotFound) {
			writeError(w, http.StatusNotFound, "tag_not_found", "tag not found")
			return
		}
		h.log.InternalError("admin.tags: delete failed", err, "tag_id", tagID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Tag deleted"})
}

func (h *Handlers) ListMedals(w http.ResponseWriter, r *http.Request) {
	medals, err := h.Taxonomy.ListMedals(r.Context())
	if err != nil {
		h.log.InternalError("admin.medals: list failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	rows := make([]medalResponse, 0, len(medals))
	for _, medal := range medals {
		rows = append(rows, medalResponse{
			ID:          medal.ID,
			Name:        medal.Name,
			Description: medal.Description,
			IconURL:     medal.IconURL,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Medals",
		"medals":  rows,
	})
}

func (h *Handlers) CreateMedal(w http.ResponseWriter, r *http.Request) {
	var req medalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	created, err := h.Taxonomy.CreateMedal(r.Context(), taxonomydomain.CreateMedalInput{
		Name:        req.Name,
		Description: req.Description,
		IconURL:     req.IconURL,
	})
	if err != nil {
		h.log.InternalError("admin.medals: create failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Medal created",
		"medal": medalResponse{
			ID:          created.ID,
			Name:        created.Name,
			Description: created.Description,
			IconURL:     created.IconURL,
		},
	})
}

func (h *Handlers) UpdateMedal(w http.ResponseWriter, r *http.Request) {
	medalID := strings.TrimSpace(chi.URLParam(r, "id"))
	if medalID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "id is required")
		return
	}

	var req medalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	updated, err := h.Taxonomy.UpdateMedal(r.Context(), taxonomydomain.UpdateMedalInput{
		ID:          medalID,
		Name:        req.Name,
		Description: req.Description,
		IconURL:     req.IconURL,
	})
	if err != nil {
		if errors.Is(err, taxonomydomain.ErrMedalNotFound) {
			writeError(w, http.StatusNotFound, "medal_not_found", "medal not found")
			return
		}
		h.log.InternalError("admin.medals: update failed", err, "medal_id", medalID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Medal updated",
		"medal": medalResponse{
			ID:          updated.ID,
			Name:        updated.Name,
			Description: updated.Description,
			IconURL:     updated.IconURL,
		},
	})
}

func (h *Handlers) DeleteMedal(w http.ResponseWriter, r *http.Request) {
	medalID := strings.TrimSpace(chi.URLParam(r, "id"))
	if medalID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "id is required")
		return
	}

	if err := h.Taxonomy.DeleteMedal(r.Context(), medalID); err != nil {
		if errors.Is(err, taxonomydomain.ErrMedalNotFound) {
			writeError(w, http.StatusNotFound, "medal_not_found", "medal not found")
			return
		}
		h.log.InternalError("admin.medals: delete failed", err, "medal_id", medalID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Medal deleted"})
}

// GrantMedal awards a medal to a member. Granting twice leaves one row.
func (h *Handlers) GrantMedal(w http.ResponseWriter, r *http.Request) {
	var req grantMedalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.MedalID) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "userId and medalId are required")
		return
	}

	if err := h.Taxonomy.GrantMedal(r.Context(), req.UserID, req.MedalID); err != nil {
		switch {
		case errors.Is(err, taxonomydomain.ErrMedalNotFound):
			writeError(w, http.StatusNotFound, "medal_not_found", "medal not found")
		case errors.Is(err, taxonomydomain.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "user_not_found", "user not found")
		default:
			h.log.InternalError("admin.medals: grant failed", err, "target_user_id", req.UserID, "medal_id", req.MedalID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Medal granted"})
}
