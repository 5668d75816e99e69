package handler

import (
	"errors"
	"net/http"
	"strings"

	chatdomain "community-app-go/internal/domain/chat"
	"community-app-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type sendMessageRequest struct {
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
}

type conversationResponse struct {
	CounterpartID   string          `json:"counterpartId"`
	CounterpartName string          `json:"counterpartName"`
	SelfName        string          `json:"selfName"`
	LatestMessage   messageResponse `json:"latestMessage"`
}

// Conversations lists the caller's distinct conversations, newest first.
func (h *Handlers) Conversations(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	conversations, err := h.Chat.ListConversations(r.Context(), principal.ID)
	if err != nil {
		h.log.InternalError("chat.conversations: list failed", err, "user_id", principal.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	rows := make([]conversationResponse, 0, len(conversations))
	for _, conversation := range conversations {
		rows = append(rows, conversationResponse{
			CounterpartID:   conversation.CounterpartID,
			CounterpartName: conversation.CounterpartName,
			SelfName:        conversation.SelfName,
			LatestMessage:   toMessageResponse(conversation.LatestMessage),
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":       "Chat sessions",
		"conversations": rows,
	})
}

// Thread returns the full message history with one counterpart and advances
// the caller's read marker as a side effect.
func (h *Handlers) Thread(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	counterpartID := strings.TrimSpace(chi.URLParam(r, "userId"))
	if counterpartID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "userId is required")
		return
	}

	messages, err := h.Chat.GetThread(r.Context(), principal.ID, counterpartID)
	if err != nil {
		h.log.InternalError("chat.thread: fetch failed", err, "user_id", principal.ID, "counterpart_id", counterpartID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Messages",
		"messages": toMessageResponses(messages),
	})
}

// SendMessage moderates and appends one message to the ledger.
func (h *Handlers) SendMessage(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	var req sendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	sent, err := h.Chat.Send(r.Context(), principal.ID, req.ReceiverID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, chatdomain.ErrReceiverNotFound):
			h.log.BusinessError("chat.send: receiver not found", err, "user_id", principal.ID)
			writeError(w, http.StatusNotFound, "receiver_not_found", "Receiver not found")
		case errors.Is(err, chatdomain.ErrEmptyMessage):
			writeError(w, http.StatusBadRequest, "invalid_request", "content is required")
		case errors.Is(err, chatdomain.ErrModerationRejected):
			h.log.BusinessError("chat.send: moderation rejected", err, "user_id", principal.ID)
			writeError(w, http.StatusBadRequest, "moderation_rejected", "content was not accepted")
		default:
			h.log.InternalError("chat.send: send failed", err, "user_id", principal.ID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Message sent",
		"sent":    toMessageResponse(*sent),
	})
}
