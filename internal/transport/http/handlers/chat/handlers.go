package chathandler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"maplehr/internal/domain/adjudication"
	"maplehr/internal/domain/chat"
	"maplehr/internal/transport/http/api"
	"maplehr/internal/transport/http/middleware"
	"maplehr/internal/transport/http/shared"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
	maxMessageRunes     = 4000
)

// Assistant is the part of adjudication.Assistant the chat endpoint needs.
type Assistant interface {
	Reply(ctx context.Context, userID, message, apiKey string) adjudication.Answer
}

type Handler struct {
	Store     chat.StoreAPI
	Assistant Assistant
	Logger    *zap.Logger
}

func NewHandler(store chat.StoreAPI, assistant Assistant, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Assistant: assistant, Logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/chat", func(r chi.Router) {
		r.Post("/", h.handleSend)
		r.Get("/history/{userId}", h.handleHistory)
	})
}

type sendRequest struct {
	UserID      string `json:"userId"`
	Message     string `json:"message"`
	ModelAPIKey string `json:"modelApiKey"`
}

type sendResponse struct {
	Response string `json:"response"`
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	userID := strings.TrimSpace(chi.URLParam(r, "userId"))
	if userID == "" {
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "userId", Reason: "is required"}})
		return
	}
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "limit", Reason: "must be a positive integer"}})
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	history, err := h.Store.History(r.Context(), userID, limit)
	if err != nil {
		shared.WriteError(w, r, h.Logger, err)
		return
	}
	api.Success(w, history)
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	var payload sendRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Required("userId", payload.UserID)
	v.Required("message", payload.Message)
	if utf8.RuneCountInString(payload.Message) > maxMessageRunes {
		v.Add("message", "must be at most "+strconv.Itoa(maxMessageRunes)+" characters")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	userID := strings.TrimSpace(payload.UserID)

	if _, err := h.Store.Save(r.Context(), chat.Message{UserID: userID, Message: payload.Message, IsFromUser: true}); err != nil {
		shared.WriteError(w, r, h.Logger, err)
		return
	}

	answer := h.Assistant.Reply(r.Context(), userID, payload.Message, strings.TrimSpace(payload.ModelAPIKey))
	reply := answer.Text

	var snapshot json.RawMessage
	if answer.Context != nil {
		raw, err := json.Marshal(answer.Context)
		if err != nil {
			h.Logger.Warn("encode chat context snapshot", zap.String("userId", userID), zap.Error(err))
		} else {
			snapshot = raw
		}
	}
	if _, err := h.Store.Save(r.Context(), chat.Message{UserID: userID, Message: reply, IsFromUser: false, Context: snapshot}); err != nil {
		shared.WriteError(w, r, h.Logger, err)
		return
	}
	api.Success(w, sendResponse{Response: reply})
}
