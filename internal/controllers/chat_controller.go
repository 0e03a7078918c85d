package controllers

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"
	"valeod/internal/models"
	"valeod/internal/providers"
	"valeod/internal/services"
)

const maxRequestBodySize = 1 << 20 // 1 MB

// ChatController exposes the link/unlink/config operations; it is the HTTP
// face of the chat registry.
type ChatController struct {
	logger   providers.Logger
	registry services.RegistryServiceInterface
}

func NewChatController(logger providers.Logger, registry services.RegistryServiceInterface) *ChatController {
	return &ChatController{logger: logger, registry: registry}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	gson, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeDomainError maps registry errors onto HTTP statuses. Validation
// failures reject the operation and leave state unchanged.
func writeDomainError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, models.ErrNotLinked), errors.Is(err, models.ErrUnknownModel):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrAlreadyLinked), errors.Is(err, models.ErrNicknameTaken):
		status = http.StatusConflict
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

type linkRequest struct {
	ChatID    string `json:"chat_id"`
	Platform  string `json:"platform"`
	AccountID string `json:"account_id"`
	ChatType  string `json:"chat_type,omitempty"`
	Nickname  string `json:"nickname,omitempty"`
}

type mappingResponse struct {
	ChatID  string              `json:"chat_id"`
	Created bool                `json:"created,omitempty"`
	Mapping *models.ChatMapping `json:"mapping"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, payload any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return false
	}
	return true
}

func (cc *ChatController) Link(w http.ResponseWriter, r *http.Request) {
	var req linkRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ChatID == "" || req.Platform == "" || req.AccountID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "chat_id, platform and account_id are required"})
		return
	}

	mapping, created, err := cc.registry.Link(r.Context(), req.ChatID, req.Platform, req.AccountID, req.ChatType, req.Nickname)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, mappingResponse{ChatID: req.ChatID, Created: created, Mapping: mapping})
}

type unlinkRequest struct {
	ChatID string `json:"chat_id"`
	Model  string `json:"model"`
}

type unlinkResponse struct {
	Removed        []*models.ModelLink `json:"removed"`
	Remaining      []*models.ModelLink `json:"remaining"`
	MappingDeleted bool                `json:"mapping_deleted"`
}

func (cc *ChatController) Unlink(w http.ResponseWriter, r *http.Request) {
	var req unlinkRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ChatID == "" || req.Model == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "chat_id and model are required"})
		return
	}

	result, err := cc.registry.Unlink(r.Context(), req.ChatID, req.Model)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, unlinkResponse{
		Removed:        result.Removed,
		Remaining:      result.Remaining,
		MappingDeleted: result.MappingDeleted,
	})
}

func (cc *ChatController) GetConfig(w http.ResponseWriter, r *http.Request) {
	chatID := r.URL.Query().Get("chat")
	mapping, err := cc.registry.Get(r.Context(), chatID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mappingResponse{ChatID: chatID, Mapping: mapping})
}

type configRequest struct {
	ChatID    string `json:"chat_id"`
	Setting   string `json:"setting"`
	Enabled   *bool  `json:"enabled,omitempty"`
	Threshold *int   `json:"threshold,omitempty"`
}

func (cc *ChatController) SetConfig(w http.ResponseWriter, r *http.Request) {
	var req configRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var (
		mapping *models.ChatMapping
		err     error
	)
	switch {
	case req.Setting == "threshold" && req.Threshold != nil:
		mapping, err = cc.registry.SetThreshold(r.Context(), req.ChatID, *req.Threshold)
	case req.Enabled != nil:
		mapping, err = cc.registry.SetFeature(r.Context(), req.ChatID, req.Setting, *req.Enabled)
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "setting requires enabled or threshold value"})
		return
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mappingResponse{ChatID: req.ChatID, Mapping: mapping})
}

func (cc *ChatController) GetModels(w http.ResponseWriter, r *http.Request) {
	chatID := r.URL.Query().Get("chat")
	mapping, err := cc.registry.Get(r.Context(), chatID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		ChatID   string              `json:"chat_id"`
		ChatType string              `json:"chat_type"`
		Models   []*models.ModelLink `json:"models"`
	}{ChatID: chatID, ChatType: mapping.ChatType, Models: mapping.Models})
}
