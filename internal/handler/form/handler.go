package form

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	formService "github.com/zhouzirui/exonizer/internal/service/form"
	"github.com/zhouzirui/exonizer/pkg/utils"
)

// Handler 表单会话的HTTP处理器
type Handler struct {
	formSvc *formService.Service
}

// New 创建表单处理器
func New(formSvc *formService.Service) *Handler {
	return &Handler{formSvc: formSvc}
}

// RegisterRoutes 注册表单相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleCreateSession)
	r.Route("/session/{sessionID}", func(r chi.Router) {
		r.Get("/", h.handleGetSession)
		r.Put("/input", h.handleInput)
		r.Post("/submit", h.handleSubmit)
		r.Get("/copy", h.handleCopy)
	})
}

// handleCreateSession 创建会话
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	snap, err := h.formSvc.Create(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, snap)
}

// handleGetSession 查询会话状态
func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := h.formSvc.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, snap)
}

// handleInput 应用一次输入变更
func (h *Handler) handleInput(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text *string `json:"text"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Text == nil {
		utils.RespondError(w, http.StatusBadRequest, "text is required")
		return
	}

	snap, accepted, err := h.formSvc.Input(r.Context(), chi.URLParam(r, "sessionID"), *payload.Text)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"accepted": accepted,
		"state":    snap,
	})
}

// handleSubmit 发起一次 humanize 请求并返回结果状态
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	snap, err := h.formSvc.Submit(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, snap)
}

// handleCopy 返回可复制的输出文本
func (h *Handler) handleCopy(w http.ResponseWriter, r *http.Request) {
	text, err := h.formSvc.Copy(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"text": text})
}

func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, formService.ErrSessionNotFound):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, formService.ErrSubmitDisabled):
		utils.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, formService.ErrTooManySessions):
		utils.RespondError(w, http.StatusServiceUnavailable, err.Error())
	default:
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
	}
}
