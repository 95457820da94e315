package stub

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/zhouzirui/exonizer/internal/logging"
	"github.com/zhouzirui/exonizer/internal/model/humanize"
	"github.com/zhouzirui/exonizer/internal/service/rewrite"
	"github.com/zhouzirui/exonizer/pkg/utils"
)

// Handler implements the humanize endpoint for local development.
type Handler struct {
	rewriter rewrite.Rewriter
	apiKey   string
	log      *logrus.Logger
}

// New 创建 humanize 桩处理器。apiKey 为空时不校验请求头。
func New(rewriter rewrite.Rewriter, apiKey string) *Handler {
	return &Handler{rewriter: rewriter, apiKey: apiKey, log: logging.GetLogger()}
}

// RegisterRoutes 注册 humanize 路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/humanize", h.handleHumanize)
}

func (h *Handler) handleHumanize(w http.ResponseWriter, r *http.Request) {
	if h.apiKey != "" && subtle.ConstantTimeCompare([]byte(r.Header.Get("X-API-KEY")), []byte(h.apiKey)) != 1 {
		utils.RespondError(w, http.StatusUnauthorized, "invalid api key")
		return
	}

	var payload humanize.Request
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Text == "" {
		utils.RespondError(w, http.StatusBadRequest, "text is required")
		return
	}

	out, err := h.rewriter.Rewrite(r.Context(), payload.Text)
	if err != nil {
		h.log.WithError(err).Error("[stub] rewrite failed")
		utils.RespondError(w, http.StatusBadGateway, "rewrite failed")
		return
	}

	utils.RespondJSON(w, http.StatusOK, humanize.Response{HumanizedText: out})
}
