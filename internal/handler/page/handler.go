package page

import (
	"bytes"
	"embed"
	"errors"
	"io"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/zhouzirui/exonizer/internal/logging"
	"github.com/zhouzirui/exonizer/internal/model/form"
	formService "github.com/zhouzirui/exonizer/internal/service/form"
	"github.com/zhouzirui/exonizer/pkg/utils"
)

//go:embed templates/index.html
var templates embed.FS

var indexTemplate = template.Must(template.ParseFS(templates, "templates/index.html"))

// Handler renders the single form page. Each page view gets a fresh session.
type Handler struct {
	formSvc *formService.Service
	log     *logrus.Logger
}

// New 创建页面处理器
func New(formSvc *formService.Service) *Handler {
	return &Handler{formSvc: formSvc, log: logging.GetLogger()}
}

// RegisterRoutes 注册页面路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleIndex)
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap, err := h.formSvc.Create(r.Context())
	if errors.Is(err, formService.ErrTooManySessions) {
		utils.RespondError(w, http.StatusServiceUnavailable, "server busy, please try again later")
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	var buf bytes.Buffer
	if err := render(&buf, snap); err != nil {
		h.log.WithError(err).Error("[page] render failed")
		utils.RespondError(w, http.StatusInternalServerError, "failed to render page")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func render(w io.Writer, snap form.Snapshot) error {
	return indexTemplate.Execute(w, snap)
}
