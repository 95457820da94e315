package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zhouzirui/exonizer/internal/metrics"
	"github.com/zhouzirui/exonizer/internal/model/humanize"
	formservice "github.com/zhouzirui/exonizer/internal/service/form"
)

type noopHumanizer struct{}

func (noopHumanizer) Humanize(_ context.Context, _ string) humanize.Result {
	return humanize.Succeeded("")
}

func TestRouterServesRoutes(t *testing.T) {
	router := NewRouter(formservice.NewService(noopHumanizer{}), metrics.New())

	cases := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodPost, "/api/session", http.StatusCreated},
		{http.MethodGet, "/api/session/unknown", http.StatusNotFound},
		{http.MethodGet, "/api/ws/unknown", http.StatusNotFound},
		{http.MethodGet, "/", http.StatusOK},
	}

	for _, tc := range cases {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, tc.want, resp.Code, "%s %s", tc.method, tc.path)
	}
}
