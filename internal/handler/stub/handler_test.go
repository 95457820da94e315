package stub

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/zhouzirui/exonizer/internal/config"
	model "github.com/zhouzirui/exonizer/internal/model/humanize"
	"github.com/zhouzirui/exonizer/internal/service/humanize"
	"github.com/zhouzirui/exonizer/internal/service/rewrite"
)

type upperRewriter struct{}

func (upperRewriter) Rewrite(_ context.Context, text string) (string, error) {
	return strings.ToUpper(text), nil
}

type failingRewriter struct{}

func (failingRewriter) Rewrite(_ context.Context, _ string) (string, error) {
	return "", errors.New("model unavailable")
}

func newServer(rw rewrite.Rewriter, apiKey string) *httptest.Server {
	r := chi.NewRouter()
	New(rw, apiKey).RegisterRoutes(r)
	return httptest.NewServer(r)
}

func TestStubRoundTripsWithClient(t *testing.T) {
	srv := newServer(upperRewriter{}, "secret")
	defer srv.Close()

	client := humanize.NewClient(config.HumanizeConfig{APIBaseURL: srv.URL + "/", APIKey: "secret"})
	result := client.Humanize(context.Background(), "hello world")

	assert.Equal(t, model.Success, result.Kind)
	assert.Equal(t, "HELLO WORLD", result.Text)
}

func TestStubRejectsWrongKey(t *testing.T) {
	srv := newServer(upperRewriter{}, "secret")
	defer srv.Close()

	client := humanize.NewClient(config.HumanizeConfig{APIBaseURL: srv.URL + "/"})
	result := client.Humanize(context.Background(), "hello world")

	assert.Equal(t, model.HTTPError, result.Kind)
	assert.Equal(t, http.StatusUnauthorized, result.StatusCode)
}

func TestStubRewriteFailure(t *testing.T) {
	srv := newServer(failingRewriter{}, "")
	defer srv.Close()

	client := humanize.NewClient(config.HumanizeConfig{APIBaseURL: srv.URL + "/"})
	result := client.Humanize(context.Background(), "hello world")

	assert.Equal(t, model.HTTPError, result.Kind)
	assert.Equal(t, http.StatusBadGateway, result.StatusCode)
}

func TestStubRejectsEmptyText(t *testing.T) {
	srv := newServer(rewrite.Echo{}, "")
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/humanize", "application/json", bytes.NewReader([]byte(`{"text":""}`)))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
