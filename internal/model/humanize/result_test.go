package humanize

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultConstructors(t *testing.T) {
	assert.Equal(t, Result{Kind: Success, Text: "ok"}, Succeeded("ok"))
	assert.Equal(t, Result{Kind: HTTPError, StatusCode: 503}, Failed(503))

	err := errors.New("dial tcp: refused")
	r := Unreachable(err)
	assert.Equal(t, TransportError, r.Kind)
	assert.ErrorIs(t, r.Err, err)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "http_error", HTTPError.String())
	assert.Equal(t, "transport_error", TransportError.String())
	assert.Equal(t, "kind(9)", Kind(9).String())
}
