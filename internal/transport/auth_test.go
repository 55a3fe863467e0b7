package transport

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newRequest() *http.Request {
	return &http.Request{Header: make(http.Header)}
}

func TestNoAuth(t *testing.T) {
	req := newRequest()

	(&NoAuth{}).Apply(req, "token")

	assert.Empty(t, req.Header)
}

func TestBearerAuth(t *testing.T) {
	req := newRequest()

	(&BearerAuth{}).Apply(req, "token")

	assert.Equal(t, "Bearer token", req.Header.Get("Authorization"))
}

func TestHeaderAuth(t *testing.T) {
	req := newRequest()

	(&HeaderAuth{Header: "x-api-key"}).Apply(req, "token")

	assert.Equal(t, "token", req.Header.Get("x-api-key"))
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestForHeader(t *testing.T) {
	tests := []struct {
		header string
		want   Authenticator
	}{
		{"", &BearerAuth{}},
		{"Authorization", &BearerAuth{}},
		{"authorization", &BearerAuth{}},
		{"X-Api-Key", &HeaderAuth{Header: "X-Api-Key"}},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, ForHeader(tt.header))
		})
	}
}
