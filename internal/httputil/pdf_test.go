// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasPDFSignature(t *testing.T) {
	assert.True(t, HasPDFSignature([]byte("%PDF-1.7\n...")))
	assert.False(t, HasPDFSignature([]byte("%PDF")))
	assert.False(t, HasPDFSignature([]byte("<html>%PDF-1.4")))
	assert.False(t, HasPDFSignature(nil))
}

func TestIsPDFContentType(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"application/pdf", true},
		{"Application/PDF", true},
		{"application/pdf; charset=binary", true},
		{"  application/pdf", true},
		{"text/html", false},
		{"application/octet-stream", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPDFContentType(tt.in))
		})
	}
}

func TestStatusCause(t *testing.T) {
	assert.Equal(t, "not found", StatusCause(http.StatusNotFound))
	assert.Equal(t, "blocked", StatusCause(http.StatusForbidden))
	assert.Equal(t, "temporarily unavailable", StatusCause(http.StatusServiceUnavailable))
	assert.Equal(t, "Internal Server Error", StatusCause(http.StatusInternalServerError))
}

func TestIsTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer ts.Close()

	client := ts.Client()
	client.Timeout = 20 * time.Millisecond
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	_, err = client.Do(req)
	require.Error(t, err)
	assert.True(t, IsTimeout(err))
	assert.False(t, IsTimeout(context.Canceled))
}
