package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendAndParseDecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "stocklens-test", r.Header.Get("User-Agent"))
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient(WithUserAgent("stocklens-test"))
	var out struct {
		OK bool `json:"ok"`
	}
	err := c.SendAndParse(context.Background(), &RequestOptions{
		URL:         srv.URL,
		QueryParams: map[string][]string{"interval": {"1d"}},
	}, &out)
	require.NoError(t, err)
	assert.True(t, out.OK)
}

func TestSendAndParseStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := NewClient().SendAndParse(context.Background(), &RequestOptions{URL: srv.URL}, nil)
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusServiceUnavailable))

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.True(t, se.Temporary())
	assert.Equal(t, "nope", se.Body)
}

func TestStatusErrorTemporary(t *testing.T) {
	assert.True(t, (&StatusError{StatusCode: 429}).Temporary())
	assert.False(t, (&StatusError{StatusCode: 404}).Temporary())
}

func TestSendAndParseDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	var out map[string]interface{}
	err := NewClient().SendAndParse(context.Background(), &RequestOptions{URL: srv.URL}, &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecode)
	assert.False(t, IsStatus(err, http.StatusOK))
}
