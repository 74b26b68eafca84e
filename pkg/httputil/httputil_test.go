package httputil_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kryptokrona/kryptokrona-walletd/pkg/httputil"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			w.Header().Set("Content-Type", "text/plain")
			w.WriteHeader(http.StatusTeapot)
			w.Write([]byte(r.Method + " " + r.Header.Get("X-Test") + " " + string(body)))
		},
	))
	defer server.Close()

	client := httputil.NewClient(time.Second)
	ctx := context.Background()

	status, resp, err := client.NewHTTPRequest(
		ctx, http.MethodPost, server.URL, "hello", map[string]string{"X-Test": "t"},
	)
	require.NoError(t, err)
	require.Equal(t, http.StatusTeapot, status)
	require.Equal(t, "POST t hello", resp)

	status, resp, err = client.NewHTTPRequest(ctx, http.MethodGet, server.URL, "", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusTeapot, status)
	require.Equal(t, "GET  ", resp)

	_, _, err = client.NewHTTPRequest(ctx, http.MethodDelete, server.URL, "", nil)
	require.Error(t, err)
}
