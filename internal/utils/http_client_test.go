package utils

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient_NotNil(t *testing.T) {
	client := NewHTTPClient()

	require.NotNil(t, client)
	require.NotNil(t, client.Client)
}

func TestNewHTTPClient_Independence(t *testing.T) {
	// Two clients must not share the same underlying resty.Client
	client1 := NewHTTPClient()
	client2 := NewHTTPClient()

	assert.NotSame(t, client1.Client, client2.Client)
}

func TestNewHTTPClient_UsesIPv4Transport(t *testing.T) {
	client := NewHTTPClient()

	transport, ok := client.GetClient().Transport.(*http.Transport)
	require.True(t, ok, "expected *http.Transport, got %T", client.GetClient().Transport)
	assert.NotNil(t, transport.DialContext)
}

func TestIPv4Transport_DialsLoopback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	resp, err := NewHTTPClient().R().Get(srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode())
}

func TestIPv4Transport_RejectsIPv6Literal(t *testing.T) {
	transport := newIPv4Transport()

	_, err := transport.DialContext(context.Background(), "tcp", net.JoinHostPort("::1", "1"))
	assert.Error(t, err)
}
