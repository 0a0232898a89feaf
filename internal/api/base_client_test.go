package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockHTTPClient is a test double for HTTPClient.
type mockHTTPClient struct {
	calls  int
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	m.calls++
	return m.doFunc(req)
}

// TestBaseClientDo tests that status and body are returned for any status.
func TestBaseClientDo(t *testing.T) {
	// Arrange
	httpClient := &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusTeapot,
				Body:       io.NopCloser(bytes.NewBufferString("short and stout")),
			}, nil
		},
	}
	client := NewBaseClient(httpClient)
	req, err := http.NewRequest(http.MethodGet, "https://example.test", nil)
	require.NoError(t, err)

	// Act
	status, body, err := client.Do(context.Background(), req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, http.StatusTeapot, status)
	assert.Equal(t, "short and stout", string(body))
}

// TestBaseClientDo_Canceled tests that a canceled context never reaches the transport.
func TestBaseClientDo_Canceled(t *testing.T) {
	// Arrange
	httpClient := &mockHTTPClient{}
	client := NewBaseClient(httpClient)
	req, err := http.NewRequest(http.MethodGet, "https://example.test", nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Act
	_, _, err = client.Do(ctx, req)

	// Assert
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, httpClient.calls)
}
