package hiker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igstats/pkg/config"
	"igstats/pkg/errors"
	"igstats/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(&config.APIConfig{
		BaseURL:   server.URL,
		AccessKey: "test-key",
	}, nil, logger.NewTestLogger())
	return client, server
}

func TestGetJSONSuccess(t *testing.T) {
	var gotQuery url.Values
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"pk": "123", "username": "someone"}`))
	})

	var user RawUser
	params := url.Values{}
	params.Set("username", "someone")
	params.Set("empty", "")
	err := client.GetJSON(context.Background(), EndpointUserByUsername, params, &user)

	require.NoError(t, err)
	assert.Equal(t, "someone", user.Username.String())
	assert.Equal(t, "test-key", gotQuery.Get("access_key"))
	assert.Equal(t, "someone", gotQuery.Get("username"))
	assert.False(t, gotQuery.Has("empty"), "empty params must be dropped")
}

func TestGetJSONMissingKey(t *testing.T) {
	client := NewClient(&config.APIConfig{BaseURL: "http://unused"}, nil, logger.NewTestLogger())

	err := client.GetJSON(context.Background(), EndpointUserByUsername, nil, &struct{}{})
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeCredentialMissing, errors.TypeOf(err))
	assert.False(t, client.Enabled())
}

func TestGetJSONHTTPError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail": "user not found"}`))
	})

	err := client.GetJSON(context.Background(), EndpointUserByUsername, nil, &struct{}{})
	require.Error(t, err)

	var apiErr *errors.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, errors.ErrorTypeUpstreamHTTP, apiErr.Type)
	assert.Equal(t, http.StatusNotFound, apiErr.Code)
	assert.Contains(t, apiErr.Message, "user not found")
	assert.False(t, apiErr.Retryable())
}

func TestGetJSONRetryableStatuses(t *testing.T) {
	for _, status := range []int{http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway} {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})

		err := client.GetJSON(context.Background(), EndpointUserByID, nil, &struct{}{})
		require.Error(t, err)

		var apiErr *errors.Error
		require.True(t, errors.As(err, &apiErr))
		assert.True(t, apiErr.Retryable(), "status %d should be retryable", status)
	}
}

func TestGetJSONDecodeErrors(t *testing.T) {
	t.Run("non-json body", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>gateway page</html>`))
		})

		var target struct{}
		err := client.GetJSON(context.Background(), EndpointMediaByCode, nil, &target)
		require.Error(t, err)
		assert.Equal(t, errors.ErrorTypeDecode, errors.TypeOf(err))
	})

	t.Run("valid json, wrong shape", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"unexpected": true}`))
		})

		var target []RawUser
		err := client.GetJSON(context.Background(), EndpointMediaLikers, nil, &target)
		require.Error(t, err)
		assert.Equal(t, errors.ErrorTypeUnexpectedShape, errors.TypeOf(err))
	})
}

func TestGetJSONTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(&config.APIConfig{
		BaseURL:   server.URL,
		AccessKey: "test-key",
	}, nil, logger.NewTestLogger())

	err := client.GetJSON(context.Background(), EndpointUserByID, nil, &struct{}{})
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeTransport, errors.TypeOf(err))

	var apiErr *errors.Error
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.Retryable())
}

func TestDownloadAsset(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/asset.jpg" {
			w.Write([]byte("binary-bytes"))
			return
		}
		w.WriteHeader(http.StatusForbidden)
	})

	t.Run("success", func(t *testing.T) {
		body, err := client.DownloadAsset(context.Background(), server.URL+"/asset.jpg")
		require.NoError(t, err)
		defer body.Close()
	})

	t.Run("http error", func(t *testing.T) {
		_, err := client.DownloadAsset(context.Background(), server.URL+"/denied.jpg")
		require.Error(t, err)
		assert.Equal(t, errors.ErrorTypeUpstreamHTTP, errors.TypeOf(err))
	})
}

func TestTrimTrailingSlash(t *testing.T) {
	assert.Equal(t, "https://api.example.com", trimTrailingSlash("https://api.example.com//"))
	assert.Equal(t, "", trimTrailingSlash("/"))
}
