package vahan

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "rcvault/pkg/domain-errors"
)

func TestFetchRC(t *testing.T) {
	ctx := context.Background()

	t.Run("sends vrn with auth header and decodes the record", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/b2b/get-rc", r.URL.Path)
			assert.Equal(t, "test-api-key", r.Header.Get("Authorization"))

			var req map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "TN01AB1234", req["vrn"])

			_ = json.NewEncoder(w).Encode(map[string]string{
				"vehicle_number": "TN01AB1234",
				"owner_name":     "R. Kumar",
				"fuel_type":      "Petrol",
			})
		}))
		defer server.Close()

		client := NewClient(server.URL, "test-api-key")
		record, err := client.FetchRC(ctx, "TN01AB1234")
		require.NoError(t, err)
		assert.Equal(t, "R. Kumar", record.OwnerName)
		assert.Equal(t, "Petrol", record.FuelType)
	})

	t.Run("non-2xx maps to fetch_failed with upstream message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "vehicle not found"})
		}))
		defer server.Close()

		client := NewClient(server.URL, "k")
		_, err := client.FetchRC(ctx, "TN01AB1234")
		require.Error(t, err)
		assert.True(t, domainerrors.Is(err, domainerrors.CodeFetchFailed))
		assert.Equal(t, "vehicle not found", domainerrors.MessageOf(err))
	})

	t.Run("malformed payload maps to fetch_failed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html>gateway error</html>"))
		}))
		defer server.Close()

		client := NewClient(server.URL, "k")
		_, err := client.FetchRC(ctx, "TN01AB1234")
		require.Error(t, err)
		assert.True(t, domainerrors.Is(err, domainerrors.CodeFetchFailed))
	})

	t.Run("unreachable upstream maps to fetch_failed", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1", "k", WithTimeout(200*time.Millisecond))
		_, err := client.FetchRC(ctx, "TN01AB1234")
		require.Error(t, err)
		assert.True(t, domainerrors.Is(err, domainerrors.CodeFetchFailed))
	})

	t.Run("timeout maps to fetch_failed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(300 * time.Millisecond)
		}))
		defer server.Close()

		client := NewClient(server.URL, "k", WithTimeout(50*time.Millisecond))
		_, err := client.FetchRC(ctx, "TN01AB1234")
		require.Error(t, err)
		assert.True(t, domainerrors.Is(err, domainerrors.CodeFetchFailed))
	})
}
