package docker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/euron-one/medichat-deployer/internal/errors"
)

func TestWaitForHealthy(t *testing.T) {
	t.Run("succeeds once the endpoint recovers", func(t *testing.T) {
		var attempts int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&attempts, 1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err := WaitForHealthy(ctx, server.Client(), server.URL+"/_stcore/health", 10*time.Millisecond)
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, atomic.LoadInt32(&attempts), int32(3))
	})

	t.Run("times out when the endpoint never recovers", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		err := WaitForHealthy(ctx, server.Client(), server.URL+"/_stcore/health", 10*time.Millisecond)
		assert.ErrorIs(t, err, apperrors.ErrContainerNotHealthy)
	})

	t.Run("retries through connection errors until deadline", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		// Nothing listens on this port.
		err := WaitForHealthy(ctx, http.DefaultClient, "http://127.0.0.1:1/health", 10*time.Millisecond)
		assert.ErrorIs(t, err, apperrors.ErrContainerNotHealthy)
	})
}
