package docker

import (
	"context"
	"fmt"
	"net/http"
	"time"

	apperrors "github.com/euron-one/medichat-deployer/internal/errors"
)

// WaitForHealthy polls url with GET until it answers 200 OK or ctx is done.
// Connection errors are expected while the application boots and are
// retried on the next tick.
func WaitForHealthy(ctx context.Context, httpClient *http.Client, url string, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if healthy(ctx, httpClient, url) {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %s", apperrors.ErrContainerNotHealthy, url)
		case <-ticker.C:
		}
	}
}

func healthy(ctx context.Context, httpClient *http.Client, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
