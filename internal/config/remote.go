package config

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// PresetBaseURL is where shared per-project presets are published.
const PresetBaseURL = "https://openzipkin-contrib.github.io/apache-release-verification/presets"

// remoteTimeout bounds one preset fetch.
const remoteTimeout = 30 * time.Second

// LoadRemote fetches a remote configuration layer. The reference is
// either a full HTTP(S) URL or a "project/module" slug expanded against
// PresetBaseURL. When isDefault is set (the slug was inferred rather
// than requested), a missing preset is not an error and yields an empty
// layer.
func LoadRemote(ctx context.Context, userAgent, reference string, isDefault bool) (Config, error) {
	url := reference
	if !strings.HasPrefix(reference, "http://") && !strings.HasPrefix(reference, "https://") {
		url = fmt.Sprintf("%s/%s.yaml", PresetBaseURL, reference)
	}

	ctx, cancel := context.WithTimeout(ctx, remoteTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Config{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		if isDefault {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("fetch remote config %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if isDefault {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("fetch remote config %s: status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Config{}, fmt.Errorf("read remote config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("parse remote config %s: %w", url, err)
	}
	return cfg, nil
}
