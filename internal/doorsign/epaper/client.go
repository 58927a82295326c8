// Package epaper talks to the external e-paper status-display provider.
// The provider represents physical door signs, so every operation here
// is best-effort: failures are reported as values, never as errors that
// could fail a request which already succeeded locally.
package epaper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout bounds a single provider call. The interactive status
// update path waits on a push at most this long; a hung device endpoint
// must not block it indefinitely.
const DefaultTimeout = 5 * time.Second

// maxBodySize caps how much of a provider response we will read when
// decoding the pull snapshot.
const maxBodySize = 1 << 20

// PushResult reports the outcome of one outbound status update.
// Updated=false with an empty Reason means the push was skipped because
// no credentials are configured, which is not a failure.
type PushResult struct {
	Updated bool
	Reason  string
}

// Failed reports whether the push was attempted and did not succeed.
func (r PushResult) Failed() bool { return !r.Updated && r.Reason != "" }

type Client struct {
	http *http.Client
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{http: &http.Client{Timeout: timeout}}
}

// Push sends one status value to the provider, encoded as
// {importURL}/?import_key=K&{epaperID}_status=V. Transport errors and
// non-2xx responses come back as a failed PushResult, never an error.
func (c *Client) Push(ctx context.Context, importURL, importKey, epaperID, value string) PushResult {
	if importURL == "" || importKey == "" || epaperID == "" {
		return PushResult{} // unconfigured: silent no-op
	}

	q := url.Values{}
	q.Set("import_key", importKey)
	q.Set(epaperID+"_status", value)
	target := importURL + "/?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return PushResult{Reason: fmt.Sprintf("build request: %v", err)}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return PushResult{Reason: fmt.Sprintf("provider unreachable: %v", err)}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return PushResult{Reason: fmt.Sprintf("provider returned HTTP %d", resp.StatusCode)}
	}
	return PushResult{Updated: true}
}

// Pull fetches the provider's snapshot of all statuses it holds, keyed
// by "<epaperID>_status". Any transport, HTTP or decode failure yields
// an empty map; pull is inherently best-effort verification.
func (c *Client) Pull(ctx context.Context, exportURL, exportKey string) map[string]string {
	if exportURL == "" || exportKey == "" {
		return map[string]string{}
	}

	q := url.Values{}
	q.Set("export_key", exportKey)
	q.Set("my_values", "json")
	target := exportURL + "/?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return map[string]string{}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return map[string]string{}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return map[string]string{}
	}

	// The provider reports values of mixed types; anything non-string is
	// ignored rather than failing the whole snapshot.
	var raw map[string]any
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&raw); err != nil {
		return map[string]string{}
	}

	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}
