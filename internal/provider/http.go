package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/time/rate"
)

const (
	defaultUserAgent = "pumpradar/1.0 (+https://github.com/pumpradar/pumpradar)"
	errorBodyLimit   = 256
)

// fetch waits for the limiter, issues a GET and returns the body of a 200 response.
func fetch(ctx context.Context, client *http.Client, limiter *rate.Limiter, name, url string, header http.Header) ([]byte, error) {
	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%s rate limit wait: %w", name, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", defaultUserAgent)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return nil, fmt.Errorf("%s API error %d: %s", name, resp.StatusCode, excerpt(string(body)))
	}
	return io.ReadAll(resp.Body)
}

func excerpt(body string) string {
	body = strings.Join(strings.Fields(body), " ")
	if len(body) > errorBodyLimit {
		body = body[:errorBodyLimit]
	}
	return body
}

func sanitizeText(in string, maxLen int) string {
	in = strings.TrimSpace(in)
	if in == "" {
		return ""
	}
	in = strings.Join(strings.Fields(in), " ")
	if maxLen > 0 && len(in) > maxLen {
		in = in[:maxLen]
	}
	return in
}
