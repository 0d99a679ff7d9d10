package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
)

type target struct {
	url    string
	scheme string
	host   string
}

// newTarget takes in a raw URL, parses it and returns a target instance
func newTarget(rawURL string) (*target, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("invalid URL %s: %w", rawURL, err)
	}

	scheme := strings.ToLower(parsed.Scheme)
	switch scheme {
	case "http", "https":
		if parsed.Host == "" {
			return nil, fmt.Errorf("URL missing host: %s", rawURL)
		}
	case "file":
		if parsed.Path == "" {
			return nil, fmt.Errorf("URL missing path: %s", rawURL)
		}
	default:
		return nil, fmt.Errorf("unsupported URL scheme %q: %s", parsed.Scheme, rawURL)
	}

	parsed.Scheme = scheme
	parsed.Host = strings.ToLower(parsed.Host)

	return &target{
		url:    parsed.String(),
		scheme: scheme,
		host:   parsed.Host,
	}, nil
}

// filterTargets parses the given URLs, skipping invalid ones and duplicates
func filterTargets(urls []string, log logrus.FieldLogger) []*target {
	seen := make(map[string]bool)
	var targets []*target

	for _, rawURL := range urls {
		t, err := newTarget(rawURL)
		if err != nil {
			log.WithError(err).Warn("Skipping URL")
			continue
		}

		if seen[t.url] {
			continue
		}
		seen[t.url] = true

		targets = append(targets, t)
	}

	return targets
}
