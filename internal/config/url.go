// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package config

import (
	"fmt"
	"net"
	"net/url"
)

// validateBaseURL checks an http(s) endpoint prefix. Paths are allowed
// (the Places API lives under /maps/api/place); query strings are not.
func validateBaseURL(rawURL, fieldName string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	if parsed.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsed.RawQuery)
	}
	return nil
}

// validateHostPort checks a host:port pair such as a Redis address.
func validateHostPort(addr, fieldName string) error {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("%s must be host:port: %w", fieldName, err)
	}
	if host == "" || port == "" {
		return fmt.Errorf("%s must be host:port, got: %s", fieldName, addr)
	}
	return nil
}
