package utils

import (
	"net"
	"net/url"
	"strings"
)

// IsAllowedOrigin reports whether an Origin header value should be trusted.
// The dashboard is meant for home networks: localhost, RFC1918 and
// link-local addresses, .local mDNS names, and bare LAN hostnames pass.
// Anything that looks like the public internet does not.
func IsAllowedOrigin(origin string) bool {
	if origin == "" {
		return false
	}

	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}
	host := parsed.Hostname()

	if host == "localhost" || strings.HasSuffix(host, ".local") {
		return true
	}
	// Single-label names resolve only on the LAN.
	if !strings.Contains(host, ".") {
		return true
	}
	if ip := net.ParseIP(host); ip != nil {
		return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast()
	}
	return false
}
