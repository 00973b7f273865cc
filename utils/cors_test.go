package utils

import "testing"

func TestIsAllowedOrigin(t *testing.T) {
	tests := []struct {
		origin  string
		allowed bool
	}{
		{"http://localhost", true},
		{"http://localhost:8080", true},
		{"https://localhost:3000", true},

		{"http://192.168.1.50", true},
		{"http://192.168.1.50:8989", true},
		{"http://10.0.0.2:8080", true},
		{"http://172.16.0.1", true},
		{"http://127.0.0.1:8080", true},
		{"http://169.254.1.1", true},
		{"http://[::1]:8080", true},

		{"http://nas.local", true},
		{"http://nas.local:8989", true},
		{"http://htpc:8080", true},

		{"http://example.com", false},
		{"https://thetvdb.com", false},
		{"http://nas.local.evil.com", false},
		{"http://8.8.8.8", false},
		{"http://203.0.113.7:8080", false},

		{"", false},
		{"not-a-url", false},
	}

	for _, tt := range tests {
		if got := IsAllowedOrigin(tt.origin); got != tt.allowed {
			t.Errorf("IsAllowedOrigin(%q) = %v, want %v", tt.origin, got, tt.allowed)
		}
	}
}
