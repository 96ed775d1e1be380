package httputil

import (
	"net/http/httptest"
	"testing"
)

// TestClientIP covers the proxy-header and RemoteAddr paths.
func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xri        string
		trustProxy bool
		want       string
	}{
		{"remote addr only", "10.0.0.1:54321", "", "", false, "10.0.0.1"},
		{"untrusted proxy ignores headers", "10.0.0.1:54321", "1.2.3.4", "", false, "10.0.0.1"},
		{"xff single", "10.0.0.1:54321", "1.2.3.4", "", true, "1.2.3.4"},
		{"xff chain takes first", "10.0.0.1:54321", "1.2.3.4, 5.6.7.8", "", true, "1.2.3.4"},
		{"x-real-ip fallback", "10.0.0.1:54321", "", "9.9.9.9", true, "9.9.9.9"},
		{"no port", "10.0.0.1", "", "", false, "10.0.0.1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tc.remoteAddr
			if tc.xff != "" {
				r.Header.Set("X-Forwarded-For", tc.xff)
			}
			if tc.xri != "" {
				r.Header.Set("X-Real-IP", tc.xri)
			}
			if got := ClientIP(r, tc.trustProxy); got != tc.want {
				t.Errorf("ClientIP = %q, want %q", got, tc.want)
			}
		})
	}
}
