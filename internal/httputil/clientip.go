// Package httputil carries small HTTP request helpers shared by the API
// middleware.
package httputil

import (
	"net"
	"net/http"
	"strings"
)

// Proxy headers consulted when the server sits behind a trusted reverse
// proxy, in precedence order.
const (
	headerForwardedFor = "X-Forwarded-For"
	headerRealIP       = "X-Real-IP"
)

// ClientIP returns the originating client address for a request. With
// trustProxy set it honors X-Forwarded-For (leftmost entry) and X-Real-IP;
// otherwise, and as the fallback, it uses the connection's RemoteAddr.
// Never set trustProxy on a directly exposed listener: both headers are
// client-controlled.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if ip := forwardedClient(r.Header.Get(headerForwardedFor)); ip != "" {
			return ip
		}
		if ip := strings.TrimSpace(r.Header.Get(headerRealIP)); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr without a port (some test servers and unix sockets).
		return r.RemoteAddr
	}
	return host
}

// forwardedClient extracts the original client from an X-Forwarded-For
// value. Proxies append to the right, so the leftmost entry is the client.
func forwardedClient(xff string) string {
	if xff == "" {
		return ""
	}
	first, _, _ := strings.Cut(xff, ",")
	return strings.TrimSpace(first)
}
