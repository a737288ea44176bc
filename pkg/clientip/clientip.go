package clientip

import (
	"net"
	"net/http"
	"strings"
)

// DefaultHeaders is the lookup order used by GetIP:
// CF-Connecting-IP, DO-Connecting-IP, X-Forwarded-For (first valid entry),
// X-Real-IP, then RemoteAddr.
var DefaultHeaders = []string{
	"CF-Connecting-IP",
	"DO-Connecting-IP",
	"X-Forwarded-For",
	"X-Real-IP",
}

// Resolver extracts the visitor address from a request using a fixed list of
// trusted proxy headers.
type Resolver struct {
	headers []string
}

// NewResolver creates a resolver checking headers in order. Without headers
// only RemoteAddr is used, which is right when no proxy sits in front.
func NewResolver(headers ...string) *Resolver {
	hs := make([]string, 0, len(headers))
	for _, h := range headers {
		if h = strings.TrimSpace(h); h != "" {
			hs = append(hs, http.CanonicalHeaderKey(h))
		}
	}
	return &Resolver{headers: hs}
}

var defaultResolver = NewResolver(DefaultHeaders...)

// GetIP returns the client address of r using DefaultHeaders.
func GetIP(r *http.Request) string {
	return defaultResolver.IP(r)
}

// IP returns the normalized client address, or "" when none is valid.
func (res *Resolver) IP(r *http.Request) string {
	if r == nil {
		return ""
	}

	for _, h := range res.headers {
		value := r.Header.Get(h)
		if value == "" {
			continue
		}
		// X-Forwarded-For and friends may carry a chain; the first valid hop wins
		for ip := range strings.SplitSeq(value, ",") {
			if parsed := parseIP(ip); parsed != "" {
				return parsed
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

// parseIP validates and normalizes an IP address string.
// Returns empty string if the IP is invalid.
func parseIP(ipStr string) string {
	ipStr = strings.TrimSpace(ipStr)
	if ipStr == "" {
		return ""
	}

	ip := net.ParseIP(ipStr)
	if ip == nil {
		return ""
	}

	return ip.String()
}
