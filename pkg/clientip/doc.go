// Package clientip resolves the visitor IP address of an HTTP request, for the
// cip override of tracking requests.
//
// GetIP uses DefaultHeaders (Cloudflare, DigitalOcean, X-Forwarded-For,
// X-Real-IP) and falls back to RemoteAddr. Deployments behind other proxies
// build their own Resolver:
//
//	res := clientip.NewResolver("X-Forwarded-For")
//	ip := res.IP(r)
//
// Header values are only trustworthy when the proxy overwrites them; a service
// reachable directly should use NewResolver() with no headers.
package clientip
