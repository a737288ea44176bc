package tracker

import (
	"net"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

// maxAcceptLanguageLength caps the header before parsing.
const maxAcceptLanguageLength = 4096

// FromRequest takes the page URL, referrer, visitor IP, user agent,
// Accept-Language and the default cookie domain from r, then reloads the
// first-party cookies for that domain.
func (t *Tracker) FromRequest(r *http.Request) {
	t.applyRequest(r)
	t.loadCookies()
}

func (t *Tracker) applyRequest(r *http.Request) {
	if r == nil {
		return
	}

	t.pageURL = requestURL(r)
	t.referrer = r.Referer()
	t.ip = t.ipResolver.IP(r)
	t.userAgent = r.UserAgent()
	t.language = normalizeAcceptLanguage(r.Header.Get("Accept-Language"))
	t.requestHost = hostWithoutPort(r.Host)
}

func requestURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}

	host := r.Host
	if host == "" && r.URL != nil {
		host = r.URL.Host
	}
	if host == "" {
		return ""
	}

	var uri string
	if r.URL != nil {
		uri = r.URL.RequestURI()
	}
	return scheme + "://" + host + uri
}

func hostWithoutPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

// normalizeAcceptLanguage rewrites the header as a comma separated list of
// canonical tags ordered by preference, e.g. "en-us;q=0.5,FR" becomes
// "fr,en-US". Unparseable headers are passed through.
func normalizeAcceptLanguage(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	if len(header) > maxAcceptLanguageLength {
		header = header[:maxAcceptLanguageLength]
	}

	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return header
	}

	parts := make([]string, 0, len(tags))
	for _, tag := range tags {
		parts = append(parts, tag.String())
	}
	return strings.Join(parts, ",")
}
