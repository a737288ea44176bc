package tracker

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/piwik/pkg/cookie"
	"github.com/dmitrymomot/piwik/pkg/logger"
)

const (
	cookieID     = "id"
	cookieSes    = "ses"
	cookieRef    = "ref"
	cookieCvar   = "cvar"
	unknownHost  = "unknown"
	sessionValue = "*"
)

// Cookie lifetimes match the JavaScript tracker.
const (
	visitorCookieTTL  = 63072000 * time.Second // 2 years
	sessionCookieTTL  = 30 * time.Minute
	referralCookieTTL = 15768000 * time.Second // 6 months
)

// fixupDomain turns "*.example.org" into ".example.org" and drops a trailing dot.
func fixupDomain(domain string) string {
	domain = strings.TrimSpace(domain)
	if strings.HasPrefix(domain, "*.") {
		domain = domain[1:]
	}
	return strings.TrimSuffix(domain, ".")
}

func (t *Tracker) cookiesEnabled() bool {
	if t.cookies != nil && t.cookieSupport {
		return true
	}
	if !t.degradedLogged {
		t.degradedLogged = true
		t.log.Debug("first-party cookies unavailable, using a per-tracker visitor id")
	}
	return false
}

// hashDomain is the configured cookie domain, else the request host without
// www., else the page URL host, else "unknown".
func (t *Tracker) hashDomain() string {
	if t.cookieDomain != "" {
		return t.cookieDomain
	}
	host := t.requestHost
	if host == "" && t.pageURL != "" {
		if u, err := url.Parse(t.pageURL); err == nil {
			host = u.Hostname()
		}
	}
	if host == "" {
		return unknownHost
	}
	return strings.TrimPrefix(host, "www.")
}

// cookieName returns _pk_<base>.<idsite>.<first 4 hex of sha1(domain+path)>.
func (t *Tracker) cookieName(base string) string {
	hash := SHA1Hex([]byte(t.hashDomain() + t.cookiePath))[:4]
	return "_pk_" + base + "." + strconv.Itoa(t.siteID) + "." + hash
}

func (t *Tracker) expireCookie(base string) {
	if !t.cookiesEnabled() {
		return
	}
	name := t.cookieName(base)
	opts := []cookie.Option{
		cookie.WithPath(t.cookiePath),
		cookie.WithMaxAge(-1),
		cookie.WithExpires(time.Unix(0, 0)),
	}
	if t.cookieDomain != "" {
		opts = append(opts, cookie.WithDomain(t.cookieDomain))
	}
	if err := t.cookies.Set(name, "", opts...); err != nil {
		t.log.Warn("expiring cookie failed", logger.Cookie(name), logger.Error(err))
	}
}

func (t *Tracker) readCookie(base string) (string, bool) {
	if !t.cookiesEnabled() {
		return "", false
	}
	name := t.cookieName(base)
	v, err := t.cookies.Get(name)
	if err != nil {
		if !errors.Is(err, cookie.ErrCookieNotFound) {
			t.log.Warn("reading cookie failed", logger.Cookie(name), logger.Error(err))
		}
		return "", false
	}
	return v, v != ""
}

func (t *Tracker) writeCookie(base, value string, ttl time.Duration) {
	name := t.cookieName(base)
	opts := []cookie.Option{
		cookie.WithPath(t.cookiePath),
		cookie.WithMaxAge(int(ttl / time.Second)),
		cookie.WithExpires(t.now().Add(ttl)),
	}
	if t.cookieDomain != "" {
		opts = append(opts, cookie.WithDomain(t.cookieDomain))
	}
	if err := t.cookies.Set(name, value, opts...); err != nil {
		t.log.Warn("writing cookie failed", logger.Cookie(name), logger.Error(err))
	}
}

// loadCookies reads the id, ref and cvar cookies into the tracker.
// Malformed cookies are treated as absent.
func (t *Tracker) loadCookies() {
	if raw, ok := t.readCookie(cookieID); ok {
		if id, state, ok := parseIDCookie(raw); ok {
			t.cookieVisitorID = id
			t.state = state
			if t.state.createTs == 0 {
				t.state.createTs = t.now().Unix()
			}
		}
	}

	if t.attribution == nil {
		if raw, ok := t.readCookie(cookieRef); ok {
			if info, err := decodeAttribution(raw); err == nil && !info.isZero() {
				t.attribution = &info
			}
		}
	}

	if vars := t.readCustomVarsCookie(); vars != nil {
		for slot, v := range vars {
			if _, set := t.visitVars[slot]; !set {
				t.visitVars[slot] = v
			}
		}
	}
}

func (t *Tracker) readCustomVarsCookie() customVars {
	raw, ok := t.readCookie(cookieCvar)
	if !ok {
		return nil
	}
	vars, err := decodeCustomVars(raw)
	if err != nil {
		return nil
	}
	return vars
}

// parseIDCookie reads id.createTs.visitCount.currentVisitTs.lastVisitTs.lastEcommerceOrderTs.
// Only the id is mandatory; empty or invalid numeric fields read as zero.
func parseIDCookie(raw string) (string, visitState, bool) {
	fields := strings.Split(raw, ".")
	if !isVisitorID(fields[0]) {
		return "", visitState{}, false
	}

	num := func(i int) int64 {
		if i >= len(fields) || fields[i] == "" {
			return 0
		}
		n, err := strconv.ParseInt(fields[i], 10, 64)
		if err != nil || n < 0 {
			return 0
		}
		return n
	}

	return strings.ToLower(fields[0]), visitState{
		createTs:             num(1),
		visitCount:           num(2),
		currentVisitTs:       num(3),
		lastVisitTs:          num(4),
		lastEcommerceOrderTs: num(5),
	}, true
}

func formatIDCookie(id string, s visitState) string {
	ts := func(v int64) string {
		if v == 0 {
			return ""
		}
		return strconv.FormatInt(v, 10)
	}
	return strings.Join([]string{
		id,
		strconv.FormatInt(s.createTs, 10),
		strconv.FormatInt(s.visitCount, 10),
		ts(s.currentVisitTs),
		ts(s.lastVisitTs),
		ts(s.lastEcommerceOrderTs),
	}, ".")
}

// writeCookies persists the visit state. A missing session cookie starts a
// new visit.
func (t *Tracker) writeCookies() {
	if !t.cookiesEnabled() {
		return
	}

	now := t.now()
	if _, active := t.readCookie(cookieSes); !active {
		t.state.visitCount++
		t.state.lastVisitTs = t.state.currentVisitTs
		t.state.currentVisitTs = now.Unix()
	}

	// Only the stored or random id is persisted. The user id hash and the
	// forced id stay per tracker, so clearing them falls back to the cookie.
	id := t.cookieVisitorID
	if id == "" {
		id = t.randomVisitorID
	}
	t.cookieVisitorID = id
	t.writeCookie(cookieID, formatIDCookie(id, t.state), visitorCookieTTL)
	t.writeCookie(cookieSes, sessionValue, sessionCookieTTL)

	if t.attribution != nil && !t.attribution.isZero() {
		if v, err := encodeJSON(t.attribution); err == nil {
			t.writeCookie(cookieRef, PercentEncode(v), referralCookieTTL)
		}
	}
	if len(t.visitVars) > 0 {
		t.writeCookie(cookieCvar, PercentEncode(t.visitVars.encode()), sessionCookieTTL)
	}
}
