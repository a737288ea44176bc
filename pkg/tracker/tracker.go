package tracker

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrymomot/piwik/pkg/clientip"
	"github.com/dmitrymomot/piwik/pkg/cookie"
	"github.com/dmitrymomot/piwik/pkg/logger"
	"github.com/dmitrymomot/piwik/pkg/metrics"
	"github.com/dmitrymomot/piwik/pkg/transport"
)

const (
	apiVersion      = 1
	visitorIDLength = 16
	defaultCharset  = "utf-8"
)

// Tracker composes tracking requests for one site and keeps the visit state
// between calls. It is not safe for concurrent use; use one tracker per
// visitor and goroutine.
type Tracker struct {
	siteID  int
	baseURL string

	sender     *transport.Sender
	cookies    cookie.Store
	log        *slog.Logger
	metrics    metrics.Recorder
	ipResolver *clientip.Resolver
	now        func() time.Time

	initRequest *http.Request

	// page context
	pageURL     string
	referrer    string
	charset     string
	ip          string
	userAgent   string
	language    string
	requestHost string

	// identity
	userID          string
	forcedVisitorID string
	randomVisitorID string
	cookieVisitorID string
	state           visitState

	tokenAuth      string
	forcedDatetime time.Time
	forceNewVisit  bool
	requestTimeout time.Duration

	// browser hints
	localTime      time.Time
	width, height  int
	hasCookies     bool
	plugins        string
	generationTime int
	debugAppend    string
	sendImage      bool

	country, region, city string
	latitude, longitude   *float64

	attribution *AttributionInfo
	visitVars   customVars
	pageVars    customVars
	eventVars   customVars
	params      []customParam
	items       ledger

	cookieSupport  bool
	cookieDomain   string
	cookiePath     string
	degradedLogged bool

	bulk  bool
	queue []string
}

type customParam struct {
	name, value string
}

// New creates a tracker for siteID reporting to collectorURL. The URL gets
// /piwik.php appended unless it already points at piwik.php or proxy-piwik.php.
func New(siteID int, collectorURL string, opts ...Option) (*Tracker, error) {
	if siteID < 0 {
		return nil, fmt.Errorf("%w: site id must not be negative", ErrInvalidArgument)
	}
	base, err := normalizeCollectorURL(collectorURL)
	if err != nil {
		return nil, err
	}

	t := &Tracker{
		siteID:        siteID,
		baseURL:       base,
		sender:        transport.NewSender(),
		log:           slog.Default(),
		metrics:       metrics.Noop{},
		ipResolver:    clientip.NewResolver(clientip.DefaultHeaders...),
		now:           time.Now,
		charset:       defaultCharset,
		sendImage:     true,
		cookieSupport: true,
		cookiePath:    "/",
		visitVars:     make(customVars),
		pageVars:      make(customVars),
		eventVars:     make(customVars),
	}
	for _, opt := range opts {
		opt(t)
	}

	t.log = t.log.With(logger.Component("piwik.tracker"), logger.SiteID(siteID))
	t.randomVisitorID = newRandomVisitorID()
	t.state.createTs = t.now().Unix()

	if r := t.initRequest; r != nil {
		t.initRequest = nil
		t.applyRequest(r)
	}
	t.loadCookies()

	return t, nil
}

func normalizeCollectorURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: collector URL is required", ErrInvalidArgument)
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("%w: collector URL %q must be an absolute http(s) URL", ErrInvalidArgument, raw)
	}
	if strings.Contains(raw, "/piwik.php") || strings.Contains(raw, "/proxy-piwik.php") {
		return raw, nil
	}
	return strings.TrimSuffix(raw, "/") + "/piwik.php", nil
}

// SiteID returns the tracked site.
func (t *Tracker) SiteID() int { return t.siteID }

// CollectorURL returns the normalised collector endpoint.
func (t *Tracker) CollectorURL() string { return t.baseURL }

// SetURL sets the page URL sent as url. When the URL host decides the cookie
// names, cookies under the new names are read again.
func (t *Tracker) SetURL(u string) {
	before := t.hashDomain()
	t.pageURL = u
	if t.hashDomain() != before {
		t.loadCookies()
	}
}

// SetURLReferrer sets the referrer sent as urlref.
func (t *Tracker) SetURLReferrer(u string) { t.referrer = u }

// SetPageCharset sets cs. The default utf-8 is never sent.
func (t *Tracker) SetPageCharset(charset string) { t.charset = charset }

// SetGenerationTime sets the page generation time in milliseconds.
func (t *Tracker) SetGenerationTime(ms int) { t.generationTime = ms }

// SetIP overrides the visitor IP. Requires token_auth on the collector.
func (t *Tracker) SetIP(ip string) { t.ip = ip }

// SetForceVisitDateTime backdates the request. Requires token_auth.
func (t *Tracker) SetForceVisitDateTime(dt time.Time) { t.forcedDatetime = dt }

// SetForceNewVisit starts a new visit with the next request only.
func (t *Tracker) SetForceNewVisit() { t.forceNewVisit = true }

func (t *Tracker) SetTokenAuth(token string) { t.tokenAuth = token }

// SetLocalTime sets the visitor's local time, sent as h, m and s.
func (t *Tracker) SetLocalTime(lt time.Time) { t.localTime = lt }

func (t *Tracker) SetResolution(width, height int) {
	t.width, t.height = width, height
}

func (t *Tracker) SetBrowserHasCookies(has bool) { t.hasCookies = has }

// SetDebugStringAppend appends s verbatim to every request.
func (t *Tracker) SetDebugStringAppend(s string) { t.debugAppend = s }

func (t *Tracker) SetPlugins(p BrowserPlugins) { t.plugins = p.query() }

// DisableCookieSupport stops reading and writing first-party cookies.
func (t *Tracker) DisableCookieSupport() { t.cookieSupport = false }

// DisableSendImageResponse asks the collector for a 204 instead of a GIF.
func (t *Tracker) DisableSendImageResponse() { t.sendImage = false }

func (t *Tracker) SetUserAgent(ua string) { t.userAgent = ua }

// SetBrowserLanguage sets the Accept-Language value sent to the collector.
func (t *Tracker) SetBrowserLanguage(lang string) { t.language = lang }

func (t *Tracker) SetCountry(country string) { t.country = country }

func (t *Tracker) SetRegion(region string) { t.region = region }

func (t *Tracker) SetCity(city string) { t.city = city }

func (t *Tracker) SetLatitude(lat float64) { t.latitude = &lat }

func (t *Tracker) SetLongitude(long float64) { t.longitude = &long }

// SetCustomTrackingParameter adds name=value to the next request. Setting an
// existing name replaces its value in place.
func (t *Tracker) SetCustomTrackingParameter(name, value string) {
	for i := range t.params {
		if t.params[i].name == name {
			t.params[i].value = value
			return
		}
	}
	t.params = append(t.params, customParam{name: name, value: value})
}

func (t *Tracker) ClearCustomTrackingParameters() { t.params = nil }

// SetRequestTimeout bounds every collector call. Zero restores the default.
func (t *Tracker) SetRequestTimeout(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("%w: timeout must not be negative", ErrInvalidArgument)
	}
	t.requestTimeout = d
	return nil
}
