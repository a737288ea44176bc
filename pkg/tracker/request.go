package tracker

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

// composed is a tracking URL together with the state changes that become
// effective once it is committed.
type composed struct {
	url  string
	kind string
	// clearItems empties the e-commerce ledger.
	clearItems bool
	// recordOrder stores the order time as lastEcommerceOrderTs.
	recordOrder bool
}

// buildURL renders the common parameter groups followed by suffix.
func (t *Tracker) buildURL(suffix string) string {
	var b strings.Builder
	b.Grow(512)

	b.WriteString(t.baseURL)
	b.WriteString("?idsite=")
	b.WriteString(strconv.Itoa(t.siteID))
	b.WriteString("&rec=1&apiv=")
	b.WriteString(strconv.Itoa(apiVersion))
	b.WriteString("&r=")
	b.WriteString(fmt.Sprintf("%06d", rand.IntN(1000000)))

	// overrides; the collector honours them only with a valid token_auth
	writeParam(&b, "cip", t.ip)
	writeParam(&b, "uid", t.userID)
	if !t.forcedDatetime.IsZero() {
		writeParam(&b, "cdt", FormatLocalDateTime(t.forcedDatetime))
	}
	if t.forceNewVisit {
		b.WriteString("&new_visit=1")
	}
	if !t.bulk {
		writeParam(&b, "token_auth", t.tokenAuth)
	}

	// visit continuity from the id cookie
	b.WriteString("&_idts=")
	b.WriteString(strconv.FormatInt(t.state.createTs, 10))
	b.WriteString("&_idvc=")
	b.WriteString(strconv.FormatInt(t.state.visitCount, 10))
	if t.state.lastVisitTs > 0 {
		b.WriteString("&_viewts=")
		b.WriteString(strconv.FormatInt(t.state.lastVisitTs, 10))
	}
	if t.state.lastEcommerceOrderTs > 0 {
		b.WriteString("&_ects=")
		b.WriteString(strconv.FormatInt(t.state.lastEcommerceOrderTs, 10))
	}

	b.WriteString(t.plugins)
	if !t.localTime.IsZero() {
		fmt.Fprintf(&b, "&h=%d&m=%d&s=%d", t.localTime.Hour(), t.localTime.Minute(), t.localTime.Second())
	}
	if t.width > 0 && t.height > 0 {
		fmt.Fprintf(&b, "&res=%dx%d", t.width, t.height)
	}
	if t.hasCookies {
		b.WriteString("&cookie=1")
	}

	if len(t.visitVars) > 0 {
		writeParam(&b, "_cvar", t.visitVars.encode())
	}
	if len(t.pageVars) > 0 {
		writeParam(&b, "cvar", t.pageVars.encode())
	}
	if len(t.eventVars) > 0 {
		writeParam(&b, "e_cvar", t.eventVars.encode())
	}
	if t.generationTime > 0 {
		b.WriteString("&gt_ms=")
		b.WriteString(strconv.Itoa(t.generationTime))
	}
	if t.forcedVisitorID != "" {
		b.WriteString("&cid=")
		b.WriteString(t.forcedVisitorID)
	} else {
		b.WriteString("&_id=")
		b.WriteString(t.VisitorID())
	}

	writeParam(&b, "url", t.pageURL)
	writeParam(&b, "urlref", t.referrer)
	if t.charset != "" && !strings.EqualFold(t.charset, defaultCharset) {
		writeParam(&b, "cs", t.charset)
	}

	if t.attribution != nil {
		b.WriteString(t.attribution.query())
	}

	writeParam(&b, "country", t.country)
	writeParam(&b, "region", t.region)
	writeParam(&b, "city", t.city)
	if t.latitude != nil {
		b.WriteString("&lat=")
		b.WriteString(formatFloat(*t.latitude))
	}
	if t.longitude != nil {
		b.WriteString("&long=")
		b.WriteString(formatFloat(*t.longitude))
	}

	for _, p := range t.params {
		b.WriteString("&")
		b.WriteString(PercentEncode(p.name))
		b.WriteString("=")
		b.WriteString(PercentEncode(p.value))
	}

	if !t.sendImage {
		b.WriteString("&send_image=0")
	}
	b.WriteString(t.debugAppend)
	b.WriteString(suffix)

	return b.String()
}

// writeParam appends &key=<encoded value> when value is not empty.
func writeParam(b *strings.Builder, key, value string) {
	if value == "" {
		return
	}
	b.WriteString("&")
	b.WriteString(key)
	b.WriteString("=")
	b.WriteString(PercentEncode(value))
}

// cleanup resets the per-request state: page and event variables, custom
// parameters and the force-new-visit flag.
func (t *Tracker) cleanup() {
	t.pageVars = make(customVars)
	t.eventVars = make(customVars)
	t.params = nil
	t.forceNewVisit = false
}

// commit applies the effects of a request that reached the collector or was
// handed to the caller.
func (t *Tracker) commit(c composed) {
	t.cleanup()
	if c.clearItems {
		t.items.reset()
	}
	if c.recordOrder {
		at := t.forcedDatetime
		if at.IsZero() {
			at = t.now()
		}
		t.state.lastEcommerceOrderTs = at.Unix()
	}
	t.writeCookies()
}
