package tracker

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// AttributionInfo credits goal conversions to a campaign or referrer.
// Zero fields are not sent.
type AttributionInfo struct {
	CampaignName      string
	CampaignKeyword   string
	ReferrerTimestamp time.Time
	ReferrerURL       string
}

// MarshalJSON emits [name, keyword, unixSeconds, url], the ref cookie layout.
func (a AttributionInfo) MarshalJSON() ([]byte, error) {
	var ts int64
	if !a.ReferrerTimestamp.IsZero() {
		ts = a.ReferrerTimestamp.Unix()
	}
	return json.Marshal([]any{a.CampaignName, a.CampaignKeyword, ts, a.ReferrerURL})
}

// UnmarshalJSON accepts the array form with up to four elements. The
// timestamp may be a number or a numeric string.
func (a *AttributionInfo) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	// non-string entries read as empty
	str := func(i int) string {
		var s string
		if i < len(raw) {
			_ = json.Unmarshal(raw[i], &s)
		}
		return s
	}

	out := AttributionInfo{
		CampaignName:    str(0),
		CampaignKeyword: str(1),
		ReferrerURL:     str(3),
	}

	if len(raw) > 2 {
		ts, err := parseTimestamp(raw[2])
		if err != nil {
			return err
		}
		if ts > 0 {
			out.ReferrerTimestamp = time.Unix(ts, 0)
		}
	}

	*a = out
	return nil
}

func parseTimestamp(raw json.RawMessage) (int64, error) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if f, err := n.Float64(); err == nil {
			return int64(f), nil
		}
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("attribution timestamp: %w", err)
	}
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("attribution timestamp: %w", err)
	}
	return int64(f), nil
}

func (a AttributionInfo) isZero() bool {
	return a.CampaignName == "" && a.CampaignKeyword == "" && a.ReferrerTimestamp.IsZero() && a.ReferrerURL == ""
}

func (a AttributionInfo) query() string {
	var s string
	if a.CampaignName != "" {
		s += "&_rcn=" + PercentEncode(a.CampaignName)
	}
	if a.CampaignKeyword != "" {
		s += "&_rck=" + PercentEncode(a.CampaignKeyword)
	}
	if !a.ReferrerTimestamp.IsZero() {
		s += "&_refts=" + FormatUnixTimestamp(a.ReferrerTimestamp)
	}
	if a.ReferrerURL != "" {
		s += "&_ref=" + PercentEncode(a.ReferrerURL)
	}
	return s
}

func decodeAttribution(raw string) (AttributionInfo, error) {
	unescaped, err := url.QueryUnescape(raw)
	if err != nil {
		return AttributionInfo{}, err
	}
	var a AttributionInfo
	if err := json.Unmarshal([]byte(unescaped), &a); err != nil {
		return AttributionInfo{}, err
	}
	return a, nil
}

// SetAttributionInfo sets the campaign and referrer sent with conversions.
// It is also persisted in the ref cookie.
func (t *Tracker) SetAttributionInfo(info AttributionInfo) {
	t.attribution = &info
}

// AttributionInfo returns the attribution set on the tracker, or the one read
// from the ref cookie.
func (t *Tracker) AttributionInfo() (AttributionInfo, bool) {
	if t.attribution != nil {
		return *t.attribution, true
	}
	return AttributionInfo{}, false
}
