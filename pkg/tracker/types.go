package tracker

import "time"

// Event is a custom interaction. Category and Action are required.
type Event struct {
	Category string
	Action   string
	Name     string
	Value    *float64
}

// SiteSearch is an internal search. Count is the number of results, if known.
type SiteSearch struct {
	Keyword  string
	Category string
	Count    *int
}

// Content identifies a content block for impressions and interactions.
type Content struct {
	Name   string
	Piece  string
	Target string
}

// Order is a completed e-commerce order. Optional amounts are omitted when nil.
type Order struct {
	ID         string
	GrandTotal float64
	SubTotal   *float64
	Tax        *float64
	Shipping   *float64
	Discount   *float64
}

// ActionType selects the parameter used by TrackAction.
type ActionType string

const (
	ActionDownload ActionType = "download"
	ActionLink     ActionType = "link"
)

func (a ActionType) Valid() bool {
	return a == ActionDownload || a == ActionLink
}

// BrowserPlugins lists the plugin flags reported by the JavaScript tracker.
type BrowserPlugins struct {
	Flash        bool
	Java         bool
	Director     bool
	QuickTime    bool
	RealPlayer   bool
	PDF          bool
	WindowsMedia bool
	Gears        bool
	Silverlight  bool
}

func (p BrowserPlugins) query() string {
	flag := func(b bool) string {
		if b {
			return "1"
		}
		return "0"
	}
	return "&fla=" + flag(p.Flash) +
		"&java=" + flag(p.Java) +
		"&dir=" + flag(p.Director) +
		"&qt=" + flag(p.QuickTime) +
		"&realp=" + flag(p.RealPlayer) +
		"&pdf=" + flag(p.PDF) +
		"&wma=" + flag(p.WindowsMedia) +
		"&gears=" + flag(p.Gears) +
		"&ag=" + flag(p.Silverlight)
}

// Response is what the tracker observes from the collector.
type Response struct {
	StatusCode int
	// RequestedURL is the final URL after redirects.
	RequestedURL string
	Duration     time.Duration
}

// Success reports a 2xx status.
func (r *Response) Success() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Float returns a pointer to v, for optional amounts.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v, for optional counts.
func Int(v int) *int { return &v }
