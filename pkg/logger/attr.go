package logger

import (
	"log/slog"
	"strconv"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// SiteID records the tracked site under the key "site_id".
func SiteID(id int) slog.Attr {
	return slog.Int("site_id", id)
}

// VisitorID records the 16 hex char visitor id under the key "visitor_id".
// An empty id yields an empty Attr.
func VisitorID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("visitor_id", id)
}

// Kind records the tracking request kind (pageview, event, goal, ...).
func Kind(kind string) slog.Attr {
	return slog.String("kind", kind)
}

func StatusCode(code int) slog.Attr {
	return slog.Int("status_code", code)
}

// URL records a collector or page URL under the key "url".
func URL(u string) slog.Attr {
	return slog.String("url", u)
}

func QueueSize(n int) slog.Attr {
	return slog.Int("queue_size", n)
}

// Duration records a duration under the key "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Cookie records a first-party cookie name under the key "cookie".
func Cookie(name string) slog.Attr {
	return slog.String("cookie", name)
}
