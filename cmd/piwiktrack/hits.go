package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrymomot/piwik/pkg/tracker"
)

// hit is one tracking call parsed from the command line.
type hit interface {
	url(tr *tracker.Tracker) (string, error)
	track(ctx context.Context, tr *tracker.Tracker) (*tracker.Response, error)
}

type pageViewHit struct{ title string }

func (h pageViewHit) url(tr *tracker.Tracker) (string, error) { return tr.PageViewURL(h.title), nil }
func (h pageViewHit) track(ctx context.Context, tr *tracker.Tracker) (*tracker.Response, error) {
	return tr.TrackPageView(ctx, h.title)
}

type eventHit struct{ e tracker.Event }

func (h eventHit) url(tr *tracker.Tracker) (string, error) { return tr.EventURL(h.e) }
func (h eventHit) track(ctx context.Context, tr *tracker.Tracker) (*tracker.Response, error) {
	return tr.TrackEvent(ctx, h.e)
}

type searchHit struct{ s tracker.SiteSearch }

func (h searchHit) url(tr *tracker.Tracker) (string, error) { return tr.SiteSearchURL(h.s), nil }
func (h searchHit) track(ctx context.Context, tr *tracker.Tracker) (*tracker.Response, error) {
	return tr.TrackSiteSearch(ctx, h.s)
}

type goalHit struct {
	id      int
	revenue float64
}

func (h goalHit) url(tr *tracker.Tracker) (string, error) { return tr.GoalURL(h.id, h.revenue), nil }
func (h goalHit) track(ctx context.Context, tr *tracker.Tracker) (*tracker.Response, error) {
	return tr.TrackGoal(ctx, h.id, h.revenue)
}

type actionHit struct {
	target string
	typ    tracker.ActionType
}

func (h actionHit) url(tr *tracker.Tracker) (string, error) { return tr.ActionURL(h.target, h.typ) }
func (h actionHit) track(ctx context.Context, tr *tracker.Tracker) (*tracker.Response, error) {
	return tr.TrackAction(ctx, h.target, h.typ)
}

type pingHit struct{}

func (pingHit) url(tr *tracker.Tracker) (string, error) { return tr.PingURL(), nil }
func (pingHit) track(ctx context.Context, tr *tracker.Tracker) (*tracker.Response, error) {
	return tr.Ping(ctx)
}

type orderHit struct{ o tracker.Order }

func (h orderHit) url(tr *tracker.Tracker) (string, error) { return tr.EcommerceOrderURL(h.o) }
func (h orderHit) track(ctx context.Context, tr *tracker.Tracker) (*tracker.Response, error) {
	return tr.TrackEcommerceOrder(ctx, h.o)
}

// parseHit turns "<kind> args..." into a hit.
//
//	pageview [title]
//	event <category> <action> [name] [value]
//	search <keyword> [category] [count]
//	goal <id> [revenue]
//	download <url> | link <url>
//	ping
//	order <id> <grand total>
func parseHit(args []string) (hit, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: missing hit kind", errUsage)
	}
	kind, rest := args[0], args[1:]
	arg := func(i int) string {
		if i < len(rest) {
			return rest[i]
		}
		return ""
	}
	need := func(n int) error {
		if len(rest) < n {
			return fmt.Errorf("%w: %s needs at least %d argument(s)", errUsage, kind, n)
		}
		return nil
	}

	switch kind {
	case "pageview":
		return pageViewHit{title: arg(0)}, nil

	case "event":
		if err := need(2); err != nil {
			return nil, err
		}
		e := tracker.Event{Category: arg(0), Action: arg(1), Name: arg(2)}
		if v := arg(3); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: event value %q: %v", errUsage, v, err)
			}
			e.Value = tracker.Float(f)
		}
		return eventHit{e: e}, nil

	case "search":
		if err := need(1); err != nil {
			return nil, err
		}
		s := tracker.SiteSearch{Keyword: arg(0), Category: arg(1)}
		if v := arg(2); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("%w: search count %q: %v", errUsage, v, err)
			}
			s.Count = tracker.Int(n)
		}
		return searchHit{s: s}, nil

	case "goal":
		if err := need(1); err != nil {
			return nil, err
		}
		id, err := strconv.Atoi(arg(0))
		if err != nil {
			return nil, fmt.Errorf("%w: goal id %q: %v", errUsage, arg(0), err)
		}
		h := goalHit{id: id}
		if v := arg(1); v != "" {
			if h.revenue, err = strconv.ParseFloat(v, 64); err != nil {
				return nil, fmt.Errorf("%w: revenue %q: %v", errUsage, v, err)
			}
		}
		return h, nil

	case "download", "link":
		if err := need(1); err != nil {
			return nil, err
		}
		return actionHit{target: arg(0), typ: tracker.ActionType(kind)}, nil

	case "ping":
		return pingHit{}, nil

	case "order":
		if err := need(2); err != nil {
			return nil, err
		}
		total, err := strconv.ParseFloat(arg(1), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: grand total %q: %v", errUsage, arg(1), err)
		}
		return orderHit{o: tracker.Order{ID: arg(0), GrandTotal: total}}, nil
	}

	return nil, fmt.Errorf("%w: unknown hit kind %q", errUsage, kind)
}
