package tracker

import (
	"context"

	"github.com/dmitrymomot/piwik/pkg/async"
)

// The Async variants run compose, dispatch and commit in a goroutine. Invalid
// arguments are reported through an already resolved future, before anything
// runs. The tracker is still not safe for concurrent use: await one future
// before starting the next call on the same tracker.

func (t *Tracker) TrackPageViewAsync(ctx context.Context, title string) *async.Future[*Response] {
	return async.Async(ctx, title, t.TrackPageView)
}

func (t *Tracker) TrackEventAsync(ctx context.Context, e Event) *async.Future[*Response] {
	if err := e.validate(); err != nil {
		return async.Resolved[*Response](nil, err)
	}
	return async.Async(ctx, e, t.TrackEvent)
}

func (t *Tracker) TrackSiteSearchAsync(ctx context.Context, s SiteSearch) *async.Future[*Response] {
	return async.Async(ctx, s, t.TrackSiteSearch)
}

func (t *Tracker) TrackGoalAsync(ctx context.Context, id int, revenue float64) *async.Future[*Response] {
	return async.Run(ctx, func(ctx context.Context) (*Response, error) {
		return t.TrackGoal(ctx, id, revenue)
	})
}

func (t *Tracker) TrackActionAsync(ctx context.Context, actionURL string, typ ActionType) *async.Future[*Response] {
	if err := validateActionType(typ); err != nil {
		return async.Resolved[*Response](nil, err)
	}
	return async.Run(ctx, func(ctx context.Context) (*Response, error) {
		return t.TrackAction(ctx, actionURL, typ)
	})
}

func (t *Tracker) TrackContentImpressionAsync(ctx context.Context, c Content) *async.Future[*Response] {
	if err := c.validate(); err != nil {
		return async.Resolved[*Response](nil, err)
	}
	return async.Async(ctx, c, t.TrackContentImpression)
}

func (t *Tracker) TrackContentInteractionAsync(ctx context.Context, interaction string, c Content) *async.Future[*Response] {
	if err := validateInteraction(interaction, c); err != nil {
		return async.Resolved[*Response](nil, err)
	}
	return async.Run(ctx, func(ctx context.Context) (*Response, error) {
		return t.TrackContentInteraction(ctx, interaction, c)
	})
}

func (t *Tracker) PingAsync(ctx context.Context) *async.Future[*Response] {
	return async.Run(ctx, t.Ping)
}

func (t *Tracker) TrackEcommerceCartUpdateAsync(ctx context.Context, grandTotal float64) *async.Future[*Response] {
	return async.Async(ctx, grandTotal, t.TrackEcommerceCartUpdate)
}

func (t *Tracker) TrackEcommerceOrderAsync(ctx context.Context, o Order) *async.Future[*Response] {
	if err := o.validate(); err != nil {
		return async.Resolved[*Response](nil, err)
	}
	return async.Async(ctx, o, t.TrackEcommerceOrder)
}

func (t *Tracker) FlushAsync(ctx context.Context) *async.Future[*Response] {
	return async.Run(ctx, t.Flush)
}
