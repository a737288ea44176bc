package tracker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/piwik/pkg/logger"
	"github.com/dmitrymomot/piwik/pkg/metrics"
	"github.com/dmitrymomot/piwik/pkg/transport"
)

func (t *Tracker) pageView(title string) composed {
	var suffix string
	if title != "" {
		suffix = "&action_name=" + PercentEncode(title)
	}
	return composed{url: t.buildURL(suffix), kind: "pageview"}
}

func (e Event) validate() error {
	if e.Category == "" || e.Action == "" {
		return fmt.Errorf("%w: event category and action are required", ErrInvalidArgument)
	}
	return nil
}

func (c Content) validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: content name is required", ErrInvalidArgument)
	}
	return nil
}

func (o Order) validate() error {
	if o.ID == "" {
		return fmt.Errorf("%w: order id is required", ErrInvalidArgument)
	}
	return nil
}

func (t *Tracker) event(e Event) (composed, error) {
	if err := e.validate(); err != nil {
		return composed{}, err
	}
	suffix := "&e_c=" + PercentEncode(e.Category) + "&e_a=" + PercentEncode(e.Action)
	if e.Name != "" {
		suffix += "&e_n=" + PercentEncode(e.Name)
	}
	if e.Value != nil {
		suffix += "&e_v=" + formatFloat(*e.Value)
	}
	return composed{url: t.buildURL(suffix), kind: "event"}, nil
}

func (t *Tracker) siteSearch(s SiteSearch) composed {
	suffix := "&search=" + PercentEncode(s.Keyword)
	if s.Category != "" {
		suffix += "&search_cat=" + PercentEncode(s.Category)
	}
	if s.Count != nil {
		suffix += "&search_count=" + strconv.Itoa(*s.Count)
	}
	return composed{url: t.buildURL(suffix), kind: "search"}
}

func (t *Tracker) goal(id int, revenue float64) composed {
	suffix := "&idgoal=" + strconv.Itoa(id)
	if revenue != 0 {
		suffix += "&revenue=" + FormatMonetary(revenue)
	}
	return composed{url: t.buildURL(suffix), kind: "goal"}
}

func (t *Tracker) action(actionURL string, typ ActionType) (composed, error) {
	if err := validateActionType(typ); err != nil {
		return composed{}, err
	}
	suffix := "&" + string(typ) + "=" + PercentEncode(actionURL) + "&redirect=0"
	return composed{url: t.buildURL(suffix), kind: string(typ)}, nil
}

func contentSuffix(c Content) string {
	suffix := "&c_n=" + PercentEncode(c.Name)
	if c.Piece != "" {
		suffix += "&c_p=" + PercentEncode(c.Piece)
	}
	if c.Target != "" {
		suffix += "&c_t=" + PercentEncode(c.Target)
	}
	return suffix
}

func (t *Tracker) contentImpression(c Content) (composed, error) {
	if err := c.validate(); err != nil {
		return composed{}, err
	}
	return composed{url: t.buildURL(contentSuffix(c)), kind: "content_impression"}, nil
}

func validateInteraction(interaction string, c Content) error {
	if interaction == "" {
		return fmt.Errorf("%w: content interaction is required", ErrInvalidArgument)
	}
	return c.validate()
}

func validateActionType(typ ActionType) error {
	if !typ.Valid() {
		return fmt.Errorf("%w: unknown action type %q", ErrInvalidArgument, typ)
	}
	return nil
}

func (t *Tracker) contentInteraction(interaction string, c Content) (composed, error) {
	if err := validateInteraction(interaction, c); err != nil {
		return composed{}, err
	}
	suffix := "&c_i=" + PercentEncode(interaction) + contentSuffix(c)
	return composed{url: t.buildURL(suffix), kind: "content_interaction"}, nil
}

func (t *Tracker) ping() composed {
	return composed{url: t.buildURL("&ping=1"), kind: "ping"}
}

func (t *Tracker) cartUpdate(grandTotal float64) composed {
	return composed{
		url:        t.buildURL(t.ecommerceSuffix(grandTotal, nil, nil, nil, nil)),
		kind:       "cart_update",
		clearItems: true,
	}
}

func (t *Tracker) order(o Order) (composed, error) {
	if err := o.validate(); err != nil {
		return composed{}, err
	}
	suffix := t.ecommerceSuffix(o.GrandTotal, o.SubTotal, o.Tax, o.Shipping, o.Discount) +
		"&ec_id=" + PercentEncode(o.ID)
	return composed{
		url:         t.buildURL(suffix),
		kind:        "order",
		clearItems:  true,
		recordOrder: true,
	}, nil
}

// urlOnly commits immediately: the caller owns delivery.
func (t *Tracker) urlOnly(c composed) string {
	t.commit(c)
	t.log.Debug("tracking url composed", logger.Kind(c.kind))
	return c.url
}

// PageViewURL returns the page view request URL without sending it.
func (t *Tracker) PageViewURL(title string) string {
	return t.urlOnly(t.pageView(title))
}

func (t *Tracker) EventURL(e Event) (string, error) {
	c, err := t.event(e)
	if err != nil {
		return "", err
	}
	return t.urlOnly(c), nil
}

func (t *Tracker) SiteSearchURL(s SiteSearch) string {
	return t.urlOnly(t.siteSearch(s))
}

func (t *Tracker) GoalURL(id int, revenue float64) string {
	return t.urlOnly(t.goal(id, revenue))
}

func (t *Tracker) ActionURL(actionURL string, typ ActionType) (string, error) {
	c, err := t.action(actionURL, typ)
	if err != nil {
		return "", err
	}
	return t.urlOnly(c), nil
}

func (t *Tracker) ContentImpressionURL(c Content) (string, error) {
	comp, err := t.contentImpression(c)
	if err != nil {
		return "", err
	}
	return t.urlOnly(comp), nil
}

func (t *Tracker) ContentInteractionURL(interaction string, c Content) (string, error) {
	comp, err := t.contentInteraction(interaction, c)
	if err != nil {
		return "", err
	}
	return t.urlOnly(comp), nil
}

func (t *Tracker) PingURL() string {
	return t.urlOnly(t.ping())
}

// EcommerceCartUpdateURL renders the pending items and clears them.
func (t *Tracker) EcommerceCartUpdateURL(grandTotal float64) string {
	return t.urlOnly(t.cartUpdate(grandTotal))
}

// EcommerceOrderURL renders the order with the pending items and clears them.
func (t *Tracker) EcommerceOrderURL(o Order) (string, error) {
	c, err := t.order(o)
	if err != nil {
		return "", err
	}
	return t.urlOnly(c), nil
}

// TrackPageView sends a page view. title becomes action_name when not empty.
// In bulk mode the request is queued and the response is nil.
func (t *Tracker) TrackPageView(ctx context.Context, title string) (*Response, error) {
	return t.dispatch(ctx, t.pageView(title))
}

func (t *Tracker) TrackEvent(ctx context.Context, e Event) (*Response, error) {
	c, err := t.event(e)
	if err != nil {
		return nil, err
	}
	return t.dispatch(ctx, c)
}

func (t *Tracker) TrackSiteSearch(ctx context.Context, s SiteSearch) (*Response, error) {
	return t.dispatch(ctx, t.siteSearch(s))
}

// TrackGoal records a conversion of goal id. A zero revenue is not sent.
func (t *Tracker) TrackGoal(ctx context.Context, id int, revenue float64) (*Response, error) {
	return t.dispatch(ctx, t.goal(id, revenue))
}

// TrackAction records a download or an outlink click on actionURL.
func (t *Tracker) TrackAction(ctx context.Context, actionURL string, typ ActionType) (*Response, error) {
	c, err := t.action(actionURL, typ)
	if err != nil {
		return nil, err
	}
	return t.dispatch(ctx, c)
}

func (t *Tracker) TrackContentImpression(ctx context.Context, c Content) (*Response, error) {
	comp, err := t.contentImpression(c)
	if err != nil {
		return nil, err
	}
	return t.dispatch(ctx, comp)
}

func (t *Tracker) TrackContentInteraction(ctx context.Context, interaction string, c Content) (*Response, error) {
	comp, err := t.contentInteraction(interaction, c)
	if err != nil {
		return nil, err
	}
	return t.dispatch(ctx, comp)
}

// Ping keeps the visit alive without recording an action.
func (t *Tracker) Ping(ctx context.Context) (*Response, error) {
	return t.dispatch(ctx, t.ping())
}

func (t *Tracker) TrackEcommerceCartUpdate(ctx context.Context, grandTotal float64) (*Response, error) {
	return t.dispatch(ctx, t.cartUpdate(grandTotal))
}

func (t *Tracker) TrackEcommerceOrder(ctx context.Context, o Order) (*Response, error) {
	c, err := t.order(o)
	if err != nil {
		return nil, err
	}
	return t.dispatch(ctx, c)
}

// dispatch queues c in bulk mode or sends it. A timeout commits nothing. Other
// transport failures still reset the per-request state but keep the ledger
// and cookies, so the caller may reissue the call.
func (t *Tracker) dispatch(ctx context.Context, c composed) (*Response, error) {
	if t.bulk {
		t.enqueue(c)
		return nil, nil
	}

	res, err := t.send(ctx, metrics.KindSingle, transport.Request{
		Method: http.MethodGet,
		URL:    c.url,
	}, nil)
	if err != nil {
		if !errors.Is(err, ErrTimeout) {
			t.cleanup()
		}
		return nil, err
	}

	t.commit(c)
	return res, nil
}

// SendURL sends a URL produced by one of the URL methods, with this tracker's
// user agent and language. It changes no tracker state.
func (t *Tracker) SendURL(ctx context.Context, trackingURL string) (*Response, error) {
	if trackingURL == "" {
		return nil, fmt.Errorf("%w: tracking URL is required", ErrInvalidArgument)
	}
	return t.send(ctx, metrics.KindSingle, transport.Request{
		Method: http.MethodGet,
		URL:    trackingURL,
	}, nil)
}

// send performs req with the visitor headers and reports the outcome. A
// non-nil payload is posted as JSON.
func (t *Tracker) send(ctx context.Context, kind string, req transport.Request, payload any) (*Response, error) {
	req.UserAgent = t.userAgent
	req.AcceptLanguage = t.language
	req.Timeout = t.requestTimeout

	var (
		res transport.Result
		err error
	)
	if payload != nil {
		res, err = t.sender.PostJSON(ctx, req, payload)
	} else {
		res, err = t.sender.Do(ctx, req)
	}

	if err != nil {
		reason := "transport"
		if errors.Is(err, ErrTimeout) {
			reason = "timeout"
		}
		t.metrics.ObserveFailure(kind, reason)
		t.log.WarnContext(ctx, "tracking request failed",
			logger.Kind(kind),
			logger.Duration(res.Duration),
			logger.Error(err),
		)
		return nil, err
	}

	t.metrics.ObserveRequest(kind, res.StatusCode, res.Duration)
	t.log.InfoContext(ctx, "tracking request sent",
		logger.Kind(kind),
		logger.StatusCode(res.StatusCode),
		logger.Duration(res.Duration),
		logger.VisitorID(t.VisitorID()),
	)

	return &Response{
		StatusCode:   res.StatusCode,
		RequestedURL: res.URL,
		Duration:     res.Duration,
	}, nil
}
