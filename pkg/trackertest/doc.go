// Package trackertest provides a fake Piwik collector for tests.
//
//	c := trackertest.New()
//	t.Cleanup(c.Close)
//
//	tr, _ := tracker.New(1, c.URL())
//	_, _ = tr.TrackPageView(ctx, "Home")
//
//	hit, _ := c.Last()
//	hit.Query.Get("action_name") // "Home"
package trackertest
