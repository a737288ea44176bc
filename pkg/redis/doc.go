// Package redis connects to Redis and stores tracker cookies in it.
//
// Servers that track visitors without a browser (queue workers, the command
// line sender) still need the first-party cookie state: visitor id, visit
// count, attribution. CookieStore implements cookie.Store on top of go-redis,
// mapping cookie expiry to key TTLs.
//
// # Usage
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	store := redis.NewCookieStoreWithConfig(client, cfg, visitorKey)
//	t, err := tracker.New(siteID, collectorURL, tracker.WithCookieStore(store))
//
// Healthcheck(client, timeout) plugs into httpserver.Check for /healthz.
//
// Errors wrap go-redis failures with errors.Join, so both the sentinel
// (ErrRedisNotReady, ErrCookieStore, ...) and the driver error match errors.Is.
package redis
