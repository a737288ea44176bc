// Package badger persists tracker cookies in an embedded BadgerDB database.
//
// It gives long-running processes without a browser, such as the piwiktrack
// command, a durable first-party cookie jar so visitor ids and visit counts
// survive restarts:
//
//	db, err := badger.Open(badger.Config{Path: "/var/lib/piwiktrack"})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	t, err := tracker.New(1, "https://stats.example.org",
//	    tracker.WithCookieStore(db.CookieStore("visitor-42")))
package badger
