// Package async provides a small generic Future used to run tracking calls
// without blocking the caller.
//
// Async starts a function in its own goroutine and returns a *Future; the
// caller waits with Await or AwaitContext, polls with IsComplete, or selects
// on Done. Resolved wraps a value that is already known, which lets APIs return
// validation failures through the same type.
//
// # Usage
//
//	future := async.Async(ctx, "Home", t.TrackPageView)
//
//	// do other work …
//	resp, err := future.Await()
//
// A context that is already cancelled when the goroutine starts completes the
// Future with the context error without calling the function.
package async
