// Package store owns the current graph snapshot and the request lifecycle
// that replaces it.
//
// Every call to [Store.Request] is stamped with a sequence number. A
// response is committed only if its sequence number is still the latest one
// issued; an older response that resolves late is dropped and its caller
// receives a SUPERSEDED error. Commits replace the snapshot wholesale, so a
// failed or discarded request never touches what is currently displayed.
//
// Commit hooks registered with [Store.OnCommit] run while the store lock is
// held. The view controller uses this to reset its transient state as part
// of the same step that installs the new snapshot.
//
// [HTTPFetcher] is the production [Fetcher]: it issues
// GET {server}/{prefix}/{wire} and consults a [cache.Cache] first.
package store
