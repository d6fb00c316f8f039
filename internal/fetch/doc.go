// Package fetch retrieves and normalizes candidate pages over HTTP.
//
// The fetcher applies the scan's network policy: split connect/read
// timeouts, a fixed identifying User-Agent, redirect following, a body
// size cap, and status/content-type gating. Every failure mode collapses
// to "no page" (a nil *model.FetchedPage); network errors never
// propagate to callers.
package fetch
