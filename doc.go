// Package httpreplay provides a deterministic HTTP record/playback transport.
//
// The primary use-case is tests that make outbound HTTP requests. In Record
// mode requests are sent over the network and each response is persisted to
// disk, keyed by a fingerprint of the request. In Playback mode requests are
// answered from disk without any network traffic; a request that was never
// recorded gets a synthetic 404 response so callers that check status codes
// can detect the miss.
//
// The fingerprint is stable under query and body parameter reordering, and
// treats the host case-insensitively, so a recording replays even when the
// caller builds the request slightly differently.
package httpreplay
