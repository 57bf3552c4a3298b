// Package feed retrieves RSS documents over HTTP and normalizes their items
// into entity.TopicRecord values.
//
// Fetcher and Normalizer are separate so the pipeline can abort a run on a
// transport error before any parsing happens, and so parsing can be tested
// without a server.
package feed
