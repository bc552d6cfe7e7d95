// Package core orchestrates the persistence handlers behind one service.
//
// It has no transport dependencies and can be driven by the web layer, a
// command or a test without modification.
//
// # Service
//
// A [Service] is built from any number of [persist.Handler] values and keys
// them by format:
//
//	svc := core.NewService(
//	    persist.NewCSVHandler("data/entities.csv"),
//	    persist.NewXMLHandler("data/entities.xml"),
//	)
//	res, err := svc.Save(ctx, "csv", entities)
//
// Operations on one format are serialised through a single-slot [Limiter],
// so two requests never race on the same destination. Every save is recorded
// with a generated ID in a bounded in-memory history.
//
// # Cross-checking
//
// [Service.CrossCheck] saves a set through two handlers, loads both back and
// pairs the results with [Compare]. Lossy encodings show up as a shortfall in
// the match count.
//
// # Error Handling
//
// Technical errors are mapped to user-facing messages using [MapError]:
//
//   - IO001-IO002: destination unreadable, unwritable or missing
//   - PARSE001: stored data did not decode
//   - FMT001: no handler for the requested format
//   - BUSY001, REQ001-REQ002: contention, cancellation and timeouts
//   - DB001-DB002: PostgreSQL connectivity
package core
