// Package logging builds the slog loggers used by nixdeck.
//
// Console output goes through [ConsoleHandler], which prints one short line
// per record and turns the "kind" and "name" attributes set by the capture
// store into a scope prefix:
//
//	INF [container/nord] capture created components=3
//
// [New] picks the console or JSON handler from a [Config]. The --log-file
// flag adds a JSON handler on a size-rotated file ([NewFileWriter],
// [NewFileHandler]) and [Tee] fans records out to both.
//
// Managers take a logger through functional options; code without one
// uses [FromContext]. Tests use [ForTest] or [NewDiscard].
package logging
