// Package worker runs the uploads of one concurrency level.
//
// A level runs exactly L workers. Keys are handed out through a shared queue,
// so each key is uploaded by exactly one worker. Every worker owns one slot of
// a per-level arena and numbers its own samples, which is what makes "first
// sample of a worker" well defined without any shared bookkeeping.
package worker
