// Package report renders sweep results as they arrive.
//
// Text writes the comma-separated table:
//
//	Threads, Average Push Duration (ms), Average Init & Push Duration (ms), Complete Duration (ms)
//	1, 5.3, 140.2, 5462.0
//
// JSON writes one JSON object per line, starting with the run configuration.
// Both flush after every line so that partial sweeps are visible.
package report
