// Package analyze runs the full batch: load both probe logs, detect raw
// events, fold them into bursts and summarise the result.
//
// Run works on tables already in memory; RunFiles loads the two CSV logs
// concurrently first. The two detectors run in parallel since neither shares
// state with the other; aggregation starts once both have finished.
//
// Report is the single value handed to every writer and to the serve-mode
// store.
package analyze
