// Package benchmark measures provider response latency and length over a set
// of prompts, compares providers by average latency, and persists results as
// JSON.
package benchmark
