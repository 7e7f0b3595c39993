// Package mwpm implements the alternating-tree (blossom) state machine
// that turns a flooder's stream of region-meeting events into a minimum-
// weight perfect matching, and exposes the package's external API: build a
// detector graph, register a round's detection events, and decode.
//
// A Matching wraps a shared, read-only *core.Graph — build it once and
// reuse it across many decoding rounds, each in its own Matching instance
// (or the same instance, reset between rounds).
package mwpm
