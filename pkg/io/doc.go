// Package io reads and writes slice stores.
//
// # JSON Format
//
// The native format is a single object holding a "slices" array. Rows must
// be ordered per track by ts, then depth:
//
//	{
//	  "slices": [
//	    {"ts": 0, "dur": 4, "depth": 0, "track_id": 1, "name": "main", "stack_id": 1},
//	    {"ts": 0, "dur": 2, "depth": 1, "track_id": 1, "name": "parse", "stack_id": 2, "parent_stack_id": 1}
//	  ]
//	}
//
// Use [ImportJSON] or [ReadJSON] to load it and [ExportJSON] or [WriteJSON]
// to produce it. Export followed by import yields an identical store.
//
// # Chrome Traces
//
// [ReadChromeTrace] converts the Chrome trace event format into a store.
// Complete ("X") events and begin/end ("B"/"E") pairs become slices; every
// (pid, tid) pair becomes a track, numbered from 1 in order of first
// appearance. Depths are derived from nesting, timestamps are converted from
// microseconds to nanoseconds, and the result is sorted by (ts, depth) so it
// satisfies the store's ordering precondition.
//
// # Concurrency
//
// The readers build fresh stores that the caller owns. Writers only read
// the store they are given.
package io
