// Package pkg provides the libraries behind tracelayout.
//
// # Overview
//
// Tracelayout stacks the slices of several trace tracks into one view: each
// requested track keeps its own nesting but is shifted below every earlier
// track, so the result can be drawn without overlap. The pkg directory is
// organized as follows:
//
//  1. [table] - The computed-table contract: columns, constraints, registry
//  2. [slice] and [strpool] - The base slice store and its string pool
//  3. [layout] - The experimental_slice_layout table
//  4. [io] and [source/mongo] - Reading stores from JSON, Chrome traces and MongoDB
//  5. [render/sink] - ASCII, JSON and SVG output
//  6. [pipeline] - Orchestration (load → compute → render) with caching
//  7. [server] - HTTP access to computed tables
//
// Supporting packages: [cache] (file, Redis and null backends), [config]
// (TOML configuration), [errors] (coded errors), [observability] (hooks)
// and [buildinfo].
//
// # Architecture
//
//	slices JSON / Chrome trace / MongoDB
//	         ↓
//	    [slice] store
//	         ↓
//	    [layout] generator (bind filter_track_ids, pack depths)
//	         ↓
//	    [table] registry (row filters and ordering)
//	         ↓
//	    ASCII / JSON / SVG
//
// # Quick Start
//
//	st, _ := io.ImportJSON("slices.json", nil)
//	gen := layout.NewGenerator(st)
//	t, _ := gen.ComputeTable([]table.Constraint{
//	    table.Eq(layout.FilterTrackIDsColumnIndex, table.String("3,1")),
//	}, nil)
//	out, _ := sink.RenderASCII(t)
package pkg
