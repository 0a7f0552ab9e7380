package io

import (
	"bytes"
	"cmp"
	"encoding/json"
	"io"
	"math"
	"slices"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/matzehuels/tracelayout/pkg/errors"
	"github.com/matzehuels/tracelayout/pkg/slice"
	"github.com/matzehuels/tracelayout/pkg/strpool"
)

// chromeEvent is the subset of a trace event the importer reads.
type chromeEvent struct {
	Name string          `json:"name"`
	Ph   string          `json:"ph"`
	Ts   float64         `json:"ts"`
	Dur  float64         `json:"dur"`
	Pid  json.RawMessage `json:"pid"`
	Tid  json.RawMessage `json:"tid"`
}

type chromeDocument struct {
	TraceEvents []chromeEvent `json:"traceEvents"`
}

type threadKey struct{ pid, tid string }

// interval is a slice before depths are assigned.
type interval struct {
	name     string
	start    int64
	end      int64
	seq      int
	depth    uint32
	stack    int64
	parent   int64
	trackIdx int
}

// ReadChromeTrace converts a Chrome trace (an object with "traceEvents" or
// a bare event array) into a new store. Events other than X, B and E are
// ignored. A B event without a matching E is closed at the last timestamp
// seen on its thread.
func ReadChromeTrace(r io.Reader, pool *strpool.Pool) (*slice.Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read trace")
	}
	events, err := decodeEvents(raw)
	if err != nil {
		return nil, err
	}

	var (
		tracks  = map[threadKey]int{}
		perTrk  [][]*interval
		open    = map[threadKey][]*interval{}
		lastTs  = map[threadKey]int64{}
		counter int
	)
	trackOf := func(k threadKey) int {
		idx, ok := tracks[k]
		if !ok {
			idx = len(perTrk)
			tracks[k] = idx
			perTrk = append(perTrk, nil)
		}
		return idx
	}

	for _, ev := range events {
		k := threadKey{pid: string(bytes.TrimSpace(ev.Pid)), tid: string(bytes.TrimSpace(ev.Tid))}
		ts := micros(ev.Ts)
		switch ev.Ph {
		case "X":
			if ev.Dur < 0 {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "event %q: negative dur", ev.Name)
			}
			idx := trackOf(k)
			perTrk[idx] = append(perTrk[idx], &interval{name: ev.Name, start: ts, end: ts + micros(ev.Dur), seq: counter, trackIdx: idx})
		case "B":
			idx := trackOf(k)
			iv := &interval{name: ev.Name, start: ts, end: -1, seq: counter, trackIdx: idx}
			perTrk[idx] = append(perTrk[idx], iv)
			open[k] = append(open[k], iv)
		case "E":
			stack := open[k]
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			top.end = max(ts, top.start)
			open[k] = stack[:len(stack)-1]
		default:
			continue
		}
		counter++
		lastTs[k] = max(lastTs[k], ts)
	}
	for k, stack := range open {
		for _, iv := range stack {
			iv.end = max(lastTs[k], iv.start)
		}
	}

	var all []*interval
	for _, ivs := range perTrk {
		nest(ivs)
		all = append(all, ivs...)
	}
	slices.SortStableFunc(all, func(a, b *interval) int {
		if c := cmp.Compare(a.start, b.start); c != 0 {
			return c
		}
		if c := cmp.Compare(a.depth, b.depth); c != 0 {
			return c
		}
		return cmp.Compare(a.trackIdx, b.trackIdx)
	})

	t := slice.NewTable(pool)
	for _, iv := range all {
		t.Insert(slice.Row{
			Ts:            iv.start,
			Dur:           iv.end - iv.start,
			Depth:         iv.depth,
			TrackID:       slice.TrackID(iv.trackIdx + 1),
			Name:          t.Pool().Intern(iv.name),
			StackID:       iv.stack,
			ParentStackID: iv.parent,
		})
	}
	return t, nil
}

func decodeEvents(raw []byte) ([]chromeEvent, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		// Traces cut off by a crash lack the closing bracket.
		if raw[len(raw)-1] != ']' {
			raw = append(bytes.TrimRight(raw, ", \n\r\t"), ']')
		}
		var events []chromeEvent
		if err := json.Unmarshal(raw, &events); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode trace events")
		}
		return events, nil
	}
	var doc chromeDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode trace")
	}
	return doc.TraceEvents, nil
}

// nest assigns depths and stack ids to the intervals of one thread. Longer
// intervals starting at the same time enclose shorter ones.
func nest(ivs []*interval) {
	slices.SortStableFunc(ivs, func(a, b *interval) int {
		if c := cmp.Compare(a.start, b.start); c != 0 {
			return c
		}
		if c := cmp.Compare(b.end, a.end); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})

	var stack []*interval
	for _, iv := range ivs {
		for len(stack) > 0 && stack[len(stack)-1].end <= iv.start {
			stack = stack[:len(stack)-1]
		}
		if len(stack) > 0 {
			iv.parent = stack[len(stack)-1].stack
		}
		iv.depth = uint32(len(stack))
		iv.stack = stackID(iv.parent, iv.name)
		stack = append(stack, iv)
	}
}

// stackID hashes a name onto its parent's stack id, so equal call paths
// share an id across threads.
func stackID(parent int64, name string) int64 {
	d := xxhash.New()
	_, _ = d.WriteString(strconv.FormatInt(parent, 10))
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(name)
	return int64(d.Sum64() & math.MaxInt64)
}

// micros converts a microsecond timestamp to nanoseconds.
func micros(us float64) int64 {
	return int64(math.Round(us * 1000))
}
