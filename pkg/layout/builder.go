package layout

import (
	"github.com/matzehuels/tracelayout/pkg/slice"
	"github.com/matzehuels/tracelayout/pkg/strpool"
	"github.com/matzehuels/tracelayout/pkg/table"
)

// builder accumulates output rows column by column.
type builder struct {
	ts, dur, stackID, parentStackID []int64
	depth, trackID, layoutDepth     []uint32
	name                            []strpool.ID
}

func newBuilder(n int) *builder {
	return &builder{
		ts:            make([]int64, 0, n),
		dur:           make([]int64, 0, n),
		stackID:       make([]int64, 0, n),
		parentStackID: make([]int64, 0, n),
		depth:         make([]uint32, 0, n),
		trackID:       make([]uint32, 0, n),
		layoutDepth:   make([]uint32, 0, n),
		name:          make([]strpool.ID, 0, n),
	}
}

func (b *builder) add(src *slice.Table, row int, layoutDepth uint32) {
	b.ts = append(b.ts, src.Ts()[row])
	b.dur = append(b.dur, src.Dur()[row])
	b.depth = append(b.depth, src.Depth()[row])
	b.trackID = append(b.trackID, uint32(src.TrackIDs()[row]))
	b.name = append(b.name, src.Names()[row])
	b.stackID = append(b.stackID, src.StackIDs()[row])
	b.parentStackID = append(b.parentStackID, src.ParentStackIDs()[row])
	b.layoutDepth = append(b.layoutDepth, layoutDepth)
}

func (b *builder) build(src *slice.Table, raw string) (*table.Table, error) {
	return table.New(TableName,
		table.NewInt64Column(ColTs, b.ts),
		table.NewInt64Column(ColDur, b.dur),
		table.NewUint32Column(ColDepth, b.depth),
		table.NewUint32Column(ColTrackID, b.trackID),
		table.NewStringColumn(ColName, src.Pool(), b.name),
		table.NewInt64Column(ColStackID, b.stackID),
		table.NewInt64Column(ColParentStackID, b.parentStackID),
		table.NewUint32Column(ColLayoutDepth, b.layoutDepth),
		table.RepeatText(ColFilterTrackIDs, raw, len(b.ts)),
	)
}
