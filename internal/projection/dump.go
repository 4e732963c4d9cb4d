package projection

import (
	"io"

	"github.com/davecgh/go-spew/spew"
)

type dumpState struct {
	Sources     int
	FilterMap   []uint32
	SortMap     []int
	InternalMap []int
	Rows        []string
	Current     string
}

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Dump writes the internal maps and the display order to w for debugging
func (p *Projection) Dump(w io.Writer) {
	rows := p.displayItems()
	p.enum.ensure()
	st := dumpState{
		Sources:     len(p.m.items),
		FilterMap:   p.m.filter.ToArray(),
		SortMap:     p.m.sort,
		InternalMap: append([]int(nil), p.enum.internal...),
		Rows:        make([]string, len(rows)),
	}
	for i, it := range rows {
		st.Rows[i] = it.String()
	}
	if cur := p.enum.Current(); cur != nil {
		st.Current = cur.String()
	}
	dumpConfig.Fdump(w, st)
}
