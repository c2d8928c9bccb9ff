package formatter

import (
	"fmt"
	"strconv"

	"github.com/xlab/treeprint"

	"github.com/oakwood-commons/tabula/pkg/record"
	"github.com/oakwood-commons/tabula/pkg/view"
)

// RenderTree renders each row of the page as a branch labelled with its
// position and id. Nested objects and lists become sub-branches.
func RenderTree(snap view.Snapshot) string {
	tree := treeprint.NewWithRoot(Footer(snap))
	if snap.Empty() {
		tree.AddNode(NoResults)
		return tree.String()
	}

	cols := snap.VisibleColumns()
	for i, rec := range snap.Rows {
		branch := tree.AddBranch(fmt.Sprintf("%d (id %s)", snap.FirstRow()+i, rec.ID()))
		for _, c := range cols {
			v := rec.Lookup(c.Key)
			if v.Kind() == record.KindAbsent {
				continue
			}
			addValue(branch, c.Title(), v)
		}
	}
	return tree.String()
}

func addValue(branch treeprint.Tree, label string, v record.Value) {
	switch v.Kind() {
	case record.KindMap:
		sub := branch.AddBranch(label)
		for _, k := range v.Keys() {
			addValue(sub, k, v.Field(k))
		}
	case record.KindList:
		sub := branch.AddBranch(fmt.Sprintf("%s [%d]", label, v.Len()))
		for i := 0; i < v.Len(); i++ {
			addValue(sub, strconv.Itoa(i+1), v.Index(i))
		}
	default:
		branch.AddNode(label + ": " + Cell(v))
	}
}
