package compare

import "github.com/kabidw/kabidw/pkg/typegraph"

// diffKind classifies how two member lists that have diverged at their
// heads can be minimally realigned.
type diffKind int

const (
	diffInsert diffKind = iota
	diffDelete
	diffReplace
	diffCont
)

// listDiff searches list1 and list2 — two member slices whose first
// elements are already known to differ (CmpDiff) — for the cheapest
// realignment: a short run inserted into list2, a short run deleted from
// list1, a short run where both sides simply replace each other, or no
// realignment found before one list runs out (diffCont).
//
// It returns how many leading elements of each slice the caller should
// skip (print as inserted/deleted, or leave to be compared pairwise on a
// replace/cont) before resuming the parallel walk.
//
// The tie-break when advancing the search favors list2: on an equal-cost
// tie the list2 search counter advances rather than list1's, since later
// behavior depends on that choice (see DESIGN.md).
func (c *Comparator) listDiff(list1, list2 []*typegraph.Node) (diffKind, int, int, error) {
	headList2 := list2[0] // search target while walking list1 (a deletion search)
	headList1 := list1[0] // search target while walking list2 (an insertion search)
	target := headList2
	walkingList1 := true
	d1, d2 := 0, 0

	for {
		var cur *typegraph.Node
		if walkingList1 {
			cur = list1[d1]
		} else {
			cur = list2[d2]
		}

		sev, err := c.CompareNodes(target, cur, true)
		if err != nil {
			return 0, 0, 0, err
		}
		if sev == CmpSame || sev == CmpOffset || sev == CmpAlignment {
			if target == headList2 {
				// list2's head reappeared somewhere in list1: the
				// elements of list1 before it were deleted.
				return diffDelete, d1, d2, nil
			}
			// list1's head reappeared somewhere in list2: the elements
			// of list2 before it were inserted.
			return diffInsert, d1, d2, nil
		}

		if d1 == d2 {
			sev2, err := c.CompareNodes(list1[d1], list2[d2], true)
			if err != nil {
				return 0, 0, 0, err
			}
			if sev2 == CmpSame || sev2 == CmpOffset || sev2 == CmpAlignment {
				return diffReplace, d1, d2, nil
			}
		}

		advanceList2 := d1 >= len(list1)-1 || d2 <= d1
		if advanceList2 {
			d2++
			target = headList1
			walkingList1 = false
			if d2 >= len(list2) {
				break
			}
		} else {
			d1++
			target = headList2
			walkingList1 = true
			if d1 >= len(list1) {
				break
			}
		}
	}
	return diffCont, d1, d2, nil
}
