package compare

import "fmt"

// Severity is the comparator's per-node verdict lattice, per spec.md §4.6:
//
//	CMP_SAME < CMP_OFFSET < CMP_ALIGNMENT < CMP_BYTE_SIZE < CMP_REFFILE < CMP_DIFF
//
// Lower severities are the ones most likely to be benign (a harmless
// rebuild-induced offset shift); CmpDiff is a genuine structural mismatch.
type Severity int

const (
	CmpSame Severity = iota
	CmpOffset
	CmpAlignment
	CmpByteSize
	CmpReffile
	CmpDiff
)

func (s Severity) String() string {
	switch s {
	case CmpSame:
		return "same"
	case CmpOffset:
		return "offset"
	case CmpAlignment:
		return "alignment"
	case CmpByteSize:
		return "byte_size"
	case CmpReffile:
		return "reffile"
	case CmpDiff:
		return "diff"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Verdict is compare_tree's tri-state return value: whether a subtree
// compared equal, differed only in cosmetic ways worth continuing past, or
// genuinely diverged.
type Verdict int

const (
	VerdictSame Verdict = iota
	VerdictCont
	VerdictDiff
)

// combineVerdict aggregates a running verdict with a freshly computed one,
// per original_source/compare.c's comp_return_value: DIFF always wins: CONT
// only upgrades a SAME, never downgrades an existing DIFF.
func combineVerdict(old, next Verdict) Verdict {
	switch next {
	case VerdictDiff:
		return VerdictDiff
	case VerdictCont:
		if old != VerdictDiff {
			return VerdictCont
		}
	}
	return old
}
