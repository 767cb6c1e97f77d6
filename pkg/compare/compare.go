package compare

// Options gathers the comparator's display/suppression flags. Every No*
// flag hides a single class of change from the printed log. A change hidden
// by NoShifted or NoReplaced still raises the aggregated Verdict to
// VerdictCont (see DESIGN.md). A change hidden by NoInserted, NoDeleted,
// NoAdded or NoRemoved contributes nothing to the Verdict, and NoMovedFiles
// makes a record missing from the new side count as unchanged.
type Options struct {
	// Follow recurses into referenced record files on a reffile mismatch
	// instead of trusting the name match alone. When false, CompareNodes
	// never calls the FollowFunc hook.
	Follow bool

	NoOffset     bool // don't print struct field offsets
	NoReplaced   bool // hide symbols that changed type without moving
	NoShifted    bool // hide symbols whose offset changed but are otherwise unchanged
	NoInserted   bool // hide symbols inserted in the middle of a struct/union
	NoDeleted    bool // hide symbols removed from the middle of a struct/union
	NoAdded      bool // hide symbols appended at the end of a struct/union
	NoRemoved    bool // hide symbols removed from the end of a struct/union
	NoMovedFiles bool // hide changes caused by a symbol's definition moving files
}

// Comparator runs structural comparisons over a fixed set of Options, with
// reffile follow-through delegated to a caller-supplied hook.
type Comparator struct {
	opts   Options
	follow FollowFunc
}

// New builds a Comparator. follow may be nil, in which case reffile pairs
// that name the same type are always treated as unchanged (equivalent to
// running without --follow).
func New(opts Options, follow FollowFunc) *Comparator {
	if !opts.Follow {
		follow = nil
	}
	return &Comparator{opts: opts, follow: follow}
}
