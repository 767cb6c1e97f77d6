package dwarfx

import (
	"debug/dwarf"
	"fmt"

	"github.com/kabidw/kabidw/internal/klog"
	"github.com/kabidw/kabidw/internal/ksymtab"
	"github.com/kabidw/kabidw/pkg/kabierr"
	"github.com/kabidw/kabidw/pkg/record"
)

// Options configures an Extractor. Never mutated after NewExtractor; pass a
// fresh value per run rather than sharing one across goroutines.
type Options struct {
	// Whitelist restricts extraction to these symbol names. Nil means every
	// exported symbol qualifies.
	Whitelist *ksymtab.Set
	// ReplacePrefix is an absolute path prefix stripped from DW_AT_decl_file
	// paths recorded in a record's Origin line (the generator's -r flag).
	ReplacePrefix string
	// GenExtra records the originating CU name and type-containment stack in
	// each record, for the -g flag's richer provenance output. When false,
	// records carry placeholder CU/Stack fields cheaper to produce.
	GenExtra bool
}

// Extractor walks DWARF compilation units across one or more ELF objects,
// inserting the type graph of every qualifying top-level symbol into a
// shared record.Database.
type Extractor struct {
	opts Options
	db   *record.Database

	// found tracks, across every ExtractFile call sharing this Extractor,
	// which whitelist entries have actually been located in some module.
	found map[string]bool
}

// NewExtractor creates an Extractor writing into db under opts.
func NewExtractor(db *record.Database, opts Options) *Extractor {
	e := &Extractor{opts: opts, db: db}
	if opts.Whitelist != nil {
		e.found = make(map[string]bool, opts.Whitelist.Len())
	}
	return e
}

// MissingWhitelisted calls cb, in whitelist order, for every whitelisted
// symbol not yet located in any module processed by this Extractor so far.
func (e *Extractor) MissingWhitelisted(cb func(name string)) {
	if e.opts.Whitelist == nil {
		return
	}
	e.opts.Whitelist.ForEach(func(entry *ksymtab.Entry) {
		if !e.found[entry.Name] {
			cb(entry.Name)
		}
	})
}

// ExtractFile walks every compilation unit in the ELF object at path,
// inserting a record for each qualifying top-level symbol. exported is the
// module's parsed __ksymtab/__ksymtab_gpl set (see internal/ksymtab).
func (e *Extractor) ExtractFile(path string, exported *ksymtab.Exported) error {
	f, err := ksymtab.OpenELF(path)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := f.DWARF()
	if err != nil {
		return kabierr.Wrap(kabierr.KindFormat, "dwarfx.ExtractFile", "load DWARF info", err)
	}

	r := data.Reader()
	for {
		cu, err := r.Next()
		if err != nil {
			return kabierr.Wrap(kabierr.KindFormat, "dwarfx.ExtractFile", "read compile unit header", err)
		}
		if cu == nil {
			return nil
		}
		if cu.Tag != dwarf.TagCompileUnit {
			r.SkipChildren()
			continue
		}
		if err := e.processCU(data, r, cu, exported); err != nil {
			return err
		}
	}
}

// processCU walks the direct children of one compile unit, emitting a
// record for every child that passes the emittability gate. Nested DIEs are
// resolved on demand via a secondary, offset-seeking reader (translate.go),
// never by descending with the caller's sibling-iteration reader r.
func (e *Extractor) processCU(data *dwarf.Data, r *dwarf.Reader, cu *dwarf.Entry, exported *ksymtab.Exported) error {
	ctx := &cuCtx{
		ex:        e,
		data:      data,
		cuEntry:   cu,
		tr:        data.Reader(),
		processed: make(map[string]bool),
	}
	ctx.cuName, _ = cu.Val(dwarf.AttrName).(string)
	ctx.lineFiles = loadLineFiles(data, cu)

	for {
		child, err := r.Next()
		if err != nil {
			return kabierr.Wrap(kabierr.KindFormat, "dwarfx.processCU", "read compile unit child", err)
		}
		if child == nil || child.Tag == 0 {
			return nil
		}
		if child.Children {
			r.SkipChildren()
		}

		if !e.emittable(child, exported) {
			continue
		}
		name := dieName(child)
		if e.found != nil {
			e.found[name] = true
		}

		klog.L.Debug("extracting symbol", "name", name, "tag", child.Tag.String())
		if _, err := ctx.emit(child); err != nil {
			return fmt.Errorf("dwarfx: extracting %s: %w", name, err)
		}
	}
}

// emittable is the top-level symbol gate: a whitelisted (or unrestricted),
// non-declaration, exported, external-or-sufficiently-inline DIE of a tag
// kabidw records standalone (function, global variable, or named struct
// definition).
func (e *Extractor) emittable(die *dwarf.Entry, exported *ksymtab.Exported) bool {
	switch die.Tag {
	case dwarf.TagSubprogram, dwarf.TagVariable, dwarf.TagStructType:
	default:
		return false
	}

	name := dieName(die)
	if name == "" {
		return false
	}
	if e.opts.Whitelist != nil {
		if _, ok := e.opts.Whitelist.Find(name); !ok {
			return false
		}
	}
	if isDeclaration(die) {
		return false
	}
	if _, ok := exported.Symbols.Find(name); !ok {
		return false
	}
	if !isExternal(die) && !isDeclaredNotInlined(die) {
		return false
	}
	return true
}
