package ksymtab

import (
	"debug/elf"
	"strings"

	"github.com/kabidw/kabidw/pkg/kabierr"
)

const (
	sectionKsymtab    = "__ksymtab"
	sectionKsymtabGPL = "__ksymtab_gpl"
	sectionSymtab     = ".symtab"
	sectionStrtab     = ".strtab"
	ksymtabPrefix     = "__ksymtab_"
)

// Exported is the result of parsing one ELF object's exported-symbol
// sections: the set of exported symbol names (ksymtab prefix stripped) and
// a weak-to-global alias index.
type Exported struct {
	Symbols *Set
	// Aliases maps each exported weak symbol's name to the name of the
	// global symbol sharing its address, so the extractor can resolve a
	// weak DIE's linkage name to its canonical global name.
	Aliases map[string]string
}

// OpenELF validates and opens an ELF object: 64-bit class, little- or
// big-endian, with .symtab/.strtab present.
func OpenELF(path string) (*elf.File, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, kabierr.Wrap(kabierr.KindFormat, "ksymtab.OpenELF", "open ELF object", err)
	}
	if f.Class != elf.ELFCLASS64 {
		f.Close()
		return nil, kabierr.ErrBadELFClass
	}
	if f.Data != elf.ELFDATA2LSB && f.Data != elf.ELFDATA2MSB {
		f.Close()
		return nil, kabierr.New(kabierr.KindFormat, "ksymtab.OpenELF", "unsupported ELF endianness")
	}
	if f.Section(sectionSymtab) == nil || f.Section(sectionStrtab) == nil {
		f.Close()
		return nil, kabierr.ErrMissingSection
	}
	return f, nil
}

// LoadExported parses f's __ksymtab/__ksymtab_gpl sections into the set of
// symbols exported via EXPORT_SYMBOL(), plus weak-to-global alias records.
func LoadExported(f *elf.File) (*Exported, error) {
	syms, err := f.Symbols()
	if err != nil {
		return nil, kabierr.Wrap(kabierr.KindFormat, "ksymtab.LoadExported", "read .symtab", err)
	}

	ksym := f.Section(sectionKsymtab)
	ksymGPL := f.Section(sectionKsymtabGPL)
	if ksym == nil && ksymGPL == nil {
		return nil, kabierr.ErrMissingSection
	}

	exported := NewSet(len(syms))
	order := 0
	for _, sym := range syms {
		if elf.ST_BIND(sym.Info) != elf.STB_LOCAL {
			continue
		}
		if !strings.HasPrefix(sym.Name, ksymtabPrefix) {
			continue
		}
		if !inSection(sym.Value, ksym) && !inSection(sym.Value, ksymGPL) {
			continue
		}
		name := strings.TrimPrefix(sym.Name, ksymtabPrefix)
		exported.Add(name, order)
		order++
	}

	aliases := resolveWeakAliases(syms, exported)

	return &Exported{Symbols: exported, Aliases: aliases}, nil
}

func inSection(value uint64, sec *elf.Section) bool {
	if sec == nil {
		return false
	}
	return value >= sec.Addr && value < sec.Addr+sec.Size
}

// resolveWeakAliases builds an address→global-name map from every
// STB_GLOBAL symbol, then for each STB_WEAK symbol that is itself exported
// (present in `exported`), records aliases[weak_name] = global_name when a
// global symbol shares the weak symbol's address. The weak-to-global index
// is keyed by the weak (exported) name, built in the same two-pass shape as
// the kernel build's own weak-alias resolution.
func resolveWeakAliases(syms []elf.Symbol, exported *Set) map[string]string {
	byAddr := make(map[uint64]string, len(syms))
	for _, sym := range syms {
		if elf.ST_BIND(sym.Info) == elf.STB_GLOBAL && sym.Name != "" {
			if _, exists := byAddr[sym.Value]; !exists {
				byAddr[sym.Value] = sym.Name
			}
		}
	}

	aliases := make(map[string]string)
	for _, sym := range syms {
		if elf.ST_BIND(sym.Info) != elf.STB_WEAK || sym.Name == "" {
			continue
		}
		if _, ok := exported.Find(sym.Name); !ok {
			// skip non-exported weak aliases
			continue
		}
		global, ok := byAddr[sym.Value]
		if !ok {
			continue
		}
		aliases[sym.Name] = global
	}
	return aliases
}
