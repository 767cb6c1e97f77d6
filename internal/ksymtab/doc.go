// Package ksymtab implements the kernel exported-symbol index (component B
// of the core design): a whitelist loaded from a plain-text file, and the
// per-module exported-symbol set parsed from an ELF object's __ksymtab /
// __ksymtab_gpl sections, including weak-to-global alias resolution.
//
// ELF parsing is done with the standard library's debug/elf — there is no
// third-party ELF library represented anywhere in the reference corpus this
// module was built from, and debug/elf is the idiomatic, canonical choice
// for this exact job in Go.
package ksymtab
