package ksymtab

import (
	"bufio"
	"os"
	"strings"
	"unicode"

	"github.com/kabidw/kabidw/pkg/kabierr"
)

// LoadWhitelist reads a plain-text symbol whitelist: one symbol per line,
// all whitespace stripped (including interior whitespace, matching the
// original tool's tolerance for stray tabs/spaces inside a mangled name),
// blank lines skipped.
func LoadWhitelist(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, kabierr.Wrap(kabierr.KindIO, "ksymtab.LoadWhitelist", "open whitelist", err)
	}
	defer f.Close()

	set := NewSet(256)
	order := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := stripWhitespace(scanner.Text())
		if line == "" {
			continue
		}
		set.Add(line, order)
		order++
	}
	if err := scanner.Err(); err != nil {
		return nil, kabierr.Wrap(kabierr.KindIO, "ksymtab.LoadWhitelist", "read whitelist", err)
	}
	return set, nil
}

// stripWhitespace removes every whitespace rune from s, not just leading
// and trailing — whitelist entries are bare symbol names and should never
// legitimately contain whitespace.
func stripWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
