package record

import (
	"os"
	"path/filepath"

	"github.com/kabidw/kabidw/pkg/dumpfmt"
	"github.com/kabidw/kabidw/pkg/kabierr"
)

// Dump writes rec to dir/<rec.Key>, creating intermediate directories as
// needed, in the canonical on-disk record format (pkg/dumpfmt, spec §4.5).
func Dump(rec *Record, dir string) error {
	full := filepath.Join(dir, rec.Key)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return kabierr.Wrap(kabierr.KindIO, "record.Dump", "create record directory", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return kabierr.Wrap(kabierr.KindIO, "record.Dump", "create record file", err)
	}
	defer f.Close()

	if err := dumpfmt.WriteRecord(f, dumpfmt.Record{
		CU:     rec.CU,
		Origin: rec.Origin,
		Stack:  rec.Stack,
		Obj:    rec.Obj,
	}); err != nil {
		return kabierr.Wrap(kabierr.KindIO, "record.Dump", "write record body", err)
	}
	return nil
}

// DumpAll dumps every record currently stored in db to dir.
func (db *Database) DumpAll(dir string) error {
	for _, rec := range db.byKey {
		if err := Dump(rec, dir); err != nil {
			return err
		}
	}
	return nil
}
