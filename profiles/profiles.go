// Package profiles holds a table of named disk geometries so the shell can
// accept `format --profile floppy-1440` instead of requiring a caller to
// compute a raw block count.
//
// Grounded on the teacher's disks.DiskGeometry / disks.GetPredefinedDiskGeometry,
// adapted to SimpleFS's single free parameter (block count — the file
// system's block size is always fs.BlockSize, so unlike the teacher's
// table there's no variable sector/track/head geometry to model).
package profiles

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/gocarina/gocsv"
)

//go:embed disk-profiles.csv
var rawCSV string

// Profile names a disk size a caller can request by slug instead of by raw
// block count.
type Profile struct {
	Name        string `csv:"name"`
	Blocks      uint32 `csv:"blocks"`
	Description string `csv:"description"`
}

var known map[string]Profile

func init() {
	known = make(map[string]Profile)

	var rows []Profile
	if err := gocsv.UnmarshalString(rawCSV, &rows); err != nil {
		panic(fmt.Errorf("profiles: malformed embedded CSV: %w", err))
	}

	for _, row := range rows {
		if _, exists := known[row.Name]; exists {
			panic(fmt.Errorf("profiles: duplicate profile name %q", row.Name))
		}
		known[row.Name] = row
	}
}

// Lookup returns the named profile. Matching is case-insensitive since
// these names are meant to be typed at a shell prompt.
func Lookup(name string) (Profile, error) {
	p, ok := known[strings.ToLower(name)]
	if !ok {
		return Profile{}, fmt.Errorf("profiles: no profile named %q", name)
	}
	return p, nil
}

// Known returns every defined profile, sorted by ascending block count.
func Known() []Profile {
	out := make([]Profile, 0, len(known))
	for _, p := range known {
		out = append(out, p)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Blocks < out[j-1].Blocks; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
