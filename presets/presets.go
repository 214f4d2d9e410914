// Package presets offers named reference configurations for ramdisk images,
// analogous to a drive geometry table: a caller who just wants "a disk about
// this big" can ask for one by slug instead of reasoning about inode counts
// and block budgets directly.
//
// Grounded on disks/disks.go's DiskGeometry/GetPredefinedDiskGeometry
// pattern: a CSV table unmarshaled via github.com/gocarina/gocsv at package
// init, looked up by slug.
package presets

import (
	_ "embed"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
)

// Preset describes one named reference image configuration. TotalBlocks and
// InodeCount are informational only: the current format fixes both at
// image.TotalBlocks/image.InodeCount, so a preset whose numbers don't match
// those constants is a description of a configuration this build can't yet
// produce, not something the image package will honor silently.
type Preset struct {
	Slug        string `csv:"slug"`
	Description string `csv:"description"`
	TotalBlocks uint   `csv:"total_blocks"`
	InodeCount  uint   `csv:"inode_count"`
	BlockSize   uint   `csv:"block_size"`
}

//go:embed presets.csv
var rawPresetsCSV string

var presets map[string]Preset

// Get returns the preset registered under slug, or an error if none exists.
func Get(slug string) (Preset, error) {
	preset, ok := presets[slug]
	if ok {
		return preset, nil
	}
	return Preset{}, fmt.Errorf("no predefined ramdisk preset exists with slug %q", slug)
}

// All returns every registered preset, in no particular order.
func All() []Preset {
	out := make([]Preset, 0, len(presets))
	for _, p := range presets {
		out = append(out, p)
	}
	return out
}

func init() {
	presets = make(map[string]Preset)
	reader := strings.NewReader(rawPresetsCSV)
	err := gocsv.UnmarshalToCallback(
		reader,
		func(row Preset) error {
			if _, exists := presets[row.Slug]; exists {
				return fmt.Errorf("duplicate definition for preset %q", row.Slug)
			}
			presets[row.Slug] = row
			return nil
		},
	)
	if err != nil && err != io.EOF {
		panic(err)
	}
}
