package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"retroconv/internal/fileutil"
)

// Slot is one expanded input. Pending slots still need work; the others
// already carry their outcome.
type Slot struct {
	Entry       fileutil.Entry
	Destination string
	Item        Item
	Pending     bool
}

// CollectOptions controls how Collect expands inputs.
type CollectOptions struct {
	// Match accepts the files to process.
	Match func(path string) bool
	// Noun names what Match accepts, as in "not a video".
	Noun string
	// OutDir, when set, receives outputs mirroring directory structure.
	OutDir string
	// Ext is the output extension including the dot.
	Ext   string
	Force bool
}

// OutputPath places entry's output beside the source, or under outDir
// keeping the entry's relative directory when mirror is set.
func OutputPath(entry fileutil.Entry, outDir, ext string, mirror bool) string {
	name := fileutil.Stem(entry.Path) + ext
	if outDir == "" {
		return filepath.Join(filepath.Dir(entry.Path), name)
	}
	if mirror {
		return filepath.Join(outDir, filepath.Dir(entry.RelPath), name)
	}
	return filepath.Join(outDir, name)
}

// Collect expands inputs in caller order and decides every slot that needs
// no work: missing inputs, unmatched files, outputs that would overwrite
// their source, duplicate destinations and existing outputs. The second
// result counts matched files.
func Collect(inputs []string, opts CollectOptions) ([]Slot, int) {
	var (
		slots   []Slot
		found   int
		claimed = map[string]string{}
	)
	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			slots = append(slots, Slot{Item: Failed(input, "", fmt.Errorf("input not found: %s", input))})
			continue
		}

		var entries []fileutil.Entry
		switch {
		case info.IsDir():
			entries, err = fileutil.ListFiles(input, opts.Match, opts.OutDir)
			if err != nil {
				slots = append(slots, Slot{Item: Failed(input, "", err)})
				continue
			}
		case opts.Match != nil && !opts.Match(input):
			slots = append(slots, Slot{Item: Skipped(input, "", "not "+opts.Noun)})
			continue
		default:
			abs, absErr := filepath.Abs(input)
			if absErr != nil {
				abs = input
			}
			entries = []fileutil.Entry{{Path: abs, RelPath: filepath.Base(abs)}}
		}

		for _, entry := range entries {
			found++
			dest := OutputPath(entry, opts.OutDir, opts.Ext, info.IsDir())
			slot := Slot{Entry: entry, Destination: dest}

			key := dest
			if abs, absErr := filepath.Abs(dest); absErr == nil {
				key = abs
			}
			switch owner, dup := claimed[key]; {
			case fileutil.SamePath(dest, entry.Path):
				slot.Item = Skipped(entry.Path, dest, "output would overwrite the source; use --out")
			case dup:
				slot.Item = Skipped(entry.Path, dest, "destination already produced by "+owner)
			case !opts.Force && fileutil.Exists(dest):
				claimed[key] = entry.Path
				slot.Item = Skipped(entry.Path, dest, "destination exists")
			default:
				claimed[key] = entry.Path
				slot.Item = Item{Source: entry.Path, Destination: dest}
				slot.Pending = true
			}
			slots = append(slots, slot)
		}
	}
	return slots, found
}

// RunSlots runs the pending slots through Execute. Items come back, and are
// observed, in slot order.
func RunSlots(
	ctx context.Context,
	slots []Slot,
	workers int,
	do func(context.Context, Slot) Item,
	observe func(Item),
) []Item {
	items := make([]Item, len(slots))
	seq := NewSequencer(len(slots), func(i int) {
		if observe != nil {
			observe(items[i])
		}
	})

	var pending []int
	for i, slot := range slots {
		if slot.Pending {
			pending = append(pending, i)
			continue
		}
		items[i] = slot.Item
		seq.Done(i)
	}

	Execute(ctx, pending, workers,
		func(i int) (string, string) { return slots[i].Entry.Path, slots[i].Destination },
		func(ctx context.Context, i int) Item { return do(ctx, slots[i]) },
		func(j int, item Item) {
			items[pending[j]] = item
			seq.Done(pending[j])
		},
	)
	return items
}
