package yolods

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Layout is the directory tree of an output dataset:
//
//	<root>/images/{train,val}/<base>.<ext>
//	<root>/labels/{train,val}/<base>.txt
type Layout struct {
	Root string
}

// ImageDir is the image directory of split.
func (l Layout) ImageDir(split Split) string {
	return filepath.Join(l.Root, "images", string(split))
}

// LabelDir is the label directory of split.
func (l Layout) LabelDir(split Split) string {
	return filepath.Join(l.Root, "labels", string(split))
}

// ImagePath is the output path of an image with the given base name and extension.
func (l Layout) ImagePath(split Split, baseNoExt, ext string) string {
	return filepath.Join(l.ImageDir(split), baseNoExt+ext)
}

// LabelPath is the output path of the label file for baseNoExt.
func (l Layout) LabelPath(split Split, baseNoExt string) string {
	return filepath.Join(l.LabelDir(split), baseNoExt+".txt")
}

// Reset deletes the root directory with everything in it, then creates the empty split
// directories. Any output of a previous run is lost.
func (l Layout) Reset() error {
	if l.Root == "" {
		return errors.New("empty output root")
	}
	if err := os.RemoveAll(l.Root); err != nil {
		return errors.Wrapf(err, "failed to remove %q", l.Root)
	}

	for _, split := range Splits {
		for _, dir := range []string{l.ImageDir(split), l.LabelDir(split)} {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return errors.Wrapf(err, "failed to create %q", dir)
			}
		}
	}
	return nil
}
