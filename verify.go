package yolods

import (
	"fmt"
	"path/filepath"
	"strings"
)

// VerifyReport lists the problems found in an output dataset.
type VerifyReport struct {
	Images       int
	Labels       int
	OrphanImages []string // Images without a label file in the same split.
	OrphanLabels []string // Label files without an image in the same split.
	BadLines     []string // "path:line: reason" for invalid label lines.
}

// OK reports whether no problems were found.
func (r VerifyReport) OK() bool {
	return len(r.OrphanImages) == 0 && len(r.OrphanLabels) == 0 && len(r.BadLines) == 0
}

// Verify checks that every image in the dataset at root has a label file in the same split and
// vice versa, and that all label lines are valid. Class ids must be less than numClasses unless
// numClasses is zero.
func Verify(root string, numClasses int) (VerifyReport, error) {
	layout := Layout{Root: root}
	var report VerifyReport

	for _, split := range Splits {
		imageFiles, err := filesByExtInDir(layout.ImageDir(split), "")
		if err != nil {
			return VerifyReport{}, err
		}
		labelFiles, err := filesByExtInDir(layout.LabelDir(split), ".txt")
		if err != nil {
			return VerifyReport{}, err
		}
		report.Images += len(imageFiles)
		report.Labels += len(labelFiles)

		images := make(map[string]bool, len(imageFiles))
		for _, path := range imageFiles {
			_, baseNoExt, _, err := splitPath(path)
			if err != nil {
				report.OrphanImages = append(report.OrphanImages, path)
				continue
			}
			images[baseNoExt] = true
		}

		labels := make(map[string]bool, len(labelFiles))
		for _, path := range labelFiles {
			baseNoExt := strings.TrimSuffix(filepath.Base(path), ".txt")
			labels[baseNoExt] = true
			if !images[baseNoExt] {
				report.OrphanLabels = append(report.OrphanLabels, path)
			}
			bad, err := verifyLabelFile(path, numClasses)
			if err != nil {
				return VerifyReport{}, err
			}
			report.BadLines = append(report.BadLines, bad...)
		}

		for _, path := range imageFiles {
			if _, baseNoExt, _, err := splitPath(path); err == nil && !labels[baseNoExt] {
				report.OrphanImages = append(report.OrphanImages, path)
			}
		}
	}

	return report, nil
}

// verifyLabelFile returns a description of every invalid line in the label file at path.
func verifyLabelFile(path string, numClasses int) ([]string, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}

	var bad []string
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		l, err := ParseLabelLine(line)
		switch {
		case err != nil:
			bad = append(bad, fmt.Sprintf("%s:%d: %v", path, i+1, err))
		case l.ClassID < 0 || (numClasses > 0 && l.ClassID >= numClasses):
			bad = append(bad, fmt.Sprintf("%s:%d: class id %d out of range", path, i+1, l.ClassID))
		case !l.InUnitRange():
			bad = append(bad, fmt.Sprintf("%s:%d: values not normalised", path, i+1))
		}
	}
	return bad, nil
}
