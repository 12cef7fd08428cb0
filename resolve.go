package yolods

import (
	"os"
	"path/filepath"
)

// ImageExtensions are the image file extensions probed by FindImage, in order.
//
// Matching is exact, so whether ".jpg" also finds "x.JPG" depends on the file system. Extensions
// not listed here (e.g. ".Jpg") are never found on case sensitive file systems.
var ImageExtensions = []string{".jpg", ".png", ".jpeg", ".JPG", ".PNG", ".JPEG"}

// FindImage returns the path of the image named baseNoExt in dir, trying ImageExtensions in order.
func FindImage(dir, baseNoExt string) (string, bool) {
	for _, ext := range ImageExtensions {
		path := filepath.Join(dir, baseNoExt+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}
