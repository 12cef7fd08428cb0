package yolods

// The intermediate annotation metadata representation.

// Annotation is the intermediate representation of an object label.
type Annotation struct {
	Box     Box // Absolute pixel coordinates.
	ClassID int
	Label   string // The label as found in the annotation file, possibly an alias.
}

// AnnotatedFile is the intermediate representation of the annotations for one image.
type AnnotatedFile struct {
	Annotations []Annotation // Only annotations with a known class.
	FilePath    string       // The annotation file.
	Width       int          // Image width in pixels, > 0.
	Height      int          // Image height in pixels, > 0.
}

// LabelLines converts all annotations to YOLO label lines.
func (f *AnnotatedFile) LabelLines() []LabelLine {
	lines := make([]LabelLine, len(f.Annotations))
	for i, a := range f.Annotations {
		lines[i] = NewLabelLine(a.ClassID, f.Width, f.Height, a.Box)
	}
	return lines
}

// Split is the dataset partition a sample is assigned to.
type Split string

// The dataset splits.
const (
	Train Split = "train"
	Val   Split = "val"
)

// Splits lists all splits in output order.
var Splits = []Split{Train, Val}

// Sample is an image with its converted labels, ready to be written to the output dataset.
type Sample struct {
	BaseName  string // File name without extension, shared by image and label file.
	ImagePath string // The source image.
	Lines     []LabelLine
	Split     Split
}
