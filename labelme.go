package yolods

// LabelMe specific functionality.

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
)

// LabelMeShape is a single labeled shape within a LabelMe file.
type LabelMeShape struct {
	Label     string      `json:"label"`
	Points    [][]float64 `json:"points"`
	ShapeType string      `json:"shape_type,omitempty"` // polygon, rectangle, ...; not used.
}

// LabelMeFile defines the LabelMe annotation structure for a single image. Required fields are
// pointers so that missing fields can be told apart from zero values.
type LabelMeFile struct {
	ImageHeight *int            `json:"imageHeight"`
	ImagePath   string          `json:"imagePath,omitempty"`
	ImageWidth  *int            `json:"imageWidth"`
	Shapes      *[]LabelMeShape `json:"shapes"`
}

// ParseErrorKind classifies a ParseError.
type ParseErrorKind int

// The parse error kinds.
const (
	ErrUnreadable ParseErrorKind = iota + 1 // The file could not be read.
	ErrSchema                               // The content is not a valid annotation record.
)

func (k ParseErrorKind) String() string {
	switch k {
	case ErrUnreadable:
		return "unreadable"
	case ErrSchema:
		return "schema"
	}
	return "unknown"
}

// ParseError is returned by ParseLabelMe.
type ParseError struct {
	Path string
	Kind ParseErrorKind
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s error in %q: %v", e.Kind, e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func schemaError(path, format string, args ...interface{}) *ParseError {
	return &ParseError{Path: path, Kind: ErrSchema, Err: errors.Errorf(format, args...)}
}

// ParseLabelMe reads the LabelMe file at path and converts the shapes with labels known to
// classes into annotations. Shapes with other labels are skipped.
//
// All errors are of type *ParseError.
func ParseLabelMe(path string, classes *ClassMap) (AnnotatedFile, error) {
	enc, err := os.ReadFile(path)
	if err != nil {
		return AnnotatedFile{}, &ParseError{Path: path, Kind: ErrUnreadable, Err: err}
	}

	var lmFile LabelMeFile
	if err := json.Unmarshal(enc, &lmFile); err != nil {
		return AnnotatedFile{}, &ParseError{Path: path, Kind: ErrSchema, Err: err}
	}

	switch {
	case lmFile.ImageWidth == nil:
		return AnnotatedFile{}, schemaError(path, "missing imageWidth")
	case lmFile.ImageHeight == nil:
		return AnnotatedFile{}, schemaError(path, "missing imageHeight")
	case lmFile.Shapes == nil:
		return AnnotatedFile{}, schemaError(path, "missing shapes")
	case *lmFile.ImageWidth <= 0 || *lmFile.ImageHeight <= 0:
		return AnnotatedFile{}, schemaError(path, "invalid image size %dx%d",
			*lmFile.ImageWidth, *lmFile.ImageHeight)
	}

	// Convert to the intermediate representation.
	shapes := *lmFile.Shapes
	fileData := AnnotatedFile{
		Annotations: make([]Annotation, 0, len(shapes)),
		FilePath:    path,
		Width:       *lmFile.ImageWidth,
		Height:      *lmFile.ImageHeight,
	}
	for i, s := range shapes {
		id, ok := classes.Lookup(s.Label)
		if !ok {
			continue
		}

		box, err := BoxFromPoints(s.Points)
		if err != nil {
			return AnnotatedFile{}, schemaError(path, "shape %d (%s): %v", i, s.Label, err)
		}
		fileData.Annotations = append(fileData.Annotations, Annotation{
			Box:     box,
			ClassID: id,
			Label:   s.Label,
		})
	}

	return fileData, nil
}
