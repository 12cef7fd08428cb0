package yolods

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DataYAMLName is the file name of the trainer dataset description.
const DataYAMLName = "data.yaml"

// DataYAML describes the dataset for the detection trainer.
type DataYAML struct {
	Path  string   `yaml:"path"`
	Train string   `yaml:"train"`
	Val   string   `yaml:"val"`
	NC    int      `yaml:"nc"`
	Names []string `yaml:"names"`
}

// NewDataYAML returns the dataset description for the given layout and classes. Split paths are
// relative to Path.
func NewDataYAML(layout Layout, classes *ClassMap) (DataYAML, error) {
	root, err := filepath.Abs(layout.Root)
	if err != nil {
		return DataYAML{}, err
	}
	return DataYAML{
		Path:  root,
		Train: filepath.ToSlash(filepath.Join("images", string(Train))),
		Val:   filepath.ToSlash(filepath.Join("images", string(Val))),
		NC:    classes.Len(),
		Names: classes.Names(),
	}, nil
}

// WriteDataYAML writes the dataset description to the root of layout.
func WriteDataYAML(layout Layout, classes *ClassMap) error {
	d, err := NewDataYAML(layout, classes)
	if err != nil {
		return err
	}
	enc, err := yaml.Marshal(d)
	if err != nil {
		return err
	}

	path := filepath.Join(layout.Root, DataYAMLName)
	if err := os.WriteFile(path, enc, 0o644); err != nil {
		return errors.Wrapf(err, "cannot write file %q", path)
	}
	return nil
}
