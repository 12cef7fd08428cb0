package yolods

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Config is the run configuration of a dataset build.
type Config struct {
	Sources         []string          `yaml:"sources"`     // Source folders, processed in order.
	Output          string            `yaml:"output"`      // The output dataset root; reset on every run.
	TrainRatio      float64           `yaml:"train_ratio"` // Share of samples sent to the train split.
	Seed            *int64            `yaml:"seed,omitempty"`
	SplitMode       SplitMode         `yaml:"split_mode"`
	Classes         []string          `yaml:"classes"` // Class names in class id order.
	Aliases         map[string]string `yaml:"aliases"` // Alternative label spellings.
	Workers         int               `yaml:"workers"` // Concurrent sample writers; 0 uses all CPUs.
	ResizeLonger    int               `yaml:"resize_longer"`
	JPEGQuality     int               `yaml:"jpeg_quality"`
	VerifyImageSize bool              `yaml:"verify_image_size"`
	WriteDataYAML   bool              `yaml:"write_data_yaml"`
}

// DefaultConfig returns the configuration of the gate colour dataset.
func DefaultConfig() Config {
	aliases := make(map[string]string, len(DefaultClassAliases))
	for k, v := range DefaultClassAliases {
		aliases[k] = v
	}
	return Config{
		Sources: []string{
			"json_gates1", "json_gates4", "json_gates5", "json_gates6", "json_gates7", "json_gates8",
		},
		Output:        "Dataset_Final_Colores",
		TrainRatio:    0.8,
		SplitMode:     SplitBernoulli,
		Classes:       append([]string(nil), DefaultClassNames...),
		Aliases:       aliases,
		JPEGQuality:   90,
		WriteDataYAML: true,
	}
}

// LoadConfig reads the YAML file at path. Fields missing from the file keep their default values,
// except that the default aliases are only kept together with the default classes.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "cannot read config %q", path)
	}

	cfg := DefaultConfig()
	defaultAliases := cfg.Aliases
	cfg.Aliases = nil // yaml.v3 merges into non-nil maps.
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "failed to parse config %q", path)
	}
	if cfg.Aliases == nil && slices.Equal(cfg.Classes, DefaultClassNames) {
		cfg.Aliases = defaultAliases
	}
	return cfg, nil
}

// Validate checks the configuration and returns all problems found.
func (cfg Config) Validate() error {
	var err error
	if len(cfg.Sources) == 0 {
		err = multierr.Append(err, errors.New("no source folders"))
	}
	if cfg.TrainRatio < 0 || cfg.TrainRatio > 1 {
		err = multierr.Append(err, errors.Errorf("train_ratio %v is not in [0, 1]", cfg.TrainRatio))
	}
	if cfg.SplitMode != SplitBernoulli && cfg.SplitMode != SplitPartition {
		err = multierr.Append(err, errors.Errorf("unknown split_mode %q", cfg.SplitMode))
	}
	if cfg.Workers < 0 {
		err = multierr.Append(err, errors.Errorf("workers must not be negative, got %d", cfg.Workers))
	}
	if cfg.ResizeLonger < 0 {
		err = multierr.Append(err, errors.Errorf("resize_longer must not be negative, got %d", cfg.ResizeLonger))
	}
	if cfg.JPEGQuality < 1 || cfg.JPEGQuality > 100 {
		err = multierr.Append(err, errors.Errorf("jpeg_quality %d is not in [1, 100]", cfg.JPEGQuality))
	}
	if _, cmErr := NewClassMap(cfg.Classes, cfg.Aliases); cmErr != nil {
		err = multierr.Append(err, errors.Wrap(cmErr, "invalid classes"))
	}
	return multierr.Append(err, cfg.validateOutput())
}

// validateOutput rejects output roots whose reset would delete source data.
func (cfg Config) validateOutput() error {
	if cfg.Output == "" {
		return errors.New("no output directory")
	}
	out, err := filepath.Abs(cfg.Output)
	if err != nil {
		return errors.Wrapf(err, "invalid output directory %q", cfg.Output)
	}
	if out == filepath.Dir(out) {
		return errors.Errorf("output directory %q is a file system root", cfg.Output)
	}

	for _, src := range cfg.Sources {
		srcAbs, err := filepath.Abs(src)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(out, srcAbs)
		if err != nil {
			continue
		}
		if rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))) {
			return errors.Errorf("output directory %q contains source folder %q", cfg.Output, src)
		}
	}
	return nil
}

// ClassMap builds the class map from Classes and Aliases.
func (cfg Config) ClassMap() (*ClassMap, error) {
	return NewClassMap(cfg.Classes, cfg.Aliases)
}
