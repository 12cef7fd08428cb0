package yolods

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// annotationExt is the file extension of LabelMe annotation files.
const annotationExt = ".json"

// Builder converts LabelMe source folders into a YOLO dataset.
type Builder struct {
	cfg      Config
	classes  *ClassMap
	layout   Layout
	logger   *zap.SugaredLogger
	seed     int64
	splitter *Splitter
}

// NewBuilder validates cfg and returns a builder for it. Without a configured seed the split
// randomness is seeded from the clock; Seed reports the value either way.
func NewBuilder(cfg Config, logger *zap.SugaredLogger) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	classes, err := cfg.ClassMap()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	seed := time.Now().UnixNano()
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}
	splitter, err := NewSplitter(cfg.SplitMode, cfg.TrainRatio, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, err
	}

	return &Builder{
		cfg:      cfg,
		classes:  classes,
		layout:   Layout{Root: cfg.Output},
		logger:   logger,
		seed:     seed,
		splitter: splitter,
	}, nil
}

// Seed is the seed of the split random source.
func (b *Builder) Seed() int64 {
	return b.seed
}

// Layout is the output dataset layout.
func (b *Builder) Layout() Layout {
	return b.layout
}

// Run resets the output directory, converts all source folders and writes the dataset.
//
// Problems with individual folders, annotation files or images are logged, counted in the summary
// and skipped. Only failures to create the output tree or to write output files are returned as
// errors.
func (b *Builder) Run(ctx context.Context) (Summary, error) {
	summary := Summary{Output: b.layout.Root, Seed: b.seed}
	if err := b.layout.Reset(); err != nil {
		return summary, err
	}
	b.logger.Infof("Converting %d source folders into %q (seed %d)", len(b.cfg.Sources), b.layout.Root, b.seed)

	var samples []Sample
	byName := make(map[string]int)
	for _, folder := range b.cfg.Sources {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		folderSamples, err := b.processFolder(ctx, folder, &summary)
		if err != nil {
			return summary, err
		}

		// Samples share one output directory per split, so base names must be unique.
		for _, s := range folderSamples {
			if idx, dup := byName[s.BaseName]; dup {
				b.logger.Warnf("Duplicate sample %q, replacing %q with %q",
					s.BaseName, samples[idx].ImagePath, s.ImagePath)
				summary.Duplicates++
				samples[idx] = s
				continue
			}
			byName[s.BaseName] = len(samples)
			samples = append(samples, s)
		}
	}

	for i, split := range b.splitter.Assign(len(samples)) {
		samples[i].Split = split
	}
	written, err := b.writeSamples(ctx, samples)
	if err != nil {
		return summary, err
	}
	for i, s := range samples {
		switch {
		case !written[i]:
			summary.BadImages++
		case s.Split == Train:
			summary.Train++
		default:
			summary.Val++
		}
	}
	summary.Processed = summary.Train + summary.Val

	if b.cfg.WriteDataYAML {
		if err := WriteDataYAML(b.layout, b.classes); err != nil {
			return summary, err
		}
	}

	b.logger.Infof("Processed %d samples (%d train, %d val), %d missing images",
		summary.Processed, summary.Train, summary.Val, summary.MissingImages)
	return summary, nil
}

// processFolder converts the annotation files in folder into samples. A missing folder is not an
// error.
func (b *Builder) processFolder(ctx context.Context, folder string, summary *Summary) ([]Sample, error) {
	b.logger.Infof("Processing folder %q", folder)
	if !isDir(folder) {
		b.logger.Warnf("Source folder %q does not exist, skipping", folder)
		summary.MissingFolders++
		return nil, nil
	}

	labelFiles, err := filesByExtInDir(folder, annotationExt)
	if err != nil {
		b.logger.Warnw("Cannot list source folder, skipping", "folder", folder, "error", err)
		summary.MissingFolders++
		return nil, nil
	}

	samples := make([]Sample, 0, len(labelFiles))
	for _, labelPath := range labelFiles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if s, ok := b.processFile(folder, labelPath, summary); ok {
			samples = append(samples, s)
		}
	}
	b.logger.Debugf("Folder %q: %d annotation files, %d samples", folder, len(labelFiles), len(samples))

	return samples, nil
}

// processFile converts a single annotation file. It returns false if the file yields no sample.
func (b *Builder) processFile(folder, labelPath string, summary *Summary) (Sample, bool) {
	baseNoExt := strings.TrimSuffix(filepath.Base(labelPath), annotationExt)

	imagePath, found := FindImage(folder, baseNoExt)
	if !found {
		b.logger.Debugf("No corresponding image file, skipping %q", labelPath)
		summary.MissingImages++
		return Sample{}, false
	}

	fileData, err := ParseLabelMe(labelPath, b.classes)
	if err != nil {
		kind := "unknown"
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			kind = parseErr.Kind.String()
		}
		b.logger.Warnw("Error while parsing, skipping", "path", labelPath, "kind", kind, "error", err)
		summary.ParseErrors++
		return Sample{}, false
	}

	lines := fileData.LabelLines()
	if len(lines) == 0 {
		b.logger.Debugf("No known labels, skipping %q", labelPath)
		summary.Unlabeled++
		return Sample{}, false
	}

	if (b.cfg.VerifyImageSize || b.cfg.ResizeLonger > 0) && !b.checkImage(imagePath, fileData, summary) {
		return Sample{}, false
	}

	return Sample{BaseName: baseNoExt, ImagePath: imagePath, Lines: lines}, true
}

// checkImage decodes the image header and, if image sizes are verified, compares the size with
// the one recorded in the annotation. It returns false if the image cannot be decoded.
func (b *Builder) checkImage(imagePath string, fileData AnnotatedFile, summary *Summary) bool {
	img, _, err := decodeImageConfig(imagePath)
	if err != nil {
		b.logger.Warnw("Cannot decode image header, skipping", "path", imagePath, "error", err)
		summary.BadImages++
		return false
	}
	if b.cfg.VerifyImageSize && (img.Width != fileData.Width || img.Height != fileData.Height) {
		b.logger.Warnf("Image %q is %dx%d but %q records %dx%d", imagePath, img.Width, img.Height,
			fileData.FilePath, fileData.Width, fileData.Height)
		summary.SizeMismatches++
	}
	return true
}

// writeSamples writes images and label files concurrently and reports which samples were
// written. Samples whose source image cannot be decoded for resizing are skipped; any other
// failure is returned. The output tree must exist.
func (b *Builder) writeSamples(ctx context.Context, samples []Sample) ([]bool, error) {
	workers := b.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	written := make([]bool, len(samples))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range samples {
		i := i
		s := samples[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := b.writeSample(s)
			var decodeErr *imageDecodeError
			if errors.As(err, &decodeErr) {
				b.logger.Warnw("Cannot decode image, skipping", "path", decodeErr.Path, "error", decodeErr.Err)
				return nil
			}
			if err != nil {
				return err
			}
			written[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return written, nil
}

// writeSample copies (or resizes) the image of s into its split and writes its label file. No
// file is written if the image cannot be decoded.
func (b *Builder) writeSample(s Sample) error {
	imageOut := b.layout.ImagePath(s.Split, s.BaseName, filepath.Ext(s.ImagePath))
	if b.cfg.ResizeLonger > 0 {
		if err := resizeImageFile(imageOut, s.ImagePath, b.cfg.ResizeLonger, b.cfg.JPEGQuality); err != nil {
			if _, ok := err.(*imageDecodeError); ok {
				return err
			}
			return errors.Wrapf(err, "failed to write image %q", imageOut)
		}
	} else if err := copyFile(imageOut, s.ImagePath); err != nil {
		return errors.Wrapf(err, "failed to write image %q", imageOut)
	}

	labelOut := b.layout.LabelPath(s.Split, s.BaseName)
	if err := os.WriteFile(labelOut, []byte(formatLabelFile(s.Lines)), 0o644); err != nil {
		return errors.Wrapf(err, "cannot write file %q", labelOut)
	}
	return nil
}
