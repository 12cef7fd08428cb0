package main

import (
	"github.com/spf13/cobra"

	"github.com/sensorable/yolods"
)

// Flag names of the build command.
const (
	flagConfig       = "config"
	flagSource       = "source"
	flagOutput       = "output"
	flagTrainRatio   = "train-ratio"
	flagSeed         = "seed"
	flagSplitMode    = "split-mode"
	flagWorkers      = "workers"
	flagResizeLonger = "resize-longer"
	flagJPEGQuality  = "jpeg-quality"
	flagVerifySize   = "verify-image-size"
	flagNoDataYAML   = "no-data-yaml"
)

func (a *app) commandBuild() *cobra.Command {
	var configPath string
	var sources []string
	var output, splitMode string
	var trainRatio float64
	var seed int64
	var workers, resizeLonger, jpegQuality int
	var verifySize, noDataYAML bool

	cmdBuild := &cobra.Command{
		Use:   "build [-c <config>] [-s <folder> ...] [-o <output directory>] [-r <train ratio>] [--seed <seed>]",
		Short: "Converts the source folders into a YOLO dataset",
		Long: "Converts the source folders into a YOLO dataset. \n" +
			"The <output directory> is deleted and recreated on every run, so any previous output is lost. \n" +
			"Options are read from the optional YAML <config> file; flags override the file. " +
			"Without a seed the split is random and the seed used is printed with the summary.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := yolods.DefaultConfig()
			if configPath != "" {
				var err error
				if cfg, err = yolods.LoadConfig(configPath); err != nil {
					return err
				}
			}

			// Flags override the config file.
			flags := cmd.Flags()
			if flags.Changed(flagSource) {
				cfg.Sources = sources
			}
			if flags.Changed(flagOutput) {
				cfg.Output = output
			}
			if flags.Changed(flagTrainRatio) {
				cfg.TrainRatio = trainRatio
			}
			if flags.Changed(flagSeed) {
				cfg.Seed = &seed
			}
			if flags.Changed(flagSplitMode) {
				cfg.SplitMode = yolods.SplitMode(splitMode)
			}
			if flags.Changed(flagWorkers) {
				cfg.Workers = workers
			}
			if flags.Changed(flagResizeLonger) {
				cfg.ResizeLonger = resizeLonger
			}
			if flags.Changed(flagJPEGQuality) {
				cfg.JPEGQuality = jpegQuality
			}
			if flags.Changed(flagVerifySize) {
				cfg.VerifyImageSize = verifySize
			}
			if flags.Changed(flagNoDataYAML) {
				cfg.WriteDataYAML = !noDataYAML
			}

			builder, err := yolods.NewBuilder(cfg, a.logger)
			if err != nil {
				return err
			}
			summary, err := builder.Run(cmd.Context())
			if err != nil {
				return err
			}
			return summary.Report(cmd.OutOrStdout())
		},
	}

	flags := cmdBuild.Flags()
	flags.StringVarP(&configPath, flagConfig, "c", "", "Path to the YAML config file")
	flags.StringSliceVarP(&sources, flagSource, "s", nil, "Source folder (repeatable, processed in order)")
	flags.StringVarP(&output, flagOutput, "o", "", "The output directory; deleted before writing")
	flags.Float64VarP(&trainRatio, flagTrainRatio, "r", 0.8, "Share of samples assigned to the train split [0, 1]")
	flags.Int64Var(&seed, flagSeed, 0, "Random seed for the split")
	flags.StringVar(&splitMode, flagSplitMode, string(yolods.SplitBernoulli),
		"How samples are split: bernoulli (independent draw per sample) or partition (shuffle and cut)")
	flags.IntVar(&workers, flagWorkers, 0, "Number of concurrent sample writers (0 uses all CPUs)")
	flags.IntVar(&resizeLonger, flagResizeLonger, 0,
		"Resize images so that the longer side has this `length` (0 copies the images unchanged)")
	flags.IntVar(&jpegQuality, flagJPEGQuality, 90, "The quality to use when encoding resized JPEGs [1, 100]")
	flags.BoolVar(&verifySize, flagVerifySize, false, "Compare the annotated image size with the image file")
	flags.BoolVar(&noDataYAML, flagNoDataYAML, false, "Do not write "+yolods.DataYAMLName)

	if err := cmdBuild.MarkFlagFilename(flagConfig, "yaml", "yml"); err != nil {
		panic(err)
	}
	if err := cmdBuild.MarkFlagDirname(flagOutput); err != nil {
		panic(err)
	}

	return cmdBuild
}
