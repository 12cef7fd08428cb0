// Converts LabelMe annotation folders into a YOLO object detection dataset with train and val
// splits.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app holds the state shared by all subcommands.
type app struct {
	verbose bool
	logger  *zap.SugaredLogger
}

// newLogger returns a console logger; debug messages are only shown when verbose is set.
func newLogger(verbose bool) (*zap.SugaredLogger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.DisableCaller = true
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// newRootCommand returns the root command. A nil logger is created from the --verbose flag.
func newRootCommand(logger *zap.SugaredLogger) *cobra.Command {
	a := &app{logger: logger}
	root := &cobra.Command{
		Use:   "yolods",
		Short: "Builds YOLO datasets from LabelMe annotations",
		Long: "Builds YOLO datasets from LabelMe annotations. \n" +
			"Each source folder holds <name>.json annotation files next to <name>.jpg/.png/.jpeg images. " +
			"Shapes with known labels are converted to normalised YOLO boxes and the samples are split " +
			"into images/{train,val} and labels/{train,val} below the output directory.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.logger != nil {
				return nil
			}
			logger, err := newLogger(a.verbose)
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log debug messages")

	root.AddCommand(a.commandBuild(), a.commandVerify())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand(nil).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
