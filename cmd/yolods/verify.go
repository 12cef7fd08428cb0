package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/sensorable/yolods"
)

func (a *app) commandVerify() *cobra.Command {
	var numClasses int

	cmdVerify := &cobra.Command{
		Use:   "verify <dataset directory> [-n <number of classes>]",
		Short: "Checks an output dataset for unmatched files and invalid labels",
		Long: "Checks an output dataset for unmatched files and invalid labels. \n" +
			"Every image must have a label file with the same base name in the same split and vice versa. " +
			"Every label line must hold a class id and four values in [0, 1].",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := yolods.Verify(args[0], numClasses)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, p := range report.OrphanImages {
				a.logger.Warnf("Image without label file: %s", p)
			}
			for _, p := range report.OrphanLabels {
				a.logger.Warnf("Label file without image: %s", p)
			}
			for _, l := range report.BadLines {
				a.logger.Warnf("Invalid label: %s", l)
			}
			if _, err := fmt.Fprintf(w, "%d images, %d label files\n", report.Images, report.Labels); err != nil {
				return err
			}
			if !report.OK() {
				return errors.Errorf("dataset %q has %d unmatched images, %d unmatched labels and %d invalid lines",
					args[0], len(report.OrphanImages), len(report.OrphanLabels), len(report.BadLines))
			}
			return nil
		},
	}
	cmdVerify.Flags().IntVarP(&numClasses, "classes", "n", 0, "Number of classes (0 skips the upper class id check)")

	return cmdVerify
}
