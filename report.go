package yolods

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Summary holds the counters of a dataset build.
type Summary struct {
	Processed      int // Samples written to the output dataset.
	Train          int
	Val            int
	MissingImages  int // Annotation files without a matching image.
	ParseErrors    int // Annotation files that could not be parsed.
	Unlabeled      int // Annotation files without any known label.
	MissingFolders int
	Duplicates     int // Samples replaced by a later sample with the same base name.
	SizeMismatches int // Only counted when image sizes are verified.
	BadImages      int // Images that could not be decoded when verifying or resizing.
	Output         string
	Seed           int64
}

// String renders the summary as a table.
func (s Summary) String() string {
	t := table.NewWriter()
	t.SetTitle("Dataset summary")
	t.AppendHeader(table.Row{"Counter", "Value"})
	t.AppendRows([]table.Row{
		{"Processed", s.Processed},
		{"  train", s.Train},
		{"  val", s.Val},
		{"Missing images", s.MissingImages},
		{"Parse errors", s.ParseErrors},
		{"No known labels", s.Unlabeled},
		{"Missing folders", s.MissingFolders},
		{"Duplicates", s.Duplicates},
		{"Size mismatches", s.SizeMismatches},
		{"Unreadable images", s.BadImages},
	})
	t.AppendFooter(table.Row{"Output", s.Output})
	return t.Render()
}

// Report writes the summary table and the seed that reproduces the split to w.
func (s Summary) Report(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s\nSplit seed: %d\n", s, s.Seed)
	return err
}
