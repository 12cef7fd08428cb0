package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.viam.com/test"

	"github.com/sensorable/yolods"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand(zap.NewNop().Sugar())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	test.That(t, os.WriteFile(path, []byte(content), 0o644), test.ShouldBeNil)
}

func TestBuildAndVerify(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "a.json"), `{"imageWidth": 100, "imageHeight": 200,
		"shapes": [{"label": "Red_gates", "points": [[10, 20], [50, 80]]}]}`)
	writeFile(t, filepath.Join(src, "a.jpg"), "a")
	writeFile(t, filepath.Join(src, "b.json"), `{"imageWidth": 100, "imageHeight": 200,
		"shapes": [{"label": "Blue_gates", "points": [[0, 0], [100, 200]]}]}`)
	writeFile(t, filepath.Join(src, "b.png"), "b")
	out := filepath.Join(t.TempDir(), "dataset")

	stdout, err := execute(t, "build", "-s", src, "-o", out, "--seed", "7", "--split-mode", "partition", "-r", "0.5")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, stdout, test.ShouldContainSubstring, "Dataset summary")
	test.That(t, stdout, test.ShouldContainSubstring, "Split seed: 7")

	report, err := yolods.Verify(out, 3)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, report.Images, test.ShouldEqual, 2)

	stdout, err = execute(t, "verify", out, "-n", "3")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, stdout, test.ShouldContainSubstring, "2 images, 2 label files")

	// Class id 2 is out of range for two classes.
	_, err = execute(t, "verify", out, "-n", "2")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "1 invalid lines")
}

func TestBuildConfigFile(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "a.json"), `{"imageWidth": 10, "imageHeight": 10,
		"shapes": [{"label": "cat", "points": [[1, 1], [5, 5]]}]}`)
	writeFile(t, filepath.Join(src, "a.jpg"), "a")
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	cfgPath := filepath.Join(dir, "cfg.yaml")
	writeFile(t, cfgPath, "sources: ["+src+"]\noutput: "+out+"\nseed: 3\nclasses: [dog, cat]\n")

	// The flag overrides the ratio from the file.
	stdout, err := execute(t, "build", "-c", cfgPath, "--train-ratio", "1", "--no-data-yaml")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, stdout, test.ShouldContainSubstring, "Split seed: 3")

	label, err := os.ReadFile(filepath.Join(out, "labels", "train", "a.txt"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(label), test.ShouldEqual, "1 0.3 0.3 0.4 0.4")
	_, err = os.Stat(filepath.Join(out, yolods.DataYAMLName))
	test.That(t, os.IsNotExist(err), test.ShouldBeTrue)
}

func TestBuildErrors(t *testing.T) {
	_, err := execute(t, "build", "-s", t.TempDir(), "-o", filepath.Join(t.TempDir(), "out"), "-r", "2")
	test.That(t, err, test.ShouldNotBeNil)

	_, err = execute(t, "build", "-c", filepath.Join(t.TempDir(), "missing.yaml"))
	test.That(t, err, test.ShouldNotBeNil)

	_, err = execute(t, "build", "unexpected")
	test.That(t, err, test.ShouldNotBeNil)

	_, err = execute(t, "verify")
	test.That(t, err, test.ShouldNotBeNil)
}
