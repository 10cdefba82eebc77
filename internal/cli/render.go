package cli

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/surveycloud/pkg/errors"
	"github.com/matzehuels/surveycloud/pkg/pipeline"
)

// stdoutPath selects standard output as the destination of a single format.
const stdoutPath = "-"

// artifactWriteParams describes where rendered artifacts go.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string // input file, used to derive output names
	output    string // -o value: a file (single format) or base path
}

// writeArtifacts writes each requested format and returns the written paths
// in format order. A single format with output "-" goes to stdout.
func writeArtifacts(p artifactWriteParams) ([]string, error) {
	formats := dedupe(p.formats)
	if len(formats) == 1 && p.output == stdoutPath {
		_, err := stdout.Write(p.artifacts[formats[0]])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeIO, err, "write %s to stdout", formats[0])
		}
		return nil, nil
	}

	base := basePath(p.output, p.input)
	var paths []string
	for _, format := range formats {
		data, ok := p.artifacts[format]
		if !ok {
			return paths, errors.New(errors.ErrCodeInternal, "no %s output was rendered", format)
		}
		path := base + "." + format
		if len(formats) == 1 && p.output != "" && p.output != stdoutPath {
			path = p.output
		}
		if err := writeFile(path, data); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// writeFile creates path's parent directory and writes data to it.
func writeFile(path string, data []byte) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input; with no input file
// it falls back to "wordcloud". A known format extension on output is
// stripped so that multiple formats share one base name.
func basePath(output, input string) string {
	if output == "" || output == stdoutPath {
		if input == "" || input == stdoutPath {
			return defaultOutputBase
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// openOutput returns path for writing, or stdout when path is empty or "-".
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == stdoutPath {
		return nopCloser{stdout}, nil
	}
	if err := errors.ValidateOutputPath(path); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "create %s", path)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// readInput reads a text file, or stdin when path is "-".
func readInput(path string) ([]byte, error) {
	if path == stdoutPath {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeIO, err, "read stdin")
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "input %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read %s", path)
	}
	return data, nil
}

// describeFormats renders a format list for messages.
func describeFormats(formats []string) string {
	upper := make([]string, len(formats))
	for i, f := range formats {
		upper[i] = strings.ToUpper(f)
	}
	return strings.Join(upper, ", ")
}

func dedupe(items []string) []string {
	var out []string
	for _, it := range items {
		if !slices.Contains(out, it) {
			out = append(out, it)
		}
	}
	return out
}
