// Package driver compiles a source tree into an output tree.
package driver

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"zl/internal/compiler"
	"zl/internal/config"
	"zl/internal/errors"
)

var log = commonlog.GetLogger("zl.driver")

// Action says what the driver did with one input file.
type Action int

const (
	ActionCompiled Action = iota
	ActionCopied
	ActionFailed
)

func (a Action) String() string {
	switch a {
	case ActionCompiled:
		return "compiled"
	case ActionCopied:
		return "copied"
	case ActionFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type FileReport struct {
	Source      string // path of the input file
	Rel         string // slash-separated path relative to the input root
	Output      string // written file, empty when nothing was written
	Action      Action
	Diagnostics []errors.CompilerError
	Err         error // I/O failure, nil when the file was processed
	Content     string
	Duration    time.Duration
}

func (f *FileReport) Failed() bool {
	return f.Action == ActionFailed
}

type Report struct {
	Files    []FileReport
	Duration time.Duration
}

func (r *Report) Failed() bool {
	for i := range r.Files {
		if r.Files[i].Failed() {
			return true
		}
	}
	return false
}

// Count returns how many files ended with action a.
func (r *Report) Count(a Action) int {
	n := 0
	for i := range r.Files {
		if r.Files[i].Action == a {
			n++
		}
	}
	return n
}

// Build compiles cfg.Build.Input into cfg.Build.Out. The output root is
// removed and recreated first. Per-file failures end up in the report; the
// returned error is reserved for setup failures and cancellation.
func Build(ctx context.Context, cfg *config.Config) (*Report, error) {
	start := time.Now()

	input, err := filepath.Abs(cfg.Build.Input)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve input: %w", err)
	}
	out, err := filepath.Abs(cfg.Build.Out)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output root: %w", err)
	}

	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	root := input
	if !info.IsDir() {
		root = filepath.Dir(input)
	}
	if within(out, input) || within(input, out) {
		return nil, fmt.Errorf("output root %s overlaps input %s", out, input)
	}

	files, err := collectFiles(input, info)
	if err != nil {
		return nil, err
	}

	if err := resetDir(out); err != nil {
		return nil, err
	}
	log.Infof("building %d file(s) from %s into %s", len(files), input, out)

	reports := make([]FileReport, len(files))
	if len(files) > 0 {
		jobs := cfg.Build.Jobs
		if jobs <= 0 {
			jobs = runtime.GOMAXPROCS(0)
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(min(jobs, len(files)))

		opts := cfg.CompileOptions()
		for i, path := range files {
			i, path := i, path
			g.Go(func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				reports[i] = buildFile(path, root, out, cfg.Build, opts)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	sort.Slice(reports, func(i, j int) bool { return reports[i].Rel < reports[j].Rel })
	report := &Report{Files: reports, Duration: time.Since(start)}
	log.Infof("build finished in %s: %d compiled, %d copied, %d failed",
		report.Duration, report.Count(ActionCompiled), report.Count(ActionCopied), report.Count(ActionFailed))
	return report, nil
}

func buildFile(path, root, out string, build config.BuildConfig, opts compiler.Options) (report FileReport) {
	start := time.Now()
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	report = FileReport{Source: path, Rel: filepath.ToSlash(rel)}

	defer func() { report.Duration = time.Since(start) }()

	if !strings.HasSuffix(path, build.SourceExt) {
		dest := filepath.Join(out, rel)
		if err := copyFile(path, dest); err != nil {
			report.Action = ActionFailed
			report.Err = err
			return report
		}
		report.Action = ActionCopied
		report.Output = dest
		log.Debugf("copied %s", report.Rel)
		return report
	}

	data, err := os.ReadFile(path)
	if err != nil {
		report.Action = ActionFailed
		report.Err = fmt.Errorf("failed to read %s: %w", path, err)
		return report
	}
	report.Content = string(data)

	result := compiler.Compile(report.Content, opts)
	if result.Failed() {
		report.Action = ActionFailed
		report.Diagnostics = result.Diagnostics
		log.Warningf("%s: %d diagnostic(s)", report.Rel, len(result.Diagnostics))
		return report
	}

	dest := filepath.Join(out, strings.TrimSuffix(rel, build.SourceExt)+build.TargetExt)
	if err := writeFile(dest, []byte(result.Output)); err != nil {
		report.Action = ActionFailed
		report.Err = err
		return report
	}
	report.Action = ActionCompiled
	report.Output = dest
	log.Debugf("compiled %s", report.Rel)
	return report
}

func collectFiles(input string, info fs.FileInfo) ([]string, error) {
	if !info.IsDir() {
		return []string{input}, nil
	}
	var files []string
	err := filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", input, err)
	}
	sort.Strings(files)
	return files, nil
}

func resetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to clear output root: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output root: %w", err)
	}
	return nil
}

func writeFile(dest string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(dest), err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(dest), err)
	}
	outFile, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	if _, err := io.Copy(outFile, in); err != nil {
		outFile.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return outFile.Close()
}

// within reports whether path is dir or lies below it.
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
