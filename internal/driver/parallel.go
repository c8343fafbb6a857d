package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"bindgen/internal/bindings"
	"bindgen/internal/config"
	"bindgen/internal/declset"
	"bindgen/internal/diag"
	"bindgen/internal/library"
	"bindgen/internal/observ"
	"bindgen/internal/trace"
)

// ErrAmbiguousOutput is returned when one output file is named for several
// inputs.
var ErrAmbiguousOutput = errors.New("--output names a single file but several inputs were given")

// Options controls one Run.
type Options struct {
	Jobs           int
	MaxDiagnostics int
	// Output is the header path for a single input.
	Output string
	// OutDir receives one header per input, named after the input.
	OutDir string
	// Cache may be nil.
	Cache *DiskCache
	// Progress may be nil.
	Progress ProgressSink
}

// Result содержит результат генерации одного входного файла
type Result struct {
	Path       string // Путь к набору деклараций
	OutputPath string // Куда записан заголовок; пусто, если никуда
	Header     []byte
	Items      []string
	Bindings   *bindings.Bindings // nil for cache hits
	Bag        *diag.Bag
	Timing     observ.Report
	Digest     Digest
	Err        error
	Written    bool
	Cached     bool
}

// Failed reports whether no header could be produced.
func (r *Result) Failed() bool {
	return r.Err != nil
}

// Run generates a header for every input in parallel. Results come back in
// input order. Per-input failures land in Result.Err and the bag; Run itself
// fails only on bad options or cancellation.
func Run(ctx context.Context, cfg *config.Config, inputs []string, opts Options) ([]*Result, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if opts.Output != "" && len(inputs) > 1 {
		return nil, ErrAmbiguousOutput
	}
	if len(inputs) == 0 {
		return nil, nil
	}
	fingerprint, err := configFingerprint(cfg)
	if err != nil {
		return nil, err
	}

	// Настраиваем параллелизм
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]*Result, len(inputs))

	for _, path := range inputs {
		emit(opts.Progress, Event{Input: path, Stage: StageLoad, Status: StatusQueued})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(inputs)))

	for i, path := range inputs {
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = runOne(gctx, cfg, fingerprint, path, opts)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func runOne(ctx context.Context, cfg *config.Config, fingerprint []byte, path string, opts Options) *Result {
	ctx, span := trace.StartInput(ctx, path)

	res := &Result{
		Path:       path,
		OutputPath: outputPath(cfg, path, opts),
		Bag:        diag.NewBag(opts.MaxDiagnostics),
	}
	timer := observ.NewTimer()
	r := diag.NewDedupReporter(diag.FileReporter{File: path, Next: diag.BagReporter{Bag: res.Bag}})
	started := time.Now()
	stage := StageLoad
	enter := func(s Stage) {
		stage = s
		emit(opts.Progress, Event{Input: path, Stage: s, Status: StatusWorking})
	}
	defer func() {
		res.Timing = timer.Report()
		status := "ok"
		done := Event{Input: path, Stage: stage, Status: StatusDone, Cached: res.Cached, Elapsed: time.Since(started)}
		switch {
		case res.Err != nil:
			status = "failed"
			done.Status, done.Err = StatusError, res.Err
		case res.Cached:
			status = "cached"
		}
		span.End(status)
		emit(opts.Progress, done)
	}()

	enter(StageLoad)

	var (
		data   []byte
		format declset.Format
	)
	err := timer.Measure("load", func() error {
		var err error
		if format, err = declset.FormatOf(path); err != nil {
			return err
		}
		data, err = os.ReadFile(path)
		return err
	})
	if err != nil {
		res.fail(diag.IOLoadFailed, fmt.Errorf("load %s: %w", path, err))
		return res
	}
	res.Digest = inputDigest(fingerprint, data)

	if res.replay(opts.Cache, timer) {
		if res.wantsWrite() {
			enter(StageWrite)
		}
		res.write(timer)
		return res
	}

	enter(StageDecode)
	var file *declset.File
	err = timer.Measure("decode", func() error {
		var err error
		file, err = declset.Decode(path, format, data, r)
		return err
	})
	if err != nil {
		res.fail(diag.IOLoadFailed, err)
		res.store(opts.Cache)
		return res
	}

	var lib *library.Library
	_ = timer.Measure("build", func() error {
		lib = library.New(cfg, declset.Build(file, r), r, timer)
		return nil
	})
	enter(StageGenerate)
	b, err := lib.Generate(ctx)
	if err != nil {
		res.Err = err
		if !res.Bag.HasErrors() {
			res.fail(diag.UnknownCode, err)
		}
	} else {
		res.Bindings = b
		res.Header = b.Render()
		res.Items = b.ItemNames()
	}
	res.store(opts.Cache)
	if res.wantsWrite() {
		enter(StageWrite)
	}
	res.write(timer)
	return res
}

// fail records err as the reason this input produced nothing.
func (r *Result) fail(code diag.Code, err error) {
	r.Err = err
	r.Bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     code,
		Message:  err.Error(),
		Primary:  diag.Subject{File: r.Path},
	})
}

func (r *Result) replay(cache *DiskCache, timer *observ.Timer) bool {
	if cache == nil {
		return false
	}
	var payload DiskPayload
	var hit bool
	_ = timer.Measure("cache", func() error {
		var err error
		hit, err = cache.Get(r.Digest, &payload)
		return err
	})
	if !hit {
		return false
	}
	r.Cached = true
	r.Header = payload.Header
	r.Items = payload.Items
	for _, d := range payload.Diagnostics {
		r.Bag.Add(d)
	}
	if payload.Failed {
		r.Err = errors.New(payload.Error)
	}
	return true
}

func (r *Result) store(cache *DiskCache) {
	if cache == nil {
		return
	}
	payload := &DiskPayload{
		Header:      r.Header,
		Items:       r.Items,
		Diagnostics: append([]diag.Diagnostic(nil), r.Bag.Items()...),
		Failed:      r.Err != nil,
	}
	if r.Err != nil {
		payload.Error = r.Err.Error()
	}
	// Кэш лишь ускоряет повторный запуск; ошибка записи не роняет генерацию.
	_ = cache.Put(r.Digest, payload)
}

func (r *Result) wantsWrite() bool {
	return r.Err == nil && r.OutputPath != ""
}

func (r *Result) write(timer *observ.Timer) {
	if !r.wantsWrite() {
		return
	}
	err := timer.Measure("write", func() error {
		if dir := filepath.Dir(r.OutputPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		written, err := bindings.WriteIfChanged(r.OutputPath, r.Header)
		r.Written = written
		return err
	})
	if err != nil {
		r.fail(diag.IOWriteFailed, err)
	}
}

// outputPath decides where the header for input goes. An empty result means
// the caller prints the header itself; "-" asks for that explicitly.
func outputPath(cfg *config.Config, input string, opts Options) string {
	if opts.Output == "-" {
		return ""
	}
	if opts.Output != "" {
		return opts.Output
	}
	if opts.OutDir == "" {
		return ""
	}
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(opts.OutDir, base+HeaderExt(cfg.Language))
}

// HeaderExt is the file extension used for generated headers.
func HeaderExt(lang config.Language) string {
	if lang == config.LangCxx {
		return ".hpp"
	}
	return ".h"
}
