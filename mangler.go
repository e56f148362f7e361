// Package mangler destroys the identifying content of PDF files while
// preserving their structure: text is swapped for same-category characters
// rendered with the same fonts, vector paths are nudged without moving page
// furniture, images become flat placeholders, and metadata, scripts, and
// label strings are stripped or replaced. The result renders like the
// original document with the sensitive parts smudged out, suitable for
// sharing in bug reports against PDF tooling.
//
// Basic usage:
//
//	warnings, err := mangler.Open("statement.pdf").Mangle(ctx)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println(mangler.FormatWarnings(warnings))
//	}
//
// With options, mangling straight to disk:
//
//	out, _, err := mangler.Open("statement.pdf").
//	    WithConfigFile("mangler.yaml").
//	    WithSeed(42).
//	    MangleToFile(ctx, "out")
//
// The output name is the MD5 of the document's identity, so repeated runs
// over the same input land on the same file.
package mangler

import (
	"context"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"
)

// Open prepares a PDF file for mangling. The file is not read until a
// terminal operation (Mangle, Save, MangleToFile, OutputName) runs.
//
// Example:
//
//	warnings, err := mangler.Open("doc.pdf").Mangle(ctx)
func Open(path string) *Document {
	return &Document{
		path: path,
		cfg:  *DefaultConfig(),
		log:  zap.NewNop(),
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// FromContext wraps an already-open pdfcpu context. The caller keeps
// ownership; saving through the Document mutates and writes that context.
//
// Example:
//
//	ctx, err := api.ReadContextFile("doc.pdf")
//	if err != nil {
//	    // handle error
//	}
//	warnings, err := mangler.FromContext(ctx).Mangle(context.Background())
func FromContext(ctx *model.Context) *Document {
	return &Document{
		ctx: ctx,
		cfg: *DefaultConfig(),
		log: zap.NewNop(),
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// clone creates a shallow copy of the Document. Each chain method returns
// a new instance, so a configured Document can be reused as a template.
func (d *Document) clone() *Document {
	newDoc := *d
	newDoc.warnings = append([]Warning(nil), d.warnings...)
	return &newDoc
}

// WithConfig replaces the configuration. An invalid configuration
// surfaces as an error on the next terminal operation.
func (d *Document) WithConfig(cfg *Config) *Document {
	newDoc := d.clone()
	if cfg == nil {
		return newDoc
	}
	newDoc.cfg = *cfg
	if err := cfg.validate(); err != nil && newDoc.err == nil {
		newDoc.err = err
	}
	return newDoc
}

// WithConfigFile loads configuration from a YAML file. Keys absent from
// the file keep their defaults.
//
// Example:
//
//	warnings, err := mangler.Open("doc.pdf").WithConfigFile("mangler.yaml").Mangle(ctx)
func (d *Document) WithConfigFile(path string) *Document {
	newDoc := d.clone()
	cfg, err := LoadConfig(path)
	if err != nil {
		if newDoc.err == nil {
			newDoc.err = err
		}
		return newDoc
	}
	newDoc.cfg = *cfg
	return newDoc
}

// WithLogger attaches a logger. By default nothing is logged.
func (d *Document) WithLogger(log *zap.Logger) *Document {
	newDoc := d.clone()
	if log != nil {
		newDoc.log = log
	}
	return newDoc
}

// WithSeed fixes the random source, making the mangled output
// reproducible for a given input and configuration.
//
// Example:
//
//	warnings, err := mangler.Open("doc.pdf").WithSeed(42).Mangle(ctx)
func (d *Document) WithSeed(seed int64) *Document {
	newDoc := d.clone()
	newDoc.rng = rand.New(rand.NewSource(seed))
	return newDoc
}

// OnPage registers a callback invoked after each page is mangled.
func (d *Document) OnPage(fn PageFunc) *Document {
	newDoc := d.clone()
	newDoc.pageFn = fn
	return newDoc
}

// OnObject registers a callback invoked when a standalone object (image,
// form, script) is replaced.
func (d *Document) OnObject(fn ObjectFunc) *Document {
	newDoc := d.clone()
	newDoc.objFn = fn
	return newDoc
}

// Mangle runs the full pipeline and returns the warnings collected along
// the way. Warnings are non-fatal: content that cannot be mangled is left
// in place and reported. The context cancels between pages; after a
// cancellation the Document refuses to save.
func (d *Document) Mangle(ctx context.Context) ([]Warning, error) {
	if d.err != nil {
		return d.warnings, d.err
	}
	d.visited = make(map[int]bool)
	d.fontCache = make(map[int]*fontContext)
	if err := d.run(ctx); err != nil {
		d.err = err
		return d.warnings, err
	}
	return d.warnings, nil
}

// Save writes the document under its hash name into dir and returns the
// written path. Saving without mangling first writes an untouched copy
// under the same name the mangled version would get.
func (d *Document) Save(dir string) (string, error) {
	if d.err != nil {
		return "", d.err
	}
	if err := d.ensureContext(); err != nil {
		return "", err
	}
	if d.hashName == "" {
		d.hashName = d.computeHashName()
	}
	path := filepath.Join(dir, d.hashName)
	if err := api.WriteContextFile(d.ctx, path); err != nil {
		return "", err
	}
	return path, nil
}

// MangleToFile mangles and saves in one call.
//
// Example:
//
//	out, warnings, err := mangler.Open("doc.pdf").MangleToFile(ctx, "out")
func (d *Document) MangleToFile(ctx context.Context, dir string) (string, []Warning, error) {
	warnings, err := d.Mangle(ctx)
	if err != nil {
		return "", warnings, err
	}
	path, err := d.Save(dir)
	return path, warnings, err
}

// OutputName returns the hash-derived file name the document saves under.
func (d *Document) OutputName() (string, error) {
	if d.err != nil {
		return "", d.err
	}
	if err := d.ensureContext(); err != nil {
		return "", err
	}
	if d.hashName == "" {
		d.hashName = d.computeHashName()
	}
	return d.hashName, nil
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	name := mangler.Must(mangler.Open("doc.pdf").OutputName())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustOutput is like Must for terminal operations that also return
// warnings, which it discards.
//
// Example:
//
//	out := mangler.MustOutput(mangler.Open("doc.pdf").MangleToFile(ctx, "out"))
func MustOutput[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
