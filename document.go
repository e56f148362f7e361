package mangler

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"go.uber.org/zap"
)

// Document is a handle on one PDF being mangled. Zero or more option
// calls refine it; a terminal call (Mangle, Save, MangleToFile) loads the
// file lazily and runs the pipeline. Documents are not safe for
// concurrent use.
type Document struct {
	path string
	ctx  *model.Context

	cfg Config
	log *zap.Logger
	rng *rand.Rand

	hashName  string
	warnings  []Warning
	visited   map[int]bool
	fontCache map[int]*fontContext

	pageFn PageFunc
	objFn  ObjectFunc

	err error
}

// ensureContext loads the pdfcpu context on the first terminal call.
func (d *Document) ensureContext() error {
	if d.err != nil {
		return d.err
	}
	if d.ctx != nil {
		return nil
	}
	if d.path == "" {
		d.err = errors.New("no input: open a file or wrap a context")
		return d.err
	}
	ctx, err := api.ReadContextFile(d.path)
	if err != nil {
		d.err = fmt.Errorf("reading %s: %w", d.path, err)
		return d.err
	}
	d.ctx = ctx
	return nil
}

// run executes the pipeline: derive the output name from the pristine
// bytes, strip document-level identity, sweep standalone objects, then
// mangle each page's content and references.
func (d *Document) run(ctx context.Context) error {
	if err := d.ensureContext(); err != nil {
		return err
	}

	d.hashName = d.computeHashName()
	d.log.Info("mangling",
		zap.Int("pages", d.ctx.PageCount),
		zap.String("output", d.hashName))

	d.stripMetadata()
	d.mangleRoot()

	if err := ctx.Err(); err != nil {
		return err
	}
	d.mangleObjects()

	st := &mangleState{font: latinContext}
	for pageNr := 1; pageNr <= d.ctx.PageCount; pageNr++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.manglePage(st, pageNr); err != nil {
			return err
		}
		if d.pageFn != nil {
			d.pageFn(pageNr, d.ctx.PageCount)
		}
	}
	return nil
}

// manglePage rewrites one page's content streams and processes its
// reference keys. The shared state is re-seeded with the page's
// dimensions and font resources; fonts selected on a previous page do not
// leak in.
func (d *Document) manglePage(st *mangleState, pageNr int) error {
	pageDict, _, inh, err := d.ctx.PageDict(pageNr, false)
	if err != nil {
		return fmt.Errorf("page %d: %w", pageNr, err)
	}
	if pageDict == nil {
		return fmt.Errorf("page %d: no page dictionary", pageNr)
	}

	st.page = pageNr
	st.pageW, st.pageH = d.boxDims(pageDict, inh)
	st.font = latinContext
	st.fonts = d.pageFonts(inh)
	st.cur = point{}
	st.origCur = point{}
	st.inBlock = false

	if d.cfg.Mangle.Content {
		for _, ps := range d.contentStreams(pageDict) {
			if d.visited[ps.objNr] {
				continue
			}
			d.visited[ps.objNr] = true
			if err := ps.sd.Decode(); err != nil {
				d.warnf(pageNr, ps.objNr, "content stream undecodable: %v", err)
				continue
			}
			d.mangleContent(st, ps.sd.Content)
			if err := d.writeStream(ps.objNr, ps.genNr, ps.sd); err != nil {
				d.warnf(pageNr, ps.objNr, "content stream not stored: %v", err)
			}
		}
	}

	d.mangleReferences(st, pageDict)
	return nil
}

// pageStream pairs a content stream with its cross-reference identity.
type pageStream struct {
	objNr int
	genNr int
	sd    *types.StreamDict
}

// contentStreams resolves a page's /Contents entry, which may be one
// stream, an array of streams, or a reference to such an array.
func (d *Document) contentStreams(pageDict types.Dict) []pageStream {
	o, found := pageDict.Find("Contents")
	if !found {
		return nil
	}

	var refs []types.IndirectRef
	switch v := o.(type) {
	case types.IndirectRef:
		res, err := d.ctx.Dereference(v)
		if err != nil {
			return nil
		}
		if arr, ok := res.(types.Array); ok {
			refs = refList(arr)
		} else {
			refs = []types.IndirectRef{v}
		}
	case types.Array:
		refs = refList(v)
	}

	var out []pageStream
	for _, ref := range refs {
		sd, _, err := d.ctx.DereferenceStreamDict(ref)
		if err != nil || sd == nil {
			continue
		}
		out = append(out, pageStream{
			objNr: ref.ObjectNumber.Value(),
			genNr: ref.GenerationNumber.Value(),
			sd:    sd,
		})
	}
	return out
}

// refList filters an array down to its indirect references.
func refList(arr types.Array) []types.IndirectRef {
	var refs []types.IndirectRef
	for _, el := range arr {
		if ref, ok := el.(types.IndirectRef); ok {
			refs = append(refs, ref)
		}
	}
	return refs
}

// pageFonts returns the page's resolved /Font resource dictionary.
func (d *Document) pageFonts(inh *model.InheritedPageAttrs) types.Dict {
	if inh == nil || inh.Resources == nil {
		return nil
	}
	o, found := inh.Resources.Find("Font")
	if !found {
		return nil
	}
	fonts, err := d.ctx.DereferenceDict(o)
	if err != nil {
		return nil
	}
	return fonts
}

// boxDims returns the smallest width and height over the page's box
// rectangles. Box corners may appear in any order, so spans are absolute
// differences. A page declaring no boxes yields +Inf dimensions, which
// classifies nothing as background.
func (d *Document) boxDims(pageDict types.Dict, inh *model.InheritedPageAttrs) (float64, float64) {
	w := math.Inf(1)
	h := math.Inf(1)
	if inh != nil {
		for _, r := range []*types.Rectangle{inh.MediaBox, inh.CropBox} {
			if r != nil {
				w = math.Min(w, r.Width())
				h = math.Min(h, r.Height())
			}
		}
	}
	for key, o := range pageDict {
		if !strings.Contains(key, "Box") {
			continue
		}
		arr, err := d.ctx.DereferenceArray(o)
		if err != nil || len(arr) != 4 {
			continue
		}
		var c [4]float64
		ok := true
		for i, el := range arr {
			v, good := d.floatValue(el)
			if !good {
				ok = false
				break
			}
			c[i] = v
		}
		if !ok {
			continue
		}
		w = math.Min(w, math.Abs(c[0]-c[2]))
		h = math.Min(h, math.Abs(c[1]-c[3]))
	}
	return w, h
}

// writeStream re-encodes a mutated stream and stores it back into the
// cross-reference table. Dereferencing hands out a copy of the stream
// dict, so the table entry must be replaced for changes to persist.
func (d *Document) writeStream(objNr, genNr int, sd *types.StreamDict) error {
	if err := sd.Encode(); err != nil {
		return err
	}
	l := int64(len(sd.Raw))
	sd.StreamLength = &l
	sd.Dict["Length"] = types.Integer(l)

	entry, ok := d.ctx.FindTableEntry(objNr, genNr)
	if !ok {
		return fmt.Errorf("object %d %d not in the cross-reference table", objNr, genNr)
	}
	entry.Object = *sd
	return nil
}

// floatValue dereferences a numeric object.
func (d *Document) floatValue(o types.Object) (float64, bool) {
	res, err := d.ctx.Dereference(o)
	if err != nil {
		return 0, false
	}
	switch v := res.(type) {
	case types.Integer:
		return float64(v), true
	case types.Float:
		return float64(v), true
	}
	return 0, false
}

// nameEntry dereferences a name entry, returning "" when absent or not a
// name.
func (d *Document) nameEntry(dict types.Dict, key string) string {
	o, found := dict.Find(key)
	if !found {
		return ""
	}
	res, err := d.ctx.Dereference(o)
	if err != nil {
		return ""
	}
	n, ok := res.(types.Name)
	if !ok {
		return ""
	}
	return n.Value()
}

// sortedKeys returns a dictionary's keys in stable order, so random draws
// are consumed identically across runs with the same seed.
func sortedKeys(dict types.Dict) []string {
	keys := make([]string, 0, len(dict))
	for k := range dict {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// warnf records a non-fatal issue and logs it.
func (d *Document) warnf(page, object int, format string, args ...any) {
	w := Warning{Page: page, Object: object, Message: fmt.Sprintf(format, args...)}
	d.warnings = append(d.warnings, w)
	d.log.Warn(w.Message, zap.Int("page", page), zap.Int("object", object))
}

// reportObject notifies the object callback, if any.
func (d *Document) reportObject(objNr int, kind string) {
	if d.objFn != nil {
		d.objFn(objNr, kind)
	}
}
