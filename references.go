package mangler

import (
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"go.uber.org/zap"
)

// annotTextKeys are the annotation entries that can carry free text.
// Entries that resolve to something other than a string (numeric /CA
// opacity, /Dest arrays) are skipped by replaceStringEntry.
var annotTextKeys = []string{"T", "Contents", "RC", "Subj", "Dest", "CA", "AC"}

// mangleReferences handles the mangling-relevant keys of a page or form
// dictionary: form XObjects, thumbnails, private application data, and
// annotations.
func (d *Document) mangleReferences(st *mangleState, dict types.Dict) {
	if o, found := dict.Find("Resources"); found {
		res, err := d.ctx.DereferenceDict(o)
		if err == nil && res != nil {
			d.mangleFormXObjects(st, res)
		}
	}

	if _, found := dict.Find("Thumb"); found && d.cfg.Mangle.Thumbnails {
		delete(dict, "Thumb")
		d.log.Info("thumbnail removed", zap.Int("page", st.page))
	}

	if _, found := dict.Find("PieceInfo"); found && d.cfg.Mangle.Metadata {
		delete(dict, "PieceInfo")
	}

	if _, found := dict.Find("B"); found {
		d.log.Info("article beads left alone", zap.Int("page", st.page))
	}

	if d.cfg.Mangle.Annotations {
		if o, found := dict.Find("Annots"); found {
			d.mangleAnnotations(o)
		}
	}
}

// mangleFormXObjects content-mangles the Form entries of a resource
// dictionary's /XObject. Image entries are replaced by the object sweep.
// Shared forms are mangled once; keys are walked in sorted order so
// random draws stay reproducible.
func (d *Document) mangleFormXObjects(st *mangleState, res types.Dict) {
	o, found := res.Find("XObject")
	if !found {
		return
	}
	xobjs, err := d.ctx.DereferenceDict(o)
	if err != nil || xobjs == nil {
		return
	}
	for _, name := range sortedKeys(xobjs) {
		ref, ok := xobjs[name].(types.IndirectRef)
		if !ok {
			continue
		}
		objNr := ref.ObjectNumber.Value()
		if d.visited[objNr] {
			continue
		}
		sd, _, err := d.ctx.DereferenceStreamDict(ref)
		if err != nil || sd == nil {
			continue
		}
		if d.nameEntry(sd.Dict, "Subtype") != "Form" {
			continue
		}
		d.visited[objNr] = true
		d.mangleFormStream(st, objNr, ref.GenerationNumber.Value(), sd)
	}
}

// mangleFormStream mangles a form XObject's content under the form's own
// font resources, then recurses into its references for nested forms.
// The form starts from a fresh graphics state; the page state is restored
// afterwards.
func (d *Document) mangleFormStream(st *mangleState, objNr, genNr int, sd *types.StreamDict) {
	var formRes types.Dict
	if o, found := sd.Dict.Find("Resources"); found {
		if res, err := d.ctx.DereferenceDict(o); err == nil {
			formRes = res
		}
	}

	if d.cfg.Mangle.Content {
		if err := sd.Decode(); err != nil {
			d.warnf(st.page, objNr, "form stream undecodable: %v", err)
		} else {
			saved := *st
			st.font = latinContext
			st.cur = point{}
			st.origCur = point{}
			st.inBlock = false
			if formRes != nil {
				if o, found := formRes.Find("Font"); found {
					if fonts, err := d.ctx.DereferenceDict(o); err == nil && fonts != nil {
						st.fonts = fonts
					}
				}
			}
			d.mangleContent(st, sd.Content)
			*st = saved

			if err := d.writeStream(objNr, genNr, sd); err != nil {
				d.warnf(st.page, objNr, "form stream not stored: %v", err)
			}
			d.reportObject(objNr, "form")
		}
	}

	d.mangleReferences(st, sd.Dict)
}

// mangleAnnotations rewrites the text carried by a page's annotations.
// Link annotations get their /A action's /URI replaced; every other
// subtype gets its text entries replaced.
func (d *Document) mangleAnnotations(o types.Object) {
	annots, err := d.ctx.DereferenceArray(o)
	if err != nil || annots == nil {
		return
	}
	for _, el := range annots {
		annot, err := d.ctx.DereferenceDict(el)
		if err != nil || annot == nil {
			continue
		}
		if d.nameEntry(annot, "Subtype") == "Link" {
			if a, found := annot.Find("A"); found {
				action, err := d.ctx.DereferenceDict(a)
				if err == nil && action != nil {
					d.replaceStringEntry(action, "URI")
				}
			}
			continue
		}
		for _, key := range annotTextKeys {
			d.replaceStringEntry(annot, key)
		}
	}
}
