package mangler

import (
	"fmt"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"go.uber.org/zap"

	"github.com/cfcurtis/pdf-mangler/internal/imaging"
)

// mangleObjects sweeps the cross-reference table for objects that are
// dangerous wherever they appear: image streams and JavaScript actions.
// Objects are visited in ascending number order so random draws repeat
// across runs with the same seed.
func (d *Document) mangleObjects() {
	if !d.cfg.Mangle.Images && !d.cfg.Mangle.JavaScript {
		return
	}
	masks := d.collectSoftMasks()
	for _, objNr := range d.tableObjects() {
		entry := d.ctx.Table[objNr]
		switch o := entry.Object.(type) {
		case types.Dict:
			d.replaceJavaScript(objNr, o)
		case types.StreamDict:
			d.replaceImage(objNr, entry, o, masks[objNr])
		}
	}
}

// tableObjects returns the numbers of all in-use objects, sorted.
func (d *Document) tableObjects() []int {
	nrs := make([]int, 0, len(d.ctx.Table))
	for nr, entry := range d.ctx.Table {
		if entry == nil || entry.Free || entry.Object == nil {
			continue
		}
		nrs = append(nrs, nr)
	}
	sort.Ints(nrs)
	return nrs
}

// collectSoftMasks finds objects referenced as /SMask by image streams.
// Those are alpha channels and get an opaque placeholder instead of a
// random grey, so the replaced image stays visible.
func (d *Document) collectSoftMasks() map[int]bool {
	masks := make(map[int]bool)
	for _, objNr := range d.tableObjects() {
		sd, ok := d.ctx.Table[objNr].Object.(types.StreamDict)
		if !ok || d.nameEntry(sd.Dict, "Subtype") != "Image" {
			continue
		}
		o, found := sd.Dict.Find("SMask")
		if !found {
			continue
		}
		if ref, ok := o.(types.IndirectRef); ok {
			masks[ref.ObjectNumber.Value()] = true
		}
	}
	return masks
}

// replaceJavaScript swaps the script under a /JS key for an alert stub
// naming the object it replaced, preserving the string or stream form.
func (d *Document) replaceJavaScript(objNr int, action types.Dict) {
	if !d.cfg.Mangle.JavaScript {
		return
	}
	o, found := action.Find("JS")
	if !found {
		return
	}
	stub := fmt.Sprintf("app.alert(\"Javascript detected in object %d R\");", objNr)

	switch v := o.(type) {
	case types.StringLiteral, types.HexLiteral:
		action["JS"] = mustLiteral(stub)

	case types.IndirectRef:
		res, err := d.ctx.Dereference(v)
		if err != nil {
			d.warnf(0, objNr, "javascript entry unreadable: %v", err)
			return
		}
		switch r := res.(type) {
		case types.StringLiteral, types.HexLiteral:
			action["JS"] = mustLiteral(stub)
		case types.StreamDict:
			delete(r.Dict, "Filter")
			delete(r.Dict, "DecodeParms")
			r.FilterPipeline = nil
			err := d.storeRaw(v.ObjectNumber.Value(), v.GenerationNumber.Value(), &r, []byte(stub))
			if err != nil {
				d.warnf(0, objNr, "javascript stream not stored: %v", err)
				return
			}
		default:
			return
		}
	default:
		return
	}

	d.log.Info("javascript replaced", zap.Int("object", objNr))
	d.reportObject(objNr, "javascript")
}

// mustLiteral escapes s as a PDF string literal. Only called with
// printable ASCII, where escaping cannot fail.
func mustLiteral(s string) types.StringLiteral {
	esc, err := types.Escape(s)
	if err != nil {
		return types.StringLiteral(s)
	}
	return types.StringLiteral(*esc)
}

// replaceImage overwrites an image stream with a flat grey placeholder of
// the declared dimensions. DCT-coded originals stay JPEG so viewers keep
// treating them as such; everything else becomes Flate. The /SMask
// reference survives because the mask object is itself replaced, opaque.
func (d *Document) replaceImage(objNr int, entry *model.XRefTableEntry, sd types.StreamDict, isMask bool) {
	if !d.cfg.Mangle.Images {
		return
	}
	if d.nameEntry(sd.Dict, "Subtype") != "Image" {
		return
	}

	w, okW := d.intEntry(sd.Dict, "Width")
	h, okH := d.intEntry(sd.Dict, "Height")
	if !okW || !okH {
		d.warnf(0, objNr, "image missing dimensions; left alone")
		return
	}

	if f := lastFilter(&sd); f != nil && f.Name == "CCITTFaxDecode" && len(sd.FilterPipeline) == 1 {
		if err := d.probeFax(f, sd.Raw, h); err != nil {
			d.warnf(0, objNr, "fax image dimensions unverified: %v", err)
		}
	}

	value := byte(100 + d.rng.Intn(101))
	if isMask {
		value = 255
	}
	pixels, err := imaging.Placeholder(w, h, value)
	if err != nil {
		d.warnf(0, objNr, "image not replaced: %v", err)
		return
	}

	var raw []byte
	var filter string
	if f := lastFilter(&sd); f != nil && f.Name == "DCTDecode" {
		raw, err = imaging.EncodeJPEG(pixels, w, h)
		filter = "DCTDecode"
	} else {
		raw, err = imaging.EncodeFlate(pixels)
		filter = "FlateDecode"
	}
	if err != nil {
		d.warnf(0, objNr, "placeholder stored uncompressed: %v", err)
		raw = pixels
		filter = ""
	}

	sd.Dict["BitsPerComponent"] = types.Integer(8)
	sd.Dict["ColorSpace"] = types.Name("DeviceGray")
	delete(sd.Dict, "DecodeParms")
	delete(sd.Dict, "Decode")
	delete(sd.Dict, "ImageMask")
	delete(sd.Dict, "Mask")
	if filter == "" {
		delete(sd.Dict, "Filter")
		sd.FilterPipeline = nil
	} else {
		sd.Dict["Filter"] = types.Name(filter)
		sd.FilterPipeline = []types.PDFFilter{{Name: filter}}
	}

	sd.Raw = raw
	sd.Content = nil
	l := int64(len(raw))
	sd.StreamLength = &l
	sd.Dict["Length"] = types.Integer(l)
	entry.Object = sd

	d.reportObject(objNr, "image")
}

// probeFax decodes CCITT data against its declared geometry. Failure is
// advisory: the placeholder uses /Width and /Height regardless.
func (d *Document) probeFax(f *types.PDFFilter, raw []byte, height int) error {
	k := 0
	cols := 0
	rows := height
	black := false
	if f.DecodeParms != nil {
		if v, ok := d.intEntry(f.DecodeParms, "K"); ok {
			k = v
		}
		if v, ok := d.intEntry(f.DecodeParms, "Columns"); ok {
			cols = v
		}
		if v, ok := d.intEntry(f.DecodeParms, "Rows"); ok {
			rows = v
		}
		if v, ok := d.boolEntry(f.DecodeParms, "BlackIs1"); ok {
			black = v
		}
	}
	return imaging.ProbeCCITT(raw, cols, rows, k, black)
}

// lastFilter returns the filter adjacent to the decoded data, which names
// the image codec.
func lastFilter(sd *types.StreamDict) *types.PDFFilter {
	if len(sd.FilterPipeline) == 0 {
		return nil
	}
	return &sd.FilterPipeline[len(sd.FilterPipeline)-1]
}

// storeRaw stores pre-encoded bytes as a stream's raw content and fixes
// its length bookkeeping.
func (d *Document) storeRaw(objNr, genNr int, sd *types.StreamDict, raw []byte) error {
	sd.Raw = raw
	sd.Content = nil
	l := int64(len(raw))
	sd.StreamLength = &l
	sd.Dict["Length"] = types.Integer(l)

	entry, ok := d.ctx.FindTableEntry(objNr, genNr)
	if !ok {
		return fmt.Errorf("object %d %d not in the cross-reference table", objNr, genNr)
	}
	entry.Object = *sd
	return nil
}

// boolEntry dereferences a boolean entry.
func (d *Document) boolEntry(dict types.Dict, key string) (bool, bool) {
	o, found := dict.Find(key)
	if !found {
		return false, false
	}
	res, err := d.ctx.Dereference(o)
	if err != nil {
		return false, false
	}
	b, ok := res.(types.Boolean)
	if !ok {
		return false, false
	}
	return bool(b), true
}
