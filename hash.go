package mangler

import (
	"crypto/md5"
	"encoding/hex"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// computeHashName derives the output filename from the document's trailer
// ID, so repeated runs over the same source give the same name no matter
// what the mangling randomness does. Files without an ID hash their raw
// page content streams instead. Must run before any mutation.
func (d *Document) computeHashName() string {
	sum, ok := d.idHash()
	if !ok {
		sum = d.contentHash()
	}
	return hex.EncodeToString(sum) + ".pdf"
}

// idHash hashes the first element of the trailer /ID pair.
func (d *Document) idHash() ([]byte, bool) {
	if len(d.ctx.ID) == 0 {
		return nil, false
	}
	var b []byte
	switch v := d.ctx.ID[0].(type) {
	case types.HexLiteral:
		bb, err := v.Bytes()
		if err != nil {
			return nil, false
		}
		b = bb
	case types.StringLiteral:
		bb, err := types.Unescape(string(v))
		if err != nil {
			return nil, false
		}
		b = bb
	default:
		return nil, false
	}
	sum := md5.Sum(b)
	return sum[:], true
}

// contentHash concatenates the raw, still-encoded bytes of every page's
// content streams in page order and hashes those. This skips metadata, so
// two copies of a file differing only in info entries still collide, which
// is the point: the name identifies the visual document.
func (d *Document) contentHash() []byte {
	h := md5.New()
	for pageNr := 1; pageNr <= d.ctx.PageCount; pageNr++ {
		pageDict, _, _, err := d.ctx.PageDict(pageNr, false)
		if err != nil || pageDict == nil {
			continue
		}
		for _, ps := range d.contentStreams(pageDict) {
			h.Write(ps.sd.Raw)
		}
	}
	return h.Sum(nil)
}
