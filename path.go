package mangler

import (
	"math"
	"strconv"

	"github.com/cfcurtis/pdf-mangler/contentstream"
)

// point is a coordinate pair in user space.
type point struct {
	x, y float64
}

// operand counts per path-construction operator. Tokens with a different
// numeral count are malformed and pass through with a warning.
var pathOperands = map[string]int{
	"m":  2,
	"l":  2,
	"c":  6,
	"v":  4,
	"y":  4,
	"re": 4,
}

// manglePath perturbs the endpoint operands of one path-construction token
// in place, preserving every operand's byte width. Control points of Bezier
// segments stay put so curve character survives; segments classified as
// background (page borders, full-page rules) are not touched at all. The
// state's current point tracks both the rewritten and the original
// coordinates, the latter for clipping-path rollback.
func (d *Document) manglePath(st *mangleState, tok contentstream.Token) {
	want := pathOperands[tok.Operator]
	if len(tok.Numerals) != want {
		d.warnf(st.page, 0, "path operator %s with %d numerals, want %d; kept",
			tok.Operator, len(tok.Numerals), want)
		return
	}

	if tok.Operator == "re" {
		d.mangleRect(st, tok)
		return
	}

	// Endpoint operand ids: m and l take the point itself, c carries two
	// control points first, v and y one.
	xi := want - 2
	yi := want - 1
	x, y := tok.Numerals[xi], tok.Numerals[yi]

	if tok.Operator == "m" {
		nx, ny := x.Value, y.Value
		if d.cfg.Path.TweakStart {
			nx = d.rewriteNumeral(st, tok, x, d.cfg.Path.MinTweak)
			ny = d.rewriteNumeral(st, tok, y, d.cfg.Path.MinTweak)
		}
		st.cur = point{nx, ny}
		st.origCur = point{x.Value, y.Value}
		return
	}

	dx := math.Abs(x.Value - st.cur.x)
	dy := math.Abs(y.Value - st.cur.y)
	if d.backgroundSegment(st, dx, dy) {
		st.cur = point{x.Value, y.Value}
		st.origCur = st.cur
		return
	}

	maxTweak := math.Max(d.cfg.Path.MinTweak, math.Hypot(dx, dy)*d.cfg.Path.PercentTweak)
	nx := d.rewriteNumeral(st, tok, x, maxTweak)
	ny := d.rewriteNumeral(st, tok, y, maxTweak)
	st.cur = point{nx, ny}
	st.origCur = point{x.Value, y.Value}
}

// mangleRect handles re. A rectangle spanning most of the page on either
// axis is a border or background fill and is emitted byte-for-byte. re
// leaves the current point alone.
func (d *Document) mangleRect(st *mangleState, tok contentstream.Token) {
	w := tok.Numerals[2].Value
	h := tok.Numerals[3].Value
	if math.Abs(w) >= st.pageW*d.cfg.Path.PercentPageKeep ||
		math.Abs(h) >= st.pageH*d.cfg.Path.PercentPageKeep {
		return
	}
	maxTweak := math.Max(d.cfg.Path.MinTweak, math.Hypot(w, h)*d.cfg.Path.PercentTweak)
	for _, f := range tok.Numerals {
		d.rewriteNumeral(st, tok, f, maxTweak)
	}
}

// backgroundSegment classifies a segment displacement as page furniture:
// a run along one page edge (long on one axis, flat on the other) or a
// span covering most of the page on both axes.
func (d *Document) backgroundSegment(st *mangleState, dx, dy float64) bool {
	keepW := st.pageW * d.cfg.Path.PercentPageKeep
	keepH := st.pageH * d.cfg.Path.PercentPageKeep
	switch {
	case dx >= keepW && dy <= d.cfg.Path.MinTweak:
		return true
	case dy >= keepH && dx <= d.cfg.Path.MinTweak:
		return true
	case dx >= keepW && dy >= keepH:
		return true
	}
	return false
}

// rewriteNumeral perturbs one numeral field in place and returns the value
// now encoded in the stream. A field too narrow for any perturbed rendering
// keeps its original bytes and value.
func (d *Document) rewriteNumeral(st *mangleState, tok contentstream.Token, f contentstream.NumeralField, maxTweak float64) float64 {
	out, ok := tweakNum(d.rng, f.Value, maxTweak, f.Width())
	if !ok {
		d.warnf(st.page, 0, "numeral %v kept: no %d-byte rendering", f.Value, f.Width())
		return f.Value
	}
	copy(tok.Operands[f.Start:f.End], out)
	v, err := strconv.ParseFloat(string(out), 64)
	if err != nil {
		return f.Value
	}
	return v
}
