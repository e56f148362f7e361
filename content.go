package mangler

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"go.uber.org/zap"

	"github.com/cfcurtis/pdf-mangler/contentstream"
	"github.com/cfcurtis/pdf-mangler/font"
)

// fontContext is the substitution state of one font resource: its category
// pools and, for CID-keyed text, its code map.
type fontContext struct {
	pool *font.CategoryMap
	cm   *font.CMap
}

// latinContext serves before any Tf and for fonts that declare nothing
// about their character set.
var latinContext = &fontContext{pool: font.Latin()}

// mangleState is the mutable context threaded through content mangling.
// One instance lives per document run; its fields track the page being
// worked on and the graphics state the dispatched operators imply.
type mangleState struct {
	page  int
	pageW float64
	pageH float64
	font  *fontContext
	fonts types.Dict // active scope's /Font resources, may be nil

	cur     point
	origCur point // current point per the original operands, for clip rollback
	inBlock bool
}

// mangleContent dispatches the tokens of one decoded content stream and
// rewrites it in place. The stream's length never changes: only operand
// payload bytes are overwritten.
func (d *Document) mangleContent(st *mangleState, data []byte) {
	var pristine []byte
	if d.cfg.Mangle.Paths && d.cfg.Clipping.Policy == ClipRestore {
		pristine = append([]byte(nil), data...)
	}

	lex := contentstream.NewLexer(data)
	off := 0
	pathStart := -1

	for {
		tok, ok := lex.Next()
		if !ok {
			return
		}
		opsEnd := off + len(tok.Operands)
		class := contentstream.Classify(tok.Operator)

		switch {
		case st.inBlock:
			// Between BI and EI everything passes through untouched.
			if class == contentstream.ClassBlockEnd {
				st.inBlock = false
			}
		case class == contentstream.ClassFontChange:
			d.changeFont(st, tok)
		case class == contentstream.ClassTextShow:
			if d.cfg.Mangle.Text {
				d.mangleText(st, tok)
			}
		case class == contentstream.ClassPathConstruction:
			if contentstream.IsPathStart(tok.Operator) {
				pathStart = off
			}
			if d.cfg.Mangle.Paths {
				d.manglePath(st, tok)
			}
		case class == contentstream.ClassClipping:
			// A perturbed clipping path would hide content instead of
			// smudging it: put the original path bytes back.
			if pristine != nil && pathStart >= 0 {
				copy(data[pathStart:opsEnd], pristine[pathStart:opsEnd])
				st.cur = st.origCur
			}
		case class == contentstream.ClassBlockBegin:
			st.inBlock = true
			d.log.Info("inline image block, content left alone", zap.Int("page", st.page))
		}

		off = opsEnd + len(tok.Operator)
	}
}

// changeFont resolves a Tf token's font resource name against the active
// scope's font dictionary and swaps the substitution pools.
func (d *Document) changeFont(st *mangleState, tok contentstream.Token) {
	name, ok := lastName(tok.Operands)
	if !ok {
		d.warnf(st.page, 0, "font change without a name operand")
		return
	}
	st.font = d.resolveFont(st, name)
}

// resolveFont returns the substitution context for a font resource name,
// building and caching it on first use. Unknown names fall back to the
// Latin baseline.
func (d *Document) resolveFont(st *mangleState, name string) *fontContext {
	if st.fonts == nil {
		d.warnf(st.page, 0, "font %s selected but no font resources in scope", name)
		return latinContext
	}
	obj, found := st.fonts.Find(name)
	if !found {
		d.warnf(st.page, 0, "font %s not found in the scope's resources", name)
		return latinContext
	}
	ref, ok := obj.(types.IndirectRef)
	if !ok {
		return d.buildFont(st, obj, name)
	}
	nr := ref.ObjectNumber.Value()
	if fc, ok := d.fontCache[nr]; ok {
		return fc
	}
	fc := d.buildFont(st, obj, name)
	d.fontCache[nr] = fc
	return fc
}

// buildFont derives a font's substitution pools from the declaration that
// best constrains them: an explicit /CharSet, then a /ToUnicode map, then
// a /FirstChar../LastChar range, then the Latin baseline. An embedded
// TrueType program further filters the pools to covered glyphs.
func (d *Document) buildFont(st *mangleState, o types.Object, name string) *fontContext {
	fd, err := d.ctx.DereferenceDict(o)
	if err != nil || fd == nil {
		d.warnf(st.page, 0, "font %s unreadable; latin baseline used", name)
		return latinContext
	}

	var desc types.Dict
	if o, found := fd.Find("FontDescriptor"); found {
		if dd, err := d.ctx.DereferenceDict(o); err == nil {
			desc = dd
		}
	}

	fc := d.poolsFor(st, fd, desc, name)

	if desc == nil {
		return fc
	}
	program, found := desc.Find("FontFile2")
	if !found {
		return fc
	}
	sd, _, err := d.ctx.DereferenceStreamDict(program)
	if err != nil || sd == nil {
		return fc
	}
	if err := sd.Decode(); err != nil {
		d.warnf(st.page, 0, "font %s: decoding embedded program: %v", name, err)
		return fc
	}
	filtered, err := fc.pool.FilterCoverage(sd.Content)
	if err != nil {
		d.warnf(st.page, 0, "font %s: %v", name, err)
		return fc
	}
	if filtered.Empty() {
		d.warnf(st.page, 0, "font %s: embedded program covers none of the pool", name)
		return fc
	}
	return &fontContext{pool: filtered, cm: fc.cm}
}

// poolsFor picks the declaration to build pools from, in priority order.
func (d *Document) poolsFor(st *mangleState, fd, desc types.Dict, name string) *fontContext {
	if desc != nil {
		if cs, ok := d.charSetOf(desc); ok {
			pool, warnings := font.MapCharSet(cs)
			for _, w := range warnings {
				d.warnf(st.page, 0, "font %s: %s", name, w)
			}
			return &fontContext{pool: pool}
		}
	}

	if o, found := fd.Find("ToUnicode"); found {
		return d.uniMapFont(st, o, name)
	}

	if first, ok := d.intEntry(fd, "FirstChar"); ok {
		if last, ok := d.intEntry(fd, "LastChar"); ok {
			return &fontContext{pool: font.MapNumericRange(first, last)}
		}
	}

	return latinContext
}

// uniMapFont parses a /ToUnicode stream into a code map. A failed parse
// falls back to the Latin baseline so the text mangler still has pools,
// just without code fidelity.
func (d *Document) uniMapFont(st *mangleState, o types.Object, name string) *fontContext {
	sd, _, err := d.ctx.DereferenceStreamDict(o)
	if err != nil || sd == nil {
		d.warnf(st.page, 0, "font %s: unicode map unreadable", name)
		return latinContext
	}
	if err := sd.Decode(); err != nil {
		d.warnf(st.page, 0, "font %s: decoding unicode map: %v", name, err)
		return latinContext
	}
	cm, err := font.ParseCMap(sd.Content)
	if err != nil {
		d.warnf(st.page, 0, "font %s: %v; latin baseline used", name, err)
		return latinContext
	}
	return &fontContext{pool: font.Categorize(cm.Glyphs()), cm: cm}
}

// charSetOf extracts a /CharSet declaration, which may be written as a
// literal or hex string.
func (d *Document) charSetOf(desc types.Dict) (string, bool) {
	o, found := desc.Find("CharSet")
	if !found {
		return "", false
	}
	o, err := d.ctx.Dereference(o)
	if err != nil {
		return "", false
	}
	switch v := o.(type) {
	case types.StringLiteral:
		return string(v), true
	case types.HexLiteral:
		b, err := v.Bytes()
		if err != nil {
			return "", false
		}
		return string(b), true
	}
	return "", false
}

// intEntry dereferences an integer dictionary entry.
func (d *Document) intEntry(dict types.Dict, key string) (int, bool) {
	o, found := dict.Find(key)
	if !found {
		return 0, false
	}
	o, err := d.ctx.Dereference(o)
	if err != nil {
		return 0, false
	}
	i, ok := o.(types.Integer)
	if !ok {
		return 0, false
	}
	return i.Value(), true
}

// lastName extracts the name operand nearest the operator from a token's
// operand bytes, decoding #-escapes the way the object parser does.
func lastName(operands []byte) (string, bool) {
	i := bytes.LastIndexByte(operands, '/')
	if i < 0 {
		return "", false
	}
	j := i + 1
	for j < len(operands) && !isPDFWhitespace(operands[j]) && !isPDFDelimiter(operands[j]) {
		j++
	}
	name := string(operands[i+1 : j])
	if strings.Contains(name, "#") {
		name = decodeNameEscapes(name)
	}
	return name, name != ""
}

// decodeNameEscapes resolves #xx sequences in a PDF name.
func decodeNameEscapes(name string) string {
	var sb strings.Builder
	for i := 0; i < len(name); i++ {
		if name[i] == '#' && i+2 < len(name) {
			if v, err := strconv.ParseUint(name[i+1:i+3], 16, 8); err == nil {
				sb.WriteByte(byte(v))
				i += 2
				continue
			}
		}
		sb.WriteByte(name[i])
	}
	return sb.String()
}

// isPDFDelimiter reports PDF structural delimiters.
func isPDFDelimiter(b byte) bool {
	return b == '(' || b == ')' || b == '<' || b == '>' || b == '[' || b == ']' ||
		b == '{' || b == '}' || b == '/' || b == '%'
}
