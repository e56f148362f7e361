package mangler

import (
	"unicode/utf16"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// mangleRoot rewrites identifying strings hanging off the document
// catalog: optional-content group names and outline titles.
func (d *Document) mangleRoot() {
	root := d.ctx.RootDict
	if root == nil {
		return
	}
	if o, found := root.Find("OCProperties"); found {
		ocp, err := d.ctx.DereferenceDict(o)
		if err == nil && ocp != nil {
			d.mangleOCGs(ocp)
		}
	}
	if o, found := root.Find("Outlines"); found {
		d.mangleOutlines(o)
	}
}

// mangleOCGs replaces layer names in /OCGs and the display labels nested
// in the default configuration's /Order array.
func (d *Document) mangleOCGs(ocp types.Dict) {
	if !d.cfg.Mangle.OCGNames {
		return
	}

	if o, found := ocp.Find("OCGs"); found {
		arr, err := d.ctx.DereferenceArray(o)
		if err == nil {
			for _, el := range arr {
				ocg, err := d.ctx.DereferenceDict(el)
				if err != nil || ocg == nil {
					continue
				}
				d.replaceStringEntry(ocg, "Name")
			}
		}
	}

	o, found := ocp.Find("D")
	if !found {
		return
	}
	cfg, err := d.ctx.DereferenceDict(o)
	if err != nil || cfg == nil {
		return
	}
	if order, found := cfg.Find("Order"); found {
		d.mangleOCGOrder(order, map[int]bool{})
	}
}

// mangleOCGOrder walks an /Order array. Strings at any nesting level are
// group labels and get replaced; group dictionary references are left to
// the /OCGs pass. The visited set breaks reference cycles.
func (d *Document) mangleOCGOrder(o types.Object, visited map[int]bool) {
	if ref, ok := o.(types.IndirectRef); ok {
		nr := ref.ObjectNumber.Value()
		if visited[nr] {
			return
		}
		visited[nr] = true
	}
	arr, err := d.ctx.DereferenceArray(o)
	if err != nil || arr == nil {
		return
	}
	for i, el := range arr {
		switch v := el.(type) {
		case types.Array:
			d.mangleOCGOrder(v, visited)
		case types.IndirectRef:
			res, err := d.ctx.Dereference(v)
			if err != nil {
				continue
			}
			if _, ok := res.(types.Array); ok {
				d.mangleOCGOrder(v, visited)
				continue
			}
			if repl, ok := d.mangleStringObject(res); ok {
				arr[i] = repl
			}
		default:
			if repl, ok := d.mangleStringObject(el); ok {
				arr[i] = repl
			}
		}
	}
}

// mangleOutlines replaces every bookmark title reachable from the
// outline root.
func (d *Document) mangleOutlines(o types.Object) {
	if !d.cfg.Mangle.Outlines {
		return
	}
	d.walkOutline(o, map[int]bool{})
}

// walkOutline follows /Next chains iteratively and /First chains
// recursively. Malformed outlines can loop, so visited references stop
// the walk.
func (d *Document) walkOutline(o types.Object, visited map[int]bool) {
	for o != nil {
		if ref, ok := o.(types.IndirectRef); ok {
			nr := ref.ObjectNumber.Value()
			if visited[nr] {
				return
			}
			visited[nr] = true
		}
		node, err := d.ctx.DereferenceDict(o)
		if err != nil || node == nil {
			return
		}
		d.replaceStringEntry(node, "Title")
		if first, found := node.Find("First"); found {
			d.walkOutline(first, visited)
		}
		next, found := node.Find("Next")
		if !found {
			return
		}
		o = next
	}
}

// replaceStringEntry replaces dict[key] with a mangled copy when the
// entry resolves to a string. Non-string entries (names, arrays,
// destinations) are left alone.
func (d *Document) replaceStringEntry(dict types.Dict, key string) {
	o, found := dict.Find(key)
	if !found {
		return
	}
	res, err := d.ctx.Dereference(o)
	if err != nil {
		return
	}
	if repl, ok := d.mangleStringObject(res); ok {
		dict[key] = repl
	}
}

// mangleStringObject builds a replacement for a PDF string object using
// the baseline Latin pool. The second return is false when the object is
// not a string.
func (d *Document) mangleStringObject(o types.Object) (types.Object, bool) {
	var s string
	switch v := o.(type) {
	case types.StringLiteral:
		dec, err := types.StringLiteralToString(v)
		if err != nil {
			return nil, false
		}
		s = dec
	case types.HexLiteral:
		dec, err := types.HexLiteralToString(v)
		if err != nil {
			return nil, false
		}
		s = dec
	default:
		return nil, false
	}
	return encodeString(latinContext.pool.ReplaceString(s, d.rng)), true
}

// encodeString renders a Go string as a PDF string object: printable
// ASCII becomes an escaped literal, anything else UTF-16BE hex with a
// byte order mark.
func encodeString(s string) types.Object {
	ascii := true
	for _, r := range s {
		if r < 0x20 || r > 0x7e {
			ascii = false
			break
		}
	}
	if ascii {
		if esc, err := types.Escape(s); err == nil {
			return types.StringLiteral(*esc)
		}
	}
	units := utf16.Encode([]rune(s))
	b := make([]byte, 0, 2+2*len(units))
	b = append(b, 0xfe, 0xff)
	for _, u := range units {
		b = append(b, byte(u>>8), byte(u))
	}
	return types.NewHexLiteral(b)
}
