package mangler

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// stripMetadata removes identifying metadata from the document info
// dictionary and the XMP packet. Fields whose names contain a keep-list
// entry survive; those carry technical provenance (producer, PDF version)
// rather than identity.
func (d *Document) stripMetadata() {
	if !d.cfg.Mangle.Metadata {
		return
	}
	d.stripDocInfo()
	d.stripXMP()
}

func (d *Document) stripDocInfo() {
	if d.ctx.Info == nil {
		return
	}
	info, err := d.ctx.DereferenceDict(*d.ctx.Info)
	if err != nil || info == nil {
		return
	}
	var drop []string
	for key := range info {
		if !matchesKeep(key, d.cfg.Metadata.Keep) {
			drop = append(drop, key)
		}
	}
	for _, key := range drop {
		delete(info, key)
	}
}

// stripXMP rewrites the catalog's /Metadata stream, dropping every
// property not on the keep list. A packet that cannot be parsed is
// deleted outright rather than left intact.
func (d *Document) stripXMP() {
	o, found := d.ctx.RootDict.Find("Metadata")
	if !found {
		return
	}
	ref, ok := o.(types.IndirectRef)
	if !ok {
		delete(d.ctx.RootDict, "Metadata")
		return
	}
	sd, _, err := d.ctx.DereferenceStreamDict(o)
	if err != nil || sd == nil {
		delete(d.ctx.RootDict, "Metadata")
		d.warnf(0, ref.ObjectNumber.Value(), "metadata stream unreadable; deleted: %v", err)
		return
	}
	if err := sd.Decode(); err != nil {
		delete(d.ctx.RootDict, "Metadata")
		d.warnf(0, ref.ObjectNumber.Value(), "metadata stream undecodable; deleted: %v", err)
		return
	}

	filtered, err := filterXMP(sd.Content, d.cfg.Metadata.Keep)
	if err != nil {
		delete(d.ctx.RootDict, "Metadata")
		d.warnf(0, ref.ObjectNumber.Value(), "metadata packet unparsable; deleted: %v", err)
		return
	}
	sd.Content = filtered
	if err := d.writeStream(ref.ObjectNumber.Value(), ref.GenerationNumber.Value(), sd); err != nil {
		d.warnf(0, ref.ObjectNumber.Value(), "metadata stream not stored: %v", err)
	}
}

// filterXMP re-serializes an XMP packet keeping only matching properties.
// Properties are the direct children of an rdf:Description element, or its
// attributes in the attribute serialization; everything else (packet
// wrapper, rdf scaffolding, kept property subtrees) passes through
// unchanged.
func filterXMP(data []byte, keep []string) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var out bytes.Buffer

	depth := 0
	descDepth := -1 // depth of the open rdf:Description, -1 outside
	skip := 0       // nesting count inside a dropped property

	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if skip > 0 {
				skip++
				continue
			}
			name := rawName(t.Name)
			if descDepth >= 0 && depth == descDepth+1 && !matchesKeep(name, keep) {
				skip = 1
				continue
			}
			isDesc := descDepth < 0 && name == "rdf:Description"
			if isDesc {
				descDepth = depth
			}
			writeStart(&out, t, isDesc, keep)

		case xml.EndElement:
			if skip > 0 {
				skip--
				depth--
				continue
			}
			if depth == descDepth {
				descDepth = -1
			}
			fmt.Fprintf(&out, "</%s>", rawName(t.Name))
			depth--

		case xml.CharData:
			if skip > 0 {
				continue
			}
			escapeCharData(&out, t)

		case xml.Comment:
			if skip > 0 {
				continue
			}
			fmt.Fprintf(&out, "<!--%s-->", string(t))

		case xml.ProcInst:
			if skip > 0 {
				continue
			}
			fmt.Fprintf(&out, "<?%s %s?>", t.Target, string(t.Inst))

		case xml.Directive:
			if skip > 0 {
				continue
			}
			fmt.Fprintf(&out, "<!%s>", string(t))
		}
	}
	return out.Bytes(), nil
}

// writeStart serializes a start tag. On rdf:Description the property
// attributes themselves are filtered; namespace and rdf bookkeeping
// attributes always stay.
func writeStart(out *bytes.Buffer, el xml.StartElement, filterAttrs bool, keep []string) {
	out.WriteByte('<')
	out.WriteString(rawName(el.Name))
	for _, a := range el.Attr {
		name := rawName(a.Name)
		if filterAttrs && !keepAttr(name, keep) {
			continue
		}
		out.WriteByte(' ')
		out.WriteString(name)
		out.WriteString(`="`)
		xml.EscapeText(out, []byte(a.Value))
		out.WriteByte('"')
	}
	out.WriteByte('>')
}

// escapeCharData escapes only markup bytes. xml.EscapeText would also
// turn the packet's indentation newlines into character references.
func escapeCharData(out *bytes.Buffer, s []byte) {
	for _, b := range s {
		switch b {
		case '&':
			out.WriteString("&amp;")
		case '<':
			out.WriteString("&lt;")
		case '>':
			out.WriteString("&gt;")
		default:
			out.WriteByte(b)
		}
	}
}

func keepAttr(name string, keep []string) bool {
	if strings.HasPrefix(name, "xmlns") ||
		strings.HasPrefix(name, "rdf:") ||
		strings.HasPrefix(name, "xml:") {
		return true
	}
	return matchesKeep(name, keep)
}

// rawName rebuilds the prefixed form RawToken split apart.
func rawName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// matchesKeep reports whether any keep entry occurs in name.
func matchesKeep(name string, keep []string) bool {
	for _, field := range keep {
		if strings.Contains(name, field) {
			return true
		}
	}
	return false
}
