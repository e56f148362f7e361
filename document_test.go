package mangler

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/dop251/goja"
	"github.com/jung-kurt/gofpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"go.uber.org/zap"
)

var outputNameRE = regexp.MustCompile(`^[0-9a-f]{32}\.pdf$`)

// fixtureJPEG encodes a small two-tone image for embedding.
func fixtureJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			c := color.RGBA{R: 200, G: 30, B: 30, A: 255}
			if (x+y)%2 == 0 {
				c = color.RGBA{R: 30, G: 30, B: 200, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encoding fixture image: %v", err)
	}
	return buf.Bytes()
}

// buildFixture assembles a one-page document with every kind of content
// the pipeline touches: info entries, an outline, text, a small path, a
// page border, an image, and a script.
func buildFixture(t *testing.T) []byte {
	t.Helper()
	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetTitle("Quarterly Numbers", false)
	pdf.SetAuthor("Jane Q. Author", false)
	pdf.SetCreationDate(time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC))
	pdf.SetJavascript("this.print();")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(200, 14, "Hello, World 42!")
	pdf.Bookmark("Contents", 0, 0)
	pdf.Line(100, 100, 150, 160)
	pdf.Rect(0, 0, 612, 792, "D")
	opt := gofpdf.ImageOptions{ImageType: "JPG"}
	pdf.RegisterImageOptionsReader("swatch", opt, bytes.NewReader(fixtureJPEG(t)))
	pdf.ImageOptions("swatch", 200, 300, 64, 64, false, opt, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("building fixture: %v", err)
	}
	return buf.Bytes()
}

func fixtureFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.pdf")
	if err := os.WriteFile(path, buildFixture(t), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

// pageContent reads a file fresh and returns page 1's decoded content.
func pageContent(t *testing.T, path string) []byte {
	t.Helper()
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	d := &Document{ctx: ctx, cfg: *DefaultConfig(), log: zap.NewNop()}
	pageDict, _, _, err := ctx.PageDict(1, false)
	if err != nil || pageDict == nil {
		t.Fatalf("page dict of %s: %v", path, err)
	}
	var out []byte
	for _, ps := range d.contentStreams(pageDict) {
		if err := ps.sd.Decode(); err != nil {
			t.Fatalf("decoding content of %s: %v", path, err)
		}
		out = append(out, ps.sd.Content...)
	}
	return out
}

func findImage(t *testing.T, ctx *model.Context) types.StreamDict {
	t.Helper()
	for _, entry := range ctx.Table {
		if entry == nil || entry.Free || entry.Object == nil {
			continue
		}
		sd, ok := entry.Object.(types.StreamDict)
		if !ok {
			continue
		}
		if n, ok := sd.Dict["Subtype"].(types.Name); ok && n.Value() == "Image" {
			return sd
		}
	}
	t.Fatal("no image XObject in document")
	return types.StreamDict{}
}

func findScript(t *testing.T, ctx *model.Context) string {
	t.Helper()
	for _, entry := range ctx.Table {
		if entry == nil || entry.Free || entry.Object == nil {
			continue
		}
		d, ok := entry.Object.(types.Dict)
		if !ok {
			continue
		}
		o, found := d.Find("JS")
		if !found {
			continue
		}
		lit, ok := o.(types.StringLiteral)
		if !ok {
			t.Fatalf("script is %T, want a string literal", o)
		}
		s, err := types.StringLiteralToString(lit)
		if err != nil {
			t.Fatalf("decoding script literal: %v", err)
		}
		return s
	}
	t.Fatal("no JavaScript action in document")
	return ""
}

func TestMangleToFileEndToEnd(t *testing.T) {
	in := fixtureFile(t)
	outDir := t.TempDir()

	var pages []int
	var kinds []string
	out, _, err := Open(in).
		WithSeed(1).
		OnPage(func(page, total int) { pages = append(pages, page) }).
		OnObject(func(objNr int, kind string) { kinds = append(kinds, kind) }).
		MangleToFile(context.Background(), outDir)
	if err != nil {
		t.Fatalf("MangleToFile: %v", err)
	}

	name := filepath.Base(out)
	if !outputNameRE.MatchString(name) {
		t.Errorf("output name %q, want 32 hex digits + .pdf", name)
	}
	if want := Must(Open(in).OutputName()); name != want {
		t.Errorf("saved as %q but OutputName says %q", name, want)
	}
	if len(pages) != 1 || pages[0] != 1 {
		t.Errorf("page callback saw %v, want [1]", pages)
	}
	joined := strings.Join(kinds, ",")
	if !strings.Contains(joined, "image") || !strings.Contains(joined, "javascript") {
		t.Errorf("object callback saw %v", kinds)
	}

	// Content is rewritten strictly in place.
	pre := pageContent(t, in)
	post := pageContent(t, out)
	if len(pre) != len(post) {
		t.Fatalf("content stream grew from %d to %d bytes", len(pre), len(post))
	}
	if len(structure(pre)) != len(structure(post)) {
		t.Errorf("token count changed")
	}
	if bytes.Equal(pre, post) {
		t.Errorf("content unchanged")
	}

	ctx, err := api.ReadContextFile(out)
	if err != nil {
		t.Fatalf("mangled output does not read back: %v", err)
	}

	if ctx.Info != nil {
		info, err := ctx.DereferenceDict(*ctx.Info)
		if err == nil && info != nil {
			for _, key := range []string{"Title", "Author"} {
				if _, found := info.Find(key); found {
					t.Errorf("info entry %s survived", key)
				}
			}
		}
	}

	img := findImage(t, ctx)
	if n, ok := img.Dict["ColorSpace"].(types.Name); !ok || n.Value() != "DeviceGray" {
		t.Errorf("image colorspace = %v, want DeviceGray", img.Dict["ColorSpace"])
	}
	if i, ok := img.Dict["BitsPerComponent"].(types.Integer); !ok || i.Value() != 8 {
		t.Errorf("image bits = %v, want 8", img.Dict["BitsPerComponent"])
	}
	if n, ok := img.Dict["Filter"].(types.Name); !ok || n.Value() != "DCTDecode" {
		t.Errorf("image filter = %v, want DCTDecode", img.Dict["Filter"])
	}

	script := findScript(t, ctx)
	if !regexp.MustCompile(`^app\.alert\("Javascript detected in object \d+ R"\);$`).MatchString(script) {
		t.Errorf("script stub = %q", script)
	}
	vm := goja.New()
	var alerted string
	if err := vm.Set("app", map[string]any{
		"alert": func(msg string) { alerted = msg },
	}); err != nil {
		t.Fatalf("binding app object: %v", err)
	}
	if _, err := vm.RunString(script); err != nil {
		t.Fatalf("script stub does not run: %v", err)
	}
	if !strings.Contains(alerted, "Javascript detected") {
		t.Errorf("stub alerted %q", alerted)
	}

	if o, found := ctx.RootDict.Find("Outlines"); found {
		outlines, err := ctx.DereferenceDict(o)
		if err != nil {
			t.Fatalf("outlines: %v", err)
		}
		first, found := outlines.Find("First")
		if !found {
			t.Fatal("outline root has no First")
		}
		item, err := ctx.DereferenceDict(first)
		if err != nil {
			t.Fatalf("outline item: %v", err)
		}
		if lit, ok := item["Title"].(types.StringLiteral); ok {
			s, err := types.StringLiteralToString(lit)
			if err != nil {
				t.Fatalf("outline title: %v", err)
			}
			if s == "Contents" {
				t.Errorf("outline title survived")
			}
			if len(s) != len("Contents") {
				t.Errorf("outline title %q changed length", s)
			}
		} else {
			t.Errorf("outline title is %T", item["Title"])
		}
	} else {
		t.Error("outline tree missing from output")
	}
}

func TestOutputNameStable(t *testing.T) {
	in := fixtureFile(t)
	first := Must(Open(in).WithSeed(3).OutputName())
	second := Must(Open(in).WithSeed(99).OutputName())
	if first != second {
		t.Errorf("names differ across seeds: %q vs %q", first, second)
	}
	if !outputNameRE.MatchString(first) {
		t.Errorf("name %q, want 32 hex digits + .pdf", first)
	}
}

func TestMangleCanceled(t *testing.T) {
	in := fixtureFile(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := Open(in)
	if _, err := d.Mangle(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Mangle with canceled context: %v", err)
	}
	if _, err := d.Save(t.TempDir()); err == nil {
		t.Fatal("Save succeeded after a canceled run")
	}
}

func TestFromContextMutatesCaller(t *testing.T) {
	in := fixtureFile(t)
	ctx, err := api.ReadContextFile(in)
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}
	if _, err := FromContext(ctx).WithSeed(5).Mangle(context.Background()); err != nil {
		t.Fatalf("Mangle: %v", err)
	}
	if ctx.Info == nil {
		return
	}
	info, err := ctx.DereferenceDict(*ctx.Info)
	if err != nil || info == nil {
		return
	}
	if _, found := info.Find("Title"); found {
		t.Error("title survived in the caller's context")
	}
}

func TestSaveWithoutMangle(t *testing.T) {
	in := fixtureFile(t)
	out, err := Open(in).Save(t.TempDir())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !outputNameRE.MatchString(filepath.Base(out)) {
		t.Errorf("output name %q", filepath.Base(out))
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("saved file missing: %v", err)
	}
}

func TestChainIsolation(t *testing.T) {
	base := Open("unused.pdf")
	custom := *DefaultConfig()
	custom.Mangle.Text = false
	derived := base.WithConfig(&custom)

	if !base.cfg.Mangle.Text {
		t.Error("chain call mutated its parent")
	}
	if derived.cfg.Mangle.Text {
		t.Error("config not applied to the derived document")
	}
}

func TestInvalidConfigSurfacesOnTerminal(t *testing.T) {
	bad := *DefaultConfig()
	bad.Clipping.Policy = "sometimes"
	_, err := Open(fixtureFile(t)).WithConfig(&bad).Mangle(context.Background())
	if err == nil || !strings.Contains(err.Error(), "clipping policy") {
		t.Fatalf("want a clipping policy error, got %v", err)
	}
}

func TestWithConfigFileMissing(t *testing.T) {
	d := Open(fixtureFile(t)).WithConfigFile(filepath.Join(t.TempDir(), "none.yaml"))
	if _, err := d.Mangle(context.Background()); err == nil {
		t.Fatal("missing config file did not surface")
	}
}

func TestImageToggleOff(t *testing.T) {
	cfg := *DefaultConfig()
	cfg.Mangle.Images = false

	in := fixtureFile(t)
	out, _, err := Open(in).WithSeed(7).WithConfig(&cfg).MangleToFile(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("MangleToFile: %v", err)
	}
	ctx, err := api.ReadContextFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	img := findImage(t, ctx)
	if n, ok := img.Dict["ColorSpace"].(types.Name); !ok || n.Value() == "DeviceGray" {
		t.Errorf("image colorspace = %v, want the original untouched", img.Dict["ColorSpace"])
	}
}
