package report

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rosterly/backend/internal/calculator"
	"github.com/rosterly/backend/internal/industry"
)

func sampleRequest(kind Kind) Request {
	cfg := industry.Default().Lookup("nursing")
	in := calculator.DefaultInputs(cfg)
	in.Employees = 50
	return Request{
		CompanyName: "Acme Health",
		ContactName: "Sam Lee",
		Email:       "sam@acme.example",
		Kind:        kind,
		Region:      "UK",
		Industry:    cfg,
		Inputs:      in,
		Results:     calculator.Calculate(in, cfg, nil),
		GeneratedAt: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	}
}

// ---------------------------------------------------------------------------
// stub renderers
// ---------------------------------------------------------------------------

type failingRenderer struct{ err error }

func (f failingRenderer) Render(io.Writer, Document) error { return f.err }
func (failingRenderer) ContentType() string                { return "application/pdf" }
func (failingRenderer) Extension() string                  { return ".pdf" }

type panickingRenderer struct{}

func (panickingRenderer) Render(io.Writer, Document) error { panic("font table corrupt") }
func (panickingRenderer) ContentType() string              { return "application/pdf" }
func (panickingRenderer) Extension() string                { return ".pdf" }

// ---------------------------------------------------------------------------
// Build
// ---------------------------------------------------------------------------

func sectionByHeading(doc Document, heading string) (Section, bool) {
	for _, s := range doc.Sections {
		if s.Heading == heading {
			return s, true
		}
	}
	return Section{}, false
}

func TestBuild_SavingsReport(t *testing.T) {
	doc := Build(sampleRequest(KindSavings))

	if doc.Title != "Rostering Savings Report" {
		t.Errorf("unexpected title %q", doc.Title)
	}
	if _, ok := sectionByHeading(doc, "Investment"); ok {
		t.Error("savings report should not include the investment section")
	}
	savings, ok := sectionByHeading(doc, "Estimated annual savings")
	if !ok {
		t.Fatal("missing savings section")
	}
	last := savings.Rows[len(savings.Rows)-1]
	if !last.Emphasised || !strings.HasPrefix(last.Value, "£") {
		t.Errorf("expected emphasised total in pounds, got %+v", last)
	}
	if !strings.Contains(doc.Footer, "14 Mar 2026") {
		t.Errorf("footer should carry the generation date, got %q", doc.Footer)
	}
}

func TestBuild_ROIReportIncludesInvestment(t *testing.T) {
	doc := Build(sampleRequest(KindROI))

	inv, ok := sectionByHeading(doc, "Investment")
	if !ok {
		t.Fatal("missing investment section")
	}
	var sawROI, sawPayback bool
	for _, r := range inv.Rows {
		if r.Label == "Return on investment" && strings.HasSuffix(r.Value, "x") {
			sawROI = true
		}
		if r.Label == "Payback period" {
			sawPayback = true
		}
	}
	if !sawROI || !sawPayback {
		t.Errorf("expected ROI and payback rows, got %+v", inv.Rows)
	}
}

func TestBuild_CharacteristicsAlwaysPresent(t *testing.T) {
	for _, kind := range []Kind{KindSavings, KindROI} {
		doc := Build(sampleRequest(kind))
		last := doc.Sections[len(doc.Sections)-1]
		if len(last.Bullets) != len(Characteristics) {
			t.Errorf("%s: expected %d bullets, got %d", kind, len(Characteristics), len(last.Bullets))
		}
	}
}

func TestBuild_OmitsDisabledCategories(t *testing.T) {
	req := sampleRequest(KindSavings)
	req.Industry.Features.HasSkillMix = false
	doc := Build(req)

	savings, _ := sectionByHeading(doc, "Estimated annual savings")
	for _, r := range savings.Rows {
		if r.Label == calculator.CategorySkillMix.Label() {
			t.Error("skill mix row should be omitted")
		}
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind(" ROI "); err != nil || k != KindROI {
		t.Errorf("expected roi, got %q, %v", k, err)
	}
	if k, err := ParseKind(""); err != nil || k != KindSavings {
		t.Errorf("expected savings default, got %q, %v", k, err)
	}
	if _, err := ParseKind("brochure"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestLookupRegion(t *testing.T) {
	if got := LookupRegion("gb").Currency; got != "£" {
		t.Errorf("expected £ for GB, got %q", got)
	}
	if got := LookupRegion("au").Currency; got != "A$" {
		t.Errorf("expected A$ for AU, got %q", got)
	}
	if got := LookupRegion("ZZ").Currency; got != "$" {
		t.Errorf("expected $ fallback, got %q", got)
	}
}

func TestFormatMoney(t *testing.T) {
	cases := map[float64]string{
		0:         "$0",
		999.49:    "$999",
		1234567.8: "$1,234,568",
		-2500:     "-$2,500",
		100000:    "$100,000",
	}
	for v, want := range cases {
		if got := formatMoney("$", v); got != want {
			t.Errorf("formatMoney(%v) = %q, want %q", v, got, want)
		}
	}
	if got := formatMoneyCents("A$", 57.5); got != "A$57.50" {
		t.Errorf("expected A$57.50, got %q", got)
	}
}

// ---------------------------------------------------------------------------
// Renderers
// ---------------------------------------------------------------------------

func TestTextRenderer(t *testing.T) {
	var buf bytes.Buffer
	if err := (TextRenderer{}).Render(&buf, Build(sampleRequest(KindROI))); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Return on Investment Report", "Acme Health", "TOTAL ANNUAL SAVINGS", "* Fair distribution"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q", want)
		}
	}
}

func TestPDFRenderer(t *testing.T) {
	var buf bytes.Buffer
	if err := (PDFRenderer{}).Render(&buf, Build(sampleRequest(KindSavings))); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("output is not a PDF: %q", buf.Bytes()[:min(buf.Len(), 16)])
	}
}

// ---------------------------------------------------------------------------
// Generator
// ---------------------------------------------------------------------------

func TestGenerate_PrimaryPath(t *testing.T) {
	a := DefaultGenerator().Generate(context.Background(), sampleRequest(KindSavings))

	if !a.OK() || a.Outcome != OutcomeRendered {
		t.Fatalf("expected rendered PDF, got outcome %s err %v", a.Outcome, a.Err)
	}
	if a.Filename != "acme-health-savings-report.pdf" {
		t.Errorf("unexpected filename %q", a.Filename)
	}
	if a.ContentType != "application/pdf" {
		t.Errorf("unexpected content type %q", a.ContentType)
	}
}

func TestGenerate_FallsBackWhenRendererFails(t *testing.T) {
	g := NewGenerator(StaticLoader(failingRenderer{err: errors.New("out of memory")}), TextRenderer{})
	a := g.Generate(context.Background(), sampleRequest(KindROI))

	if !a.OK() {
		t.Fatalf("expected success via fallback, got %v", a.Err)
	}
	if a.Outcome != OutcomeFallback {
		t.Errorf("expected fallback outcome, got %s", a.Outcome)
	}
	if a.Filename != "acme-health-roi-report.txt" {
		t.Errorf("unexpected filename %q", a.Filename)
	}
	if !strings.Contains(string(a.Data), "Return on Investment Report") {
		t.Error("fallback text should contain the report")
	}
}

func TestGenerate_FallsBackWhenRendererPanics(t *testing.T) {
	g := NewGenerator(StaticLoader(panickingRenderer{}), TextRenderer{})
	a := g.Generate(context.Background(), sampleRequest(KindSavings))

	if a.Outcome != OutcomeFallback || !a.OK() {
		t.Fatalf("expected fallback, got %s (%v)", a.Outcome, a.Err)
	}
	if a.Err == nil || !strings.Contains(a.Err.Error(), "font table corrupt") {
		t.Errorf("expected the panic recorded as the cause, got %v", a.Err)
	}
}

func TestGenerate_FallsBackWhenLoaderFails(t *testing.T) {
	loadErr := errors.New("module not installed")
	g := NewGenerator(func() (Renderer, error) { return nil, loadErr }, nil)
	a := g.Generate(context.Background(), sampleRequest(KindSavings))

	if a.Outcome != OutcomeFallback {
		t.Fatalf("expected fallback, got %s", a.Outcome)
	}
	if !errors.Is(a.Err, loadErr) {
		t.Errorf("expected loader error as cause, got %v", a.Err)
	}
}

func TestGenerate_NilLoaderUsesFallback(t *testing.T) {
	a := NewGenerator(nil, TextRenderer{}).Generate(context.Background(), sampleRequest(KindSavings))
	if a.Outcome != OutcomeFallback || !errors.Is(a.Err, ErrRendererUnavailable) {
		t.Errorf("expected fallback with ErrRendererUnavailable, got %s %v", a.Outcome, a.Err)
	}
}

func TestGenerate_BothPathsFail(t *testing.T) {
	g := NewGenerator(StaticLoader(panickingRenderer{}), failingRenderer{err: errors.New("disk full")})
	a := g.Generate(context.Background(), sampleRequest(KindSavings))

	if a.OK() {
		t.Fatal("expected failure")
	}
	if a.Outcome != OutcomeFailed {
		t.Errorf("expected failed outcome, got %s", a.Outcome)
	}
}

func TestGenerate_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a := DefaultGenerator().Generate(ctx, sampleRequest(KindSavings))
	if a.OK() || !errors.Is(a.Err, context.Canceled) {
		t.Errorf("expected cancelled failure, got %s %v", a.Outcome, a.Err)
	}
}

// ---------------------------------------------------------------------------
// Filename & Gate
// ---------------------------------------------------------------------------

func TestFilename(t *testing.T) {
	cases := []struct {
		company, contact string
		kind             Kind
		want             string
	}{
		{"Acme Health", "Sam", KindSavings, "acme-health-savings-report.pdf"},
		{"  St. Vincent's -- Hospital! ", "", KindROI, "st-vincent-s-hospital-roi-report.pdf"},
		{"", "Jo Bloggs", KindSavings, "jo-bloggs-savings-report.pdf"},
		{"", "", "", "rosterly-savings-report.pdf"},
		{"東京", "", KindSavings, "rosterly-savings-report.pdf"},
	}
	for _, c := range cases {
		if got := Filename(c.company, c.contact, c.kind, ".pdf"); got != c.want {
			t.Errorf("Filename(%q, %q, %q) = %q, want %q", c.company, c.contact, c.kind, got, c.want)
		}
	}
	long := Filename(strings.Repeat("a", 200), "", KindSavings, ".pdf")
	if len(long) > maxSlugLen+len("-savings-report.pdf") {
		t.Errorf("filename not truncated: %d chars", len(long))
	}
}

func TestGate(t *testing.T) {
	g := NewGate()
	if !g.TryAcquire("a@example.com") {
		t.Fatal("first acquire should succeed")
	}
	if g.TryAcquire("a@example.com") {
		t.Error("second acquire should fail while in progress")
	}
	if !g.TryAcquire("b@example.com") {
		t.Error("other keys are independent")
	}
	if !g.InProgress("a@example.com") {
		t.Error("expected a@example.com in progress")
	}
	g.Release("a@example.com")
	if g.InProgress("a@example.com") || !g.TryAcquire("a@example.com") {
		t.Error("release should free the key")
	}
}
