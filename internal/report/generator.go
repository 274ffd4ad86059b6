package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Outcome records which path produced an artifact.
type Outcome string

const (
	OutcomeRendered Outcome = "rendered"
	OutcomeFallback Outcome = "fallback"
	OutcomeFailed   Outcome = "failed"
)

// Artifact is a generated report file.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
	Outcome     Outcome
	// Err is why the primary renderer was not used, or why generation failed.
	Err error
}

// OK reports whether a file was produced, by either path.
func (a Artifact) OK() bool {
	return a.Outcome != OutcomeFailed && len(a.Data) > 0
}

// Loader resolves the primary renderer when a report is requested.
type Loader func() (Renderer, error)

// ErrRendererUnavailable is returned by loaders that have no renderer to offer.
var ErrRendererUnavailable = errors.New("report: renderer unavailable")

// StaticLoader always offers r.
func StaticLoader(r Renderer) Loader {
	return func() (Renderer, error) { return r, nil }
}

// Generator renders reports through a primary renderer and falls back to a
// secondary one when the primary cannot be loaded or fails.
type Generator struct {
	load     Loader
	fallback Renderer
}

// NewGenerator creates a Generator. A nil load means only fallback is used.
func NewGenerator(load Loader, fallback Renderer) *Generator {
	if fallback == nil {
		fallback = TextRenderer{}
	}
	return &Generator{load: load, fallback: fallback}
}

// DefaultGenerator renders PDFs with a plain-text fallback.
func DefaultGenerator() *Generator {
	return NewGenerator(StaticLoader(PDFRenderer{}), TextRenderer{})
}

// Generate builds and renders the report for req.
func (g *Generator) Generate(ctx context.Context, req Request) Artifact {
	if err := ctx.Err(); err != nil {
		return Artifact{Outcome: OutcomeFailed, Err: err}
	}
	doc := Build(req)

	primaryErr := ErrRendererUnavailable
	if g.load != nil {
		r, err := g.load()
		switch {
		case err != nil:
			primaryErr = fmt.Errorf("load renderer: %w", err)
		case r == nil:
			primaryErr = ErrRendererUnavailable
		default:
			data, err := renderSafely(r, doc)
			if err == nil {
				return Artifact{
					Filename:    Filename(req.CompanyName, req.ContactName, req.Kind, r.Extension()),
					ContentType: r.ContentType(),
					Data:        data,
					Outcome:     OutcomeRendered,
				}
			}
			primaryErr = err
		}
	}

	slog.Warn("report primary renderer failed, using fallback",
		"kind", req.Kind,
		"error", primaryErr,
	)

	data, err := renderSafely(g.fallback, doc)
	if err != nil {
		slog.Error("report fallback renderer failed",
			"kind", req.Kind,
			"primary_error", primaryErr,
			"error", err,
		)
		return Artifact{Outcome: OutcomeFailed, Err: errors.Join(primaryErr, err)}
	}
	return Artifact{
		Filename:    Filename(req.CompanyName, req.ContactName, req.Kind, g.fallback.Extension()),
		ContentType: g.fallback.ContentType(),
		Data:        data,
		Outcome:     OutcomeFallback,
		Err:         primaryErr,
	}
}

func renderSafely(r Renderer, doc Document) (data []byte, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("report: renderer panic: %v", p)
		}
	}()

	var buf bytes.Buffer
	if err := r.Render(&buf, doc); err != nil {
		return nil, err
	}
	if buf.Len() == 0 {
		return nil, errors.New("report: renderer produced no output")
	}
	return buf.Bytes(), nil
}
