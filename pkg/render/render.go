package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/matzehuels/visunn/pkg/errors"
	"github.com/matzehuels/visunn/pkg/render/dot"
	"github.com/matzehuels/visunn/pkg/topology"
)

// Format is an export format.
type Format string

const (
	FormatDOT Format = "dot"
	FormatSVG Format = "svg"
	FormatPDF Format = "pdf"
	FormatPNG Format = "png"
)

// Formats lists the supported export formats.
var Formats = []Format{FormatDOT, FormatSVG, FormatPDF, FormatPNG}

// DefaultPNGScale renders PNGs at twice the SVG resolution.
const DefaultPNGScale = 2.0

// rasterizer is the librsvg command line tool used for PDF and PNG.
const rasterizer = "rsvg-convert"

// ParseFormat validates an export format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want dot, svg, pdf or png)", s)
}

// Rasterized reports whether f needs the external rasterizer.
func (f Format) Rasterized() bool {
	return f == FormatPDF || f == FormatPNG
}

// Options configures an export.
type Options struct {
	// Diagram controls the generated DOT source.
	Diagram dot.Options

	// PNGScale is the PNG zoom factor. Zero means DefaultPNGScale.
	PNGScale float64
}

// Render exports snap in format f. DOT and SVG are produced in-process;
// PDF and PNG pipe the SVG through rsvg-convert.
func Render(ctx context.Context, snap *topology.Snapshot, f Format, opts Options) ([]byte, error) {
	src := dot.ToDOT(snap, opts.Diagram)
	if f == FormatDOT {
		return []byte(src), nil
	}

	svg, err := dot.SVG(ctx, src)
	if err != nil {
		return nil, err
	}
	if !f.Rasterized() {
		return svg, nil
	}
	return rasterize(ctx, svg, f, opts.PNGScale)
}

func rasterize(ctx context.Context, svg []byte, f Format, scale float64) ([]byte, error) {
	path, err := exec.LookPath(rasterizer)
	if err != nil {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"%s export needs %s from librsvg (brew install librsvg, apt install librsvg2-bin)", f, rasterizer)
	}

	args := []string{"--format", string(f)}
	if f == FormatPNG {
		if scale <= 0 {
			scale = DefaultPNGScale
		}
		args = append(args, "--zoom", fmt.Sprintf("%g", scale))
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = bytes.NewReader(svg)
	cmd.Stdout, cmd.Stderr = &stdout, &stderr
	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "%s: %s", rasterizer, bytes.TrimSpace(stderr.Bytes()))
	}
	return stdout.Bytes(), nil
}
