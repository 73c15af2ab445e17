// Package report renders unlock plans for people.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/bayleafwalker/unlockpath/internal/catalog"
	"github.com/bayleafwalker/unlockpath/internal/request"
	"github.com/bayleafwalker/unlockpath/internal/resolver"
)

// ColorMode selects when ANSI styling is emitted.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

const nameWidth = 18

// Printer writes plans to one output stream.
type Printer struct {
	w   io.Writer
	cat *catalog.Catalog

	title  lipgloss.Style
	name   lipgloss.Style
	pinned lipgloss.Style
	wanted lipgloss.Style
	muted  lipgloss.Style
}

// NewPrinter returns a Printer for w. ColorAuto styles output only when w is a
// color-capable terminal.
func NewPrinter(w io.Writer, cat *catalog.Catalog, mode ColorMode) *Printer {
	r := lipgloss.NewRenderer(w)
	switch mode {
	case ColorAlways:
		r.SetColorProfile(termenv.ANSI256)
	case ColorNever:
		r.SetColorProfile(termenv.Ascii)
	}
	return &Printer{
		w:      w,
		cat:    cat,
		title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#2CD7C7")),
		name:   r.NewStyle().Foreground(lipgloss.Color("#20B9B4")),
		pinned: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#F4D03F")),
		wanted: r.NewStyle().Foreground(lipgloss.Color("#2CD7C7")),
		muted:  r.NewStyle().Foreground(lipgloss.Color("#6C8A94")),
	}
}

// Header announces how many paths follow.
func (p *Printer) Header(paths int) {
	noun := "paths"
	if paths == 1 {
		noun = "path"
	}
	fmt.Fprintf(p.w, "There %s %d possible unlocking %s.\n", verb(paths), paths, noun)
}

// Summary prints path idx (zero based): each provider with the requests it
// serves, then the bonus offerings.
func (p *Printer) Summary(idx int, path resolver.UnlockPath) {
	p.pathTitle(idx, path)
	fmt.Fprintln(p.w)
	for _, id := range path.Providers {
		name := p.cat.ProviderName(id)
		line := "  " + p.name.Render(pad(name))
		if reqs := path.Assignment[id]; len(reqs) > 0 {
			parts := make([]string, 0, len(reqs))
			for _, r := range reqs {
				parts = append(parts, p.offering(r.Quality, r.Kind))
			}
			line += "(" + strings.Join(parts, ", ") + ")"
		}
		fmt.Fprintln(p.w, strings.TrimRight(line, " "))
	}
	fmt.Fprintln(p.w)

	fmt.Fprintln(p.w, "Additionally you will get access to:")
	if len(path.Bonus) == 0 {
		fmt.Fprintln(p.w, "  "+p.muted.Render("nothing else"))
	}
	for _, o := range path.Bonus {
		fmt.Fprintln(p.w, "  "+p.offering(o.Quality, o.Kind))
	}
}

// Detailed prints every offering of every provider on the path. '>' marks an
// offering that serves a pinned request assigned to that provider, '+' one
// that covers any request.
func (p *Printer) Detailed(idx int, path resolver.UnlockPath, reqs []resolver.RequestedCapability) {
	p.pathTitle(idx, path)
	fmt.Fprintln(p.w)
	for _, id := range path.Providers {
		fmt.Fprintln(p.w, p.name.Render(p.cat.ProviderName(id))+":")
		for _, o := range p.cat.Offerings(id) {
			marker := "    "
			switch {
			case covers(o, path.Assignment[id], true):
				marker = p.pinned.Render(">") + "   "
			case covers(o, reqs, false):
				marker = p.wanted.Render("+") + "   "
			}
			fmt.Fprintln(p.w, marker+p.offering(o.Quality, o.Kind))
		}
		fmt.Fprintln(p.w)
	}
}

// Requests echoes the parsed requests back in input form.
func (p *Printer) Requests(reqs []resolver.RequestedCapability) {
	for _, r := range reqs {
		fmt.Fprintln(p.w, "  "+p.muted.Render(request.Format(p.cat, r)))
	}
}

func (p *Printer) pathTitle(idx int, path resolver.UnlockPath) {
	noun := "providers"
	if len(path.Providers) == 1 {
		noun = "provider"
	}
	fmt.Fprintln(p.w, p.title.Render(fmt.Sprintf("Unlocking path %d (%d %s):", idx+1, len(path.Providers), noun)))
}

func (p *Printer) offering(q catalog.Quality, k catalog.CapabilityKind) string {
	return fmt.Sprintf("%d  %s", q, p.cat.KindName(k))
}

func covers(o catalog.Offering, reqs []resolver.RequestedCapability, pinnedOnly bool) bool {
	for _, r := range reqs {
		if pinnedOnly && !r.Pinned {
			continue
		}
		if o.Covers(r.Kind, r.Quality) {
			return true
		}
	}
	return false
}

func pad(s string) string {
	if len(s) >= nameWidth {
		return s + " "
	}
	return s + strings.Repeat(" ", nameWidth-len(s))
}

func verb(n int) string {
	if n == 1 {
		return "is"
	}
	return "are"
}
