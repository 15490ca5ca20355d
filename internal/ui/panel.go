package ui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

var ansiRegexp = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string { return ansiRegexp.ReplaceAllString(s, "") }

func visibleWidth(s string) int { return runewidth.StringWidth(stripANSI(s)) }

// Wrap breaks text on spaces so no line is wider than width. Existing
// newlines are kept; a single word longer than width stays on its own line.
func Wrap(text string, width int) []string {
	if width < 10 {
		width = 10
	}
	var out []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if runewidth.StringWidth(line)+1+runewidth.StringWidth(w) > width {
				out = append(out, line)
				line = w
				continue
			}
			line += " " + w
		}
		out = append(out, line)
	}
	return out
}

// Panel draws a framed box with an optional title in the top border.
func Panel(title string, lines []string) {
	t := Current()
	maxw := visibleWidth(title) + 2
	for _, ln := range lines {
		if w := visibleWidth(ln); w > maxw {
			maxw = w
		}
	}
	pad := func(s string) string {
		if vis := visibleWidth(s); vis < maxw {
			s += strings.Repeat(" ", maxw-vis)
		}
		return s
	}

	top := t.CornerTL + strings.Repeat(t.H, maxw+2) + t.CornerTR
	if title != "" {
		label := " " + title + " "
		top = t.CornerTL + t.H + C(t.Title, label) + strings.Repeat(t.H, maxw+1-visibleWidth(label)) + t.CornerTR
	}
	fmt.Fprintln(stdout, top)
	for _, ln := range lines {
		fmt.Fprintln(stdout, t.V+" "+pad(ln)+" "+t.V)
	}
	fmt.Fprintln(stdout, t.CornerBL+strings.Repeat(t.H, maxw+2)+t.CornerBR)
}

// Badge renders the admin/guest marker.
func Badge(admin bool) string {
	t := Current()
	if admin {
		return C(t.Success, t.SymAdmin+" admin")
	}
	return C(t.Muted, t.SymGuest+" guest")
}
