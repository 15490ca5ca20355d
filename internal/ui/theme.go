package ui

import "strings"

// Theme bundles palette, status symbols and box borders.
// All printers pull from `current`.
type Theme struct {
	Title, Muted, Accent, Success, Error, Pending string
	SymOK, SymFail, SymWarn, SymAdmin, SymGuest   string
	CornerTL, CornerTR, CornerBL, CornerBR        string
	H, V                                          string
}

var current = classic()

func classic() Theme {
	return Theme{
		Title: bold, Muted: fgGray, Accent: fgBlue,
		Success: fgGreen, Error: fgRed, Pending: fgYellow,
		SymOK: "✔", SymFail: "✖", SymWarn: "!", SymAdmin: "●", SymGuest: "○",
		CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
		H: "─", V: "│",
	}
}

func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		disableColor = false
		current = Theme{
			Title: "\033[95m", // bright magenta
			Muted: fgGray, Accent: "\033[96m",
			Success: fgGreen, Error: fgRed, Pending: "\033[93m",
			SymOK: "✔", SymFail: "✖", SymWarn: "⚠", SymAdmin: "◆", SymGuest: "◇",
			CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
			H: "─", V: "│",
		}
	case "mono":
		disableColor = true
		current = Theme{
			SymOK: "ok", SymFail: "error:", SymWarn: "warning:", SymAdmin: "[admin]", SymGuest: "[guest]",
			CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
			H: "-", V: "|",
		}
	default:
		disableColor = false
		current = classic()
	}
}

// Current exposes the active theme to renderers.
func Current() Theme { return current }
