package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"taskdash/internal/model"
)

// Theme/palette helpers.
//
// The dashboard must stay readable on both light and dark terminal
// backgrounds, so every color is a lipgloss.AdaptiveColor and "faint" styling
// is only applied on dark backgrounds (faint text on light terminals often
// becomes illegible).

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted     = ac("240", "243")
	colorSurfaceFg = ac("235", "252")
	colorAccent    = ac("27", "39")

	colorSelectedBg = ac("#e9e9e9", "#262626")
	colorSelectedFg = ac("235", "255")
	colorControlBg  = ac("252", "235")

	// Card borders: softer when unselected so the selection stands out.
	colorCardBorder     = ac("250", "243")
	colorSelectedBorder = ac("232", "255")
	colorCardMetaFg     = ac("238", "250")

	colorErrorFg = ac("160", "203")
	colorOkFg    = ac("28", "40")

	colorPriorityHigh   = ac("160", "203")
	colorPriorityMedium = ac("130", "214")
	colorPriorityLow    = ac("28", "114")

	colorOverdueFg = ac("160", "203")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func priorityColor(p model.Priority) lipgloss.AdaptiveColor {
	switch p {
	case model.PriorityHigh:
		return colorPriorityHigh
	case model.PriorityLow:
		return colorPriorityLow
	default:
		return colorPriorityMedium
	}
}

// applyColorProfilePreference sets Lip Gloss's color profile for the
// interactive dashboard.
//
// Note: termenv.EnvColorProfile respects CLICOLOR/CLICOLOR_FORCE, which is
// useful for non-interactive CLI output but can accidentally disable colors
// in a TUI. Here we only honor NO_COLOR and otherwise follow the terminal's
// capabilities.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()

	// If TERM/COLORTERM indicate stronger support than the detector reports,
	// trust the env. Color probing under-reports on some terminals.
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	} else if strings.Contains(term, "256color") {
		if profile == termenv.Ascii || profile == termenv.ANSI {
			profile = termenv.ANSI256
		}
	}

	lipgloss.SetColorProfile(profile)
}

// applyThemePreference configures Lip Gloss's background detection.
//
// Some terminals don't reliably report their background, which can cause
// AdaptiveColor to pick the wrong variant.
//
// Priority:
// 1) TASKDASH_TUI_THEME=light|dark|auto
// 2) TASKDASH_TUI_DARKBG=true|false
// 3) COLORFGBG heuristic (format like "15;0" = fg;bg)
func applyThemePreference() {
	if v := strings.TrimSpace(os.Getenv("TASKDASH_TUI_THEME")); v != "" {
		switch strings.ToLower(v) {
		case "light":
			lipgloss.SetHasDarkBackground(false)
			return
		case "dark":
			lipgloss.SetHasDarkBackground(true)
			return
		}
		// "auto" and unknown values fall through to the heuristics.
	}

	if v := strings.TrimSpace(os.Getenv("TASKDASH_TUI_DARKBG")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			lipgloss.SetHasDarkBackground(b)
			return
		}
	}

	// COLORFGBG is often "fg;bg" (sometimes more segments); the last segment
	// is the background. Heuristic, but better than consistently guessing
	// the wrong palette.
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			lipgloss.SetHasDarkBackground(bg < 7)
		}
	}
}
