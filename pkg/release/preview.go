package release

import (
	"fmt"
	"io"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"

	"github.com/maranomynet/libtools/pkg/changelog"
	"github.com/maranomynet/libtools/pkg/ui"
)

const wordWrapWidth = 80

func notesStyle() ansi.StyleConfig {
	style := styles.DarkStyleConfig
	if !lipgloss.HasDarkBackground(os.Stdin, os.Stdout) {
		style = styles.LightStyleConfig
	}

	// the release heading is printed separately
	style.H2.Prefix = ""
	style.H3.Prefix = ""

	return style
}

// printPreview shows the version change and the release notes. Plain
// output skips styling and markdown rendering.
func printPreview(output io.Writer, result *changelog.ReleaseResult, plain bool) {
	if plain {
		fmt.Fprintf(output, "%s → %s (%s)\n\n%s\n\n", result.OldVersion, result.NewVersion, result.Date, result.Notes)
		return
	}

	titleStyle, _ := ui.GetBlockStyles()
	scheme := ui.GetFangScheme()
	versionStyle := lipgloss.NewStyle().Foreground(scheme.QuotedString)
	baseStyle := lipgloss.NewStyle().Foreground(scheme.Base)

	fmt.Fprintln(output)
	fmt.Fprintln(output, titleStyle.Render("Release notes"))
	fmt.Fprintf(output, "  %s  %s\n", versionStyle.Render(result.NewVersion),
		baseStyle.Render("(was "+result.OldVersion+", dated "+result.Date+")"))

	renderMarkdown(output, result.Notes)
}

func renderMarkdown(output io.Writer, body string) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(notesStyle()),
		glamour.WithWordWrap(wordWrapWidth),
	)
	if err == nil {
		var rendered string
		if rendered, err = renderer.Render(body); err == nil {
			fmt.Fprint(output, rendered)
			return
		}
	}

	fmt.Fprintln(output, strings.TrimSpace(body))
	fmt.Fprintln(output)
}
