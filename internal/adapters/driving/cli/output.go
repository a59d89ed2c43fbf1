package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/oversight-cli/internal/core/domain"
)

// Palette.
var (
	colourPrimary = lipgloss.Color("#7C3AED")
	colourMuted   = lipgloss.Color("#6C7086")
	colourSuccess = lipgloss.Color("#A6E3A1")
	colourWarning = lipgloss.Color("#F9E2AF")
	colourError   = lipgloss.Color("#F38BA8")
	colourBorder  = lipgloss.Color("#45475A")
)

// printer renders styled output for one writer. Colours are dropped when
// the writer is not a terminal.
type printer struct {
	w io.Writer
	r *lipgloss.Renderer
}

func newPrinter(cmd *cobra.Command) *printer {
	w := cmd.OutOrStdout()
	return &printer{w: w, r: lipgloss.NewRenderer(w)}
}

func (p *printer) println(a ...any) {
	fmt.Fprintln(p.w, a...)
}

func (p *printer) printf(format string, a ...any) {
	fmt.Fprintf(p.w, format, a...)
}

func (p *printer) heading(text string) {
	p.println(p.r.NewStyle().Bold(true).Foreground(colourPrimary).Render(text))
}

func (p *printer) muted(text string) string {
	return p.r.NewStyle().Foreground(colourMuted).Render(text)
}

func (p *printer) success(text string) string {
	return p.r.NewStyle().Foreground(colourSuccess).Render(text)
}

// field prints an aligned "label: value" line.
func (p *printer) field(label, value string) {
	p.printf("  %-22s %s\n", label+":", value)
}

// risk renders a risk level badge.
func (p *printer) risk(level domain.RiskLevel) string {
	style := p.r.NewStyle().Bold(true)
	switch level {
	case domain.RiskHigh:
		style = style.Foreground(colourError)
	case domain.RiskMedium:
		style = style.Foreground(colourWarning)
	default:
		style = style.Foreground(colourSuccess)
	}
	return style.Render(level.Label())
}

// table prints rows under headers.
func (p *printer) table(headers []string, rows [][]string) {
	cell := p.r.NewStyle().Padding(0, 1)
	header := cell.Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(p.r.NewStyle().Foreground(colourBorder)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	p.println(t.String())
}

// pagination prints the page footer of a list.
func (p *printer) pagination(pg domain.Pagination, noun string) {
	if pg.TotalPages <= 1 {
		p.println(p.muted(fmt.Sprintf("%d %s", pg.TotalItems, noun)))
		return
	}
	p.println(p.muted(fmt.Sprintf("Page %d of %d (%d %s)", pg.Page, pg.TotalPages, pg.TotalItems, noun)))
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return formatTime(*t)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

// parseID parses a positive numeric ID argument.
func parseID(arg, what string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s ID %q: %w", what, arg, domain.ErrInvalidInput)
	}
	return id, nil
}

// stdinIsTerminal reports whether prompts can be shown.
func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
