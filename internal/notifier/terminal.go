package notifier

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobhydra/internal/model"
)

var _ model.Notifier = (*TerminalNotifier)(nil)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	linkStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Underline(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	highStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	lowStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// TerminalNotifier renders each alert as a bordered card on w.
type TerminalNotifier struct {
	mu        sync.Mutex
	w         io.Writer
	threshold float64
}

// NewTerminalNotifier writes cards to w. Scores at or above threshold are highlighted.
func NewTerminalNotifier(w io.Writer, threshold float64) *TerminalNotifier {
	return &TerminalNotifier{w: w, threshold: threshold}
}

func (n *TerminalNotifier) Notify(_ context.Context, a model.Alert) error {
	card := cardStyle.Render(n.render(a))
	n.mu.Lock()
	defer n.mu.Unlock()
	_, err := fmt.Fprintln(n.w, card)
	return err
}

func (n *TerminalNotifier) score(v float64) string {
	s := model.Percent(v)
	if v >= n.threshold {
		return highStyle.Render(s)
	}
	return lowStyle.Render(s)
}

func (n *TerminalNotifier) render(a model.Alert) string {
	draft := "no draft"
	if a.HasDraft {
		draft = "cover letter drafted"
	}
	lines := []string{
		titleStyle.Render(fmt.Sprintf("#%d %s", a.RowID, a.Title)),
		linkStyle.Render(a.Link),
		fmt.Sprintf("match %s  entry-level %s  %s", n.score(a.MatchPercent), n.score(a.Suitability), dimStyle.Render(draft)),
		dimStyle.Render(fmt.Sprintf("[%s] [%s]", a.AcceptToken(), a.RejectToken())),
	}
	return strings.Join(lines, "\n")
}
