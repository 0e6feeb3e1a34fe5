package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Mohsinsiddi/walletfetch/internal/balance"
	"github.com/Mohsinsiddi/walletfetch/internal/chain"
	"github.com/Mohsinsiddi/walletfetch/internal/engine"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// NetStatus is the fetch state of one network.
type NetStatus int

const (
	NetStatusFetching NetStatus = iota
	NetStatusDone
	NetStatusPartial
	NetStatusError
)

// LiveRow tracks progress for a single network.
type LiveRow struct {
	Name    string
	ChainID uint64
	Total   int // lookups expected: native + tokens
	Done    int
	Failed  int
	LastErr string
}

// Status derives the row state from its counters.
func (r LiveRow) Status() NetStatus {
	switch {
	case r.Done < r.Total:
		return NetStatusFetching
	case r.Failed == 0:
		return NetStatusDone
	case r.Failed < r.Total:
		return NetStatusPartial
	default:
		return NetStatusError
	}
}

// ProgressMsg wraps balance.Progress as a Bubble Tea message.
type ProgressMsg balance.Progress

// DoneMsg is sent once the engine run returns.
type DoneMsg struct {
	Result *engine.Result
	Err    error
}

type liveTickMsg struct{}

// LiveModel is the Bubble Tea model showing per-network fetch progress.
type LiveModel struct {
	Target   string
	Rows     []LiveRow
	RowIndex map[uint64]int
	Total    int // lookups expected across all networks
	Done     int
	Frame    int
	Started  time.Time

	Result   *engine.Result
	Err      error
	Finished bool
	Quitting bool
}

// NewLiveModel returns a model with one row per network in set.
func NewLiveModel(target string, set chain.NetworkSet) LiveModel {
	m := LiveModel{
		Target:   target,
		RowIndex: make(map[uint64]int, set.Len()),
		Total:    set.Units(),
		Started:  time.Now(),
	}
	for i, n := range set.All() {
		m.Rows = append(m.Rows, LiveRow{Name: n.Name, ChainID: n.ChainID, Total: n.Units()})
		m.RowIndex[n.ChainID] = i
	}
	return m
}

func (m LiveModel) Init() tea.Cmd {
	return liveTick()
}

func liveTick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return liveTickMsg{}
	})
}

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Quitting = true
			return m, tea.Quit
		}

	case liveTickMsg:
		if m.Finished {
			return m, nil
		}
		m.Frame = (m.Frame + 1) % len(spinnerFrames)
		return m, liveTick()

	case ProgressMsg:
		idx, ok := m.RowIndex[msg.ChainID]
		if !ok {
			return m, nil
		}
		m.Rows[idx].Done++
		if msg.Err != nil {
			m.Rows[idx].Failed++
			m.Rows[idx].LastErr = TrimErr(msg.Err.Error())
		}
		m.Done++

	case DoneMsg:
		m.Result = msg.Result
		m.Err = msg.Err
		m.Finished = true
		return m, tea.Quit
	}

	return m, nil
}

func (m LiveModel) View() string {
	if m.Quitting {
		return ""
	}

	var sb strings.Builder
	spin := spinnerFrames[m.Frame]

	// ── Title ─────────────────────────────────────────────────────────────
	title := fmt.Sprintf("⚡ walletfetch  ·  %s", TruncateAddr(m.Target))
	sb.WriteString(StyleTitle.Render(title) + "\n")

	// ── Progress ──────────────────────────────────────────────────────────
	var progress string
	if m.Finished || m.Done >= m.Total {
		elapsed := time.Since(m.Started).Truncate(time.Millisecond)
		progress = StyleSuccess.Render(fmt.Sprintf("✓ %d/%d lookups done in %s", m.Done, m.Total, elapsed))
	} else {
		progress = StyleInfo.Render(fmt.Sprintf("%s %d/%d fetching…", spin, m.Done, m.Total))
	}
	sb.WriteString(progress + StyleMeta.Render("   press q to quit") + "\n\n")

	// ── Table ─────────────────────────────────────────────────────────────
	const (
		wName   = 18
		wAssets = 10
	)
	sb.WriteString(
		padR(StyleDim.Render("NETWORK"), wName) + "  " +
			padR(StyleDim.Render("ASSETS"), wAssets) + "  " +
			StyleDim.Render("STATUS") + "\n",
	)
	sb.WriteString(StyleMeta.Render(strings.Repeat("─", wName+wAssets+24)) + "\n")

	for _, row := range m.Rows {
		assets := fmt.Sprintf("%d/%d", row.Done, row.Total)
		sb.WriteString(
			padR(ChainName(row.Name), wName) + "  " +
				padR(StyleMeta.Render(assets), wAssets) + "  " +
				renderStatus(row, spin) + "\n",
		)
	}
	return sb.String()
}

func renderStatus(row LiveRow, spin string) string {
	switch row.Status() {
	case NetStatusFetching:
		return StyleMeta.Render(spin + " fetching…")
	case NetStatusDone:
		return StyleSuccess.Render("✓")
	case NetStatusPartial:
		return StyleWarning.Render("½ " + row.LastErr)
	default:
		return StyleError.Render("✗ " + row.LastErr)
	}
}

// padR pads s to visible width n (ANSI-safe using lipgloss.Width).
func padR(s string, n int) string {
	w := lipgloss.Width(s)
	if w >= n {
		return s
	}
	return s + strings.Repeat(" ", n-w)
}

// TrimErr shortens an RPC error for a narrow status column.
func TrimErr(s string) string {
	// Strip common noisy prefixes from RPC error messages.
	for _, prefix := range []string{
		"HTTP ", "dial tcp", "connection refused", "context deadline",
	} {
		if idx := strings.Index(s, prefix); idx >= 0 {
			s = s[idx:]
			break
		}
	}
	if len(s) > 30 {
		return s[:30] + "…"
	}
	return s
}
