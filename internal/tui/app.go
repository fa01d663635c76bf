package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"pumpradar/internal/advisor"
	"pumpradar/internal/domain"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type Analyzer interface {
	Analyze(ctx context.Context, ticker string) (*domain.TickerAnalysis, error)
	Refresh(ctx context.Context, ticker string) (*domain.TickerAnalysis, error)
}

type Watchlist interface {
	Tickers(ctx context.Context) ([]string, error)
	Add(ctx context.Context, ticker string) (string, error)
	Remove(ctx context.Context, ticker string) error
}

type Explainer interface {
	Explain(ctx context.Context, a *domain.TickerAnalysis) *advisor.Explanation
}

// Services are the collaborators of one dashboard session.
type Services struct {
	Analyses  Analyzer
	Watchlist Watchlist
	Explainer Explainer
	Username  string
}

type mode int

const (
	modeTable mode = iota
	modeDetail
	modeAdd
)

type (
	watchlistMsg struct {
		analyses []*domain.TickerAnalysis
		failed   []string
		err      error
	}
	tickerMsg struct {
		analysis *domain.TickerAnalysis
		err      error
	}
	explainMsg struct {
		explanation *advisor.Explanation
	}
	statusMsg string
)

const requestTimeout = 60 * time.Second

type AppModel struct {
	svc      Services
	mode     mode
	table    table.Model
	input    textinput.Model
	rows     map[string]*domain.TickerAnalysis
	selected *domain.TickerAnalysis
	explain  *advisor.Explanation
	status   string
	err      error
	width    int
	height   int
}

func NewAppModel(svc Services) *AppModel {
	t := table.New(
		table.WithColumns(columns(100)),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	in := textinput.New()
	in.Placeholder = "GME"
	in.CharLimit = 8

	return &AppModel{
		svc:    svc,
		table:  t,
		input:  in,
		rows:   make(map[string]*domain.TickerAnalysis),
		status: "loading watchlist…",
	}
}

func columns(width int) []table.Column {
	ticker := 8
	rest := (width - ticker - 8) / 6
	if rest < 8 {
		rest = 8
	}
	return []table.Column{
		{Title: "Ticker", Width: ticker},
		{Title: "Phase", Width: rest},
		{Title: "Signal", Width: rest},
		{Title: "Sentiment", Width: rest},
		{Title: "Mentions", Width: rest},
		{Title: "Momentum", Width: rest},
		{Title: "Volume", Width: rest},
	}
}

func (m *AppModel) SetSize(width, height int) {
	m.width, m.height = width, height
	if width > 0 {
		m.table.SetColumns(columns(width))
	}
	if height > 8 {
		m.table.SetHeight(height - 8)
	}
}

func (m *AppModel) Init() tea.Cmd {
	return m.loadWatchlist(false)
}

func (m *AppModel) loadWatchlist(refresh bool) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		tickers, err := svc.Watchlist.Tickers(ctx)
		if err != nil {
			return watchlistMsg{err: err}
		}
		msg := watchlistMsg{}
		for _, t := range tickers {
			analyze := svc.Analyses.Analyze
			if refresh {
				analyze = svc.Analyses.Refresh
			}
			a, err := analyze(ctx, t)
			if err != nil {
				msg.failed = append(msg.failed, t)
				continue
			}
			msg.analyses = append(msg.analyses, a)
		}
		return msg
	}
}

func (m *AppModel) analyzeTicker(ticker string) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if _, err := svc.Watchlist.Add(ctx, ticker); err != nil {
			return tickerMsg{err: err}
		}
		a, err := svc.Analyses.Analyze(ctx, ticker)
		return tickerMsg{analysis: a, err: err}
	}
}

func (m *AppModel) removeTicker(ticker string) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := svc.Watchlist.Remove(ctx, ticker); err != nil {
			return statusMsg(fmt.Sprintf("remove %s: %v", ticker, err))
		}
		return statusMsg("removed " + ticker)
	}
}

func (m *AppModel) explainSelected() tea.Cmd {
	a := m.selected
	svc := m.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return explainMsg{explanation: svc.Explainer.Explain(ctx, a)}
	}
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case watchlistMsg:
		m.err = msg.err
		if msg.err == nil {
			for _, a := range msg.analyses {
				m.rows[a.Ticker] = a
			}
			m.status = fmt.Sprintf("%d tickers updated %s", len(msg.analyses), time.Now().Format("15:04:05"))
			if len(msg.failed) > 0 {
				m.status += " · failed: " + strings.Join(msg.failed, ", ")
			}
		}
		m.syncTable()
		return m, nil

	case tickerMsg:
		m.err = msg.err
		if msg.err == nil && msg.analysis != nil {
			m.rows[msg.analysis.Ticker] = msg.analysis
			m.status = "added " + msg.analysis.Ticker
		}
		m.syncTable()
		return m, nil

	case explainMsg:
		m.explain = msg.explanation
		return m, nil

	case statusMsg:
		m.status = string(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case modeAdd:
		switch msg.String() {
		case "esc":
			m.mode = modeTable
			m.input.Blur()
			return m, nil
		case "enter":
			raw := m.input.Value()
			m.input.Reset()
			m.input.Blur()
			m.mode = modeTable
			t, err := domain.NormalizeTicker(raw)
			if err != nil {
				m.err = err
				return m, nil
			}
			m.status = "analyzing " + t + "…"
			return m, m.analyzeTicker(t)
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case modeDetail:
		switch msg.String() {
		case "esc", "backspace", "q":
			m.mode = modeTable
			m.selected, m.explain = nil, nil
			return m, nil
		case "e":
			if m.svc.Explainer != nil && m.selected != nil && m.explain == nil {
				m.status = "explaining…"
				return m, m.explainSelected()
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "r":
		m.status = "refreshing…"
		return m, m.loadWatchlist(true)
	case "a":
		m.mode = modeAdd
		m.err = nil
		return m, m.input.Focus()
	case "d":
		if t := m.currentTicker(); t != "" {
			delete(m.rows, t)
			m.syncTable()
			return m, m.removeTicker(t)
		}
		return m, nil
	case "enter":
		if t := m.currentTicker(); t != "" {
			m.selected = m.rows[t]
			m.explain = nil
			m.mode = modeDetail
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *AppModel) currentTicker() string {
	row := m.table.SelectedRow()
	if len(row) == 0 {
		return ""
	}
	return row[0]
}

func (m *AppModel) syncTable() {
	tickers := make([]string, 0, len(m.rows))
	for t := range m.rows {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	rows := make([]table.Row, 0, len(tickers))
	for _, t := range tickers {
		a := m.rows[t]
		pm := a.Pump.Metrics
		rows = append(rows, table.Row{
			t,
			string(a.Pump.Phase),
			string(a.Pump.Signal),
			fmt.Sprintf("%+.2f %s", a.Sentiment.OverallScore, arrow(string(pm.SentimentTrend))),
			fmt.Sprintf("%d %s", pm.MentionVolume, arrow(string(pm.MentionTrend))),
			fmt.Sprintf("%+.1f", pm.PriceMomentum),
			fmt.Sprintf("%.2fx", pm.VolumeRatio),
		})
	}
	m.table.SetRows(rows)
}

func arrow(trend string) string {
	switch trend {
	case string(domain.SentimentImproving), string(domain.MentionsRising):
		return "↑"
	case string(domain.SentimentDeclining): // == string(domain.MentionsDeclining)
		return "↓"
	default:
		return "→"
	}
}

func (m *AppModel) View() string {
	var sb strings.Builder
	user := m.svc.Username
	if user == "" {
		user = "anonymous"
	}
	sb.WriteString(titleStyle.Render("pumpradar · " + user))
	sb.WriteString("\n")

	switch m.mode {
	case modeDetail:
		sb.WriteString(m.detailView())
		sb.WriteString("\n")
		sb.WriteString(helpStyle.Render("e explain · esc back"))
	default:
		sb.WriteString(m.table.View())
		sb.WriteString("\n")
		if m.mode == modeAdd {
			sb.WriteString("Add ticker: " + m.input.View() + "\n")
		}
		sb.WriteString(helpStyle.Render("↑/↓ move · enter details · a add · d remove · r refresh · q quit"))
	}

	sb.WriteString("\n")
	if m.err != nil {
		sb.WriteString(errorStyle.Render(m.err.Error()))
	} else {
		sb.WriteString(statusStyle.Render(m.status))
	}
	return sb.String()
}

func (m *AppModel) detailView() string {
	a := m.selected
	if a == nil {
		return "no ticker selected"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s  %s  phase %s  confidence %.0f%%\n",
		a.Ticker, signalBadge(a.Pump.Signal), a.Pump.Phase, a.Pump.Confidence*100)
	fmt.Fprintf(&sb, "Sentiment %.3f %s (confidence %.2f) from %s\n",
		a.Sentiment.OverallScore, a.Sentiment.OverallLabel, a.Sentiment.Confidence, sourcesText(a.Sentiment.SourcesUsed))
	if a.Price != nil {
		fmt.Fprintf(&sb, "Price $%.2f  volume %.0f (avg %.0f)\n", a.Price.CurrentPrice, a.Price.Volume, a.Price.AvgVolume)
	}
	sb.WriteString("\n")
	for _, r := range a.Pump.Reasoning {
		sb.WriteString("• " + r + "\n")
	}
	if m.explain != nil {
		sb.WriteString("\n" + m.explain.Summary + "\n")
	}
	return panelStyle.Render(strings.TrimRight(sb.String(), "\n"))
}

func sourcesText(sources []string) string {
	if len(sources) == 0 {
		return "no sources"
	}
	return strings.Join(sources, ", ")
}
