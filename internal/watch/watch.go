// Package watch provides the live Bubble Tea usage dashboard.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"

	"github.com/openclaw/clawmon/internal/cli"
	"github.com/openclaw/clawmon/internal/model"
	"github.com/openclaw/clawmon/internal/pipeline"
	"github.com/openclaw/clawmon/internal/report"
	"github.com/openclaw/clawmon/internal/store"
)

const refreshInterval = 30 * time.Second

// Options configure the dashboard.
type Options struct {
	AgentsDir   string
	MirrorModel string
	Days        int
	UseCache    bool
}

type dataLoadedMsg struct {
	report   model.Report
	files    int
	errors   int
	loadTime time.Duration
	err      error
}

type fsChangedMsg struct{}

type tickMsg time.Time

// Model is the root Bubble Tea model for the dashboard.
type Model struct {
	opts Options

	report      model.Report
	files       int
	parseErrors int
	loadTime    time.Duration
	lastRefresh time.Time
	loaded      bool
	loading     bool
	loadErr     error

	spinner spinner.Model
	width   int
	height  int

	watcher *fsnotify.Watcher
	fsSub   chan tea.Msg
}

// New creates the dashboard model. A file watcher on the agent log tree
// is best effort; without one the dashboard still refreshes on a timer.
func New(opts Options) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(cli.ColorAccent)

	m := Model{
		opts:    opts,
		spinner: sp,
		fsSub:   make(chan tea.Msg, 1),
	}

	if w, err := fsnotify.NewWatcher(); err == nil {
		m.watcher = w
		watchLogTree(w, opts.AgentsDir)
		go forwardFsEvents(w, m.fsSub)
	}

	return m
}

// watchLogTree registers the agents root and every sessions directory.
// New agents appearing later are picked up by the periodic refresh.
func watchLogTree(w *fsnotify.Watcher, agentsDir string) {
	_ = w.Add(agentsDir)
	entries, err := os.ReadDir(agentsDir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		_ = w.Add(filepath.Join(agentsDir, e.Name(), "sessions"))
	}
}

func forwardFsEvents(w *fsnotify.Watcher, sub chan<- tea.Msg) {
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove) == 0 {
				continue
			}
			// Coalesce bursts: the channel holds one pending notice.
			select {
			case sub <- fsChangedMsg{}:
			default:
			}
		case _, ok := <-w.Errors:
			if !ok {
				return
			}
		}
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.loadCmd(),
		m.spinner.Tick,
		tickCmd(),
	}
	if m.watcher != nil {
		cmds = append(cmds, waitForFs(m.fsSub))
	}
	return tea.Batch(cmds...)
}

func (m Model) loadCmd() tea.Cmd {
	opts := m.opts
	return func() tea.Msg {
		start := time.Now()

		var lr *pipeline.LoadResult
		var err error
		if opts.UseCache {
			if cache, cerr := store.Open(pipeline.CachePath()); cerr == nil {
				clr, lerr := pipeline.LoadWithCache(opts.AgentsDir, opts.MirrorModel, cache, nil)
				cache.Close()
				if lerr == nil {
					lr = &clr.LoadResult
				}
			}
		}
		if lr == nil {
			lr, err = pipeline.Load(opts.AgentsDir, opts.MirrorModel, nil)
		}
		if err != nil {
			return dataLoadedMsg{err: err, loadTime: time.Since(start)}
		}

		now := time.Now()
		r := pipeline.Aggregate(lr.Events, pipeline.Window(now, opts.Days), opts.Days)
		return dataLoadedMsg{
			report:   r,
			files:    lr.TotalFiles,
			errors:   lr.ParseErrors,
			loadTime: time.Since(start),
		}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForFs(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.watcher != nil {
				m.watcher.Close()
			}
			return m, tea.Quit
		case "r":
			if !m.loading {
				m.loading = true
				return m, m.loadCmd()
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case dataLoadedMsg:
		m.loading = false
		m.loaded = true
		m.loadErr = msg.err
		if msg.err == nil {
			m.report = msg.report
			m.files = msg.files
			m.parseErrors = msg.errors
			m.loadTime = msg.loadTime
			m.lastRefresh = time.Now()
		}

	case fsChangedMsg:
		cmds := []tea.Cmd{waitForFs(m.fsSub)}
		if !m.loading {
			m.loading = true
			cmds = append(cmds, m.loadCmd())
		}
		return m, tea.Batch(cmds...)

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if !m.loading {
			m.loading = true
			cmds = append(cmds, m.loadCmd())
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) View() string {
	if !m.loaded {
		return fmt.Sprintf("\n  %s Scanning agent logs...\n", m.spinner.View())
	}
	if m.loadErr != nil {
		return fmt.Sprintf("\n  Error: %v\n\n  r to retry, q to quit\n", m.loadErr)
	}

	var b strings.Builder
	b.WriteString(report.RenderSummary(m.report))

	if len(m.report.Daily) > 1 {
		costs := make([]float64, len(m.report.Daily))
		for i, d := range m.report.Daily {
			costs[i] = d.Cost
		}
		b.WriteString("\n  Trend: ")
		b.WriteString(cli.RenderSparkline(costs))
		b.WriteString("\n")
	}

	b.WriteString(m.statusLine())
	return b.String()
}

func (m Model) statusLine() string {
	dim := lipgloss.NewStyle().Foreground(cli.ColorTextDim)

	status := fmt.Sprintf("%d files in %s", m.files, m.loadTime.Round(time.Millisecond))
	if m.parseErrors > 0 {
		status += fmt.Sprintf(", %d malformed lines", m.parseErrors)
	}
	status += fmt.Sprintf("  refreshed %s", m.lastRefresh.Format("15:04:05"))
	if m.loading {
		status = m.spinner.View() + " refreshing  " + status
	}

	return "\n" + dim.Render("  "+status+"  r refresh, q quit") + "\n"
}

// Run starts the dashboard and blocks until it exits.
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
