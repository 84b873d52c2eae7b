// Package tui renders the interactive seeding screen.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marshallshelly/pebble-seed/pkg/seed"
)

const (
	statePending = "pending"
	stateRunning = "running"
	stateDone    = "done"
	stateFailed  = "failed"
)

// Job is one variant to seed. Config.Fixtures must be set so the total
// number of batches is known up front.
type Job struct {
	Variant  seed.Variant
	Location string
	Config   seed.RunConfig
}

// Messages
type batchMsg struct {
	variant  string
	progress seed.Progress
}

type jobDoneMsg struct {
	index  int
	result *seed.Result
	err    error
}

// SeedModel is the Bubbletea model for interactive seeding.
type SeedModel struct {
	ctx     context.Context
	cancel  context.CancelFunc
	jobs    []Job
	states  []string
	events  chan tea.Msg
	current int

	batchesDone  int
	batchesTotal int

	progress progress.Model
	spinner  spinner.Model
	logs     LogView

	results []*seed.Result
	err     error
	done    bool
}

// NewSeedModel creates the model for jobs.
func NewSeedModel(ctx context.Context, jobs []Job) SeedModel {
	ctx, cancel := context.WithCancel(ctx)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = infoStyle

	total := 0
	states := make([]string, len(jobs))
	for i, job := range jobs {
		states[i] = statePending
		if i == 0 {
			states[i] = stateRunning
		}
		if job.Config.Fixtures != nil {
			total += len(job.Config.Fixtures.Batches)
		}
	}

	return SeedModel{
		ctx:          ctx,
		cancel:       cancel,
		jobs:         jobs,
		states:       states,
		events:       make(chan tea.Msg, 16),
		batchesTotal: total,
		progress:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		spinner:      s,
		logs:         NewLogView(8),
	}
}

// Results returns the result of every job that finished.
func (m SeedModel) Results() []*seed.Result {
	return m.results
}

// Err returns the error that stopped seeding, if any.
func (m SeedModel) Err() error {
	return m.err
}

// Init initializes the model
func (m SeedModel) Init() tea.Cmd {
	if len(m.jobs) == 0 {
		return tea.Quit
	}
	return tea.Batch(m.spinner.Tick, m.startJob(0), listen(m.events))
}

func listen(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

func (m SeedModel) startJob(index int) tea.Cmd {
	job := m.jobs[index]
	events := m.events
	ctx := m.ctx

	return func() tea.Msg {
		cfg := job.Config
		cfg.Options = append(append([]seed.Option(nil), cfg.Options...), seed.WithObserver(func(p seed.Progress) {
			events <- batchMsg{variant: job.Variant.Name, progress: p}
		}))

		result, err := job.Variant.Run(ctx, job.Location, cfg)
		events <- jobDoneMsg{index: index, result: result, err: err}
		return nil
	}
}

// Update handles messages
func (m SeedModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.progress.Width = min(max(msg.Width-12, 10), 60)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.cancel()
			if !m.done {
				m.err = context.Canceled
			}
			return m, tea.Quit
		}
		return m, nil

	case batchMsg:
		m.batchesDone++
		p := msg.progress
		if p.Skipped {
			m.logs.AddLog(warningStyle.Render("○ ") + fmt.Sprintf("%s.%s skipped", msg.variant, p.Table))
		} else {
			m.logs.AddLog(successStyle.Render("✓ ") + fmt.Sprintf("%s.%s %d rows", msg.variant, p.Table, p.Rows))
		}
		return m, tea.Batch(m.progress.SetPercent(m.percent()), listen(m.events))

	case jobDoneMsg:
		if msg.result != nil {
			m.results = append(m.results, msg.result)
		}
		if msg.err != nil {
			m.states[msg.index] = stateFailed
			m.err = msg.err
			m.done = true
			m.cancel()
			return m, tea.Quit
		}

		m.states[msg.index] = stateDone
		m.current = msg.index + 1
		if m.current >= len(m.jobs) {
			m.done = true
			m.cancel()
			return m, tea.Sequence(m.progress.SetPercent(1), tea.Quit)
		}

		m.states[m.current] = stateRunning
		return m, tea.Batch(m.startJob(m.current), listen(m.events))

	case progress.FrameMsg:
		pm, cmd := m.progress.Update(msg)
		m.progress = pm.(progress.Model)
		return m, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m SeedModel) percent() float64 {
	if m.batchesTotal == 0 {
		return 0
	}
	return float64(m.batchesDone) / float64(m.batchesTotal)
}

// View renders the UI
func (m SeedModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Seeding"))
	b.WriteString("\n")

	for i, job := range m.jobs {
		state := m.states[i]
		icon := FormatState(state)
		if state == stateRunning {
			icon = m.spinner.View()
		}
		fmt.Fprintf(&b, "%s %s %s\n", icon, job.Variant.Name, mutedStyle.Render(job.Location))
	}

	b.WriteString("\n")
	b.WriteString(m.progress.View())
	b.WriteString(" ")
	b.WriteString(infoStyle.Render(fmt.Sprintf("%d/%d batches", m.batchesDone, m.batchesTotal)))
	b.WriteString("\n\n")
	b.WriteString(m.logs.View())

	if m.err != nil && !errors.Is(m.err, context.Canceled) {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.err.Error()))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(FormatKey("q", "abort")))

	return boxStyle.Render(b.String()) + "\n"
}

// RunSeedUI runs jobs in order behind a progress screen and returns the
// results of the jobs that finished.
func RunSeedUI(ctx context.Context, jobs []Job) ([]*seed.Result, error) {
	model := NewSeedModel(ctx, jobs)
	defer model.cancel()

	final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil {
		return nil, err
	}

	m, ok := final.(SeedModel)
	if !ok {
		return nil, fmt.Errorf("unexpected model %T", final)
	}
	return m.Results(), m.Err()
}
