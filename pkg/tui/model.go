// Package tui is the interactive terminal dashboard. It follows the
// bubbletea model: fetches run as commands and their results arrive as
// messages that Update applies to the view state.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/coolbeans/hemiciclo/pkg/analysis"
	"github.com/coolbeans/hemiciclo/pkg/api"
	"github.com/coolbeans/hemiciclo/pkg/directory"
	"github.com/coolbeans/hemiciclo/pkg/fetch"
	"github.com/coolbeans/hemiciclo/pkg/legislature"
	"github.com/coolbeans/hemiciclo/pkg/ui"
)

const (
	tabParties      = "partidos"
	tabDeputies     = "deputados"
	tabDistricts    = "circulos"
	tabTransparency = "transparencia"
)

var tabTitles = map[string]string{
	tabParties:      "Partidos",
	tabDeputies:     "Deputados",
	tabDistricts:    "Círculos",
	tabTransparency: "Transparência",
}


// Source is the subset of the API client the dashboard reads from.
type Source interface {
	Legislatures(ctx context.Context) ([]legislature.Record, error)
	Parties(ctx context.Context, legislatureOrdinal string) ([]api.Party, error)
	Deputies(ctx context.Context, query api.DeputyQuery) (*api.Page[api.Deputy], error)
	Transparency(ctx context.Context, legislatureOrdinal string) ([]api.TransparencyRecord, error)
}

// Options configures the dashboard.
type Options struct {
	// Legislature preselects a legislature; empty uses the resolved default.
	Legislature string
	PageSize    int
	Tab         string
	Logger      *zap.Logger
}

type legislaturesLoadedMsg struct {
	result fetch.Result[[]legislature.Record]
}

type partiesLoadedMsg struct {
	legislature string
	result      fetch.Result[[]api.Party]
}

type deputiesLoadedMsg struct {
	legislature string
	result      fetch.Result[*api.Page[api.Deputy]]
}

type districtsLoadedMsg struct {
	legislature string
	result      fetch.Result[[]analysis.DistrictGroup]
}

type transparencyLoadedMsg struct {
	legislature string
	result      fetch.Result[[]analysis.PartyMetrics]
}

// Model is the dashboard state.
//
// Responses are applied in arrival order. Switching legislature while an
// earlier request is still in flight can leave that earlier response on
// screen if it arrives last.
type Model struct {
	ctx    context.Context
	source Source
	logger *zap.Logger

	keys     keyMap
	help     help.Model
	tabs     *ui.Tabs
	dropdown *ui.Dropdown
	pager    directory.Pager

	selected string

	legislatures *fetch.State[[]legislature.Record]
	parties      *fetch.State[[]api.Party]
	deputies     *fetch.State[*api.Page[api.Deputy]]
	districts    *fetch.State[[]analysis.DistrictGroup]
	transparency *fetch.State[[]analysis.PartyMetrics]

	width  int
	height int
}

// New creates a dashboard reading from source.
func New(ctx context.Context, source Source, opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = directory.DefaultPerPage
	}

	m := &Model{
		ctx:          ctx,
		source:       source,
		logger:       logger.Named("tui"),
		keys:         defaultKeyMap(),
		help:         help.New(),
		tabs:         ui.NewTabs(tabParties, tabDeputies, tabDistricts, tabTransparency),
		dropdown:     ui.NewDropdown(),
		pager:        directory.NewPager(1, pageSize, 0),
		selected:     legislature.NormalizeOrdinal(opts.Legislature),
		legislatures: fetch.NewState[[]legislature.Record](nil),
		parties:      fetch.NewState[[]api.Party](nil),
		deputies:     fetch.NewState[*api.Page[api.Deputy]](nil),
		districts:    fetch.NewState[[]analysis.DistrictGroup](nil),
		transparency: fetch.NewState[[]analysis.PartyMetrics](nil),
	}
	if opts.Tab != "" {
		m.tabs.FromFragment(opts.Tab)
	}
	m.tabs.OnChange = func(from, to string) {
		m.logger.Debug("tab changed", zap.String("from", from), zap.String("to", to))
	}
	return m
}

// Init starts the legislature fetch.
func (m *Model) Init() tea.Cmd {
	return m.fetchLegislatures()
}

// Update applies a message to the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case legislaturesLoadedMsg:
		return m, m.applyLegislatures(msg.result)

	case partiesLoadedMsg:
		m.noteStale("parties", msg.legislature)
		m.parties.Apply(msg.result)
	case deputiesLoadedMsg:
		m.noteStale("deputies", msg.legislature)
		m.deputies.Apply(msg.result)
		if msg.result.IsReady() {
			page := msg.result.Data
			m.pager = directory.NewPager(page.Page, m.pager.PerPage, page.Total)
		}
	case districtsLoadedMsg:
		m.noteStale("districts", msg.legislature)
		m.districts.Apply(msg.result)
	case transparencyLoadedMsg:
		m.noteStale("transparency", msg.legislature)
		m.transparency.Apply(msg.result)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) noteStale(section, ordinal string) {
	if ordinal != m.selected {
		m.logger.Debug("applying response for a previous selection",
			zap.String("section", section),
			zap.String("response", ordinal),
			zap.String("selected", m.selected))
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) && msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.dropdown.IsOpen() {
		switch {
		case key.Matches(msg, m.keys.Up):
			m.dropdown.Up()
		case key.Matches(msg, m.keys.Down):
			m.dropdown.Down()
		case key.Matches(msg, m.keys.Close), key.Matches(msg, m.keys.Legislature):
			m.dropdown.Close()
		case key.Matches(msg, m.keys.Choose):
			value, ok := m.dropdown.Choose()
			if ok && value != m.selected {
				m.selected = value
				m.logger.Info("legislature selected", zap.String("legislature", value))
				return m, m.loadLegislatureData()
			}
		default:
			// Any other key acts as a click outside the menu.
			m.dropdown.ClickOutside()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.NextTab):
		m.tabs.Next()
	case key.Matches(msg, m.keys.PrevTab):
		m.tabs.Prev()
	case key.Matches(msg, m.keys.Legislature):
		m.dropdown.Toggle()
	case key.Matches(msg, m.keys.NextPage):
		if m.tabs.Active() == tabDeputies && m.pager.HasNext() {
			m.pager = m.pager.Next()
			return m, m.fetchDeputies(m.selected, m.pager.Page)
		}
	case key.Matches(msg, m.keys.PrevPage):
		if m.tabs.Active() == tabDeputies && m.pager.HasPrev() {
			m.pager = m.pager.Prev()
			return m, m.fetchDeputies(m.selected, m.pager.Page)
		}
	case key.Matches(msg, m.keys.Refresh):
		return m, m.fetchLegislatures()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// applyLegislatures resolves the legislature list and, when a legislature is
// known, starts loading its data.
func (m *Model) applyLegislatures(result fetch.Result[[]legislature.Record]) tea.Cmd {
	m.legislatures.Apply(result)
	if !result.IsReady() {
		m.logger.Warn("legislatures unavailable", zap.String("reason", result.Message))
		return nil
	}

	announce := func(ordinal string) {
		m.selected = ordinal
		m.logger.Info("defaulted to legislature", zap.String("legislature", ordinal))
	}
	resolution := legislature.Resolve(result.Data, m.selected, announce)
	if m.selected != "" {
		if record, ok := resolution.Find(m.selected); ok {
			m.selected = record.Ordinal
		} else {
			m.logger.Warn("unknown legislature, using default", zap.String("legislature", m.selected))
			m.selected = ""
			resolution = legislature.Resolve(result.Data, "", announce)
		}
	}
	resolution.Notify()

	options := make([]ui.Option, 0, len(resolution.Ordered))
	for _, record := range resolution.Ordered {
		options = append(options, ui.Option{Value: record.Ordinal, Label: record.DisplayName()})
	}
	m.dropdown.SetOptions(options)
	m.dropdown.SetSelected(m.selected)

	if m.selected == "" {
		return nil
	}
	return m.loadLegislatureData()
}

func (m *Model) loadLegislatureData() tea.Cmd {
	ordinal := m.selected
	m.pager = m.pager.Goto(1)
	return tea.Batch(
		m.fetchParties(ordinal),
		m.fetchDeputies(ordinal, 1),
		m.fetchDistricts(ordinal),
		m.fetchTransparency(ordinal),
	)
}

func (m *Model) fetchLegislatures() tea.Cmd {
	m.legislatures.Begin()
	ctx, source := m.ctx, m.source
	return func() tea.Msg {
		return legislaturesLoadedMsg{result: fetch.LoadList(ctx, source.Legislatures)}
	}
}

func (m *Model) fetchParties(ordinal string) tea.Cmd {
	m.parties.Begin()
	ctx, source := m.ctx, m.source
	return func() tea.Msg {
		result := fetch.LoadList(ctx, func(ctx context.Context) ([]api.Party, error) {
			return source.Parties(ctx, ordinal)
		})
		return partiesLoadedMsg{legislature: ordinal, result: result}
	}
}

func (m *Model) fetchDeputies(ordinal string, page int) tea.Cmd {
	m.deputies.Begin()
	ctx, source, perPage := m.ctx, m.source, m.pager.PerPage
	return func() tea.Msg {
		result := fetch.Load(ctx, func(ctx context.Context) (*api.Page[api.Deputy], error) {
			deputies, err := source.Deputies(ctx, api.DeputyQuery{Legislature: ordinal, Page: page, PerPage: perPage})
			if err == nil && (deputies == nil || len(deputies.Items) == 0) {
				return nil, api.ErrEmpty
			}
			return deputies, err
		})
		return deputiesLoadedMsg{legislature: ordinal, result: result}
	}
}

func (m *Model) fetchDistricts(ordinal string) tea.Cmd {
	m.districts.Begin()
	ctx, source := m.ctx, m.source
	return func() tea.Msg {
		result := fetch.LoadList(ctx, func(ctx context.Context) ([]analysis.DistrictGroup, error) {
			deputies, err := directory.AllDeputies(ctx, source, ordinal)
			if err != nil {
				return nil, err
			}
			return analysis.GroupByDistrict(deputies), nil
		})
		return districtsLoadedMsg{legislature: ordinal, result: result}
	}
}

func (m *Model) fetchTransparency(ordinal string) tea.Cmd {
	m.transparency.Begin()
	ctx, source := m.ctx, m.source
	return func() tea.Msg {
		result := fetch.LoadList(ctx, func(ctx context.Context) ([]analysis.PartyMetrics, error) {
			records, err := source.Transparency(ctx, ordinal)
			if err != nil {
				return nil, err
			}
			return analysis.PartyTransparency(records), nil
		})
		return transparencyLoadedMsg{legislature: ordinal, result: result}
	}
}

// Selected returns the legislature the dashboard is showing.
func (m *Model) Selected() string { return m.selected }

// Run starts the dashboard on the terminal and blocks until it exits.
func Run(ctx context.Context, source Source, opts Options) error {
	program := tea.NewProgram(New(ctx, source, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}
