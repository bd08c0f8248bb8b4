// Copyright (c) 2026 Monoxity Team
// Monoxity - key-value tables on embedded SQL
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/monoxity/monoxity/internal/i18n"
	"github.com/monoxity/monoxity/internal/logging"
	"github.com/monoxity/monoxity/store"
)

// Source is the part of a store the browser reads from and deletes in.
type Source interface {
	GetAll(ctx context.Context, filter string) ([]store.Entry, error)
	Delete(ctx context.Context, key string) (int64, error)
}

const keyColumnWidth = 28

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

type entriesLoadedMsg struct {
	entries []store.Entry
	err     error
}

type entryDeletedMsg struct {
	key string
	n   int64
	err error
}

type browseModel struct {
	ctx     context.Context
	src     Source
	title   string
	table   table.Model
	input   textinput.Model
	entries []store.Entry

	filter        string
	isFiltering   bool
	showDetail    bool
	pendingDelete string
	status        string
	err           error
}

func newBrowseModel(ctx context.Context, src Source, title, filter string) browseModel {
	t := table.New(
		table.WithColumns(columnsFor(80)),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorSubtle).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(colorWhite).
		Background(colorHighlight).
		Bold(false)
	t.SetStyles(s)

	in := textinput.New()
	in.Prompt = i18n.T("browse.filter.prompt")
	in.Placeholder = i18n.T("browse.filter.placeholder")
	in.SetValue(filter)

	return browseModel{
		ctx:    ctx,
		src:    src,
		title:  title,
		table:  t,
		input:  in,
		filter: filter,
	}
}

func columnsFor(width int) []table.Column {
	valueWidth := width - keyColumnWidth - 8
	if valueWidth < 20 {
		valueWidth = 20
	}
	return []table.Column{
		{Title: i18n.T("browse.header.key"), Width: keyColumnWidth},
		{Title: i18n.T("browse.header.value"), Width: valueWidth},
	}
}

// load fetches the entries matching filter.
func (m browseModel) load() tea.Cmd {
	ctx, src, filter := m.ctx, m.src, m.filter
	return func() tea.Msg {
		entries, err := src.GetAll(ctx, filter)
		return entriesLoadedMsg{entries: entries, err: err}
	}
}

func (m browseModel) remove(key string) tea.Cmd {
	ctx, src := m.ctx, m.src
	return func() tea.Msg {
		n, err := src.Delete(ctx, key)
		return entryDeletedMsg{key: key, n: n, err: err}
	}
}

func (m *browseModel) rebuildTableRows() {
	rows := make([]table.Row, 0, len(m.entries))
	for _, e := range m.entries {
		rows = append(rows, table.Row{e.Key, e.Value.String()})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.GotoTop()
	}
}

// selected returns the entry under the cursor.
func (m browseModel) selected() (store.Entry, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.entries) {
		return store.Entry{}, false
	}
	return m.entries[i], true
}

func (m browseModel) Init() tea.Cmd {
	return m.load()
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// title(2) + filter/help(3) + margins(2)
		m.table.SetHeight(msg.Height - 7)
		m.table.SetWidth(msg.Width - 4)
		m.table.SetColumns(columnsFor(msg.Width - 4))
		return m, nil

	case entriesLoadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.entries = msg.entries
			m.rebuildTableRows()
		}
		return m, nil

	case entryDeletedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		logging.Debugf("browse: deleted %q (%d rows)", msg.key, msg.n)
		m.status = i18n.Tf("browse.delete.done", msg.key)
		return m, m.load()

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}

		if m.isFiltering {
			switch msg.Type {
			case tea.KeyEsc:
				m.isFiltering = false
				m.input.Blur()
				m.input.SetValue(m.filter)
				return m, nil
			case tea.KeyEnter:
				m.isFiltering = false
				m.input.Blur()
				m.filter = m.input.Value()
				m.status = ""
				return m, m.load()
			}
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}

		if m.pendingDelete != "" {
			key := m.pendingDelete
			m.pendingDelete = ""
			if msg.String() == "y" {
				return m, m.remove(key)
			}
			m.status = i18n.T("browse.delete.cancelled")
			return m, nil
		}

		if m.showDetail {
			switch msg.String() {
			case "enter", "esc", "q":
				m.showDetail = false
			case "c":
				m.copySelected()
			}
			return m, nil
		}

		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "esc":
			if m.filter != "" {
				m.filter = ""
				m.input.SetValue("")
				return m, m.load()
			}
			return m, tea.Quit
		case "/":
			m.isFiltering = true
			return m, m.input.Focus()
		case "r":
			m.status = ""
			return m, m.load()
		case "enter":
			if _, ok := m.selected(); ok {
				m.showDetail = true
			}
			return m, nil
		case "c":
			m.copySelected()
			return m, nil
		case "d":
			if e, ok := m.selected(); ok {
				m.pendingDelete = e.Key
			}
			return m, nil
		}
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// copySelected puts the JSON text of the selected value on the clipboard.
func (m *browseModel) copySelected() {
	e, ok := m.selected()
	if !ok {
		return
	}
	if err := writeClipboard(e.Value.String()); err != nil {
		m.status = ""
		m.err = fmt.Errorf(i18n.T("browse.copy.failed"), err)
		return
	}
	m.err = nil
	m.status = i18n.Tf("browse.copy.done", e.Key)
}

func (m browseModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(i18n.Tf("browse.title", m.title, len(m.entries))) + "\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(i18n.Tf("browse.error", m.err)) + "\n")
	}

	switch {
	case m.showDetail:
		e, _ := m.selected()
		b.WriteString(detailStyle.Render(e.Key + "\n\n" + indentValue(e.Value)))
	case len(m.entries) == 0:
		b.WriteString(helpStyle.Render(i18n.T("browse.empty")))
	default:
		b.WriteString(m.table.View())
	}
	b.WriteString(m.footerView())
	return docStyle.Render(b.String())
}

func (m browseModel) footerView() string {
	var line string
	switch {
	case m.isFiltering:
		line = m.input.View() + helpStyle.Render(i18n.T("browse.filter.editing"))
	case m.pendingDelete != "":
		line = specialStyle.Render(i18n.Tf("browse.delete.confirm", m.pendingDelete))
	case m.showDetail:
		line = helpStyle.Render(i18n.T("browse.detail.help"))
	default:
		status := i18n.T("browse.filter.none")
		if m.filter != "" {
			status = i18n.Tf("browse.filter.active", m.filter)
		}
		line = helpStyle.Render(i18n.Tf("browse.help", status))
		if m.status != "" {
			line = successStyle.Render(m.status) + "  " + line
		}
	}
	return "\n" + line
}

func indentValue(v store.Value) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, v.Raw(), "", "  "); err != nil {
		return v.String()
	}
	return buf.String()
}
