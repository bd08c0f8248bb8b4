// Copyright (c) 2026 Monoxity Team
// Monoxity - key-value tables on embedded SQL
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/monoxity/monoxity/internal/i18n"
	"github.com/monoxity/monoxity/store"
)

type fakeSource struct {
	data    map[string]store.Value
	filters []string
	failGet error
}

func (f *fakeSource) GetAll(_ context.Context, filter string) ([]store.Entry, error) {
	f.filters = append(f.filters, filter)
	if f.failGet != nil {
		return nil, f.failGet
	}
	var out []store.Entry
	for k, v := range f.data {
		if strings.Contains(k, filter) {
			out = append(out, store.Entry{Key: k, Value: v})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (f *fakeSource) Delete(_ context.Context, key string) (int64, error) {
	if _, ok := f.data[key]; !ok {
		return 0, nil
	}
	delete(f.data, key)
	return 1, nil
}

func newFakeSource() *fakeSource {
	return &fakeSource{data: map[string]store.Value{
		"alpha": store.MustValue(1),
		"beta":  store.MustValue([]string{"x"}),
		"gamma": store.MustValue(map[string]int{"n": 2}),
	}}
}

// step feeds msg into m and returns the updated model and command.
func step(t *testing.T, m browseModel, msg tea.Msg) (browseModel, tea.Cmd) {
	t.Helper()
	mi, cmd := m.Update(msg)
	bm, ok := mi.(browseModel)
	if !ok {
		t.Fatalf("expected browseModel, got %T", mi)
	}
	return bm, cmd
}

func loaded(t *testing.T, m browseModel) browseModel {
	t.Helper()
	m, _ = step(t, m, m.load()())
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBrowse_InitLoadsEntries(t *testing.T) {
	src := newFakeSource()
	m := newBrowseModel(context.Background(), src, "monoxity", "")
	cmd := m.Init()
	if cmd == nil {
		t.Fatalf("expected Init to return a load command")
	}
	m, _ = step(t, m, cmd())
	if len(m.entries) != 3 || len(m.table.Rows()) != 3 {
		t.Fatalf("expected 3 entries and rows, got %d/%d", len(m.entries), len(m.table.Rows()))
	}
	if got := m.table.Rows()[1][1]; got != `["x"]` {
		t.Fatalf("expected value cell to hold JSON text, got %q", got)
	}
	if !strings.Contains(m.View(), "3 entries") {
		t.Fatalf("expected title with entry count in view")
	}
}

func TestBrowse_FilterAppliesOnEnter(t *testing.T) {
	src := newFakeSource()
	m := loaded(t, newBrowseModel(context.Background(), src, "monoxity", ""))

	m, _ = step(t, m, runes("/"))
	if !m.isFiltering {
		t.Fatalf("expected filtering mode after '/'")
	}
	m, _ = step(t, m, runes("et"))
	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.isFiltering || m.filter != "et" {
		t.Fatalf("expected filter 'et' applied, got filtering=%v filter=%q", m.isFiltering, m.filter)
	}
	if cmd == nil {
		t.Fatalf("expected a reload after applying the filter")
	}
	m, _ = step(t, m, cmd())
	if len(m.entries) != 1 || m.entries[0].Key != "beta" {
		t.Fatalf("expected only beta, got %+v", m.entries)
	}
	if last := src.filters[len(src.filters)-1]; last != "et" {
		t.Fatalf("expected the filter to reach the source, got %q", last)
	}

	// esc clears the filter and reloads everything
	m, cmd = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.filter != "" || cmd == nil {
		t.Fatalf("expected esc to clear the filter and reload")
	}
	m, _ = step(t, m, cmd())
	if len(m.entries) != 3 {
		t.Fatalf("expected 3 entries after clearing, got %d", len(m.entries))
	}
}

func TestBrowse_FilterEscKeepsPreviousFilter(t *testing.T) {
	m := loaded(t, newBrowseModel(context.Background(), newFakeSource(), "monoxity", "al"))
	m, _ = step(t, m, runes("/"))
	m, _ = step(t, m, runes("zzz"))
	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.isFiltering || m.filter != "al" || m.input.Value() != "al" {
		t.Fatalf("expected cancelled edit to keep filter 'al', got %q/%q", m.filter, m.input.Value())
	}
	if cmd != nil {
		t.Fatalf("expected no reload on cancel")
	}
}

func TestBrowse_DeleteNeedsConfirmation(t *testing.T) {
	src := newFakeSource()
	m := loaded(t, newBrowseModel(context.Background(), src, "monoxity", ""))

	m, _ = step(t, m, runes("d"))
	if m.pendingDelete != "alpha" {
		t.Fatalf("expected pending delete of alpha, got %q", m.pendingDelete)
	}
	m, cmd := step(t, m, runes("n"))
	if m.pendingDelete != "" || cmd != nil {
		t.Fatalf("expected any other key to cancel the delete")
	}
	if _, ok := src.data["alpha"]; !ok {
		t.Fatalf("expected alpha to survive a cancelled delete")
	}

	m, _ = step(t, m, runes("d"))
	m, cmd = step(t, m, runes("y"))
	if cmd == nil {
		t.Fatalf("expected a delete command after confirmation")
	}
	m, cmd = step(t, m, cmd())
	if _, ok := src.data["alpha"]; ok {
		t.Fatalf("expected alpha to be deleted")
	}
	if !strings.Contains(m.status, "alpha") || cmd == nil {
		t.Fatalf("expected status and reload after delete, got %q", m.status)
	}
	m, _ = step(t, m, cmd())
	if len(m.entries) != 2 {
		t.Fatalf("expected 2 entries after delete, got %d", len(m.entries))
	}
}

func TestBrowse_DetailShowsIndentedValue(t *testing.T) {
	m := loaded(t, newBrowseModel(context.Background(), newFakeSource(), "monoxity", "gamma"))
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.showDetail {
		t.Fatalf("expected detail view after enter")
	}
	if !strings.Contains(m.View(), `"n": 2`) {
		t.Fatalf("expected indented JSON in detail view, got:\n%s", m.View())
	}
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.showDetail {
		t.Fatalf("expected esc to close the detail view")
	}
}

func stubClipboard(t *testing.T, err error) *[]string {
	t.Helper()
	var copied []string
	orig := writeClipboard
	writeClipboard = func(text string) error {
		if err != nil {
			return err
		}
		copied = append(copied, text)
		return nil
	}
	t.Cleanup(func() { writeClipboard = orig })
	return &copied
}

func TestBrowse_CopyValue(t *testing.T) {
	copied := stubClipboard(t, nil)
	m := loaded(t, newBrowseModel(context.Background(), newFakeSource(), "monoxity", ""))

	m, cmd := step(t, m, runes("c"))
	if cmd != nil {
		t.Fatalf("expected no command from copy")
	}
	if len(*copied) != 1 || (*copied)[0] != "1" {
		t.Fatalf("expected the value of alpha on the clipboard, got %q", *copied)
	}
	if !strings.Contains(m.status, "alpha") {
		t.Fatalf("expected copy status naming the key, got %q", m.status)
	}

	// c also works from the detail view and leaves it open
	m = loaded(t, newBrowseModel(context.Background(), newFakeSource(), "monoxity", "gamma"))
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = step(t, m, runes("c"))
	if !m.showDetail {
		t.Fatalf("expected the detail view to stay open after copying")
	}
	if got := (*copied)[len(*copied)-1]; got != `{"n":2}` {
		t.Fatalf("expected compact JSON of gamma on the clipboard, got %q", got)
	}
}

func TestBrowse_CopyFailureIsShown(t *testing.T) {
	stubClipboard(t, errors.New("no clipboard utility"))
	m := loaded(t, newBrowseModel(context.Background(), newFakeSource(), "monoxity", ""))

	m, _ = step(t, m, runes("c"))
	if m.err == nil || !strings.Contains(m.View(), "no clipboard utility") {
		t.Fatalf("expected clipboard error in view, got err=%v", m.err)
	}
	if m.status != "" {
		t.Fatalf("expected no success status, got %q", m.status)
	}
}

func TestBrowse_CopyWithoutEntries(t *testing.T) {
	copied := stubClipboard(t, nil)
	m := loaded(t, newBrowseModel(context.Background(), newFakeSource(), "monoxity", "nothing"))
	m, _ = step(t, m, runes("c"))
	if len(*copied) != 0 || m.status != "" || m.err != nil {
		t.Fatalf("expected copy on an empty table to do nothing")
	}
}

func TestBrowse_GermanLabels(t *testing.T) {
	if err := i18n.Init("de"); err != nil {
		t.Fatalf("init de: %v", err)
	}
	t.Cleanup(func() { _ = i18n.Init("en") })

	m := loaded(t, newBrowseModel(context.Background(), newFakeSource(), "monoxity", ""))
	if !strings.Contains(m.View(), "3 Einträge") {
		t.Fatalf("expected German title, got:\n%s", m.View())
	}
}

func TestBrowse_LoadErrorIsShown(t *testing.T) {
	src := newFakeSource()
	src.failGet = errors.New("database is locked")
	m := loaded(t, newBrowseModel(context.Background(), src, "monoxity", ""))
	if m.err == nil || !strings.Contains(m.View(), "database is locked") {
		t.Fatalf("expected load error in view")
	}
}

func TestBrowse_QuitKeys(t *testing.T) {
	m := loaded(t, newBrowseModel(context.Background(), newFakeSource(), "monoxity", ""))
	for _, msg := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}, {Type: tea.KeyEsc}} {
		_, cmd := step(t, m, msg)
		if cmd == nil {
			t.Fatalf("expected quit command for %v", msg)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("expected tea.QuitMsg for %v", msg)
		}
	}
}

func TestBrowse_WindowResize(t *testing.T) {
	m := loaded(t, newBrowseModel(context.Background(), newFakeSource(), "monoxity", ""))
	m, _ = step(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	cols := m.table.Columns()
	if cols[0].Width != keyColumnWidth || cols[1].Width != 120-4-keyColumnWidth-8 {
		t.Fatalf("unexpected column widths: %+v", cols)
	}
}

func TestBrowse_AgainstSQLiteStore(t *testing.T) {
	ctx := context.Background()
	st, err := store.New(store.Config{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := st.Initialize(ctx); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	if _, err := st.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}

	m := loaded(t, newBrowseModel(ctx, st, st.Table(), ""))
	if len(m.entries) != 1 || m.entries[0].Value.String() != `"v"` {
		t.Fatalf("unexpected entries: %+v", m.entries)
	}
}
