// Copyright (c) 2026 Monoxity Team
// Monoxity - key-value tables on embedded SQL
// This source code is licensed under the MIT license found in the LICENSE file.

// Package tui provides the interactive table browser behind "monoxity browse".
package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// Browse runs the entry browser over src until the user quits or ctx is done.
func Browse(ctx context.Context, src Source, title, filter string, in io.Reader, out io.Writer) error {
	_, err := tea.NewProgram(
		newBrowseModel(ctx, src, title, filter),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	).Run()
	return err
}
