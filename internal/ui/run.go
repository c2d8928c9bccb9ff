package ui

import (
	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/tabula/pkg/view"
)

// Run starts the interactive program and blocks until the user quits. It
// returns the engine state at exit. Extra ProgramOptions (custom IO in
// tests) are passed to tea.NewProgram.
func Run(engine *view.Engine, opts Options, progOpts ...tea.ProgramOption) (view.State, error) {
	m := New(engine, opts)
	if opts.Width > 0 && opts.Height > 0 {
		progOpts = append(progOpts, tea.WithWindowSize(opts.Width, opts.Height))
	}

	prog := tea.NewProgram(m, progOpts...)
	if _, err := prog.Run(); err != nil {
		return engine.State(), err
	}
	opts.Logger.V(1).Info("interactive session ended", "sort", engine.State().Sort.String(), "page", engine.State().Page)
	return engine.State(), nil
}
