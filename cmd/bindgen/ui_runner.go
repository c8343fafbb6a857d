package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"bindgen/internal/config"
	"bindgen/internal/driver"
	"bindgen/internal/ui"
)

type runOutcome struct {
	results []*driver.Result
	err     error
}

// runWithUI runs the driver while a progress view renders its events on out.
func runWithUI(ctx context.Context, out io.Writer, title string, cfg *config.Config, inputs []string, opts driver.Options) ([]*driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		results, err := driver.Run(ctx, cfg, inputs, optsCopy)
		outcomeCh <- runOutcome{results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, inputs, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithInput(nil), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// Если программа вышла раньше, воркеры не должны застрять на отправке.
	for range events {
	}
	outcome := <-outcomeCh
	if outcome.err != nil {
		return nil, outcome.err
	}
	return outcome.results, uiErr
}
