package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"modmerge/internal/emit"
	"modmerge/internal/merge"
	"modmerge/internal/modfile"
	"modmerge/internal/pipeline"
	"modmerge/internal/ui"
)

type mergeOutcome struct {
	result *merge.Result
	err    error
}

// runMergeWithUI drives the merge in a goroutine while Bubble Tea renders
// the event stream; the UI exits when the event channel closes.
func runMergeWithUI(ctx context.Context, title string, mods []string, files []*modfile.ModFile, sink emit.LineWriter, opts merge.Options) (*merge.Result, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan mergeOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Sink = pipeline.ChannelSink{Ch: events}
		res, err := merge.Merge(ctx, files, sink, optsCopy)
		outcomeCh <- mergeOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, mods, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
