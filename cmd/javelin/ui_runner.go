package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"javelin/internal/buildpipeline"
	"javelin/internal/ui"
)

type normalizeOutcome struct {
	result buildpipeline.NormalizeResult
	err    error
}

func runNormalizeWithUI(ctx context.Context, title string, units []string, req *buildpipeline.NormalizeRequest) (buildpipeline.NormalizeResult, error) {
	if req == nil {
		return buildpipeline.NormalizeResult{}, fmt.Errorf("missing normalize request")
	}
	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan normalizeOutcome, 1)

	go func() {
		reqCopy := *req
		reqCopy.Progress = buildpipeline.ChannelSink{Ch: events}
		res, err := buildpipeline.Normalize(ctx, &reqCopy)
		outcomeCh <- normalizeOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, units, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
