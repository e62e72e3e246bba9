package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/azqeurio/sd-to-c-sort/internal/app"
	"github.com/azqeurio/sd-to-c-sort/internal/config"
	"github.com/azqeurio/sd-to-c-sort/internal/domain"
)

// programDecider forwards collision prompts into the running bubbletea
// program and blocks until the user answers. This is the request-reply form
// of the decision contract: one prompt in flight, the pipeline parked on the
// colliding file until the response lands.
type programDecider struct {
	program *tea.Program
}

func (d *programDecider) Resolve(ctx context.Context, prompt app.CollisionPrompt) (app.Decision, error) {
	resp := make(chan app.Decision, 1)
	d.program.Send(AskMsg{Prompt: prompt, Resp: resp})

	select {
	case <-ctx.Done():
		return app.Decision{}, ctx.Err()
	case decision := <-resp:
		return decision, nil
	}
}

// Run drives one organizing run under the TUI and returns its summary.
func Run(cfg config.Config, pipe *app.Pipeline) (domain.RunSummary, error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	program := tea.NewProgram(NewModel(cfg, cancel))

	if cfg.Policy == domain.PolicyAsk {
		pipe.Decider = &programDecider{program: program}
	}
	pipe.OnScanProgress = func(current, total int) {
		program.Send(ScanProgressMsg{Current: current, Total: total})
	}
	pipe.OnTransferProgress = func(current, total int, file string) {
		program.Send(TransferProgressMsg{Current: current, Total: total, File: file})
	}

	done := make(chan struct{})
	var summary domain.RunSummary
	var runErr error
	go func() {
		defer close(done)
		summary, runErr = pipe.Run(ctx, cfg)
		if runErr != nil {
			program.Send(ErrorMsg{Err: runErr})
			return
		}
		program.Send(DoneMsg{Summary: summary})
	}()

	if _, err := program.Run(); err != nil {
		cancel()
		<-done
		return summary, err
	}

	// The user may quit mid-run; stop scheduling and let the in-flight
	// file finish before reporting.
	cancel()
	<-done
	return summary, runErr
}
