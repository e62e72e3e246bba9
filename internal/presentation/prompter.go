package presentation

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/azqeurio/sd-to-c-sort/internal/app"
)

// ConsolePrompter answers collision prompts over a terminal. One prompt at a
// time; the pipeline blocks on the colliding file until an answer arrives.
type ConsolePrompter struct {
	In  io.Reader
	Out io.Writer

	reader *bufio.Reader
}

func (c *ConsolePrompter) Resolve(ctx context.Context, prompt app.CollisionPrompt) (app.Decision, error) {
	if c.reader == nil {
		c.reader = bufio.NewReader(c.In)
	}

	fmt.Fprintf(c.Out, "Destination already occupied: %s\n", prompt.DestPath)
	fmt.Fprintf(c.Out, "  [r] rename to %s  [s] skip  [R] rename all  [S] skip all  [c] cancel run\n", filepath.Base(prompt.RenamedPath))

	for {
		select {
		case <-ctx.Done():
			return app.Decision{}, ctx.Err()
		default:
		}

		fmt.Fprint(c.Out, "> ")
		answer, err := c.reader.ReadString('\n')
		if err != nil {
			return app.Decision{}, err
		}

		switch strings.TrimSpace(answer) {
		case "r":
			return app.Decision{Action: app.DecisionRename}, nil
		case "s":
			return app.Decision{Action: app.DecisionSkip}, nil
		case "R":
			return app.Decision{Action: app.DecisionRename, ApplyToAll: true}, nil
		case "S":
			return app.Decision{Action: app.DecisionSkip, ApplyToAll: true}, nil
		case "c":
			return app.Decision{Action: app.DecisionStop}, nil
		}
		fmt.Fprintln(c.Out, "Please answer r, s, R, S or c.")
	}
}
