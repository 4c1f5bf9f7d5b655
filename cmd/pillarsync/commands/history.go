package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/pillarsync/internal/foundation/errors"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int  `short:"n" help:"Number of runs to show" default:"10"`
	JSON  bool `help:"Print runs as JSON"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	if !cfg.Events.Enabled {
		return errors.ConfigError("run history is disabled").
			WithContext("hint", "set events.enabled: true in "+root.Config).
			Build()
	}

	rt := &runtime{cfg: cfg, logger: g.Logger}
	if err := rt.openHistory(context.Background()); err != nil {
		return err
	}
	defer rt.Close()

	runs := rt.history.History(h.Limit)
	if h.JSON {
		enc := json.NewEncoder(g.out())
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(g.out(), "No runs recorded yet")
		return nil
	}

	tw := tabwriter.NewWriter(g.out(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN ID\tSTARTED\tTRIGGER\tSTATUS\tCOURSES\tUPDATED\tERRORS\tDURATION")
	for _, r := range runs {
		status := r.Status
		if r.DryRun {
			status += " (dry run)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			shortID(r.RunID), r.StartedAt.Local().Format(time.DateTime), r.Trigger, status,
			r.CoursesSynced, r.Files.Updated, r.Files.Errored, r.Duration.Round(time.Millisecond))
	}
	return tw.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
