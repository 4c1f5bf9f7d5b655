package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/pillarsync/internal/foundation/errors"
	"git.home.luguber.info/inful/pillarsync/internal/orchestrator"
)

// SyncCmd implements the 'sync' command.
type SyncCmd struct {
	Course  []string `short:"k" name:"course" help:"Course key to sync (repeatable); all courses when omitted"`
	DryRun  bool     `help:"Report what would change without writing files"`
	Commit  bool     `help:"Commit changed files with git (also enabled by git.commit)"`
	Sitemap bool     `help:"Regenerate sitemap.xml after syncing"`
}

func (s *SyncCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rt, err := newRuntime(ctx, cfg, g.Logger, runtimeOptions{})
	if err != nil {
		return err
	}
	defer rt.Close()

	report, err := rt.orch.Run(ctx, orchestrator.Request{Courses: s.Course, DryRun: s.DryRun, Trigger: "manual"})
	if report != nil {
		printReport(g.out(), report, root.Verbose)
	}
	if err != nil {
		return err
	}

	if !s.DryRun && (s.Commit || cfg.Git.Commit) {
		hash, err := rt.commit(ctx, report)
		if err != nil {
			return err
		}
		if hash != "" {
			fmt.Fprintf(g.out(), "Committed %d files as %s\n", len(report.Changed()), hash[:8])
		}
	}
	if s.Sitemap && !s.DryRun {
		res, err := rt.sitemap(ctx, false)
		if err != nil {
			return err
		}
		fmt.Fprintf(g.out(), "Sitemap written to %s (%d URLs)\n", res.SitemapPath, len(res.Entries))
	}

	if failed := report.Failures(); len(failed) > 0 {
		return errors.RuntimeError("some files could not be synced").
			WithContext("failed", len(failed)).
			WithContext("run_id", report.RunID).
			Build()
	}
	return nil
}

func printReport(w io.Writer, r *orchestrator.RunReport, verbose bool) {
	mode := ""
	if r.DryRun {
		mode = ", dry run"
	}
	fmt.Fprintf(w, "Run %s (%s%s)\n", r.RunID, r.Trigger, mode)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "COURSE\tUPDATED\tCURRENT\tUNLINKED\tERRORS\tNOTE")
	for _, c := range r.Courses {
		if c.Skipped {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\tskipped: %s\n", c.Course, c.Reason)
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t\n", c.Course, c.Updated, c.Current, c.Unlinked, c.Errored)
	}
	_ = tw.Flush()

	for _, c := range r.Courses {
		for _, o := range c.Outcomes {
			switch {
			case o.Outcome == orchestrator.OutcomeError:
				fmt.Fprintf(w, "  error    %s: %v\n", o.Path, o.Err)
			case o.Outcome == orchestrator.OutcomeUpdated && verbose:
				fmt.Fprintf(w, "  updated  %s (%s)\n", o.Path, strings.Join(o.Applied, ", "))
			}
		}
	}

	t := r.Totals()
	verb := "updated"
	if r.DryRun {
		verb = "would update"
	}
	fmt.Fprintf(w, "Total: %d %s, %d current, %d unlinked, %d errors in %s\n",
		t.Updated, verb, t.Current, t.Unlinked, t.Errored, r.Duration.Round(time.Millisecond))
	if r.Canceled {
		fmt.Fprintln(w, "Run canceled before all courses were processed")
	}
}
