package commands

import (
	"context"
	"fmt"
	"strings"

	"git.home.luguber.info/inful/pillarsync/internal/cluster"
	"git.home.luguber.info/inful/pillarsync/internal/orchestrator"
)

// InspectCmd implements the 'inspect' command.
type InspectCmd struct {
	Course string `arg:"" help:"Course key"`
}

func (i *InspectCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	rt, err := newRuntime(context.Background(), cfg, g.Logger, runtimeOptions{})
	if err != nil {
		return err
	}
	defer rt.Close()

	course, ok := rt.registry.Lookup(i.Course)
	if !ok {
		return orchestrator.ErrUnknownCourse.WithContext("course", i.Course)
	}
	graph, err := rt.orch.LoadGraph(course)
	if err != nil {
		return err
	}

	w := g.out()
	fmt.Fprintf(w, "%s (%s)\n", graph.CourseTitle, course.Key)
	fmt.Fprintf(w, "%d lessons in %d domains\n", graph.Len(), len(graph.Domains()))
	for _, domain := range graph.Domains() {
		lessons := graph.Lessons(domain)
		fmt.Fprintf(w, "\n%s (%d)\n", domain, len(lessons))
		for _, rec := range lessons {
			related := cluster.RelatedN(rec, graph, cfg.Cluster.Limit)
			names := make([]string, len(related))
			for j, r := range related {
				names[j] = r.Filename
			}
			fmt.Fprintf(w, "  %s  %q\n", rec.Filename, rec.Label)
			fmt.Fprintf(w, "    url:     %s\n", rt.orch.LessonURL(course, rec.Filename))
			if len(names) > 0 {
				fmt.Fprintf(w, "    related: %s\n", strings.Join(names, ", "))
			}
		}
	}
	return nil
}
