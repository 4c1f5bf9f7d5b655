package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
)

// CoursesCmd implements the 'courses' command.
type CoursesCmd struct{}

func (c *CoursesCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	reg, err := cfg.Registry()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(g.out(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tNAME\tPATH\tPILLAR")
	for _, course := range reg.Courses() {
		pillar := "missing"
		if _, err := os.Stat(filepath.Join(cfg.Site.Root, filepath.FromSlash(course.SitePath), cfg.Site.PillarFile)); err == nil {
			pillar = "found"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", course.Key, course.DisplayName, course.SitePath, pillar)
	}
	return tw.Flush()
}
