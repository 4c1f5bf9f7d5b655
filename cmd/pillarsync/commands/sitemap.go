package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// SitemapCmd implements the 'sitemap' command.
type SitemapCmd struct {
	Robots bool `help:"Also write robots.txt (also enabled by sitemap.robots)"`
}

func (s *SitemapCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rt := &runtime{cfg: cfg, logger: g.Logger}
	res, err := rt.sitemap(ctx, s.Robots)
	if err != nil {
		return err
	}
	fmt.Fprintf(g.out(), "Sitemap written to %s (%d URLs)\n", res.SitemapPath, len(res.Entries))
	if res.RobotsPath != "" {
		fmt.Fprintf(g.out(), "robots.txt written to %s\n", res.RobotsPath)
	}
	return nil
}
