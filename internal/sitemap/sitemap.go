// Package sitemap writes sitemap.xml (and optionally robots.txt) for the
// static site tree.
package sitemap

import (
	"context"
	"fmt"
	"html"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"git.home.luguber.info/inful/pillarsync/internal/foundation/errors"
	"git.home.luguber.info/inful/pillarsync/internal/schema"
)

// Priority and change-frequency tiers.
const (
	PriorityHome   = "1.0"
	PriorityCourse = "0.8"
	PriorityLesson = "0.6"

	FreqWeekly  = "weekly"
	FreqMonthly = "monthly"
)

const pillarName = "index.html"

// Options controls the walk and the files written.
type Options struct {
	Output      string   // Sitemap path; relative paths resolve against the site root
	IgnoreDirs  []string // Directory names pruned from the walk
	IgnoreFiles []string // Files whose name contains any of these are skipped
	Robots      bool     // Also write robots.txt next to the sitemap
}

// Entry is one <url> element.
type Entry struct {
	Location   string
	LastMod    time.Time
	ChangeFreq string
	Priority   string
}

// Result reports what Generate wrote.
type Result struct {
	Entries     []Entry
	SitemapPath string
	RobotsPath  string
}

// Collect walks root and returns one entry per published HTML page, sorted
// by location.
func Collect(ctx context.Context, root, baseURL string, opts Options) ([]Entry, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	var entries []Entry
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if p != root && slices.Contains(opts.IgnoreDirs, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !strings.HasSuffix(d.Name(), ".html") || ignoredFile(d.Name(), opts.IgnoreFiles) {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		info, err := d.Info()
		if err != nil {
			return err
		}
		entry := Entry{
			Location: base + "/" + schema.EscapePath(rel),
			LastMod:  info.ModTime(),
		}
		entry.Priority, entry.ChangeFreq = tier(rel, d.Name())
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to walk site tree").
			WithContext("root", root).
			Build()
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Location < entries[j].Location
	})
	return entries, nil
}

func tier(rel, name string) (priority, freq string) {
	switch {
	case rel == pillarName:
		return PriorityHome, FreqWeekly
	case name == pillarName:
		return PriorityCourse, FreqWeekly
	default:
		return PriorityLesson, FreqMonthly
	}
}

func ignoredFile(name string, patterns []string) bool {
	for _, pat := range patterns {
		if pat != "" && strings.Contains(name, pat) {
			return true
		}
	}
	return false
}

// Render returns the sitemap document. Dates are UTC calendar days.
func Render(entries []Entry) string {
	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")
	for _, entry := range entries {
		builder.WriteString("  <url>\n")
		builder.WriteString(fmt.Sprintf("    <loc>%s</loc>\n", html.EscapeString(entry.Location)))
		builder.WriteString(fmt.Sprintf("    <lastmod>%s</lastmod>\n", entry.LastMod.UTC().Format(time.DateOnly)))
		builder.WriteString(fmt.Sprintf("    <changefreq>%s</changefreq>\n", entry.ChangeFreq))
		builder.WriteString(fmt.Sprintf("    <priority>%s</priority>\n", entry.Priority))
		builder.WriteString("  </url>\n")
	}
	builder.WriteString(`</urlset>` + "\n")
	return builder.String()
}

// RenderRobots returns a robots.txt allowing everything and pointing at
// sitemapURL.
func RenderRobots(sitemapURL string) string {
	return "User-agent: *\nAllow: /\n\nSitemap: " + sitemapURL + "\n"
}

// Generate collects the entries under root and writes the sitemap, plus
// robots.txt when requested.
func Generate(ctx context.Context, root, baseURL string, opts Options) (*Result, error) {
	if opts.Output == "" {
		opts.Output = "sitemap.xml"
	}
	out := opts.Output
	if !filepath.IsAbs(out) {
		out = filepath.Join(root, out)
	}

	entries, err := Collect(ctx, root, baseURL, opts)
	if err != nil {
		return nil, err
	}
	res := &Result{Entries: entries, SitemapPath: out}
	if err := writeFile(out, Render(entries)); err != nil {
		return nil, err
	}
	slog.Info("Sitemap generated", slog.Int("urls", len(entries)), slog.String("path", out))

	if opts.Robots {
		res.RobotsPath = filepath.Join(filepath.Dir(out), "robots.txt")
		sitemapURL := strings.TrimRight(baseURL, "/") + "/" + filepath.ToSlash(relOrBase(root, out))
		if err := writeFile(res.RobotsPath, RenderRobots(sitemapURL)); err != nil {
			return nil, err
		}
		slog.Info("robots.txt generated", slog.String("path", res.RobotsPath))
	}
	return res, nil
}

func relOrBase(root, p string) string {
	if rel, err := filepath.Rel(root, p); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return filepath.Base(p)
}

func writeFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write file").
			WithContext("path", path).
			Build()
	}
	return nil
}
