package git

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"git.home.luguber.info/inful/pillarsync/internal/foundation/errors"
	"git.home.luguber.info/inful/pillarsync/internal/logfields"
)

// Author identifies who commits.
type Author struct {
	Name  string
	Email string
}

// Committer stages and commits files inside one worktree.
type Committer struct {
	repo   *git.Repository
	root   string
	author Author
	now    func() time.Time
	logger *slog.Logger
}

// Open finds the repository containing dir, searching parent directories
// the way the git command does.
func Open(dir string, author Author) (*Committer, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, ClassifyGitError(err, "open", dir)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, ClassifyGitError(err, "worktree", dir)
	}
	root, err := filepath.Abs(wt.Filesystem.Root())
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve worktree root").Build()
	}
	return &Committer{repo: repo, root: root, author: author, now: time.Now, logger: slog.Default()}, nil
}

// WithLogger sets the logger.
func (c *Committer) WithLogger(l *slog.Logger) *Committer {
	c.logger = l
	return c
}

// Root returns the absolute worktree root.
func (c *Committer) Root() string { return c.root }

// CommitFiles stages paths (relative to base) and commits them. It returns
// the new commit hash, or "" when staging left nothing to commit; unrelated
// changes already staged in the index are committed too.
func (c *Committer) CommitFiles(ctx context.Context, base string, paths []string, message string) (string, error) {
	if len(paths) == 0 {
		return "", nil
	}
	wt, err := c.repo.Worktree()
	if err != nil {
		return "", ClassifyGitError(err, "worktree", c.root)
	}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		rel, err := c.relative(base, p)
		if err != nil {
			return "", err
		}
		if _, err := wt.Add(rel); err != nil {
			return "", ClassifyGitError(err, "add", rel)
		}
		c.logger.Debug("Staged", logfields.File(rel))
	}

	status, err := wt.Status()
	if err != nil {
		return "", ClassifyGitError(err, "status", c.root)
	}
	if !hasStaged(status) {
		c.logger.Debug("Nothing to commit", slog.Int("paths", len(paths)))
		return "", nil
	}

	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: c.author.Name, Email: c.author.Email, When: c.now()},
	})
	if err != nil {
		return "", ClassifyGitError(err, "commit", c.root)
	}
	c.logger.Info("Committed synced files",
		slog.String("commit", hash.String()[:8]),
		slog.Int("files", len(paths)))
	return hash.String(), nil
}

// Head returns the current HEAD commit hash.
func (c *Committer) Head() (string, error) {
	ref, err := c.repo.Head()
	if err != nil {
		return "", ClassifyGitError(err, "head", c.root)
	}
	return ref.Hash().String(), nil
}

func (c *Committer) relative(base, p string) (string, error) {
	abs := p
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(base, filepath.FromSlash(p))
	}
	abs, err := filepath.Abs(abs)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve path").Build()
	}
	rel, err := filepath.Rel(c.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.GitError("path is outside the worktree").
			WithContext("path", abs).
			WithContext("worktree", c.root).
			Build()
	}
	return filepath.ToSlash(rel), nil
}

func hasStaged(status git.Status) bool {
	for _, s := range status {
		if s.Staging != git.Unmodified && s.Staging != git.Untracked {
			return true
		}
	}
	return false
}
