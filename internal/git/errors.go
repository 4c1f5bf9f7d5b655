package git

import (
	"strings"

	"git.home.luguber.info/inful/pillarsync/internal/foundation/errors"
)

// ClassifyGitError translates go-git errors into ClassifiedErrors.
func ClassifyGitError(err error, op string, path string) error {
	if err == nil {
		return nil
	}

	// Already classified
	if _, ok := errors.AsClassified(err); ok {
		return err
	}

	builder := errors.GitError("git operation failed").
		WithCause(err).
		WithContext("op", op).
		WithContext("path", path)

	l := strings.ToLower(err.Error())
	switch {
	case strings.Contains(l, "repository does not exist"):
		builder = errors.NewError(errors.CategoryNotFound, "not a git repository").
			WithCause(err).
			WithContext("path", path).
			WithContext("hint", "run 'git init' in the site root or disable git.commit")
	case strings.Contains(l, "entry not found") || strings.Contains(l, "file does not exist"):
		builder.WithContext("hint", "path is outside the worktree or was removed")
	}
	return builder.Build()
}
