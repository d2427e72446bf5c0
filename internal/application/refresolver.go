package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ericfisherdev/reviewsync/internal/domain/model"
	"github.com/ericfisherdev/reviewsync/internal/domain/port/driven"
)

// RefResolver turns the optional PR argument of a command into a PRRef.
type RefResolver struct {
	locator driven.RepoLocator
	source  driven.ReviewSource
}

// NewRefResolver creates a RefResolver. source may be nil for commands that
// must stay offline; those then require an explicit PR argument.
func NewRefResolver(locator driven.RepoLocator, source driven.ReviewSource) *RefResolver {
	return &RefResolver{locator: locator, source: source}
}

// Resolve interprets arg with the repository taken from repoOverride or, if
// empty, from the local git remote. An empty arg selects the open pull
// request whose head is the current branch.
func (r *RefResolver) Resolve(ctx context.Context, arg, repoOverride string) (model.PRRef, error) {
	// URLs and owner/repo forms carry their own repository.
	if arg != "" && (repoOverride != "" || !isBareNumber(arg)) {
		return model.ParsePRRef(arg, repoOverride)
	}

	owner, repo, err := r.Repo(ctx, repoOverride)
	if err != nil {
		return model.PRRef{}, err
	}

	if arg != "" {
		return model.ParsePRRef(arg, owner+"/"+repo)
	}

	if r.source == nil {
		return model.PRRef{}, fmt.Errorf("%w: a PR number is required", model.ErrInvalidPRRef)
	}

	branch, err := r.locator.CurrentBranch(ctx)
	if err != nil {
		return model.PRRef{}, fmt.Errorf("detecting current branch: %w", err)
	}

	number, err := r.source.FindPullRequestForBranch(ctx, owner, repo, branch)
	if err != nil {
		return model.PRRef{}, fmt.Errorf("finding pull request for %s: %w", branch, err)
	}

	slog.Debug("pull request detected from branch", "branch", branch, "pr", number)
	return model.PRRef{Owner: owner, Repo: repo, Number: number}, nil
}

// Repo returns the repository named by repoOverride, falling back to the
// origin remote of the working directory.
func (r *RefResolver) Repo(ctx context.Context, repoOverride string) (string, string, error) {
	if repoOverride != "" {
		return model.ParseRepo(repoOverride)
	}

	owner, repo, err := r.locator.DetectRepo(ctx)
	if err != nil {
		if errors.Is(err, driven.ErrRepoNotDetected) {
			return "", "", fmt.Errorf("%w: pass --repo owner/repo", err)
		}
		return "", "", fmt.Errorf("detecting repository: %w", err)
	}

	slog.Debug("repository detected from git remote", "repo", owner+"/"+repo)
	return owner, repo, nil
}

func isBareNumber(arg string) bool {
	_, err := strconv.Atoi(strings.TrimSpace(arg))
	return err == nil
}
