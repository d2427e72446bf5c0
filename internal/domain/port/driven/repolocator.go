package driven

import (
	"context"
	"errors"
)

// ErrRepoNotDetected is returned when the working directory is not a clone of
// a GitHub repository.
var ErrRepoNotDetected = errors.New("no GitHub repository detected")

// RepoLocator defines the driven port for inspecting the local git checkout.
type RepoLocator interface {
	DetectRepo(ctx context.Context) (owner, repo string, err error)
	CurrentBranch(ctx context.Context) (string, error)
}
