// Package git implements the RepoLocator port by shelling out to git.
package git

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/ericfisherdev/reviewsync/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.RepoLocator = (*Locator)(nil)

var remotePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^git@github\.com:([^/]+)/(.+?)(?:\.git)?/?$`),
	regexp.MustCompile(`^(?:https?|ssh|git)://(?:[^@/]+@)?(?:www\.)?github\.com(?::\d+)?/([^/]+)/(.+?)(?:\.git)?/?$`),
}

// Locator inspects the git checkout in Dir, or the working directory when Dir
// is empty.
type Locator struct {
	Dir string
}

// NewLocator creates a Locator for dir.
func NewLocator(dir string) *Locator {
	return &Locator{Dir: dir}
}

// DetectRepo returns the owner and name of the GitHub repository behind the
// origin remote.
func (l *Locator) DetectRepo(ctx context.Context) (string, string, error) {
	out, err := l.run(ctx, "remote", "get-url", "origin")
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", driven.ErrRepoNotDetected, err)
	}

	owner, repo, ok := ParseRemoteURL(out)
	if !ok {
		return "", "", fmt.Errorf("%w: origin %q is not a github.com remote", driven.ErrRepoNotDetected, out)
	}
	return owner, repo, nil
}

// CurrentBranch returns the checked-out branch name.
func (l *Locator) CurrentBranch(ctx context.Context) (string, error) {
	out, err := l.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	if out == "HEAD" {
		return "", fmt.Errorf("detached HEAD: no current branch")
	}
	return out, nil
}

func (l *Locator) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	if l.Dir != "" {
		cmd.Dir = l.Dir
	}
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(output)), nil
}

// ParseRemoteURL extracts owner and repo from a github.com remote URL in SSH
// (git@github.com:o/r.git) or HTTPS (https://github.com/o/r) form.
func ParseRemoteURL(remote string) (string, string, bool) {
	remote = strings.TrimSpace(remote)
	for _, pattern := range remotePatterns {
		if m := pattern.FindStringSubmatch(remote); m != nil {
			if strings.Contains(m[2], "/") {
				return "", "", false
			}
			return m[1], m[2], true
		}
	}
	return "", "", false
}
