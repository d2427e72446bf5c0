package model

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrInvalidPRRef is returned when a pull request reference cannot be parsed.
	ErrInvalidPRRef = errors.New("invalid PR reference")
	// ErrInvalidRepo is returned when a repository name is not in owner/repo form.
	ErrInvalidRepo = errors.New("invalid repository")
)

var (
	prURLPattern       = regexp.MustCompile(`github\.com/([^/]+)/([^/]+)/pull/(\d+)`)
	prShorthandPattern = regexp.MustCompile(`^([^/]+)/([^/#]+)[#/](\d+)$`)
	prTrailingPage     = regexp.MustCompile(`/(files|commits|checks|conflicts)/?$`)
)

// PRRef identifies a single pull request by owner, repository, and number.
type PRRef struct {
	Owner  string
	Repo   string
	Number int
}

// FullName returns "owner/repo".
func (r PRRef) FullName() string {
	return r.Owner + "/" + r.Repo
}

// String returns "owner/repo#number".
func (r PRRef) String() string {
	return fmt.Sprintf("%s/%s#%d", r.Owner, r.Repo, r.Number)
}

// ParsePRURL extracts a PRRef from a GitHub pull request URL. The scheme,
// a "www." host prefix, trailing tab paths such as /files, a trailing slash,
// and query strings are all tolerated.
func ParsePRURL(raw string) (PRRef, error) {
	clean := strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	clean = prTrailingPage.ReplaceAllString(clean, "")

	m := prURLPattern.FindStringSubmatch(clean)
	if m == nil {
		return PRRef{}, fmt.Errorf("%w: %q is not a GitHub pull request URL", ErrInvalidPRRef, raw)
	}

	number, err := strconv.Atoi(m[3])
	if err != nil {
		return PRRef{}, fmt.Errorf("%w: %q: %v", ErrInvalidPRRef, raw, err)
	}

	return PRRef{Owner: m[1], Repo: m[2], Number: number}, nil
}

// ParsePRRef parses a user-supplied PR argument. Accepted forms are a full
// GitHub URL, "owner/repo#123", "owner/repo/123", and a bare number. A bare
// number takes its repository from defaultRepo ("owner/repo"), which must then
// be non-empty.
func ParsePRRef(arg, defaultRepo string) (PRRef, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return PRRef{}, fmt.Errorf("%w: empty reference", ErrInvalidPRRef)
	}

	if strings.HasPrefix(arg, "http") || strings.Contains(arg, "github.com") {
		return ParsePRURL(arg)
	}

	if strings.Contains(arg, "/") {
		m := prShorthandPattern.FindStringSubmatch(arg)
		if m == nil {
			return PRRef{}, fmt.Errorf("%w: %q (expected owner/repo#number)", ErrInvalidPRRef, arg)
		}
		number, err := strconv.Atoi(m[3])
		if err != nil {
			return PRRef{}, fmt.Errorf("%w: %q: %v", ErrInvalidPRRef, arg, err)
		}
		return PRRef{Owner: m[1], Repo: m[2], Number: number}, nil
	}

	number, err := strconv.Atoi(arg)
	if err != nil || number <= 0 {
		return PRRef{}, fmt.Errorf("%w: %q is not a PR number", ErrInvalidPRRef, arg)
	}

	if defaultRepo == "" {
		return PRRef{}, fmt.Errorf("%w: a repository is required when the PR is given as a number", ErrInvalidPRRef)
	}

	owner, repo, err := ParseRepo(defaultRepo)
	if err != nil {
		return PRRef{}, err
	}

	return PRRef{Owner: owner, Repo: repo, Number: number}, nil
}

// ParseRepo splits an "owner/repo" string into its two components.
func ParseRepo(fullName string) (string, string, error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" || strings.Contains(parts[1], "/") {
		return "", "", fmt.Errorf("%w %q: expected owner/repo", ErrInvalidRepo, fullName)
	}
	return parts[0], parts[1], nil
}
