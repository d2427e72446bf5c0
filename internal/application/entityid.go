package application

import (
	"strings"

	"github.com/ericfisherdev/reviewsync/internal/domain/model"
)

// GitHub node ID prefixes. These are a convention of the GitHub GraphQL API.
const (
	threadIDPrefix       = "PRRT_"
	reviewIDPrefix       = "PRR_"
	reviewFamilyIDPrefix = "PRR"
)

// ClassifyEntityID determines which kind of entity a node ID names, by prefix.
// Anything outside the PRR family is treated as an issue comment node ID;
// other PRR-family IDs (for example review comments, PRRC_) are unknown.
func ClassifyEntityID(id string) model.EntityType {
	switch {
	case id == "":
		return model.EntityTypeUnknown
	case strings.HasPrefix(id, threadIDPrefix):
		return model.EntityTypeThread
	case strings.HasPrefix(id, reviewIDPrefix):
		return model.EntityTypeReview
	case !strings.HasPrefix(id, reviewFamilyIDPrefix):
		return model.EntityTypeIssueComment
	default:
		return model.EntityTypeUnknown
	}
}
