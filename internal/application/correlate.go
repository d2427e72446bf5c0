package application

import (
	"strconv"
	"strings"

	"github.com/ericfisherdev/reviewsync/internal/domain/model"
)

// correlateCommit recovers the commit SHA of a thread by matching its first
// comment against the flat REST review comment list. Only numeric comment IDs
// can be matched; node IDs (which contain "_") yield nil without any further
// lookup.
func correlateCommit(comments []model.ThreadComment, flat []model.ReviewComment) *string {
	if len(comments) == 0 {
		return nil
	}

	firstID := comments[0].ID
	if strings.Contains(firstID, "_") {
		return nil
	}

	numericID, err := strconv.ParseInt(firstID, 10, 64)
	if err != nil {
		return nil
	}

	for _, rc := range flat {
		if rc.ID == numericID {
			return model.OptionalString(rc.CommitID)
		}
	}

	return nil
}
