package application

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ericfisherdev/reviewsync/internal/domain/model"
)

// EncodeJSONL renders entities as newline-delimited compact JSON. Records are
// joined by a single newline with none leading or trailing; no entities
// yields the empty string.
func EncodeJSONL(entities []model.Entity) (string, error) {
	lines := make([]string, 0, len(entities))
	for i, e := range entities {
		line, err := marshalCompact(e)
		if err != nil {
			return "", fmt.Errorf("encoding entity %d (%s): %w", i, e.Base().ID, err)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

// marshalCompact marshals v without HTML escaping so bodies containing <, >,
// or & stay readable in the output file.
func marshalCompact(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// DecodeJSONL parses an entity stream written by EncodeJSONL. Blank lines are
// skipped; each record is decoded into the variant named by its type tag.
func DecodeJSONL(data string) ([]model.Entity, error) {
	var entities []model.Entity

	for i, line := range strings.Split(data, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		entity, err := decodeEntity([]byte(line))
		if err != nil {
			return nil, fmt.Errorf("decoding line %d: %w", i+1, err)
		}
		entities = append(entities, entity)
	}

	return entities, nil
}

func decodeEntity(raw []byte) (model.Entity, error) {
	var base model.EntityBase
	if err := json.Unmarshal(raw, &base); err != nil {
		return nil, err
	}

	switch base.Type {
	case model.EntityTypeThread:
		var e model.ThreadEntity
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, err
		}
		return e, nil
	case model.EntityTypeReview:
		var e model.ReviewEntity
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, err
		}
		return e, nil
	case model.EntityTypeIssueComment:
		var e model.IssueCommentEntity
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, fmt.Errorf("unknown entity type %q", base.Type)
	}
}
