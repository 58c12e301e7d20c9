package services

import (
	"strings"
	"unicode/utf8"

	"github.com/yungbote/nodetree-backend/internal/data/txn"
	"github.com/yungbote/nodetree-backend/internal/pkg/apperr"
)

const maxNameLen = 255

func mapRepoErr(op string, err error) error {
	return txn.MapError(op, err)
}

// requireName trims s and rejects empty or over-long values.
func requireName(op, field, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", apperr.InvalidArgument(op, "%s is required", field)
	}
	if utf8.RuneCountInString(s) > maxNameLen {
		return "", apperr.InvalidArgument(op, "%s exceeds %d characters", field, maxNameLen)
	}
	return s, nil
}

func optionalName(op, field, s string) (string, error) {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > maxNameLen {
		return "", apperr.InvalidArgument(op, "%s exceeds %d characters", field, maxNameLen)
	}
	return s, nil
}
