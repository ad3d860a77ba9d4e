package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrArticleNotFound signals a missing article document.
	ErrArticleNotFound = errors.New("article not found")
	// ErrReferenceNotFound signals that a filter referenced a nonexistent article.
	ErrReferenceNotFound = errors.New("the referenced article does not match any existing article")
	// ErrInvalidFilter signals a malformed filter specification.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrInvalidSort signals an unknown sort key in user input.
	ErrInvalidSort = errors.New("invalid sort")
	// ErrMediaFetch signals a failure fetching media for hashing.
	ErrMediaFetch = errors.New("media fetch failed")
)

// ReferenceNotFoundError wraps ErrReferenceNotFound with the offending article id.
type ReferenceNotFoundError struct {
	ArticleID string
}

func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("%s: %q", ErrReferenceNotFound.Error(), e.ArticleID)
}

func (e *ReferenceNotFoundError) Unwrap() error { return ErrReferenceNotFound }

// NewReferenceNotFound creates a reference-not-found error for the given article id.
func NewReferenceNotFound(articleID string) error {
	return &ReferenceNotFoundError{ArticleID: articleID}
}
