// Package directory defines the channel directory boundary: profile
// resolution, keyword search, recommendations and participant sampling.
// Implementations classify every failure into one of three kinds so callers
// can pattern-match instead of inspecting transport errors.
package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/avdeev/channel-scout-go/internal/domain"
)

type ErrorKind int

const (
	// KindTransient covers network faults, rate limits and server errors.
	// Callers treat the call as having produced nothing and continue.
	KindTransient ErrorKind = iota
	// KindNotFound means the handle does not resolve to a channel.
	KindNotFound
	// KindPermissionDenied means the provider refused the operation, e.g.
	// hidden participant lists. Expected, not a fault.
	KindPermissionDenied
)

type Error struct {
	Kind      ErrorKind
	Operation string
	Cause     error
}

func (e *Error) Error() string {
	kind := "transient"
	switch e.Kind {
	case KindNotFound:
		kind = "not found"
	case KindPermissionDenied:
		kind = "permission denied"
	}
	if e.Cause != nil {
		return fmt.Sprintf("directory %s: %s: %v", e.Operation, kind, e.Cause)
	}
	return fmt.Sprintf("directory %s: %s", e.Operation, kind)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(kind ErrorKind, operation string, cause error) *Error {
	return &Error{Kind: kind, Operation: operation, Cause: cause}
}

func IsNotFound(err error) bool {
	var dirErr *Error
	return errors.As(err, &dirErr) && dirErr.Kind == KindNotFound
}

func IsPermissionDenied(err error) bool {
	var dirErr *Error
	return errors.As(err, &dirErr) && dirErr.Kind == KindPermissionDenied
}

func IsTransient(err error) bool {
	var dirErr *Error
	if errors.As(err, &dirErr) {
		return dirErr.Kind == KindTransient
	}
	// Unclassified errors are treated as transient: absorb and move on.
	return err != nil
}

// Directory is the external capability consumed by the discovery engine.
type Directory interface {
	// ResolveProfile resolves a handle (username without @) to a profile.
	ResolveProfile(ctx context.Context, handle string) (*domain.ChannelProfile, error)

	// RecommendedChannels returns the provider's native similar-channel list.
	RecommendedChannels(ctx context.Context, source *domain.ChannelProfile) ([]*domain.ChannelProfile, error)

	// SearchByKeyword performs a global full-text channel search.
	SearchByKeyword(ctx context.Context, term string, limit int) ([]*domain.ChannelProfile, error)

	// SampleParticipants returns up to limit participant user IDs, excluding
	// bots. Hidden member lists yield a permission-denied error.
	SampleParticipants(ctx context.Context, source *domain.ChannelProfile, limit int) ([]int64, error)
}
