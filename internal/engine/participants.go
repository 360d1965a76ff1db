package engine

import (
	"context"

	"github.com/avdeev/channel-scout-go/internal/directory"
	"github.com/avdeev/channel-scout-go/internal/domain"
	"go.uber.org/zap"
)

// ParticipantStrategy samples non-bot members of the source channel for
// shared-membership cross-referencing. The gateway exposes no reverse lookup
// from users to channels, so the sample currently yields no candidates of its
// own; it exists to keep the strategy order stable and because hidden member
// lists are the common case worth observing.
type ParticipantStrategy struct {
	dir         directory.Directory
	sampleLimit int
	logger      *zap.Logger
}

func NewParticipantStrategy(dir directory.Directory, sampleLimit int, logger *zap.Logger) *ParticipantStrategy {
	return &ParticipantStrategy{
		dir:         dir,
		sampleLimit: sampleLimit,
		logger:      logger,
	}
}

func (s *ParticipantStrategy) Name() string {
	return MethodParticipants
}

func (s *ParticipantStrategy) Discover(ctx context.Context, source *domain.ChannelProfile) ([]Hit, error) {
	userIDs, err := s.dir.SampleParticipants(ctx, source, s.sampleLimit)
	if err != nil {
		if directory.IsPermissionDenied(err) {
			// Hidden participant lists are expected for most channels.
			s.logger.Debug("Participant list not accessible",
				zap.Int64("source_id", source.ID),
			)
			return nil, nil
		}
		s.logger.Warn("Participant sampling produced nothing",
			zap.Int64("source_id", source.ID),
			zap.Error(err),
		)
		return nil, nil
	}

	s.logger.Debug("Sampled participants",
		zap.Int64("source_id", source.ID),
		zap.Int("sampled", len(userIDs)),
	)
	return nil, nil
}
