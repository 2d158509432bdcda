// Package ghost finds the accounts a GitHub user follows that don't follow back.
package ghost

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ifatinha/ghost-following/backend/internal/github"
	apperrors "github.com/ifatinha/ghost-following/backend/pkg/errors"
)

// RelationLister fetches every record of one relation for a user
type RelationLister interface {
	ListRelation(ctx context.Context, username string, rel github.Relation) ([]github.Record, error)
}

// Service computes ghost sets
type Service struct {
	lister RelationLister
	logger *zap.Logger
}

// NewService creates a new ghost service
func NewService(lister RelationLister, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		lister: lister,
		logger: logger,
	}
}

// GhostFollowing returns the logins username follows that do not follow
// username back. Followers are fetched first, then following; any failure
// aborts with no partial result.
func (s *Service) GhostFollowing(ctx context.Context, username string) (Set, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperrors.ErrEmptyUsername
	}

	log := s.logger.With(
		zap.String("run_id", uuid.New().String()),
		zap.String("username", username),
	)

	followers, err := s.relation(ctx, log, username, github.Followers)
	if err != nil {
		return nil, err
	}

	following, err := s.relation(ctx, log, username, github.Following)
	if err != nil {
		return nil, err
	}

	ghosts := Difference(following, followers)
	log.Info("Ghost following computed",
		zap.Int("followers", len(followers)),
		zap.Int("following", len(following)),
		zap.Int("ghosts", len(ghosts)),
	)
	return ghosts, nil
}

func (s *Service) relation(ctx context.Context, log *zap.Logger, username string, rel github.Relation) (Set, error) {
	log.Info("Fetching relation", zap.String("relation", string(rel)))

	records, err := s.lister.ListRelation(ctx, username, rel)
	if err != nil {
		log.Error("Failed to fetch relation", zap.String("relation", string(rel)), zap.Error(err))
		return nil, err
	}

	logins, err := Logins(records)
	if err != nil {
		log.Error("Malformed relation payload", zap.String("relation", string(rel)), zap.Error(err))
		return nil, err
	}

	log.Info("Relation fetched",
		zap.String("relation", string(rel)),
		zap.Int("records", len(records)),
		zap.Int("unique", len(logins)),
	)
	return logins, nil
}
