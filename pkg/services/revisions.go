package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tokamak-network/frontend-deploy/internal/consts"
	"github.com/tokamak-network/frontend-deploy/pkg/domain/entities"
	"github.com/tokamak-network/frontend-deploy/pkg/infrastructure/postgres/repositories"
	"gorm.io/gorm"
)

type RevisionService struct {
	db *gorm.DB
}

func NewRevisionService(db *gorm.DB) *RevisionService {
	return &RevisionService{db: db}
}

// ListRevisions returns entities.ErrNoRevisions when nothing matches.
func (s *RevisionService) ListRevisions(
	ctx context.Context,
	app string,
	filter entities.RevisionFilter,
) ([]*entities.RevisionSummary, error) {
	revisionRepo := repositories.NewRevisionRepository(s.db)
	return revisionRepo.ListRevisions(ctx, app, filter)
}

// ListRevisionsText renders the listing for chat replies.
func (s *RevisionService) ListRevisionsText(
	ctx context.Context,
	app string,
	filter entities.RevisionFilter,
) (string, error) {
	revisions, err := s.ListRevisions(ctx, app, filter)
	if err != nil && !errors.Is(err, entities.ErrNoRevisions) {
		return "", err
	}
	return FormatRevisions(app, filter.Env, revisions), nil
}

func FormatRevisions(app string, env entities.DeployEnv, revisions []*entities.RevisionSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s - %s*\n", app, env)
	if len(revisions) == 0 {
		b.WriteString(consts.NoRevisions)
		return b.String()
	}
	for _, rev := range revisions {
		fmt.Fprintf(&b, "`%s %s %s %s %s %s`\n",
			rev.CommitSHA,
			rev.RecordCreated.Format(time.DateTime),
			rev.Status,
			rev.CommitMessage,
			rev.CommitAuthor,
			rev.Tag,
		)
	}
	return b.String()
}
