package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/tokamak-network/frontend-deploy/internal/utils"
	"github.com/tokamak-network/frontend-deploy/pkg/domain/entities"
	"github.com/tokamak-network/frontend-deploy/pkg/infrastructure/postgres/schemas"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type RevisionRepository struct {
	db *gorm.DB
}

func NewRevisionRepository(db *gorm.DB) *RevisionRepository {
	return &RevisionRepository{db: db}
}

// CreateRevision inserts exactly one ledger row and writes the generated id
// back into revision.
func (r *RevisionRepository) CreateRevision(
	ctx context.Context,
	revision *entities.RevisionEntity,
) error {
	if revision.RecordCreated.IsZero() {
		revision.RecordCreated = time.Now().UTC()
	}
	newRevision := ToRevisionSchema(revision)
	if err := r.db.WithContext(ctx).Create(newRevision).Error; err != nil {
		return err
	}
	revision.ID = newRevision.ID
	return nil
}

func (r *RevisionRepository) GetRevisionByID(
	ctx context.Context,
	id int64,
) (*entities.RevisionEntity, error) {
	var revision schemas.Revision
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&revision).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrRevisionNotFound
		}
		return nil, err
	}
	return ToRevisionEntity(&revision), nil
}

// ListRevisions returns the listing projection of an app's revisions.
// An empty page yields entities.ErrNoRevisions.
func (r *RevisionRepository) ListRevisions(
	ctx context.Context,
	app string,
	filter entities.RevisionFilter,
) ([]*entities.RevisionSummary, error) {
	query := r.db.WithContext(ctx).Model(&schemas.Revision{}).Where("app = ?", app)
	if filter.Env != "" {
		query = query.Where("deploy_env = ?", filter.Env)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("record_created >= ?", filter.CreatedFrom.UTC())
	}

	switch filter.Sort {
	case entities.RevisionSortByID:
		query = query.Order("id desc")
	default:
		query = query.Order("record_created desc").Order("id desc")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = entities.DefaultRevisionLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	var revisions []schemas.Revision
	if err := query.Offset(offset).Limit(limit).Find(&revisions).Error; err != nil {
		return nil, err
	}
	if len(revisions) == 0 {
		return nil, entities.ErrNoRevisions
	}

	summaries := make([]*entities.RevisionSummary, len(revisions))
	for i := range revisions {
		summaries[i] = ToRevisionSummary(&revisions[i])
	}
	return summaries, nil
}

// FindRevisionForActivation resolves a selector to the earliest successful
// revision of app in env. A selector containing a dot is matched exactly
// against tags, anything else as a prefix of the commit sha.
func (r *RevisionRepository) FindRevisionForActivation(
	ctx context.Context,
	app string,
	env entities.DeployEnv,
	selector string,
) (*entities.ActivationTarget, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return nil, entities.ErrRevisionNotFound
	}

	query := r.db.WithContext(ctx).Model(&schemas.Revision{}).
		Where("app = ? AND deploy_env = ?", app, env).
		Where("status = ?", entities.RevisionStatusSuccess).
		Where("index_html_path IS NOT NULL")

	if entities.IsTagSelector(selector) {
		query = query.Where("tag = ?", selector)
	} else {
		// Recorded shas are lower-case hex.
		prefix := likeEscaper.Replace(strings.ToLower(selector))
		query = query.Where(`commit_sha LIKE ? ESCAPE '\'`, prefix+"%")
	}

	var revision schemas.Revision
	if err := query.Order("id asc").Take(&revision).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrRevisionNotFound
		}
		return nil, err
	}

	return &entities.ActivationTarget{
		RevisionID:    revision.ID,
		S3BucketName:  revision.S3BucketName,
		IndexHTMLPath: *revision.IndexHTMLPath,
	}, nil
}

func ToRevisionSchema(revision *entities.RevisionEntity) *schemas.Revision {
	return &schemas.Revision{
		ID:             revision.ID,
		App:            revision.App,
		DeployEnv:      revision.DeployEnv,
		S3BucketName:   revision.S3BucketName,
		IndexHTMLPath:  revision.IndexHTMLPath,
		RevisionName:   revision.RevisionName,
		Tag:            revision.Tag,
		CommitSHA:      revision.CommitSHA,
		CommitDate:     revision.CommitDate,
		CommitAuthor:   revision.CommitAuthor,
		CommitMessage:  revision.CommitMessage,
		BuildLog:       revision.BuildLog,
		BuildManifest:  datatypes.JSON(revision.BuildManifest),
		Status:         revision.Status,
		RecordCreated:  revision.RecordCreated,
		RecordModified: revision.RecordModified,
	}
}

func ToRevisionEntity(revision *schemas.Revision) *entities.RevisionEntity {
	return &entities.RevisionEntity{
		ID:             revision.ID,
		App:            revision.App,
		DeployEnv:      revision.DeployEnv,
		S3BucketName:   revision.S3BucketName,
		IndexHTMLPath:  revision.IndexHTMLPath,
		RevisionName:   revision.RevisionName,
		Tag:            revision.Tag,
		CommitSHA:      revision.CommitSHA,
		CommitDate:     revision.CommitDate,
		CommitAuthor:   revision.CommitAuthor,
		CommitMessage:  revision.CommitMessage,
		BuildLog:       revision.BuildLog,
		BuildManifest:  json.RawMessage(revision.BuildManifest),
		Status:         revision.Status,
		RecordCreated:  revision.RecordCreated,
		RecordModified: revision.RecordModified,
	}
}

func ToRevisionSummary(revision *schemas.Revision) *entities.RevisionSummary {
	shortSHA := utils.ShortSHA(revision.CommitSHA)
	tag := ""
	if revision.Tag != nil {
		tag = *revision.Tag
	}
	return &entities.RevisionSummary{
		ID:            revision.ID,
		CommitSHA:     shortSHA,
		CommitAuthor:  revision.CommitAuthor,
		CommitDate:    revision.CommitDate,
		CommitMessage: revision.CommitMessage,
		Tag:           tag,
		DeployEnv:     revision.DeployEnv,
		RecordCreated: revision.RecordCreated,
		Status:        revision.Status,
		S3BucketName:  revision.S3BucketName,
		PreviewURL:    utils.PreviewLink(revision.S3BucketName, shortSHA),
	}
}
