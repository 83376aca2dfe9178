package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tokamak-network/frontend-deploy/internal/consts"
	"github.com/tokamak-network/frontend-deploy/internal/logger"
	"github.com/tokamak-network/frontend-deploy/internal/utils"
	"github.com/tokamak-network/frontend-deploy/pkg/config"
	"github.com/tokamak-network/frontend-deploy/pkg/domain/entities"
	"github.com/tokamak-network/frontend-deploy/pkg/infrastructure/notify"
	"github.com/tokamak-network/frontend-deploy/pkg/infrastructure/postgres/repositories"
	"github.com/tokamak-network/frontend-deploy/pkg/infrastructure/postgres/txscope"
	"github.com/tokamak-network/frontend-deploy/pkg/infrastructure/storage"
	"github.com/tokamak-network/frontend-deploy/pkg/infrastructure/toolchain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ConfigLoader interface {
	LoadApp(app string, env entities.DeployEnv) (*config.AppConfig, error)
	LoadGlobal(env entities.DeployEnv) (config.Settings, error)
}

type VCS interface {
	CommitInfo(ctx context.Context) (*entities.CommitInfo, error)
}

type Toolchain interface {
	WriteEnvFile(env entities.DeployEnv, vars map[string]string) (string, error)
	Install(ctx context.Context) error
	ReadManifest() (map[string]interface{}, error)
	WriteManifest(manifest map[string]interface{}) ([]byte, error)
	Build(ctx context.Context, env entities.DeployEnv) (string, error)
}

type DeployService struct {
	db        *gorm.DB
	loader    ConfigLoader
	vcs       VCS
	toolchain Toolchain
	storage   storage.Factory
	notifier  notify.Notifier
	metrics   *Metrics
	now       func() time.Time
}

func NewDeployService(
	db *gorm.DB,
	loader ConfigLoader,
	vcs VCS,
	toolchain Toolchain,
	storageFactory storage.Factory,
	notifier notify.Notifier,
	metrics *Metrics,
) *DeployService {
	return &DeployService{
		db:        db,
		loader:    loader,
		vcs:       vcs,
		toolchain: toolchain,
		storage:   storageFactory,
		notifier:  notifier,
		metrics:   metrics,
		now:       time.Now,
	}
}

// Run performs one deploy attempt of app to env and records exactly one
// revision. Stage failures end up in the recorded revision; the returned
// error is non-nil only when the revision itself could not be written.
func (s *DeployService) Run(
	ctx context.Context,
	app string,
	env entities.DeployEnv,
) (*entities.RevisionEntity, error) {
	started := s.now()
	log := logger.L().With(
		zap.String("runId", uuid.NewString()),
		zap.String("app", app),
		zap.String("env", env.String()),
	)

	scope, err := txscope.New(s.db)
	if err != nil {
		return nil, err
	}

	var revision *entities.RevisionEntity
	err = scope.Run(ctx, func(sess *txscope.Session) error {
		revision = s.execute(ctx, log, app, env)

		revisionRepo := repositories.NewRevisionRepository(sess.DB)
		if err := revisionRepo.CreateRevision(ctx, revision); err != nil {
			return fmt.Errorf("failed to record revision: %w", err)
		}

		if revision.Status == entities.RevisionStatusSuccess {
			recorded := *revision
			sess.AfterCommit(func(*gorm.DB) error {
				s.notify(ctx, log, &recorded)
				return nil
			})
		}
		return nil
	})
	if err != nil {
		log.Error("failed to record deploy attempt", zap.Error(err))
		return nil, err
	}

	s.metrics.recordDeploy(app, env.String(), string(revision.Status), s.now().Sub(started))
	log.Info("deploy attempt recorded",
		zap.Int64("revisionId", revision.ID),
		zap.String("status", string(revision.Status)))
	return revision, nil
}

// execute runs the stages and returns the revision to record. It never
// returns a pending revision.
func (s *DeployService) execute(
	ctx context.Context,
	log *zap.Logger,
	app string,
	env entities.DeployEnv,
) *entities.RevisionEntity {
	revision := &entities.RevisionEntity{
		App:           app,
		DeployEnv:     env,
		RecordCreated: s.now().UTC(),
	}

	commit, err := s.vcs.CommitInfo(ctx)
	if err != nil {
		log.Warn("failed to read commit info", zap.Error(err))
	} else {
		revision.CommitSHA = commit.SHA
		revision.CommitAuthor = commit.Author
		revision.CommitDate = commit.Date
		revision.CommitMessage = commit.Message
		if commit.Tag != "" {
			tag := commit.Tag
			revision.Tag = &tag
		}
	}

	global, err := s.loader.LoadGlobal(env)
	if err != nil {
		log.Error("failed to load global config", zap.Error(err))
		return failed(revision, consts.EnvFileFailureLog)
	}
	revision.S3BucketName = global[config.KeyBucketName]

	appConfig, err := s.loader.LoadApp(app, env)
	if err != nil {
		log.Error("failed to load app config", zap.Error(err))
		return failed(revision, consts.EnvFileFailureLog)
	}

	bucketPrefix := utils.GetBucketPrefix(app, s.now())
	if _, err := s.toolchain.WriteEnvFile(env, global.EnvFile(bucketPrefix)); err != nil {
		log.Error("failed to write env file", zap.Error(err))
		return failed(revision, consts.EnvFileFailureLog)
	}

	log.Info("installing toolchain")
	if err := s.toolchain.Install(ctx); err != nil {
		return failed(revision, fmt.Sprintf("failed to install toolchain: %v", err))
	}

	manifest, err := s.applyConfig(appConfig, global)
	if err != nil {
		log.Error("failed to apply config", zap.Error(err))
		return failed(revision, err.Error())
	}
	revision.BuildManifest = manifest

	log.Info("building")
	output, err := s.toolchain.Build(ctx, env)
	if err != nil {
		log.Error("build failed", zap.Error(err))
		var buildErr *toolchain.BuildError
		if errors.As(err, &buildErr) {
			return failed(revision, buildErr.Output)
		}
		return failed(revision, err.Error())
	}
	revision.BuildLog = output

	announcement, ok := ParseAnnouncement(output)
	if !ok {
		log.Error("build output has no entry point announcement")
		return failed(revision, consts.RevisionPathNotFound)
	}

	if err := s.rewrite(ctx, global, announcement); err != nil {
		log.Error("failed to rewrite asset links", zap.Error(err))
		return failed(revision, revision.BuildLog+"\n"+err.Error())
	}

	versionedPath := announcement.VersionedPath()
	revisionName := announcement.Revision
	revision.IndexHTMLPath = &versionedPath
	revision.RevisionName = &revisionName
	revision.Status = entities.RevisionStatusSuccess
	return revision
}

func (s *DeployService) applyConfig(appConfig *config.AppConfig, global config.Settings) ([]byte, error) {
	manifest, err := s.toolchain.ReadManifest()
	if err != nil {
		return nil, err
	}
	if err := config.ResolveManifest(manifest, appConfig.Bindings, appConfig.Settings, global); err != nil {
		return nil, fmt.Errorf("failed to resolve manifest: %w", err)
	}
	return s.toolchain.WriteManifest(manifest)
}

func (s *DeployService) rewrite(ctx context.Context, global config.Settings, announcement Announcement) error {
	creds, err := global.StorageCredentials()
	if err != nil {
		return err
	}
	store, err := s.storage.Open(ctx, creds)
	if err != nil {
		return err
	}
	return NewAssetLinkRewriter(store).Rewrite(ctx, announcement.SourceKey(), announcement.VersionedPath())
}

func (s *DeployService) notify(ctx context.Context, log *zap.Logger, revision *entities.RevisionEntity) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Send(ctx, DeployMessage(revision)); err != nil {
		log.Warn("failed to send deploy notification", zap.Error(err))
	}
}

func failed(revision *entities.RevisionEntity, buildLog string) *entities.RevisionEntity {
	revision.Status = entities.RevisionStatusFailed
	revision.BuildLog = buildLog
	return revision
}

// DeployMessage is the chat notification sent after a successful deploy.
func DeployMessage(revision *entities.RevisionEntity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "`%s` :arrow_right: `%s`\n", revision.App, revision.DeployEnv)
	if revision.Tag != nil && *revision.Tag != "" {
		fmt.Fprintf(&b, "RELEASE TAG: `%s`\n", *revision.Tag)
	}
	fmt.Fprintf(&b, "activate command: `manager activate %s %s on %s`\n",
		revision.App, revision.CommitSHA, revision.DeployEnv)
	fmt.Fprintf(&b, "```Commit info:\nsha: %s\ndate: %s\nauthor: %s\nmessage: %s\n```",
		revision.CommitSHA, revision.CommitDate, revision.CommitAuthor, revision.CommitMessage)
	return b.String()
}
