package services

import (
	"context"
	"errors"

	"github.com/tokamak-network/frontend-deploy/internal/consts"
	"github.com/tokamak-network/frontend-deploy/internal/logger"
	"github.com/tokamak-network/frontend-deploy/internal/utils"
	"github.com/tokamak-network/frontend-deploy/pkg/config"
	"github.com/tokamak-network/frontend-deploy/pkg/domain/entities"
	"github.com/tokamak-network/frontend-deploy/pkg/infrastructure/postgres/repositories"
	"github.com/tokamak-network/frontend-deploy/pkg/infrastructure/postgres/txscope"
	"github.com/tokamak-network/frontend-deploy/pkg/infrastructure/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type GlobalConfigLoader interface {
	LoadGlobal(env entities.DeployEnv) (config.Settings, error)
}

type ActivationService struct {
	db      *gorm.DB
	loader  GlobalConfigLoader
	storage storage.Factory
	metrics *Metrics
}

func NewActivationService(
	db *gorm.DB,
	loader GlobalConfigLoader,
	storageFactory storage.Factory,
	metrics *Metrics,
) *ActivationService {
	return &ActivationService{
		db:      db,
		loader:  loader,
		storage: storageFactory,
		metrics: metrics,
	}
}

// Activate promotes the revision matching selector to the live entry point
// of env and returns an operator-facing result message.
func (s *ActivationService) Activate(
	ctx context.Context,
	app string,
	env entities.DeployEnv,
	selector string,
) string {
	result, outcome := s.activate(ctx, app, env, selector)
	s.metrics.recordActivation(app, env.String(), outcome)
	return result
}

func (s *ActivationService) activate(
	ctx context.Context,
	app string,
	env entities.DeployEnv,
	selector string,
) (string, string) {
	log := logger.L().With(
		zap.String("app", app),
		zap.String("env", env.String()),
		zap.String("selector", selector),
	)

	target, err := s.findTarget(ctx, app, env, selector)
	if err != nil {
		if errors.Is(err, entities.ErrRevisionNotFound) {
			return consts.NoSuchRevision, "not_found"
		}
		log.Error("failed to query revisions", zap.Error(err))
		return consts.LedgerErrorPrefix + err.Error(), "ledger_error"
	}

	global, err := s.loader.LoadGlobal(env)
	if err != nil {
		log.Error("failed to load storage credentials", zap.Error(err))
		return consts.StorageErrorPrefix + err.Error(), "storage_error"
	}
	creds, err := global.StorageCredentials()
	if err != nil {
		log.Error("failed to load storage credentials", zap.Error(err))
		return consts.StorageErrorPrefix + err.Error(), "storage_error"
	}
	creds.Bucket = target.S3BucketName

	store, err := s.storage.Open(ctx, creds)
	if err != nil {
		log.Error("failed to open bucket", zap.Error(err))
		return consts.StorageErrorPrefix + err.Error(), "storage_error"
	}

	sourceKey := utils.IndexKey(target.IndexHTMLPath)
	exists, err := store.Exists(ctx, sourceKey)
	if err != nil {
		log.Error("failed to stat revision entry point", zap.Error(err))
		return consts.StorageErrorPrefix + err.Error(), "storage_error"
	}
	if !exists {
		log.Warn("revision entry point is missing", zap.String("key", sourceKey))
		return consts.NoSuchRevision, "not_found"
	}

	err = store.Copy(ctx, sourceKey, consts.IndexHTML, storage.PutOptions{
		ContentType:  consts.HTMLContentType,
		CacheControl: consts.NoCacheControl,
		Public:       true,
	})
	if err != nil {
		log.Error("failed to activate revision", zap.Error(err))
		return consts.StorageErrorPrefix + err.Error(), "storage_error"
	}

	log.Info("revision activated",
		zap.Int64("revisionId", target.RevisionID),
		zap.String("key", sourceKey))
	return consts.ActivationDone, "done"
}

func (s *ActivationService) findTarget(
	ctx context.Context,
	app string,
	env entities.DeployEnv,
	selector string,
) (*entities.ActivationTarget, error) {
	scope, err := txscope.New(s.db)
	if err != nil {
		return nil, err
	}

	var target *entities.ActivationTarget
	err = scope.Run(ctx, func(sess *txscope.Session) error {
		revisionRepo := repositories.NewRevisionRepository(sess.DB)
		found, err := revisionRepo.FindRevisionForActivation(ctx, app, env, selector)
		if err != nil {
			return err
		}
		target = found
		return nil
	})
	return target, err
}
