package schemas

import (
	"time"

	"github.com/tokamak-network/frontend-deploy/pkg/domain/entities"
	"gorm.io/datatypes"
)

type Revision struct {
	ID             int64                   `gorm:"primaryKey;autoIncrement;column:id"`
	App            string                  `gorm:"column:app;size:255;index:idx_revisions_app_env"`
	DeployEnv      entities.DeployEnv      `gorm:"column:deploy_env;size:255;index:idx_revisions_app_env"`
	S3BucketName   string                  `gorm:"column:s3_bucket_name;size:255"`
	IndexHTMLPath  *string                 `gorm:"column:index_html_path;size:255"`
	RevisionName   *string                 `gorm:"column:revision_name;size:255"`
	Tag            *string                 `gorm:"column:tag;size:255"`
	CommitSHA      string                  `gorm:"column:commit_sha;size:255"`
	CommitDate     string                  `gorm:"column:commit_date;size:255"`
	CommitAuthor   string                  `gorm:"column:commit_author;size:255"`
	CommitMessage  string                  `gorm:"column:commit_message;type:text"`
	BuildLog       string                  `gorm:"column:build_log;type:text"`
	BuildManifest  datatypes.JSON          `gorm:"column:build_manifest"`
	Status         entities.RevisionStatus `gorm:"column:status;size:255;not null"`
	RecordCreated  time.Time               `gorm:"column:record_created"`
	RecordModified *time.Time              `gorm:"column:record_modified"`
}

func (Revision) TableName() string {
	return "revisions"
}
