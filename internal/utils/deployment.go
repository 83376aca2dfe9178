package utils

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/tokamak-network/frontend-deploy/internal/consts"
	"github.com/tokamak-network/frontend-deploy/pkg/domain/entities"
)

const shortSHALength = 7

// GetEnvFilePath returns the path of the env file the build toolchain reads
// for the given environment.
func GetEnvFilePath(workDir string, env entities.DeployEnv) string {
	return filepath.Join(workDir, consts.EnvFilePrefix+string(env))
}

func GetManifestPath(workDir string) string {
	return filepath.Join(workDir, consts.ManifestFileName)
}

// GetBucketPrefix is the storage prefix a single build uploads its assets under.
func GetBucketPrefix(app string, now time.Time) string {
	return app + "/" + now.Format(consts.BucketPrefixStamp)
}

// PublicFileLink is the public S3 URL of key inside bucket.
func PublicFileLink(bucket, key string) string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", bucket, key)
}

// PreviewLink points the environment domain at a specific build.
func PreviewLink(bucket, shortSHA string) string {
	return fmt.Sprintf("https://%s/?build=%s", bucket, shortSHA)
}

func ShortSHA(sha string) string {
	if len(sha) <= shortSHALength {
		return sha
	}
	return sha[:shortSHALength]
}

// IndexKey is the key of the rewritten entry point under a versioned path.
func IndexKey(versionedPath string) string {
	return path.Join(strings.Trim(versionedPath, "/"), consts.IndexHTML)
}
