package consts

// Build log diagnostics recorded on failed revisions.
const (
	EnvFileFailureLog    = "Can't create .env file"
	RevisionPathNotFound = "Can't find path for revision, check build log please"
)

// Operator-facing replies.
const (
	AccessDenied       = "Access denied"
	InvalidRequest     = "Error! Invalid request"
	NoRevisions        = "There is no revisions for this app"
	NoSuchRevision     = "There is no such revision."
	ActivationDone     = "Done!"
	StorageErrorPrefix = "Storage error: "
	LedgerErrorPrefix  = "Ledger error: "
	DeployScheduled    = "Deploy scheduled"
)

// Storage layout.
const (
	IndexHTML         = "index.html"
	HTMLContentType   = "text/html"
	NoCacheControl    = "max-age=0"
	DefaultAWSRegion  = "us-east-1"
	ManifestFileName  = "config.json"
	EnvFilePrefix     = ".env.deploy."
	BucketPrefixKey   = "aws_s3_bucket_prefix"
	BucketPrefixStamp = "20060102_150405"
)
