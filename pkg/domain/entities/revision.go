package entities

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

const DefaultRevisionLimit = 50

var (
	ErrNoRevisions      = errors.New("no revisions")
	ErrRevisionNotFound = errors.New("revision not found")
	ErrConfigNotFound   = errors.New("config not found")
)

// RevisionEntity is one recorded attempt to build and publish an app.
type RevisionEntity struct {
	ID             int64
	App            string
	DeployEnv      DeployEnv
	S3BucketName   string
	IndexHTMLPath  *string
	RevisionName   *string
	Tag            *string
	CommitSHA      string
	CommitAuthor   string
	CommitDate     string
	CommitMessage  string
	BuildLog       string
	BuildManifest  json.RawMessage
	Status         RevisionStatus
	RecordCreated  time.Time
	RecordModified *time.Time
}

type RevisionFilter struct {
	Env         DeployEnv
	CreatedFrom *time.Time
	Offset      int
	Limit       int
	Sort        RevisionSort
}

// RevisionSummary is the listing projection handed to operators.
type RevisionSummary struct {
	ID            int64          `json:"id"`
	CommitSHA     string         `json:"commitSha"`
	CommitAuthor  string         `json:"commitAuthor"`
	CommitDate    string         `json:"commitDate"`
	CommitMessage string         `json:"commitMessage"`
	Tag           string         `json:"tag"`
	DeployEnv     DeployEnv      `json:"env"`
	RecordCreated time.Time      `json:"recordCreated"`
	Status        RevisionStatus `json:"status"`
	S3BucketName  string         `json:"bucket"`
	PreviewURL    string         `json:"previewUrl"`
}

type ActivationTarget struct {
	RevisionID    int64
	S3BucketName  string
	IndexHTMLPath string
}

type CommitInfo struct {
	SHA     string
	Author  string
	Email   string
	Date    string
	Message string
	Tag     string
}

// IsTagSelector reports whether an activation selector names a VCS tag
// rather than a commit sha prefix. Tags are recognised by a dot.
func IsTagSelector(selector string) bool {
	return strings.Contains(selector, ".")
}

type Task func()
