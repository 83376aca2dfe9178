package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tokamak-network/frontend-deploy/internal/testutil"
	"github.com/tokamak-network/frontend-deploy/pkg/domain/entities"
)

func strPtr(s string) *string { return &s }

func seed(t *testing.T, repo *RevisionRepository, rev *entities.RevisionEntity) *entities.RevisionEntity {
	t.Helper()
	if rev.App == "" {
		rev.App = "myapp"
	}
	if rev.DeployEnv == "" {
		rev.DeployEnv = entities.DeployEnvDev
	}
	if rev.S3BucketName == "" {
		rev.S3BucketName = "mybucket"
	}
	if rev.Status == "" {
		rev.Status = entities.RevisionStatusSuccess
	}
	require.NoError(t, repo.CreateRevision(context.Background(), rev))
	return rev
}

func successful(sha, path string) *entities.RevisionEntity {
	return &entities.RevisionEntity{
		CommitSHA:     sha,
		IndexHTMLPath: strPtr(path),
		RevisionName:  strPtr("rev"),
		Status:        entities.RevisionStatusSuccess,
	}
}

func TestCreateRevision_AssignsIDAndTimestamp(t *testing.T) {
	repo := NewRevisionRepository(testutil.NewTestDB(t))
	rev := seed(t, repo, &entities.RevisionEntity{
		CommitSHA:     "abc123def456",
		BuildManifest: []byte(`{"APP":{"S3_BUCKET":"mybucket"}}`),
		BuildLog:      "ok",
	})

	assert.NotZero(t, rev.ID)
	assert.False(t, rev.RecordCreated.IsZero())

	stored, err := repo.GetRevisionByID(context.Background(), rev.ID)
	require.NoError(t, err)
	assert.Equal(t, "abc123def456", stored.CommitSHA)
	assert.Equal(t, "ok", stored.BuildLog)
	assert.JSONEq(t, `{"APP":{"S3_BUCKET":"mybucket"}}`, string(stored.BuildManifest))
	assert.Nil(t, stored.IndexHTMLPath)
	assert.Nil(t, stored.RecordModified)
}

func TestCreateRevision_SameCommitTwice(t *testing.T) {
	repo := NewRevisionRepository(testutil.NewTestDB(t))
	first := seed(t, repo, &entities.RevisionEntity{CommitSHA: "abc"})
	second := seed(t, repo, &entities.RevisionEntity{CommitSHA: "abc"})
	assert.Greater(t, second.ID, first.ID)
}

func TestListRevisions_EmptyIsSentinel(t *testing.T) {
	repo := NewRevisionRepository(testutil.NewTestDB(t))
	_, err := repo.ListRevisions(context.Background(), "myapp", entities.RevisionFilter{})
	assert.ErrorIs(t, err, entities.ErrNoRevisions)
}

func TestListRevisions_LimitAndSort(t *testing.T) {
	repo := NewRevisionRepository(testutil.NewTestDB(t))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// Creation times run opposite to insertion order.
	for i := 0; i < 5; i++ {
		seed(t, repo, &entities.RevisionEntity{
			CommitSHA:     "sha" + string(rune('a'+i)) + "0000000000",
			RecordCreated: base.Add(time.Duration(5-i) * time.Hour),
		})
	}

	byCreated, err := repo.ListRevisions(context.Background(), "myapp", entities.RevisionFilter{
		Limit: 2,
		Sort:  entities.RevisionSortByCreated,
	})
	require.NoError(t, err)
	require.Len(t, byCreated, 2)
	assert.Equal(t, int64(1), byCreated[0].ID)
	assert.Equal(t, int64(2), byCreated[1].ID)
	assert.True(t, byCreated[0].RecordCreated.After(byCreated[1].RecordCreated))

	byID, err := repo.ListRevisions(context.Background(), "myapp", entities.RevisionFilter{
		Limit: 2,
		Sort:  entities.RevisionSortByID,
	})
	require.NoError(t, err)
	require.Len(t, byID, 2)
	assert.Equal(t, int64(5), byID[0].ID)
	assert.Equal(t, int64(4), byID[1].ID)

	page, err := repo.ListRevisions(context.Background(), "myapp", entities.RevisionFilter{
		Offset: 4,
		Limit:  2,
		Sort:   entities.RevisionSortByID,
	})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, int64(1), page[0].ID)
}

func TestListRevisions_DefaultLimit(t *testing.T) {
	repo := NewRevisionRepository(testutil.NewTestDB(t))
	for i := 0; i < entities.DefaultRevisionLimit+3; i++ {
		seed(t, repo, &entities.RevisionEntity{CommitSHA: "abc"})
	}
	all, err := repo.ListRevisions(context.Background(), "myapp", entities.RevisionFilter{})
	require.NoError(t, err)
	assert.Len(t, all, entities.DefaultRevisionLimit)
}

func TestListRevisions_Filters(t *testing.T) {
	repo := NewRevisionRepository(testutil.NewTestDB(t))
	bound := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	seed(t, repo, &entities.RevisionEntity{CommitSHA: "old", RecordCreated: bound.Add(-time.Second)})
	seed(t, repo, &entities.RevisionEntity{CommitSHA: "edge", RecordCreated: bound})
	seed(t, repo, &entities.RevisionEntity{CommitSHA: "new", RecordCreated: bound.Add(time.Hour)})
	seed(t, repo, &entities.RevisionEntity{
		CommitSHA:     "prod",
		DeployEnv:     entities.DeployEnvProduction,
		RecordCreated: bound.Add(time.Hour),
	})
	seed(t, repo, &entities.RevisionEntity{App: "other", CommitSHA: "x", RecordCreated: bound.Add(time.Hour)})

	revs, err := repo.ListRevisions(context.Background(), "myapp", entities.RevisionFilter{
		Env:         entities.DeployEnvDev,
		CreatedFrom: &bound,
	})
	require.NoError(t, err)
	require.Len(t, revs, 2)
	assert.Equal(t, "new", revs[0].CommitSHA)
	assert.Equal(t, "edge", revs[1].CommitSHA)

	_, err = repo.ListRevisions(context.Background(), "myapp", entities.RevisionFilter{
		Env: entities.DeployEnvStaging,
	})
	assert.ErrorIs(t, err, entities.ErrNoRevisions)
}

func TestListRevisions_Projection(t *testing.T) {
	repo := NewRevisionRepository(testutil.NewTestDB(t))
	seed(t, repo, &entities.RevisionEntity{
		CommitSHA:     "abc123def4567890",
		CommitAuthor:  "Jane Doe",
		CommitMessage: "fix header",
		Tag:           strPtr("v2.1"),
	})

	revs, err := repo.ListRevisions(context.Background(), "myapp", entities.RevisionFilter{})
	require.NoError(t, err)
	require.Len(t, revs, 1)
	assert.Equal(t, "abc123d", revs[0].CommitSHA)
	assert.Equal(t, "v2.1", revs[0].Tag)
	assert.Equal(t, "mybucket", revs[0].S3BucketName)
	assert.Equal(t, "https://mybucket/?build=abc123d", revs[0].PreviewURL)
}

func TestFindRevisionForActivation_EarliestWins(t *testing.T) {
	repo := NewRevisionRepository(testutil.NewTestDB(t))
	for i := 0; i < 4; i++ {
		seed(t, repo, &entities.RevisionEntity{CommitSHA: "filler", Status: entities.RevisionStatusFailed})
	}
	fifth := seed(t, repo, successful("abc123aaaa", "web/myapp/first"))
	for i := 0; i < 3; i++ {
		seed(t, repo, &entities.RevisionEntity{CommitSHA: "filler", Status: entities.RevisionStatusFailed})
	}
	ninth := seed(t, repo, successful("abc123aaaa", "web/myapp/second"))
	require.Equal(t, int64(5), fifth.ID)
	require.Equal(t, int64(9), ninth.ID)

	target, err := repo.FindRevisionForActivation(context.Background(), "myapp", entities.DeployEnvDev, "abc123")
	require.NoError(t, err)
	assert.Equal(t, int64(5), target.RevisionID)
	assert.Equal(t, "web/myapp/first", target.IndexHTMLPath)
	assert.Equal(t, "mybucket", target.S3BucketName)
}

func TestFindRevisionForActivation_TagVersusPrefix(t *testing.T) {
	repo := NewRevisionRepository(testutil.NewTestDB(t))

	tagged := successful("ffff000000", "web/myapp/tagged")
	tagged.Tag = strPtr("v2.1")
	seed(t, repo, tagged)
	// A sha that starts with the tag text must not match a tag selector.
	seed(t, repo, successful("v2.1abcdef", "web/myapp/sha-lookalike"))
	seed(t, repo, successful("abc123ffff", "web/myapp/by-sha"))

	target, err := repo.FindRevisionForActivation(context.Background(), "myapp", entities.DeployEnvDev, "v2.1")
	require.NoError(t, err)
	assert.Equal(t, "web/myapp/tagged", target.IndexHTMLPath)

	target, err = repo.FindRevisionForActivation(context.Background(), "myapp", entities.DeployEnvDev, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "web/myapp/by-sha", target.IndexHTMLPath)

	_, err = repo.FindRevisionForActivation(context.Background(), "myapp", entities.DeployEnvDev, "v3.0")
	assert.ErrorIs(t, err, entities.ErrRevisionNotFound)
}

func TestFindRevisionForActivation_PrefixIgnoresSelectorCase(t *testing.T) {
	repo := NewRevisionRepository(testutil.NewTestDB(t))
	seed(t, repo, successful("abc123ffff", "web/myapp/abc"))

	for _, selector := range []string{"ABC123", "Abc1", " abc123F "} {
		target, err := repo.FindRevisionForActivation(context.Background(), "myapp", entities.DeployEnvDev, selector)
		require.NoError(t, err, selector)
		assert.Equal(t, "web/myapp/abc", target.IndexHTMLPath, selector)
	}

	// Tags keep their case.
	tagged := successful("ffff000000", "web/myapp/tagged")
	tagged.Tag = strPtr("v2.1-RC")
	seed(t, repo, tagged)
	_, err := repo.FindRevisionForActivation(context.Background(), "myapp", entities.DeployEnvDev, "v2.1-rc")
	assert.ErrorIs(t, err, entities.ErrRevisionNotFound)
}

func TestFindRevisionForActivation_SkipsUnusableRows(t *testing.T) {
	repo := NewRevisionRepository(testutil.NewTestDB(t))
	seed(t, repo, &entities.RevisionEntity{CommitSHA: "abc123", Status: entities.RevisionStatusFailed})
	seed(t, repo, &entities.RevisionEntity{CommitSHA: "abc123", Status: entities.RevisionStatusSuccess})
	other := successful("abc123", "web/myapp/prod")
	other.DeployEnv = entities.DeployEnvProduction
	seed(t, repo, other)

	_, err := repo.FindRevisionForActivation(context.Background(), "myapp", entities.DeployEnvDev, "abc")
	assert.ErrorIs(t, err, entities.ErrRevisionNotFound)

	target, err := repo.FindRevisionForActivation(context.Background(), "myapp", entities.DeployEnvProduction, "abc")
	require.NoError(t, err)
	assert.Equal(t, "web/myapp/prod", target.IndexHTMLPath)
}

func TestFindRevisionForActivation_EscapesWildcards(t *testing.T) {
	repo := NewRevisionRepository(testutil.NewTestDB(t))
	seed(t, repo, successful("abc123", "web/myapp/abc"))

	for _, selector := range []string{"%", "_bc", "", "  "} {
		_, err := repo.FindRevisionForActivation(context.Background(), "myapp", entities.DeployEnvDev, selector)
		assert.ErrorIs(t, err, entities.ErrRevisionNotFound, selector)
	}
}
