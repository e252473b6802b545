package social_test

import (
	"context"
	"database/sql"
	"testing"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/mosaicsocial/mosaic/social"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:?cache=shared")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	for _, model := range []any{
		(*social.Post)(nil),
		(*social.Comment)(nil),
		(*social.PostLike)(nil),
		(*social.BlockedUser)(nil),
	} {
		_, err = db.NewCreateTable().Model(model).IfNotExists().Exec(ctx)
		require.NoError(t, err)
		_, err = db.NewTruncateTable().Model(model).Exec(ctx)
		require.NoError(t, err)
	}

	return db
}

func seedPost(t *testing.T, repo social.Posts, authorID uuid.UUID) *social.Post {
	t.Helper()

	created, err := repo.Create(context.Background(), &social.Post{
		Title:       "hello",
		IsText:      true,
		TextContent: "first post",
		AuthorID:    authorID,
	})
	require.NoError(t, err)
	return created
}

func TestPosts_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := social.NewPostsRepository(newTestDB(t))

	author := uuid.New()
	created := seedPost(t, repo, author)
	assert.NotEqual(t, uuid.Nil, created.ID)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, author, found.AuthorID)
}

func TestPosts_CreateValidatesShape(t *testing.T) {
	ctx := context.Background()
	repo := social.NewPostsRepository(newTestDB(t))

	cases := []struct {
		name string
		post *social.Post
		want error
	}{
		{"missing title", &social.Post{AuthorID: uuid.New()}, social.ErrMissingTitle},
		{"text and reel", &social.Post{
			Title: "x", IsText: true, IsReel: true, MediaURL: "m", AuthorID: uuid.New(),
		}, social.ErrPostKindConflict},
		{"text with media", &social.Post{
			Title: "x", IsText: true, MediaURL: "m", AuthorID: uuid.New(),
		}, social.ErrTextPostWithMedia},
		{"reel without media", &social.Post{
			Title: "x", IsReel: true, AuthorID: uuid.New(),
		}, social.ErrReelWithoutMedia},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := repo.Create(ctx, tc.post)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestPosts_ListByAuthor(t *testing.T) {
	ctx := context.Background()
	repo := social.NewPostsRepository(newTestDB(t))

	author := uuid.New()
	other := uuid.New()
	seedPost(t, repo, author)
	seedPost(t, repo, author)
	seedPost(t, repo, other)

	mine, err := repo.ListByAuthor(ctx, author, 10, 0)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	page, err := repo.ListByAuthor(ctx, author, 1, 1)
	require.NoError(t, err)
	assert.Len(t, page, 1)
}

func TestPosts_SoftDelete(t *testing.T) {
	ctx := context.Background()
	repo := social.NewPostsRepository(newTestDB(t))

	author := uuid.New()
	created := seedPost(t, repo, author)

	// A stranger cannot delete the post.
	err := repo.SoftDelete(ctx, created.ID, uuid.New())
	assert.True(t, repository.IsRecordNotFound(err))

	require.NoError(t, repo.SoftDelete(ctx, created.ID, author))

	_, err = repo.FindByID(ctx, created.ID)
	assert.True(t, repository.IsRecordNotFound(err))

	// Gone means gone for the second delete too.
	err = repo.SoftDelete(ctx, created.ID, author)
	assert.True(t, repository.IsRecordNotFound(err))
}

func TestPosts_RecordView(t *testing.T) {
	ctx := context.Background()
	repo := social.NewPostsRepository(newTestDB(t))

	created := seedPost(t, repo, uuid.New())

	require.NoError(t, repo.RecordView(ctx, created.ID))
	require.NoError(t, repo.RecordView(ctx, created.ID))

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, found.ViewsCount)
}
