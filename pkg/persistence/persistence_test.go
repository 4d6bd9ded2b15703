package persistence_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/goliatone/go-crudmeta/pkg/persistence"
	"github.com/goliatone/go-crudmeta/pkg/semantic"
)

type Account struct {
	gorm.Model
	Owner  string `gorm:"column:owner_name;not null"`
	Plan   string
	Legacy string `gorm:"-"`
}

type Note struct {
	ID      int64  `crud:"id"`
	Version int    `crud:"version"`
	Body    string `crud:"required"`
}

func (Note) TableName() string { return "crud_notes" }

type Tag struct {
	Slug  string `crud:"id"`
	Title string
}

type Loose struct {
	Name string
}

type Memo struct {
	ID     int64 `crud:"id"`
	Labels []string
	Meta   map[string][]string
}

func TestMapper_Columns(t *testing.T) {
	model, err := semantic.Of[Account](semantic.NewCache())
	require.NoError(t, err)
	mapper, err := persistence.NewMapper(model)
	require.NoError(t, err)

	assert.Equal(t, "accounts", mapper.Table())
	var names []string
	for _, col := range mapper.Columns() {
		names = append(names, col.Name)
	}
	assert.Equal(t, []string{"id", "created_at", "updated_at", "deleted_at", "owner_name", "plan"}, names)

	id, ok := mapper.Column("id")
	require.True(t, ok)
	assert.True(t, id.Primary)
	owner, ok := mapper.Column("owner_name")
	require.True(t, ok)
	assert.True(t, owner.NotNull)
	assert.Equal(t, "owner", owner.Property)
}

func TestMapper_RowRoundTrip(t *testing.T) {
	model, err := semantic.Of[Note](semantic.NewCache())
	require.NoError(t, err)
	mapper, err := persistence.NewMapper(model)
	require.NoError(t, err)
	assert.Equal(t, "crud_notes", mapper.Table())

	row, err := mapper.ToRow(Note{ID: 7, Version: 2, Body: "hello"})
	require.NoError(t, err)
	assert.Equal(t, persistence.Row{"id": int64(7), "version": 2, "body": "hello"}, row)

	var note Note
	require.NoError(t, mapper.FromRow(row, &note))
	assert.Equal(t, Note{ID: 7, Version: 2, Body: "hello"}, note)

	err = mapper.FromRow(persistence.Row{"missing": 1}, &note)
	assert.Error(t, err)

	key, err := mapper.Key(&note)
	require.NoError(t, err)
	assert.Equal(t, int64(7), key)
}

func TestMapper_KeyWithoutIdentity(t *testing.T) {
	model, err := semantic.Of[Loose](semantic.NewCache())
	require.NoError(t, err)
	mapper, err := persistence.NewMapper(model)
	require.NoError(t, err)
	_, err = mapper.Key(Loose{})
	assert.True(t, errors.Is(err, persistence.ErrNoIdentity))

	_, err = persistence.NewMemory[Loose](nil)
	assert.True(t, errors.Is(err, persistence.ErrNoIdentity))
}

func TestMemory_CRUDWithVersioning(t *testing.T) {
	ctx := context.Background()
	repo, err := persistence.NewMemory[Note](semantic.NewCache())
	require.NoError(t, err)

	first := &Note{Body: "first"}
	require.NoError(t, repo.Save(ctx, first))
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, 1, first.Version)

	second := &Note{Body: "second"}
	require.NoError(t, repo.Save(ctx, second))
	assert.Equal(t, int64(2), second.ID)

	found, err := repo.Find(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, *first, *found)

	found.Body = "edited"
	require.NoError(t, repo.Save(ctx, found))
	assert.Equal(t, 2, found.Version)

	stale := &Note{ID: 1, Version: 1, Body: "stale"}
	err = repo.Save(ctx, stale)
	assert.True(t, errors.Is(err, persistence.ErrConflict), "got %v", err)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "edited", all[0].Body)
	assert.Equal(t, "second", all[1].Body)

	require.NoError(t, repo.Delete(ctx, int64(1)))
	_, err = repo.Find(ctx, 1)
	assert.True(t, errors.Is(err, persistence.ErrNotFound))
	assert.True(t, errors.Is(repo.Delete(ctx, 1), persistence.ErrNotFound))

	all, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, int64(2), all[0].ID)
}

func TestMemory_AssignsStringIdentity(t *testing.T) {
	ctx := context.Background()
	repo, err := persistence.NewMemory[Tag](nil)
	require.NoError(t, err)

	tag := &Tag{Title: "Go"}
	require.NoError(t, repo.Save(ctx, tag))
	assert.Len(t, tag.Slug, 36)

	found, err := repo.Find(ctx, tag.Slug)
	require.NoError(t, err)
	assert.Equal(t, "Go", found.Title)
}

func TestMemory_SequenceSkipsExplicitKeys(t *testing.T) {
	ctx := context.Background()
	repo, err := persistence.NewMemory[Note](nil)
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, &Note{ID: 1, Body: "explicit"}))
	require.NoError(t, repo.Save(ctx, &Note{ID: 3, Body: "explicit too"}))

	auto := &Note{Body: "auto"}
	require.NoError(t, repo.Save(ctx, auto))
	assert.Equal(t, int64(2), auto.ID)

	next := &Note{Body: "next"}
	require.NoError(t, repo.Save(ctx, next))
	assert.Equal(t, int64(4), next.ID)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	var bodies []string
	for _, note := range all {
		bodies = append(bodies, note.Body)
	}
	assert.Equal(t, []string{"explicit", "explicit too", "auto", "next"}, bodies)
}

func TestMemory_RowsDoNotShareContainers(t *testing.T) {
	ctx := context.Background()
	repo, err := persistence.NewMemory[Memo](nil)
	require.NoError(t, err)

	memo := &Memo{Labels: []string{"a", "b"}, Meta: map[string][]string{"k": {"v"}}}
	require.NoError(t, repo.Save(ctx, memo))
	memo.Labels[0] = "changed"
	memo.Meta["k"][0] = "changed"
	memo.Meta["extra"] = nil

	found, err := repo.Find(ctx, memo.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, found.Labels)
	assert.Equal(t, map[string][]string{"k": {"v"}}, found.Meta)

	found.Labels = append(found.Labels[:1], "z")
	found.Meta["k"][0] = "z"

	again, err := repo.Find(ctx, memo.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, again.Labels)
	assert.Equal(t, map[string][]string{"k": {"v"}}, again.Meta)
}
