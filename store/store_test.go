package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shelfclub/booklist/errs"
	"github.com/shelfclub/booklist/model"
	"github.com/shelfclub/booklist/utils"
)

func TestFindOrCreateIdempotent(t *testing.T) {
	db := utils.NewTestDB(t)

	first, err := FindOrCreate(db, &model.Author{Name: "Ursula K. Le Guin"})
	require.NoError(t, err)
	require.NotZero(t, first.Id)

	second, err := FindOrCreate(db, &model.Author{Name: "Ursula K. Le Guin"})
	require.NoError(t, err)
	require.Equal(t, first.Id, second.Id)

	var count int64
	db.Model(&model.Author{}).Count(&count)
	require.Equal(t, int64(1), count)
}

func TestFindOrCreateAllEntityTypes(t *testing.T) {
	db := utils.NewTestDB(t)

	user, err := FindOrCreate(db, &model.User{AmzAuthId: "auth0|u1"})
	require.NoError(t, err)
	userAgain, err := FindOrCreate(db, &model.User{AmzAuthId: "auth0|u1"})
	require.NoError(t, err)
	require.Equal(t, user.Id, userAgain.Id)

	author, err := FindOrCreate(db, &model.Author{Name: "Le Guin"})
	require.NoError(t, err)

	asin := "B001"
	book, err := FindOrCreate(db, &model.Book{AmazonId: &asin}, &model.Book{
		Title:    "The Dispossessed",
		AuthorId: author.Id,
	})
	require.NoError(t, err)
	require.Equal(t, "The Dispossessed", book.Title)
	bookAgain, err := FindOrCreate(db, &model.Book{AmazonId: &asin})
	require.NoError(t, err)
	require.Equal(t, book.Id, bookAgain.Id)

	reading, err := FindOrCreate(db, &model.Reading{UserId: user.Id, BookId: book.Id})
	require.NoError(t, err)
	readingAgain, err := FindOrCreate(db, &model.Reading{UserId: user.Id, BookId: book.Id})
	require.NoError(t, err)
	require.Equal(t, reading.Id, readingAgain.Id)

	var readings int64
	db.Model(&model.Reading{}).Count(&readings)
	require.Equal(t, int64(1), readings)
}

func TestFindOrCreateAttrsOnlyOnInsert(t *testing.T) {
	db := utils.NewTestDB(t)

	host, err := FindOrCreate(db, &model.User{AmzAuthId: "auth0|host"})
	require.NoError(t, err)
	other, err := FindOrCreate(db, &model.User{AmzAuthId: "auth0|other"})
	require.NoError(t, err)
	author, err := FindOrCreate(db, &model.Author{Name: "a"})
	require.NoError(t, err)
	book := &model.Book{Title: "b", AuthorId: author.Id}
	require.NoError(t, db.Create(book).Error)

	match := &model.Meetup{
		Location:    "the library",
		Description: "ch 1-5",
		Datetime:    mustTime(t, "2016-05-03T19:00:00Z"),
		BookId:      book.Id,
	}
	created, err := FindOrCreate(db, match, &model.Meetup{HostId: host.Id})
	require.NoError(t, err)
	require.Equal(t, host.Id, created.HostId)

	// Same identity with a different host returns the existing row; the
	// attrs are create-only.
	reused, err := FindOrCreate(db, match, &model.Meetup{HostId: other.Id})
	require.NoError(t, err)
	require.Equal(t, created.Id, reused.Id)
	require.Equal(t, host.Id, reused.HostId)
}

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

func TestFindOrCreateConflictingAttributes(t *testing.T) {
	db := utils.NewTestDB(t)

	_, err := FindOrCreate(db, &model.User{AmzAuthId: "auth0|u1", Name: "Ada"})
	require.NoError(t, err)

	// Same key, different non-key field: the lookup misses, the insert
	// trips the unique index, and the refetch can't satisfy the full match.
	_, err = FindOrCreate(db, &model.User{AmzAuthId: "auth0|u1", Name: "Grace"})
	require.Error(t, err)
	require.True(t, errs.IsConstraint(err))
}

func TestFindOrCreateInsideTransaction(t *testing.T) {
	db := utils.NewTestDB(t)

	_, err := FindOrCreate(db, &model.User{AmzAuthId: "auth0|u1", Name: "Ada"})
	require.NoError(t, err)

	// A duplicate-key failure inside a caller's transaction rolls back to the
	// attempt's savepoint only: later statements on the same transaction still
	// run, and the transaction commits.
	err = db.Transaction(func(tx *gorm.DB) error {
		_, err := FindOrCreate(tx, &model.User{AmzAuthId: "auth0|u1", Name: "Grace"})
		require.Error(t, err)
		require.True(t, errs.IsConstraint(err))

		author, err := FindOrCreate(tx, &model.Author{Name: "Le Guin"})
		require.NoError(t, err)
		require.NotZero(t, author.Id)
		return nil
	})
	require.NoError(t, err)

	var authors int64
	db.Model(&model.Author{}).Count(&authors)
	require.Equal(t, int64(1), authors)
}
