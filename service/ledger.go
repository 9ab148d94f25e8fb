package service

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/shelfclub/booklist/errs"
	"github.com/shelfclub/booklist/model"
	"github.com/shelfclub/booklist/store"
)

// BookLedger records read events: one call materializes the author, the book,
// the user and the reading row, then sets the reaction.
type BookLedger struct {
	DB *gorm.DB
}

func NewBookLedger(db *gorm.DB) *BookLedger {
	return &BookLedger{DB: db}
}

/*

RecordReading upserts, in order: author by name, book by catalog id (falling
back to title+author when the submission carries no catalog id), user by
external identity, reading by (user, book). The reaction update on the reading
row is the only genuine update in the system; everything else is
insert-or-reuse.

The whole chain runs in one transaction, so a mid-chain failure leaves no
partial rows behind.

*/

func (s *BookLedger) RecordReading(authorAttrs *model.Author, bookAttrs *model.Book, reaction int, identity string) (*model.ReadingSummary, error) {
	if authorAttrs == nil || authorAttrs.Name == "" {
		return nil, errs.Validationf("missing author")
	}
	if bookAttrs == nil || bookAttrs.Title == "" {
		return nil, errs.Validationf("missing book")
	}
	if reaction < model.ReactionUnrated || reaction > model.ReactionMax {
		return nil, errs.Validationf("reaction %d out of range [0,%d]", reaction, model.ReactionMax)
	}
	if identity == "" {
		return nil, errs.Validationf("empty identity")
	}

	var summary model.ReadingSummary
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		author, err := store.FindOrCreate(tx, &model.Author{Name: authorAttrs.Name})
		if err != nil {
			return err
		}

		bookAttrs.AuthorId = author.Id
		match := &model.Book{Title: bookAttrs.Title, AuthorId: author.Id}
		if bookAttrs.AmazonId != nil && *bookAttrs.AmazonId != "" {
			match = &model.Book{AmazonId: bookAttrs.AmazonId}
		}
		book, err := store.FindOrCreate(tx, match, bookAttrs)
		if err != nil {
			return err
		}

		user, err := store.FindOrCreate(tx, &model.User{AmzAuthId: identity})
		if err != nil {
			return err
		}

		reading, err := store.FindOrCreate(tx, &model.Reading{UserId: user.Id, BookId: book.Id})
		if err != nil {
			return err
		}

		if err := tx.Model(reading).Update("reaction", reaction).Error; err != nil {
			return store.MapError("RecordReading", err)
		}

		summary.Book.Title = book.Title
		summary.Book.Id = book.Id
		summary.Author.Id = author.Id
		summary.Author.Name = author.Name
		summary.Reaction = reaction
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// BookDetail fetches a single book by id, author included.
func (s *BookLedger) BookDetail(bookId uint) (*model.Book, error) {
	var book model.Book
	result := s.DB.Preload("Author").Where("id = ?", bookId).First(&book)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.NotFoundf("book", "id %d", bookId)
		}
		return nil, store.MapError("BookDetail", result.Error)
	}
	return &book, nil
}
