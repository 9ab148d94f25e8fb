package service

import (
	"gorm.io/gorm"

	"github.com/shelfclub/booklist/errs"
	"github.com/shelfclub/booklist/model"
	"github.com/shelfclub/booklist/store"
)

// ProfileService resolves external identities into local user rows and
// returns a user's reading history.
type ProfileService struct {
	DB *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{DB: db}
}

// ResolveProfile maps a verified external identity onto a local user row,
// creating one on first sign-in.
func (s *ProfileService) ResolveProfile(identity string) (*model.User, error) {
	if identity == "" {
		return nil, errs.Validationf("empty identity")
	}
	return store.FindOrCreate(s.DB, &model.User{AmzAuthId: identity})
}

// ReadingHistory returns every book the user has read, oldest first, each
// carrying the user's own reaction. Unrated readings are included; only the
// feeds filter those out. The user is addressed by local id when userId is
// non-zero, by external identity otherwise.
func (s *ProfileService) ReadingHistory(identity string, userId uint) ([]model.BookSummary, error) {
	var (
		user *model.User
		err  error
	)
	if userId != 0 {
		user, err = store.First(s.DB, "user", &model.User{Id: userId})
	} else {
		user, err = s.ResolveProfile(identity)
	}
	if err != nil {
		return nil, err
	}

	var rows []ratedBookRow
	result := s.DB.Table("books").
		Select("books.*, authors.name AS author_name, AVG(readings.reaction) AS avg_reaction, readings.reaction AS reaction").
		Joins("INNER JOIN readings ON readings.book_id = books.id").
		Joins("INNER JOIN authors ON authors.id = books.author_id").
		Where("readings.user_id = ?", user.Id).
		Group("books.id, authors.name, readings.reaction").
		Order("books.id ASC").
		Scan(&rows)
	if result.Error != nil {
		return nil, store.MapError("ReadingHistory", result.Error)
	}

	return toSummaries(rows), nil
}
