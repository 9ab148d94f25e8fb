package service

import (
	"github.com/araddon/dateparse"
	"gorm.io/gorm"

	"github.com/shelfclub/booklist/errs"
	"github.com/shelfclub/booklist/model"
	"github.com/shelfclub/booklist/store"
)

// MeetupDirectory creates and looks up meetups and who is attending them.
type MeetupDirectory struct {
	DB *gorm.DB
}

func NewMeetupDirectory(db *gorm.DB) *MeetupDirectory {
	return &MeetupDirectory{DB: db}
}

// CreateMeetup resolves the host and upserts the meetup keyed by its non-host
// fields: re-submitting the identical meetup returns the existing row. The
// datetime is parsed leniently; clients send whatever their date picker
// produces.
func (s *MeetupDirectory) CreateMeetup(location, description, dateTime string, bookId uint, hostIdentity string) (*model.Meetup, error) {
	if location == "" || description == "" || dateTime == "" || bookId == 0 {
		return nil, errs.Validationf("meetup needs location, description, dateTime and book")
	}
	if hostIdentity == "" {
		return nil, errs.Validationf("empty host identity")
	}
	when, err := dateparse.ParseAny(dateTime)
	if err != nil {
		return nil, errs.Validationf("cannot parse dateTime %q: %s", dateTime, err)
	}

	host, err := store.FindOrCreate(s.DB, &model.User{AmzAuthId: hostIdentity})
	if err != nil {
		return nil, err
	}

	match := &model.Meetup{
		Location:    location,
		Description: description,
		Datetime:    when,
		BookId:      bookId,
	}
	return store.FindOrCreate(s.DB, match, &model.Meetup{HostId: host.Id})
}

// MeetupsForBook lists every meetup organized around the given book, in
// natural storage order.
func (s *MeetupDirectory) MeetupsForBook(bookId uint) ([]model.Meetup, error) {
	var meetups []model.Meetup
	if err := s.DB.Where("book_id = ?", bookId).Find(&meetups).Error; err != nil {
		return nil, store.MapError("MeetupsForBook", err)
	}
	return meetups, nil
}

// MeetupDetail fetches one meetup with its book nested.
func (s *MeetupDirectory) MeetupDetail(meetupId uint) (*model.Meetup, error) {
	meetup, err := store.First(s.DB, "meetup", &model.Meetup{Id: meetupId})
	if err != nil {
		return nil, err
	}
	book, err := store.First(s.DB, "book", &model.Book{Id: meetup.BookId})
	if err != nil {
		return nil, err
	}
	meetup.Book = book
	return meetup, nil
}

// MeetupsForUser lists the meetups the user has joined: one join across
// meetups and attendances on the user's resolved id.
func (s *MeetupDirectory) MeetupsForUser(identity string) ([]model.Meetup, error) {
	if identity == "" {
		return nil, errs.Validationf("empty identity")
	}
	user, err := store.FindOrCreate(s.DB, &model.User{AmzAuthId: identity})
	if err != nil {
		return nil, err
	}

	var meetups []model.Meetup
	err = s.DB.Model(&model.Meetup{}).
		Joins("INNER JOIN attendances ON attendances.meetup_id = meetups.id").
		Where("attendances.user_id = ?", user.Id).
		Find(&meetups).Error
	if err != nil {
		return nil, store.MapError("MeetupsForUser", err)
	}
	return meetups, nil
}

// AttendeesOf lists every user attending the given meetup.
func (s *MeetupDirectory) AttendeesOf(meetupId uint) ([]model.User, error) {
	var users []model.User
	err := s.DB.Model(&model.User{}).
		Joins("INNER JOIN attendances ON attendances.user_id = users.id").
		Where("attendances.meetup_id = ?", meetupId).
		Find(&users).Error
	if err != nil {
		return nil, store.MapError("AttendeesOf", err)
	}
	return users, nil
}

// AddAttendance marks the user as attending; joining twice is a no-op.
func (s *MeetupDirectory) AddAttendance(userId, meetupId uint) error {
	if userId == 0 || meetupId == 0 {
		return errs.Validationf("attendance needs user and meetup")
	}
	_, err := store.FindOrCreate(s.DB, &model.Attendance{UserId: userId, MeetupId: meetupId})
	return err
}
