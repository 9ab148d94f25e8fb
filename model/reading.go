package model

/*

Reading is a "many-to-many" relation of a user having read a book.

UserId, BookId: the pair is unique, a user has at most one reading per book;
	repeat submissions update the reaction on the existing row
Reaction: 1-5 rating, 0 means read but not rated. Unrated readings are
	excluded from every average computation.

*/

const (
	ReactionUnrated = 0
	ReactionMax     = 5
)

type Reading struct {
	Id       uint `json:"id" gorm:"primaryKey"`
	UserId   uint `json:"user_id" gorm:"not null;index;uniqueIndex:idx_readings_user_book"`
	BookId   uint `json:"book_id" gorm:"not null;index;uniqueIndex:idx_readings_user_book"`
	User     User `json:"-" gorm:"constraint:OnUpdate:CASCADE;"`
	Book     Book `json:"-" gorm:"constraint:OnUpdate:CASCADE;"`
	Reaction int  `json:"reaction"`
}
