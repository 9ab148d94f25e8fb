package model

import "time"

/*

Meetup is an in-person gathering organized around one book.

Logical identity is (location, description, datetime, book): re-submitting the
identical meetup returns the existing row instead of duplicating it, enforced
by the compound unique index. The host is a create-time attribute, not part of
the identity (see DESIGN.md for the open host-identity question).

*/

type Meetup struct {
	Id          uint      `json:"id" gorm:"primaryKey"`
	Location    string    `json:"location" gorm:"size:255;not null;uniqueIndex:idx_meetup_identity"`
	Description string    `json:"description" gorm:"size:500;not null;uniqueIndex:idx_meetup_identity"`
	Datetime    time.Time `json:"datetime" gorm:"not null;uniqueIndex:idx_meetup_identity"`
	BookId      uint      `json:"book_id" gorm:"not null;index;uniqueIndex:idx_meetup_identity"`
	HostId      uint      `json:"host_id" gorm:"not null"`
	Book        *Book     `json:"book,omitempty" gorm:"constraint:OnUpdate:CASCADE;"`
	Host        *User     `json:"-" gorm:"foreignKey:HostId;constraint:OnUpdate:CASCADE;"`
}
