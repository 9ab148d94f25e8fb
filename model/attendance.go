package model

/*

Attendance is a "many-to-many" relation of a user joining a meetup.

MeetupId, UserId: the pair is unique, joining twice is a no-op.

*/

type Attendance struct {
	Id       uint   `json:"id" gorm:"primaryKey"`
	MeetupId uint   `json:"meetup_id" gorm:"not null;index;uniqueIndex:idx_attendance_pair"`
	UserId   uint   `json:"user_id" gorm:"not null;index;uniqueIndex:idx_attendance_pair"`
	Meetup   Meetup `json:"-" gorm:"constraint:OnUpdate:CASCADE;"`
	User     User   `json:"-" gorm:"constraint:OnUpdate:CASCADE;"`
}
