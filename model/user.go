package model

/*

User is a member of the book club.

Id: primary key, auto assigned
AmzAuthId: the verified external identity (JWT subject) this row is keyed by,
	the core never verifies tokens itself
Email: display email, may be empty until the user fills in their profile
Name: display name

*/

type User struct {
	Id        uint   `json:"id" gorm:"primaryKey"`
	AmzAuthId string `json:"amz_auth_id" gorm:"size:255;not null;uniqueIndex"`
	Email     string `json:"email" gorm:"size:255"`
	Name      string `json:"name" gorm:"size:255"`
}
