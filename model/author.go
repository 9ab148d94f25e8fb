package model

// Author is keyed by name; the catalog search result carries no stable author
// id, so name is the only identity we have.
type Author struct {
	Id   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:255;not null;uniqueIndex"`
}
