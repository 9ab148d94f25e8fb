package model

/*

Book is a single catalog entry somebody in the club has read.

Id: primary key, auto assigned
Title: plain text title, required
AuthorId:
Author: "belongs-to" relation, every book has exactly one author
AmazonId: catalog id from the product search API. Unique when present; books
	entered by hand have none, hence the pointer (NULL rows don't collide).
Publisher, ISBN, images, PubYear, AmzUrl: catalog metadata passed through from
	the search result, never interpreted by the core

*/

type Book struct {
	Id             uint    `json:"id" gorm:"primaryKey"`
	Title          string  `json:"title" gorm:"size:255;not null;index"`
	AuthorId       uint    `json:"author_id" gorm:"not null;index"`
	Author         Author  `json:"-" gorm:"constraint:OnUpdate:CASCADE;"`
	AmazonId       *string `json:"amazon_id" gorm:"size:255;uniqueIndex"`
	Publisher      string  `json:"publisher" gorm:"size:255"`
	ISBN           string  `json:"ISBN" gorm:"size:255"`
	HighResImage   string  `json:"high_res_image"`
	LargeImage     string  `json:"large_image"`
	MediumImage    string  `json:"medium_image"`
	SmallImage     string  `json:"small_image"`
	ThumbnailImage string  `json:"thumbnail_image"`
	PubYear        string  `json:"pub_year" gorm:"size:255"`
	AmzUrl         string  `json:"amz_url" gorm:"size:255"`
}
