package model

/*

Response shapes handed to the HTTP layer. They mirror the book row with the
author's name nested under "author" instead of left as a sibling column, which
is what the client renders.

AvgReaction: mean of positive reactions for the book. On a personalized feed
	row the viewer has rated but nobody else has, it falls back to the viewer's
	own reaction.
Reaction: the viewer's own reaction, only populated on personalized feed and
	reading history rows.

*/

type AuthorSummary struct {
	Name string `json:"name"`
}

type BookSummary struct {
	Id             uint          `json:"id"`
	Title          string        `json:"title"`
	AmazonId       *string       `json:"amazon_id"`
	Publisher      string        `json:"publisher"`
	ISBN           string        `json:"ISBN"`
	HighResImage   string        `json:"high_res_image"`
	LargeImage     string        `json:"large_image"`
	MediumImage    string        `json:"medium_image"`
	SmallImage     string        `json:"small_image"`
	ThumbnailImage string        `json:"thumbnail_image"`
	PubYear        string        `json:"pub_year"`
	AmzUrl         string        `json:"amz_url"`
	Author         AuthorSummary `json:"author"`
	AvgReaction    float64       `json:"avgReaction"`
	Reaction       int           `json:"reaction,omitempty"`
}

// ReadingSummary is the receipt returned after a reading is recorded.
type ReadingSummary struct {
	Book struct {
		Title string `json:"title"`
		Id    uint   `json:"id"`
	} `json:"book"`
	Author struct {
		Id   uint   `json:"id"`
		Name string `json:"name"`
	} `json:"author"`
	Reaction int `json:"reaction"`
}
