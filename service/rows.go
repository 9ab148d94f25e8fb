package service

import (
	"github.com/jinzhu/copier"

	"github.com/shelfclub/booklist/model"
)

// ratedBookRow is the flat shape the feed queries scan into: all book
// columns, the joined author name, and the aggregate columns.
type ratedBookRow struct {
	Id             uint
	Title          string
	AuthorId       uint
	AmazonId       *string
	Publisher      string
	ISBN           string
	HighResImage   string
	LargeImage     string
	MediumImage    string
	SmallImage     string
	ThumbnailImage string
	PubYear        string
	AmzUrl         string
	AuthorName     string
	AvgReaction    float64
	Reaction       int
}

// toSummary reshapes a row so the author's name is nested under "author"
// instead of left as a sibling column.
func (r *ratedBookRow) toSummary() model.BookSummary {
	var s model.BookSummary
	copier.Copy(&s, r)
	s.Author = model.AuthorSummary{Name: r.AuthorName}
	return s
}

func toSummaries(rows []ratedBookRow) []model.BookSummary {
	out := make([]model.BookSummary, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toSummary())
	}
	return out
}
