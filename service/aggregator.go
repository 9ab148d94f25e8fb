package service

import (
	"sort"

	"gorm.io/gorm"

	"github.com/shelfclub/booklist/model"
	"github.com/shelfclub/booklist/store"
)

// RatingAggregator computes the ranked feeds: the global one, and the
// personalized one where the viewer sees their own score for books they have
// already rated instead of the crowd average.
type RatingAggregator struct {
	DB       *gorm.DB
	Profiles *ProfileService
}

func NewRatingAggregator(db *gorm.DB, profiles *ProfileService) *RatingAggregator {
	return &RatingAggregator{DB: db, Profiles: profiles}
}

// rankedQuery is the shared shape of the feed queries: books joined to their
// positive readings and their author, grouped per book, averaged, ranked.
// limit <= 0 means unbounded.
func (s *RatingAggregator) rankedQuery(limit int) *gorm.DB {
	q := s.DB.Table("books").
		Select("books.*, authors.name AS author_name, AVG(readings.reaction) AS avg_reaction").
		Joins("INNER JOIN readings ON readings.book_id = books.id").
		Joins("INNER JOIN authors ON authors.id = books.author_id").
		Where("readings.reaction > 0").
		Group("books.id, authors.name").
		Order("avg_reaction DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return q
}

// RankedBooks returns all rated books ordered by average reaction, best
// first. Ties may appear in any order.
func (s *RatingAggregator) RankedBooks(limit int) ([]model.BookSummary, error) {
	var rows []ratedBookRow
	if err := s.rankedQuery(limit).Scan(&rows).Error; err != nil {
		return nil, store.MapError("RankedBooks", err)
	}
	return toSummaries(rows), nil
}

/*

RankedBooksFor blends the global ranking with the viewer's own shelf:

  - set A: the global feed computed with the viewer's readings excluded, so
    the crowd average is untainted by their own score;
  - set B: every book the viewer has rated, annotated with their own reaction.

Books in both sets collapse into one row keeping A's average (the "what others
think" number); books only in B fall back to the viewer's own reaction as the
average. The combined rows are re-sorted by average, best first.

The limit applies to each query before the merge, so the merged output can
exceed it — documented behavior carried over from the source system, see
DESIGN.md before "fixing".

*/

func (s *RatingAggregator) RankedBooksFor(viewerIdentity string, limit int) ([]model.BookSummary, error) {
	viewer, err := s.Profiles.ResolveProfile(viewerIdentity)
	if err != nil {
		return nil, err
	}

	var crowd []ratedBookRow
	err = s.rankedQuery(limit).
		Where("readings.user_id <> ?", viewer.Id).
		Scan(&crowd).Error
	if err != nil {
		return nil, store.MapError("RankedBooksFor", err)
	}

	var own []ratedBookRow
	q := s.DB.Table("books").
		Select("books.*, authors.name AS author_name, readings.reaction AS reaction").
		Joins("INNER JOIN readings ON readings.book_id = books.id").
		Joins("INNER JOIN authors ON authors.id = books.author_id").
		Where("readings.user_id = ?", viewer.Id).
		Where("readings.reaction > 0")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(&own).Error; err != nil {
		return nil, store.MapError("RankedBooksFor", err)
	}

	merged := mergeFeeds(crowd, own)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].AvgReaction > merged[j].AvgReaction
	})
	return merged, nil
}

// mergeFeeds deduplicates the crowd feed against the viewer's own rows. A
// book present in both keeps one row: the viewer's, carrying the crowd
// average. A book only the viewer rated uses their reaction as the average.
func mergeFeeds(crowd, own []ratedBookRow) []model.BookSummary {
	crowdAvg := make(map[uint]float64, len(crowd))
	ownIds := make(map[uint]bool, len(own))
	for i := range own {
		ownIds[own[i].Id] = true
	}

	out := make([]model.BookSummary, 0, len(crowd)+len(own))
	for i := range crowd {
		crowdAvg[crowd[i].Id] = crowd[i].AvgReaction
		if !ownIds[crowd[i].Id] {
			out = append(out, crowd[i].toSummary())
		}
	}
	for i := range own {
		row := own[i].toSummary()
		if avg, ok := crowdAvg[row.Id]; ok {
			row.AvgReaction = avg
		} else {
			row.AvgReaction = float64(row.Reaction)
		}
		out = append(out, row)
	}
	return out
}
