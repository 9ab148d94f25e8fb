// server binds the core services to their REST routes. Handlers are thin:
// decode, call one service operation, map the typed error to a status code.
package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shelfclub/booklist/catalog"
	"github.com/shelfclub/booklist/errs"
	"github.com/shelfclub/booklist/model"
	"github.com/shelfclub/booklist/service"
	Logger "github.com/shelfclub/booklist/utils/log"
)

type Server struct {
	Profiles   *service.ProfileService
	Ledger     *service.BookLedger
	Aggregator *service.RatingAggregator
	Meetups    *service.MeetupDirectory
	Catalog    *catalog.Client
}

func NewServer(db *gorm.DB, cat *catalog.Client) *Server {
	profiles := service.NewProfileService(db)
	return &Server{
		Profiles:   profiles,
		Ledger:     service.NewBookLedger(db),
		Aggregator: service.NewRatingAggregator(db, profiles),
		Meetups:    service.NewMeetupDirectory(db),
		Catalog:    cat,
	}
}

// writeError maps the error taxonomy onto status codes: bad input is the
// caller's fault, missing rows are 404, constraint breaks are conflicts, and
// anything storage- or upstream-level is a gateway failure.
func writeError(c *gin.Context, err error) {
	switch {
	case errs.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
	case errs.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"msg": err.Error()})
	case errs.IsConstraint(err):
		c.JSON(http.StatusConflict, gin.H{"msg": err.Error()})
	case errs.IsStorage(err), errs.IsUpstream(err):
		Logger.Log.Error(err)
		c.JSON(http.StatusBadGateway, gin.H{"msg": "dependency failure"})
	default:
		Logger.Log.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "internal error"})
	}
}

// subject returns the verified identity the JWT middleware stamped into the
// request.
func subject(c *gin.Context) string {
	return c.Request.Header.Get("sub")
}

func pathId(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		writeError(c, errs.Validationf("bad %s: %s", name, c.Param(name)))
		return 0, false
	}
	return uint(id), true
}

// queryLimit parses the optional limit parameter; absent or unparsable means
// unbounded, which is what the client sends for the full list view.
func queryLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil {
		return 0
	}
	return limit
}

func (s *Server) signIn(c *gin.Context) {
	user, err := s.Profiles.ResolveProfile(subject(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

type recordReadingRequest struct {
	Author   *model.Author `json:"author"`
	Book     *model.Book   `json:"book"`
	Reaction int           `json:"reaction"`
}

func (s *Server) recordReading(c *gin.Context) {
	var req recordReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errs.Validationf("bad reading payload: %s", err))
		return
	}
	summary, err := s.Ledger.RecordReading(req.Author, req.Book, req.Reaction, subject(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, summary)
}

func (s *Server) rankedBooks(c *gin.Context) {
	books, err := s.Aggregator.RankedBooks(queryLimit(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, books)
}

func (s *Server) rankedBooksSignedIn(c *gin.Context) {
	books, err := s.Aggregator.RankedBooksFor(subject(c), queryLimit(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, books)
}

func (s *Server) bookDetail(c *gin.Context) {
	id, ok := pathId(c, "bookid")
	if !ok {
		return
	}
	book, err := s.Ledger.BookDetail(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

func (s *Server) profile(c *gin.Context) {
	// A profile is addressed either by explicit user id (someone else's
	// shelf) or by the caller's own verified identity.
	var userId uint
	if raw := c.Query("id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			writeError(c, errs.Validationf("bad id: %s", raw))
			return
		}
		userId = uint(parsed)
	}
	books, err := s.Profiles.ReadingHistory(subject(c), userId)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": books})
}

func (s *Server) catalogSearch(c *gin.Context) {
	results, err := s.Catalog.SearchBooks(c.Request.Context(), c.Query("title"), c.Query("authorName"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

type createMeetupRequest struct {
	Location    string `json:"location"`
	Description string `json:"description"`
	DateTime    string `json:"dateTime"`
	Book        uint   `json:"book"`
	Id          string `json:"id"`
}

func (s *Server) createMeetup(c *gin.Context) {
	var req createMeetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errs.Validationf("bad meetup payload: %s", err))
		return
	}
	host := req.Id
	if sub := subject(c); sub != "" {
		host = sub
	}
	meetup, err := s.Meetups.CreateMeetup(req.Location, req.Description, req.DateTime, req.Book, host)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, meetup)
}

func (s *Server) meetupsForBook(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	meetups, err := s.Meetups.MeetupsForBook(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, meetups)
}

func (s *Server) meetupDetail(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	meetup, err := s.Meetups.MeetupDetail(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, meetup)
}

func (s *Server) joinMeetup(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	user, err := s.Profiles.ResolveProfile(subject(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if err := s.Meetups.AddAttendance(user.Id, id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (s *Server) meetupAttendees(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	users, err := s.Meetups.AttendeesOf(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (s *Server) userMeetups(c *gin.Context) {
	meetups, err := s.Meetups.MeetupsForUser(subject(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, meetups)
}
