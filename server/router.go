package server

import (
	"github.com/gin-gonic/gin"

	"github.com/shelfclub/booklist/server/middlewares"
)

// RegisterRoutes wires the REST surface. Routes touching a specific user's
// data sit behind the JWT middleware; public lookups don't.
func (s *Server) RegisterRoutes(router *gin.Engine, byPassAuth bool) {
	auth := func() gin.HandlerFunc {
		if byPassAuth {
			return func(c *gin.Context) { c.Next() }
		}
		return middlewares.JWT()
	}()

	router.POST("/signin", auth, s.signIn)
	router.POST("/users/books", auth, s.recordReading)
	router.GET("/books", s.rankedBooks)
	router.GET("/books/signedin", auth, s.rankedBooksSignedIn)
	router.GET("/books/:bookid", s.bookDetail)
	router.GET("/amazon", s.catalogSearch)
	router.GET("/profile", auth, s.profile)
	router.GET("/profile/meetups", auth, s.userMeetups)

	router.POST("/meetup/create", auth, s.createMeetup)
	router.GET("/meetup/:id", s.meetupsForBook)
	router.GET("/meetup/details/:id", s.meetupDetail)
	router.POST("/meetup/details/:id", auth, s.joinMeetup)
	router.GET("/meetup/attendees/:id", s.meetupAttendees)
}
