package middlewares

import (
	"encoding/base64"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// jwtSecret is the base64-decoded HMAC secret shared with the identity
	// provider. Set by Setup before any middleware runs.
	jwtSecret   []byte
	jwtAudience string
)

// Setup initializes all package scoped variables that are needed to perform
// middleware functionalities. This function must be called before any
// middleware is used.
func Setup() error {
	secret, err := base64.StdEncoding.DecodeString(os.Getenv("AUTH_SECRET"))
	if err != nil {
		return err
	}
	jwtSecret = secret
	jwtAudience = os.Getenv("AUTH_ID")
	return nil
}

// bearerToken pulls the JWT out of the Authorization header, falling back to
// the "token" query parameter for clients that cannot set headers.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Query("token")
}

// JWT verifies the request's token (HS256, audience-checked) and stamps the
// verified subject into the "sub" request header for handlers to read. It
// returns 401 on a missing or invalid token.
func JWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "empty jwt token"})
			c.Abort()
			return
		}

		opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
		if jwtAudience != "" {
			opts = append(opts, jwt.WithAudience(jwtAudience))
		}
		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			return jwtSecret, nil
		}, opts...)
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "invalid jwt token"})
			c.Abort()
			return
		}

		sub, err := token.Claims.GetSubject()
		if err != nil || sub == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "token has no subject"})
			c.Abort()
			return
		}

		// Successfully validated the jwt token, expose the subject to
		// handlers through the "sub" header.
		c.Request.Header.Del("token")
		c.Request.Header.Set("sub", sub)

		c.Next()
	}
}

// RequestId tags every request (and its response) with a unique id so log
// lines from one request can be correlated.
func RequestId() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Request.Header.Set("X-Request-ID", id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}
