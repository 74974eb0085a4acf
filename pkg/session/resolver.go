// Package session resolves an incoming request's access token from the
// session store or a query authorization code, falling back to an
// unauthenticated request.
package session

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// CookieName is the session cookie carrying the visitor's session id.
	CookieName = "session_id"

	// TokenKey is the request context key holding the resolved access token.
	TokenKey = "access_token"

	// IDKey is the request context key holding the session id.
	IDKey = "session_id"
)

const cookieMaxAge = 86400

// Store is the session token store consumed by the resolver.
type Store interface {
	Token(ctx context.Context, sessionID string) (string, error)
	SaveToken(ctx context.Context, sessionID, token string) error
}

// Exchanger swaps an authorization code for an access token.
type Exchanger interface {
	Exchange(ctx context.Context, code string) (string, error)
}

// Resolver attaches an access token to the request context when one can be
// resolved. Resolution never fails a request on its own: a timed-out or
// failed exchange degrades to the unauthenticated outcome. RequireAuth turns
// that outcome into a 401 instead.
type Resolver struct {
	Store       Store
	Exchanger   Exchanger
	Timeout     time.Duration
	RequireAuth bool
}

// Middleware implements the three resolution outcomes:
//  1. a token is already in the session store — attach it;
//  2. no token but the query carries a code — exchange it, persist, attach;
//  3. neither — proceed unauthenticated (or 401 under RequireAuth).
func (r *Resolver) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := EnsureID(c)
		c.Set(IDKey, sid)

		token, err := r.Store.Token(c.Request.Context(), sid)
		if err != nil {
			log.Printf("[API] Session lookup failed: %v", err)
		}
		if token != "" {
			c.Set(TokenKey, token)
			return
		}

		if code := c.Query("code"); code != "" && r.Exchanger != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), r.Timeout)
			token, err = r.Exchanger.Exchange(ctx, code)
			cancel()
			if err != nil {
				log.Printf("[API] Token exchange failed, proceeding unauthenticated: %v", err)
			} else {
				if err := r.Store.SaveToken(c.Request.Context(), sid, token); err != nil {
					log.Printf("[API] Failed to persist session token: %v", err)
				}
				c.Set(TokenKey, token)
				return
			}
		}

		if r.RequireAuth {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		}
	}
}

// EnsureID returns the request's session id, minting a cookie when absent.
func EnsureID(c *gin.Context) string {
	if sid, err := c.Cookie(CookieName); err == nil && sid != "" {
		return sid
	}
	sid := uuid.New().String()
	c.SetCookie(CookieName, sid, cookieMaxAge, "/", "", false, true)
	return sid
}

// Token returns the resolved access token, or "" when unauthenticated.
func Token(c *gin.Context) string {
	return c.GetString(TokenKey)
}

// ID returns the session id attached by the resolver.
func ID(c *gin.Context) string {
	return c.GetString(IDKey)
}
