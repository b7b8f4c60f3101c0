package api

import (
	"errors"
	"net/http"
	"strconv"

	"servicebay/internal/domain/auth"
	"servicebay/internal/handler/httperr"
	"servicebay/internal/handler/middleware"
	"servicebay/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errNoSession = errors.New("no session in context")

func requireSession(c *gin.Context) (*auth.Session, bool) {
	s, ok := middleware.GetSession(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errNoSession, "Unauthorized", nil)
		return nil, false
	}
	return s, true
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid "+name, gin.H{"field": name, "reason": "must be a UUID"})
		return uuid.Nil, false
	}
	return id, true
}

func queryUUID(c *gin.Context, name string) (*uuid.UUID, bool) {
	v := c.Query(name)
	if v == "" {
		return nil, true
	}
	id, err := uuid.Parse(v)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query parameter", gin.H{"field": name, "reason": "must be a UUID"})
		return nil, false
	}
	return &id, true
}

func queryString(c *gin.Context, name string) *string {
	if v := c.Query(name); v != "" {
		return &v
	}
	return nil
}

func pageParams(c *gin.Context) (*queries.Cursor, int) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		if iv, e := strconv.Atoi(v); e == nil {
			limit = queries.ValidateLimit(iv)
		}
	}
	var cursor *queries.Cursor
	if after := c.Query("after"); after != "" {
		cursor = &queries.Cursor{After: after}
	}
	return cursor, limit
}

func bindFailed(c *gin.Context, err error) {
	httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
}
