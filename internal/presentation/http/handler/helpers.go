package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kiramedia/checkout-api/pkg/pagination"
)

// parseIDParam parses the :id path parameter as a UUID
func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// paginationFromQuery reads page-based pagination from the query string
func paginationFromQuery(c *gin.Context) *pagination.PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))
	return &pagination.PaginationParams{Page: page, PerPage: perPage}
}

// GetAdminSubject extracts the authenticated admin identity from the context
func GetAdminSubject(c *gin.Context) string {
	subject, exists := c.Get("admin_subject")
	if !exists {
		return ""
	}
	s, _ := subject.(string)
	return s
}
