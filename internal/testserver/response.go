package testserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the error payload of the chat API.
type ErrorBody struct {
	Error string `json:"error"`
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorBody{Error: "Unauthorized"})
}

func abortForbidden(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, ErrorBody{Error: "Forbidden"})
}

func abortInternal(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorBody{Error: "Internal Server Error"})
}
