package middleware

import (
	"net/http"

	"aegis/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ErrorHandler recovers panics and turns them into a clean 500 so a
// handler bug never drops the connection mid-response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logrus.WithFields(logrus.Fields{
					"panic": r,
					"path":  c.Request.URL.Path,
				}).Error("Panic recovered")

				if !c.Writer.Written() {
					c.JSON(http.StatusInternalServerError, models.ErrorResponse{
						Error:   "INTERNAL_ERROR",
						Message: "An unexpected error occurred",
						Code:    "INTERNAL_PANIC",
					})
				}
				c.Abort()
			}
		}()

		c.Next()
	}
}
