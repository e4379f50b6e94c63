package middlewares

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/geocoder89/placeshare/internal/httperr"
	"github.com/gin-gonic/gin"
)

// ErrorHandler is the terminal stage of the pipeline. Handlers never write a
// failure response themselves; they attach an error to the context and
// return. This middleware picks the last one up and emits {message,status}
// exactly once. Anything that is not an *httperr.Error becomes a generic 500
// so infrastructure details never reach the client.
func ErrorHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Next()

		if len(ctx.Errors) == 0 {
			return
		}

		err := ctx.Errors.Last().Err

		var httpErr *httperr.Error

		if !errors.As(err, &httpErr) {
			slog.Default().ErrorContext(ctx.Request.Context(), "unhandled_error", "err", err)
			httpErr = httperr.Internal("An unknown error occurred, please try again.")
		}

		if ctx.Writer.Written() {
			// a response already went out, nothing left to do but log
			slog.Default().ErrorContext(ctx.Request.Context(), "error_after_response", "err", err)
			return
		}

		ctx.JSON(httpErr.Status, httpErr)
	}
}

// NoRoute produces the same uniform error shape for unmatched paths.
func NoRoute() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, httperr.New("Could not find this route.", http.StatusNotFound))
	}
}
