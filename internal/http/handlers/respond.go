package handlers

import (
	"github.com/geocoder89/placeshare/internal/httperr"
	"github.com/gin-gonic/gin"
)

// Fail hands a uniform error to the terminal error middleware. Handlers call
// this and return; they never write failure payloads themselves.
func Fail(ctx *gin.Context, err *httperr.Error) {
	ctx.Error(err)
	ctx.Abort()
}

func FailNotFound(ctx *gin.Context, message string) {
	Fail(ctx, httperr.NotFound(message))
}

func FailInvalid(ctx *gin.Context, message string) {
	Fail(ctx, httperr.Invalid(message))
}

func FailUnauthorized(ctx *gin.Context, message string) {
	Fail(ctx, httperr.Unauthorized(message))
}

func FailInternal(ctx *gin.Context, message string) {
	Fail(ctx, httperr.Internal(message))
}
