package middlewares

type ctxKey = string

const (
	CtxRequestID ctxKey = "request_id"
	CtxUserID    ctxKey = "auth.userID"
	CtxEmail     ctxKey = "auth.email"
)
