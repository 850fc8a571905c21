package middlewares

type ctxKey string

const (
	CtxRequestID ctxKey = "request_id"
	CtxUserEmail ctxKey = "user_email"
)
