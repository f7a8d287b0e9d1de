package ctxutil

import (
	"context"
	"errors"
)

type ctxKey string

const (
	RequestIDKey ctxKey = "request_id"
	UserIDKey    ctxKey = "user_id"
	CompanyIDKey ctxKey = "company_id"
	WorkerIDKey  ctxKey = "worker_id"
)

var ErrMissingCompanyID = errors.New("company id not found in context")

func WithRequestID(ctx context.Context, reqID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, reqID)
}

func GetRequestID(ctx context.Context) string {
	if v := ctx.Value(RequestIDKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

func WithWorkerID(ctx context.Context, workerID int) context.Context {
	return context.WithValue(ctx, WorkerIDKey, workerID)
}

func GetWorkerID(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(WorkerIDKey).(int)
	return id, ok
}

func GetCompanyIDCtx(ctx context.Context) (int64, error) {
	if id, ok := ctx.Value(CompanyIDKey).(int64); ok {
		return id, nil
	}
	return 0, ErrMissingCompanyID
}
