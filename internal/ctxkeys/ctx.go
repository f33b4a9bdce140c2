package ctxkeys

import (
	"context"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	DoctorIDKey contextKey = "doctor_id"
)

func UserID(ctx context.Context) string {
	id, _ := ctx.Value(UserIDKey).(string)
	return id
}

func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, UserIDKey, id)
}

func DoctorID(ctx context.Context) string {
	id, _ := ctx.Value(DoctorIDKey).(string)
	return id
}

func WithDoctorID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, DoctorIDKey, id)
}
