package auth

import "context"

type contextKey string

const subjectKey contextKey = "auth_subject"

// WithSubject binds the subject to the request context.
func WithSubject(ctx context.Context, subject Subject) context.Context {
	return context.WithValue(ctx, subjectKey, subject)
}

// SubjectFrom returns the subject bound to the context, if any.
func SubjectFrom(ctx context.Context) (Subject, bool) {
	subject, ok := ctx.Value(subjectKey).(Subject)
	return subject, ok
}
