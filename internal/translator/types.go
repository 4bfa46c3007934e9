package translator

import "context"

// Service is a single external translation capability. The source language
// is always auto-detected by the service; callers only supply the target.
type Service interface {
	Name() string
	Translate(ctx context.Context, text, targetLang string) (string, error)
	Close() error
}
