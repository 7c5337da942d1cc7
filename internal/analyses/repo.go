package analyses

import "context"

// Repo persists analysis history.
type Repo interface {
	Create(ctx context.Context, analysis Analysis) error
	GetByID(ctx context.Context, analysisID string) (Analysis, error)
	List(ctx context.Context, limit, offset int) ([]Analysis, error)
}
