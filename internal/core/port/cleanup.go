package port

import (
	"context"
	"time"
)

// CleanupService is service that handles cleanup
type CleanupService interface {
	CleanupStaleTempFiles(ctx context.Context, olderThan time.Time) (int, error)
}
