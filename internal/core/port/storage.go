package port

import "context"

// ObjectMirror copies stored files to object storage
type ObjectMirror interface {
	PutFile(ctx context.Context, key, path, contentType string) error
	RemoveObject(ctx context.Context, key string) error
}
