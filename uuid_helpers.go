package profile

import (
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// hashidUUID derives a deterministic UUID from a natural key, so re-creating
// the same account yields the same identity.
func hashidUUID(key string) (uuid.UUID, error) {
	return hashid.NewUUID(key)
}
