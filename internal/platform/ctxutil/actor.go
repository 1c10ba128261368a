package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type actorDataKey struct{}

// ActorData carries the resolved identity of the acting user for a request.
// Identity resolution itself happens at the boundary (JWT middleware); the
// engine only ever reads this struct.
type ActorData struct {
	UserID             uuid.UUID
	Role               string
	BarangayID         *uuid.UUID
	GovernanceAreaIDs  []uuid.UUID
}

func WithActorData(ctx context.Context, ad *ActorData) context.Context {
	return context.WithValue(ctx, actorDataKey{}, ad)
}

func GetActorData(ctx context.Context) *ActorData {
	val := ctx.Value(actorDataKey{})
	if ad, ok := val.(*ActorData); ok {
		return ad
	}
	return nil
}
