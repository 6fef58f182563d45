package contextkeys

import (
	"context"
	"real-estate-system/internal/core/domain"
)

type actorKeyType struct{}

var actorKey = actorKeyType{}

// ContextWithActor кладет аутентифицированного пользователя в контекст запроса.
func ContextWithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext возвращает пользователя и признак его наличия.
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(domain.Actor)
	return actor, ok
}
