package v1

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/api/handler/v1/response"
	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/api/middleware"
	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/domain"
	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/service"
)

type UserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
}

// getUserFromContext resolves the authenticated user from the user ID the
// JWT middleware stored on the context.
func getUserFromContext(ctx *gin.Context, svc UserService) (domain.User, *response.Err) {
	value, exists := ctx.Get(middleware.ContextKeyUserID)
	if !exists {
		return domain.User{}, response.ErrWrongCredentials(errors.New("user is not authenticated"))
	}

	userID, ok := value.(uint)
	if !ok {
		return domain.User{}, response.ErrWrongCredentials(errors.New("invalid user ID in context"))
	}

	user, err := svc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return domain.User{}, response.ErrNotFound("user", "ID", userID)
		}

		return domain.User{}, response.ErrInternalServerError(fmt.Errorf("v1.getUserFromContext -> svc.GetUser -> %w", err))
	}

	return user, nil
}
