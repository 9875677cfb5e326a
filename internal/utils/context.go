package utils

import (
	"fmt"

	"github.com/contexthub-dev/contexthub/internal/middleware"
	"github.com/contexthub-dev/contexthub/internal/types"
	"github.com/gin-gonic/gin"
)

func GetCurrentPrincipal(ctx *gin.Context) (middleware.Principal, error) {
	user, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return middleware.Principal{}, fmt.Errorf("User not authenticated")
	}

	principal, ok := user.(middleware.Principal)

	if !ok {
		return middleware.Principal{}, fmt.Errorf("Invalid user type in context")
	}

	return principal, nil
}

func GetCurrentUserID(ctx *gin.Context) (uint, error) {
	principal, err := GetCurrentPrincipal(ctx)

	if err != nil {
		return 0, err
	}

	return principal.ID, nil
}
