package utils

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hireloop-dev/hireloop/internal/middleware"
	"github.com/hireloop-dev/hireloop/internal/types"
)

func GetCurrentUser(ctx *gin.Context) (middleware.AuthenticatedUser, error) {
	user, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return middleware.AuthenticatedUser{}, fmt.Errorf("User not authenticated")
	}

	authenticatedUser, ok := user.(middleware.AuthenticatedUser)

	if !ok {
		return middleware.AuthenticatedUser{}, fmt.Errorf("Invalid user type in context")
	}

	return authenticatedUser, nil
}

func GetCurrentUserID(ctx *gin.Context) (uint, error) {
	user, err := GetCurrentUser(ctx)

	if err != nil {
		return 0, err
	}

	return user.ID, nil
}

func GetJobID(ctx *gin.Context) (uint, error) {
	return getUintParam(ctx, "job_id")
}

func GetApplicationID(ctx *gin.Context) (uint, error) {
	return getUintParam(ctx, "application_id")
}

func getUintParam(ctx *gin.Context, name string) (uint, error) {
	raw := ctx.Param(name)

	if raw == "" {
		return 0, errors.New("missing " + name)
	}

	value, err := strconv.ParseUint(raw, 10, 32)

	if err != nil {
		return 0, errors.New("invalid " + name)
	}

	return uint(value), nil
}
