package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

func pathID(ctx *gin.Context, name string, missing string, invalid string) (uint64, error) {
	idStr := ctx.Param(name)

	if idStr == "" {
		return 0, errors.New(missing)
	}

	id, err := strconv.ParseUint(idStr, 10, 32)

	if err != nil {
		return 0, errors.New(invalid)
	}

	return id, nil
}

func GetProjectID(ctx *gin.Context) (uint64, error) {
	return pathID(ctx, "project_id", "Project ID not found", "Invalid Project ID")
}

func GetProfileID(ctx *gin.Context) (uint64, error) {
	return pathID(ctx, "profile_id", "Profile ID not found", "Invalid Profile ID")
}

func GetConfigID(ctx *gin.Context) (uint64, error) {
	return pathID(ctx, "config_id", "Config ID not found", "Invalid Config ID")
}

func GetKeyID(ctx *gin.Context) (uint64, error) {
	return pathID(ctx, "key_id", "Key ID not found", "Invalid Key ID")
}
