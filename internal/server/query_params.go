package server

import (
	"errors"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

func parseOptionalBool(value string) (*bool, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseBool(trimmed)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseOptionalInt(value string) (*int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseOptionalSnowflakeID(value string) (*snowflake.ID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := snowflake.ParseString(trimmed)
	if err != nil || parsed == 0 {
		return nil, errors.New("invalid_snowflake_id")
	}
	return &parsed, nil
}

func pathID(c *gin.Context) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil || id == 0 {
		return 0, newValidationError("id", "invalid_id", "invalid id")
	}
	return id, nil
}

// parsePagination clamps limit into [1, maxLimit] with a default, offset
// into [0, inf).
func parsePagination(c *gin.Context, defaultLimit, maxLimit int) (limit, offset int, err error) {
	limit = defaultLimit
	if parsed, perr := parseOptionalInt(c.Query("limit")); perr != nil {
		return 0, 0, newValidationError("limit", "invalid_limit", "invalid limit")
	} else if parsed != nil {
		limit = *parsed
	}
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}

	if parsed, perr := parseOptionalInt(c.Query("offset")); perr != nil {
		return 0, 0, newValidationError("offset", "invalid_offset", "invalid offset")
	} else if parsed != nil && *parsed > 0 {
		offset = *parsed
	}
	return limit, offset, nil
}
