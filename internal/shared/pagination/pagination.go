package pagination

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultOffset = 0
	DefaultLimit  = 100
	MaxLimit      = 100
	MinLimit      = 1
)

var ErrInvalid = errors.New("invalid pagination parameters")

// Params holds validated offset/limit pagination parameters
type Params struct {
	Offset int
	Limit  int
}

// Normalize rejects negative offsets and limits below MinLimit, and clamps
// limit to MaxLimit.
func Normalize(offset, limit int) (Params, error) {
	if offset < 0 || limit < MinLimit {
		return Params{}, ErrInvalid
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Offset: offset, Limit: limit}, nil
}

// Parse reads offset/limit from the query string. Missing values take the
// defaults; non-numeric values are ErrInvalid.
func Parse(c *gin.Context) (Params, error) {
	offset, err := strconv.Atoi(c.DefaultQuery("offset", strconv.Itoa(DefaultOffset)))
	if err != nil {
		return Params{}, ErrInvalid
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))
	if err != nil {
		return Params{}, ErrInvalid
	}
	return Normalize(offset, limit)
}
