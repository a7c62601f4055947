package blogservice

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sushihentaime/inkwell/internal/common"
)

var (
	ErrForbidden         = errors.New("you do not have permission to access this post")
	ErrSlugTaken         = errors.New("slug already used by another post")
	ErrDuplicateTag      = errors.New("tag already exists")
	ErrDuplicateCategory = errors.New("category already exists")
	ErrUserForeignKey    = errors.New("author does not exist")
)

// SlugConflictError is returned when a new post's slug is already taken.
type SlugConflictError struct {
	Slug      string
	Suggested string
}

func (e *SlugConflictError) Error() string {
	return "slug already used"
}

// UnauthorizedIDsError lists the posts of a bulk delete that the caller does not own.
type UnauthorizedIDsError struct {
	IDs []int
}

func (e *UnauthorizedIDsError) Error() string {
	return "no permission to delete posts with ids: " + common.JoinIDs(e.IDs)
}

// MissingIDsError lists the ids of a bulk operation that do not exist.
type MissingIDsError struct {
	Entity string
	IDs    []int
}

func (e *MissingIDsError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, common.JoinIDs(e.IDs))
}

// UnknownCategoryError is returned when a post references categories that do not exist.
type UnknownCategoryError struct {
	IDs []int
}

func (e *UnknownCategoryError) Error() string {
	return "categories do not exist: " + common.JoinIDs(e.IDs)
}

// InvalidIDsError lists entries of a bulk request that are not valid ids.
type InvalidIDsError struct {
	Entity string
	Values []string
}

func (e *InvalidIDsError) Error() string {
	return fmt.Sprintf("invalid %s ids: %s", e.Entity, strings.Join(e.Values, ", "))
}
