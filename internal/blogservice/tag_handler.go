package blogservice

import (
	"context"
	"database/sql"
	"strings"

	"github.com/sushihentaime/inkwell/internal/common"
)

// ListTags returns all tags matching search ordered by name. includeCount adds postCount to each tag.
func (s *BlogService) ListTags(ctx context.Context, search string, includeCount bool) ([]Tag, error) {
	return s.tags.list(ctx, strings.TrimSpace(search), includeCount)
}

func (s *BlogService) GetTag(ctx context.Context, id int) (*Tag, error) {
	v := common.NewValidator()
	validateID(v, "id", id)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.tags.get(ctx, id)
}

func (s *BlogService) CreateTag(ctx context.Context, name string) (*Tag, error) {
	name = strings.TrimSpace(name)

	v := common.NewValidator()
	validateName(v, "name", name)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	t := &Tag{Name: name}
	if err := s.tags.insert(ctx, t); err != nil {
		return nil, err
	}

	count := 0
	t.PostCount = &count

	return t, nil
}

func (s *BlogService) UpdateTag(ctx context.Context, id int, name string) (*Tag, error) {
	name = strings.TrimSpace(name)

	v := common.NewValidator()
	validateID(v, "id", id)
	validateName(v, "name", name)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if err := s.tags.rename(ctx, id, name); err != nil {
		return nil, err
	}

	return s.tags.get(ctx, id)
}

func (s *BlogService) DeleteTag(ctx context.Context, id int) error {
	v := common.NewValidator()
	validateID(v, "id", id)
	if !v.Valid() {
		return v.ValidationError()
	}

	return common.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		n, err := s.tags.deleteMany(ctx, tx, []int{id})
		if err != nil {
			return err
		}
		if n == 0 {
			return common.ErrRecordNotFound
		}
		return nil
	})
}

// DeleteTags removes every listed tag. Non-numeric entries and unknown ids reject the whole batch.
func (s *BlogService) DeleteTags(ctx context.Context, ids common.IDList) (int, error) {
	if len(ids.Invalid) > 0 {
		return 0, &InvalidIDsError{Entity: "tag", Values: ids.Invalid}
	}

	unique := common.UniqueIDs(ids.IDs)

	v := common.NewValidator()
	v.Check(len(unique) > 0, "ids", "must contain at least one tag id")
	if !v.Valid() {
		return 0, v.ValidationError()
	}

	var deleted int64
	err := common.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		missing, err := missingIDs(ctx, tx, "tags", unique)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return &MissingIDsError{Entity: "tags", IDs: missing}
		}

		deleted, err = s.tags.deleteMany(ctx, tx, unique)
		return err
	})
	if err != nil {
		return 0, err
	}

	return int(deleted), nil
}
