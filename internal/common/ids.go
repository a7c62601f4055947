package common

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// maxID is the largest identifier accepted in a request body.
const maxID = math.MaxInt32

// IDList decodes a JSON array of identifiers. Positive integers and numeric strings are kept in IDs, every
// other entry is recorded verbatim in Invalid.
type IDList struct {
	IDs     []int
	Invalid []string
}

func (l *IDList) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return errors.New("must be an array of ids")
	}

	l.IDs = l.IDs[:0]
	l.Invalid = l.Invalid[:0]

	for _, r := range raw {
		if id, ok := parseID(r); ok {
			l.IDs = append(l.IDs, id)
			continue
		}
		l.Invalid = append(l.Invalid, string(r))
	}

	return nil
}

func parseID(r json.RawMessage) (int, bool) {
	var f float64
	if err := json.Unmarshal(r, &f); err == nil {
		if f != math.Trunc(f) || f < 1 || f > maxID {
			return 0, false
		}
		return int(f), true
	}

	var s string
	if err := json.Unmarshal(r, &s); err == nil {
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil || n < 1 || n > maxID {
			return 0, false
		}
		return int(n), true
	}

	return 0, false
}

// UniqueIDs returns ids without duplicates, keeping first occurrences in order.
func UniqueIDs(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Int64s converts ids for use with pq.Array.
func Int64s(ids []int) []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}

// JoinIDs renders ids as "1, 2, 3".
func JoinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}
