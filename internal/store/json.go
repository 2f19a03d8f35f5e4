package store

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// JSON wraps a DocStore with typed read-modify-write access. A missing or
// unparseable document yields the caller-supplied empty value: corrupt
// storage means "start fresh", never a failed post cycle.
type JSON[T any] struct {
	store DocStore
	empty func() T
}

func NewJSON[T any](s DocStore, empty func() T) *JSON[T] {
	return &JSON[T]{store: s, empty: empty}
}

func (j *JSON[T]) Read() T {
	b, ok, err := j.store.Load()
	if err != nil {
		log.Warn().Err(err).Msg("store read failed, starting fresh")
		return j.empty()
	}
	if !ok {
		return j.empty()
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		log.Warn().Err(err).Msg("store document corrupt, starting fresh")
		return j.empty()
	}
	return v
}

func (j *JSON[T]) Write(v T) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return j.store.Save(b)
}

// Update applies fn to the current value and persists the result.
func (j *JSON[T]) Update(fn func(T) T) (T, error) {
	v := fn(j.Read())
	return v, j.Write(v)
}
