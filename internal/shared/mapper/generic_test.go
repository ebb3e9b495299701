package mapper

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID   uint
	Code string
}

type entity struct {
	Code string
}

func TestMapSlice(t *testing.T) {
	assert.Nil(t, MapSlice[int, string](nil, strconv.Itoa))
	assert.Equal(t, []string{"1", "2"}, MapSlice([]int{1, 2}, strconv.Itoa))
	assert.Equal(t, []string{}, MapSlice([]int{}, strconv.Itoa))
}

func TestMapSlicePtrWithID(t *testing.T) {
	toEntity := func(r *row) (*entity, error) {
		switch r.Code {
		case "":
			return nil, errors.New("empty code")
		case "skip":
			return nil, nil
		}
		return &entity{Code: r.Code}, nil
	}
	getID := func(r *row) uint { return r.ID }

	t.Run("nil input", func(t *testing.T) {
		out, err := MapSlicePtrWithID(nil, toEntity, getID)
		require.NoError(t, err)
		assert.Nil(t, out)
	})

	t.Run("skips nil input and output", func(t *testing.T) {
		out, err := MapSlicePtrWithID([]*row{{ID: 1, Code: "de"}, nil, {ID: 2, Code: "skip"}}, toEntity, getID)
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "de", out[0].Code)
	})

	t.Run("error carries item ID", func(t *testing.T) {
		_, err := MapSlicePtrWithID([]*row{{ID: 1, Code: "de"}, {ID: 7}}, toEntity, getID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to map item ID 7")
	})
}
