package optional

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSome(t *testing.T) {
	t.Parallel()

	opt := Some(42)
	assert.True(t, opt.NonEmpty())
	assert.False(t, opt.Empty())

	val, ok := opt.Get()
	assert.True(t, ok)
	assert.Equal(t, 42, val)
}

func TestNone(t *testing.T) {
	t.Parallel()

	opt := None[int]()
	assert.True(t, opt.Empty())

	val, ok := opt.Get()
	assert.False(t, ok)
	assert.Equal(t, 0, val)

	var zero Value[string]
	assert.True(t, zero.Empty())
}

func TestGetOrElse(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a", Some("a").GetOrElse("b"))
	assert.Equal(t, "b", None[string]().GetOrElse("b"))
	assert.Equal(t, Some(1), None[int]().OrElse(Some(1)))
	assert.Equal(t, Some(2), Some(2).OrElse(Some(1)))
}

func TestMap(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Some(4), Map(Some(2), func(v int) int { return v * 2 }))
	assert.True(t, Map(None[int](), func(v int) int { return v * 2 }).Empty())
}

func TestString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Some(x)", Some("x").String())
	assert.Equal(t, "None", None[string]().String())
}

func TestJSON(t *testing.T) {
	t.Parallel()

	type payload struct {
		Last Value[string] `json:"last"`
	}

	t.Run("round trip set value", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(payload{Last: Some("transition/accept")})
		require.NoError(t, err)
		assert.JSONEq(t, `{"last":"transition/accept"}`, string(data))

		var decoded payload
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, Some("transition/accept"), decoded.Last)
	})

	t.Run("null and absent decode to None", func(t *testing.T) {
		t.Parallel()

		var withNull payload
		require.NoError(t, json.Unmarshal([]byte(`{"last":null}`), &withNull))
		assert.True(t, withNull.Last.Empty())

		var absent payload
		require.NoError(t, json.Unmarshal([]byte(`{}`), &absent))
		assert.True(t, absent.Last.Empty())

		data, err := json.Marshal(absent)
		require.NoError(t, err)
		assert.JSONEq(t, `{"last":null}`, string(data))
	})

	t.Run("wrong type fails", func(t *testing.T) {
		t.Parallel()

		var decoded payload
		require.Error(t, json.Unmarshal([]byte(`{"last":12}`), &decoded))
	})
}
