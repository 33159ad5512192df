package cli

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortedChoices(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		[]string{"default-booking", "default-purchase", "release-2", "release-10"},
		SortedChoices("release-10", "default-purchase", "release-2", "default-booking", "release-2"))
	assert.Empty(t, SortedChoices())
}

func TestSearcher(t *testing.T) {
	t.Parallel()

	items := []string{"default-booking", "default-purchase"}
	search := Searcher(items)

	assert.True(t, search("default-p", 1))
	assert.False(t, search("default-p", 0))
	assert.False(t, search("", 0))
	assert.False(t, search("default", 5))
}

func TestSelectWithoutChoices(t *testing.T) {
	t.Parallel()

	_, err := Select("Process")
	require.ErrorIs(t, err, ErrNoChoices)
}

func TestValidateUUID(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateUUID(uuid.NewString()))
	require.ErrorIs(t, ValidateUUID(""), errEmptyInput)
	require.Error(t, ValidateUUID("not-a-uuid"))
}

func TestCanonicalUUID(t *testing.T) {
	t.Parallel()

	id := uuid.NewString()

	got, err := CanonicalUUID(strings.ToUpper(id))
	require.NoError(t, err)
	assert.Equal(t, id, got)

	got, err = CanonicalUUID("{" + id + "}")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = CanonicalUUID("")
	require.ErrorIs(t, err, errEmptyInput)
}
