package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_KnownCollections(t *testing.T) {
	for _, name := range []string{"skills", "experiences", "services", "certifications", "projects"} {
		col, err := Parse(name)
		require.NoError(t, err)
		assert.Equal(t, Collection(name), col)
	}
}

func TestParse_UnknownCollection(t *testing.T) {
	_, err := Parse("reviews")
	assert.Error(t, err)

	_, err = Parse("")
	assert.Error(t, err)
}

func TestLookup_RequiredFields(t *testing.T) {
	spec, ok := Lookup(CollectionSkills)
	require.True(t, ok)
	assert.Equal(t, []string{"title", "icon"}, spec.Required)
	assert.Equal(t, AppendEnd, spec.Policy)

	spec, ok = Lookup(CollectionExperiences)
	require.True(t, ok)
	assert.Equal(t, []string{"position", "company", "duration"}, spec.Required)
	assert.Equal(t, AppendStart, spec.Policy)

	spec, ok = Lookup(CollectionServices)
	require.True(t, ok)
	assert.Equal(t, []string{"title", "description", "icon"}, spec.Required)
}

func TestAll_ContainsEveryCollection(t *testing.T) {
	all := All()
	assert.Len(t, all, 5)

	seen := make(map[Collection]bool)
	for _, c := range all {
		seen[c] = true
	}
	assert.True(t, seen[CollectionSkills])
	assert.True(t, seen[CollectionExperiences])
	assert.True(t, seen[CollectionServices])
	assert.True(t, seen[CollectionCertifications])
	assert.True(t, seen[CollectionProjects])
}
