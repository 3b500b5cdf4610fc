package criteria_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Documentos-api/internal/domain"
	"github.com/jhoicas/Documentos-api/internal/domain/criteria"
	"github.com/jhoicas/Documentos-api/internal/domain/entity"
)

func TestSortKeys_Lookup(t *testing.T) {
	s, err := entity.DocumentSortKeys.Lookup(" customerLastName ")
	require.NoError(t, err)
	assert.Equal(t, "customer.lastName", s.Path)

	s, err = entity.PersonSortKeys.Lookup("USERNAME")
	require.NoError(t, err)
	assert.Equal(t, "username", s.Path)

	_, err = entity.PersonSortKeys.Lookup("AGE")
	assert.ErrorIs(t, err, domain.ErrUnknownSortKey)
}

func TestSortKeys_CheckPanicConRutaInvalida(t *testing.T) {
	assert.Panics(t, func() {
		criteria.SortKeys{"X": "nope"}.Check(entity.PersonSchema)
	})
}

func TestParseVisibility(t *testing.T) {
	tests := map[string]criteria.DeleteVisibility{
		"":        criteria.ExcludeDeleted,
		"exclude": criteria.ExcludeDeleted,
		"ONLY":    criteria.OnlyDeleted,
		"include": criteria.IncludeAll,
		"all":     criteria.IncludeAll,
	}
	for in, want := range tests {
		got, err := criteria.ParseVisibility(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := criteria.ParseVisibility("maybe")
	assert.ErrorIs(t, err, domain.ErrBadFilterValue)
}

func TestDeleteVisibility_Apply(t *testing.T) {
	deleted := &entity.Person{ID: 1, IsDeleted: true}
	alive := &entity.Person{ID: 2}

	tests := []struct {
		v           criteria.DeleteVisibility
		wantDeleted bool
		wantAlive   bool
	}{
		{criteria.ExcludeDeleted, false, true},
		{criteria.OnlyDeleted, true, false},
		{criteria.IncludeAll, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.v.String(), func(t *testing.T) {
			f := criteria.NewFilterSet(entity.PersonSchema)
			tt.v.Apply(f)
			pred, err := f.Build()
			require.NoError(t, err)
			matches := func(p *entity.Person) bool { return pred == nil || pred.Match(p) }
			assert.Equal(t, tt.wantDeleted, matches(deleted))
			assert.Equal(t, tt.wantAlive, matches(alive))
		})
	}
}
