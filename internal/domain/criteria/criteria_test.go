package criteria_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Documentos-api/internal/domain"
	"github.com/jhoicas/Documentos-api/internal/domain/criteria"
	"github.com/jhoicas/Documentos-api/internal/domain/entity"
)

func day(s string) *time.Time {
	t, err := time.Parse(criteria.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func person(id int, first, last, birth string) *entity.Person {
	return &entity.Person{ID: id, Username: first + "_" + last, FirstName: first, LastName: last, BirthDate: day(birth)}
}

func TestParseOperator(t *testing.T) {
	tests := []struct {
		token string
		want  criteria.Operator
	}{
		{":", criteria.Equals},
		{"!", criteria.NotEquals},
		{">", criteria.GreaterOrEqual},
		{"<", criteria.LessOrEqual},
		{"~", criteria.Like},
	}
	for _, tt := range tests {
		op, err := criteria.ParseOperator(tt.token)
		require.NoError(t, err)
		assert.Equal(t, tt.want, op)
		assert.Equal(t, tt.token, op.String())
	}

	_, err := criteria.ParseOperator("=")
	assert.ErrorIs(t, err, domain.ErrBadFilterOperator)
}

func TestResolve_RutasConRelaciones(t *testing.T) {
	p, err := entity.DocumentSchema.Resolve("customer.lastName")
	require.NoError(t, err)
	assert.Len(t, p.Relations, 1)
	assert.Equal(t, "last_name", p.Field.Column)
	assert.Equal(t, criteria.KindString, p.Kind())

	for _, bad := range []string{"", "customer", "author.lastName", "customer.salary", "title.length"} {
		_, err := entity.DocumentSchema.Resolve(bad)
		assert.ErrorIs(t, err, domain.ErrUnknownField, bad)
	}
}

func TestMustResolve_PanicConRutaInvalida(t *testing.T) {
	assert.NotPanics(t, func() { entity.DocumentSchema.MustResolve("executor.firstName", "isDeleted") })
	assert.Panics(t, func() { entity.PersonSchema.MustResolve("nickname") })
}

func TestTranslate_Errores(t *testing.T) {
	tests := []struct {
		name string
		c    criteria.Criterion
		want error
	}{
		{"campo desconocido", criteria.Criterion{Path: "nickname", Op: criteria.Equals, Value: "x"}, domain.ErrUnknownField},
		{"like sobre fecha", criteria.Criterion{Path: "birthDate", Op: criteria.Like, Value: "2000"}, domain.ErrBadFilterOperator},
		{"mayor sobre bool", criteria.Criterion{Path: "isDeleted", Op: criteria.GreaterOrEqual, Value: true}, domain.ErrBadFilterOperator},
		{"operador fuera de rango", criteria.Criterion{Path: "firstName", Op: criteria.Operator(42), Value: "x"}, domain.ErrBadFilterOperator},
		{"fecha mal formada", criteria.Criterion{Path: "birthDate", Op: criteria.Equals, Value: "01/02/2000"}, domain.ErrBadFilterValue},
		{"entero no numérico", criteria.Criterion{Path: "id", Op: criteria.Equals, Value: "abc"}, domain.ErrBadFilterValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := criteria.Translate(entity.PersonSchema, tt.c)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCondition_Match(t *testing.T) {
	alex := person(1, "alex", "Smith", "1990-05-10")

	match := func(path string, op criteria.Operator, v any) bool {
		cond, err := criteria.Translate(entity.PersonSchema, criteria.Criterion{Path: path, Op: op, Value: v})
		require.NoError(t, err)
		return cond.Match(alex)
	}

	assert.True(t, match("firstName", criteria.Equals, "alex"))
	assert.False(t, match("firstName", criteria.NotEquals, "alex"))
	assert.True(t, match("lastName", criteria.Like, "mit"))
	assert.False(t, match("lastName", criteria.Like, "MIT"), "LIKE distingue mayúsculas")
	assert.True(t, match("birthDate", criteria.GreaterOrEqual, "1990-05-10"))
	assert.True(t, match("birthDate", criteria.LessOrEqual, *day("1990-05-11")))
	assert.False(t, match("birthDate", criteria.GreaterOrEqual, day("1991-01-01")))
	assert.True(t, match("id", criteria.Equals, "1"))
	assert.True(t, match("isDeleted", criteria.Equals, "false"))
}

func TestCondition_RelacionNulaNoCoincide(t *testing.T) {
	doc := &entity.Document{ID: 1, Title: "t", Customer: nil}

	for _, op := range []criteria.Operator{criteria.Equals, criteria.NotEquals} {
		cond, err := criteria.Translate(entity.DocumentSchema, criteria.Criterion{Path: "customer.firstName", Op: op, Value: "alex"})
		require.NoError(t, err)
		assert.False(t, cond.Match(doc))
	}
}

func TestCondition_FechaNulaNoCoincide(t *testing.T) {
	p := &entity.Person{ID: 1, FirstName: "a"}
	cond, err := criteria.Translate(entity.PersonSchema, criteria.Criterion{Path: "birthDate", Op: criteria.LessOrEqual, Value: "2100-01-01"})
	require.NoError(t, err)
	assert.False(t, cond.Match(p))
}

func TestAnd(t *testing.T) {
	assert.Nil(t, criteria.And())
	assert.Nil(t, criteria.And(nil, nil))

	c, err := criteria.Translate(entity.PersonSchema, criteria.Criterion{Path: "firstName", Op: criteria.Equals, Value: "a"})
	require.NoError(t, err)
	assert.Same(t, c, criteria.And(nil, c))
	assert.IsType(t, &criteria.Conjunction{}, criteria.And(c, c))
}

func TestCompare(t *testing.T) {
	assert.Negative(t, criteria.Compare(criteria.KindString, "a", "b"))
	assert.Positive(t, criteria.Compare(criteria.KindInt, int64(3), int64(2)))
	assert.Zero(t, criteria.Compare(criteria.KindDate, *day("2020-01-01"), *day("2020-01-01")))
	assert.Negative(t, criteria.Compare(criteria.KindBool, false, true))
}
