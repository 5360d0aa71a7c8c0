package querysql

import (
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/criteria/internal/criteria"
	"github.com/roach88/criteria/internal/querybuilder"
)

func newBuilder() *querybuilder.Builder {
	return querybuilder.New(querybuilder.SQLite).Select().From("t", "")
}

func TestParseWhereMode(t *testing.T) {
	testCases := []struct {
		input    string
		expected WhereMode
	}{
		{"", WhereDefault},
		{"and", WhereAnd},
		{"AND", WhereAnd},
		{" Or ", WhereOr},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			mode, err := ParseWhereMode(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, mode)
		})
	}

	for _, bad := range []string{"xor", "none", "where"} {
		_, err := ParseWhereMode(bad)
		require.Error(t, err, bad)
		assert.True(t, errors.Is(err, ErrUnknownWhereMode))
	}
}

func TestRender_PredicateOperators(t *testing.T) {
	testCases := []struct {
		operator string
		expected string
	}{
		{"=", "a = :p1"},
		{"eq", "a = :p1"},
		{"!=", "a <> :p1"},
		{"<>", "a <> :p1"},
		{"neq", "a <> :p1"},
		{"<", "a < :p1"},
		{"lt", "a < :p1"},
		{"<=", "a <= :p1"},
		{"LTE", "a <= :p1"},
		{">", "a > :p1"},
		{"gt", "a > :p1"},
		{">=", "a >= :p1"},
		{"gte", "a >= :p1"},
		{"like", "a LIKE :p1"},
		{"Not Like", "a NOT LIKE :p1"},
		{"regexp", "a REGEXP :p1"},
	}

	for _, tc := range testCases {
		t.Run(tc.operator, func(t *testing.T) {
			qb := Render(criteria.NewPredicate("a", " v ", tc.operator), newBuilder(), WhereDefault)
			w, args := qb.WhereSQL()
			assert.Equal(t, tc.expected, w)
			assert.Equal(t, []any{sql.Named("p1", "v")}, args, "value is trimmed and bound")
		})
	}
}

func TestRender_NullTests(t *testing.T) {
	qb := Render(criteria.NewPredicate("deleted", "", "IS NULL"), newBuilder(), WhereDefault)
	w, args := qb.WhereSQL()
	assert.Equal(t, "deleted IS NULL", w)
	assert.Empty(t, args)
	assert.Empty(t, qb.Params(), "null tests bind nothing")

	qb = Render(criteria.NewPredicate("deleted", "x", "is not null"), newBuilder(), WhereDefault)
	w, _ = qb.WhereSQL()
	assert.Equal(t, "deleted IS NOT NULL", w)
	assert.Empty(t, qb.Params())
}

func TestRender_ListInterpolated(t *testing.T) {
	qb := Render(criteria.NewPredicate("uid", " (1,2,3) ", "in"), newBuilder(), WhereDefault)
	w, args := qb.WhereSQL()
	assert.Equal(t, "uid IN (1,2,3)", w)
	assert.Empty(t, args)

	qb = Render(criteria.NewPredicate("uid", "(4)", "NOT IN").WithPrefix("u"), newBuilder(), WhereDefault)
	w, _ = qb.WhereSQL()
	assert.Equal(t, "u.uid NOT IN (4)", w)
}

func TestRender_ColumnExpression(t *testing.T) {
	p := criteria.NewPredicate("name", "bob", "=").WithPrefix("u").WithFunction("LOWER(%s)")
	qb := Render(p, newBuilder(), WhereDefault)
	w, _ := qb.WhereSQL()
	assert.Equal(t, "LOWER(u.name) = :p1", w)
}

func TestRender_EmptyColumnIsNoOp(t *testing.T) {
	qb := newBuilder()
	qb.Where(querybuilder.Raw("keep = 1"))

	for _, mode := range []WhereMode{WhereDefault, WhereAnd, WhereOr} {
		Render(criteria.NewPredicate("", "1", "="), qb, mode)
	}

	w, _ := qb.WhereSQL()
	assert.Equal(t, "keep = 1", w)
	assert.Empty(t, qb.Params(), "no parameter is bound for an empty column")
}

func TestRender_BlankValueStillBound(t *testing.T) {
	qb := Render(criteria.NewPredicate("a", "   ", "="), newBuilder(), WhereDefault)
	w, args := qb.WhereSQL()
	assert.Equal(t, "a = :p1", w)
	assert.Equal(t, []any{sql.Named("p1", "")}, args)
}

func TestRender_WhereModes(t *testing.T) {
	qb := newBuilder()
	qb.Where(querybuilder.Raw("x = 1"))

	Render(criteria.NewPredicate("a", "1", "="), qb, WhereAnd)
	w, _ := qb.WhereSQL()
	assert.Equal(t, "(x = 1) AND (a = :p1)", w)

	Render(criteria.NewPredicate("b", "2", "="), qb, WhereOr)
	w, _ = qb.WhereSQL()
	assert.Equal(t, "((x = 1) AND (a = :p1)) OR (b = :p2)", w)

	Render(criteria.NewPredicate("c", "3", "="), qb, WhereDefault)
	w, _ = qb.WhereSQL()
	assert.Equal(t, "c = :p3", w, "default mode replaces the WHERE expression")
}

func TestRender_Composite(t *testing.T) {
	c := criteria.NewComposite(criteria.NewPredicate("a", "1", "=")).
		Add(criteria.NewPredicate("b", "2", "="), criteria.And).
		Add(criteria.NewPredicate("c", "3", "="), criteria.Or)

	qb := Render(c, newBuilder(), WhereDefault)
	query, args := qb.SQL()
	assert.Equal(t, "SELECT * FROM t WHERE ((a = :p1) AND (b = :p2)) OR (c = :p3)", query)
	assert.Equal(t, []any{sql.Named("p1", "1"), sql.Named("p2", "2"), sql.Named("p3", "3")}, args)
}

func TestRender_CompositeUsesOwnModeForFirstElement(t *testing.T) {
	qb := newBuilder()
	qb.Where(querybuilder.Raw("x = 1"))

	c := criteria.NewComposite(criteria.NewPredicate("a", "1", "=")).
		Add(criteria.NewPredicate("b", "2", "="), criteria.Or)
	Render(c, qb, WhereAnd)

	w, _ := qb.WhereSQL()
	assert.Equal(t, "((x = 1) AND (a = :p1)) OR (b = :p2)", w)
}

func TestRender_NestedCompositeSharesBuilder(t *testing.T) {
	inner := criteria.NewComposite(criteria.NewPredicate("b", "2", "=")).
		Add(criteria.NewPredicate("c", "3", "="), criteria.Or)
	outer := criteria.NewComposite(criteria.NewPredicate("a", "1", "=")).
		Add(inner, criteria.And)

	qb := Render(outer, newBuilder(), WhereDefault)
	w, _ := qb.WhereSQL()
	assert.Equal(t, "((a = :p1) AND (b = :p2)) OR (c = :p3)", w)
}

func TestRender_EmptyCompositeLeavesBuilderUntouched(t *testing.T) {
	qb := newBuilder()
	qb.Where(querybuilder.Raw("x = 1"))
	Render(criteria.NewComposite(), qb, WhereDefault)
	w, _ := qb.WhereSQL()
	assert.Equal(t, "x = 1", w)
}

func TestRender_NilNode(t *testing.T) {
	qb := newBuilder()
	assert.Same(t, qb, Render(nil, qb, WhereDefault))
	query, _ := qb.SQL()
	assert.Equal(t, "SELECT * FROM t", query)
}

func TestRender_ReturnsSameBuilder(t *testing.T) {
	qb := newBuilder()
	assert.Same(t, qb, Render(criteria.NewPredicate("a", "1", "="), qb, WhereDefault))
}

func TestRender_PredicateModifiers(t *testing.T) {
	p := criteria.NewPredicate("a", "1", "=")
	p.SetLimit(10)
	p.SetStart(5)
	p.SetGroupBy("a")
	p.SetSort("b")
	p.SetOrder("desc")

	qb := Render(p, newBuilder(), WhereDefault)
	query, _ := qb.SQL()
	assert.Equal(t, "SELECT * FROM t WHERE a = :p1 GROUP BY a ORDER BY b DESC LIMIT 10 OFFSET 5", query)
}

func TestRender_OffsetWithoutLimit(t *testing.T) {
	c := criteria.NewComposite(criteria.NewPredicate("a", "1", "="))
	c.SetStart(30)

	qb := Render(c, newBuilder(), WhereDefault)
	assert.Equal(t, 30, qb.FirstResult())
	assert.Equal(t, 0, qb.MaxResults())
	query, _ := qb.SQL()
	assert.Equal(t, "SELECT * FROM t WHERE a = :p1 LIMIT -1 OFFSET 30", query)
}

func TestRender_ModifiersLastWriteWins(t *testing.T) {
	inner := criteria.NewPredicate("a", "1", "=")
	inner.SetSort("inner_sort")
	inner.SetLimit(5)

	outer := criteria.NewComposite(inner).Add(criteria.NewPredicate("b", "2", "="), criteria.And)
	outer.SetSort("outer_sort")
	outer.SetOrder("DESC")
	outer.SetLimit(50)

	qb := Render(outer, newBuilder(), WhereDefault)
	query, _ := qb.SQL()
	assert.Equal(t, "SELECT * FROM t WHERE (a = :p1) AND (b = :p2) ORDER BY outer_sort DESC LIMIT 50", query)
}

func TestRender_TreeNotMutated(t *testing.T) {
	p := criteria.NewPredicate("a", " 1 ", ">")
	tree := criteria.NewComposite(p)
	Render(tree, newBuilder(), WhereDefault)
	Render(tree, newBuilder(), WhereDefault)
	assert.Equal(t, ">", p.Operator)
	assert.Equal(t, " 1 ", p.Value)
}

func TestRender_Dialects(t *testing.T) {
	tree := criteria.NewComposite(criteria.NewPredicate("a", "1", "=")).
		Add(criteria.NewPredicate("b", "2", "<"), criteria.Or)

	pg := Render(tree, querybuilder.New(querybuilder.Postgres).Select().From("t", ""), WhereDefault)
	query, args := pg.SQL()
	assert.Equal(t, "SELECT * FROM t WHERE (a = $1) OR (b < $2)", query)
	assert.Equal(t, []any{"1", "2"}, args)

	my := Render(tree, querybuilder.New(querybuilder.MySQL).Select().From("t", ""), WhereDefault)
	query, args = my.SQL()
	assert.Equal(t, "SELECT * FROM t WHERE (a = ?) OR (b < ?)", query)
	assert.Equal(t, []any{"1", "2"}, args)
}

func TestRender_Golden(t *testing.T) {
	members := criteria.NewComposite(criteria.NewPredicate("uid", "(1,2,3)", "IN")).
		Add(criteria.NewPredicate("name", "adm%", "like").WithPrefix("u").WithFunction("LOWER(%s)"), criteria.And)
	tree := criteria.NewComposite(criteria.NewPredicate("status", "1", "=")).
		Add(members, criteria.Or).
		Add(criteria.NewPredicate("deleted", "", "IS NULL"), criteria.And)
	tree.SetSort("u.uname")
	tree.SetLimit(20)
	tree.SetStart(40)

	qb := querybuilder.New(querybuilder.Postgres).Select("u.uid", "u.uname").From("users", "u")
	query, _ := Render(tree, qb, WhereDefault).SQL()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "members", []byte(query))
}

func TestRender_ConcurrentDistinctBuilders(t *testing.T) {
	tree := criteria.NewComposite(criteria.NewPredicate("a", "1", "=")).
		Add(criteria.NewPredicate("b", "(1,2)", "IN"), criteria.Or)
	tree.SetSort("a")

	const workers = 8
	results := make([]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			query, _ := Render(tree, newBuilder(), WhereDefault).SQL()
			results[i] = query
		}(i)
	}
	wg.Wait()

	for _, query := range results {
		assert.Equal(t, "SELECT * FROM t WHERE (a = :p1) OR (b IN (1,2)) ORDER BY a ASC", query)
	}
}
