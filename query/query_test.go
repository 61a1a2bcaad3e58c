package query

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/model"
)

func catalog() []model.Product {
	return []model.Product{
		model.NewElectronic(10, "Smartphone", 200, 0, "Acme", 12),
		model.NewBook(11, "Dune", 40, 3, "Frank Herbert", "Chilton"),
		model.NewBook(12, "Ágape", 100, 1, "Ana", "Pub"),
		model.NewElectronic(13, "Headphones", 80, 7, "Sonic", 6),
		model.NewBook(14, "Clean Code", 40, 9, "Robert Martin", "PH"),
	}
}

func ids(ps []model.Product) []int64 {
	return Map(ps, model.Product.ID)
}

func TestFilterAvailableKeepsOrder(t *testing.T) {
	ps := catalog()
	got := FilterAvailable(ps)
	assert.Equal(t, []int64{11, 12, 13, 14}, ids(got))
	for _, p := range got {
		assert.Greater(t, p.Stock(), 0)
	}
	// input untouched
	assert.Equal(t, []int64{10, 11, 12, 13, 14}, ids(ps))
}

func TestFilters(t *testing.T) {
	ps := catalog()
	assert.Equal(t, []int64{11, 12, 14}, ids(FilterByKind(ps, model.KindBook)))
	assert.Equal(t, []int64{10, 13}, ids(FilterByKind(ps, model.KindElectronic)))
	assert.Equal(t, []int64{10, 12}, ids(FilterMinPrice(ps, 105)))
	assert.Equal(t, []int64{11, 13, 14}, ids(FilterMaxPrice(ps, 92)))
	assert.Equal(t, []int64{13, 14}, ids(FilterMinStock(ps, 7)))
	assert.Equal(t, []int64{10, 12}, ids(Filter(ps, func(p model.Product) bool { return p.Price() >= 100 })))
}

func TestSearchByNameIgnoresCase(t *testing.T) {
	ps := catalog()
	assert.Equal(t, []int64{10, 13}, ids(SearchByName(ps, "PHONE")))
	assert.Equal(t, []int64{12}, ids(SearchByName(ps, "ágape")))
	assert.Empty(t, SearchByName(ps, "tablet"))
	assert.Len(t, SearchByName(ps, ""), len(ps))
}

func TestMaps(t *testing.T) {
	ps := catalog()
	assert.Equal(t, []string{"Smartphone", "Dune", "Ágape", "Headphones", "Clean Code"}, Names(ps))
	prices := FinalPrices(ps)
	require.Len(t, prices, 5)
	assert.InDelta(t, 230.0, prices[0], 1e-9)
	assert.InDelta(t, 42.0, prices[1], 1e-9)
	assert.Equal(t, []string{"SMARTPHONE"}, Map(ps[:1], func(p model.Product) string { return strings.ToUpper(p.Name()) }))
}

func TestSortsAreStableCopies(t *testing.T) {
	ps := catalog()

	asc := SortByPrice(ps, true)
	assert.Equal(t, []int64{11, 14, 13, 12, 10}, ids(asc))

	desc := SortByPrice(ps, false)
	assert.Equal(t, []int64{10, 12, 13, 11, 14}, ids(desc))

	assert.Equal(t, []int64{14, 11, 13, 10, 12}, ids(SortByName(ps)))
	assert.Equal(t, []int64{10, 11, 12, 13, 14}, ids(ps))
}

func TestExtremaKeepFirstOnTies(t *testing.T) {
	ps := catalog()

	cheapest, ok := Cheapest(ps)
	require.True(t, ok)
	assert.Equal(t, int64(11), cheapest.ID())

	top, ok := MostExpensive(ps)
	require.True(t, ok)
	assert.Equal(t, int64(10), top.ID())

	twins := []model.Product{model.NewBook(1, "a", 10, 1, "", ""), model.NewBook(2, "b", 10, 1, "", "")}
	hi, _ := MostExpensive(twins)
	assert.Equal(t, int64(1), hi.ID())

	_, ok = Cheapest(nil)
	assert.False(t, ok)
	_, ok = MostExpensive(nil)
	assert.False(t, ok)
}

func TestAveragePrice(t *testing.T) {
	assert.Equal(t, 0.0, AveragePrice(nil))
	assert.InDelta(t, (230+42+105+92+42)/5.0, AveragePrice(catalog()), 1e-9)
}

func TestFindByID(t *testing.T) {
	ps := catalog()
	p, ok := FindByID(ps, 13)
	require.True(t, ok)
	assert.Equal(t, "Headphones", p.Name())

	_, ok = FindByID(ps, 99)
	assert.False(t, ok)
	_, ok = FindByID(nil, 1)
	assert.False(t, ok)
}

func TestComposeRunsLeftToRight(t *testing.T) {
	trace := []string{}
	step := func(name string) func(int) int {
		return func(v int) int {
			trace = append(trace, name)
			return v
		}
	}
	Compose(step("a"), step("b"), step("c"))(0)
	assert.Equal(t, []string{"a", "b", "c"}, trace)

	addThenDouble := Compose(func(v int) int { return v + 1 }, func(v int) int { return v * 2 })
	assert.Equal(t, 8, addThenDouble(3))

	assert.Equal(t, 5, Compose[int]()(5))
}

func TestComposeProductPipeline(t *testing.T) {
	pipeline := Compose(
		MinStockFilter(1),
		MinPriceFilter(50),
		Sorter(model.Product.FinalPrice, false),
	)
	assert.Equal(t, []int64{13, 12}, ids(pipeline(catalog())))
}

func TestCriteria(t *testing.T) {
	ps := catalog()
	maxPrice := 100.0
	c := Criteria{Kind: model.KindBook, MaxPrice: &maxPrice, Sort: SortName}
	assert.Equal(t, []int64{14, 11}, ids(c.Apply(ps)))

	minPrice := 90.0
	c = Criteria{MinPrice: &minPrice, AvailableOnly: true, Sort: SortPriceDesc}
	assert.Equal(t, []int64{12, 13}, ids(c.Apply(ps)))

	assert.Equal(t, ids(ps), ids(Criteria{}.Apply(ps)))
	assert.Equal(t, []int64{10, 13}, ids(Criteria{Name: "phone", MinStock: 0}.Apply(ps)))

	assert.True(t, ValidSort(SortPriceAsc))
	assert.False(t, ValidSort("stock"))
}

func TestValidationHelpers(t *testing.T) {
	p := model.NewBook(1, "x", 1, 3, "", "")
	assert.True(t, PositiveQuantity(1))
	assert.False(t, PositiveQuantity(0))
	assert.True(t, HasStock(p, 3))
	assert.False(t, HasStock(p, 4))
}
