package filter

import (
	"errors"
	"net/url"
	"testing"

	"github.com/alimikegami/e-commerce/catalog-service/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	catOne = "64b7f0c2a1e4d3b2c1a09f01"
	catTwo = "64b7f0c2a1e4d3b2c1a09f02"
	subOne = "64b7f0c2a1e4d3b2c1a09f11"
	subTwo = "64b7f0c2a1e4d3b2c1a09f12"
)

func mustID(t *testing.T, hex string) primitive.ObjectID {
	t.Helper()
	id, err := primitive.ObjectIDFromHex(hex)
	require.NoError(t, err)
	return id
}

func TestBuildProductFilterEmpty(t *testing.T) {
	params, err := ParseProductParams(url.Values{})
	require.NoError(t, err)

	assert.Empty(t, BuildProductFilter(params, nil))
}

func TestBuildProductFilterClauses(t *testing.T) {
	values := url.Values{}
	values.Set("text", "phone")
	values.Set("price", "10,50")
	values.Set("categories", catOne+","+catTwo)
	values.Set("subcategories", subOne)
	values.Set("shipping", "Yes")

	params, err := ParseProductParams(values)
	require.NoError(t, err)

	got := BuildProductFilter(params, nil)

	assert.Equal(t, bson.M{"$search": "phone"}, got["$text"])
	assert.Equal(t, bson.M{"$gte": 10, "$lte": 50}, got["price"])
	assert.Equal(t, bson.M{"$in": []primitive.ObjectID{mustID(t, catOne), mustID(t, catTwo)}}, got["category"])
	assert.Equal(t, bson.M{"$in": []primitive.ObjectID{mustID(t, subOne)}}, got["subcategories"])
	assert.Equal(t, "Yes", got["shipping"])
	assert.NotContains(t, got, "_id")
}

func TestBuildProductFilterExactCategories(t *testing.T) {
	values := url.Values{}
	values.Set("categories", catOne+","+catTwo)
	values.Set("categoriesMatch", "exact")

	params, err := ParseProductParams(values)
	require.NoError(t, err)

	got := BuildProductFilter(params, nil)
	assert.Equal(t, []primitive.ObjectID{mustID(t, catOne), mustID(t, catTwo)}, got["category"])
}

func TestBuildProductFilterRouteOverrides(t *testing.T) {
	values := url.Values{}
	values.Set("categories", catOne)
	values.Set("subcategories", subOne)

	params, err := ParseProductParams(values)
	require.NoError(t, err)

	category := mustID(t, catTwo)
	subcategory := mustID(t, subTwo)
	params.Category = &category
	params.Subcategory = &subcategory

	got := BuildProductFilter(params, nil)
	assert.Equal(t, category, got["category"])
	assert.Equal(t, subcategory, got["subcategories"])
}

func TestBuildProductFilterRating(t *testing.T) {
	values := url.Values{}
	values.Set("rating", "4")

	params, err := ParseProductParams(values)
	require.NoError(t, err)
	require.NotNil(t, params.Rating)
	assert.Equal(t, 4, *params.Rating)

	rated := []primitive.ObjectID{mustID(t, catOne)}
	assert.Equal(t, bson.M{"$in": rated}, BuildProductFilter(params, rated)["_id"])

	// no rated products means nothing matches, not "no constraint"
	assert.Equal(t, bson.M{"$in": []primitive.ObjectID{}}, BuildProductFilter(params, nil)["_id"])
}

func TestParseProductParamsRejectsMalformedInput(t *testing.T) {
	testCases := []struct {
		Name  string
		Key   string
		Value string
	}{
		{Name: "price without max", Key: "price", Value: "10"},
		{Name: "price with empty max", Key: "price", Value: "10,"},
		{Name: "price not numeric", Key: "price", Value: "ten,50"},
		{Name: "price reversed", Key: "price", Value: "50,10"},
		{Name: "rating not numeric", Key: "rating", Value: "four"},
		{Name: "rating out of range", Key: "rating", Value: "6"},
		{Name: "invalid category id", Key: "categories", Value: "not-an-id"},
		{Name: "invalid subcategory id", Key: "subcategories", Value: subOne + ",xyz"},
		{Name: "unknown categories match", Key: "categoriesMatch", Value: "some"},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			values := url.Values{}
			values.Set(tc.Key, tc.Value)

			_, err := ParseProductParams(values)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errs.ErrInvalidQueryParam))
		})
	}
}

func TestParseProductQueryPagination(t *testing.T) {
	query, err := ParseProductQuery(url.Values{})
	require.NoError(t, err)

	assert.Equal(t, 1, query.Page)
	assert.Equal(t, 12, query.PerPage)
	assert.Equal(t, int64(0), query.Skip())
	assert.Equal(t, int64(12), query.Limit())
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, query.Sort())

	values := url.Values{}
	values.Set("page", "3")
	values.Set("perPage", "10")
	values.Set("sortColumn", "price")
	values.Set("order", "asc")

	query, err = ParseProductQuery(values)
	require.NoError(t, err)
	assert.Equal(t, int64(20), query.Skip())
	assert.Equal(t, int64(10), query.Limit())
	assert.Equal(t, bson.D{{Key: "price", Value: 1}}, query.Sort())
}

func TestParseProductQueryRejectsMalformedPaging(t *testing.T) {
	testCases := []struct {
		Name   string
		Values url.Values
	}{
		{Name: "page not numeric", Values: url.Values{"page": {"abc"}}},
		{Name: "page zero", Values: url.Values{"page": {"0"}}},
		{Name: "perPage negative", Values: url.Values{"perPage": {"-2"}}},
		{Name: "order unknown", Values: url.Values{"order": {"sideways"}}},
		{Name: "sort column operator", Values: url.Values{"sortColumn": {"$where"}}},
		{Name: "perPage above limit", Values: url.Values{"perPage": {"101"}}},
		{Name: "page offset overflows", Values: url.Values{"page": {"9223372036854775807"}, "perPage": {"12"}}},
		{Name: "page just past offset limit", Values: url.Values{"page": {"768614336404564652"}, "perPage": {"12"}}},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			_, err := ParseProductQuery(tc.Values)
			assert.ErrorIs(t, err, errs.ErrInvalidQueryParam)
		})
	}
}

func TestParseProductQueryLargestPage(t *testing.T) {
	// (page-1)*perPage stays within int64 for the largest accepted page
	query, err := ParseProductQuery(url.Values{"page": {"768614336404564651"}, "perPage": {"12"}})
	require.NoError(t, err)
	assert.Greater(t, query.Skip(), int64(0))
}

func TestParseSimilarPerPageLimit(t *testing.T) {
	_, err := ParseSimilarPerPage(url.Values{"perPage": {"1000"}})
	assert.ErrorIs(t, err, errs.ErrInvalidQueryParam)
}

func TestSimilarProductsFilter(t *testing.T) {
	product := mustID(t, subOne)
	category := mustID(t, catOne)

	assert.Equal(t, bson.M{
		"_id":      bson.M{"$ne": product},
		"category": category,
	}, SimilarProductsFilter(product, category))

	perPage, err := ParseSimilarPerPage(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, 3, perPage)
}

func TestRatingPipeline(t *testing.T) {
	pipeline := RatingPipeline(3)
	require.Len(t, pipeline, 3)

	assert.Equal(t, "$project", pipeline[0][0].Key)
	assert.Equal(t, bson.D{{Key: "$match", Value: bson.D{{Key: "ceiledAverage", Value: 3}}}}, pipeline[1])
}
