package filter

import (
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	DefaultProductPage       = 1
	DefaultProductPerPage    = 12
	DefaultSimilarPerPage    = 3
	DefaultProductSortColumn = "createdAt"
)

// CategoriesMatch selects how the plural categories parameter is compared.
type CategoriesMatch string

const (
	// CategoriesMatchAny keeps products whose category is one of the list.
	CategoriesMatchAny CategoriesMatch = "any"
	// CategoriesMatchExact compares the category field against the whole list.
	CategoriesMatchExact CategoriesMatch = "exact"
)

type PriceRange struct {
	Min int
	Max int
}

// ProductParams holds the validated filter inputs. Nil or empty fields add no clause.
type ProductParams struct {
	Text            string
	Price           *PriceRange
	Categories      []primitive.ObjectID
	CategoriesMatch CategoriesMatch
	Subcategories   []primitive.ObjectID
	Rating          *int
	Shipping        string

	// Category and Subcategory come from the route and override their plural forms.
	Category    *primitive.ObjectID
	Subcategory *primitive.ObjectID
}

type ProductQuery struct {
	Params     ProductParams
	SortColumn string
	Order      int
	Page       int
	PerPage    int
}

func (q ProductQuery) Skip() int64 {
	return int64(q.Page-1) * int64(q.PerPage)
}

func (q ProductQuery) Limit() int64 {
	return int64(q.PerPage)
}

// Sort is the single-key sort document for the query.
func (q ProductQuery) Sort() bson.D {
	return bson.D{{Key: q.SortColumn, Value: q.Order}}
}

// ParseProductQuery validates the query string of the product listing.
func ParseProductQuery(values url.Values) (ProductQuery, error) {
	query := ProductQuery{Order: -1}

	var err error
	if query.SortColumn, err = parseSortColumn(values, DefaultProductSortColumn); err != nil {
		return query, err
	}

	if query.Order, err = parseNamedOrder(values.Get("order")); err != nil {
		return query, err
	}

	if query.Page, err = parsePositiveInt(values, "page", DefaultProductPage); err != nil {
		return query, err
	}

	if query.PerPage, err = parsePerPage(values, DefaultProductPerPage); err != nil {
		return query, err
	}

	if err = checkSkippedPages(query.Page-1, query.PerPage); err != nil {
		return query, err
	}

	query.Params, err = ParseProductParams(values)
	return query, err
}

// ParseProductParams reads the filter keys of the product listing.
func ParseProductParams(values url.Values) (ProductParams, error) {
	params := ProductParams{CategoriesMatch: CategoriesMatchAny}

	params.Text = strings.TrimSpace(values.Get("text"))
	params.Shipping = strings.TrimSpace(values.Get("shipping"))

	if raw := strings.TrimSpace(values.Get("price")); raw != "" {
		price, err := parsePriceRange(raw)
		if err != nil {
			return params, err
		}
		params.Price = price
	}

	if raw := values.Get("categories"); strings.TrimSpace(raw) != "" {
		ids, err := ParseObjectIDList("categories", raw)
		if err != nil {
			return params, err
		}
		params.Categories = ids
	}

	switch CategoriesMatch(strings.TrimSpace(values.Get("categoriesMatch"))) {
	case "", CategoriesMatchAny:
	case CategoriesMatchExact:
		params.CategoriesMatch = CategoriesMatchExact
	default:
		return params, invalidParam("categoriesMatch", "must be one of: any exact")
	}

	if raw := values.Get("subcategories"); strings.TrimSpace(raw) != "" {
		ids, err := ParseObjectIDList("subcategories", raw)
		if err != nil {
			return params, err
		}
		params.Subcategories = ids
	}

	if strings.TrimSpace(values.Get("rating")) != "" {
		rating, err := parseInt(values, "rating", 0)
		if err != nil {
			return params, err
		}
		if rating < 1 || rating > 5 {
			return params, invalidParam("rating", "must be between 1 and 5")
		}
		params.Rating = &rating
	}

	return params, nil
}

// BuildProductFilter turns params into a query predicate. ratedIDs is the output of the
// rating aggregation and is only read when params.Rating is set.
func BuildProductFilter(params ProductParams, ratedIDs []primitive.ObjectID) bson.M {
	build := bson.M{}

	if params.Text != "" {
		build["$text"] = bson.M{"$search": params.Text}
	}

	if params.Price != nil {
		build["price"] = bson.M{"$gte": params.Price.Min, "$lte": params.Price.Max}
	}

	if len(params.Categories) > 0 {
		if params.CategoriesMatch == CategoriesMatchExact {
			build["category"] = params.Categories
		} else {
			build["category"] = bson.M{"$in": params.Categories}
		}
	}

	if len(params.Subcategories) > 0 {
		build["subcategories"] = bson.M{"$in": params.Subcategories}
	}

	if params.Rating != nil {
		if ratedIDs == nil {
			ratedIDs = []primitive.ObjectID{}
		}
		build["_id"] = bson.M{"$in": ratedIDs}
	}

	if params.Shipping != "" {
		build["shipping"] = params.Shipping
	}

	// route-derived values are applied last so they replace the plural clauses
	if params.Category != nil {
		build["category"] = *params.Category
	}

	if params.Subcategory != nil {
		build["subcategories"] = *params.Subcategory
	}

	return build
}

// SimilarProductsFilter matches other products of the same category.
func SimilarProductsFilter(product primitive.ObjectID, category primitive.ObjectID) bson.M {
	return bson.M{
		"_id":      bson.M{"$ne": product},
		"category": category,
	}
}

// RatingPipeline yields the ids of products whose ceiled average rating equals stars.
// Products without ratings average to null and never match.
func RatingPipeline(stars int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$project", Value: bson.D{
			{Key: "ceiledAverage", Value: bson.D{
				{Key: "$ceil", Value: bson.D{{Key: "$avg", Value: "$ratings.stars"}}},
			}},
		}}},
		{{Key: "$match", Value: bson.D{{Key: "ceiledAverage", Value: stars}}}},
		{{Key: "$project", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
}

func parseNamedOrder(raw string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "desc", "descending", "-1":
		return -1, nil
	case "asc", "ascending", "1":
		return 1, nil
	default:
		return 0, invalidParam("order", "must be one of: asc desc")
	}
}

func ParseSimilarPerPage(values url.Values) (int, error) {
	return parsePerPage(values, DefaultSimilarPerPage)
}
