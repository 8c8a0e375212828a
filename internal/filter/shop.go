package filter

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/alimikegami/e-commerce/catalog-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
)

const (
	DefaultShopPage       = 0
	DefaultShopPerPage    = 5
	DefaultShopSortColumn = "createdAt"
)

// ShopQuery pages are zero-indexed, unlike ProductQuery.
type ShopQuery struct {
	ActivityStatus string
	SortColumn     string
	Order          int
	Page           int
	PerPage        int
}

func (q ShopQuery) Skip() int64 {
	return int64(q.Page) * int64(q.PerPage)
}

func (q ShopQuery) Limit() int64 {
	return int64(q.PerPage)
}

func (q ShopQuery) Sort() bson.D {
	return bson.D{{Key: q.SortColumn, Value: q.Order}}
}

func (q ShopQuery) Filter() bson.M {
	return bson.M{"activityStatus": q.ActivityStatus}
}

func ParseShopQuery(values url.Values) (ShopQuery, error) {
	query := ShopQuery{
		ActivityStatus: strings.TrimSpace(values.Get("activityStatus")),
	}
	if query.ActivityStatus == "" {
		query.ActivityStatus = domain.ShopActivityStatusActive
	}

	var err error
	if query.SortColumn, err = parseSortColumn(values, DefaultShopSortColumn); err != nil {
		return query, err
	}

	if query.Order, err = parseNumericOrder(values.Get("order")); err != nil {
		return query, err
	}

	if query.Page, err = parseInt(values, "page", DefaultShopPage); err != nil {
		return query, err
	}
	if query.Page < 0 {
		return query, invalidParam("page", "must not be negative")
	}

	if query.PerPage, err = parsePerPage(values, DefaultShopPerPage); err != nil {
		return query, err
	}

	if err = checkSkippedPages(query.Page, query.PerPage); err != nil {
		return query, err
	}

	return query, nil
}

// parseNumericOrder accepts 1 or -1. Zero falls back to descending.
func parseNumericOrder(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return -1, nil
	}

	order, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidParam("order", "must be an integer")
	}

	switch order {
	case 0, -1:
		return -1, nil
	case 1:
		return 1, nil
	default:
		return 0, invalidParam("order", "must be 1 or -1")
	}
}
