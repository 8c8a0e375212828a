package filter

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/alimikegami/e-commerce/catalog-service/pkg/errs"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxPerPage bounds the page size of every listing.
const MaxPerPage = 100

var sortColumnPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

func invalidParam(name, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s %s", errs.ErrInvalidQueryParam, name, fmt.Sprintf(format, args...))
}

// parseInt returns def when the key is absent or empty.
func parseInt(values url.Values, key string, def int) (int, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return def, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidParam(key, "must be an integer")
	}
	return n, nil
}

func parsePositiveInt(values url.Values, key string, def int) (int, error) {
	n, err := parseInt(values, key, def)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, invalidParam(key, "must be greater than zero")
	}
	return n, nil
}

func parsePerPage(values url.Values, def int) (int, error) {
	perPage, err := parsePositiveInt(values, "perPage", def)
	if err != nil {
		return 0, err
	}
	if perPage > MaxPerPage {
		return 0, invalidParam("perPage", "must not exceed %d", MaxPerPage)
	}
	return perPage, nil
}

// checkSkippedPages rejects a page whose offset (pages skipped * perPage) overflows int64.
func checkSkippedPages(skipped int, perPage int) error {
	if int64(skipped) > math.MaxInt64/int64(perPage) {
		return invalidParam("page", "is too large")
	}
	return nil
}

func parseSortColumn(values url.Values, def string) (string, error) {
	column := strings.TrimSpace(values.Get("sortColumn"))
	if column == "" {
		return def, nil
	}
	if !sortColumnPattern.MatchString(column) {
		return "", invalidParam("sortColumn", "is not a valid field name")
	}
	return column, nil
}

// ParseObjectIDList splits a comma separated list of hex ids, ignoring empty items.
func ParseObjectIDList(key, raw string) ([]primitive.ObjectID, error) {
	var ids []primitive.ObjectID
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		id, err := primitive.ObjectIDFromHex(part)
		if err != nil {
			return nil, invalidParam(key, "contains an invalid id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parsePriceRange(raw string) (*PriceRange, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return nil, invalidParam("price", "must be in the form min,max")
	}

	low, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, invalidParam("price", "minimum must be an integer")
	}

	high, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, invalidParam("price", "maximum must be an integer")
	}

	if low > high {
		return nil, invalidParam("price", "minimum must not exceed maximum")
	}

	return &PriceRange{Min: low, Max: high}, nil
}
