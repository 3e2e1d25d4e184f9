package etl

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"pricefeed/internal/models"
	"pricefeed/internal/pricenow"
)

// ageSmallChild marks products that are never sold; they are skipped entirely.
const ageSmallChild = "small_child"

// Catalog is the result of the catalog stage: the product rows to persist,
// the ids eligible for price retrieval, and an immutable id -> duration-days
// map consumed by the active-window step.
type Catalog struct {
	Products  []models.Product
	IDs       []int64
	Durations map[int64]int
}

// buildCatalog flattens the nested catalog response. Duration codes are kept
// raw on the product row and resolved to days in Durations.
func buildCatalog(resp *pricenow.CatalogResponse, updatedAt time.Time) (*Catalog, error) {
	catalog := &Catalog{
		Durations: make(map[int64]int),
	}

	var nullRows []string
	for _, product := range resp.Data {
		category := product.Name // skitickets or wintercard

		for _, def := range product.ProductDefinitions {
			age := def.Attributes.Age.Value
			duration := def.Attributes.Duration.Value

			if def.ID == nil {
				nullRows = append(nullRows, fmt.Sprintf("{category:%s age:%s duration:%s}", category, age, duration))
				continue
			}
			id := *def.ID

			durationDays, err := parseDurationCode(duration)
			if err != nil {
				return nil, fmt.Errorf("product %d: %w", id, err)
			}
			catalog.Durations[id] = durationDays

			// we don't sell small_child tickets
			if age == ageSmallChild {
				continue
			}

			catalog.Products = append(catalog.Products, models.Product{
				ProductID: id,
				Category:  category,
				Age:       age,
				Duration:  duration,
				UpdatedAt: updatedAt,
			})
			catalog.IDs = append(catalog.IDs, id)
		}
	}

	if len(nullRows) > 0 {
		return nil, &IntegrityError{Table: "pricenow_products", Column: "product_id", Rows: nullRows}
	}

	return catalog, nil
}

// parseDurationCode maps the upstream duration codes to whole days: the
// 4-hour ticket counts as one day, everything else is "<N>d".
func parseDurationCode(code string) (int, error) {
	if code == "4h" {
		return 1, nil
	}
	days, err := strconv.Atoi(strings.TrimSuffix(code, "d"))
	if err != nil {
		return 0, fmt.Errorf("unknown duration code %q", code)
	}
	return days, nil
}
