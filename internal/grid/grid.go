package grid

import (
	"sort"
	"time"
)

// ChangeEvent is a sparse price change: the price becomes Price on ValidAt and
// holds until the next event for the same product.
type ChangeEvent struct {
	ProductID int64
	ValidAt   time.Time
	Price     int64
}

// DenseRow is one product-day of the forward-filled grid, before the active
// flag is computed.
type DenseRow struct {
	ProductID int64
	Day       time.Time
	Price     int64
}

// BuildDenseGrid forward-fills sparse change events into one row per
// product-day over [start, end] inclusive. Days before a product's first known
// event are omitted; no price is invented. Events dated after end are carried
// in the input but never reached by the walk.
func BuildDenseGrid(events []ChangeEvent, start, end time.Time) []DenseRow {
	byProduct := make(map[int64][]ChangeEvent)
	for _, ev := range events {
		if ev.ProductID == 0 || ev.ValidAt.IsZero() {
			continue
		}
		byProduct[ev.ProductID] = append(byProduct[ev.ProductID], ev)
	}

	ids := make([]int64, 0, len(byProduct))
	for id := range byProduct {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var dense []DenseRow
	for _, id := range ids {
		changes := byProduct[id]
		// stable: ties keep arrival order
		sort.SliceStable(changes, func(i, j int) bool {
			return changes[i].ValidAt.Before(changes[j].ValidAt)
		})

		// fast-forward to the last change at or before the range start
		idx := -1
		var current int64
		havePrice := false
		for i, ch := range changes {
			if ch.ValidAt.After(start) {
				break
			}
			idx = i
			current = ch.Price
			havePrice = true
		}

		for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
			// advance through every change due today or earlier
			for idx+1 < len(changes) && !changes[idx+1].ValidAt.After(day) {
				idx++
				current = changes[idx].Price
				havePrice = true
			}

			// only emit once a price is actually known
			if havePrice {
				dense = append(dense, DenseRow{ProductID: id, Day: day, Price: current})
			}
		}
	}

	return dense
}
