package etl

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"pricefeed/internal/config"
	"pricefeed/internal/database"
	"pricefeed/internal/events"
	"pricefeed/internal/grid"
	"pricefeed/internal/logger"
	"pricefeed/internal/models"
	"pricefeed/internal/pricenow"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// ErrRunInProgress is returned when a sync is triggered while another one is
// still running. The job assumes at most one invocation at a time.
var ErrRunInProgress = errors.New("sync run already in progress")

// Runner executes the full ETL pass: catalog snapshot, price change
// retrieval, forward-fill, active flags, and the chunked upserts.
type Runner struct {
	client    *pricenow.Client
	db        *database.Database
	publisher *events.Publisher // may be nil
	logger    *logger.Logger
	season    grid.Season
	pageSize  int
	running   atomic.Bool
}

func NewRunner(cfg *config.Config, client *pricenow.Client, db *database.Database, publisher *events.Publisher, logger *logger.Logger) *Runner {
	return &Runner{
		client:    client,
		db:        db,
		publisher: publisher,
		logger:    logger,
		season:    grid.DefaultSeason(),
		pageSize:  cfg.PageSize,
	}
}

// Running reports whether a sync pass is currently in flight.
func (r *Runner) Running() bool {
	return r.running.Load()
}

// Run performs one ETL pass. The catalog stage fully completes before the
// pricing stage starts; the duration map it produces is handed to the
// active-flag step explicitly.
func (r *Runner) Run(ctx context.Context) (*models.SyncRun, error) {
	if !r.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer r.running.Store(false)

	run := &models.SyncRun{
		ID:        uuid.New().String(),
		StartedAt: time.Now().UTC(),
		Status:    models.RunRunning,
	}
	if err := r.db.DB.Create(run).Error; err != nil {
		return nil, fmt.Errorf("failed to record sync run: %w", err)
	}

	err := r.run(ctx, run)
	now := time.Now().UTC()
	run.FinishedAt = &now
	if err != nil {
		run.Status = models.RunFailed
		msg := err.Error()
		run.Error = &msg
	} else {
		run.Status = models.RunSucceeded
	}
	if saveErr := r.db.DB.Save(run).Error; saveErr != nil {
		r.logger.Error("Failed to update sync run %s: %v", run.ID, saveErr)
	}
	if err != nil {
		return run, err
	}

	if r.publisher != nil {
		if pubErr := r.publisher.PublishRunCompleted(ctx, run); pubErr != nil {
			r.logger.Error("Failed to publish run event: %v", pubErr)
		}
	}

	return run, nil
}

func (r *Runner) run(ctx context.Context, run *models.SyncRun) error {
	// both tables carry the same run timestamp
	updatedAt := time.Now().UTC()

	resp, err := r.client.FetchProducts(ctx)
	if err != nil {
		return err
	}
	catalog, err := buildCatalog(resp, updatedAt)
	if err != nil {
		return err
	}
	run.Products = len(catalog.Products)
	r.logger.Info("Pulled %d products from catalog", len(catalog.Products))

	changes, err := r.client.FetchAllPrices(ctx,
		catalog.IDs,
		r.season.Start.Format(dateLayout),
		r.season.End.Format(dateLayout),
		r.pageSize,
	)
	if err != nil {
		return err
	}
	r.logger.Info("Pulled %d price change events", len(changes))

	dense := grid.BuildDenseGrid(toChangeEvents(changes, r.logger), r.season.Start, r.season.End)

	prices := make([]models.Price, 0, len(dense))
	for _, row := range dense {
		duration, ok := catalog.Durations[row.ProductID]
		if !ok {
			r.logger.Warn("No duration known for product %d, skipping its price rows", row.ProductID)
			continue
		}
		prices = append(prices, models.Price{
			ProductID: row.ProductID,
			ValidFrom: row.Day.Format(dateLayout),
			Price:     row.Price,
			Active:    r.season.Active(row.Day, duration),
			UpdatedAt: updatedAt,
		})
	}
	run.PriceRows = len(prices)

	if err := checkPriceKeys(prices); err != nil {
		return err
	}
	if err := r.db.Upsert(prices, []string{"product_id", "valid_from"}, database.DefaultChunkSize); err != nil {
		return err
	}
	r.logger.Info("Upserted %d price rows", len(prices))

	if err := r.db.Upsert(catalog.Products, []string{"product_id"}, database.DefaultChunkSize); err != nil {
		return err
	}
	r.logger.Info("Upserted %d product rows", len(catalog.Products))

	return nil
}

// toChangeEvents drops rows with null keys and unparseable dates; everything
// else the source sends is taken as-is.
func toChangeEvents(rows []pricenow.PriceChange, logger *logger.Logger) []grid.ChangeEvent {
	events := make([]grid.ChangeEvent, 0, len(rows))
	for _, row := range rows {
		if row.ProductDefinitionID == nil || row.Price == nil || row.ValidAt == "" {
			continue
		}
		day, err := parseDay(row.ValidAt)
		if err != nil {
			logger.Warn("Skipping price change with bad date %q for product %d", row.ValidAt, *row.ProductDefinitionID)
			continue
		}
		events = append(events, grid.ChangeEvent{
			ProductID: *row.ProductDefinitionID,
			ValidAt:   day,
			Price:     *row.Price,
		})
	}
	return events
}

func parseDay(s string) (time.Time, error) {
	if len(s) > len(dateLayout) {
		// timestamps come through occasionally; only the date part matters
		s = s[:len(dateLayout)]
	}
	return time.ParseInLocation(dateLayout, s, time.UTC)
}

func checkPriceKeys(rows []models.Price) error {
	var nullRows []string
	for _, row := range rows {
		if row.ProductID == 0 || row.ValidFrom == "" {
			nullRows = append(nullRows, fmt.Sprintf("{product_id:%d valid_from:%q}", row.ProductID, row.ValidFrom))
		}
	}
	if len(nullRows) > 0 {
		return &IntegrityError{Table: "pricenow_prices", Column: "product_id,valid_from", Rows: nullRows}
	}
	return nil
}
