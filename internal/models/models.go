package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is one row of the catalog snapshot, keyed by the upstream
// product definition id. Duration keeps the raw upstream code ("4h", "2d", ...).
type Product struct {
	ProductID int64     `json:"product_id" gorm:"column:product_id;primaryKey"`
	Category  string    `json:"category" gorm:"column:category"`
	Age       string    `json:"age" gorm:"column:age"`
	Duration  string    `json:"duration" gorm:"column:duration"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Product) TableName() string { return "pricenow_products" }

// Price is one day of the dense price grid. ValidFrom is an ISO date string
// (YYYY-MM-DD); together with ProductID it forms the natural key.
type Price struct {
	ProductID int64     `json:"product_id" gorm:"column:product_id;primaryKey"`
	ValidFrom string    `json:"valid_from" gorm:"column:valid_from;primaryKey"`
	Price     int64     `json:"price" gorm:"column:price"`
	Active    bool      `json:"active" gorm:"column:active"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Price) TableName() string { return "pricenow_prices" }

type SyncRunStatus string

const (
	RunRunning   SyncRunStatus = "RUNNING"
	RunSucceeded SyncRunStatus = "SUCCEEDED"
	RunFailed    SyncRunStatus = "FAILED"
)

// SyncRun records one ETL invocation.
type SyncRun struct {
	ID         string        `json:"id" gorm:"column:id;primaryKey"`
	StartedAt  time.Time     `json:"started_at" gorm:"column:started_at"`
	FinishedAt *time.Time    `json:"finished_at" gorm:"column:finished_at"`
	Status     SyncRunStatus `json:"status" gorm:"column:status"`
	Products   int           `json:"products" gorm:"column:products"`
	PriceRows  int           `json:"price_rows" gorm:"column:price_rows"`
	Error      *string       `json:"error" gorm:"column:error"`
}

func (SyncRun) TableName() string { return "sync_runs" }

func (r *SyncRun) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}
