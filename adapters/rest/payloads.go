package rest

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateTaskIn struct {
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Location      string          `json:"location"`
	Budget        decimal.Decimal `json:"budget"`
	ScheduledTime time.Time       `json:"scheduled_time"`
}

type SubmitApplicationIn struct {
	Proposal  string          `json:"proposal"`
	BidAmount decimal.Decimal `json:"bid_amount"`
}
