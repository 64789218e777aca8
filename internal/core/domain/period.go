package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodType classifies a fiscal time period.
type PeriodType string

const (
	PeriodFiscalYear    PeriodType = "FISCAL_YEAR"
	PeriodFiscalQuarter PeriodType = "FISCAL_QUARTER"
	PeriodFiscalMonth   PeriodType = "FISCAL_MONTH"
	PeriodFiscalWeek    PeriodType = "FISCAL_WEEK"
	PeriodFiscalBiweek  PeriodType = "FISCAL_BIWEEK"
)

// AllowedPostingPeriodTypes are the period types that satisfy the posting
// guard: a transaction may only post if an open period of one of these types
// covers its transaction date.
var AllowedPostingPeriodTypes = []PeriodType{
	PeriodFiscalYear,
	PeriodFiscalQuarter,
	PeriodFiscalMonth,
	PeriodFiscalWeek,
	PeriodFiscalBiweek,
}

// TimePeriod is a bounded fiscal interval [FromDate, ThruDate) that can be
// open or closed. Once closed it is effectively immutable.
type TimePeriod struct {
	PeriodID       string     `json:"periodID"`
	OrganizationID string     `json:"organizationID"`
	PeriodType     PeriodType `json:"periodType"`
	FromDate       time.Time  `json:"fromDate"`
	ThruDate       time.Time  `json:"thruDate"`
	Closed         bool       `json:"closed"`
	ParentPeriodID *string    `json:"parentPeriodID"`
	AuditFields
}

// Contains reports whether the date falls inside [FromDate, ThruDate).
func (p TimePeriod) Contains(date time.Time) bool {
	return !date.Before(p.FromDate) && date.Before(p.ThruDate)
}

// AccountHistory is the persisted balance snapshot for one account in one
// period, written only by the period closing engine. It is the anchor for
// later incremental balance queries.
type AccountHistory struct {
	AccountID      string          `json:"accountID"`
	OrganizationID string          `json:"organizationID"`
	PeriodID       string          `json:"periodID"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	EndingBalance  decimal.Decimal `json:"endingBalance"`
	PostedDebits   decimal.Decimal `json:"postedDebits"`
	PostedCredits  decimal.Decimal `json:"postedCredits"`
}
