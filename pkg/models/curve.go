package models

// --- Sensitivity curves ---

// PriceYieldPoint is one sample of a price-vs-yield sweep.
type PriceYieldPoint struct {
	Yield          float64 `json:"yield" parquet:"yield"`
	Price          float64 `json:"price" parquet:"price"`
	PremiumPercent float64 `json:"premium_percent" parquet:"premium_percent"`
}

// CashFlowPoint is one entry of a cash-flow timeline.
type CashFlowPoint struct {
	Period    int     `json:"period" parquet:"period"`
	Year      float64 `json:"year" parquet:"year"`
	CashFlow  float64 `json:"cash_flow" parquet:"cash_flow"`
	Coupon    float64 `json:"coupon" parquet:"coupon"`
	Principal float64 `json:"principal" parquet:"principal"`
}

// AccrualPoint is one day sampled across a coupon period.
type AccrualPoint struct {
	Day             int     `json:"day" parquet:"day"`
	AccruedInterest float64 `json:"accrued_interest" parquet:"accrued_interest"`
	CleanPrice      float64 `json:"clean_price" parquet:"clean_price"`
	DirtyPrice      float64 `json:"dirty_price" parquet:"dirty_price"`
}
