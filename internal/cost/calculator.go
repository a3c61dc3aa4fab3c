package cost

// Rates holds Places API pricing in USD per thousand requests.
type Rates struct {
	NearbySearch   float64 `yaml:"nearby_search" mapstructure:"nearby_search"`
	DetailsBasic   float64 `yaml:"details_basic" mapstructure:"details_basic"`
	DetailsContact float64 `yaml:"details_contact" mapstructure:"details_contact"`
	// DetailsAtmosphere covers rating, price level and review fields.
	DetailsAtmosphere float64 `yaml:"details_atmosphere" mapstructure:"details_atmosphere"`
	// MonthlyCredit is subtracted by Billable, never by Estimate.
	MonthlyCredit float64 `yaml:"monthly_credit" mapstructure:"monthly_credit"`
}

// Usage counts billable requests made during a run.
type Usage struct {
	NearbySearches int `json:"nearby_searches"`
	Details        int `json:"details"`
}

// Add returns the sum of two usages.
func (u Usage) Add(o Usage) Usage {
	return Usage{
		NearbySearches: u.NearbySearches + o.NearbySearches,
		Details:        u.Details + o.Details,
	}
}

// Calculator computes costs for API usage.
type Calculator struct {
	rates Rates
}

// NewCalculator creates a Calculator with the given rates.
func NewCalculator(rates Rates) *Calculator {
	return &Calculator{rates: rates}
}

// NearbySearch computes the cost of n nearby search pages. Each page token
// follow-up is billed as its own request.
func (c *Calculator) NearbySearch(n int) float64 {
	return float64(n) / 1000 * c.rates.NearbySearch
}

// Details computes the cost of n detail lookups. The collector requests
// contact and atmosphere fields, so every SKU applies.
func (c *Calculator) Details(n int) float64 {
	per := c.rates.DetailsBasic + c.rates.DetailsContact + c.rates.DetailsAtmosphere
	return float64(n) / 1000 * per
}

// Estimate is the list price of u.
func (c *Calculator) Estimate(u Usage) float64 {
	return c.NearbySearch(u.NearbySearches) + c.Details(u.Details)
}

// Billable is the estimate of u less the monthly credit, floored at zero.
// spent is the amount already used this month.
func (c *Calculator) Billable(u Usage, spent float64) float64 {
	remaining := c.rates.MonthlyCredit - spent
	if remaining < 0 {
		remaining = 0
	}
	owed := c.Estimate(u) - remaining
	if owed < 0 {
		return 0
	}
	return owed
}

// DefaultRates returns the default pricing rates.
func DefaultRates() Rates {
	return Rates{
		NearbySearch:      32.00,
		DetailsBasic:      17.00,
		DetailsContact:    3.00,
		DetailsAtmosphere: 5.00,
		MonthlyCredit:     200.00,
	}
}
