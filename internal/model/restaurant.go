package model

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Candidate is a deduplicated search result awaiting detail enrichment.
type Candidate struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	Types            []string `json:"types"`
	Vicinity         string   `json:"vicinity"`
	Location         LatLng   `json:"location"`
	Rating           *float64 `json:"rating,omitempty"`
	PriceLevel       *int     `json:"price_level,omitempty"`
	UserRatingsTotal *int     `json:"user_ratings_total,omitempty"`
	Term             string   `json:"term"` // search term that first surfaced the place
	Score            int      `json:"likelihood_score"`
}

// Restaurant is a persisted place record.
type Restaurant struct {
	ID                     string   `json:"id" db:"id"`
	Name                   string   `json:"name" db:"name"`
	StreetAddress          string   `json:"street_address" db:"street_address"`
	City                   string   `json:"city" db:"city"`
	State                  string   `json:"state" db:"state"`
	Zip                    string   `json:"zip" db:"zip"`
	Latitude               float64  `json:"latitude" db:"latitude"`
	Longitude              float64  `json:"longitude" db:"longitude"`
	Phone                  string   `json:"phone" db:"phone"`
	Website                string   `json:"website" db:"website"`
	YelpID                 *string  `json:"yelp_id" db:"yelp_id"`
	GoogleRating           *float64 `json:"google_rating" db:"google_rating"`
	GooglePriceLevel       *int     `json:"google_price_level" db:"google_price_level"`
	GoogleUserRatingsTotal *int     `json:"google_user_ratings_total" db:"google_user_ratings_total"`
	BusinessHours          JSONMap  `json:"business_hours" db:"business_hours"`
	Tags                   JSONList `json:"tags" db:"tags"`

	// Not persisted. Populated during a collection run.
	PlaceID         string `json:"-" db:"-"`
	LikelihoodScore int    `json:"-" db:"-"`
}

// Taco is a menu item inferred from review text.
type Taco struct {
	ID             string  `json:"id" db:"id"`
	RestaurantID   string  `json:"restaurant_id" db:"restaurant_id"`
	Name           string  `json:"name" db:"name"`
	Description    string  `json:"description" db:"description"`
	PriceCents     *int    `json:"price_cents" db:"price_cents"`
	Calories       *int    `json:"calories" db:"calories"`
	TortillaType   string  `json:"tortilla_type" db:"tortilla_type"`
	ProteinType    string  `json:"protein_type" db:"protein_type"`
	IsVegan        bool    `json:"is_vegan" db:"is_vegan"`
	IsBulk         bool    `json:"is_bulk" db:"is_bulk"`
	IsDailySpecial bool    `json:"is_daily_special" db:"is_daily_special"`
	AvailableFrom  *string `json:"available_from" db:"available_from"`
	AvailableTo    *string `json:"available_to" db:"available_to"`

	MentionCount int `json:"-" db:"-"`
}

// Review is a Google review attached to a restaurant.
type Review struct {
	ID                      string `json:"id" db:"id"`
	RestaurantID            string `json:"restaurant_id" db:"restaurant_id"`
	AuthorName              string `json:"author_name" db:"author_name"`
	AuthorURL               string `json:"author_url" db:"author_url"`
	Rating                  int    `json:"google_rating" db:"google_rating"`
	Text                    string `json:"review_text" db:"review_text"`
	Time                    int64  `json:"review_time" db:"review_time"`
	RelativeTimeDescription string `json:"relative_time_description" db:"relative_time_description"`
	Language                string `json:"language" db:"language"`

	// ReviewDate is derived from Time; empty when the timestamp is missing or invalid.
	ReviewDate string `json:"review_date" db:"-"`
}

// Photo is an image URL attached to a taco.
type Photo struct {
	ID             string  `json:"id" db:"id"`
	TacoID         string  `json:"taco_id" db:"taco_id"`
	UserID         *string `json:"user_id" db:"user_id"`
	URL            string  `json:"url" db:"url"`
	IsUserUploaded bool    `json:"is_user_uploaded" db:"is_user_uploaded"`
}

// Dataset groups the four collections produced by a run or loaded from a store.
type Dataset struct {
	Restaurants []Restaurant `json:"restaurants"`
	Tacos       []Taco       `json:"tacos"`
	Reviews     []Review     `json:"reviews"`
	Photos      []Photo      `json:"photos"`
}

// Empty reports whether every collection is empty.
func (d *Dataset) Empty() bool {
	return len(d.Restaurants) == 0 && len(d.Tacos) == 0 && len(d.Reviews) == 0 && len(d.Photos) == 0
}
