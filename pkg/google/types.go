package google

// StatusOK is the API-level status of a successful Places response.
const StatusOK = "OK"

// LatLng is a coordinate as returned by the Places web service.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Geometry wraps a place location.
type Geometry struct {
	Location LatLng `json:"location"`
}

// Place is a Nearby Search result.
type Place struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	Types            []string `json:"types"`
	Vicinity         string   `json:"vicinity"`
	Geometry         Geometry `json:"geometry"`
	Rating           *float64 `json:"rating,omitempty"`
	PriceLevel       *int     `json:"price_level,omitempty"`
	UserRatingsTotal *int     `json:"user_ratings_total,omitempty"`
	BusinessStatus   string   `json:"business_status,omitempty"`
}

// NearbySearchRequest parameterizes one Nearby Search page.
type NearbySearchRequest struct {
	Location  LatLng
	Radius    int
	Keyword   string
	Type      string
	PageToken string
}

// NearbySearchResponse is one page of Nearby Search results.
type NearbySearchResponse struct {
	Status        string  `json:"status"`
	ErrorMessage  string  `json:"error_message,omitempty"`
	Results       []Place `json:"results"`
	NextPageToken string  `json:"next_page_token,omitempty"`
}

// OpeningHours holds the weekly schedule of a place.
type OpeningHours struct {
	OpenNow     *bool    `json:"open_now,omitempty"`
	WeekdayText []string `json:"weekday_text,omitempty"`
}

// Review is a user review embedded in place details.
type Review struct {
	AuthorName              string `json:"author_name"`
	AuthorURL               string `json:"author_url"`
	Language                string `json:"language"`
	Rating                  int    `json:"rating"`
	RelativeTimeDescription string `json:"relative_time_description"`
	Text                    string `json:"text"`
	Time                    int64  `json:"time"`
}

// Photo references an image hosted by the Places photo service.
type Photo struct {
	PhotoReference   string   `json:"photo_reference"`
	Height           int      `json:"height"`
	Width            int      `json:"width"`
	HTMLAttributions []string `json:"html_attributions,omitempty"`
}

// PlaceDetails is the detail record of a single place.
type PlaceDetails struct {
	PlaceID              string        `json:"place_id"`
	Name                 string        `json:"name"`
	FormattedAddress     string        `json:"formatted_address"`
	FormattedPhoneNumber string        `json:"formatted_phone_number"`
	Website              string        `json:"website"`
	Geometry             *Geometry     `json:"geometry,omitempty"`
	Rating               *float64      `json:"rating,omitempty"`
	PriceLevel           *int          `json:"price_level,omitempty"`
	UserRatingsTotal     *int          `json:"user_ratings_total,omitempty"`
	OpeningHours         *OpeningHours `json:"opening_hours,omitempty"`
	Reviews              []Review      `json:"reviews,omitempty"`
	Photos               []Photo       `json:"photos,omitempty"`
}

// PlaceDetailsResponse wraps a details lookup.
type PlaceDetailsResponse struct {
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message,omitempty"`
	Result       *PlaceDetails `json:"result,omitempty"`
}
