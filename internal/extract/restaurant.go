package extract

import (
	"strings"

	"github.com/sells-group/taco-index/internal/model"
	"github.com/sells-group/taco-index/pkg/google"
)

// Address is a formatted address split into its parts.
type Address struct {
	Street string
	City   string
	State  string
	Zip    string
}

// ParseAddress splits "street, city, STATE ZIP[, country]". Missing parts are
// left empty.
func ParseAddress(formatted string) Address {
	var a Address
	if formatted == "" {
		return a
	}
	parts := strings.Split(formatted, ", ")
	if len(parts) > 0 {
		a.Street = parts[0]
	}
	if len(parts) > 1 {
		a.City = parts[1]
	}
	if len(parts) > 2 {
		stateZip := strings.Fields(parts[2])
		if len(stateZip) > 0 {
			a.State = stateZip[0]
		}
		if len(stateZip) > 1 {
			a.Zip = stateZip[1]
		}
	}
	return a
}

// BuildRestaurant prefers detail fields and falls back to the search result
// when details are unavailable.
func BuildRestaurant(c model.Candidate, d *google.PlaceDetails) model.Restaurant {
	r := model.Restaurant{
		ID:              model.RestaurantID(c.PlaceID),
		PlaceID:         c.PlaceID,
		LikelihoodScore: c.Score,
	}
	if len(c.Types) > 0 {
		r.Tags = model.JSONList(c.Types)
	}

	if d == nil {
		r.Name = c.Name
		r.Latitude = c.Location.Lat
		r.Longitude = c.Location.Lng
		r.GoogleRating = c.Rating
		r.GooglePriceLevel = c.PriceLevel
		r.GoogleUserRatingsTotal = c.UserRatingsTotal
		return r
	}

	addr := ParseAddress(d.FormattedAddress)
	r.Name = d.Name
	r.StreetAddress = addr.Street
	r.City = addr.City
	r.State = addr.State
	r.Zip = addr.Zip
	if d.Geometry != nil {
		r.Latitude = d.Geometry.Location.Lat
		r.Longitude = d.Geometry.Location.Lng
	}
	r.Phone = d.FormattedPhoneNumber
	r.Website = d.Website
	r.GoogleRating = d.Rating
	r.GooglePriceLevel = d.PriceLevel
	r.GoogleUserRatingsTotal = d.UserRatingsTotal
	if d.OpeningHours != nil {
		r.BusinessHours = BusinessHours(d.OpeningHours.WeekdayText)
	}
	return r
}

// BusinessHours maps "Monday: 7:00 AM – 2:00 PM" lines to day → hours.
func BusinessHours(weekdayText []string) model.JSONMap {
	if len(weekdayText) == 0 {
		return nil
	}
	hours := make(model.JSONMap, len(weekdayText))
	for _, line := range weekdayText {
		day, span, ok := strings.Cut(line, ": ")
		if !ok {
			continue
		}
		hours[strings.TrimSpace(day)] = strings.TrimSpace(span)
	}
	if len(hours) == 0 {
		return nil
	}
	return hours
}
