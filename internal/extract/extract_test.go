package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/taco-index/internal/model"
	"github.com/sells-group/taco-index/pkg/google"
)

func ptr[T any](v T) *T { return &v }

func TestParseAddress(t *testing.T) {
	tests := []struct {
		in   string
		want Address
	}{
		{"123 Main St, Austin, TX 78701", Address{"123 Main St", "Austin", "TX", "78701"}},
		{"123 Main St, Austin, TX 78701, USA", Address{"123 Main St", "Austin", "TX", "78701"}},
		{"123 Main St, Austin", Address{Street: "123 Main St", City: "Austin"}},
		{"123 Main St", Address{Street: "123 Main St"}},
		{"123 Main St, Austin, TX", Address{Street: "123 Main St", City: "Austin", State: "TX"}},
		{"", Address{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAddress(tt.in))
		})
	}
}

func TestCountMentions(t *testing.T) {
	assert.Equal(t, 1, CountMentions([]string{"great bean and cheese taco", "nice service"}))
	assert.Equal(t, 0, CountMentions([]string{"nice service", ""}))
	assert.Equal(t, 2, CountMentions([]string{"Bean and Cheese plus a BREAKFAST TACO"}))
	assert.Equal(t, 2, CountMentions([]string{"refried beans", "refried bean burrito"}))
	assert.Equal(t, 0, CountMentions(nil))
}

func TestBuildTacos(t *testing.T) {
	rid := model.RestaurantID("p1")
	tacos := BuildTacos(rid, []google.Review{
		{Text: "great bean and cheese taco"},
		{Text: "nice service"},
	})
	require.Len(t, tacos, 1)

	taco := tacos[0]
	assert.Equal(t, model.TacoID(rid), taco.ID)
	assert.Equal(t, rid, taco.RestaurantID)
	assert.Equal(t, TacoName, taco.Name)
	assert.Equal(t, "Traditional bean and cheese taco. Mentioned in 1 reviews.", taco.Description)
	assert.Equal(t, 1, taco.MentionCount)
	assert.Equal(t, "flour", taco.TortillaType)
	assert.Equal(t, "none", taco.ProteinType)
	assert.False(t, taco.IsVegan)
	assert.False(t, taco.IsBulk)
	assert.False(t, taco.IsDailySpecial)
	assert.Nil(t, taco.PriceCents)
	assert.Nil(t, taco.Calories)
	assert.Nil(t, taco.AvailableFrom)
}

func TestBuildTacos_NoEvidence(t *testing.T) {
	assert.Empty(t, BuildTacos("r", []google.Review{{Text: "carnitas were fine"}}))
	assert.Empty(t, BuildTacos("r", nil))
}

func TestBuildReviews(t *testing.T) {
	rid := model.RestaurantID("p1")
	out := BuildReviews(rid, []google.Review{{
		AuthorName:              "Ana",
		AuthorURL:               "https://example.com/ana",
		Language:                "en",
		Rating:                  5,
		RelativeTimeDescription: "a month ago",
		Text:                    "so good",
		Time:                    1700000000,
	}, {
		AuthorName: "Bo",
	}})
	require.Len(t, out, 2)
	assert.Equal(t, rid, out[0].RestaurantID)
	assert.Equal(t, "Ana", out[0].AuthorName)
	assert.Equal(t, 5, out[0].Rating)
	assert.Equal(t, "so good", out[0].Text)
	assert.Equal(t, "2023-11-14T22:13:20", out[0].ReviewDate)
	assert.Equal(t, "", out[1].ReviewDate)
	assert.NotEqual(t, out[0].ID, out[1].ID)
}

func TestPhotoURL(t *testing.T) {
	assert.Equal(t,
		"https://maps.googleapis.com/maps/api/place/photo?maxwidth=400&photoreference=abc123&key=K",
		PhotoURL("abc123", "K"),
	)
}

func TestBuildPhotos_SkipsMissingReference(t *testing.T) {
	out := BuildPhotos("taco-1", []google.Photo{
		{PhotoReference: "abc123"},
		{Width: 100},
	}, "K")
	require.Len(t, out, 1)
	assert.Equal(t, "taco-1", out[0].TacoID)
	assert.Equal(t, PhotoURL("abc123", "K"), out[0].URL)
	assert.False(t, out[0].IsUserUploaded)
	assert.Nil(t, out[0].UserID)
}

func TestBuildRestaurant_FromDetails(t *testing.T) {
	c := model.Candidate{PlaceID: "p1", Name: "Search Name", Types: []string{"restaurant", "food"}, Score: 3}
	d := &google.PlaceDetails{
		PlaceID:              "p1",
		Name:                 "Taqueria Uno",
		FormattedAddress:     "123 Main St, San Antonio, TX 78205, USA",
		FormattedPhoneNumber: "(210) 555-0100",
		Website:              "https://uno.example",
		Geometry:             &google.Geometry{Location: google.LatLng{Lat: 29.42, Lng: -98.49}},
		Rating:               ptr(4.5),
		PriceLevel:           ptr(1),
		UserRatingsTotal:     ptr(321),
		OpeningHours: &google.OpeningHours{WeekdayText: []string{
			"Monday: 7:00 AM – 2:00 PM",
			"Tuesday: Closed",
		}},
	}
	r := BuildRestaurant(c, d)

	assert.Equal(t, model.RestaurantID("p1"), r.ID)
	assert.Equal(t, "Taqueria Uno", r.Name)
	assert.Equal(t, "123 Main St", r.StreetAddress)
	assert.Equal(t, "San Antonio", r.City)
	assert.Equal(t, "TX", r.State)
	assert.Equal(t, "78205", r.Zip)
	assert.InDelta(t, 29.42, r.Latitude, 0.0001)
	assert.Equal(t, "(210) 555-0100", r.Phone)
	assert.Equal(t, 1, *r.GooglePriceLevel)
	assert.Equal(t, 321, *r.GoogleUserRatingsTotal)
	assert.Nil(t, r.YelpID)
	assert.Equal(t, 3, r.LikelihoodScore)
	assert.Equal(t, model.JSONList{"restaurant", "food"}, r.Tags)
	assert.Equal(t, model.JSONMap{"Monday": "7:00 AM – 2:00 PM", "Tuesday": "Closed"}, r.BusinessHours)
}

func TestBuildRestaurant_FallbackToCandidate(t *testing.T) {
	c := model.Candidate{
		PlaceID:  "p2",
		Name:     "Taco Stand",
		Location: model.LatLng{Lat: 30.1, Lng: -97.7},
		Rating:   ptr(4.1),
	}
	r := BuildRestaurant(c, nil)

	assert.Equal(t, "Taco Stand", r.Name)
	assert.InDelta(t, 30.1, r.Latitude, 0.0001)
	assert.Empty(t, r.StreetAddress)
	assert.Empty(t, r.City)
	assert.InDelta(t, 4.1, *r.GoogleRating, 0.0001)
	assert.Nil(t, r.GooglePriceLevel)
	assert.Nil(t, r.Tags)
	assert.Nil(t, r.BusinessHours)
}

func TestBuildRestaurant_MissingGeometryDefaultsToZero(t *testing.T) {
	r := BuildRestaurant(model.Candidate{PlaceID: "p"}, &google.PlaceDetails{Name: "X"})
	assert.Zero(t, r.Latitude)
	assert.Zero(t, r.Longitude)
}

func TestBusinessHours(t *testing.T) {
	assert.Nil(t, BusinessHours(nil))
	assert.Nil(t, BusinessHours([]string{"no separator"}))
}

func TestExtract(t *testing.T) {
	e := New("K")
	c := model.Candidate{PlaceID: "p1", Name: "Taqueria Uno"}
	d := &google.PlaceDetails{
		Name: "Taqueria Uno",
		Reviews: []google.Review{
			{AuthorName: "Ana", Text: "Best bean and cheese in town", Time: 1700000000},
			{AuthorName: "Bo", Text: "Nice patio"},
		},
		Photos: []google.Photo{{PhotoReference: "r1"}, {PhotoReference: "r2"}, {}},
	}
	got := e.Extract(c, d)

	require.Len(t, got.Tacos, 1)
	assert.Len(t, got.Reviews, 2)
	require.Len(t, got.Photos, 2)
	for _, p := range got.Photos {
		assert.Equal(t, got.Tacos[0].ID, p.TacoID)
	}
	assert.Equal(t, got.Restaurant.ID, got.Tacos[0].RestaurantID)
}

func TestExtract_NoTacoMeansNoPhotos(t *testing.T) {
	got := New("K").Extract(model.Candidate{PlaceID: "p"}, &google.PlaceDetails{
		Reviews: []google.Review{{Text: "just okay"}},
		Photos:  []google.Photo{{PhotoReference: "r1"}},
	})
	assert.Empty(t, got.Tacos)
	assert.Empty(t, got.Photos)
	assert.Len(t, got.Reviews, 1)
}

func TestExtract_NoDetails(t *testing.T) {
	got := New("K").Extract(model.Candidate{PlaceID: "p", Name: "Taco"}, nil)
	assert.Equal(t, "Taco", got.Restaurant.Name)
	assert.Empty(t, got.Tacos)
	assert.Empty(t, got.Reviews)
	assert.Empty(t, got.Photos)
}

func TestMentionsFromDescription(t *testing.T) {
	tacos := BuildTacos("r-1", []google.Review{{Text: "bean and cheese breakfast taco"}})
	require.Len(t, tacos, 1)

	n, ok := MentionsFromDescription(tacos[0].Description)
	require.True(t, ok)
	assert.Equal(t, 2, n)

	_, ok = MentionsFromDescription("Hand-entered taco")
	assert.False(t, ok)
}
