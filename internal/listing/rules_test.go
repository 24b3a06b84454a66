package listing

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func intp(i int) *int           { return &i }
func floatp(f float64) *float64 { return &f }

// basicsDraft passes step 1 before each test tweaks it.
func basicsDraft() *Draft {
	d := DefaultDraft(testNow)
	d.Title = "Spacious 3-Bedroom Bungalow in Lekki"
	d.Description = strings.Repeat("Well maintained bungalow close to amenities. ", 3)
	d.PropertyType = "Bungalow"
	d.ListingType = "For Sale"
	return d
}

func TestStep1Valid(t *testing.T) {
	res := ValidateStep(basicsDraft(), 1, StepOptions{Now: testNow})
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
}

func TestStep1Required(t *testing.T) {
	d := DefaultDraft(testNow)
	res := ValidateStep(d, 1, StepOptions{Now: testNow})
	require.False(t, res.Valid)
	assert.Equal(t, "Title is required", res.Errors["title"])
	assert.Equal(t, "Description is required", res.Errors["description"])
	assert.Equal(t, "Property type is required", res.Errors["propertyType"])
	assert.Equal(t, "Listing type is required", res.Errors["listingType"])
}

func TestStep1DescriptionBoundaries(t *testing.T) {
	cases := []struct {
		length int
		want   string
	}{
		{49, "Description should be at least 50 characters"},
		{50, ""},
		{5000, ""},
		{5001, "Description must not exceed 5000 characters"},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("len%d", tc.length), func(t *testing.T) {
			d := basicsDraft()
			d.Description = strings.Repeat("a", tc.length)
			res := ValidateStep(d, 1, StepOptions{Now: testNow})
			if tc.want == "" {
				assert.NotContains(t, res.Errors, "description")
			} else {
				assert.Equal(t, tc.want, res.Errors["description"])
			}
		})
	}
}

func TestStep1FlatTypeRequiredForApartments(t *testing.T) {
	d := basicsDraft()
	d.PropertyType = "Flat/Apartment"
	res := ValidateStep(d, 1, StepOptions{Now: testNow})
	assert.Equal(t, "Flat type is required for this property type", res.Errors["flatType"])

	d.FlatType = "2 Bedroom"
	res = ValidateStep(d, 1, StepOptions{Now: testNow})
	assert.NotContains(t, res.Errors, "flatType")

	// A bungalow never needs one.
	d = basicsDraft()
	res = ValidateStep(d, 1, StepOptions{Now: testNow})
	assert.NotContains(t, res.Errors, "flatType")
}

func TestStep1FloorAgainstTotalFloors(t *testing.T) {
	d := basicsDraft()
	d.Floor = intp(3)
	d.TotalFloors = intp(3)
	res := ValidateStep(d, 1, StepOptions{Now: testNow})
	assert.NotContains(t, res.Errors, "floor")

	d.Floor = intp(4)
	res = ValidateStep(d, 1, StepOptions{Now: testNow})
	assert.Equal(t, "Floor number cannot exceed total floors", res.Errors["floor"])
}

func TestStep1GroundFloorIsValid(t *testing.T) {
	d := basicsDraft()
	d.Floor = intp(0)
	d.TotalFloors = intp(2)
	res := ValidateStep(d, 1, StepOptions{Now: testNow})
	assert.NotContains(t, res.Errors, "floor")
}

func TestStep1CarpetAreaAgainstFloorSize(t *testing.T) {
	d := basicsDraft()
	d.FloorSizeValue = floatp(1200)
	d.CarpetAreaValue = floatp(1300)
	res := ValidateStep(d, 1, StepOptions{Now: testNow})
	assert.Equal(t, "Carpet area cannot exceed floor size", res.Errors["carpetAreaValue"])
}

func TestStep1YearBuiltWindow(t *testing.T) {
	d := basicsDraft()
	d.YearBuilt = intp(1899)
	res := ValidateStep(d, 1, StepOptions{Now: testNow})
	assert.Equal(t, "Year built must be between 1900 and 2031", res.Errors["yearBuilt"])

	d.YearBuilt = intp(2031)
	res = ValidateStep(d, 1, StepOptions{Now: testNow})
	assert.NotContains(t, res.Errors, "yearBuilt")

	d.YearBuilt = intp(2032)
	res = ValidateStep(d, 1, StepOptions{Now: testNow})
	assert.Contains(t, res.Errors, "yearBuilt")
}

func TestStep2AddressRules(t *testing.T) {
	d := basicsDraft()
	res := ValidateStep(d, 2, StepOptions{Now: testNow})
	require.False(t, res.Valid)
	assert.Equal(t, "Area is required (e.g., Ikeja, Lekki Phase 1)", res.Errors["area"])
	assert.Equal(t, "City is required", res.Errors["city"])
	assert.Equal(t, "State is required", res.Errors["state"])

	d.Address = Address{Area: "Lekki Phase 1", City: "Lagos", State: "Lagos"}
	res = ValidateStep(d, 2, StepOptions{Now: testNow})
	assert.True(t, res.Valid)

	d.Address.State = "Atlantis"
	res = ValidateStep(d, 2, StepOptions{Now: testNow})
	assert.Equal(t, "Please select a valid Nigerian state", res.Errors["state"])
}

func TestStep2PostalCodeOptionalButStrict(t *testing.T) {
	d := basicsDraft()
	d.Address = Address{Area: "Ikeja", City: "Lagos", State: "Lagos"}

	d.Address.PostalCode = "10001"
	res := ValidateStep(d, 2, StepOptions{Now: testNow})
	assert.Equal(t, "Postal code must be 6 digits", res.Errors["postalCode"])

	d.Address.PostalCode = "100271"
	res = ValidateStep(d, 2, StepOptions{Now: testNow})
	assert.NotContains(t, res.Errors, "postalCode")
}

func TestStep2CoordinateRanges(t *testing.T) {
	d := basicsDraft()
	d.Address = Address{Area: "Ikeja", City: "Lagos", State: "Lagos"}

	// Zero is on both axes a real coordinate.
	d.Location.Coordinates = [2]float64{0, 0}
	res := ValidateStep(d, 2, StepOptions{Now: testNow})
	assert.NotContains(t, res.Errors, "longitude")
	assert.NotContains(t, res.Errors, "latitude")

	d.Location.Coordinates = [2]float64{181, -91}
	res = ValidateStep(d, 2, StepOptions{Now: testNow})
	assert.Equal(t, "Longitude must be between -180 and 180", res.Errors["longitude"])
	assert.Equal(t, "Latitude must be between -90 and 90", res.Errors["latitude"])
}

func TestStep3PriceAndTransaction(t *testing.T) {
	d := basicsDraft()
	res := ValidateStep(d, 3, StepOptions{Now: testNow})
	assert.Equal(t, "Valid price is required (must be greater than 0)", res.Errors["priceAmount"])

	d.Price.Amount = 25_000_000
	d.TransactionType = ""
	res = ValidateStep(d, 3, StepOptions{Now: testNow})
	assert.Equal(t, "Transaction type is required for sale listings", res.Errors["transactionType"])

	// Rent listings don't carry a transaction type at all.
	d.ListingType = "For Rent"
	res = ValidateStep(d, 3, StepOptions{Now: testNow})
	assert.NotContains(t, res.Errors, "transactionType")
}

func TestStep3PaymentPlanErrors(t *testing.T) {
	d := basicsDraft()
	d.Price.Amount = 40_000_000
	d.TransactionType = "Installments"
	d.PaymentPlans = []PaymentPlan{
		{Name: "Deposit", Type: "Deposit", Amount: 10_000_000},
		{Name: "", Type: "Weekly", Amount: 0, DueInMonths: intp(-1)},
	}
	res := ValidateStep(d, 3, StepOptions{Now: testNow})
	require.False(t, res.Valid)
	assert.NotContains(t, res.Errors, "paymentPlan_0_name")
	assert.Equal(t, "Payment plan #2: Name is required", res.Errors["paymentPlan_1_name"])
	assert.Equal(t, "Payment plan #2: Invalid type", res.Errors["paymentPlan_1_type"])
	assert.Equal(t, "Payment plan #2: Valid amount required", res.Errors["paymentPlan_1_amount"])
	assert.Equal(t, "Payment plan #2: Due months cannot be negative", res.Errors["paymentPlan_1_dueInMonths"])
}

func TestStep3LockInCannotExceedLease(t *testing.T) {
	d := basicsDraft()
	d.ListingType = "For Rent"
	d.Price.Amount = 1_500_000
	d.RentalDetails.LeaseDurationMonths = intp(12)
	d.RentalDetails.LockInPeriodMonths = intp(18)
	res := ValidateStep(d, 3, StepOptions{Now: testNow})
	assert.Equal(t, "Lock-in period cannot exceed lease duration", res.Errors["lockInPeriodMonths"])

	d.RentalDetails.LockInPeriodMonths = intp(12)
	res = ValidateStep(d, 3, StepOptions{Now: testNow})
	assert.NotContains(t, res.Errors, "lockInPeriodMonths")
}

func TestStep3ServiceChargeFrequency(t *testing.T) {
	d := basicsDraft()
	d.ListingType = "For Rent"
	d.Price.Amount = 1_500_000
	d.RentalDetails.ServiceCharge = ServiceCharge{Amount: floatp(50_000)}
	res := ValidateStep(d, 3, StepOptions{Now: testNow})
	assert.Equal(t, "Service charge frequency is required", res.Errors["serviceChargeFrequency"])
}

func TestStep4DatesAndEnums(t *testing.T) {
	d := basicsDraft()
	d.FurnishingStatus = "Fully Furnished"
	d.PropertyCondition = "New"
	d.PossessionStatus = "Ready to Move"

	d.AvailableFrom = "not-a-date"
	res := ValidateStep(d, 4, StepOptions{Now: testNow})
	assert.Equal(t, "Invalid available from date", res.Errors["availableFrom"])

	d.AvailableFrom = testNow.AddDate(0, 0, -1).Format("2006-01-02")
	res = ValidateStep(d, 4, StepOptions{Now: testNow})
	assert.Equal(t, "Available date cannot be in the past", res.Errors["availableFrom"])

	d.AvailableFrom = testNow.Format("2006-01-02")
	res = ValidateStep(d, 4, StepOptions{Now: testNow})
	assert.True(t, res.Valid, "errors: %v", res.Errors)
}

func TestStep4RejectsUnknownAmenities(t *testing.T) {
	d := basicsDraft()
	d.FurnishingStatus = "Fully Furnished"
	d.PropertyCondition = "New"
	d.PossessionStatus = "Ready to Move"
	d.Amenities = []string{"Swimming Pool", "Teleporter", "Moat"}
	res := ValidateStep(d, 4, StepOptions{Now: testNow})
	assert.Equal(t, "Invalid amenities: Teleporter, Moat", res.Errors["amenities"])
}

func mediaItems(n int, primary bool) []MediaItem {
	items := make([]MediaItem, 0, n)
	for i := 0; i < n; i++ {
		cat := "exterior"
		if i == 0 {
			cat = "cover"
		}
		items = append(items, MediaItem{
			URL:       fmt.Sprintf("https://cdn.tvicl.test/m/%d.jpg", i),
			Type:      "image",
			Category:  cat,
			IsPrimary: primary && i == 0,
		})
	}
	return items
}

func TestStep5StructuralRules(t *testing.T) {
	d := basicsDraft()

	res := ValidateStep(d, 5, StepOptions{Now: testNow, Media: MediaStructurallyValid})
	assert.Equal(t, "At least one property image is required", res.Errors["media"])

	d.Media = mediaItems(2, true)
	res = ValidateStep(d, 5, StepOptions{Now: testNow, Media: MediaStructurallyValid})
	assert.Equal(t, "Please upload at least 3 property images", res.Errors["imagesCount"])

	d.Media = mediaItems(3, false)
	res = ValidateStep(d, 5, StepOptions{Now: testNow, Media: MediaStructurallyValid})
	assert.Equal(t, "Please select a primary/cover image", res.Errors["media"])

	d.Media = mediaItems(3, true)
	res = ValidateStep(d, 5, StepOptions{Now: testNow, Media: MediaStructurallyValid})
	assert.True(t, res.Valid, "errors: %v", res.Errors)
}

func TestStep5NeverPassesWhileCategoriesIncomplete(t *testing.T) {
	d := basicsDraft()
	d.Media = mediaItems(3, true)
	res := ValidateStep(d, 5, StepOptions{Now: testNow, Media: MediaIncomplete})
	assert.False(t, res.Valid)
	// Optional URL fields are not evaluated during the structural phase.
	d.VirtualTourURL = "://broken"
	res = ValidateStep(d, 5, StepOptions{Now: testNow, Media: MediaIncomplete})
	assert.NotContains(t, res.Errors, "virtualTourUrl")
}

func TestStep5OptionalURLsAfterStructuralPass(t *testing.T) {
	d := basicsDraft()
	d.Media = mediaItems(3, true)
	d.VirtualTourURL = "://broken"
	d.VideoURL = "https://youtu.be/ok"
	res := ValidateStep(d, 5, StepOptions{Now: testNow, Media: MediaStructurallyValid})
	assert.Equal(t, "Invalid virtual tour URL", res.Errors["virtualTourUrl"])
	assert.NotContains(t, res.Errors, "videoUrl")
}

func TestStep6ContactRules(t *testing.T) {
	d := basicsDraft()
	d.ContactPerson = []Contact{
		{Name: "Ada Obi", Phone: "08012345678", Email: "ada@tvicl.test", Role: "Agent"},
		{Name: "", Phone: "12345", Email: "not-an-email", Role: "Wizard"},
	}
	res := ValidateStep(d, 6, StepOptions{Now: testNow})
	require.False(t, res.Valid)
	assert.NotContains(t, res.Errors, "contact_0_name")
	assert.Equal(t, "Contact #2: Name is required", res.Errors["contact_1_name"])
	assert.Equal(t, "Contact #2: Invalid Nigerian phone number", res.Errors["contact_1_phone"])
	assert.Equal(t, "Contact #2: Invalid email format", res.Errors["contact_1_email"])
	assert.Equal(t, "Contact #2: Invalid role", res.Errors["contact_1_role"])
}

func TestStep6NoContacts(t *testing.T) {
	d := basicsDraft()
	d.ContactPerson = nil
	res := ValidateStep(d, 6, StepOptions{Now: testNow})
	assert.Equal(t, "At least one contact person is required", res.Errors["contactPerson"])
}

func TestStep6HighlightsAndNearby(t *testing.T) {
	d := basicsDraft()
	d.ContactPerson = []Contact{{Name: "Ada Obi", Phone: "08012345678", Email: "ada@tvicl.test", Role: "Agent"}}

	d.Highlights = make([]string, 11)
	for i := range d.Highlights {
		d.Highlights[i] = "Close to the expressway"
	}
	d.Highlights[3] = strings.Repeat("x", 101)
	d.NearbyPlaces = map[string][]NearbyPlace{
		"schools": {{Name: "Corona School", Distance: "1.2km"}, {Name: "", Distance: ""}},
	}
	res := ValidateStep(d, 6, StepOptions{Now: testNow})
	assert.Equal(t, "Maximum 10 highlights allowed", res.Errors["highlights"])
	assert.Equal(t, "Highlight #4: Maximum 100 characters", res.Errors["highlight_3"])
	assert.Equal(t, "schools #2: Name required", res.Errors["nearby_schools_1_name"])
	assert.Equal(t, "schools #2: Distance required", res.Errors["nearby_schools_1_distance"])
}

func TestStep6LegalDocURL(t *testing.T) {
	d := basicsDraft()
	d.ContactPerson = []Contact{{Name: "Ada Obi", Phone: "08012345678", Email: "ada@tvicl.test", Role: "Agent"}}
	d.LegalDocuments["cOfO"] = LegalDocument{Present: true, URL: "://bad"}
	res := ValidateStep(d, 6, StepOptions{Now: testNow})
	assert.Equal(t, "cOfO: Invalid document URL", res.Errors["legal_cOfO_url"])
}

// ValidateStep must not mutate its input or share the error map across calls.
func TestValidateStepIsPure(t *testing.T) {
	d := basicsDraft()
	before := *d
	res1 := ValidateStep(d, 2, StepOptions{Now: testNow})
	res1.Errors["injected"] = "x"
	res2 := ValidateStep(d, 2, StepOptions{Now: testNow})
	assert.NotContains(t, res2.Errors, "injected")
	assert.Equal(t, before.Title, d.Title)
	assert.Equal(t, before.Address, d.Address)
}
