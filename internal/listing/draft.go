package listing

import "time"

// Draft is the single mutable aggregate for one listing submission. It is
// built up across the wizard's seven steps and serialized to the platform API
// on submit. Optional numerics are pointers so "left blank" and "entered 0"
// stay distinguishable.
type Draft struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	PropertyType string `json:"propertyType"`
	FlatType     string `json:"flatType"`
	ListingType  string `json:"listingType"`

	Address  Address  `json:"address"`
	Location GeoPoint `json:"location"`

	Bedrooms  int `json:"bedrooms"`
	Bathrooms int `json:"bathrooms"`
	Kitchens  int `json:"kitchens"`
	Balconies int `json:"balconies"`

	Floor       *int `json:"floor,omitempty"`
	TotalFloors *int `json:"totalFloors,omitempty"`

	FloorSizeValue  *float64 `json:"floorSizeValue,omitempty"`
	FloorSizeUnit   string   `json:"floorSizeUnit"`
	CarpetAreaValue *float64 `json:"carpetAreaValue,omitempty"`
	CarpetAreaUnit  string   `json:"carpetAreaUnit"`

	Media []MediaItem `json:"media"`

	Price           Price         `json:"price"`
	PaymentPlans    []PaymentPlan `json:"paymentPlans"`
	RentalDetails   RentalDetails `json:"rentalDetails"`
	TransactionType string        `json:"transactionType"`

	FurnishingStatus  string `json:"furnishingStatus"`
	PropertyCondition string `json:"propertyCondition"`
	PossessionStatus  string `json:"possessionStatus"`
	AvailableFrom     string `json:"availableFrom"` // YYYY-MM-DD
	YearBuilt         *int   `json:"yearBuilt,omitempty"`

	Parking Parking `json:"parking"`

	Amenities []string  `json:"amenities"`
	Utilities Utilities `json:"utilities"`
	Facing    string    `json:"facing"`

	AdditionalRooms []string `json:"additionalRooms"`
	Highlights      []string `json:"highlights"`

	ContactPerson []Contact `json:"contactPerson"`

	LegalDocuments map[string]LegalDocument `json:"legalDocuments"`
	NearbyPlaces   map[string][]NearbyPlace `json:"nearbyPlaces,omitempty"`

	VirtualTourURL string     `json:"virtualTourUrl,omitempty"`
	VideoURL       string     `json:"videoUrl,omitempty"`
	FloorPlan      *FloorPlan `json:"floorPlan,omitempty"`
}

type Address struct {
	Street     string `json:"street"`
	Area       string `json:"area"`
	City       string `json:"city"`
	State      string `json:"state"`
	LGA        string `json:"lga"`
	PostalCode string `json:"postalCode"`
	Landmark   string `json:"landmark"`
}

// GeoPoint follows GeoJSON ordering: coordinates[0] is longitude,
// coordinates[1] is latitude.
type GeoPoint struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

type Price struct {
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
	Negotiable bool    `json:"negotiable"`
}

type PaymentPlan struct {
	Name        string  `json:"name"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	DueInMonths *int    `json:"dueInMonths,omitempty"`
}

type ServiceCharge struct {
	Amount    *float64 `json:"amount,omitempty"`
	Frequency string   `json:"frequency"`
}

type RentalDetails struct {
	DepositAmount       *float64      `json:"depositAmount,omitempty"`
	RentFrequency       string        `json:"rentFrequency"`
	LeaseDurationMonths *int          `json:"leaseDurationMonths,omitempty"`
	LockInPeriodMonths  *int          `json:"lockInPeriodMonths,omitempty"`
	ServiceCharge       ServiceCharge `json:"serviceCharge"`
	AgencyFeePercent    *float64      `json:"agencyFeePercent,omitempty"`
	CautionFee          *float64      `json:"cautionFee,omitempty"`
	PetsAllowed         bool          `json:"petsAllowed"`
	PreferredTenants    string        `json:"preferredTenants"`
}

type Parking struct {
	Covered int `json:"covered"`
	Open    int `json:"open"`
}

type Utilities struct {
	WaterSupply string `json:"waterSupply"`
	PowerBackup string `json:"powerBackup"`
	Gas         string `json:"gas"`
}

// MediaItem is one uploaded file in the flat media list. FileRef points at
// the stored file on disk; URL is the preview path served to the dashboard.
type MediaItem struct {
	URL         string `json:"url"`
	FileRef     string `json:"fileRef,omitempty"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	SubCategory string `json:"subCategory"`
	Caption     string `json:"caption"`
	IsPrimary   bool   `json:"isPrimary"`
	UploadedAt  string `json:"uploadedAt"`
}

type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type LegalDocument struct {
	Present bool   `json:"present"`
	URL     string `json:"url"`
	FileRef string `json:"fileRef,omitempty"`
	Type    string `json:"type,omitempty"`
}

type NearbyPlace struct {
	Name     string `json:"name"`
	Distance string `json:"distance"`
}

type FloorPlan struct {
	URL string `json:"url"`
}

// DefaultDraft returns a fresh draft with the wizard's canonical defaults.
func DefaultDraft(now time.Time) *Draft {
	d := &Draft{
		Address:  Address{},
		Location: GeoPoint{Type: "Point"},

		Bedrooms:  1,
		Bathrooms: 1,
		Kitchens:  1,
		Balconies: 0,

		FloorSizeUnit:  "sqft",
		CarpetAreaUnit: "sqft",

		Media: []MediaItem{},

		Price:        Price{Amount: 0, Currency: "NGN", Negotiable: false},
		PaymentPlans: []PaymentPlan{},
		RentalDetails: RentalDetails{
			RentFrequency:    "Monthly",
			ServiceCharge:    ServiceCharge{Frequency: "Monthly"},
			PreferredTenants: "Anyone",
		},
		TransactionType: "Outright",

		AvailableFrom: now.Format("2006-01-02"),

		Amenities: []string{},
		Utilities: Utilities{WaterSupply: "Municipal", PowerBackup: "None", Gas: "None"},

		AdditionalRooms: []string{},
		Highlights:      []string{},

		ContactPerson: []Contact{{Role: "Agent"}},

		LegalDocuments: map[string]LegalDocument{},
	}
	for _, dt := range DocTypes {
		d.LegalDocuments[dt] = LegalDocument{}
	}
	return d
}

// Clone deep-copies the draft so every mutation can hand consumers a fresh
// value; the previous draft is never aliased.
func (d *Draft) Clone() *Draft {
	if d == nil {
		return nil
	}
	cp := *d
	cp.Floor = clonePtr(d.Floor)
	cp.TotalFloors = clonePtr(d.TotalFloors)
	cp.FloorSizeValue = clonePtr(d.FloorSizeValue)
	cp.CarpetAreaValue = clonePtr(d.CarpetAreaValue)
	cp.YearBuilt = clonePtr(d.YearBuilt)

	cp.Media = append([]MediaItem(nil), d.Media...)
	cp.Amenities = append([]string(nil), d.Amenities...)
	cp.AdditionalRooms = append([]string(nil), d.AdditionalRooms...)
	cp.Highlights = append([]string(nil), d.Highlights...)
	cp.ContactPerson = append([]Contact(nil), d.ContactPerson...)

	cp.PaymentPlans = make([]PaymentPlan, len(d.PaymentPlans))
	for i, p := range d.PaymentPlans {
		p.DueInMonths = clonePtr(p.DueInMonths)
		cp.PaymentPlans[i] = p
	}

	rd := d.RentalDetails
	rd.DepositAmount = clonePtr(rd.DepositAmount)
	rd.LeaseDurationMonths = clonePtr(rd.LeaseDurationMonths)
	rd.LockInPeriodMonths = clonePtr(rd.LockInPeriodMonths)
	rd.AgencyFeePercent = clonePtr(rd.AgencyFeePercent)
	rd.CautionFee = clonePtr(rd.CautionFee)
	rd.ServiceCharge.Amount = clonePtr(rd.ServiceCharge.Amount)
	cp.RentalDetails = rd

	cp.LegalDocuments = make(map[string]LegalDocument, len(d.LegalDocuments))
	for k, v := range d.LegalDocuments {
		cp.LegalDocuments[k] = v
	}
	if d.NearbyPlaces != nil {
		cp.NearbyPlaces = make(map[string][]NearbyPlace, len(d.NearbyPlaces))
		for k, v := range d.NearbyPlaces {
			cp.NearbyPlaces[k] = append([]NearbyPlace(nil), v...)
		}
	}
	if d.FloorPlan != nil {
		fp := *d.FloorPlan
		cp.FloorPlan = &fp
	}
	return &cp
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
