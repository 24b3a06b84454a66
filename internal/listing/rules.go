package listing

import (
	"fmt"
	"strings"
	"time"

	"tvicladmin/internal/validate"
)

// MediaReadiness is the step-5 gate state. Structural checks (counts, primary
// flag) run first; the optional URL checks only run once the upload
// orchestrator reports every required category complete.
type MediaReadiness int

const (
	MediaIncomplete MediaReadiness = iota
	MediaStructurallyValid
	MediaFullyValidated
)

type StepOptions struct {
	Now   time.Time
	Media MediaReadiness
}

type StepResult struct {
	Valid  bool
	Errors map[string]string
}

// ValidateStep runs the business rules for one wizard step. It is pure: the
// returned error map is rebuilt wholesale each call and replaces any previous
// one, so stale errors from other steps never linger.
func ValidateStep(d *Draft, step int, opts StepOptions) StepResult {
	errs := map[string]string{}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	switch step {
	case 1:
		validateStep1(d, now, errs)
	case 2:
		validateStep2(d, errs)
	case 3:
		validateStep3(d, errs)
	case 4:
		validateStep4(d, now, errs)
	case 5:
		return validateStep5(d, opts.Media, errs)
	case 6:
		validateStep6(d, errs)
	}

	return StepResult{Valid: len(errs) == 0, Errors: errs}
}

func validateStep1(d *Draft, now time.Time, errs map[string]string) {
	if strings.TrimSpace(d.Title) == "" {
		errs["title"] = "Title is required"
	} else if len(d.Title) > 250 {
		errs["title"] = "Title must not exceed 250 characters"
	}

	if strings.TrimSpace(d.Description) == "" {
		errs["description"] = "Description is required"
	} else if len(d.Description) > 5000 {
		errs["description"] = "Description must not exceed 5000 characters"
	} else if len(d.Description) < 50 {
		errs["description"] = "Description should be at least 50 characters"
	}

	if d.PropertyType == "" {
		errs["propertyType"] = "Property type is required"
	} else if !contains(PropertyTypes, d.PropertyType) {
		errs["propertyType"] = "Invalid property type selected"
	}

	if RequiresFlatType(d.PropertyType) {
		if d.FlatType == "" {
			errs["flatType"] = "Flat type is required for this property type"
		} else if !contains(FlatTypes, d.FlatType) {
			errs["flatType"] = "Invalid flat type selected"
		}
	}

	if d.ListingType == "" {
		errs["listingType"] = "Listing type is required"
	} else if !contains(ListingTypes, d.ListingType) {
		errs["listingType"] = "Invalid listing type"
	}

	if d.Bedrooms < 0 {
		errs["bedrooms"] = "Bedrooms cannot be negative"
	}
	if d.Bathrooms < 0 {
		errs["bathrooms"] = "Bathrooms cannot be negative"
	}
	if d.Kitchens < 0 {
		errs["kitchens"] = "Kitchens cannot be negative"
	}
	if d.Balconies < 0 {
		errs["balconies"] = "Balconies cannot be negative"
	}

	if d.Floor != nil && *d.Floor < 0 {
		errs["floor"] = "Floor number cannot be negative"
	}
	if d.TotalFloors != nil && *d.TotalFloors < 0 {
		errs["totalFloors"] = "Total floors cannot be negative"
	}
	if d.Floor != nil && d.TotalFloors != nil && *d.Floor > *d.TotalFloors {
		errs["floor"] = "Floor number cannot exceed total floors"
	}

	if d.FloorSizeValue != nil && *d.FloorSizeValue < 0 {
		errs["floorSizeValue"] = "Floor size cannot be negative"
	}
	if d.CarpetAreaValue != nil && *d.CarpetAreaValue < 0 {
		errs["carpetAreaValue"] = "Carpet area cannot be negative"
	}
	if d.FloorSizeValue != nil && d.CarpetAreaValue != nil && *d.CarpetAreaValue > *d.FloorSizeValue {
		errs["carpetAreaValue"] = "Carpet area cannot exceed floor size"
	}

	if d.YearBuilt != nil {
		maxYear := now.Year() + 5
		if *d.YearBuilt < 1900 || *d.YearBuilt > maxYear {
			errs["yearBuilt"] = fmt.Sprintf("Year built must be between 1900 and %d", maxYear)
		}
	}

	if d.Parking.Covered < 0 {
		errs["parkingCovered"] = "Covered parking cannot be negative"
	}
	if d.Parking.Open < 0 {
		errs["parkingOpen"] = "Open parking cannot be negative"
	}
}

func validateStep2(d *Draft, errs map[string]string) {
	if strings.TrimSpace(d.Address.Area) == "" {
		errs["area"] = "Area is required (e.g., Ikeja, Lekki Phase 1)"
	}
	if strings.TrimSpace(d.Address.City) == "" {
		errs["city"] = "City is required"
	}
	if d.Address.State == "" {
		errs["state"] = "State is required"
	} else if !contains(NigerianStates, d.Address.State) {
		errs["state"] = "Please select a valid Nigerian state"
	}

	if d.Address.PostalCode != "" && !validate.PostalCode(d.Address.PostalCode) {
		errs["postalCode"] = "Postal code must be 6 digits"
	}

	// Range checks run for zero too; a coordinate of 0 is a legitimate value
	// on either axis.
	lng, lat := d.Location.Coordinates[0], d.Location.Coordinates[1]
	if lng < -180 || lng > 180 {
		errs["longitude"] = "Longitude must be between -180 and 180"
	}
	if lat < -90 || lat > 90 {
		errs["latitude"] = "Latitude must be between -90 and 90"
	}
}

func validateStep3(d *Draft, errs map[string]string) {
	if d.Price.Amount <= 0 {
		errs["priceAmount"] = "Valid price is required (must be greater than 0)"
	}

	if d.ListingType == "For Sale" {
		if d.TransactionType == "" {
			errs["transactionType"] = "Transaction type is required for sale listings"
		} else if !contains(TransactionTypes, d.TransactionType) {
			errs["transactionType"] = "Invalid transaction type"
		}
	}

	// Plans are only validated when present; an empty list is fine.
	for i, plan := range d.PaymentPlans {
		n := i + 1
		if strings.TrimSpace(plan.Name) == "" {
			errs[fmt.Sprintf("paymentPlan_%d_name", i)] = fmt.Sprintf("Payment plan #%d: Name is required", n)
		}
		if plan.Type == "" {
			errs[fmt.Sprintf("paymentPlan_%d_type", i)] = fmt.Sprintf("Payment plan #%d: Type is required", n)
		} else if !contains(PaymentPlanTypes, plan.Type) {
			errs[fmt.Sprintf("paymentPlan_%d_type", i)] = fmt.Sprintf("Payment plan #%d: Invalid type", n)
		}
		if plan.Amount <= 0 {
			errs[fmt.Sprintf("paymentPlan_%d_amount", i)] = fmt.Sprintf("Payment plan #%d: Valid amount required", n)
		}
		if plan.DueInMonths != nil && *plan.DueInMonths < 0 {
			errs[fmt.Sprintf("paymentPlan_%d_dueInMonths", i)] = fmt.Sprintf("Payment plan #%d: Due months cannot be negative", n)
		}
	}

	if d.ListingType == "For Rent" || d.ListingType == "Short Let" {
		rd := d.RentalDetails

		if rd.RentFrequency == "" {
			errs["rentFrequency"] = "Rent frequency is required"
		} else if !contains(RentFrequencies, rd.RentFrequency) {
			errs["rentFrequency"] = "Invalid rent frequency"
		}

		if rd.DepositAmount != nil && *rd.DepositAmount < 0 {
			errs["depositAmount"] = "Deposit amount cannot be negative"
		}

		if rd.LeaseDurationMonths != nil && *rd.LeaseDurationMonths <= 0 {
			errs["leaseDurationMonths"] = "Lease duration must be greater than 0"
		}

		if rd.LockInPeriodMonths != nil {
			if *rd.LockInPeriodMonths < 0 {
				errs["lockInPeriodMonths"] = "Lock-in period cannot be negative"
			}
			if rd.LeaseDurationMonths != nil && *rd.LockInPeriodMonths > *rd.LeaseDurationMonths {
				errs["lockInPeriodMonths"] = "Lock-in period cannot exceed lease duration"
			}
		}

		if rd.ServiceCharge.Amount != nil {
			if *rd.ServiceCharge.Amount < 0 {
				errs["serviceChargeAmount"] = "Service charge cannot be negative"
			}
			if rd.ServiceCharge.Frequency == "" {
				errs["serviceChargeFrequency"] = "Service charge frequency is required"
			} else if !contains(RentFrequencies, rd.ServiceCharge.Frequency) {
				errs["serviceChargeFrequency"] = "Invalid service charge frequency"
			}
		}

		if rd.AgencyFeePercent != nil && (*rd.AgencyFeePercent < 0 || *rd.AgencyFeePercent > 100) {
			errs["agencyFeePercent"] = "Agency fee must be between 0 and 100%"
		}

		if rd.CautionFee != nil && *rd.CautionFee < 0 {
			errs["cautionFee"] = "Caution fee cannot be negative"
		}

		if rd.PreferredTenants != "" && !contains(PreferredTenants, rd.PreferredTenants) {
			errs["preferredTenants"] = "Invalid preferred tenant type"
		}
	}
}

func validateStep4(d *Draft, now time.Time, errs map[string]string) {
	if d.FurnishingStatus == "" {
		errs["furnishingStatus"] = "Furnishing status is required"
	} else if !contains(FurnishingStatuses, d.FurnishingStatus) {
		errs["furnishingStatus"] = "Invalid furnishing status"
	}

	if d.PropertyCondition == "" {
		errs["propertyCondition"] = "Property condition is required"
	} else if !contains(PropertyConditions, d.PropertyCondition) {
		errs["propertyCondition"] = "Invalid property condition"
	}

	if d.PossessionStatus == "" {
		errs["possessionStatus"] = "Possession status is required"
	} else if !contains(PossessionStatuses, d.PossessionStatus) {
		errs["possessionStatus"] = "Invalid possession status"
	}

	if d.AvailableFrom == "" {
		errs["availableFrom"] = "Available from date is required"
	} else if from, err := time.Parse("2006-01-02", d.AvailableFrom); err != nil {
		errs["availableFrom"] = "Invalid available from date"
	} else {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if from.Before(today) {
			errs["availableFrom"] = "Available date cannot be in the past"
		}
	}

	if bad := setDifference(d.Amenities, AmenitiesList); len(bad) > 0 {
		errs["amenities"] = "Invalid amenities: " + strings.Join(bad, ", ")
	}

	if d.Utilities.WaterSupply != "" && !contains(WaterSupplyOptions, d.Utilities.WaterSupply) {
		errs["waterSupply"] = "Invalid water supply option"
	}
	if d.Utilities.PowerBackup != "" && !contains(PowerBackupOptions, d.Utilities.PowerBackup) {
		errs["powerBackup"] = "Invalid power backup option"
	}
	if d.Utilities.Gas != "" && !contains(GasOptions, d.Utilities.Gas) {
		errs["gas"] = "Invalid gas option"
	}

	if d.Facing != "" && !contains(FacingOptions, d.Facing) {
		errs["facing"] = "Invalid orientation/facing direction"
	}

	if bad := setDifference(d.AdditionalRooms, AdditionalRoomsList); len(bad) > 0 {
		errs["additionalRooms"] = "Invalid additional rooms: " + strings.Join(bad, ", ")
	}
}

func validateStep5(d *Draft, readiness MediaReadiness, errs map[string]string) StepResult {
	if len(d.Media) == 0 {
		errs["media"] = "At least one property image is required"
	} else {
		hasPrimary := false
		for _, m := range d.Media {
			if m.IsPrimary {
				hasPrimary = true
				break
			}
		}
		if !hasPrimary {
			errs["media"] = "Please select a primary/cover image"
		}

		for i, m := range d.Media {
			if m.URL == "" {
				errs[m.Category] = fmt.Sprintf("%s Image #%d: URL is required", m.Category, i+1)
			} else if !validate.URL(m.URL) {
				errs[m.Category] = fmt.Sprintf("%s Image #%d: Invalid URL format", m.Category, i+1)
			}
		}

		if len(d.Media) < 3 {
			errs["imagesCount"] = "Please upload at least 3 property images"
		}
	}

	// Structural phase only: until every required category is complete the
	// step cannot pass, and the optional URL fields are not evaluated yet.
	if readiness < MediaStructurallyValid {
		return StepResult{Valid: false, Errors: errs}
	}

	if d.VirtualTourURL != "" && !validate.URL(d.VirtualTourURL) {
		errs["virtualTourUrl"] = "Invalid virtual tour URL"
	}
	if d.VideoURL != "" && !validate.URL(d.VideoURL) {
		errs["videoUrl"] = "Invalid video URL"
	}
	if d.FloorPlan != nil && d.FloorPlan.URL != "" && !validate.URL(d.FloorPlan.URL) {
		errs["floorPlanUrl"] = "Invalid floor plan URL"
	}

	return StepResult{Valid: len(errs) == 0, Errors: errs}
}

func validateStep6(d *Draft, errs map[string]string) {
	if len(d.ContactPerson) == 0 {
		errs["contactPerson"] = "At least one contact person is required"
	} else {
		for i, c := range d.ContactPerson {
			n := i + 1
			if strings.TrimSpace(c.Name) == "" {
				errs[fmt.Sprintf("contact_%d_name", i)] = fmt.Sprintf("Contact #%d: Name is required", n)
			}
			if strings.TrimSpace(c.Phone) == "" {
				errs[fmt.Sprintf("contact_%d_phone", i)] = fmt.Sprintf("Contact #%d: Phone is required", n)
			} else if !validate.Phone(c.Phone) {
				errs[fmt.Sprintf("contact_%d_phone", i)] = fmt.Sprintf("Contact #%d: Invalid Nigerian phone number", n)
			}
			if strings.TrimSpace(c.Email) == "" {
				errs[fmt.Sprintf("contact_%d_email", i)] = fmt.Sprintf("Contact #%d: Email is required", n)
			} else if !validate.Email(c.Email) {
				errs[fmt.Sprintf("contact_%d_email", i)] = fmt.Sprintf("Contact #%d: Invalid email format", n)
			}
			if c.Role == "" {
				errs[fmt.Sprintf("contact_%d_role", i)] = fmt.Sprintf("Contact #%d: Role is required", n)
			} else if !contains(ContactRoles, c.Role) {
				errs[fmt.Sprintf("contact_%d_role", i)] = fmt.Sprintf("Contact #%d: Invalid role", n)
			}
		}
	}

	for _, dt := range DocTypes {
		doc, ok := d.LegalDocuments[dt]
		if ok && doc.Present && doc.URL != "" && !validate.URL(doc.URL) {
			errs["legal_"+dt+"_url"] = dt + ": Invalid document URL"
		}
	}

	if len(d.Highlights) > 10 {
		errs["highlights"] = "Maximum 10 highlights allowed"
	}
	for i, h := range d.Highlights {
		if len(h) > 100 {
			errs[fmt.Sprintf("highlight_%d", i)] = fmt.Sprintf("Highlight #%d: Maximum 100 characters", i+1)
		}
	}

	for _, typ := range PlaceTypes {
		for i, place := range d.NearbyPlaces[typ] {
			n := i + 1
			if strings.TrimSpace(place.Name) == "" {
				errs[fmt.Sprintf("nearby_%s_%d_name", typ, i)] = fmt.Sprintf("%s #%d: Name required", typ, n)
			}
			if strings.TrimSpace(place.Distance) == "" {
				errs[fmt.Sprintf("nearby_%s_%d_distance", typ, i)] = fmt.Sprintf("%s #%d: Distance required", typ, n)
			}
		}
	}
}

func setDifference(values, canonical []string) []string {
	var bad []string
	for _, v := range values {
		if !contains(canonical, v) {
			bad = append(bad, v)
		}
	}
	return bad
}
