// Package listing holds the property draft aggregate, its reference data and
// the per-step business rules that gate the submission wizard.
package listing

import "slices"

var NigerianStates = []string{
	"Abia", "Adamawa", "Akwa Ibom", "Anambra", "Bauchi", "Bayelsa", "Benue",
	"Borno", "Cross River", "Delta", "Ebonyi", "Edo", "Ekiti", "Enugu", "FCT",
	"Gombe", "Imo", "Jigawa", "Kaduna", "Kano", "Katsina", "Kebbi", "Kogi",
	"Kwara", "Lagos", "Nasarawa", "Niger", "Ogun", "Ondo", "Osun", "Oyo",
	"Plateau", "Rivers", "Sokoto", "Taraba", "Yobe", "Zamfara",
}

var PropertyTypes = []string{
	"Self Contained", "Mini Flat", "Flat/Apartment", "Bungalow",
	"Detached Duplex", "Semi-Detached Duplex", "Terraced Duplex", "Mansion",
	"Block of Flats", "Commercial", "Plot", "Office", "Warehouse",
	"Serviced Apartment",
}

var FlatTypes = []string{
	"Studio", "1 Bedroom", "2 Bedroom", "3 Bedroom", "4 Bedroom", "5+ Bedroom",
}

// flatTypeRequired lists the property types where a flat type must be chosen.
var flatTypeRequired = []string{"Flat/Apartment", "Serviced Apartment", "Block of Flats"}

var ListingTypes = []string{"For Sale", "For Rent", "Short Let"}

var AmenitiesList = []string{
	"Swimming Pool", "Gym", "Garden", "Kids Play Area", "Clubhouse",
	"Security", "CCTV", "Gated Community", "Lift", "Generator", "Inverter",
	"Borehole", "Piped Water", "Water Treatment", "Fire Safety", "Intercom",
	"Visitor Parking", "Street Lights", "Fence", "Gatehouse",
	"Commercial Mall Nearby", "School Nearby",
}

var WaterSupplyOptions = []string{
	"Borehole", "Water Corporation", "Bottled/Delivered", "Municipal", "Both",
}

var PowerBackupOptions = []string{"Generator", "Inverter", "Full", "Partial", "None"}

var GasOptions = []string{"Cylinder", "Piped Gas", "None"}

var FacingOptions = []string{
	"North", "South", "East", "West",
	"North-East", "North-West", "South-East", "South-West",
}

var AdditionalRoomsList = []string{
	"Servant Room", "Study Room", "Pooja Room", "Store Room", "Home Theater", "Terrace",
}

var TransactionTypes = []string{
	"Off Plan", "Outright", "Installments", "Mortgage", "Rent to Own",
}

var PaymentPlanTypes = []string{"Deposit", "Milestone", "Monthly", "Balloon"}

var RentFrequencies = []string{"Monthly", "Quarterly", "Yearly"}

var PreferredTenants = []string{"Anyone", "Family", "Bachelor", "Company"}

var FurnishingStatuses = []string{"Unfurnished", "Semi-Furnished", "Fully Furnished"}

var PropertyConditions = []string{"New", "Excellent", "Good", "Needs Renovation"}

var PossessionStatuses = []string{"Ready to Move", "Under Construction"}

var ContactRoles = []string{"Owner", "Agent", "Builder", "Realtor"}

// DocTypes are the fixed keys of the legal-documents map.
var DocTypes = []string{"cOfO", "governorsConsent", "surveyPlan", "deedOfAssignment", "excision"}

var PlaceTypes = []string{"schools", "hospitals", "transport", "shoppingCenters", "parks"}

func contains(list []string, v string) bool { return slices.Contains(list, v) }

// RequiresFlatType reports whether the property type mandates a flat type.
func RequiresFlatType(propertyType string) bool {
	return contains(flatTypeRequired, propertyType)
}
