package listing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrUnknownField = errors.New("unknown field path")

// Apply applies one field change to a copy of the draft and returns the copy.
// Numeric targets treat the empty string as "cleared"; toggle targets adjust
// list membership; everything else assigns the value directly.
func (d *Draft) Apply(ch FieldChange) (*Draft, error) {
	if len(ch.Path) == 0 {
		return nil, fmt.Errorf("%w: empty path", ErrUnknownField)
	}
	cp := d.Clone()
	if err := cp.apply(ch); err != nil {
		return nil, err
	}
	return cp, nil
}

func (d *Draft) apply(ch FieldChange) error {
	p := ch.Path
	head := p[0]
	if head.IsIdx {
		return badPath(p)
	}

	switch head.Key {
	case "title":
		return setString(&d.Title, ch.Value)
	case "description":
		return setString(&d.Description, ch.Value)
	case "propertyType":
		return setString(&d.PropertyType, ch.Value)
	case "flatType":
		return setString(&d.FlatType, ch.Value)
	case "listingType":
		return setString(&d.ListingType, ch.Value)
	case "floorSizeUnit":
		return setString(&d.FloorSizeUnit, ch.Value)
	case "carpetAreaUnit":
		return setString(&d.CarpetAreaUnit, ch.Value)
	case "transactionType":
		return setString(&d.TransactionType, ch.Value)
	case "furnishingStatus":
		return setString(&d.FurnishingStatus, ch.Value)
	case "propertyCondition":
		return setString(&d.PropertyCondition, ch.Value)
	case "possessionStatus":
		return setString(&d.PossessionStatus, ch.Value)
	case "availableFrom":
		return setString(&d.AvailableFrom, ch.Value)
	case "facing":
		return setString(&d.Facing, ch.Value)
	case "virtualTourUrl":
		return setString(&d.VirtualTourURL, ch.Value)
	case "videoUrl":
		return setString(&d.VideoURL, ch.Value)

	case "bedrooms":
		return setInt(&d.Bedrooms, ch.Value)
	case "bathrooms":
		return setInt(&d.Bathrooms, ch.Value)
	case "kitchens":
		return setInt(&d.Kitchens, ch.Value)
	case "balconies":
		return setInt(&d.Balconies, ch.Value)

	case "floor":
		return setOptInt(&d.Floor, ch.Value)
	case "totalFloors":
		return setOptInt(&d.TotalFloors, ch.Value)
	case "yearBuilt":
		return setOptInt(&d.YearBuilt, ch.Value)
	case "floorSizeValue":
		return setOptFloat(&d.FloorSizeValue, ch.Value)
	case "carpetAreaValue":
		return setOptFloat(&d.CarpetAreaValue, ch.Value)

	case "address":
		return d.applyAddress(p[1:], ch.Value)
	case "location":
		return d.applyLocation(p[1:], ch.Value)
	case "price":
		return d.applyPrice(p[1:], ch.Value)
	case "rentalDetails":
		return d.applyRentalDetails(p[1:], ch.Value)
	case "parking":
		return d.applyParking(p[1:], ch.Value)
	case "utilities":
		return d.applyUtilities(p[1:], ch.Value)

	case "amenities":
		return applyList(&d.Amenities, ch)
	case "additionalRooms":
		return applyList(&d.AdditionalRooms, ch)
	case "highlights":
		return applyList(&d.Highlights, ch)

	case "contactPerson":
		return d.applyContact(p[1:], ch.Value)
	case "paymentPlans":
		return d.applyPaymentPlan(p[1:], ch.Value)
	case "nearbyPlaces":
		return d.applyNearbyPlace(p[1:], ch.Value)

	case "floorPlan":
		if len(p) != 2 || p[1].Key != "url" {
			return badPath(p)
		}
		if d.FloorPlan == nil {
			d.FloorPlan = &FloorPlan{}
		}
		return setString(&d.FloorPlan.URL, ch.Value)
	}
	return badPath(p)
}

func (d *Draft) applyAddress(rest FieldPath, v any) error {
	if len(rest) != 1 || rest[0].IsIdx {
		return badPath(rest)
	}
	switch rest[0].Key {
	case "street":
		return setString(&d.Address.Street, v)
	case "area":
		return setString(&d.Address.Area, v)
	case "city":
		return setString(&d.Address.City, v)
	case "state":
		return setString(&d.Address.State, v)
	case "lga":
		return setString(&d.Address.LGA, v)
	case "postalCode":
		return setString(&d.Address.PostalCode, v)
	case "landmark":
		return setString(&d.Address.Landmark, v)
	}
	return badPath(rest)
}

func (d *Draft) applyLocation(rest FieldPath, v any) error {
	// location.coordinates.0 (longitude) / location.coordinates.1 (latitude)
	if len(rest) != 2 || rest[0].Key != "coordinates" || !rest[1].IsIdx {
		return badPath(rest)
	}
	i := rest[1].Index
	if i < 0 || i > 1 {
		return badPath(rest)
	}
	f, empty, err := toFloat(v)
	if err != nil {
		return err
	}
	if empty {
		f = 0
	}
	d.Location.Coordinates[i] = f
	return nil
}

func (d *Draft) applyPrice(rest FieldPath, v any) error {
	if len(rest) != 1 || rest[0].IsIdx {
		return badPath(rest)
	}
	switch rest[0].Key {
	case "amount":
		return setFloat(&d.Price.Amount, v)
	case "currency":
		return setString(&d.Price.Currency, v)
	case "negotiable":
		return setBool(&d.Price.Negotiable, v)
	}
	return badPath(rest)
}

func (d *Draft) applyRentalDetails(rest FieldPath, v any) error {
	if len(rest) == 0 || rest[0].IsIdx {
		return badPath(rest)
	}
	rd := &d.RentalDetails
	switch rest[0].Key {
	case "serviceCharge":
		if len(rest) != 2 || rest[1].IsIdx {
			return badPath(rest)
		}
		switch rest[1].Key {
		case "amount":
			return setOptFloat(&rd.ServiceCharge.Amount, v)
		case "frequency":
			return setString(&rd.ServiceCharge.Frequency, v)
		}
		return badPath(rest)
	}
	if len(rest) != 1 {
		return badPath(rest)
	}
	switch rest[0].Key {
	case "depositAmount":
		return setOptFloat(&rd.DepositAmount, v)
	case "rentFrequency":
		return setString(&rd.RentFrequency, v)
	case "leaseDurationMonths":
		return setOptInt(&rd.LeaseDurationMonths, v)
	case "lockInPeriodMonths":
		return setOptInt(&rd.LockInPeriodMonths, v)
	case "agencyFeePercent":
		return setOptFloat(&rd.AgencyFeePercent, v)
	case "cautionFee":
		return setOptFloat(&rd.CautionFee, v)
	case "petsAllowed":
		return setBool(&rd.PetsAllowed, v)
	case "preferredTenants":
		return setString(&rd.PreferredTenants, v)
	}
	return badPath(rest)
}

func (d *Draft) applyParking(rest FieldPath, v any) error {
	if len(rest) != 1 || rest[0].IsIdx {
		return badPath(rest)
	}
	switch rest[0].Key {
	case "covered":
		return setInt(&d.Parking.Covered, v)
	case "open":
		return setInt(&d.Parking.Open, v)
	}
	return badPath(rest)
}

func (d *Draft) applyUtilities(rest FieldPath, v any) error {
	if len(rest) != 1 || rest[0].IsIdx {
		return badPath(rest)
	}
	switch rest[0].Key {
	case "waterSupply":
		return setString(&d.Utilities.WaterSupply, v)
	case "powerBackup":
		return setString(&d.Utilities.PowerBackup, v)
	case "gas":
		return setString(&d.Utilities.Gas, v)
	}
	return badPath(rest)
}

func (d *Draft) applyContact(rest FieldPath, v any) error {
	if len(rest) != 2 || !rest[0].IsIdx || rest[1].IsIdx {
		return badPath(rest)
	}
	i := rest[0].Index
	if i < 0 || i >= len(d.ContactPerson) {
		return fmt.Errorf("contact index %d out of range", i)
	}
	c := &d.ContactPerson[i]
	switch rest[1].Key {
	case "name":
		return setString(&c.Name, v)
	case "phone":
		return setString(&c.Phone, v)
	case "email":
		return setString(&c.Email, v)
	case "role":
		return setString(&c.Role, v)
	}
	return badPath(rest)
}

func (d *Draft) applyPaymentPlan(rest FieldPath, v any) error {
	if len(rest) != 2 || !rest[0].IsIdx || rest[1].IsIdx {
		return badPath(rest)
	}
	i := rest[0].Index
	if i < 0 || i >= len(d.PaymentPlans) {
		return fmt.Errorf("payment plan index %d out of range", i)
	}
	pl := &d.PaymentPlans[i]
	switch rest[1].Key {
	case "name":
		return setString(&pl.Name, v)
	case "amount":
		return setFloat(&pl.Amount, v)
	case "type":
		return setString(&pl.Type, v)
	case "dueInMonths":
		return setOptInt(&pl.DueInMonths, v)
	}
	return badPath(rest)
}

func (d *Draft) applyNearbyPlace(rest FieldPath, v any) error {
	// nearbyPlaces.<type>.<index>.<name|distance>
	if len(rest) != 3 || rest[0].IsIdx || !rest[1].IsIdx || rest[2].IsIdx {
		return badPath(rest)
	}
	typ := rest[0].Key
	if !contains(PlaceTypes, typ) {
		return fmt.Errorf("%w: nearby place type %q", ErrUnknownField, typ)
	}
	if d.NearbyPlaces == nil {
		d.NearbyPlaces = map[string][]NearbyPlace{}
	}
	places := d.NearbyPlaces[typ]
	i := rest[1].Index
	for len(places) <= i {
		places = append(places, NearbyPlace{})
	}
	switch rest[2].Key {
	case "name":
		if err := setString(&places[i].Name, v); err != nil {
			return err
		}
	case "distance":
		if err := setString(&places[i].Distance, v); err != nil {
			return err
		}
	default:
		return badPath(rest)
	}
	d.NearbyPlaces[typ] = places
	return nil
}

// applyList covers the multi-select fields: toggle membership, append a tag,
// or replace the whole list.
func applyList(target *[]string, ch FieldChange) error {
	switch ch.Op {
	case OpToggle:
		s, ok := ch.Value.(string)
		if !ok {
			return fmt.Errorf("toggle value must be a string, got %T", ch.Value)
		}
		if ch.Checked {
			if !contains(*target, s) {
				*target = append(*target, s)
			}
			return nil
		}
		out := (*target)[:0]
		for _, v := range *target {
			if v != s {
				out = append(out, v)
			}
		}
		*target = out
		return nil
	case OpAppend:
		s, ok := ch.Value.(string)
		if !ok {
			return fmt.Errorf("append value must be a string, got %T", ch.Value)
		}
		*target = append(*target, s)
		return nil
	default:
		switch v := ch.Value.(type) {
		case []string:
			*target = append([]string(nil), v...)
			return nil
		case []any:
			out := make([]string, 0, len(v))
			for _, e := range v {
				s, ok := e.(string)
				if !ok {
					return fmt.Errorf("list element must be a string, got %T", e)
				}
				out = append(out, s)
			}
			*target = out
			return nil
		}
		return fmt.Errorf("set value must be a string list, got %T", ch.Value)
	}
}

func badPath(p FieldPath) error {
	return fmt.Errorf("%w: %q", ErrUnknownField, p.String())
}

// toFloat normalises the raw input value. The empty string (and nil) report
// empty=true rather than coercing to zero.
func toFloat(v any) (f float64, empty bool, err error) {
	switch x := v.(type) {
	case nil:
		return 0, true, nil
	case string:
		x = strings.TrimSpace(x)
		if x == "" {
			return 0, true, nil
		}
		f, err = strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, false, fmt.Errorf("not a number: %q", x)
		}
		return f, false, nil
	case float64:
		return x, false, nil
	case float32:
		return float64(x), false, nil
	case int:
		return float64(x), false, nil
	case int64:
		return float64(x), false, nil
	}
	return 0, false, fmt.Errorf("not a number: %T", v)
}

func setString(target *string, v any) error {
	switch x := v.(type) {
	case nil:
		*target = ""
	case string:
		*target = x
	default:
		return fmt.Errorf("expected string, got %T", v)
	}
	return nil
}

func setBool(target *bool, v any) error {
	switch x := v.(type) {
	case bool:
		*target = x
	case string:
		*target = x == "true" || x == "on"
	default:
		return fmt.Errorf("expected bool, got %T", v)
	}
	return nil
}

func setInt(target *int, v any) error {
	f, empty, err := toFloat(v)
	if err != nil {
		return err
	}
	if empty {
		*target = 0
		return nil
	}
	*target = int(f)
	return nil
}

func setFloat(target *float64, v any) error {
	f, empty, err := toFloat(v)
	if err != nil {
		return err
	}
	if empty {
		*target = 0
		return nil
	}
	*target = f
	return nil
}

func setOptInt(target **int, v any) error {
	f, empty, err := toFloat(v)
	if err != nil {
		return err
	}
	if empty {
		*target = nil
		return nil
	}
	n := int(f)
	*target = &n
	return nil
}

func setOptFloat(target **float64, v any) error {
	f, empty, err := toFloat(v)
	if err != nil {
		return err
	}
	if empty {
		*target = nil
		return nil
	}
	*target = &f
	return nil
}
