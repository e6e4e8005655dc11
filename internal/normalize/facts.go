package normalize

import (
	"strings"
)

// ClaimType is the canonical claim category. Unrecognized types resolve to
// ClaimTypeGeneric, which carries no type-specific fields.
type ClaimType string

const (
	ClaimTypeHealth   ClaimType = "health"
	ClaimTypeMotor    ClaimType = "motor"
	ClaimTypeMobile   ClaimType = "mobile"
	ClaimTypeProperty ClaimType = "property"
	ClaimTypeLife     ClaimType = "life"
	ClaimTypeTravel   ClaimType = "travel"
	ClaimTypeGeneric  ClaimType = "generic"
)

// AssetKind categorizes the physical asset an identifier refers to. The
// three identifier spaces (VIN, IMEI, property address) are disjoint.
type AssetKind string

const (
	AssetVehicle    AssetKind = "vehicle"
	AssetDevice     AssetKind = "device"
	AssetRealEstate AssetKind = "real_estate"
)

// AssetRef is one asset identifier attached to a claim.
type AssetRef struct {
	Kind  AssetKind
	Value string
}

// ClaimFacts is the flat, canonical view of one claim. Every field except
// TransactionID is optional; absence is the empty string (nil for amount),
// never an error. Type-specific fields live in Extra under their canonical
// names (vin, imei, property_address, date_of_death, destination, ...).
type ClaimFacts struct {
	ClaimType     ClaimType
	TransactionID string
	CustomerID    string
	CustomerName  string
	PolicyNumber  string
	SSN           string
	AgentID       string
	VendorID      string
	ClaimAmount   *float64
	ClaimDate     string
	Severity      string
	Status        string
	AddressLine1  string
	City          string
	State         string
	PostalCode    string
	Extra         map[string]string
}

// Assets returns the asset identifiers present on this claim, in a fixed
// order (vehicle, device, real estate).
func (f *ClaimFacts) Assets() []AssetRef {
	assets := make([]AssetRef, 0, 3)
	if vin := f.Extra[FieldVIN]; vin != "" {
		assets = append(assets, AssetRef{Kind: AssetVehicle, Value: vin})
	}
	if imei := f.Extra[FieldIMEI]; imei != "" {
		assets = append(assets, AssetRef{Kind: AssetDevice, Value: imei})
	}
	if addr := f.Extra[FieldPropertyAddress]; addr != "" {
		assets = append(assets, AssetRef{Kind: AssetRealEstate, Value: addr})
	}
	return assets
}

// AddressKey derives the identity key for the claimant's home address from
// its components. Empty when no street line is present.
func (f *ClaimFacts) AddressKey() string {
	if f.AddressLine1 == "" {
		return ""
	}
	key := strings.Join([]string{f.AddressLine1, f.City, f.PostalCode}, "_")
	return strings.ToLower(strings.TrimSpace(key))
}

// PersonKey returns the identity key for the claimant: customer_id, falling
// back to ssn when customer_id is absent. Empty when neither is known.
func (f *ClaimFacts) PersonKey() string {
	if f.CustomerID != "" {
		return f.CustomerID
	}
	return f.SSN
}

// Map renders the facts under their canonical top-level field names. The
// result is valid normalizer input: normalizing it reproduces these facts
// unchanged, which keeps downstream payloads re-ingestable.
func (f *ClaimFacts) Map() map[string]any {
	m := map[string]any{
		"transaction_id": f.TransactionID,
		"claim_type":     string(f.ClaimType),
	}
	setIfPresent := func(key, value string) {
		if value != "" {
			m[key] = value
		}
	}
	setIfPresent("customer_id", f.CustomerID)
	setIfPresent("customer_name", f.CustomerName)
	setIfPresent("policy_number", f.PolicyNumber)
	setIfPresent("ssn", f.SSN)
	setIfPresent("agent_id", f.AgentID)
	setIfPresent("vendor_id", f.VendorID)
	setIfPresent("claim_date", f.ClaimDate)
	setIfPresent("severity", f.Severity)
	setIfPresent("status", f.Status)
	setIfPresent("address_line1", f.AddressLine1)
	setIfPresent("city", f.City)
	setIfPresent("state", f.State)
	setIfPresent("postal_code", f.PostalCode)
	if f.ClaimAmount != nil {
		m["claim_amount"] = *f.ClaimAmount
	}
	for key, value := range f.Extra {
		setIfPresent(key, value)
	}
	return m
}

// MaskSSN reduces an SSN to its last four digits for logging.
func MaskSSN(ssn string) string {
	if len(ssn) <= 4 {
		return "***"
	}
	return "***-**-" + ssn[len(ssn)-4:]
}

// LogPersonKey is PersonKey rendered safe for log output: when the
// identity falls back to the ssn, only its last four digits appear.
func (f *ClaimFacts) LogPersonKey() string {
	if f.CustomerID != "" {
		return f.CustomerID
	}
	if f.SSN == "" {
		return ""
	}
	return MaskSSN(f.SSN)
}

// ParseClaimType maps a free-form document or insurance type onto the
// canonical enum. Matching is by token, so both "motor" and
// "motor_insurance_claim_form" resolve to ClaimTypeMotor.
func ParseClaimType(s string) ClaimType {
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "health"), strings.Contains(lower, "medical"):
		return ClaimTypeHealth
	case strings.Contains(lower, "motor"), strings.Contains(lower, "auto"), strings.Contains(lower, "vehicle"):
		return ClaimTypeMotor
	case strings.Contains(lower, "mobile"), strings.Contains(lower, "device"), strings.Contains(lower, "phone"):
		return ClaimTypeMobile
	case strings.Contains(lower, "property"), strings.Contains(lower, "home"):
		return ClaimTypeProperty
	case strings.Contains(lower, "life"):
		return ClaimTypeLife
	case strings.Contains(lower, "travel"), strings.Contains(lower, "trip"):
		return ClaimTypeTravel
	default:
		return ClaimTypeGeneric
	}
}
