package normalize

// Canonical names of type-specific fields referenced across packages.
const (
	FieldVIN             = "vin"
	FieldIMEI            = "imei"
	FieldPropertyAddress = "property_address"
)

// path addresses one candidate location in the nested input record.
type path []string

// fieldRule binds a canonical field to its candidate paths, probed in
// order; the first non-empty match wins. The canonical top-level name is
// always first so that re-normalizing an already-flat record is a no-op.
type fieldRule struct {
	field string
	paths []path
}

// claimRules resolves the shared portion of ClaimFacts. Section names
// follow the upstream extraction stage: policyholder_info and claim_summary
// are common to every claim type.
var claimRules = []fieldRule{
	{field: "transaction_id", paths: []path{
		{"transaction_id"},
		{"claim_summary", "transaction_id"},
	}},
	{field: "claim_type", paths: []path{
		{"claim_type"},
		{"doc_type"},
		{"insurance_type"},
		{"policyholder_info", "insurance_type"},
	}},
	{field: "customer_id", paths: []path{
		{"customer_id"},
		{"policyholder_info", "customer_id"},
	}},
	{field: "customer_name", paths: []path{
		{"customer_name"},
		{"policyholder_info", "customer_name"},
	}},
	{field: "policy_number", paths: []path{
		{"policy_number"},
		{"policyholder_info", "policy_number"},
	}},
	{field: "ssn", paths: []path{
		{"ssn"},
		{"policyholder_info", "ssn"},
	}},
	{field: "agent_id", paths: []path{
		{"agent_id"},
		{"claim_summary", "agent_id"},
		{"policyholder_info", "agent_id"},
	}},
	{field: "vendor_id", paths: []path{
		{"vendor_id"},
		{"claim_summary", "vendor_id"},
		{"policyholder_info", "vendor_id"},
	}},
	{field: "claim_amount", paths: []path{
		{"claim_amount"},
		{"amount"},
		{"claim_summary", "amount"},
	}},
	{field: "claim_date", paths: []path{
		{"claim_date"},
		{"report_date"},
		{"claim_summary", "reported_date"},
		{"incident_details", "date_of_loss"},
	}},
	{field: "severity", paths: []path{
		{"severity"},
		{"claim_summary", "severity"},
	}},
	{field: "status", paths: []path{
		{"status"},
		{"claim_summary", "status"},
	}},
	{field: "address_line1", paths: []path{
		{"address_line1"},
		{"policyholder_info", "address_line1"},
	}},
	{field: "city", paths: []path{
		{"city"},
		{"policyholder_info", "city"},
	}},
	{field: "state", paths: []path{
		{"state"},
		{"policyholder_info", "state"},
	}},
	{field: "postal_code", paths: []path{
		{"postal_code"},
		{"policyholder_info", "postal_code"},
	}},
}

// extraRules resolves the type-specific fields per claim type. Generic
// claims carry none.
var extraRules = map[ClaimType][]fieldRule{
	ClaimTypeHealth: {
		{field: "provider_name", paths: []path{{"provider_name"}, {"medical_details", "provider_name"}}},
		{field: "diagnosis_code", paths: []path{{"diagnosis_code"}, {"medical_details", "diagnosis_code"}}},
		{field: "procedure_code", paths: []path{{"procedure_code"}, {"medical_details", "procedure_code"}}},
		{field: "treatment_date", paths: []path{{"treatment_date"}, {"medical_details", "treatment_date"}}},
	},
	ClaimTypeMotor: {
		{field: FieldVIN, paths: []path{{"vin"}, {"vehicle_details", "vin"}}},
		{field: "license_plate", paths: []path{{"license_plate"}, {"vehicle_details", "license_plate"}}},
		{field: "make_model", paths: []path{{"make_model"}, {"vehicle_details", "make_model"}}},
		{field: "incident_city", paths: []path{{"incident_city"}, {"incident_details", "incident_city"}}},
		{field: "incident_state", paths: []path{{"incident_state"}, {"incident_details", "incident_state"}}},
		{field: "incident_hour", paths: []path{{"incident_hour"}, {"incident_details", "incident_hour"}}},
	},
	ClaimTypeMobile: {
		{field: FieldIMEI, paths: []path{{"imei"}, {"device_details", "imei"}}},
		{field: "device_model", paths: []path{{"device_model"}, {"device_details", "device_model"}}},
		{field: "loss_type", paths: []path{{"loss_type"}, {"device_details", "loss_type"}}},
	},
	ClaimTypeProperty: {
		{field: FieldPropertyAddress, paths: []path{{"property_address"}, {"property_details", "property_address"}}},
		{field: "property_type", paths: []path{{"property_type"}, {"property_details", "property_type"}}},
		{field: "damage_type", paths: []path{{"damage_type"}, {"property_details", "damage_type"}}},
	},
	ClaimTypeLife: {
		{field: "deceased_name", paths: []path{{"deceased_name"}, {"deceased_details", "deceased_name"}}},
		{field: "date_of_death", paths: []path{{"date_of_death"}, {"deceased_details", "date_of_death"}}},
		{field: "cause_of_death", paths: []path{{"cause_of_death"}, {"deceased_details", "cause_of_death"}}},
		{field: "primary_beneficiary", paths: []path{{"primary_beneficiary"}, {"beneficiary_details", "primary_beneficiary"}}},
		{field: "beneficiary_relationship", paths: []path{{"beneficiary_relationship"}, {"beneficiary_details", "relationship"}}},
		{field: "payout_method", paths: []path{{"payout_method"}, {"beneficiary_details", "payout_method"}}},
	},
	ClaimTypeTravel: {
		{field: "destination", paths: []path{{"destination"}, {"trip_details", "destination"}}},
		{field: "trip_start_date", paths: []path{{"trip_start_date"}, {"trip_details", "trip_start_date"}}},
		{field: "trip_end_date", paths: []path{{"trip_end_date"}, {"trip_details", "trip_end_date"}}},
		{field: "flight_ref", paths: []path{{"flight_ref"}, {"trip_details", "flight_ref"}}},
	},
}
