// Package normalize flattens heterogeneous claim payloads into canonical
// ClaimFacts. The upstream extraction stage produces nested records whose
// shape varies by claim type and wrapping; normalization probes an ordered
// rules table against the decoded tree instead of trusting any one layout.
package normalize

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMissingTransactionID is returned when no transaction_id can be located
// anywhere in the input. This is the only fatal normalization failure: the
// claim cannot be keyed without it.
var ErrMissingTransactionID = errors.New("transaction_id could not be located in claim payload")

// Normalize produces ClaimFacts from an arbitrarily nested claim record.
// The record may wrap the claim body under extraction.data or result. Every
// field except transaction_id is optional; absent fields stay empty and
// suppress only the detectors that depend on them.
func Normalize(payload map[string]any) (*ClaimFacts, error) {
	body := unwrap(payload)

	facts := &ClaimFacts{
		ClaimType: ClaimTypeGeneric,
		Extra:     map[string]string{},
	}

	for _, rule := range claimRules {
		raw, ok := probe(body, rule.paths)
		if !ok {
			continue
		}
		if err := assign(facts, rule.field, raw); err != nil {
			return nil, err
		}
	}

	if facts.TransactionID == "" {
		return nil, ErrMissingTransactionID
	}

	for _, rule := range extraRules[facts.ClaimType] {
		raw, ok := probe(body, rule.paths)
		if !ok {
			continue
		}
		if s := stringValue(raw); s != "" {
			facts.Extra[rule.field] = s
		}
	}

	return facts, nil
}

// unwrap peels the known envelope shapes produced by the extraction stage:
// {"extraction": {"data": {...}}}, {"result": {...}}, or the bare record.
func unwrap(payload map[string]any) map[string]any {
	if extraction, ok := payload["extraction"].(map[string]any); ok {
		if data, ok := extraction["data"].(map[string]any); ok {
			return data
		}
	}
	if result, ok := payload["result"].(map[string]any); ok {
		return result
	}
	return payload
}

// probe evaluates candidate paths in order and returns the first non-empty
// value found.
func probe(tree map[string]any, paths []path) (any, bool) {
	for _, p := range paths {
		if value, ok := lookup(tree, p); ok {
			return value, true
		}
	}
	return nil, false
}

// lookup walks one path through nested objects. A value counts as found
// only when it is non-nil and, for strings, non-empty.
func lookup(tree map[string]any, p path) (any, bool) {
	current := any(tree)
	for _, key := range p {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = obj[key]
		if !ok {
			return nil, false
		}
	}
	if current == nil {
		return nil, false
	}
	if s, ok := current.(string); ok && strings.TrimSpace(s) == "" {
		return nil, false
	}
	return current, true
}

// assign writes one resolved value onto the facts under its canonical
// field. Claim type and amount get dedicated parsing; everything else is a
// trimmed string.
func assign(facts *ClaimFacts, field string, raw any) error {
	switch field {
	case "claim_type":
		facts.ClaimType = ParseClaimType(stringValue(raw))
	case "claim_amount":
		amount, err := parseAmount(raw)
		if err != nil {
			// Unparseable amounts degrade to absent, matching the
			// absence-is-not-an-error contract.
			return nil
		}
		facts.ClaimAmount = &amount
	case "transaction_id":
		facts.TransactionID = stringValue(raw)
	case "customer_id":
		facts.CustomerID = stringValue(raw)
	case "customer_name":
		facts.CustomerName = stringValue(raw)
	case "policy_number":
		facts.PolicyNumber = stringValue(raw)
	case "ssn":
		facts.SSN = stringValue(raw)
	case "agent_id":
		facts.AgentID = stringValue(raw)
	case "vendor_id":
		facts.VendorID = stringValue(raw)
	case "claim_date":
		facts.ClaimDate = stringValue(raw)
	case "severity":
		facts.Severity = stringValue(raw)
	case "status":
		facts.Status = stringValue(raw)
	case "address_line1":
		facts.AddressLine1 = stringValue(raw)
	case "city":
		facts.City = stringValue(raw)
	case "state":
		facts.State = stringValue(raw)
	case "postal_code":
		facts.PostalCode = stringValue(raw)
	default:
		return fmt.Errorf("unknown canonical field %q", field)
	}
	return nil
}

// stringValue renders a scalar as a trimmed string. Numeric values keep a
// minimal representation so identifiers decoded as numbers survive.
func stringValue(raw any) string {
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// parseAmount accepts numeric amounts and currency-formatted strings such
// as "$12,500.00".
func parseAmount(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	case string:
		cleaned := strings.TrimSpace(v)
		cleaned = strings.TrimPrefix(cleaned, "$")
		cleaned = strings.ReplaceAll(cleaned, ",", "")
		if cleaned == "" {
			return 0, fmt.Errorf("empty amount")
		}
		amount, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, fmt.Errorf("unparseable amount %q: %w", v, err)
		}
		return amount, nil
	default:
		return 0, fmt.Errorf("unsupported amount type %T", raw)
	}
}
