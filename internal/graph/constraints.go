package graph

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// EnsureConstraints creates the uniqueness constraint behind every
// identity property, plus a lookup index on Person.ssn (ssn is shared
// data, not identity, so it must not be unique). IF NOT EXISTS makes the
// bootstrap safe to run on every startup.
func EnsureConstraints(ctx context.Context, db Writer) error {
	for _, label := range orderedLabels {
		property := identityProperties[label]
		name := fmt.Sprintf("%s_%s_unique", strings.ToLower(label), strings.ToLower(property))
		stmt := fmt.Sprintf(
			"CREATE CONSTRAINT %s IF NOT EXISTS FOR (n:%s) REQUIRE n.%s IS UNIQUE",
			name, label, property,
		)
		if _, err := db.ExecuteWriteQuery(ctx, stmt, nil); err != nil {
			return fmt.Errorf("creating constraint for %s.%s: %w", label, property, err)
		}
	}

	stmt := "CREATE INDEX person_ssn_index IF NOT EXISTS FOR (n:Person) ON (n.ssn)"
	if _, err := db.ExecuteWriteQuery(ctx, stmt, nil); err != nil {
		return fmt.Errorf("creating ssn index: %w", err)
	}

	slog.Info("graph constraints ensured", "labels", len(orderedLabels))
	return nil
}
