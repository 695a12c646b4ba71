package prowler

import (
	"testing"
	"time"

	"github.com/pranavanil47/prowlerdash/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want models.AssetStatus
	}{
		{"PASS", models.AssetCompliant},
		{"compliant", models.AssetCompliant},
		{"Ok", models.AssetCompliant},
		{"success", models.AssetCompliant},
		{"FAIL", models.AssetNonCompliant},
		{"non_compliant", models.AssetNonCompliant},
		{"NON-COMPLIANT", models.AssetNonCompliant},
		{"warning", models.AssetWarning},
		{"MUTED", models.AssetWarning},
		{"", models.AssetUnknown},
		{"something-else", models.AssetUnknown},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, NormalizeStatus(tc.raw), "raw=%q", tc.raw)
	}
}

func TestNormalizeSeverity(t *testing.T) {
	tests := []struct {
		raw  string
		want models.Severity
	}{
		{"CRITICAL", models.SeverityCritical},
		{"crit", models.SeverityCritical},
		{"High", models.SeverityHigh},
		{"medium", models.SeverityMedium},
		{"med", models.SeverityMedium},
		{"low", models.SeverityLow},
		{"informational", models.SeverityLow},
		{"", models.SeverityLow},
		{"bogus", models.SeverityLow},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, NormalizeSeverity(tc.raw), "raw=%q", tc.raw)
	}
}

func TestMapResourceFieldAliases(t *testing.T) {
	// current field names
	a := MapResource(map[string]any{
		"id":              "i-123",
		"name":            "web-server",
		"type":            "compute",
		"region":          "us-east-1",
		"status":          "PASS",
		"severity":        "critical",
		"last_checked_at": "2026-08-01T12:00:00Z",
	})
	assert.Equal(t, "i-123", a.ResourceID)
	assert.Equal(t, "web-server", a.ResourceName)
	assert.Equal(t, "compute", a.ResourceType)
	assert.Equal(t, "us-east-1", a.Region)
	assert.Equal(t, models.AssetCompliant, a.Status)
	assert.Equal(t, models.SeverityCritical, a.Severity)
	require.NotNil(t, a.LastCheckedAt)
	assert.Equal(t, time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC), a.LastCheckedAt.UTC())
	assert.NotEmpty(t, a.RawPayload)

	// historical field names
	b := MapResource(map[string]any{
		"resource_id":       "arn:aws:s3:::logs",
		"resource_name":     "logs",
		"resource_type":     "storage",
		"location":          "eu-west-1",
		"compliance_status": "fail",
		"risk":              "High",
	})
	assert.Equal(t, "arn:aws:s3:::logs", b.ResourceID)
	assert.Equal(t, "storage", b.ResourceType)
	assert.Equal(t, "eu-west-1", b.Region)
	assert.Equal(t, models.AssetNonCompliant, b.Status)
	assert.Equal(t, models.SeverityHigh, b.Severity)
	assert.Nil(t, b.LastCheckedAt)
}

func TestMapResourceJSONAPIShape(t *testing.T) {
	a := MapResource(map[string]any{
		"id":   "res-1",
		"type": "resources",
		"attributes": map[string]any{
			"name":     "db-primary",
			"service":  "database",
			"region":   "us-west-2",
			"status":   "muted",
			"severity": "medium",
		},
	})
	assert.Equal(t, "res-1", a.ResourceID)
	assert.Equal(t, "db-primary", a.ResourceName)
	// the attributes service name wins over the JSON:API envelope type
	assert.Equal(t, "database", a.ResourceType)
	assert.Equal(t, models.AssetWarning, a.Status)
	assert.Equal(t, models.SeverityMedium, a.Severity)
}

func TestMapResourceDefaults(t *testing.T) {
	a := MapResource(map[string]any{"uid": "only-id"})
	// name falls back to the id, type to "unknown"
	assert.Equal(t, "only-id", a.ResourceID)
	assert.Equal(t, "only-id", a.ResourceName)
	assert.Equal(t, "unknown", a.ResourceType)
	assert.Equal(t, models.AssetUnknown, a.Status)
	assert.Equal(t, models.SeverityLow, a.Severity)
}
