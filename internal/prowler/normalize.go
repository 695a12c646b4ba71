package prowler

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/pranavanil47/prowlerdash/internal/models"
)

// The upstream schema is not contractually fixed; field names have
// drifted across Prowler releases. Each logical attribute therefore maps
// to a priority-ordered list of candidate keys, tried in order. This is
// the single place those aliases live.
var (
	resourceIDKeys   = []string{"id", "uid", "resource_id", "resourceId", "arn"}
	resourceNameKeys = []string{"name", "resource_name", "resourceName", "display_name", "title"}
	resourceTypeKeys = []string{"type", "resource_type", "resourceType", "service", "category"}
	regionKeys       = []string{"region", "location", "zone"}
	statusKeys       = []string{"status", "compliance_status", "check_status", "result"}
	severityKeys     = []string{"severity", "risk", "level"}
	lastCheckedKeys  = []string{"last_checked_at", "lastCheckedAt", "updated_at", "inserted_at", "timestamp"}
)

// pickString returns the first candidate key present with a non-empty
// string value.
func pickString(item map[string]any, keys []string) string {
	for _, k := range keys {
		if v, ok := item[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// NormalizeStatus maps a free-form upstream status to the closed
// AssetStatus set by case-insensitive keyword fragments. Lossy and
// best-effort: anything unrecognized is "unknown". Failure fragments are
// checked first so "non_compliant" never matches "compliant".
func NormalizeStatus(raw string) models.AssetStatus {
	s := strings.ToLower(raw)
	switch {
	case s == "":
		return models.AssetUnknown
	case strings.Contains(s, "fail"), strings.Contains(s, "non"):
		return models.AssetNonCompliant
	case strings.Contains(s, "warn"), strings.Contains(s, "mute"):
		return models.AssetWarning
	case strings.Contains(s, "pass"), strings.Contains(s, "compliant"),
		strings.Contains(s, "ok"), strings.Contains(s, "success"):
		return models.AssetCompliant
	default:
		return models.AssetUnknown
	}
}

// NormalizeSeverity maps a free-form upstream severity to the closed
// Severity set, defaulting to "low".
func NormalizeSeverity(raw string) models.Severity {
	s := strings.ToLower(raw)
	switch {
	case strings.Contains(s, "crit"):
		return models.SeverityCritical
	case strings.Contains(s, "high"):
		return models.SeverityHigh
	case strings.Contains(s, "med"):
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}

// MapResource converts one upstream resource item into an Asset. The
// original item is kept verbatim in RawPayload.
func MapResource(item map[string]any) models.Asset {
	// JSON:API style responses nest the interesting fields one level
	// down; attributes take precedence because the envelope carries its
	// own "id" and "type" keys
	attrs, _ := item["attributes"].(map[string]any)
	pick := func(keys []string) string {
		if attrs != nil {
			if v := pickString(attrs, keys); v != "" {
				return v
			}
		}
		return pickString(item, keys)
	}

	asset := models.Asset{
		ResourceID:   pick(resourceIDKeys),
		ResourceName: pick(resourceNameKeys),
		ResourceType: pick(resourceTypeKeys),
		Region:       pick(regionKeys),
		Status:       NormalizeStatus(pick(statusKeys)),
		Severity:     NormalizeSeverity(pick(severityKeys)),
	}
	if asset.ResourceName == "" {
		asset.ResourceName = asset.ResourceID
	}
	if asset.ResourceType == "" {
		asset.ResourceType = "unknown"
	}

	if ts := pick(lastCheckedKeys); ts != "" {
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			asset.LastCheckedAt = &t
		}
	}

	if raw, err := json.Marshal(item); err == nil {
		asset.RawPayload = raw
	}

	return asset
}
