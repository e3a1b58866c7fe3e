package intake

import (
	"fmt"
	"net/url"
)

// Attribution carries the campaign parameters found on the page the form was
// mounted on. A nil field was absent from the query string and stays out of the JSON.
type Attribution struct {
	UTMSource   *string `json:"utmSource,omitempty"`
	UTMMedium   *string `json:"utmMedium,omitempty"`
	UTMCampaign *string `json:"utmCampaign,omitempty"`
	UTMTerm     *string `json:"utmTerm,omitempty"`
	UTMContent  *string `json:"utmContent,omitempty"`
}

// AttributionKeys maps query-string names to payload field names.
var AttributionKeys = map[string]string{
	"utm_source":   "utmSource",
	"utm_medium":   "utmMedium",
	"utm_campaign": "utmCampaign",
	"utm_term":     "utmTerm",
	"utm_content":  "utmContent",
}

// CaptureAttribution picks the recognized utm_* parameters out of query.
// Empty values are treated as absent.
func CaptureAttribution(query url.Values) Attribution {
	var a Attribution
	fields := a.fields()
	for wire, field := range AttributionKeys {
		if value := query.Get(wire); value != "" {
			v := value
			*fields[field] = &v
		}
	}
	return a
}

func (a *Attribution) fields() map[string]**string {
	return map[string]**string{
		"utmSource":   &a.UTMSource,
		"utmMedium":   &a.UTMMedium,
		"utmCampaign": &a.UTMCampaign,
		"utmTerm":     &a.UTMTerm,
		"utmContent":  &a.UTMContent,
	}
}

func AttributionFromURL(rawURL string) (Attribution, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Attribution{}, fmt.Errorf("parse page url: %w", err)
	}
	return CaptureAttribution(u.Query()), nil
}

// IsEmpty reports whether no attribution parameter was captured.
func (a Attribution) IsEmpty() bool {
	return a.UTMSource == nil && a.UTMMedium == nil && a.UTMCampaign == nil &&
		a.UTMTerm == nil && a.UTMContent == nil
}

// Value dereferences an optional attribution field.
func Value(field *string) string {
	if field == nil {
		return ""
	}
	return *field
}
