package intake

import "strings"

var USStates = []string{
	"Alabama", "Alaska", "Arizona", "Arkansas", "California", "Colorado", "Connecticut", "Delaware",
	"Florida", "Georgia", "Hawaii", "Idaho", "Illinois", "Indiana", "Iowa", "Kansas", "Kentucky",
	"Louisiana", "Maine", "Maryland", "Massachusetts", "Michigan", "Minnesota", "Mississippi",
	"Missouri", "Montana", "Nebraska", "Nevada", "New Hampshire", "New Jersey", "New Mexico",
	"New York", "North Carolina", "North Dakota", "Ohio", "Oklahoma", "Oregon", "Pennsylvania",
	"Rhode Island", "South Carolina", "South Dakota", "Tennessee", "Texas", "Utah", "Vermont",
	"Virginia", "Washington", "West Virginia", "Wisconsin", "Wyoming",
}

const (
	DealFixAndFlip       = "Fix & Flip"
	DealDSCRRental       = "DSCR Rental"
	DealNewConstruction  = "New Construction"
	DealCommercialBridge = "Commercial Bridge"
	DealOther            = "Other"
)

var DealTypes = []string{
	DealFixAndFlip,
	DealDSCRRental,
	DealNewConstruction,
	DealCommercialBridge,
	DealOther,
}

// Timeline values use an en dash, exactly as the form offers them.
var Timelines = []string{
	"ASAP",
	"7–14 days",
	"15–30 days",
	"30+ days",
}

var (
	usStateSet  = toSet(USStates)
	dealTypeSet = toSet(DealTypes)
	timelineSet = toSet(Timelines)
)

// Referral form deal-type codes, plus the underscore spellings older rows carry.
var dealTypeLabels = map[string]string{
	"fix-flip":          DealFixAndFlip,
	"fix_flip":          DealFixAndFlip,
	"dscr":              "DSCR",
	"dscr_rental":       DealDSCRRental,
	"new-construction":  DealNewConstruction,
	"new_construction":  DealNewConstruction,
	"commercial":        "Commercial",
	"commercial_bridge": DealCommercialBridge,
	"other":             DealOther,
}

// DealTypeLabel turns a stored deal-type code into the label shown to people.
// Unknown codes are returned unchanged; an empty code reads "Not specified".
func DealTypeLabel(code string) string {
	if code == "" {
		return "Not specified"
	}
	if label, ok := dealTypeLabels[strings.ToLower(code)]; ok {
		return label
	}
	return code
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
