package core

// rules.go declares the fixed rule set.
//
// Every rule reads the original record only; corrections from one rule are
// never visible to another. Rules fall into two groups:
//
//  1. Detect-only: the correct value cannot be derived, a person must supply it.
//  2. Detect and fix: the field has a canonical derivation (Asset Name, Status,
//     Asset Record Status, CA-Age, and the casing rules for Manufacturer,
//     Model, Serial #, JACS Code and ID).

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// MinImages is the image count every asset needs.
const MinImages = 3

// MinPanelboardImages is the image count for panelboards and switchgear.
const MinPanelboardImages = 5

var (
	serviceDatePattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
	panelboardPattern  = regexp.MustCompile(`(?i)(panelboard|switchgear|switchboard)`)
)

// Env is the read-only context a rule evaluates against.
type Env struct {
	Vocab Vocabularies
	Now   time.Time
}

// RuleFunc evaluates one rule for one record.
type RuleFunc func(rec Record, env *Env) Outcome

// Rule is a named entry in the rule set.
type Rule struct {
	Name   string
	Field  FieldKey // field the rule reports under
	Writes string   // column the rule may correct, "" for detect-only rules
	Check  RuleFunc
}

// Rules returns the rule set in evaluation order.
func Rules() []Rule {
	return []Rule{
		{Name: "site-required", Field: FieldSiteName, Check: checkSiteRequired},
		{Name: "work-zone-in-name", Field: FieldWorkZone, Check: containedInName(ColWorkZone, FieldWorkZone, "Workzone mismatch")},
		{Name: "building-in-name", Field: FieldBuilding, Check: containedInName(ColBuilding, FieldBuilding, "Building mismatch")},
		{Name: "floor-in-name", Field: FieldFloor, Check: containedInName(ColFloor, FieldFloor, "Floor mismatch")},
		{Name: "room-in-name", Field: FieldRoom, Check: containedInName(ColRoom, FieldRoom, "Room mismatch")},
		{Name: "asset-name-composition", Field: FieldAssetName, Writes: ColAssetName, Check: checkAssetName},
		{Name: "status", Field: FieldStatus, Writes: ColStatus, Check: checkStatus},
		{Name: "tag-or-reason", Field: FieldReasonNotTagged, Check: checkTagOrReason},
		{Name: "reason-vocabulary", Field: FieldReasonNotTagged, Check: checkReasonVocabulary},
		{Name: "asset-status-vocabulary", Field: FieldAssetStatus, Check: inVocabulary(ColAssetStatus, FieldAssetStatus, "Invalid Asset Status", func(vs Vocabularies) Vocabulary { return vs.AssetStatus })},
		{Name: "asset-record-status", Field: FieldAssetRecordStatus, Writes: ColAssetRecordStatus, Check: checkAssetRecordStatus},
		{Name: "in-service-date-format", Field: FieldInServiceDate, Check: checkServiceDateFormat},
		{Name: "ca-age", Field: FieldCAAge, Writes: ColCAAge, Check: checkCAAge},
		{Name: "ca-condition-required", Field: FieldCACondition, Check: checkCAConditionRequired},
		{Name: "asset-condition-vocabulary", Field: FieldAssetCondition, Check: inVocabulary(ColAssetCondition, FieldAssetCondition, "Invalid Asset Condition", func(vs Vocabularies) Vocabulary { return vs.AssetCondition })},
		{Name: "ca-environment-vocabulary", Field: FieldCAEnvironment, Check: inVocabulary(ColCAEnvironment, FieldCAEnvironment, "Invalid CA-Environment", func(vs Vocabularies) Vocabulary { return vs.CAEnvironment })},
		{Name: "capacity-pairing", Field: FieldCapacity, Check: checkCapacityPairing},
		{Name: "capacity-unit-vocabulary", Field: FieldCapacity, Check: inVocabulary(ColCapacityUnit, FieldCapacity, "Invalid Capacity Unit", func(vs Vocabularies) Vocabulary { return vs.CapacityUnit })},
		{Name: "image-minimum", Field: FieldImages, Check: checkImageMinimum},
		{Name: "panelboard-images", Field: FieldImages, Check: checkPanelboardImages},
		{Name: "manufacturer-casing", Field: FieldManufacturer, Writes: ColManufacturer, Check: correctWith(ColManufacturer, CapitalizeFirst)},
		{Name: "model-upper", Field: FieldModel, Writes: ColModel, Check: correctWith(ColModel, strings.ToUpper)},
		{Name: "serial-upper", Field: FieldSerial, Writes: ColSerial, Check: correctWith(ColSerial, strings.ToUpper)},
		{Name: "jacs-upper", Field: FieldJACSCode, Writes: ColJACSCode, Check: correctWith(ColJACSCode, strings.ToUpper)},
		{Name: "id-upper", Field: FieldID, Writes: ColID, Check: correctWith(ColID, strings.ToUpper)},
	}
}

// OutputColumns returns the columns the rule set may write, in rule order.
func OutputColumns() []string {
	var cols []string
	for _, r := range Rules() {
		if r.Writes != "" {
			cols = append(cols, r.Writes)
		}
	}
	return cols
}

func checkSiteRequired(rec Record, _ *Env) Outcome {
	if rec.Blank(ColSiteName) {
		return Flagged(FieldSiteName, "Site Name blank")
	}
	return NoIssue()
}

// containedInName flags col when it is set but missing from a non-blank Asset Name.
func containedInName(col string, field FieldKey, msg string) RuleFunc {
	return func(rec Record, _ *Env) Outcome {
		val, name := rec.Get(col), rec.Get(ColAssetName)
		if val == "" || name == "" {
			return NoIssue()
		}
		if !strings.Contains(name, val) {
			return Flagged(field, msg)
		}
		return NoIssue()
	}
}

func checkAssetName(rec Record, _ *Env) Outcome {
	expected := ComposeAssetName(rec)
	name := rec.Get(ColAssetName)
	if name == "" || strings.TrimSpace(name) != expected {
		return FlaggedCorrected(FieldAssetName, "Asset Name mismatch", ColAssetName, expected)
	}
	return NoIssue()
}

func checkStatus(rec Record, _ *Env) Outcome {
	raw := rec.Get(ColStatus)
	if raw == "" {
		return NoIssue()
	}
	switch val := strings.ToLower(strings.TrimSpace(raw)); val {
	case "online", "offline":
		return Corrected(ColStatus, CapitalizeFirst(val))
	default:
		return Flagged(FieldStatus, "Invalid Status")
	}
}

func checkTagOrReason(rec Record, _ *Env) Outcome {
	if rec.Blank(ColTagID) && rec.Blank(ColReasonNotTagged) {
		return Flagged(FieldReasonNotTagged, "TagID blank + Reason Not Tagged blank")
	}
	return NoIssue()
}

func checkReasonVocabulary(rec Record, env *Env) Outcome {
	reason := rec.Get(ColReasonNotTagged)
	if reason != "" && !env.Vocab.ReasonNotTagged.Contains(reason) {
		return Flagged(FieldReasonNotTagged, fmt.Sprintf("Invalid Reason Not Tagged: '%s'", reason))
	}
	return NoIssue()
}

// inVocabulary flags col when it is set and not a member of the selected vocabulary.
func inVocabulary(col string, field FieldKey, msg string, pick func(Vocabularies) Vocabulary) RuleFunc {
	return func(rec Record, env *Env) Outcome {
		val := rec.Get(col)
		if val != "" && !pick(env.Vocab).Contains(val) {
			return Flagged(field, msg)
		}
		return NoIssue()
	}
}

func checkAssetRecordStatus(rec Record, env *Env) Outcome {
	val := rec.Get(ColAssetRecordStatus)
	if val == "" {
		return NoIssue()
	}
	if canonical, ok := env.Vocab.AssetRecordStatus.Canonical(val); ok {
		return Corrected(ColAssetRecordStatus, canonical)
	}
	return Flagged(FieldAssetRecordStatus, "Invalid Asset Record Status")
}

func checkServiceDateFormat(rec Record, _ *Env) Outcome {
	val := rec.Get(ColInServiceDate)
	if val != "" && !serviceDatePattern.MatchString(val) {
		return Flagged(FieldInServiceDate, "Invalid In-Service Date")
	}
	return NoIssue()
}

func checkCAAge(rec Record, env *Env) Outcome {
	date := rec.Get(ColInServiceDate)
	if date == "" {
		return NoIssue()
	}
	computed := ClassifyAge(date, env.Now)
	age := rec.Get(ColCAAge)
	if age == "" || age != computed {
		return FlaggedCorrected(FieldCAAge, "CA-Age blank or mismatch", ColCAAge, computed)
	}
	return NoIssue()
}

func checkCAConditionRequired(rec Record, _ *Env) Outcome {
	if rec.Blank(ColCACondition) {
		return Flagged(FieldCACondition, "CA-Condition blank")
	}
	return NoIssue()
}

func checkCapacityPairing(rec Record, _ *Env) Outcome {
	if !rec.Blank(ColCapacityQty) && rec.Blank(ColCapacityUnit) {
		return Flagged(FieldCapacity, "Capacity Qty present but Unit blank")
	}
	return NoIssue()
}

// ImageCount returns how many image slots are filled.
func ImageCount(rec Record) int {
	n := 0
	for _, col := range ImageColumns {
		if !rec.Blank(col) {
			n++
		}
	}
	return n
}

func checkImageMinimum(rec Record, _ *Env) Outcome {
	if n := ImageCount(rec); n < MinImages {
		return Flagged(FieldImages, fmt.Sprintf("Only %d images provided (min %d)", n, MinImages))
	}
	return NoIssue()
}

func checkPanelboardImages(rec Record, _ *Env) Outcome {
	desc := rec.Get(ColAssetDescription)
	if desc == "" || !panelboardPattern.MatchString(desc) {
		return NoIssue()
	}
	if ImageCount(rec) < MinPanelboardImages {
		return Flagged(FieldImages, "Insufficient images for Panelboard/Switchgear")
	}
	return NoIssue()
}

// correctWith rewrites col through fn whenever it is set. It never flags.
func correctWith(col string, fn func(string) string) RuleFunc {
	return func(rec Record, _ *Env) Outcome {
		val := rec.Get(col)
		if val == "" {
			return NoIssue()
		}
		return Corrected(col, fn(val))
	}
}
