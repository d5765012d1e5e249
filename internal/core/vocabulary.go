package core

import "strings"

// Vocabulary is a fixed set of legal values matched case-insensitively.
// Members keep their canonical casing for substitution into corrected rows.
type Vocabulary struct {
	members []string
	index   map[string]string // lowercased -> canonical
}

// NewVocabulary builds a vocabulary from its canonical members.
// Later duplicates (ignoring case) are dropped.
func NewVocabulary(members ...string) Vocabulary {
	v := Vocabulary{
		members: make([]string, 0, len(members)),
		index:   make(map[string]string, len(members)),
	}
	for _, m := range members {
		key := strings.ToLower(m)
		if _, dup := v.index[key]; dup {
			continue
		}
		v.index[key] = m
		v.members = append(v.members, m)
	}
	return v
}

// Contains reports whether value is a member, ignoring case.
func (v Vocabulary) Contains(value string) bool {
	_, ok := v.index[strings.ToLower(value)]
	return ok
}

// Canonical returns the member matching value with its canonical casing.
func (v Vocabulary) Canonical(value string) (string, bool) {
	c, ok := v.index[strings.ToLower(value)]
	return c, ok
}

// Members returns a copy of the canonical members in declaration order.
func (v Vocabulary) Members() []string {
	return append([]string(nil), v.members...)
}

// Len returns the number of members.
func (v Vocabulary) Len() int {
	return len(v.members)
}

// Vocabularies is the set of controlled vocabularies a rule set consults.
type Vocabularies struct {
	ReasonNotTagged   Vocabulary
	AssetStatus       Vocabulary
	AssetRecordStatus Vocabulary
	AssetCondition    Vocabulary
	CAEnvironment     Vocabulary
	CapacityUnit      Vocabulary
}

// Vocabulary names used by profile files.
const (
	VocabReasonNotTagged   = "reason_not_tagged"
	VocabAssetStatus       = "asset_status"
	VocabAssetRecordStatus = "asset_record_status"
	VocabAssetCondition    = "asset_condition"
	VocabCAEnvironment     = "ca_environment"
	VocabCapacityUnit      = "capacity_unit"
)

// VocabularyNames lists the names accepted by Set, in display order.
var VocabularyNames = []string{
	VocabReasonNotTagged,
	VocabAssetStatus,
	VocabAssetRecordStatus,
	VocabAssetCondition,
	VocabCAEnvironment,
	VocabCapacityUnit,
}

// Set replaces the vocabulary called name. Returns false for an unknown name.
func (vs *Vocabularies) Set(name string, v Vocabulary) bool {
	switch name {
	case VocabReasonNotTagged:
		vs.ReasonNotTagged = v
	case VocabAssetStatus:
		vs.AssetStatus = v
	case VocabAssetRecordStatus:
		vs.AssetRecordStatus = v
	case VocabAssetCondition:
		vs.AssetCondition = v
	case VocabCAEnvironment:
		vs.CAEnvironment = v
	case VocabCapacityUnit:
		vs.CapacityUnit = v
	default:
		return false
	}
	return true
}

// Lookup returns the vocabulary called name.
func (vs Vocabularies) Lookup(name string) (Vocabulary, bool) {
	switch name {
	case VocabReasonNotTagged:
		return vs.ReasonNotTagged, true
	case VocabAssetStatus:
		return vs.AssetStatus, true
	case VocabAssetRecordStatus:
		return vs.AssetRecordStatus, true
	case VocabAssetCondition:
		return vs.AssetCondition, true
	case VocabCAEnvironment:
		return vs.CAEnvironment, true
	case VocabCapacityUnit:
		return vs.CapacityUnit, true
	}
	return Vocabulary{}, false
}

// DefaultVocabularies returns the standard controlled vocabularies.
func DefaultVocabularies() Vocabularies {
	return Vocabularies{
		ReasonNotTagged: NewVocabulary(
			"Remove Tag - Out of Scope",
			"Remove Tag - Asset (no tag)",
			"Non-Tagged Asset",
			"Not Found, Out of Scope",
			"PM Task, System Level",
			"Tag on PM (put reason in comments)",
		),
		AssetStatus: NewVocabulary(
			"In-Service",
			"Out-Of-Service",
			"Stand-By",
			"Emergency Use Only",
			"Abandoned In Place",
			"Seasonally In-Service",
			"Back-Up",
			"Removed from Facility",
			"Critical Spare",
			"Surplus",
		),
		AssetRecordStatus: NewVocabulary("Active", "In-Active"),
		AssetCondition: NewVocabulary(
			"5 – Excellent",
			"4 – Good",
			"3 – Average",
			"2 – Poor",
			"1 – Crisis",
		),
		CAEnvironment: NewVocabulary(
			"Clean, temperate, dry",
			"Wide variation in temp/humidity/dust",
			"Extremes of temperature",
			"Liable to extreme dust or flooding",
		),
		CapacityUnit: NewVocabulary(
			"AMP", "BTU", "CFM", "GAL", "GPM", "HP", "kVA", "KW", "Ln.Ft.",
			"MBH", "MW", "N/A", "Other (List in Comments)", "PSI", "SCFM",
			"Sq.Ft.", "TON", "V",
		),
	}
}
