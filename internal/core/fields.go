package core

// fields.go defines the closed set of field keys violations are reported
// against, and the spreadsheet columns the rule set reads and writes.
//
// A FieldKey is not a column name: several columns can report under one key
// (the five image slots all report under FieldImages, Capacity Qty and
// Capacity Unit both report under FieldCapacity).

// FieldKey identifies the field a violation is attributed to.
type FieldKey int

const (
	FieldSiteName FieldKey = iota
	FieldWorkZone
	FieldBuilding
	FieldFloor
	FieldRoom
	FieldAssetName
	FieldStatus
	FieldReasonNotTagged
	FieldAssetStatus
	FieldAssetRecordStatus
	FieldInServiceDate
	FieldCAAge
	FieldCACondition
	FieldAssetCondition
	FieldCAEnvironment
	FieldCapacity
	FieldImages
	FieldManufacturer
	FieldModel
	FieldSerial
	FieldJACSCode
	FieldID
	FieldOther

	fieldKeyCount
)

var fieldLabels = [fieldKeyCount]string{
	FieldSiteName:          "Site Name",
	FieldWorkZone:          "Work Zone",
	FieldBuilding:          "Building",
	FieldFloor:             "Floor",
	FieldRoom:              "Room",
	FieldAssetName:         "Asset Name",
	FieldStatus:            "Status",
	FieldReasonNotTagged:   "Reason Not Tagged",
	FieldAssetStatus:       "Asset Status",
	FieldAssetRecordStatus: "Asset Record Status",
	FieldInServiceDate:     "In-Service Date",
	FieldCAAge:             "CA-Age",
	FieldCACondition:       "CA-Condition",
	FieldAssetCondition:    "Asset Condition",
	FieldCAEnvironment:     "CA-Environment",
	FieldCapacity:          "Capacity",
	FieldImages:            "Images",
	FieldManufacturer:      "Manufacturer",
	FieldModel:             "Model",
	FieldSerial:            "Serial #",
	FieldJACSCode:          "JACS Code",
	FieldID:                "ID",
	FieldOther:             "Other",
}

// String returns the display label, e.g. "Asset Name".
func (f FieldKey) String() string {
	if f < 0 || f >= fieldKeyCount {
		return "Unknown"
	}
	return fieldLabels[f]
}

// CountKey returns the aggregate key used in reports: "<Field>-Error".
func (f FieldKey) CountKey() string {
	return f.String() + "-Error"
}

// AllFieldKeys returns every field key in declaration order.
func AllFieldKeys() []FieldKey {
	keys := make([]FieldKey, fieldKeyCount)
	for i := range keys {
		keys[i] = FieldKey(i)
	}
	return keys
}

// FieldKeyFromLabel resolves a display label or count key back to its FieldKey.
func FieldKeyFromLabel(label string) (FieldKey, bool) {
	for i, l := range fieldLabels {
		if l == label || l+"-Error" == label {
			return FieldKey(i), true
		}
	}
	return 0, false
}

// Column names as they appear in the asset spreadsheet header.
const (
	ColSiteName          = "Site Name"
	ColWorkZone          = "Work Zone"
	ColBuilding          = "Building"
	ColFloor             = "Floor"
	ColRoom              = "Room"
	ColAssetName         = "Asset Name"
	ColAssetDescription  = "Asset Description"
	ColAssetNumber       = "Asset #"
	ColStatus            = "Status"
	ColTagID             = "TagID"
	ColReasonNotTagged   = "Reason Not Tagged"
	ColAssetStatus       = "att_Asset Status"
	ColAssetRecordStatus = "att_Asset Record Status"
	ColInServiceDate     = "att_In-Service Date"
	ColCAAge             = "att_CA-Age"
	ColCACondition       = "att_CA-Condition"
	ColAssetCondition    = "att_Asset Condition"
	ColCAEnvironment     = "att_CA-Environment"
	ColCapacityQty       = "att_Capacity Qty"
	ColCapacityUnit      = "att_Capacity Unit"
	ColManufacturer      = "Manufacturer"
	ColModel             = "Model"
	ColSerial            = "Serial #"
	ColJACSCode          = "JACS Code"
	ColID                = "ID"
)

// ImageColumns are the five image slots, in sheet order.
var ImageColumns = []string{"Image", "Image 2", "Image 3", "Image 4", "Image 5"}

// Report-only columns appended to the validation report sheet.
const (
	ColRowNumber        = "Row #"
	ColHasErrors        = "Has Errors"
	ColValidationErrors = "Validation Errors"
)

// columnFields maps every column the rule set reads to the field key it
// reports under. Columns absent from this map report under FieldOther.
var columnFields = map[string]FieldKey{
	ColSiteName:          FieldSiteName,
	ColWorkZone:          FieldWorkZone,
	ColBuilding:          FieldBuilding,
	ColFloor:             FieldFloor,
	ColRoom:              FieldRoom,
	ColAssetName:         FieldAssetName,
	ColAssetDescription:  FieldAssetName,
	ColAssetNumber:       FieldAssetName,
	ColStatus:            FieldStatus,
	ColTagID:             FieldReasonNotTagged,
	ColReasonNotTagged:   FieldReasonNotTagged,
	ColAssetStatus:       FieldAssetStatus,
	ColAssetRecordStatus: FieldAssetRecordStatus,
	ColInServiceDate:     FieldInServiceDate,
	ColCAAge:             FieldCAAge,
	ColCACondition:       FieldCACondition,
	ColAssetCondition:    FieldAssetCondition,
	ColCAEnvironment:     FieldCAEnvironment,
	ColCapacityQty:       FieldCapacity,
	ColCapacityUnit:      FieldCapacity,
	ColManufacturer:      FieldManufacturer,
	ColModel:             FieldModel,
	ColSerial:            FieldSerial,
	ColJACSCode:          FieldJACSCode,
	ColID:                FieldID,
	"Image":              FieldImages,
	"Image 2":            FieldImages,
	"Image 3":            FieldImages,
	"Image 4":            FieldImages,
	"Image 5":            FieldImages,
}

// FieldForColumn returns the field key a column reports under.
func FieldForColumn(col string) FieldKey {
	if f, ok := columnFields[col]; ok {
		return f
	}
	return FieldOther
}
