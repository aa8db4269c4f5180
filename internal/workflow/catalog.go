package workflow

// StepType identifies one of the nine fixed fulfillment stages.
type StepType string

const (
	StepPODetails       StepType = "po_details"
	StepSalesDetails    StepType = "sales_details"
	StepDocumentsUpload StepType = "documents_upload"
	StepDesignsUpload   StepType = "designs_upload"
	StepMaterialRequest StepType = "material_request"
	StepProductionPlan  StepType = "production_plan"
	StepQualityCheck    StepType = "quality_check"
	StepShipment        StepType = "shipment"
	StepDelivered       StepType = "delivered"
)

// CatalogEntry describes one stage of the fulfillment sequence.
type CatalogEntry struct {
	Number int
	Type   StepType
	Name   string
}

// catalog is the closed, ordered stage list. Step numbers are 1-based and
// correspond 1:1 with step types; the sequence is not configurable.
var catalog = [...]CatalogEntry{
	{1, StepPODetails, "PO Details"},
	{2, StepSalesDetails, "Sales Details"},
	{3, StepDocumentsUpload, "Documents Upload & Verification"},
	{4, StepDesignsUpload, "Designs Upload & Verification"},
	{5, StepMaterialRequest, "Material Request & Verification"},
	{6, StepProductionPlan, "Production Plan & Verification"},
	{7, StepQualityCheck, "Quality Check & Verification"},
	{8, StepShipment, "Shipment & Update"},
	{9, StepDelivered, "Delivered"},
}

// TotalSteps returns the number of stages in the sequence.
func TotalSteps() int {
	return len(catalog)
}

// Steps returns a copy of the full ordered catalog.
func Steps() []CatalogEntry {
	out := make([]CatalogEntry, len(catalog))
	copy(out, catalog[:])
	return out
}

// StepTypeFor returns the step type for a 1-based step number.
func StepTypeFor(stepNumber int) (StepType, bool) {
	if stepNumber < 1 || stepNumber > len(catalog) {
		return "", false
	}
	return catalog[stepNumber-1].Type, true
}

// StepNameFor returns the display name for a 1-based step number.
func StepNameFor(stepNumber int) (string, bool) {
	if stepNumber < 1 || stepNumber > len(catalog) {
		return "", false
	}
	return catalog[stepNumber-1].Name, true
}

// StepNumberFor returns the 1-based step number for a step type.
func StepNumberFor(stepType StepType) (int, bool) {
	for _, entry := range catalog {
		if entry.Type == stepType {
			return entry.Number, true
		}
	}
	return 0, false
}
