package workflow

import "testing"

func TestCatalogHasNineOrderedSteps(t *testing.T) {
	if TotalSteps() != 9 {
		t.Fatalf("expected 9 steps, got %d", TotalSteps())
	}

	steps := Steps()
	if len(steps) != 9 {
		t.Fatalf("expected 9 catalog entries, got %d", len(steps))
	}
	for i, entry := range steps {
		if entry.Number != i+1 {
			t.Errorf("entry %d has number %d, want %d", i, entry.Number, i+1)
		}
		if entry.Type == "" {
			t.Errorf("entry %d has empty type", i)
		}
		if entry.Name == "" {
			t.Errorf("entry %d has empty name", i)
		}
	}
}

func TestStepTypeFor(t *testing.T) {
	tests := []struct {
		number   int
		wantType StepType
		wantOK   bool
	}{
		{1, StepPODetails, true},
		{2, StepSalesDetails, true},
		{3, StepDocumentsUpload, true},
		{5, StepMaterialRequest, true},
		{9, StepDelivered, true},
		{0, "", false},
		{10, "", false},
		{-1, "", false},
	}

	for _, tt := range tests {
		got, ok := StepTypeFor(tt.number)
		if ok != tt.wantOK || got != tt.wantType {
			t.Errorf("StepTypeFor(%d) = (%q, %v), want (%q, %v)", tt.number, got, ok, tt.wantType, tt.wantOK)
		}
	}
}

func TestStepNameFor(t *testing.T) {
	tests := []struct {
		number   int
		wantName string
		wantOK   bool
	}{
		{1, "PO Details", true},
		{3, "Documents Upload & Verification", true},
		{7, "Quality Check & Verification", true},
		{8, "Shipment & Update", true},
		{9, "Delivered", true},
		{0, "", false},
		{10, "", false},
	}

	for _, tt := range tests {
		got, ok := StepNameFor(tt.number)
		if ok != tt.wantOK || got != tt.wantName {
			t.Errorf("StepNameFor(%d) = (%q, %v), want (%q, %v)", tt.number, got, ok, tt.wantName, tt.wantOK)
		}
	}
}

func TestStepNumberForRoundTrips(t *testing.T) {
	for _, entry := range Steps() {
		number, ok := StepNumberFor(entry.Type)
		if !ok {
			t.Fatalf("StepNumberFor(%q) not found", entry.Type)
		}
		if number != entry.Number {
			t.Errorf("StepNumberFor(%q) = %d, want %d", entry.Type, number, entry.Number)
		}
	}

	if _, ok := StepNumberFor("unknown_step"); ok {
		t.Error("StepNumberFor accepted an unknown step type")
	}
}

func TestStepsReturnsCopy(t *testing.T) {
	steps := Steps()
	steps[0].Name = "mutated"

	name, _ := StepNameFor(1)
	if name != "PO Details" {
		t.Errorf("mutating Steps() result leaked into the catalog: %q", name)
	}
}
