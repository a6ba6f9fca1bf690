package enums

import "testing"

func TestNormalizeOrderStatusFoldsCancelledSpellings(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"cancle", "cancel", "canceled", "cancelled", " CANCELLED "} {
		got, err := NormalizeOrderStatus(raw)
		if err != nil {
			t.Fatalf("NormalizeOrderStatus(%q) returned error: %v", raw, err)
		}
		if got != OrderStatusCancelled {
			t.Fatalf("NormalizeOrderStatus(%q) = %q, want %q", raw, got, OrderStatusCancelled)
		}
	}
}

func TestNormalizeOrderStatusPassesCanonicalValues(t *testing.T) {
	t.Parallel()

	for _, status := range validOrderStatuses {
		got, err := NormalizeOrderStatus(string(status))
		if err != nil {
			t.Fatalf("NormalizeOrderStatus(%q) returned error: %v", status, err)
		}
		if got != status {
			t.Fatalf("NormalizeOrderStatus(%q) = %q", status, got)
		}
	}
}

func TestNormalizeOrderStatusRejectsUnknown(t *testing.T) {
	t.Parallel()

	if _, err := NormalizeOrderStatus("parked"); err == nil {
		t.Fatal("expected unknown status to be rejected")
	}
}

func TestPrintActionHelpers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		action  PrintAction
		receipt bool
		kot     bool
	}{
		{PrintActionPrintAndSave, true, false},
		{PrintActionKOT, false, true},
		{PrintActionKOTAndSave, true, true},
		{PrintActionSettle, true, false},
	}
	for _, tt := range tests {
		if got := tt.action.NeedsReceipt(); got != tt.receipt {
			t.Fatalf("%s NeedsReceipt = %v, want %v", tt.action, got, tt.receipt)
		}
		if got := tt.action.NeedsKOT(); got != tt.kot {
			t.Fatalf("%s NeedsKOT = %v, want %v", tt.action, got, tt.kot)
		}
	}
}
