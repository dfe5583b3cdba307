package enums

import "testing"

func TestCanTransitionAllowedPaths(t *testing.T) {
	allowed := []struct{ from, to EventStatus }{
		{EventStatusSinConfirmar, EventStatusReservado},
		{EventStatusSinConfirmar, EventStatusCancelado},
		{EventStatusReservado, EventStatusDespachado},
		{EventStatusReservado, EventStatusCancelado},
		{EventStatusDespachado, EventStatusCompletado},
	}
	for _, tt := range allowed {
		if !CanTransition(tt.from, tt.to) {
			t.Fatalf("expected %s -> %s to be allowed", tt.from, tt.to)
		}
	}
}

func TestCanTransitionRejectsSkipsAndReversals(t *testing.T) {
	denied := []struct{ from, to EventStatus }{
		{EventStatusSinConfirmar, EventStatusDespachado},
		{EventStatusSinConfirmar, EventStatusCompletado},
		{EventStatusReservado, EventStatusCompletado},
		{EventStatusDespachado, EventStatusCancelado},
		{EventStatusDespachado, EventStatusReservado},
		{EventStatusCompletado, EventStatusDespachado},
		{EventStatusCancelado, EventStatusSinConfirmar},
	}
	for _, tt := range denied {
		if CanTransition(tt.from, tt.to) {
			t.Fatalf("expected %s -> %s to be rejected", tt.from, tt.to)
		}
	}
}

func TestCanTransitionNeverReflexive(t *testing.T) {
	for _, status := range validEventStatuses {
		if CanTransition(status, status) {
			t.Fatalf("status %s must not transition to itself", status)
		}
	}
}

func TestTerminalStatesHaveNoSuccessors(t *testing.T) {
	for _, status := range []EventStatus{EventStatusCompletado, EventStatusCancelado} {
		if next := NextStatuses(status); len(next) != 0 {
			t.Fatalf("expected %s to be terminal, got successors %v", status, next)
		}
		if !status.IsTerminal() {
			t.Fatalf("expected %s to report terminal", status)
		}
	}
}

func TestHoldsInventory(t *testing.T) {
	holding := map[EventStatus]bool{
		EventStatusSinConfirmar: true,
		EventStatusReservado:    true,
		EventStatusDespachado:   true,
		EventStatusCompletado:   false,
		EventStatusCancelado:    false,
	}
	for status, want := range holding {
		if got := status.HoldsInventory(); got != want {
			t.Fatalf("HoldsInventory(%s) = %v, want %v", status, got, want)
		}
	}
	if len(HoldingStatuses()) != 3 {
		t.Fatalf("unexpected holding set %v", HoldingStatuses())
	}
}

func TestItemsEditable(t *testing.T) {
	editable := map[EventStatus]bool{
		EventStatusSinConfirmar: true,
		EventStatusReservado:    true,
		EventStatusDespachado:   false,
		EventStatusCompletado:   false,
		EventStatusCancelado:    false,
	}
	for status, want := range editable {
		if got := status.ItemsEditable(); got != want {
			t.Fatalf("ItemsEditable(%s) = %v, want %v", status, got, want)
		}
	}
}

func TestParseEventStatus(t *testing.T) {
	status, err := ParseEventStatus("RESERVADO")
	if err != nil || status != EventStatusReservado {
		t.Fatalf("unexpected parse result %v %v", status, err)
	}
	if _, err := ParseEventStatus("BOOKED"); err == nil {
		t.Fatal("legacy vocabulary must not parse")
	}
}

func TestEventStatusLabels(t *testing.T) {
	if EventStatusSinConfirmar.Label() != "Sin Confirmar" {
		t.Fatalf("unexpected label %q", EventStatusSinConfirmar.Label())
	}
	for _, status := range validEventStatuses {
		if status.Label() == "" || status.Description() == "" {
			t.Fatalf("status %s missing label or description", status)
		}
	}
}
