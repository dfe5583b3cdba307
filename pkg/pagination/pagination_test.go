package pagination

import "testing"

func TestNormalize(t *testing.T) {
	p := Params{Page: 0, Limit: 0}.Normalize()
	if p.Page != 1 || p.Limit != DefaultLimit {
		t.Fatalf("unexpected defaults: %+v", p)
	}

	p = Params{Page: 3, Limit: 500}.Normalize()
	if p.Limit != MaxLimit {
		t.Fatalf("expected limit capped at %d, got %d", MaxLimit, p.Limit)
	}
	if p.Page != 3 {
		t.Fatalf("expected page preserved, got %d", p.Page)
	}
}

func TestOffset(t *testing.T) {
	if got := (Params{Page: 1, Limit: 25}).Offset(); got != 0 {
		t.Fatalf("expected offset 0, got %d", got)
	}
	if got := (Params{Page: 4, Limit: 10}).Offset(); got != 30 {
		t.Fatalf("expected offset 30, got %d", got)
	}
}

func TestBuildMeta(t *testing.T) {
	meta := BuildMeta(Params{Page: 2, Limit: 10}, 45)
	if meta.TotalPages != 5 {
		t.Fatalf("expected 5 pages, got %d", meta.TotalPages)
	}
	if meta.Total != 45 {
		t.Fatalf("expected total 45, got %d", meta.Total)
	}

	empty := BuildMeta(Params{}, 0)
	if empty.TotalPages != 1 {
		t.Fatalf("expected 1 page for empty result, got %d", empty.TotalPages)
	}
}
