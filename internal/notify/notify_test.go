package notify

import "testing"

func TestRecorder_LastAndAll(t *testing.T) {
	r := NewRecorder()
	if _, ok := r.Last(); ok {
		t.Fatal("expected empty recorder")
	}

	r.Notify(Success("a", "first"))
	r.Notify(Failure("b", "second"))

	last, ok := r.Last()
	if !ok || last.Title != "b" || !last.Destructive() {
		t.Errorf("unexpected last notification %+v", last)
	}
	all := r.All()
	if len(all) != 2 || all[0].Variant != VariantDefault {
		t.Errorf("unexpected notifications %+v", all)
	}
}
