package ecs

import "testing"

func TestComponentBitSet(t *testing.T) {
	var b ComponentBitSet
	if !b.IsEmpty() {
		t.Fatal("expected empty bitset")
	}

	b.Set(0)
	b.Set(5)
	b.Set(MaxComponents - 1)

	for _, id := range []ComponentTypeID{0, 5, MaxComponents - 1} {
		if !b.Test(id) {
			t.Errorf("expected bit %d to be set", id)
		}
	}
	if b.Test(1) {
		t.Error("expected bit 1 to be clear")
	}
	if b.Test(MaxComponents) {
		t.Error("ids beyond capacity must never test as set")
	}
	if b.Count() != 3 {
		t.Errorf("expected 3 bits, got %d", b.Count())
	}

	ids := b.IDs()
	if len(ids) != 3 || ids[0] != 0 || ids[1] != 5 || ids[2] != MaxComponents-1 {
		t.Errorf("unexpected ids %v", ids)
	}

	var sub ComponentBitSet
	sub.Set(5)
	if !b.Contains(sub) {
		t.Error("expected superset to contain subset")
	}
	sub.Set(2)
	if b.Contains(sub) {
		t.Error("bitset must not contain a bit it lacks")
	}

	b.Clear(5)
	if b.Test(5) {
		t.Error("expected bit 5 to be cleared")
	}

	b.Reset()
	if !b.IsEmpty() {
		t.Error("expected empty bitset after reset")
	}
}
