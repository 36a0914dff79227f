package reactive

import "testing"

func TestSignal(t *testing.T) {
	count := New(0)
	if count.Get() != 0 {
		t.Errorf("Expected 0, got %d", count.Get())
	}

	count.Set(1)
	if count.Get() != 1 {
		t.Errorf("Expected 1, got %d", count.Get())
	}
}

func TestSignalEqualitySuppressesUpdate(t *testing.T) {
	count := New(5)
	rev := count.Revision()
	count.Set(5)
	if count.Revision() != rev {
		t.Errorf("expected revision unchanged on equal Set, got %d -> %d", rev, count.Revision())
	}
}

func TestEffect(t *testing.T) {
	count := New(0)
	runCount := 0

	CreateEffect(func() {
		_ = count.Get()
		runCount++
	})

	if runCount != 1 {
		t.Errorf("Effect should run immediately. Got %d", runCount)
	}

	count.Set(1)
	if runCount != 2 {
		t.Errorf("Effect should run on update. Got %d", runCount)
	}

	count.Set(2)
	if runCount != 3 {
		t.Errorf("Effect should run on update. Got %d", runCount)
	}
}

func TestComputed(t *testing.T) {
	count := New(1)
	double := NewDerived(func() int {
		return count.Get() * 2
	})

	if double.Get() != 2 {
		t.Errorf("Expected 2, got %d", double.Get())
	}

	count.Set(2)
	if double.Get() != 4 {
		t.Errorf("Expected 4, got %d", double.Get())
	}
}

func TestDependencyTracking(t *testing.T) {
	a := New(1)
	b := New(2)
	sum := 0

	CreateEffect(func() {
		sum = a.Get() + b.Get()
	})

	if sum != 3 {
		t.Errorf("Expected 3, got %d", sum)
	}

	a.Set(2)
	if sum != 4 {
		t.Errorf("Expected 4, got %d", sum)
	}

	b.Set(3)
	if sum != 5 {
		t.Errorf("Expected 5, got %d", sum)
	}
}

func TestBatchRunsEffectOnce(t *testing.T) {
	a := New(1)
	b := New(2)
	runs := 0

	CreateEffect(func() {
		_ = a.Get()
		_ = b.Get()
		runs++
	})
	runs = 0 // discard the initial run

	Batch(func() {
		a.Set(10)
		b.Set(20)
	})

	if runs != 1 {
		t.Errorf("expected effect to run exactly once after batch, got %d", runs)
	}
}

func TestScopeDisposalRemovesSubscriptions(t *testing.T) {
	count := New(0)
	runs := 0

	scope := Scoped(func() {
		CreateEffect(func() {
			_ = count.Get()
			runs++
		})
	})

	if runs != 1 {
		t.Fatalf("expected initial run, got %d", runs)
	}

	scope.Dispose()
	count.Set(1)

	if runs != 1 {
		t.Errorf("expected no further runs after scope disposal, got %d", runs)
	}
}

func TestOnCleanupRunsInReverseOrderOnDispose(t *testing.T) {
	var order []int

	scope := Scoped(func() {
		OnCleanup(func() { order = append(order, 1) })
		OnCleanup(func() { order = append(order, 2) })
		OnCleanup(func() { order = append(order, 3) })
	})
	scope.Dispose()

	want := []int{3, 2, 1}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("expected %v, got %v", want, order)
		}
	}
}

func TestReactiveCycleDetected(t *testing.T) {
	var a, b *Derived[int]
	a = NewDerived(func() int { return b.Get() + 1 })
	b = NewDerived(func() int { return a.Get() + 1 })

	if _, err := a.TryGet(); err == nil {
		t.Fatalf("expected cycle error reading a")
	}
	if _, err := b.TryGet(); err == nil {
		t.Fatalf("expected cycle error reading b")
	}
}

func TestUntrackedDoesNotSubscribe(t *testing.T) {
	count := New(0)
	runs := 0

	CreateEffect(func() {
		Untracked(func() {
			_ = count.Get()
		})
		runs++
	})

	count.Set(1)
	if runs != 1 {
		t.Errorf("expected effect not to re-run after untracked read, got %d runs", runs)
	}
}
