package strpool

import (
	"fmt"
	"sync"
	"testing"
)

func TestInternRoundTrip(t *testing.T) {
	p := New()

	a := p.Intern("SingleRow")
	b := p.Intern("MultipleRows")
	if a == b {
		t.Fatalf("distinct strings got the same id %d", a)
	}
	if again := p.Intern("SingleRow"); again != a {
		t.Errorf("Intern twice = %d, want %d", again, a)
	}
	if got := p.Get(a); got != "SingleRow" {
		t.Errorf("Get(%d) = %q, want %q", a, got, "SingleRow")
	}
	if got := p.Size(); got != 3 {
		t.Errorf("Size() = %d, want 3", got)
	}
}

func TestNullHandle(t *testing.T) {
	p := New()

	if id := p.Intern(""); id != Null {
		t.Errorf("Intern(\"\") = %d, want Null", id)
	}
	if got := p.Get(Null); got != "" {
		t.Errorf("Get(Null) = %q, want empty", got)
	}
	if got := p.Get(ID(999)); got != "" {
		t.Errorf("Get(unknown) = %q, want empty", got)
	}
}

func TestLookup(t *testing.T) {
	p := New()
	id := p.Intern("Slice1")

	if got, ok := p.Lookup("Slice1"); !ok || got != id {
		t.Errorf("Lookup(Slice1) = %d, %v; want %d, true", got, ok, id)
	}
	if _, ok := p.Lookup("Slice2"); ok {
		t.Error("Lookup should not intern missing strings")
	}
	if p.Size() != 2 {
		t.Errorf("Size() = %d after Lookup, want 2", p.Size())
	}
}

func TestConcurrentIntern(t *testing.T) {
	p := New()

	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				name := fmt.Sprintf("slice-%d", (i+w)%50)
				if got := p.Get(p.Intern(name)); got != name {
					t.Errorf("round trip %q = %q", name, got)
				}
			}
		}()
	}
	wg.Wait()

	if got := p.Size(); got != 51 {
		t.Errorf("Size() = %d, want 51", got)
	}
}
