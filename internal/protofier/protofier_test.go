package protofier

import (
	"testing"

	"embeddedsass/internal/registry"
	"embeddedsass/internal/wire"
)

func TestKeywordsMarksArgumentListAccessed(t *testing.T) {
	p := New(registry.NewFunctionRegistry())
	kw := wire.NewOrderedMap()
	kw.Set("width", &wire.Value{Kind: wire.ValueKindSingleton, Singleton: wire.SingletonNull})
	al := &wire.ArgumentList{ID: 7, Keywords: kw}

	p.Keywords(al)

	accessed := p.AccessedArgumentLists()
	if len(accessed) != 1 || accessed[0] != 7 {
		t.Fatalf("accessed = %v, want [7]", accessed)
	}
}

func TestUnreadArgumentListsAreNotReported(t *testing.T) {
	p := New(registry.NewFunctionRegistry())
	if got := p.AccessedArgumentLists(); len(got) != 0 {
		t.Fatalf("accessed = %v, want empty", got)
	}
}

func TestFunctionValueLooksUpByName(t *testing.T) {
	reg := registry.NewFunctionRegistry()
	f := reg.Register("double($n)")
	p := New(reg)

	v, err := p.FunctionValue("double")
	if err != nil {
		t.Fatalf("FunctionValue: %v", err)
	}
	if v.Kind != wire.ValueKindHostFunction || v.HostFunction.ID != f.ID {
		t.Fatalf("got %+v", v)
	}
}

func TestFunctionValueUnknownNameFails(t *testing.T) {
	p := New(registry.NewFunctionRegistry())
	if _, err := p.FunctionValue("nope"); err == nil {
		t.Fatal("expected error for unregistered function name")
	}
}
