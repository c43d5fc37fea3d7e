package embeddedsass

import "testing"

type fakeProtofier struct {
	called bool
	al     *ArgumentList
}

func (f *fakeProtofier) Keywords(al *ArgumentList) *OrderedMap {
	f.called = true
	f.al = al
	return al.Keywords
}

func TestFunctionCallKeywordsDelegatesForArgumentList(t *testing.T) {
	al := &ArgumentList{Keywords: NewOrderedMap()}
	arg := &Value{Kind: ValueKindArgumentList, ArgumentList: al}
	fp := &fakeProtofier{}
	call := &FunctionCall{Arguments: []*Value{arg}, protofier: fp}

	got := call.Keywords(arg)
	if !fp.called {
		t.Fatal("expected Keywords to delegate to the protofier")
	}
	if got != al.Keywords {
		t.Fatal("expected the underlying keyword map back")
	}
}

func TestFunctionCallKeywordsReturnsNilForNonArgumentList(t *testing.T) {
	fp := &fakeProtofier{}
	call := &FunctionCall{protofier: fp}
	if got := call.Keywords(NumberValue(1)); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
	if fp.called {
		t.Fatal("did not expect the protofier to be consulted")
	}
}
