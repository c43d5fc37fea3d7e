package wire

import "testing"

func roundTripValue(t *testing.T, v *Value) *Value {
	t.Helper()
	buf := EncodeValue(v)
	got, err := DecodeValue(buf)
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	return got
}

func TestStringRoundTrip(t *testing.T) {
	v := &Value{Kind: ValueKindString, String: &String{Text: "hello", Quoted: true}}
	got := roundTripValue(t, v)
	if got.Kind != ValueKindString || got.String.Text != "hello" || !got.String.Quoted {
		t.Fatalf("got %+v", got)
	}
}

func TestNumberRoundTripWithUnits(t *testing.T) {
	v := &Value{Kind: ValueKindNumber, Number: &Number{
		Value:        1.5,
		Numerators:   []string{"px"},
		Denominators: []string{"s"},
	}}
	got := roundTripValue(t, v)
	if got.Number.Value != 1.5 || got.Number.Numerators[0] != "px" || got.Number.Denominators[0] != "s" {
		t.Fatalf("got %+v", got.Number)
	}
}

func TestColorRoundTripPreservesNaNChannel(t *testing.T) {
	c := &Color{Space: ColorSpaceOklch, Channel0: 0.5, Channel1: nanValue(), Channel2: 30, Alpha: 1}
	v := &Value{Kind: ValueKindColor, Color: c}
	got := roundTripValue(t, v)
	if got.Color.Space != ColorSpaceOklch {
		t.Fatalf("space = %v", got.Color.Space)
	}
	if !isNaN(got.Color.Channel1) {
		t.Fatalf("expected NaN channel, got %v", got.Color.Channel1)
	}
}

func TestListUndecidedSeparatorWithMultipleElementsFails(t *testing.T) {
	v := &Value{Kind: ValueKindList, List: &List{
		Items:     []*Value{singletonNull(), singletonNull()},
		Separator: SeparatorUndecided,
	}}
	buf := EncodeValue(v)
	if _, err := DecodeValue(buf); err == nil {
		t.Fatal("expected error for undecided separator with multiple elements")
	}
}

func TestArgumentListKeywordsRoundTripInOrder(t *testing.T) {
	kw := NewOrderedMap()
	kw.Set("b", singletonNull())
	kw.Set("a", singletonNull())
	v := &Value{Kind: ValueKindArgumentList, ArgumentList: &ArgumentList{
		Items:     []*Value{singletonTrue()},
		Keywords:  kw,
		Separator: SeparatorComma,
		ID:        42,
	}}
	got := roundTripValue(t, v)
	if got.ArgumentList.ID != 42 {
		t.Fatalf("id = %d", got.ArgumentList.ID)
	}
	keys := got.ArgumentList.Keywords.Keys()
	if len(keys) != 2 || keys[0] != "b" || keys[1] != "a" {
		t.Fatalf("keys = %v, want insertion order [b a]", keys)
	}
}

func TestMapRoundTrip(t *testing.T) {
	v := &Value{Kind: ValueKindMap, Map: &Map{Entries: []MapEntry{
		{Key: stringValue("k1"), Value: singletonTrue()},
		{Key: stringValue("k2"), Value: singletonFalse()},
	}}}
	got := roundTripValue(t, v)
	if len(got.Map.Entries) != 2 || got.Map.Entries[0].Key.String.Text != "k1" {
		t.Fatalf("got %+v", got.Map)
	}
}

func TestHostFunctionDecodeIsRejected(t *testing.T) {
	v := &Value{Kind: ValueKindHostFunction, HostFunction: &HostFunction{ID: 1, Signature: "f($x)"}}
	buf := EncodeValue(v)
	_, err := DecodeValue(buf)
	if err == nil {
		t.Fatal("expected decode of hostFunction to fail")
	}
	want := "Compiler may not send a Value with hostFunction set."
	if err.Error() != want {
		t.Fatalf("err = %q, want %q", err.Error(), want)
	}
}

func TestCalcClampArgumentCountValidated(t *testing.T) {
	calc := &Calculation{Name: CalcClamp, Arguments: []*CalcValue{
		{Number: &Number{Value: 1}},
		{Number: &Number{Value: 2}},
		{Number: &Number{Value: 3}},
		{Number: &Number{Value: 4}},
	}}
	v := &Value{Kind: ValueKindCalculation, Calculation: calc}
	buf := EncodeValue(v)
	if _, err := DecodeValue(buf); err == nil {
		t.Fatal("expected clamp() with 4 arguments to fail")
	}
}

func TestCalcOperationRoundTrip(t *testing.T) {
	calc := &Calculation{Name: CalcCalc, Arguments: []*CalcValue{
		{Operation: &CalcOperation{
			Op:    CalcOpAdd,
			Left:  &CalcValue{Number: &Number{Value: 1, Numerators: []string{"px"}}},
			Right: &CalcValue{Number: &Number{Value: 2, Numerators: []string{"px"}}},
		}},
	}}
	v := &Value{Kind: ValueKindCalculation, Calculation: calc}
	got := roundTripValue(t, v)
	op := got.Calculation.Arguments[0].Operation
	if op == nil || op.Op != CalcOpAdd || op.Left.Number.Value != 1 {
		t.Fatalf("got %+v", got.Calculation)
	}
}

func TestDecodeValueEmptyBufferFails(t *testing.T) {
	if _, err := DecodeValue(nil); err == nil {
		t.Fatal("expected error for unset Value.value")
	}
}

func TestCompileRequestStringInputRoundTrip(t *testing.T) {
	req := &CompileRequest{
		ID: 3,
		StringInput: &StringInput{
			Source: "a { color: red; }",
			URL:    "stdin://",
			Syntax: SyntaxSCSS,
		},
		Style:     StyleCompressed,
		SourceMap: true,
	}
	msg := &InboundMessage{Kind: KindCompileRequest, CompileRequest: req}
	buf := EncodeInbound(msg)
	got, err := DecodeInbound(buf)
	if err != nil {
		t.Fatalf("DecodeInbound: %v", err)
	}
	if got.Kind != KindCompileRequest {
		t.Fatalf("kind = %s", got.Kind)
	}
	if got.CompileRequest.ID != 3 || got.CompileRequest.StringInput.Source != req.StringInput.Source {
		t.Fatalf("got %+v", got.CompileRequest)
	}
	if got.CompileRequest.Style != StyleCompressed || !got.CompileRequest.SourceMap {
		t.Fatalf("got %+v", got.CompileRequest)
	}
}

func TestCompileRequestMissingInputFails(t *testing.T) {
	req := &CompileRequest{ID: 1}
	msg := &InboundMessage{Kind: KindCompileRequest, CompileRequest: req}
	buf := EncodeInbound(msg)
	if _, err := DecodeInbound(buf); err == nil {
		t.Fatal("expected error for CompileRequest with neither path nor string input")
	}
}

func TestDecodeInboundUnsetMessageFails(t *testing.T) {
	if _, err := DecodeInbound(nil); err == nil {
		t.Fatal("expected InboundMessage.message not set error")
	} else if err.Error() != "InboundMessage.message is not set" {
		t.Fatalf("err = %q", err.Error())
	}
}

func TestDecodeOutboundUnsetMessageFails(t *testing.T) {
	if _, err := DecodeOutbound(nil); err == nil {
		t.Fatal("expected OutboundMessage.message not set error")
	} else if err.Error() != "OutboundMessage.message is not set" {
		t.Fatalf("err = %q", err.Error())
	}
}

func TestCompileResponseSuccessRoundTrip(t *testing.T) {
	resp := &CompileResponse{
		ID: 1,
		Success: &CompileSuccess{
			CSS:        "a{color:red}",
			LoadedURLs: []string{"file:///a.scss", "file:///b.scss"},
		},
	}
	msg := &OutboundMessage{Kind: KindCompileResponse, CompileResponse: resp}
	buf := EncodeOutbound(msg)
	got, err := DecodeOutbound(buf)
	if err != nil {
		t.Fatalf("DecodeOutbound: %v", err)
	}
	if got.CompileResponse.Success.CSS != resp.Success.CSS {
		t.Fatalf("got %+v", got.CompileResponse)
	}
	if len(got.CompileResponse.Success.LoadedURLs) != 2 {
		t.Fatalf("loaded urls = %v", got.CompileResponse.Success.LoadedURLs)
	}
}

func TestCompileResponseMissingResultFails(t *testing.T) {
	resp := &CompileResponse{ID: 1}
	msg := &OutboundMessage{Kind: KindCompileResponse, CompileResponse: resp}
	buf := EncodeOutbound(msg)
	if _, err := DecodeOutbound(buf); err == nil {
		t.Fatal("expected error for CompileResponse with neither success nor failure")
	}
}

func TestCompileResponseFailureRoundTrip(t *testing.T) {
	resp := &CompileResponse{
		ID: 2,
		Failure: &CompileFailure{
			Message: "Undefined variable.",
			Span: &SourceSpan{
				Text:  "$x",
				Start: SourceLocation{Offset: 0, Line: 0, Column: 0},
				End:   SourceLocation{Offset: 2, Line: 0, Column: 2},
				URL:   "file:///a.scss",
			},
		},
	}
	msg := &OutboundMessage{Kind: KindCompileResponse, CompileResponse: resp}
	got, err := DecodeOutbound(EncodeOutbound(msg))
	if err != nil {
		t.Fatalf("DecodeOutbound: %v", err)
	}
	if got.CompileResponse.Failure.Message != resp.Failure.Message {
		t.Fatalf("got %+v", got.CompileResponse.Failure)
	}
	if got.CompileResponse.Failure.Span.URL != "file:///a.scss" {
		t.Fatalf("span = %+v", got.CompileResponse.Failure.Span)
	}
}

func TestFunctionCallRequestByNameRoundTrip(t *testing.T) {
	name := "my-func"
	req := &FunctionCallRequest{
		ID:        1,
		Name:      &name,
		Arguments: []*Value{stringValue("x")},
	}
	msg := &OutboundMessage{Kind: KindFunctionCallRequest, FunctionCallRequest: req}
	got, err := DecodeOutbound(EncodeOutbound(msg))
	if err != nil {
		t.Fatalf("DecodeOutbound: %v", err)
	}
	if got.FunctionCallRequest.Name == nil || *got.FunctionCallRequest.Name != name {
		t.Fatalf("got %+v", got.FunctionCallRequest)
	}
	if len(got.FunctionCallRequest.Arguments) != 1 {
		t.Fatalf("arguments = %v", got.FunctionCallRequest.Arguments)
	}
}

func TestFunctionCallRequestMissingIdentifierFails(t *testing.T) {
	req := &FunctionCallRequest{ID: 1}
	msg := &OutboundMessage{Kind: KindFunctionCallRequest, FunctionCallRequest: req}
	buf := EncodeOutbound(msg)
	if _, err := DecodeOutbound(buf); err == nil {
		t.Fatal("expected error for FunctionCallRequest with neither name nor function id")
	} else if err.Error() != "FunctionCallRequest.identifier is not set" {
		t.Fatalf("err = %q", err.Error())
	}
}

func TestErrorMessageRoundTrip(t *testing.T) {
	msg := &OutboundMessage{Kind: KindError, Error: &ErrorMessage{
		Type:    ErrorTypeParams,
		ID:      -1,
		Message: "malformed request",
	}}
	got, err := DecodeOutbound(EncodeOutbound(msg))
	if err != nil {
		t.Fatalf("DecodeOutbound: %v", err)
	}
	if got.Kind != KindError || got.Error.Message != "malformed request" {
		t.Fatalf("got %+v", got.Error)
	}
}

func TestLogEventRoundTrip(t *testing.T) {
	msg := &OutboundMessage{Kind: KindLogEvent, LogEvent: &LogEvent{
		Type:    LogEventDeprecationWarning,
		Message: "old syntax",
		Span: &SourceSpan{
			Text: "@import",
		},
	}}
	got, err := DecodeOutbound(EncodeOutbound(msg))
	if err != nil {
		t.Fatalf("DecodeOutbound: %v", err)
	}
	if got.LogEvent.Type != LogEventDeprecationWarning || got.LogEvent.Span.Text != "@import" {
		t.Fatalf("got %+v", got.LogEvent)
	}
}

func TestInvalidBufferFailsWithErrInvalidBuffer(t *testing.T) {
	_, err := DecodeValue([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff})
	if err == nil {
		t.Fatal("expected error for malformed buffer")
	}
	if err != ErrInvalidBuffer {
		t.Fatalf("err = %v, want ErrInvalidBuffer", err)
	}
}

func singletonNull() *Value  { return &Value{Kind: ValueKindSingleton, Singleton: SingletonNull} }
func singletonTrue() *Value  { return &Value{Kind: ValueKindSingleton, Singleton: SingletonTrue} }
func singletonFalse() *Value { return &Value{Kind: ValueKindSingleton, Singleton: SingletonFalse} }
func stringValue(s string) *Value {
	return &Value{Kind: ValueKindString, String: &String{Text: s, Quoted: true}}
}

func nanValue() float64 {
	var zero float64
	return zero / zero
}

func isNaN(f float64) bool { return f != f }
