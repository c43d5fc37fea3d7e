package wire

import "google.golang.org/protobuf/encoding/protowire"

const (
	fInboundCompileRequest       protowire.Number = 1
	fInboundCanonicalizeResponse protowire.Number = 2
	fInboundImportResponse       protowire.Number = 3
	fInboundFileImportResponse   protowire.Number = 4
	fInboundFunctionCallResponse protowire.Number = 5

	fOutboundCompileResponse     protowire.Number = 1
	fOutboundLogEvent            protowire.Number = 2
	fOutboundCanonicalizeRequest protowire.Number = 3
	fOutboundImportRequest       protowire.Number = 4
	fOutboundFileImportRequest   protowire.Number = 5
	fOutboundFunctionCallRequest protowire.Number = 6
	fOutboundError               protowire.Number = 7

	fLocOffset protowire.Number = 1
	fLocLine   protowire.Number = 2
	fLocColumn protowire.Number = 3

	fSpanText    protowire.Number = 1
	fSpanStart   protowire.Number = 2
	fSpanEnd     protowire.Number = 3
	fSpanURL     protowire.Number = 4
	fSpanContext protowire.Number = 5

	fImporterPath           protowire.Number = 1
	fImporterImporterID     protowire.Number = 2
	fImporterFileImporterID protowire.Number = 3

	fStringInputSource   protowire.Number = 1
	fStringInputURL      protowire.Number = 2
	fStringInputSyntax   protowire.Number = 3
	fStringInputImporter protowire.Number = 4

	fCRID                      protowire.Number = 1
	fCRPathInput               protowire.Number = 2
	fCRStringInput             protowire.Number = 3
	fCRStyle                   protowire.Number = 4
	fCRSourceMap               protowire.Number = 5
	fCRSourceMapIncludeSources protowire.Number = 6
	fCRImporters               protowire.Number = 7
	fCRGlobalFunctions         protowire.Number = 8
	fCRAlertColor              protowire.Number = 9
	fCRAlertAscii              protowire.Number = 10
	fCRQuietDeps               protowire.Number = 11
	fCRVerbose                 protowire.Number = 12
	fCRCharset                 protowire.Number = 13

	fCanonResID  protowire.Number = 1
	fCanonResURL protowire.Number = 2
	fCanonResErr protowire.Number = 3

	fImportRespID      protowire.Number = 1
	fImportRespSuccess protowire.Number = 2
	fImportRespErr     protowire.Number = 3

	fImportSuccessContents     protowire.Number = 1
	fImportSuccessSyntax       protowire.Number = 2
	fImportSuccessSourceMapURL protowire.Number = 3

	fFileImportRespID      protowire.Number = 1
	fFileImportRespFileURL protowire.Number = 2
	fFileImportRespErr     protowire.Number = 3

	fFnCallRespID       protowire.Number = 1
	fFnCallRespSuccess  protowire.Number = 2
	fFnCallRespErr      protowire.Number = 3
	fFnCallRespAccessed protowire.Number = 4

	fCompRespID      protowire.Number = 1
	fCompRespSuccess protowire.Number = 2
	fCompRespFailure protowire.Number = 3

	fCompSuccessCSS        protowire.Number = 1
	fCompSuccessSourceMap  protowire.Number = 2
	fCompSuccessLoadedURLs protowire.Number = 3

	fCompFailureMessage    protowire.Number = 1
	fCompFailureSpan       protowire.Number = 2
	fCompFailureStackTrace protowire.Number = 3
	fCompFailureFormatted  protowire.Number = 4

	fLogType       protowire.Number = 1
	fLogMessage    protowire.Number = 2
	fLogFormatted  protowire.Number = 3
	fLogSpan       protowire.Number = 4
	fLogStackTrace protowire.Number = 5

	fCanonReqID         protowire.Number = 1
	fCanonReqImporterID protowire.Number = 2
	fCanonReqURL        protowire.Number = 3
	fCanonReqFromImport protowire.Number = 4

	fImportReqID         protowire.Number = 1
	fImportReqImporterID protowire.Number = 2
	fImportReqURL        protowire.Number = 3

	fFileImportReqID         protowire.Number = 1
	fFileImportReqImporterID protowire.Number = 2
	fFileImportReqURL        protowire.Number = 3
	fFileImportReqFromImport protowire.Number = 4

	fFnCallReqID         protowire.Number = 1
	fFnCallReqName       protowire.Number = 2
	fFnCallReqFunctionID protowire.Number = 3
	fFnCallReqArguments  protowire.Number = 4

	fErrType    protowire.Number = 1
	fErrID      protowire.Number = 2
	fErrMessage protowire.Number = 3
)

func encodeLocation(l SourceLocation) []byte {
	b := appendInt64Field(nil, fLocOffset, int64(l.Offset))
	b = appendInt64Field(b, fLocLine, int64(l.Line))
	b = appendInt64Field(b, fLocColumn, int64(l.Column))
	return b
}

func decodeLocation(msg []byte) (SourceLocation, error) {
	var loc SourceLocation
	err := walkFields(msg, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
		switch num {
		case fLocOffset:
			v, n, err := consumeVarint(rest)
			if err != nil {
				return 0, err
			}
			loc.Offset = int(v)
			return n, nil
		case fLocLine:
			v, n, err := consumeVarint(rest)
			if err != nil {
				return 0, err
			}
			loc.Line = int(v)
			return n, nil
		case fLocColumn:
			v, n, err := consumeVarint(rest)
			if err != nil {
				return 0, err
			}
			loc.Column = int(v)
			return n, nil
		}
		return -1, nil
	})
	return loc, err
}

func encodeSpan(s *SourceSpan) []byte {
	if s == nil {
		return nil
	}
	b := appendStringField(nil, fSpanText, s.Text)
	b = appendMessageField(b, fSpanStart, encodeLocation(s.Start))
	b = appendMessageField(b, fSpanEnd, encodeLocation(s.End))
	b = appendStringField(b, fSpanURL, s.URL)
	b = appendStringField(b, fSpanContext, s.Context)
	return b
}

func decodeSpan(msg []byte) (*SourceSpan, error) {
	s := &SourceSpan{}
	err := walkFields(msg, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
		switch num {
		case fSpanText:
			v, n, err := consumeString(rest)
			if err != nil {
				return 0, err
			}
			s.Text = v
			return n, nil
		case fSpanStart:
			m, n, err := consumeBytesRaw(rest)
			if err != nil {
				return 0, err
			}
			loc, err := decodeLocation(m)
			if err != nil {
				return 0, err
			}
			s.Start = loc
			return n, nil
		case fSpanEnd:
			m, n, err := consumeBytesRaw(rest)
			if err != nil {
				return 0, err
			}
			loc, err := decodeLocation(m)
			if err != nil {
				return 0, err
			}
			s.End = loc
			return n, nil
		case fSpanURL:
			v, n, err := consumeString(rest)
			if err != nil {
				return 0, err
			}
			s.URL = v
			return n, nil
		case fSpanContext:
			v, n, err := consumeString(rest)
			if err != nil {
				return 0, err
			}
			s.Context = v
			return n, nil
		}
		return -1, nil
	})
	return s, err
}

func encodeImporter(imp Importer) []byte {
	b := appendStringField(nil, fImporterPath, imp.Path)
	b = appendOptionalInt64Field(b, fImporterImporterID, imp.ImporterID)
	b = appendOptionalInt64Field(b, fImporterFileImporterID, imp.FileImporterID)
	return b
}

func decodeImporter(msg []byte) (Importer, error) {
	var imp Importer
	err := walkFields(msg, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
		switch num {
		case fImporterPath:
			v, n, err := consumeString(rest)
			if err != nil {
				return 0, err
			}
			imp.Path = v
			return n, nil
		case fImporterImporterID:
			v, n, err := consumeVarint(rest)
			if err != nil {
				return 0, err
			}
			id := int64(v)
			imp.ImporterID = &id
			return n, nil
		case fImporterFileImporterID:
			v, n, err := consumeVarint(rest)
			if err != nil {
				return 0, err
			}
			id := int64(v)
			imp.FileImporterID = &id
			return n, nil
		}
		return -1, nil
	})
	return imp, err
}

func encodeStringInput(s *StringInput) []byte {
	b := appendStringField(nil, fStringInputSource, s.Source)
	b = appendStringField(b, fStringInputURL, s.URL)
	b = appendEnumField(b, fStringInputSyntax, int(s.Syntax))
	if s.Importer != nil {
		b = appendMessageField(b, fStringInputImporter, encodeImporter(*s.Importer))
	}
	return b
}

func decodeStringInput(msg []byte) (*StringInput, error) {
	s := &StringInput{}
	err := walkFields(msg, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
		switch num {
		case fStringInputSource:
			v, n, err := consumeString(rest)
			if err != nil {
				return 0, err
			}
			s.Source = v
			return n, nil
		case fStringInputURL:
			v, n, err := consumeString(rest)
			if err != nil {
				return 0, err
			}
			s.URL = v
			return n, nil
		case fStringInputSyntax:
			v, n, err := consumeVarint(rest)
			if err != nil {
				return 0, err
			}
			s.Syntax = Syntax(v)
			return n, nil
		case fStringInputImporter:
			m, n, err := consumeBytesRaw(rest)
			if err != nil {
				return 0, err
			}
			imp, err := decodeImporter(m)
			if err != nil {
				return 0, err
			}
			s.Importer = &imp
			return n, nil
		}
		return -1, nil
	})
	return s, err
}

func encodeCompileRequest(r *CompileRequest) []byte {
	b := appendInt64Field(nil, fCRID, int64(r.ID))
	if r.PathInput != nil {
		b = appendStringField(b, fCRPathInput, *r.PathInput)
	}
	if r.StringInput != nil {
		b = appendMessageField(b, fCRStringInput, encodeStringInput(r.StringInput))
	}
	b = appendEnumField(b, fCRStyle, int(r.Style))
	b = appendBoolField(b, fCRSourceMap, r.SourceMap)
	b = appendBoolField(b, fCRSourceMapIncludeSources, r.SourceMapIncludeSources)
	for _, imp := range r.Importers {
		b = appendMessageField(b, fCRImporters, encodeImporter(imp))
	}
	for _, fn := range r.GlobalFunctions {
		b = appendStringField(b, fCRGlobalFunctions, fn)
	}
	b = appendBoolField(b, fCRAlertColor, r.AlertColor)
	b = appendBoolField(b, fCRAlertAscii, r.AlertAscii)
	b = appendBoolField(b, fCRQuietDeps, r.QuietDeps)
	b = appendBoolField(b, fCRVerbose, r.Verbose)
	b = appendBoolField(b, fCRCharset, r.Charset)
	return b
}

func decodeCompileRequest(msg []byte) (*CompileRequest, error) {
	r := &CompileRequest{}
	err := walkFields(msg, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
		switch num {
		case fCRID:
			v, n, err := consumeVarint(rest)
			if err != nil {
				return 0, err
			}
			r.ID = int(v)
			return n, nil
		case fCRPathInput:
			v, n, err := consumeString(rest)
			if err != nil {
				return 0, err
			}
			r.PathInput = &v
			return n, nil
		case fCRStringInput:
			m, n, err := consumeBytesRaw(rest)
			if err != nil {
				return 0, err
			}
			si, err := decodeStringInput(m)
			if err != nil {
				return 0, err
			}
			r.StringInput = si
			return n, nil
		case fCRStyle:
			v, n, err := consumeVarint(rest)
			if err != nil {
				return 0, err
			}
			r.Style = Style(v)
			return n, nil
		case fCRSourceMap:
			v, n, err := consumeVarint(rest)
			if err != nil {
				return 0, err
			}
			r.SourceMap = v != 0
			return n, nil
		case fCRSourceMapIncludeSources:
			v, n, err := consumeVarint(rest)
			if err != nil {
				return 0, err
			}
			r.SourceMapIncludeSources = v != 0
			return n, nil
		case fCRImporters:
			m, n, err := consumeBytesRaw(rest)
			if err != nil {
				return 0, err
			}
			imp, err := decodeImporter(m)
			if err != nil {
				return 0, err
			}
			r.Importers = append(r.Importers, imp)
			return n, nil
		case fCRGlobalFunctions:
			v, n, err := consumeString(rest)
			if err != nil {
				return 0, err
			}
			r.GlobalFunctions = append(r.GlobalFunctions, v)
			return n, nil
		case fCRAlertColor:
			v, n, err := consumeVarint(rest)
			if err != nil {
				return 0, err
			}
			r.AlertColor = v != 0
			return n, nil
		case fCRAlertAscii:
			v, n, err := consumeVarint(rest)
			if err != nil {
				return 0, err
			}
			r.AlertAscii = v != 0
			return n, nil
		case fCRQuietDeps:
			v, n, err := consumeVarint(rest)
			if err != nil {
				return 0, err
			}
			r.QuietDeps = v != 0
			return n, nil
		case fCRVerbose:
			v, n, err := consumeVarint(rest)
			if err != nil {
				return 0, err
			}
			r.Verbose = v != 0
			return n, nil
		case fCRCharset:
			v, n, err := consumeVarint(rest)
			if err != nil {
				return 0, err
			}
			r.Charset = v != 0
			return n, nil
		}
		return -1, nil
	})
	if err != nil {
		return nil, err
	}
	if r.PathInput == nil && r.StringInput == nil {
		return nil, mandatoryError("CompileRequest.input is not set")
	}
	return r, nil
}

// EncodeInbound serializes a host-to-compiler message (spec.md §4.3
// "Encoding never fails for a well-formed payload").
func EncodeInbound(m *InboundMessage) []byte {
	switch m.Kind {
	case KindCompileRequest:
		return appendMessageField(nil, fInboundCompileRequest, encodeCompileRequest(m.CompileRequest))
	case KindCanonicalizeResponse:
		r := m.CanonicalizeResponse
		b := appendInt64Field(nil, fCanonResID, int64(r.ID))
		b = appendOptionalStringField(b, fCanonResURL, r.URL)
		b = appendOptionalStringField(b, fCanonResErr, r.Error)
		return appendMessageField(nil, fInboundCanonicalizeResponse, b)
	case KindImportResponse:
		r := m.ImportResponse
		b := appendInt64Field(nil, fImportRespID, int64(r.ID))
		if r.Success != nil {
			inner := appendStringField(nil, fImportSuccessContents, r.Success.Contents)
			inner = appendEnumField(inner, fImportSuccessSyntax, int(r.Success.Syntax))
			inner = appendOptionalStringField(inner, fImportSuccessSourceMapURL, r.Success.SourceMapURL)
			b = appendMessageField(b, fImportRespSuccess, inner)
		}
		b = appendOptionalStringField(b, fImportRespErr, r.Error)
		return appendMessageField(nil, fInboundImportResponse, b)
	case KindFileImportResponse:
		r := m.FileImportResponse
		b := appendInt64Field(nil, fFileImportRespID, int64(r.ID))
		b = appendOptionalStringField(b, fFileImportRespFileURL, r.FileURL)
		b = appendOptionalStringField(b, fFileImportRespErr, r.Error)
		return appendMessageField(nil, fInboundFileImportResponse, b)
	case KindFunctionCallResponse:
		r := m.FunctionCallResponse
		b := appendInt64Field(nil, fFnCallRespID, int64(r.ID))
		if r.Success != nil {
			b = appendMessageField(b, fFnCallRespSuccess, EncodeValue(r.Success))
		}
		b = appendOptionalStringField(b, fFnCallRespErr, r.Error)
		for _, id := range r.AccessedArgumentLists {
			b = appendVarintField(b, fFnCallRespAccessed, uint64(id))
		}
		return appendMessageField(nil, fInboundFunctionCallResponse, b)
	}
	return nil
}

// DecodeInbound is the inverse of EncodeInbound, used by tests and by any
// harness that stands in for the compiler side of the protocol.
func DecodeInbound(buf []byte) (*InboundMessage, error) {
	var out *InboundMessage
	err := walkFields(buf, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
		switch num {
		case fInboundCompileRequest:
			m, n, err := consumeBytesRaw(rest)
			if err != nil {
				return 0, err
			}
			cr, err := decodeCompileRequest(m)
			if err != nil {
				return 0, err
			}
			out = &InboundMessage{Kind: KindCompileRequest, CompileRequest: cr}
			return n, nil
		case fInboundCanonicalizeResponse:
			m, n, err := consumeBytesRaw(rest)
			if err != nil {
				return 0, err
			}
			r := &CanonicalizeResponse{}
			if err := walkFields(m, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
				switch num {
				case fCanonResID:
					v, n, err := consumeVarint(rest)
					if err != nil {
						return 0, err
					}
					r.ID = int(v)
					return n, nil
				case fCanonResURL:
					v, n, err := consumeString(rest)
					if err != nil {
						return 0, err
					}
					r.URL = &v
					return n, nil
				case fCanonResErr:
					v, n, err := consumeString(rest)
					if err != nil {
						return 0, err
					}
					r.Error = &v
					return n, nil
				}
				return -1, nil
			}); err != nil {
				return 0, err
			}
			out = &InboundMessage{Kind: KindCanonicalizeResponse, CanonicalizeResponse: r}
			return n, nil
		case fInboundImportResponse:
			m, n, err := consumeBytesRaw(rest)
			if err != nil {
				return 0, err
			}
			r := &ImportResponse{}
			if err := walkFields(m, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
				switch num {
				case fImportRespID:
					v, n, err := consumeVarint(rest)
					if err != nil {
						return 0, err
					}
					r.ID = int(v)
					return n, nil
				case fImportRespSuccess:
					sm, n, err := consumeBytesRaw(rest)
					if err != nil {
						return 0, err
					}
					succ := &ImportSuccess{}
					if err := walkFields(sm, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
						switch num {
						case fImportSuccessContents:
							v, n, err := consumeString(rest)
							if err != nil {
								return 0, err
							}
							succ.Contents = v
							return n, nil
						case fImportSuccessSyntax:
							v, n, err := consumeVarint(rest)
							if err != nil {
								return 0, err
							}
							succ.Syntax = Syntax(v)
							return n, nil
						case fImportSuccessSourceMapURL:
							v, n, err := consumeString(rest)
							if err != nil {
								return 0, err
							}
							succ.SourceMapURL = &v
							return n, nil
						}
						return -1, nil
					}); err != nil {
						return 0, err
					}
					r.Success = succ
					return n, nil
				case fImportRespErr:
					v, n, err := consumeString(rest)
					if err != nil {
						return 0, err
					}
					r.Error = &v
					return n, nil
				}
				return -1, nil
			}); err != nil {
				return 0, err
			}
			out = &InboundMessage{Kind: KindImportResponse, ImportResponse: r}
			return n, nil
		case fInboundFileImportResponse:
			m, n, err := consumeBytesRaw(rest)
			if err != nil {
				return 0, err
			}
			r := &FileImportResponse{}
			if err := walkFields(m, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
				switch num {
				case fFileImportRespID:
					v, n, err := consumeVarint(rest)
					if err != nil {
						return 0, err
					}
					r.ID = int(v)
					return n, nil
				case fFileImportRespFileURL:
					v, n, err := consumeString(rest)
					if err != nil {
						return 0, err
					}
					r.FileURL = &v
					return n, nil
				case fFileImportRespErr:
					v, n, err := consumeString(rest)
					if err != nil {
						return 0, err
					}
					r.Error = &v
					return n, nil
				}
				return -1, nil
			}); err != nil {
				return 0, err
			}
			out = &InboundMessage{Kind: KindFileImportResponse, FileImportResponse: r}
			return n, nil
		case fInboundFunctionCallResponse:
			m, n, err := consumeBytesRaw(rest)
			if err != nil {
				return 0, err
			}
			r := &FunctionCallResponse{}
			if err := walkFields(m, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
				switch num {
				case fFnCallRespID:
					v, n, err := consumeVarint(rest)
					if err != nil {
						return 0, err
					}
					r.ID = int(v)
					return n, nil
				case fFnCallRespSuccess:
					vm, n, err := consumeBytesRaw(rest)
					if err != nil {
						return 0, err
					}
					v, err := DecodeValue(vm)
					if err != nil {
						return 0, err
					}
					r.Success = v
					return n, nil
				case fFnCallRespErr:
					v, n, err := consumeString(rest)
					if err != nil {
						return 0, err
					}
					r.Error = &v
					return n, nil
				case fFnCallRespAccessed:
					v, n, err := consumeVarint(rest)
					if err != nil {
						return 0, err
					}
					r.AccessedArgumentLists = append(r.AccessedArgumentLists, int64(v))
					return n, nil
				}
				return -1, nil
			}); err != nil {
				return 0, err
			}
			out = &InboundMessage{Kind: KindFunctionCallResponse, FunctionCallResponse: r}
			return n, nil
		}
		return -1, nil
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, mandatoryError("InboundMessage.message is not set")
	}
	return out, nil
}

// EncodeOutbound serializes a compiler-to-host message. Production code
// never calls this (the compiler sends these, the host only decodes them)
// but it is used by tests constructing synthetic compiler responses.
func EncodeOutbound(m *OutboundMessage) []byte {
	switch m.Kind {
	case KindCompileResponse:
		r := m.CompileResponse
		b := appendInt64Field(nil, fCompRespID, int64(r.ID))
		if r.Success != nil {
			inner := appendStringField(nil, fCompSuccessCSS, r.Success.CSS)
			inner = appendStringField(inner, fCompSuccessSourceMap, r.Success.SourceMap)
			for _, u := range r.Success.LoadedURLs {
				inner = appendStringField(inner, fCompSuccessLoadedURLs, u)
			}
			b = appendMessageField(b, fCompRespSuccess, inner)
		}
		if r.Failure != nil {
			inner := appendStringField(nil, fCompFailureMessage, r.Failure.Message)
			if r.Failure.Span != nil {
				inner = appendMessageField(inner, fCompFailureSpan, encodeSpan(r.Failure.Span))
			}
			inner = appendStringField(inner, fCompFailureStackTrace, r.Failure.StackTrace)
			inner = appendStringField(inner, fCompFailureFormatted, r.Failure.Formatted)
			b = appendMessageField(b, fCompRespFailure, inner)
		}
		return appendMessageField(nil, fOutboundCompileResponse, b)
	case KindLogEvent:
		e := m.LogEvent
		b := appendEnumField(nil, fLogType, int(e.Type))
		b = appendStringField(b, fLogMessage, e.Message)
		b = appendStringField(b, fLogFormatted, e.Formatted)
		if e.Span != nil {
			b = appendMessageField(b, fLogSpan, encodeSpan(e.Span))
		}
		b = appendStringField(b, fLogStackTrace, e.StackTrace)
		return appendMessageField(nil, fOutboundLogEvent, b)
	case KindCanonicalizeRequest:
		r := m.CanonicalizeRequest
		b := appendInt64Field(nil, fCanonReqID, int64(r.ID))
		b = appendInt64Field(b, fCanonReqImporterID, r.ImporterID)
		b = appendStringField(b, fCanonReqURL, r.URL)
		b = appendBoolField(b, fCanonReqFromImport, r.FromImport)
		return appendMessageField(nil, fOutboundCanonicalizeRequest, b)
	case KindImportRequest:
		r := m.ImportRequest
		b := appendInt64Field(nil, fImportReqID, int64(r.ID))
		b = appendInt64Field(b, fImportReqImporterID, r.ImporterID)
		b = appendStringField(b, fImportReqURL, r.URL)
		return appendMessageField(nil, fOutboundImportRequest, b)
	case KindFileImportRequest:
		r := m.FileImportRequest
		b := appendInt64Field(nil, fFileImportReqID, int64(r.ID))
		b = appendInt64Field(b, fFileImportReqImporterID, r.ImporterID)
		b = appendStringField(b, fFileImportReqURL, r.URL)
		b = appendBoolField(b, fFileImportReqFromImport, r.FromImport)
		return appendMessageField(nil, fOutboundFileImportRequest, b)
	case KindFunctionCallRequest:
		r := m.FunctionCallRequest
		b := appendInt64Field(nil, fFnCallReqID, int64(r.ID))
		b = appendOptionalStringField(b, fFnCallReqName, r.Name)
		b = appendOptionalInt64Field(b, fFnCallReqFunctionID, r.FunctionID)
		for _, arg := range r.Arguments {
			b = appendMessageField(b, fFnCallReqArguments, EncodeValue(arg))
		}
		return appendMessageField(nil, fOutboundFunctionCallRequest, b)
	case KindError:
		r := m.Error
		b := appendEnumField(nil, fErrType, int(r.Type))
		b = appendInt64Field(b, fErrID, int64(r.ID))
		b = appendStringField(b, fErrMessage, r.Message)
		return appendMessageField(nil, fOutboundError, b)
	}
	return nil
}

// DecodeOutbound is the message codec's main entry point for traffic
// arriving from the compiler (spec.md §4.3).
func DecodeOutbound(buf []byte) (*OutboundMessage, error) {
	var out *OutboundMessage
	err := walkFields(buf, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
		switch num {
		case fOutboundCompileResponse:
			m, n, err := consumeBytesRaw(rest)
			if err != nil {
				return 0, err
			}
			r := &CompileResponse{}
			if err := walkFields(m, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
				switch num {
				case fCompRespID:
					v, n, err := consumeVarint(rest)
					if err != nil {
						return 0, err
					}
					r.ID = int(v)
					return n, nil
				case fCompRespSuccess:
					sm, n, err := consumeBytesRaw(rest)
					if err != nil {
						return 0, err
					}
					succ := &CompileSuccess{}
					if err := walkFields(sm, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
						switch num {
						case fCompSuccessCSS:
							v, n, err := consumeString(rest)
							if err != nil {
								return 0, err
							}
							succ.CSS = v
							return n, nil
						case fCompSuccessSourceMap:
							v, n, err := consumeString(rest)
							if err != nil {
								return 0, err
							}
							succ.SourceMap = v
							return n, nil
						case fCompSuccessLoadedURLs:
							v, n, err := consumeString(rest)
							if err != nil {
								return 0, err
							}
							succ.LoadedURLs = append(succ.LoadedURLs, v)
							return n, nil
						}
						return -1, nil
					}); err != nil {
						return 0, err
					}
					r.Success = succ
					return n, nil
				case fCompRespFailure:
					fm, n, err := consumeBytesRaw(rest)
					if err != nil {
						return 0, err
					}
					fail := &CompileFailure{}
					if err := walkFields(fm, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
						switch num {
						case fCompFailureMessage:
							v, n, err := consumeString(rest)
							if err != nil {
								return 0, err
							}
							fail.Message = v
							return n, nil
						case fCompFailureSpan:
							spm, n, err := consumeBytesRaw(rest)
							if err != nil {
								return 0, err
							}
							span, err := decodeSpan(spm)
							if err != nil {
								return 0, err
							}
							fail.Span = span
							return n, nil
						case fCompFailureStackTrace:
							v, n, err := consumeString(rest)
							if err != nil {
								return 0, err
							}
							fail.StackTrace = v
							return n, nil
						case fCompFailureFormatted:
							v, n, err := consumeString(rest)
							if err != nil {
								return 0, err
							}
							fail.Formatted = v
							return n, nil
						}
						return -1, nil
					}); err != nil {
						return 0, err
					}
					r.Failure = fail
					return n, nil
				}
				return -1, nil
			}); err != nil {
				return 0, err
			}
			if r.Success == nil && r.Failure == nil {
				return 0, mandatoryError("CompileResponse.result is not set")
			}
			out = &OutboundMessage{Kind: KindCompileResponse, CompileResponse: r}
			return n, nil
		case fOutboundLogEvent:
			m, n, err := consumeBytesRaw(rest)
			if err != nil {
				return 0, err
			}
			e := &LogEvent{}
			if err := walkFields(m, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
				switch num {
				case fLogType:
					v, n, err := consumeVarint(rest)
					if err != nil {
						return 0, err
					}
					e.Type = LogEventType(v)
					return n, nil
				case fLogMessage:
					v, n, err := consumeString(rest)
					if err != nil {
						return 0, err
					}
					e.Message = v
					return n, nil
				case fLogFormatted:
					v, n, err := consumeString(rest)
					if err != nil {
						return 0, err
					}
					e.Formatted = v
					return n, nil
				case fLogSpan:
					sm, n, err := consumeBytesRaw(rest)
					if err != nil {
						return 0, err
					}
					span, err := decodeSpan(sm)
					if err != nil {
						return 0, err
					}
					e.Span = span
					return n, nil
				case fLogStackTrace:
					v, n, err := consumeString(rest)
					if err != nil {
						return 0, err
					}
					e.StackTrace = v
					return n, nil
				}
				return -1, nil
			}); err != nil {
				return 0, err
			}
			out = &OutboundMessage{Kind: KindLogEvent, LogEvent: e}
			return n, nil
		case fOutboundCanonicalizeRequest:
			m, n, err := consumeBytesRaw(rest)
			if err != nil {
				return 0, err
			}
			r := &CanonicalizeRequest{}
			if err := walkFields(m, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
				switch num {
				case fCanonReqID:
					v, n, err := consumeVarint(rest)
					if err != nil {
						return 0, err
					}
					r.ID = int(v)
					return n, nil
				case fCanonReqImporterID:
					v, n, err := consumeVarint(rest)
					if err != nil {
						return 0, err
					}
					r.ImporterID = int64(v)
					return n, nil
				case fCanonReqURL:
					v, n, err := consumeString(rest)
					if err != nil {
						return 0, err
					}
					r.URL = v
					return n, nil
				case fCanonReqFromImport:
					v, n, err := consumeVarint(rest)
					if err != nil {
						return 0, err
					}
					r.FromImport = v != 0
					return n, nil
				}
				return -1, nil
			}); err != nil {
				return 0, err
			}
			out = &OutboundMessage{Kind: KindCanonicalizeRequest, CanonicalizeRequest: r}
			return n, nil
		case fOutboundImportRequest:
			m, n, err := consumeBytesRaw(rest)
			if err != nil {
				return 0, err
			}
			r := &ImportRequest{}
			if err := walkFields(m, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
				switch num {
				case fImportReqID:
					v, n, err := consumeVarint(rest)
					if err != nil {
						return 0, err
					}
					r.ID = int(v)
					return n, nil
				case fImportReqImporterID:
					v, n, err := consumeVarint(rest)
					if err != nil {
						return 0, err
					}
					r.ImporterID = int64(v)
					return n, nil
				case fImportReqURL:
					v, n, err := consumeString(rest)
					if err != nil {
						return 0, err
					}
					r.URL = v
					return n, nil
				}
				return -1, nil
			}); err != nil {
				return 0, err
			}
			out = &OutboundMessage{Kind: KindImportRequest, ImportRequest: r}
			return n, nil
		case fOutboundFileImportRequest:
			m, n, err := consumeBytesRaw(rest)
			if err != nil {
				return 0, err
			}
			r := &FileImportRequest{}
			if err := walkFields(m, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
				switch num {
				case fFileImportReqID:
					v, n, err := consumeVarint(rest)
					if err != nil {
						return 0, err
					}
					r.ID = int(v)
					return n, nil
				case fFileImportReqImporterID:
					v, n, err := consumeVarint(rest)
					if err != nil {
						return 0, err
					}
					r.ImporterID = int64(v)
					return n, nil
				case fFileImportReqURL:
					v, n, err := consumeString(rest)
					if err != nil {
						return 0, err
					}
					r.URL = v
					return n, nil
				case fFileImportReqFromImport:
					v, n, err := consumeVarint(rest)
					if err != nil {
						return 0, err
					}
					r.FromImport = v != 0
					return n, nil
				}
				return -1, nil
			}); err != nil {
				return 0, err
			}
			out = &OutboundMessage{Kind: KindFileImportRequest, FileImportRequest: r}
			return n, nil
		case fOutboundFunctionCallRequest:
			m, n, err := consumeBytesRaw(rest)
			if err != nil {
				return 0, err
			}
			r := &FunctionCallRequest{}
			if err := walkFields(m, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
				switch num {
				case fFnCallReqID:
					v, n, err := consumeVarint(rest)
					if err != nil {
						return 0, err
					}
					r.ID = int(v)
					return n, nil
				case fFnCallReqName:
					v, n, err := consumeString(rest)
					if err != nil {
						return 0, err
					}
					r.Name = &v
					return n, nil
				case fFnCallReqFunctionID:
					v, n, err := consumeVarint(rest)
					if err != nil {
						return 0, err
					}
					id := int64(v)
					r.FunctionID = &id
					return n, nil
				case fFnCallReqArguments:
					vm, n, err := consumeBytesRaw(rest)
					if err != nil {
						return 0, err
					}
					v, err := DecodeValue(vm)
					if err != nil {
						return 0, err
					}
					r.Arguments = append(r.Arguments, v)
					return n, nil
				}
				return -1, nil
			}); err != nil {
				return 0, err
			}
			if r.Name == nil && r.FunctionID == nil {
				return 0, mandatoryError("FunctionCallRequest.identifier is not set")
			}
			out = &OutboundMessage{Kind: KindFunctionCallRequest, FunctionCallRequest: r}
			return n, nil
		case fOutboundError:
			m, n, err := consumeBytesRaw(rest)
			if err != nil {
				return 0, err
			}
			r := &ErrorMessage{}
			if err := walkFields(m, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
				switch num {
				case fErrType:
					v, n, err := consumeVarint(rest)
					if err != nil {
						return 0, err
					}
					r.Type = ErrorType(v)
					return n, nil
				case fErrID:
					v, n, err := consumeVarint(rest)
					if err != nil {
						return 0, err
					}
					r.ID = int(v)
					return n, nil
				case fErrMessage:
					v, n, err := consumeString(rest)
					if err != nil {
						return 0, err
					}
					r.Message = v
					return n, nil
				}
				return -1, nil
			}); err != nil {
				return 0, err
			}
			out = &OutboundMessage{Kind: KindError, Error: r}
			return n, nil
		}
		return -1, nil
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, mandatoryError("OutboundMessage.message is not set")
	}
	return out, nil
}
