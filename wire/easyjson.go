package wire

import (
	"github.com/mailru/easyjson"
	"github.com/mailru/easyjson/jlexer"
	"github.com/mailru/easyjson/jwriter"
)

// Response is the JSON Wire Protocol response envelope.
type Response struct {
	SessionID string              `json:"sessionId"`
	Status    int                 `json:"status"`
	Value     easyjson.RawMessage `json:"value"`
}

// MarshalEasyJSON satisfies easyjson.Marshaler.
func (r Response) MarshalEasyJSON(out *jwriter.Writer) {
	out.RawByte('{')
	out.RawString(`"sessionId":`)
	out.String(r.SessionID)
	out.RawString(`,"status":`)
	out.Int(r.Status)
	out.RawString(`,"value":`)
	if len(r.Value) == 0 {
		out.RawString("null")
	} else {
		out.Raw(r.Value, nil)
	}
	out.RawByte('}')
}

// UnmarshalEasyJSON satisfies easyjson.Unmarshaler.
func (r *Response) UnmarshalEasyJSON(in *jlexer.Lexer) {
	if in.IsNull() {
		in.Skip()
		return
	}
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		if in.IsNull() {
			in.Skip()
			in.WantComma()
			continue
		}
		switch key {
		case "sessionId":
			r.SessionID = in.String()
		case "status":
			r.Status = in.Int()
		case "value":
			r.Value = easyjson.RawMessage(in.Raw())
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
}

// MarshalJSON satisfies json.Marshaler.
func (r Response) MarshalJSON() ([]byte, error) {
	var w jwriter.Writer
	r.MarshalEasyJSON(&w)
	return w.BuildBytes()
}

// UnmarshalJSON satisfies json.Unmarshaler.
func (r *Response) UnmarshalJSON(buf []byte) error {
	l := jlexer.Lexer{Data: buf}
	r.UnmarshalEasyJSON(&l)
	return l.Error()
}
