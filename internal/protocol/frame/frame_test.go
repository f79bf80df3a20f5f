package frame

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeDecodeControlRoundTrip(t *testing.T) {
	buf, err := EncodeControl(SetControlItem, ItemReceiverFrequency, []byte{0, 10, 0, 0, 0, 0})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	fr, err := Decode(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if fr.Kind != KindControl {
		t.Fatalf("kind = %v, want KindControl", fr.Kind)
	}
	if fr.Type != SetControlItem {
		t.Fatalf("type = %v, want SetControlItem", fr.Type)
	}
	if fr.Item != ItemReceiverFrequency {
		t.Fatalf("item = %v, want ItemReceiverFrequency", fr.Item)
	}
	if !bytes.Equal(fr.Body, []byte{0, 10, 0, 0, 0, 0}) {
		t.Fatalf("body = %v", fr.Body)
	}
}

func TestEncodeDecodeAckRoundTrip(t *testing.T) {
	buf, err := EncodeControl(Ack, ItemNone, nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(buf) != 4 {
		t.Fatalf("len(buf) = %d, want 4", len(buf))
	}
	fr, err := Decode(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if fr.Kind != KindControl || fr.Type != Ack || fr.Item != ItemNone {
		t.Fatalf("unexpected frame: %+v", fr)
	}
}

func TestEncodeDecodeDataItem0RoundTrip(t *testing.T) {
	body := []byte{1, 2, 3, 4}
	buf, err := EncodeDataItem0(ItemIQOutputDataSampleRate, body)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	fr, err := Decode(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if fr.Kind != KindDataWithItem {
		t.Fatalf("kind = %v, want KindDataWithItem", fr.Kind)
	}
	if fr.Item != ItemIQOutputDataSampleRate {
		t.Fatalf("item = %v", fr.Item)
	}
	if !bytes.Equal(fr.Body, body) {
		t.Fatalf("body = %v, want %v", fr.Body, body)
	}
}

func TestEncodeDecodeDataItem1RoundTrip(t *testing.T) {
	body := make([]byte, 10)
	for i := range body {
		body[i] = byte(i)
	}
	buf, err := EncodeDataItem1(0xBEEF, body)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	fr, err := Decode(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if fr.Kind != KindDataWithSeq {
		t.Fatalf("kind = %v, want KindDataWithSeq", fr.Kind)
	}
	if fr.Seq != 0xBEEF {
		t.Fatalf("seq = %x, want BEEF", fr.Seq)
	}
	if !bytes.Equal(fr.Body, body) {
		t.Fatalf("body mismatch")
	}
}

func TestEncodeDecodeDataBareRoundTrip(t *testing.T) {
	body := []byte{9, 9, 9}
	buf, err := EncodeDataBare(DataItem2, body)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	fr, err := Decode(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if fr.Kind != KindDataBare || fr.Type != DataItem2 {
		t.Fatalf("unexpected frame: %+v", fr)
	}
	if !bytes.Equal(fr.Body, body) {
		t.Fatalf("body mismatch")
	}
}

func TestEncodeDataMaxSizeUsesZeroLengthEscape(t *testing.T) {
	body := make([]byte, MaxDataFrameLen-4)
	buf, err := EncodeDataItem0(ItemNone, body)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(buf) != MaxDataFrameLen {
		t.Fatalf("len(buf) = %d, want %d", len(buf), MaxDataFrameLen)
	}
	if buf[0] != 0 || buf[1]&0x1F != 0 {
		t.Fatalf("expected zero length field in header, got % x", buf[0:2])
	}
	fr, err := Decode(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(fr.Body) != len(body) {
		t.Fatalf("body len = %d, want %d", len(fr.Body), len(body))
	}
}

func TestEncodeControlTooLongFails(t *testing.T) {
	params := make([]byte, MaxNonDataFrameLen)
	if _, err := EncodeControl(SetControlItem, ItemNone, params); !errors.Is(err, ErrEncodeTooLong) {
		t.Fatalf("err = %v, want ErrEncodeTooLong", err)
	}
}

func TestEncodeWrongCategoryRejected(t *testing.T) {
	if _, err := EncodeControl(DataItem0, ItemNone, nil); err == nil {
		t.Fatalf("expected error encoding DataItem0 as control")
	}
	if _, err := EncodeData(SetControlItem, nil); err == nil {
		t.Fatalf("expected error encoding SetControlItem as data")
	}
}

func TestDecodeEmptyBuffer(t *testing.T) {
	_, err := Decode(nil)
	var de *DecodeError
	if !errors.As(err, &de) || de.Kind != Empty {
		t.Fatalf("err = %v, want DecodeError{Kind: Empty}", err)
	}
}

func TestDecodeLengthMismatchRejected(t *testing.T) {
	buf, err := EncodeControl(Ack, ItemNone, nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	truncated := buf[:len(buf)-1]
	_, err = Decode(truncated)
	var de *DecodeError
	if !errors.As(err, &de) || de.Kind != LengthMismatch {
		t.Fatalf("err = %v, want DecodeError{Kind: LengthMismatch}", err)
	}
}

func TestDecodeDataLength8192And8193Rejected(t *testing.T) {
	// Only a total length of exactly MaxDataFrameLen (8194) maps onto the
	// header's zero-length escape; any declared length of 8192 or 8193
	// bytes cannot be expressed by a data frame header and must be
	// rejected as a length mismatch rather than silently accepted.
	for _, n := range []int{8192, 8193} {
		buf := make([]byte, n)
		buf[0], buf[1] = 0, 0x80 // type=DataItem0, length field = 0 (escape)
		_, err := Decode(buf)
		var de *DecodeError
		if !errors.As(err, &de) || de.Kind != LengthMismatch {
			t.Fatalf("n=%d: err = %v, want DecodeError{Kind: LengthMismatch}", n, err)
		}
	}
}

func TestDecodeUnknownItemCodeRejected(t *testing.T) {
	buf, err := EncodeControl(SetControlItem, ItemNone, nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	buf[2], buf[3] = 0xFF, 0xFF
	_, err = Decode(buf)
	var de *DecodeError
	if !errors.As(err, &de) || de.Kind != UnknownItemCode {
		t.Fatalf("err = %v, want DecodeError{Kind: UnknownItemCode}", err)
	}
}

func TestDecodeErrorIsMatchesByKind(t *testing.T) {
	_, err := Decode(nil)
	if !errors.Is(err, &DecodeError{Kind: Empty}) {
		t.Fatalf("errors.Is should match on Kind alone")
	}
	if errors.Is(err, &DecodeError{Kind: Truncated}) {
		t.Fatalf("errors.Is should not match a different Kind")
	}
}

func TestMessageTypeClassification(t *testing.T) {
	cases := []struct {
		t         MessageType
		isControl bool
		isData    bool
	}{
		{SetControlItem, true, false},
		{CurrentControlItem, true, false},
		{ControlItemRange, true, false},
		{Ack, true, false},
		{DataItem0, false, true},
		{DataItem1, false, true},
		{DataItem2, false, true},
		{DataItem3, false, true},
	}
	for _, tc := range cases {
		if got := tc.t.IsControl(); got != tc.isControl {
			t.Errorf("%v.IsControl() = %v, want %v", tc.t, got, tc.isControl)
		}
		if got := tc.t.IsData(); got != tc.isData {
			t.Errorf("%v.IsData() = %v, want %v", tc.t, got, tc.isData)
		}
	}
}
