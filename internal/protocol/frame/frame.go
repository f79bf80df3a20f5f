// Package frame implements the NetSDR wire framing: a packed 16-bit
// length/type header plus the per-type item-code or sequence-number
// sub-header.
package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// MessageType is the 3-bit message type carried in the header's top bits.
type MessageType uint8

const (
	SetControlItem MessageType = iota
	CurrentControlItem
	ControlItemRange
	Ack
	DataItem0
	DataItem1
	DataItem2
	DataItem3
)

func (t MessageType) String() string {
	switch t {
	case SetControlItem:
		return "SetControlItem"
	case CurrentControlItem:
		return "CurrentControlItem"
	case ControlItemRange:
		return "ControlItemRange"
	case Ack:
		return "Ack"
	case DataItem0:
		return "DataItem0"
	case DataItem1:
		return "DataItem1"
	case DataItem2:
		return "DataItem2"
	case DataItem3:
		return "DataItem3"
	default:
		return fmt.Sprintf("MessageType(%d)", uint8(t))
	}
}

// IsControl reports whether t is one of the four control message types.
func (t MessageType) IsControl() bool { return t <= Ack }

// IsData reports whether t is one of the four data message types.
func (t MessageType) IsData() bool { return t >= DataItem0 }

// ItemCode is the 16-bit control-item identifier carried by control and
// DataItem0 frames. The set of valid codes is closed: anything else fails
// to decode.
type ItemCode uint16

const (
	ItemNone                   ItemCode = 0x0000
	ItemIQOutputDataSampleRate ItemCode = 0x00B8
	ItemRFFilter               ItemCode = 0x0044
	ItemADModes                ItemCode = 0x008A
	ItemReceiverState          ItemCode = 0x0018
	ItemReceiverFrequency      ItemCode = 0x0020
)

// Known reports whether c belongs to the closed set of item codes the
// protocol defines.
func (c ItemCode) Known() bool {
	switch c {
	case ItemNone, ItemIQOutputDataSampleRate, ItemRFFilter, ItemADModes,
		ItemReceiverState, ItemReceiverFrequency:
		return true
	default:
		return false
	}
}

func (c ItemCode) String() string {
	switch c {
	case ItemNone:
		return "None"
	case ItemIQOutputDataSampleRate:
		return "IQOutputDataSampleRate"
	case ItemRFFilter:
		return "RFFilter"
	case ItemADModes:
		return "ADModes"
	case ItemReceiverState:
		return "ReceiverState"
	case ItemReceiverFrequency:
		return "ReceiverFrequency"
	default:
		return fmt.Sprintf("ItemCode(0x%04X)", uint16(c))
	}
}

// Kind distinguishes the four body shapes a decoded Frame can take, in
// place of the reference implementation's out-parameter idiom.
type Kind uint8

const (
	// KindControl is a SetControlItem/CurrentControlItem/ControlItemRange/Ack
	// frame: carries an item code, no sequence number.
	KindControl Kind = iota
	// KindDataWithItem is a DataItem0 frame: carries an item code.
	KindDataWithItem
	// KindDataWithSeq is a DataItem1 frame: carries a sequence number.
	KindDataWithSeq
	// KindDataBare is a DataItem2/DataItem3 frame: no sub-header.
	KindDataBare
)

// Frame is one decoded on-wire message.
type Frame struct {
	Kind Kind
	Type MessageType
	Item ItemCode // meaningful for KindControl and KindDataWithItem
	Seq  uint16   // meaningful for KindDataWithSeq
	Body []byte
}

const (
	headerLen = 2

	// MaxDataFrameLen is the maximum total encoded length (header included)
	// for a data-frame type; reaching it is encoded with a zero length field.
	MaxDataFrameLen = 8194
	// MaxNonDataFrameLen is the maximum total encoded length otherwise
	// expressible in the header's 13-bit length field.
	MaxNonDataFrameLen = 8191

	lengthMask = 0x1FFF
	typeShift  = 13
)

// ErrEncodeTooLong is returned when a requested encoding's total length
// cannot be represented in the header.
var ErrEncodeTooLong = errors.New("frame: encoded length exceeds protocol maximum")

// DecodeErrorKind enumerates the reasons Decode can reject a buffer.
type DecodeErrorKind int

const (
	Empty DecodeErrorKind = iota
	LengthMismatch
	UnknownItemCode
	Truncated
)

func (k DecodeErrorKind) String() string {
	switch k {
	case Empty:
		return "empty"
	case LengthMismatch:
		return "length_mismatch"
	case UnknownItemCode:
		return "unknown_item_code"
	case Truncated:
		return "truncated"
	default:
		return "unknown"
	}
}

// DecodeError reports why Decode rejected a buffer.
type DecodeError struct {
	Kind   DecodeErrorKind
	Detail string
}

func (e *DecodeError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("frame: decode failed: %s", e.Kind)
	}
	return fmt.Sprintf("frame: decode failed: %s: %s", e.Kind, e.Detail)
}

// Is lets errors.Is match against a DecodeError of the same Kind, ignoring
// Detail, so callers can test errors.Is(err, &DecodeError{Kind: Truncated}).
func (e *DecodeError) Is(target error) bool {
	other, ok := target.(*DecodeError)
	if !ok {
		return false
	}
	return other.Kind == e.Kind
}

func decodeErr(kind DecodeErrorKind, detail string) error {
	return &DecodeError{Kind: kind, Detail: detail}
}

// packHeader computes the little-endian header word for a frame of the
// given type whose total encoded length (header included) is totalLen.
func packHeader(t MessageType, totalLen int) ([2]byte, error) {
	var out [2]byte
	if totalLen < 0 {
		return out, ErrEncodeTooLong
	}
	l := totalLen
	if t.IsData() && l == MaxDataFrameLen {
		l = 0
	} else if l > MaxNonDataFrameLen {
		return out, ErrEncodeTooLong
	}
	word := uint16(l&lengthMask) | (uint16(t) << typeShift)
	binary.LittleEndian.PutUint16(out[:], word)
	return out, nil
}

// EncodeControl builds a control frame: header, item code, then params.
// t must be one of SetControlItem, CurrentControlItem, ControlItemRange, Ack.
func EncodeControl(t MessageType, item ItemCode, params []byte) ([]byte, error) {
	if !t.IsControl() {
		return nil, fmt.Errorf("frame: EncodeControl: %s is not a control message type", t)
	}
	total := headerLen + 2 + len(params)
	hdr, err := packHeader(t, total)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 0, total)
	buf = append(buf, hdr[:]...)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(item))
	buf = append(buf, params...)
	return buf, nil
}

// EncodeData builds a data frame: header followed verbatim by params.
// Callers of DataItem0/DataItem1 are responsible for placing the item code
// or sequence number as the first two bytes of params; DataItem2/3 carry
// no sub-header at all. Prefer EncodeDataItem0/1/Bare below.
func EncodeData(t MessageType, params []byte) ([]byte, error) {
	if !t.IsData() {
		return nil, fmt.Errorf("frame: EncodeData: %s is not a data message type", t)
	}
	total := headerLen + len(params)
	hdr, err := packHeader(t, total)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 0, total)
	buf = append(buf, hdr[:]...)
	buf = append(buf, params...)
	return buf, nil
}

// EncodeDataItem0 builds a DataItem0 frame from an item code and body.
func EncodeDataItem0(item ItemCode, body []byte) ([]byte, error) {
	params := make([]byte, 0, 2+len(body))
	params = binary.LittleEndian.AppendUint16(params, uint16(item))
	params = append(params, body...)
	return EncodeData(DataItem0, params)
}

// EncodeDataItem1 builds a DataItem1 frame from a sequence number and body.
func EncodeDataItem1(seq uint16, body []byte) ([]byte, error) {
	params := make([]byte, 0, 2+len(body))
	params = binary.LittleEndian.AppendUint16(params, seq)
	params = append(params, body...)
	return EncodeData(DataItem1, params)
}

// EncodeDataBare builds a DataItem2/DataItem3 frame with no sub-header.
func EncodeDataBare(t MessageType, body []byte) ([]byte, error) {
	if t != DataItem2 && t != DataItem3 {
		return nil, fmt.Errorf("frame: EncodeDataBare: %s is not DataItem2/DataItem3", t)
	}
	return EncodeData(t, body)
}

// Decode parses one complete framed buffer: one datagram, or one
// length-delimited slice pulled off a stream. It never returns a partial
// result; any failure is reported as a *DecodeError and the frame should be
// dropped by the caller.
func Decode(buf []byte) (Frame, error) {
	if len(buf) < 2 {
		return Frame{}, decodeErr(Empty, "")
	}

	w := binary.LittleEndian.Uint16(buf[0:2])
	t := MessageType(w >> typeShift)
	declared := int(w & lengthMask)
	if t.IsData() && declared == 0 {
		declared = MaxDataFrameLen
	}
	if declared != len(buf) {
		return Frame{}, decodeErr(LengthMismatch, fmt.Sprintf("declared=%d actual=%d", declared, len(buf)))
	}

	switch {
	case t.IsControl():
		if len(buf) < 4 {
			return Frame{}, decodeErr(Truncated, "control frame shorter than 4 bytes")
		}
		item := ItemCode(binary.LittleEndian.Uint16(buf[2:4]))
		if !item.Known() {
			return Frame{}, decodeErr(UnknownItemCode, item.String())
		}
		return Frame{Kind: KindControl, Type: t, Item: item, Body: buf[4:]}, nil

	case t == DataItem0:
		if len(buf) < 4 {
			return Frame{}, decodeErr(Truncated, "DataItem0 frame shorter than 4 bytes")
		}
		item := ItemCode(binary.LittleEndian.Uint16(buf[2:4]))
		if !item.Known() {
			return Frame{}, decodeErr(UnknownItemCode, item.String())
		}
		return Frame{Kind: KindDataWithItem, Type: t, Item: item, Body: buf[4:]}, nil

	case t == DataItem1:
		if len(buf) < 4 {
			return Frame{}, decodeErr(Truncated, "DataItem1 frame shorter than 4 bytes")
		}
		seq := binary.LittleEndian.Uint16(buf[2:4])
		return Frame{Kind: KindDataWithSeq, Type: t, Seq: seq, Body: buf[4:]}, nil

	default: // DataItem2, DataItem3
		return Frame{Kind: KindDataBare, Type: t, Body: buf[2:]}, nil
	}
}
