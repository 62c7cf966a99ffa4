/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package sixp

import "strconv"

// Packet is a decoded 6P message. Body aliases the buffer it was parsed from.
type Packet struct {
	Version uint8
	Type    Type
	Code    Code
	SFID    uint8
	SeqNo   uint8
	Body    []byte
}

func (p *Packet) String() string {
	return "6P " + p.Type.String() + " " + CodeString(p.Type, p.Code) +
		" sfid=" + strconv.Itoa(int(p.SFID)) + " seqno=" + strconv.Itoa(int(p.SeqNo)) +
		" body=" + strconv.Itoa(len(p.Body))
}

// Parse decodes a 6P message and validates its body length against the message type and code.
func Parse(buf []byte) (*Packet, error) {
	if len(buf) < HeaderSize {
		return nil, ErrHeaderTooShort
	}

	p := &Packet{
		Version: buf[0] & 0x0f,
		Type:    Type((buf[0] >> 4) & 0x03),
		Code:    Code(buf[1]),
		SFID:    buf[2],
		SeqNo:   buf[3],
		Body:    buf[HeaderSize:],
	}
	if err := CheckBodyLength(p.Type, p.Code, len(p.Body)); err != nil {
		return nil, err
	}
	return p, nil
}

// Encode encodes the message, validating its body first.
func (p *Packet) Encode() ([]byte, error) {
	if err := CheckBodyLength(p.Type, p.Code, len(p.Body)); err != nil {
		return nil, err
	}
	wire := make([]byte, HeaderSize+len(p.Body))
	wire[0] = byte(p.Type)<<4 | p.Version&0x0f
	wire[1] = byte(p.Code)
	wire[2] = p.SFID
	wire[3] = p.SeqNo
	copy(wire[HeaderSize:], p.Body)
	return wire, nil
}

// Create builds the wire encoding of a message with the current protocol version.
func Create(t Type, code Code, sfid uint8, seqno uint8, body []byte) ([]byte, error) {
	p := Packet{Version: Version, Type: t, Code: code, SFID: sfid, SeqNo: seqno, Body: body}
	return p.Encode()
}

// CheckBodyLength reports whether a body of the given length is acceptable for a message of type t carrying code.
func CheckBodyLength(t Type, code Code, bodyLen int) error {
	switch t {
	case TypeRequest:
		switch code {
		case CmdAdd, CmdDelete, CmdRelocate, CmdAskChannel:
			if bodyLen < 4 || bodyLen%4 != 0 {
				return ErrInvalidLength
			}
		case CmdAddUplinks, CmdAddDownlinks, CmdAskAdvLink, CmdDeleteUplink, CmdDeleteDownlink:
			if bodyLen < 8 || bodyLen%4 != 0 {
				return ErrInvalidLength
			}
		case CmdCount:
			if bodyLen != 3 {
				return ErrInvalidLength
			}
		case CmdList:
			if bodyLen != 8 {
				return ErrInvalidLength
			}
		case CmdSignal:
			if bodyLen < 2 {
				return ErrInvalidLength
			}
		case CmdClear:
			if bodyLen != 2 {
				return ErrInvalidLength
			}
		default:
			return ErrUnsupportedCode
		}
	case TypeResponse, TypeConfirmation:
		switch code {
		case RcSuccess:
		case RcEOL:
			if bodyLen%4 != 0 {
				return ErrInvalidLength
			}
		case RcErr, RcReset, RcErrVersion, RcErrSFID, RcErrSeqNum, RcErrCellList, RcErrBusy, RcErrLocked:
			if bodyLen != 0 {
				return ErrInvalidLength
			}
		default:
			return ErrUnsupportedCode
		}
	default:
		return ErrUnsupportedType
	}
	return nil
}
