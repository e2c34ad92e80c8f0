package websocket

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

const (
	opContinuation = byte(0)
	opText         = byte(1)
	opClose        = byte(8)
	opPing         = byte(9)
	opPong         = byte(10)

	// maxPayloadBytes bounds one message so a hostile length header cannot
	// force an arbitrarily large allocation.
	maxPayloadBytes = 1 << 20
)

var ErrPayloadTooLarge = errors.New("payload too large")

func (that *Server) sendMessage(bufrw *bufio.ReadWriter, action string, payload Payload) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	response := Message{
		Action:  action,
		Payload: payloadBytes,
	}

	responseBytes, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	f := frame{
		isFin:   true,
		opCode:  opText,
		length:  uint64(len(responseBytes)),
		payload: responseBytes,
	}

	if err = writeFrame(bufrw, f); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}

	return nil
}

func (that *Server) sendError(bufrw *bufio.ReadWriter, action, errorMsg string) error {
	if err := that.sendMessage(bufrw, action, Payload{Error: errorMsg}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}

func writeFrame(bufrw *bufio.ReadWriter, frameData frame) error {
	header := frameData.opCode
	if frameData.isFin {
		header |= 0x80
	}

	buf := []byte{header, 0}

	switch {
	case frameData.length < 126:
		buf[1] |= byte(frameData.length)
	case frameData.length < 1<<16:
		buf[1] |= 126
		buf = binary.BigEndian.AppendUint16(buf, uint16(frameData.length))
	default:
		buf[1] |= 127
		buf = binary.BigEndian.AppendUint64(buf, frameData.length)
	}

	buf = append(buf, frameData.payload...)

	if _, err := bufrw.Write(buf); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}

	if err := bufrw.Flush(); err != nil {
		return fmt.Errorf("failed to flush buffer: %w", err)
	}

	return nil
}

// readRequest reads one complete message, reassembling fragmented frames and
// answering control frames along the way. A close frame surfaces as io.EOF.
func (that *Server) readRequest(bufrw *bufio.ReadWriter) ([]byte, error) {
	var message []byte

	for {
		f, err := readFrame(bufrw)
		if err != nil {
			return nil, err
		}

		switch f.opCode {
		case opClose:
			return nil, io.EOF
		case opPing:
			pong := frame{isFin: true, opCode: opPong, length: f.length, payload: f.payload}
			if err = writeFrame(bufrw, pong); err != nil {
				return nil, err
			}
		case opPong:
		case opText, opContinuation:
			message = append(message, f.payload...)
			if uint64(len(message)) > maxPayloadBytes {
				return nil, ErrPayloadTooLarge
			}

			if f.isFin {
				return message, nil
			}
		}
	}
}

func readFrame(bufrw *bufio.ReadWriter) (frame, error) {
	header := make([]byte, 2)
	if _, err := io.ReadFull(bufrw, header); err != nil {
		return frame{}, fmt.Errorf("failed to read header: %w", err)
	}

	isFin := header[0]&0x80 != 0
	opCode := header[0] & 0x0f
	masked := header[1]&0x80 != 0

	length, err := readLength(bufrw, header[1]&0x7f)
	if err != nil {
		return frame{}, err
	}

	if length > maxPayloadBytes {
		return frame{}, ErrPayloadTooLarge
	}

	var mask []byte
	if masked {
		mask = make([]byte, 4)
		if _, err = io.ReadFull(bufrw, mask); err != nil {
			return frame{}, fmt.Errorf("failed to read mask: %w", err)
		}
	}

	payload := make([]byte, length)
	if _, err = io.ReadFull(bufrw, payload); err != nil {
		return frame{}, fmt.Errorf("failed to read payload: %w", err)
	}

	if mask != nil {
		for i := range payload {
			payload[i] ^= mask[i%4]
		}
	}

	return frame{isFin: isFin, opCode: opCode, length: length, payload: payload}, nil
}

func readLength(bufrw *bufio.ReadWriter, lengthByte byte) (uint64, error) {
	switch {
	case lengthByte < 126:
		return uint64(lengthByte), nil
	case lengthByte == 126:
		length := make([]byte, 2)
		if _, err := io.ReadFull(bufrw, length); err != nil {
			return 0, fmt.Errorf("failed to read payload length: %w", err)
		}

		return uint64(binary.BigEndian.Uint16(length)), nil
	default:
		length := make([]byte, 8)
		if _, err := io.ReadFull(bufrw, length); err != nil {
			return 0, fmt.Errorf("failed to read payload length: %w", err)
		}

		return binary.BigEndian.Uint64(length), nil
	}
}
