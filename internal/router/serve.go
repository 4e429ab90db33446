package router

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// MaxMessageSize bounds a single incoming native-messaging frame.
const MaxMessageSize = 1 << 20

var ErrMessageTooLarge = errors.New("message too large")

// Serve runs the native-messaging loop: each frame is a 4-byte
// little-endian length followed by that many bytes of JSON. Every request
// gets exactly one framed Response. Serve returns nil on a clean EOF
// between frames.
//
// Cancellation is checked between frames; a blocked read is not
// interrupted.
func (r *Router) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		payload, err := ReadFrame(in)
		if errors.Is(err, io.EOF) {
			r.log.Debug().Msg("Input closed")
			return nil
		}
		if err != nil {
			return err
		}

		var req Request
		var resp Response
		if err := json.Unmarshal(payload, &req); err != nil {
			resp = Response{Success: false, Error: fmt.Sprintf("invalid message: %v", err)}
		} else {
			resp = r.Handle(ctx, req)
		}

		if err := WriteFrame(out, resp); err != nil {
			return err
		}
	}
}

// ReadFrame reads one length-prefixed message. It returns io.EOF only when
// the stream ends before any byte of a new frame.
func ReadFrame(in io.Reader) ([]byte, error) {
	var size uint32
	if err := binary.Read(in, binary.LittleEndian, &size); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("read frame length: %w", err)
		}
		return nil, err
	}
	if size > MaxMessageSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, size)
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(in, payload); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("read frame body: %w", err)
	}
	return payload, nil
}

// WriteFrame encodes v as JSON and writes it with its length prefix.
func WriteFrame(out io.Writer, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	if err := binary.Write(out, binary.LittleEndian, uint32(len(payload))); err != nil {
		return fmt.Errorf("write frame length: %w", err)
	}
	if _, err := out.Write(payload); err != nil {
		return fmt.Errorf("write frame body: %w", err)
	}
	return nil
}
