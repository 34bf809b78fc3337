// Package transport implements the two external wire adapters: a
// filesystem Unix socket speaking newline-delimited JSON command/response
// envelopes, and an HTTP/JSON adapter built on gin.
package transport

import (
	"encoding/json"
	"fmt"

	"github.com/rbright/talkd/internal/audio"
	"github.com/rbright/talkd/internal/daemon"
	"github.com/rbright/talkd/internal/fsm"
)

// envelope is the shared wire shape for both commands and responses:
// {"type": <tag>, "data": <payload>}.
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type sessionPayload struct {
	InputDevice    string `json:"input_device,omitempty"`
	SampleRateHint uint32 `json:"sample_rate,omitempty"`
	Prompt         string `json:"prompt,omitempty"`
	Model          string `json:"model,omitempty"`
}

// modeEnvelope is Mode's own tagged wire shape, mirroring the outer
// envelope's {"type":...} convention so a Mode value can be used verbatim
// both as the mode command's payload and nested inside new_mode and
// transcription responses.
type modeEnvelope struct {
	Type string `json:"type"`
}

// DecodeCommand parses one command envelope.
func DecodeCommand(line []byte) (daemon.Command, error) {
	var env envelope
	if err := json.Unmarshal(line, &env); err != nil {
		return daemon.Command{}, fmt.Errorf("decode command envelope: %w", err)
	}

	switch env.Type {
	case "start":
		var p sessionPayload
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, &p); err != nil {
				return daemon.Command{}, fmt.Errorf("decode start payload: %w", err)
			}
		}
		return daemon.Command{
			Kind: fsm.CommandStart,
			Session: audio.Session{
				InputDevice:    p.InputDevice,
				SampleRateHint: p.SampleRateHint,
				Prompt:         p.Prompt,
				Model:          p.Model,
			},
		}, nil

	case "stop":
		return daemon.Command{Kind: fsm.CommandStop}, nil

	case "reset":
		return daemon.Command{Kind: fsm.CommandReset}, nil

	case "mode":
		mode, err := decodeMode(env.Data)
		if err != nil {
			return daemon.Command{}, fmt.Errorf("decode mode payload: %w", err)
		}
		return daemon.Command{Kind: fsm.CommandMode, Mode: mode}, nil

	case "respond":
		resp, err := decodeResponse(env.Data)
		if err != nil {
			return daemon.Command{}, fmt.Errorf("decode respond payload: %w", err)
		}
		return daemon.Command{Kind: fsm.CommandRespond, Respond: resp}, nil

	default:
		return daemon.Command{}, fmt.Errorf("unknown command type %q", env.Type)
	}
}

// EncodeResponse serializes one response envelope (without a trailing newline).
func EncodeResponse(resp daemon.Response) ([]byte, error) {
	var env envelope
	var data any

	switch resp.Kind {
	case daemon.ResponseAck:
		env.Type = "ack"
		data = resp.AckMs
	case daemon.ResponseNil:
		env.Type = "nil"
	case daemon.ResponseError:
		env.Type = "error"
		data = resp.Message
	case daemon.ResponseExit:
		env.Type = "exit"
		data = resp.Code
	case daemon.ResponseNewMode:
		env.Type = "new_mode"
		data = encodeMode(resp.Mode)
	case daemon.ResponseTranscription:
		env.Type = "transcription"
		data = map[string]any{"content": resp.Content, "mode": encodeMode(resp.Mode)}
	default:
		return nil, fmt.Errorf("unknown response kind %d", resp.Kind)
	}

	if data != nil {
		encoded, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("encode response payload: %w", err)
		}
		env.Data = encoded
	}

	return json.Marshal(env)
}

// decodeResponse parses a full {"type":...,"data":...} response envelope —
// the shape a respond command's payload carries, so the daemon can emit it
// back out verbatim.
func decodeResponse(data json.RawMessage) (daemon.Response, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return daemon.Response{}, fmt.Errorf("decode response envelope: %w", err)
	}

	switch env.Type {
	case "ack":
		var ackMs int64
		if err := json.Unmarshal(env.Data, &ackMs); err != nil {
			return daemon.Response{}, fmt.Errorf("decode ack data: %w", err)
		}
		return daemon.Response{Kind: daemon.ResponseAck, AckMs: ackMs}, nil

	case "nil":
		return daemon.Response{Kind: daemon.ResponseNil}, nil

	case "error":
		var message string
		if err := json.Unmarshal(env.Data, &message); err != nil {
			return daemon.Response{}, fmt.Errorf("decode error data: %w", err)
		}
		return daemon.Response{Kind: daemon.ResponseError, Message: message}, nil

	case "exit":
		var code int
		if err := json.Unmarshal(env.Data, &code); err != nil {
			return daemon.Response{}, fmt.Errorf("decode exit data: %w", err)
		}
		return daemon.Response{Kind: daemon.ResponseExit, Code: code}, nil

	case "new_mode":
		mode, err := decodeMode(env.Data)
		if err != nil {
			return daemon.Response{}, fmt.Errorf("decode new_mode data: %w", err)
		}
		return daemon.Response{Kind: daemon.ResponseNewMode, Mode: mode}, nil

	case "transcription":
		var p struct {
			Content *string         `json:"content"`
			Mode    json.RawMessage `json:"mode"`
		}
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return daemon.Response{}, fmt.Errorf("decode transcription data: %w", err)
		}
		mode, err := decodeMode(p.Mode)
		if err != nil {
			return daemon.Response{}, fmt.Errorf("decode transcription mode: %w", err)
		}
		return daemon.Response{Kind: daemon.ResponseTranscription, Content: p.Content, Mode: mode}, nil

	default:
		return daemon.Response{}, fmt.Errorf("unknown response type %q", env.Type)
	}
}

// decodeMode parses Mode's tagged wire shape, {"type":"standard"} or
// {"type":"live_typing"}.
func decodeMode(data json.RawMessage) (fsm.Mode, error) {
	var env modeEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fsm.ModeStandard, fmt.Errorf("decode mode: %w", err)
	}
	switch env.Type {
	case "standard":
		return fsm.ModeStandard, nil
	case "live_typing":
		return fsm.ModeLiveTyping, nil
	default:
		return fsm.ModeStandard, fmt.Errorf("unknown mode type %q", env.Type)
	}
}

// encodeMode renders Mode as its own tagged object, matching decodeMode.
func encodeMode(m fsm.Mode) modeEnvelope {
	if m == fsm.ModeLiveTyping {
		return modeEnvelope{Type: "live_typing"}
	}
	return modeEnvelope{Type: "standard"}
}
