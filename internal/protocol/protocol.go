// Package protocol implements the SA-MP query wire format: the 11-byte
// information query packet and the decoder for its response payload.
// The codec is pure and performs no I/O.
package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/sampstat/sampstat/internal/models"
)

// PacketSize is the exact length of an outbound query packet. The
// response echoes the same header back before its own payload.
const PacketSize = 11

// OpcodeInfo requests hostname, player counts, gamemode and language.
const OpcodeInfo = 'i'

// magic is the ASCII tag opening every query packet.
var magic = [4]byte{'S', 'A', 'M', 'P'}

var (
	// ErrInvalidTarget reports a malformed address or out-of-range port,
	// rejected before any packet is built.
	ErrInvalidTarget = errors.New("invalid query target")

	// ErrShortResponse reports a payload shorter than the echoed header.
	ErrShortResponse = errors.New("short response")

	// ErrMalformedResponse reports a payload whose fields run past the
	// buffer end.
	ErrMalformedResponse = errors.New("malformed response")
)

// ParseTarget validates an address/port pair and returns it as a Target.
// The address must be an IPv4 dotted-quad, the port in 1-65535.
func ParseTarget(address string, port int) (models.Target, error) {
	ip := net.ParseIP(address)
	if ip == nil || ip.To4() == nil {
		return models.Target{}, fmt.Errorf("%w: address %q is not IPv4", ErrInvalidTarget, address)
	}

	if port < 1 || port > 65535 {
		return models.Target{}, fmt.Errorf("%w: port %d out of range", ErrInvalidTarget, port)
	}

	return models.Target{Address: address, Port: port}, nil
}

// EncodePacket builds the 11-byte information query for a validated
// target: "SAMP", the four address octets, the port little-endian, and
// the opcode.
func EncodePacket(t models.Target) []byte {
	packet := make([]byte, 0, PacketSize)
	packet = append(packet, magic[:]...)

	ip := net.ParseIP(t.Address).To4()
	packet = append(packet, ip...)

	packet = append(packet, byte(t.Port&0xFF), byte(t.Port>>8&0xFF))
	packet = append(packet, OpcodeInfo)

	return packet
}

// DecodeInfo parses an information query response into a Server record.
// The payload opens with an echo of the 11-byte request header, followed
// by a password flag, two little-endian uint16 player counts, and three
// length-prefixed UTF-8 strings: hostname, gamemode, language. Bytes
// trailing the third string are ignored.
func DecodeInfo(payload []byte, t models.Target) (*models.Server, error) {
	if len(payload) < PacketSize {
		return nil, fmt.Errorf("%w: got %d bytes, need at least %d", ErrShortResponse, len(payload), PacketSize)
	}

	body := payload[PacketSize:]
	if len(body) < 5 {
		return nil, fmt.Errorf("%w: truncated fixed fields", ErrMalformedResponse)
	}

	password := body[0] != 0
	players := int(binary.LittleEndian.Uint16(body[1:3]))
	maxPlayers := int(binary.LittleEndian.Uint16(body[3:5]))

	offset := 5
	fields := make([]string, 3)
	for i := range fields {
		s, next, err := readString(body, offset)
		if err != nil {
			return nil, err
		}
		fields[i] = strings.TrimSpace(s)
		offset = next
	}

	return &models.Server{
		Online:     true,
		Password:   password,
		Players:    players,
		MaxPlayers: maxPlayers,
		Hostname:   fields[0],
		Gamemode:   fields[1],
		Language:   fields[2],
		Address:    t.Address,
		Port:       t.Port,
		ObservedAt: time.Now().UTC(),
		Source:     models.SourceReal,
	}, nil
}

// readString consumes a uint32 little-endian length prefix and the
// UTF-8 bytes following it.
func readString(body []byte, offset int) (string, int, error) {
	if offset+4 > len(body) {
		return "", 0, fmt.Errorf("%w: missing string length at offset %d", ErrMalformedResponse, offset)
	}

	n := int(binary.LittleEndian.Uint32(body[offset : offset+4]))
	offset += 4

	if n < 0 || offset+n > len(body) {
		return "", 0, fmt.Errorf("%w: string length %d exceeds buffer", ErrMalformedResponse, n)
	}

	return string(body[offset : offset+n]), offset + n, nil
}
