package query

import (
	"encoding/binary"
	"fmt"
	"math/rand"
	"testing"

	"github.com/sampstat/sampstat/internal/mock"
	"github.com/sampstat/sampstat/internal/models"
	"github.com/sampstat/sampstat/internal/protocol"
	"github.com/sampstat/sampstat/internal/transport"
)

// infoPayload builds a valid information response for a target, in the
// shape a live server would send it.
func infoPayload(t models.Target, players, maxPlayers int, hostname, gamemode, language string) []byte {
	payload := protocol.EncodePacket(t)
	payload = append(payload, 0)
	payload = binary.LittleEndian.AppendUint16(payload, uint16(players))
	payload = binary.LittleEndian.AppendUint16(payload, uint16(maxPlayers))

	for _, s := range []string{hostname, gamemode, language} {
		payload = binary.LittleEndian.AppendUint32(payload, uint32(len(s)))
		payload = append(payload, s...)
	}

	return payload
}

// newStubService wires a Service to a canned per-port exchange table
// instead of the UDP transport.
func newStubService(responses map[int][]byte, failures map[int]error) *Service {
	svc := New(transport.Options{}, mock.New(rand.NewSource(1)), nil)
	svc.exchange = func(_ []byte, _ string, port int, _ transport.Options) ([]byte, error) {
		if err, ok := failures[port]; ok {
			return nil, err
		}
		if payload, ok := responses[port]; ok {
			return payload, nil
		}
		return nil, fmt.Errorf("%w: no route", transport.ErrSend)
	}

	return svc
}

func TestOneSuccess(t *testing.T) {
	target := models.Target{Address: "51.79.247.157", Port: 7777}
	svc := newStubService(map[int][]byte{
		7777: infoPayload(target, 42, 100, "MyServer", "DM", "EN"),
	}, nil)

	record := svc.One(target)

	if record.Source != models.SourceReal {
		t.Fatalf("Source = %q, want %q", record.Source, models.SourceReal)
	}
	if record.Players != 42 || record.MaxPlayers != 100 {
		t.Errorf("players = %d/%d, want 42/100", record.Players, record.MaxPlayers)
	}
	if record.Hostname != "MyServer" {
		t.Errorf("Hostname = %q, want %q", record.Hostname, "MyServer")
	}
}

func TestOneFallsBackOnTimeout(t *testing.T) {
	target := models.Target{Address: "51.79.247.157", Port: 7777}
	svc := newStubService(nil, map[int]error{
		7777: fmt.Errorf("%w after 5s", transport.ErrTimeout),
	})

	record := svc.One(target)

	if record == nil {
		t.Fatal("One() = nil, want a synthetic record")
	}
	if record.Source != models.SourceMock {
		t.Fatalf("Source = %q, want %q", record.Source, models.SourceMock)
	}
	if record.Address != target.Address || record.Port != target.Port {
		t.Errorf("target echo = %s:%d, want %s:%d", record.Address, record.Port, target.Address, target.Port)
	}
}

func TestOneFallsBackOnBadPayload(t *testing.T) {
	target := models.Target{Address: "51.79.247.157", Port: 7777}

	for name, payload := range map[string][]byte{
		"short":     {0x53, 0x41},
		"malformed": append(protocol.EncodePacket(target), 0, 42, 0, 100, 0, 0xFF, 0xFF, 0xFF, 0x7F),
	} {
		t.Run(name, func(t *testing.T) {
			svc := newStubService(map[int][]byte{7777: payload}, nil)

			record := svc.One(target)
			if record.Source != models.SourceMock {
				t.Fatalf("Source = %q, want %q", record.Source, models.SourceMock)
			}
		})
	}
}

func TestManyPreservesOrderAndIsolatesFailures(t *testing.T) {
	targets := []models.Target{
		{Address: "10.0.0.1", Port: 7001},
		{Address: "10.0.0.2", Port: 7002},
		{Address: "10.0.0.3", Port: 7003},
	}

	svc := newStubService(map[int][]byte{
		7001: infoPayload(targets[0], 5, 50, "First", "DM", "EN"),
		7003: infoPayload(targets[2], 7, 70, "Third", "RP", "ES"),
	}, map[int]error{
		7002: fmt.Errorf("%w: connection refused", transport.ErrTransport),
	})

	records := svc.Many(targets)

	if len(records) != len(targets) {
		t.Fatalf("Many() returned %d records, want %d", len(records), len(targets))
	}

	for i, record := range records {
		if record.Address != targets[i].Address || record.Port != targets[i].Port {
			t.Errorf("records[%d] = %s:%d, want %s:%d (order not preserved)",
				i, record.Address, record.Port, targets[i].Address, targets[i].Port)
		}
	}

	if records[0].Source != models.SourceReal || records[0].Hostname != "First" {
		t.Errorf("records[0] = %+v, want real record for First", records[0])
	}
	if records[1].Source != models.SourceMock {
		t.Errorf("records[1].Source = %q, want %q", records[1].Source, models.SourceMock)
	}
	if records[2].Source != models.SourceReal || records[2].Hostname != "Third" {
		t.Errorf("records[2] = %+v, want real record for Third", records[2])
	}
}

func TestFailureClass(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("%w after 5s", transport.ErrTimeout), "timeout"},
		{fmt.Errorf("%w: no route", transport.ErrSend), "send"},
		{fmt.Errorf("%w: refused", transport.ErrTransport), "transport"},
		{fmt.Errorf("%w: 2 bytes", protocol.ErrShortResponse), "short_response"},
		{fmt.Errorf("%w: bad length", protocol.ErrMalformedResponse), "malformed_response"},
		{fmt.Errorf("something else"), "other"},
	}

	for _, tt := range tests {
		if got := failureClass(tt.err); got != tt.want {
			t.Errorf("failureClass(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
