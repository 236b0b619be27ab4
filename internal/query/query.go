// Package query composes the protocol codec and the UDP transport into
// the public query surface: One and Many never fail for network
// conditions, substituting a synthesized record whenever the live
// exchange cannot complete.
package query

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sampstat/sampstat/internal/geoip"
	"github.com/sampstat/sampstat/internal/metrics"
	"github.com/sampstat/sampstat/internal/mock"
	"github.com/sampstat/sampstat/internal/models"
	"github.com/sampstat/sampstat/internal/protocol"
	"github.com/sampstat/sampstat/internal/transport"
)

// MaxBatch is the upper bound on targets per Many call, enforced by the
// HTTP layer before the batch reaches this package.
const MaxBatch = 5

// exchangeFunc matches transport.Exchange; tests substitute it.
type exchangeFunc func(packet []byte, address string, port int, opts transport.Options) ([]byte, error)

// Service runs live queries with a synthetic fallback.
type Service struct {
	geo      *geoip.Provider
	synth    *mock.Generator
	exchange exchangeFunc
	opts     transport.Options
}

// New creates a Service. geo may be nil when country enrichment is
// disabled.
func New(opts transport.Options, synth *mock.Generator, geo *geoip.Provider) *Service {
	return &Service{
		opts:     opts,
		synth:    synth,
		geo:      geo,
		exchange: transport.Exchange,
	}
}

// outcome is the internal result of one live attempt: either a decoded
// record or the failure that prevented one.
type outcome struct {
	record *models.Server
	err    error
}

// queryOne performs a single fresh exchange and decode. Every transport
// and codec failure is absorbed into the outcome.
func (s *Service) queryOne(t models.Target) outcome {
	packet := protocol.EncodePacket(t)

	start := time.Now()
	payload, err := s.exchange(packet, t.Address, t.Port, s.opts)
	metrics.QueryDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		return outcome{err: err}
	}

	record, err := protocol.DecodeInfo(payload, t)
	if err != nil {
		return outcome{err: err}
	}

	return outcome{record: record}
}

// One resolves a single validated target to a record. On any live
// failure it substitutes a synthesized record; the Source field tells
// the two apart. It never returns an error for network conditions.
func (s *Service) One(t models.Target) *models.Server {
	out := s.queryOne(t)

	record := out.record
	if record == nil {
		metrics.QueriesTotal.WithLabelValues(string(models.SourceMock)).Inc()
		metrics.QueryFailures.WithLabelValues(failureClass(out.err)).Inc()

		log.Debug().
			Err(out.err).
			Str("address", t.Address).
			Int("port", t.Port).
			Msg("Live query failed, serving synthetic record")

		record = s.synth.Synthesize(t)
	} else {
		metrics.QueriesTotal.WithLabelValues(string(models.SourceReal)).Inc()
	}

	if s.geo != nil {
		record.CountryCode = s.geo.Lookup(t.Address)
	}

	return record
}

// Many resolves each target independently and returns records in input
// order. A failure on one target never affects the others.
func (s *Service) Many(targets []models.Target) []*models.Server {
	records := make([]*models.Server, len(targets))

	var wg sync.WaitGroup
	for i, t := range targets {
		wg.Add(1)
		go func(i int, t models.Target) {
			defer wg.Done()
			records[i] = s.One(t)
		}(i, t)
	}
	wg.Wait()

	return records
}

// failureClass maps a live failure to a metrics label.
func failureClass(err error) string {
	switch {
	case errors.Is(err, transport.ErrTimeout):
		return "timeout"
	case errors.Is(err, transport.ErrSend):
		return "send"
	case errors.Is(err, transport.ErrTransport):
		return "transport"
	case errors.Is(err, protocol.ErrShortResponse):
		return "short_response"
	case errors.Is(err, protocol.ErrMalformedResponse):
		return "malformed_response"
	default:
		return "other"
	}
}
