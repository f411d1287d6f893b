// Package query serves read-side views over the ledger stores.
//
// Consistency model: every operation scans each entity type it needs with
// one List call, so results are read-committed per entity type. There is no
// snapshot isolation across types; an operation that joins pools and
// activities can observe an activity whose pool landed after the pool scan.
// Callers that need a coherent cross-type view retry at the edge.
package query

import (
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/wildanre/ponder-etherlink/internal/domain"
	"github.com/wildanre/ponder-etherlink/internal/observability"
	"github.com/wildanre/ponder-etherlink/internal/storage"
)

const defaultPageLimit = 50

// Service answers read queries over the ledger stores.
type Service struct {
	pools      storage.PoolStore
	positions  storage.PositionStore
	activities storage.ActivityStore
	log        zerolog.Logger

	now func() time.Time // injectable for deterministic time windows
}

// NewService creates a query service over the given stores.
func NewService(pools storage.PoolStore, positions storage.PositionStore, activities storage.ActivityStore, log zerolog.Logger) *Service {
	return &Service{
		pools:      pools,
		positions:  positions,
		activities: activities,
		log:        log,
		now:        time.Now,
	}
}

// Page is an offset/limit pagination request.
type Page struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

func (p Page) normalize() Page {
	if p.Limit <= 0 {
		p.Limit = defaultPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// Pagination echoes the applied window back to the caller.
type Pagination struct {
	Offset  int  `json:"offset"`
	Limit   int  `json:"limit"`
	HasMore bool `json:"hasMore"`
}

func paginate[T any](items []T, p Page) ([]T, Pagination) {
	p = p.normalize()
	total := len(items)

	start := p.Offset
	if start > total {
		start = total
	}
	end := start + p.Limit
	if end > total {
		end = total
	}

	return items[start:end], Pagination{
		Offset:  p.Offset,
		Limit:   p.Limit,
		HasMore: p.Offset+p.Limit < total,
	}
}

// sortNewestFirst orders activities by (timestamp, blockNumber, logIndex)
// descending. The full key keeps pagination stable when many records share
// a block timestamp.
func sortNewestFirst(acts []*domain.Activity) {
	sort.Slice(acts, func(i, j int) bool {
		a, b := acts[i], acts[j]
		if a.Timestamp != b.Timestamp {
			return a.Timestamp > b.Timestamp
		}
		if a.BlockNumber != b.BlockNumber {
			return a.BlockNumber > b.BlockNumber
		}
		return a.LogIndex > b.LogIndex
	})
}

func (s *Service) observe(op string) func() {
	start := time.Now()
	return func() {
		observability.RecordQueryDuration(op, time.Since(start).Seconds())
	}
}

// timeframeSeconds resolves the shared timeframe vocabulary. "all" means no
// window and returns ok with zero seconds.
func timeframeSeconds(tf string) (seconds int64, all bool, ok bool) {
	switch tf {
	case "all":
		return 0, true, true
	case "1h":
		return 3600, false, true
	case "24h", "1d":
		return 24 * 3600, false, true
	case "7d":
		return 7 * 24 * 3600, false, true
	case "30d":
		return 30 * 24 * 3600, false, true
	case "90d":
		return 90 * 24 * 3600, false, true
	}
	return 0, false, false
}

func intervalSeconds(iv string) (int64, bool) {
	switch iv {
	case "1h":
		return 3600, true
	case "4h":
		return 4 * 3600, true
	case "12h":
		return 12 * 3600, true
	case "1d":
		return 24 * 3600, true
	}
	return 0, false
}
