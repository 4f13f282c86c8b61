package lrucache

import (
	"errors"
	"time"

	"github.com/facebookgo/stackerr"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/0xShamil/lru-cache/log"
)

// DefaultInitialCapacity is the key table sizing hint used when
// Config.InitialCapacity is zero.
const DefaultInitialCapacity = 16

// ErrMaximumSizeRequired is returned by New when Config.MaximumSize is unset
// or not positive. Callers match on the message, so it is fixed.
var ErrMaximumSizeRequired = errors.New("Maximum size of the cache should be specified")

// Clock provides the current time to the cache. The default uses time.Now;
// tests substitute it to drive expiration deterministically.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Config assembles a Cache. MaximumSize is required; zero values everywhere
// else select defaults.
type Config[K comparable, V any] struct {
	// MaximumSize is the entry count bound. Required, must be positive.
	MaximumSize int
	// InitialCapacity is a sizing hint for the key table.
	// Default DefaultInitialCapacity.
	InitialCapacity int
	// ExpiresAfterWrite bounds entry age from write time. Zero means entries
	// never expire.
	ExpiresAfterWrite time.Duration
	// FIFOMode disables repositioning on read; eviction order is then pure
	// insertion order.
	FIFOMode bool
	// AccessQueue overrides the built-in lock-free access queue.
	AccessQueue Deque[K, V]
	// Clock overrides the time source.
	Clock Clock
	// Logger receives debug output for expirations and evictions.
	// Default discards everything.
	Logger log.Logger
}

// New validates conf and builds an immutable Cache. The returned cache needs
// no teardown beyond Clear.
func New[K comparable, V any](conf Config[K, V]) (*Cache[K, V], error) {
	if conf.MaximumSize <= 0 {
		return nil, ErrMaximumSizeRequired
	}
	if conf.InitialCapacity < 0 {
		return nil, stackerr.Newf("initial capacity should not be negative: %v", conf.InitialCapacity)
	}
	capacity := conf.InitialCapacity
	if capacity == 0 {
		capacity = DefaultInitialCapacity
	}
	queue := conf.AccessQueue
	if queue == nil {
		queue = NewDirectDeque[K, V]()
	}
	clock := conf.Clock
	if clock == nil {
		clock = realClock{}
	}
	logger := conf.Logger
	if logger == nil {
		logger = log.NewNop()
	}
	return &Cache[K, V]{
		table:      xsync.NewMapOf[K, *Entry[K, V]](xsync.WithPresize(capacity)),
		queue:      queue,
		maxEntries: conf.MaximumSize,
		maxAge:     conf.ExpiresAfterWrite,
		fifoMode:   conf.FIFOMode,
		clock:      clock,
		log:        logger,
	}, nil
}
