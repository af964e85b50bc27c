package service

import (
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/patrickmn/go-cache"

	"wallet_client/internal/app/port"
	"wallet_client/internal/domain/entity"
)

// transferTrackerImpl keeps the latest outcome per transaction hash for ttl.
type transferTrackerImpl struct {
	outcomes *cache.Cache
}

// NewTransferTracker creates a tracker whose entries expire after ttl.
func NewTransferTracker(ttl time.Duration) port.TransferTracker {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &transferTrackerImpl{outcomes: cache.New(ttl, ttl/2)}
}

// Record stores outcome under its hash. Outcomes without a hash were never submitted and are dropped.
func (t *transferTrackerImpl) Record(outcome entity.TransactionOutcome) {
	if outcome.TxHash == (common.Hash{}) {
		return
	}
	t.outcomes.SetDefault(trackerKey(outcome.TxHash), outcome)
}

func (t *transferTrackerImpl) Lookup(hash common.Hash) (entity.TransactionOutcome, bool) {
	v, ok := t.outcomes.Get(trackerKey(hash))
	if !ok {
		return entity.TransactionOutcome{}, false
	}
	return v.(entity.TransactionOutcome), true
}

func trackerKey(hash common.Hash) string {
	return strings.ToLower(hash.Hex())
}
