package service

import (
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"wallet_client/internal/domain/entity"
)

func TestTransferTrackerKeepsLatestOutcome(t *testing.T) {
	tracker := NewTransferTracker(time.Minute)
	hash := common.HexToHash("0x01")

	_, ok := tracker.Lookup(hash)
	require.False(t, ok)

	tracker.Record(entity.Submitted(entity.NativeAsset, hash))
	got, ok := tracker.Lookup(hash)
	require.True(t, ok)
	require.Equal(t, entity.OutcomeSubmitted, got.Kind)

	tracker.Record(entity.Confirmed(entity.NativeAsset, hash))
	got, ok = tracker.Lookup(hash)
	require.True(t, ok)
	require.Equal(t, entity.OutcomeConfirmed, got.Kind)
}

func TestTransferTrackerIgnoresUnsubmitted(t *testing.T) {
	tracker := NewTransferTracker(time.Minute)
	tracker.Record(entity.Failed(entity.NativeAsset, common.Hash{}, errors.New("rejected")))

	_, ok := tracker.Lookup(common.Hash{})
	require.False(t, ok)
}
