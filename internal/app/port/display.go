package port

import (
	"wallet_client/internal/domain/entity"
)

// Display is the set of named output fields the client writes to.
type Display interface {
	ShowAccount(address string, network entity.NetworkInfo)
	ClearAccount()
	ShowNativeBalance(reading entity.Reading[string], symbol string)
	ShowNativeBalanceUSD(value string)
	ShowToken(reading entity.Reading[entity.TokenView])
	ShowOutcome(outcome entity.TransactionOutcome)
	ShowStatus(msg string, isError bool)
	ShowError(err error)
	Reset()
}
