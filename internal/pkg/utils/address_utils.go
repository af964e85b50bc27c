package utils

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// IsAddress reports whether s is a well-formed account or contract address.
// All-lowercase and all-uppercase hex are accepted as is; mixed case must carry a valid EIP-55 checksum.
func IsAddress(s string) bool {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return false
	}
	body := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if body == strings.ToLower(body) || body == strings.ToUpper(body) {
		return true
	}
	return "0x"+body == common.HexToAddress(body).Hex()
}

// ParseAddress validates s and returns the address it names.
func ParseAddress(s string) (common.Address, bool) {
	if !IsAddress(s) {
		return common.Address{}, false
	}
	return common.HexToAddress(strings.TrimSpace(s)), true
}
