package tokenloader

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"wallet_client/internal/app/port"
	"wallet_client/internal/domain/entity"
	"wallet_client/internal/pkg/utils"
)

// TokenFileLoader reads sample token lists from <dir>/<network identifier>.json.
type TokenFileLoader struct {
	tokenDirPath string
	logger       port.Logger
}

// NewTokenLoader creates a TokenFileLoader rooted at dir.
func NewTokenLoader(dir string, logger port.Logger) *TokenFileLoader {
	return &TokenFileLoader{tokenDirPath: dir, logger: logger}
}

// LoadTokens returns the valid sample tokens of netDef. A missing file yields an empty list;
// entries with a mismatched chain id or a malformed address are skipped.
func (l *TokenFileLoader) LoadTokens(netDef entity.NetworkDefinition) ([]entity.TokenInfo, error) {
	filePath := filepath.Join(l.tokenDirPath, strings.ToLower(netDef.Identifier)+".json")

	tokensInFile, err := utils.LoadJSON[[]entity.TokenInfo](filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Debug("No sample token file for network", "network", netDef.Identifier, "path", filePath)
			return []entity.TokenInfo{}, nil
		}
		return nil, fmt.Errorf("failed to load token file %s: %w", filePath, err)
	}

	valid := make([]entity.TokenInfo, 0, len(tokensInFile))
	for _, token := range tokensInFile {
		if token.ChainID != netDef.ChainID {
			l.logger.Warn("Token has mismatched ChainID in file, skipping token.",
				"file", filePath, "token_symbol", token.Symbol, "token_address", token.Address,
				"token_chain_id", token.ChainID, "expected_chain_id", netDef.ChainID)
			continue
		}
		if !utils.IsAddress(token.Address) {
			l.logger.Warn("Token has malformed address in file, skipping token.",
				"file", filePath, "token_symbol", token.Symbol, "token_address", token.Address)
			continue
		}
		valid = append(valid, token)
	}
	return valid, nil
}
