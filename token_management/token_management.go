package token_management

import (
	"fmt"

	"github.com/askdir/askdir/constants/lipgloss"
	"github.com/askdir/askdir/token_management/contracts"
)

// tokenManager accumulates token usage for the lifetime of one session.
type tokenManager struct {
	usedToken       int
	usedInputToken  int
	usedOutputToken int
}

// NewTokenManager creates a new token manager.
func NewTokenManager() contracts.ITokenManagement {
	return &tokenManager{}
}

// UsedTokens accumulates the token count for the session.
func (tm *tokenManager) UsedTokens(inputToken int, outputToken int) {
	tm.usedInputToken += inputToken
	tm.usedOutputToken += outputToken
	tm.usedToken += inputToken + outputToken
}

func (tm *tokenManager) GetCurrentTokenUsage() (total int, input int, output int) {
	return tm.usedToken, tm.usedInputToken, tm.usedOutputToken
}

func (tm *tokenManager) DisplayTokens(chatProviderName string, chatModel string) {
	tokenInfo := fmt.Sprintf("Token Used: %d (Input: %d, Output: %d) - Provider: %s - Model: %s",
		tm.usedToken, tm.usedInputToken, tm.usedOutputToken, chatProviderName, chatModel)

	tokenBox := lipgloss.BoxStyle.Render(tokenInfo)
	fmt.Println(tokenBox)
}

func (tm *tokenManager) ClearToken() {
	tm.usedToken = 0
	tm.usedInputToken = 0
	tm.usedOutputToken = 0
}
