package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// User errors
	ErrMsgUserNotFound     = "user not found"
	ErrMsgNicknameRequired = "nickname is required"
	ErrMsgUnauthorized     = "invalid or missing token"

	// Ledger errors
	ErrMsgInsufficientFunds = "insufficient funds"
	ErrMsgNotOwned          = "item is not owned"

	// Case errors
	ErrMsgCaseNotFound     = "case not found"
	ErrMsgInvalidDropTable = "invalid drop table"

	// Upgrade errors
	ErrMsgInvalidSelection  = "invalid item selection"
	ErrMsgInvalidChance     = "unsupported chance tier"
	ErrMsgTargetNotEligible = "target no longer eligible"
	ErrMsgTargetNotFound    = "target item not found"

	// Cooldown errors
	ErrMsgOnCooldown = "bonus claim on cooldown"

	// Giveaway errors
	ErrMsgGiveawayNotFound = "giveaway not found"
	ErrMsgGiveawayClosed   = "giveaway is closed"
	ErrMsgAlreadyJoined    = "already joined this giveaway"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// User errors
	ErrUserNotFound     = errors.New(ErrMsgUserNotFound)
	ErrNicknameRequired = errors.New(ErrMsgNicknameRequired)
	ErrUnauthorized     = errors.New(ErrMsgUnauthorized)

	// Ledger errors
	ErrInsufficientFunds = errors.New(ErrMsgInsufficientFunds)
	ErrNotOwned          = errors.New(ErrMsgNotOwned)

	// Case errors
	ErrCaseNotFound     = errors.New(ErrMsgCaseNotFound)
	ErrInvalidDropTable = errors.New(ErrMsgInvalidDropTable)

	// Upgrade errors
	ErrInvalidSelection  = errors.New(ErrMsgInvalidSelection)
	ErrInvalidChance     = errors.New(ErrMsgInvalidChance)
	ErrTargetNotEligible = errors.New(ErrMsgTargetNotEligible)
	ErrTargetNotFound    = errors.New(ErrMsgTargetNotFound)

	// Cooldown errors
	ErrOnCooldown = errors.New(ErrMsgOnCooldown)

	// Giveaway errors
	ErrGiveawayNotFound = errors.New(ErrMsgGiveawayNotFound)
	ErrGiveawayClosed   = errors.New(ErrMsgGiveawayClosed)
	ErrAlreadyJoined    = errors.New(ErrMsgAlreadyJoined)

	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
