package battle

import "errors"

// Sentinel errors
var (
	ErrInvalidBattle = errors.New("invalid battle")
	ErrNoBattle      = errors.New("no battle loaded")
	ErrNoSelection   = errors.New("no network selected")
	ErrAlreadyVoted  = errors.New("vote already submitted")
	ErrUnknownSide   = errors.New("unknown network side")
	ErrUnknownAction = errors.New("unknown action")
	ErrNoMoreBattles = errors.New("no more battles")
	ErrQueueFull     = errors.New("telemetry queue full")
	ErrSenderClosed  = errors.New("telemetry sender closed")
)
