package priva

import "fmt"

// Code identifies the kind of failure reported by a priva operation.
type Code int

const (
	CodeAlreadyStarted Code = iota + 1
	CodeBattleInProgress
	CodeDuplicateActivePlayer
	CodeRosterFull
	CodeNotActive
	CodeNotRunning
	CodeInsufficientPlayers
	CodeInvalidCombination
	CodeNoActiveBattle
	CodeInvalidOutcome
	CodeNothingToUndo
	CodeInvalidThreshold
	CodeUnknownType
	CodeInvalidArguments
)

var codeNames = map[Code]string{
	CodeAlreadyStarted:        "AlreadyStarted",
	CodeBattleInProgress:      "BattleInProgress",
	CodeDuplicateActivePlayer: "DuplicateActivePlayer",
	CodeRosterFull:            "RosterFull",
	CodeNotActive:             "NotActive",
	CodeNotRunning:            "NotRunning",
	CodeInsufficientPlayers:   "InsufficientPlayers",
	CodeInvalidCombination:    "InvalidCombination",
	CodeNoActiveBattle:        "NoActiveBattle",
	CodeInvalidOutcome:        "InvalidOutcome",
	CodeNothingToUndo:         "NothingToUndo",
	CodeInvalidThreshold:      "InvalidThreshold",
	CodeUnknownType:           "UnknownType",
	CodeInvalidArguments:      "InvalidArguments",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

// Error is returned by every failing priva operation. Two errors are equal
// under errors.Is when their codes match, so the sentinels below can be
// used to test for a kind regardless of the message.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", int(e.Code), e.Message)
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrAlreadyStarted        = &Error{Code: CodeAlreadyStarted, Message: "the priva is already started"}
	ErrBattleInProgress      = &Error{Code: CodeBattleInProgress, Message: "a battle is in progress"}
	ErrDuplicateActivePlayer = &Error{Code: CodeDuplicateActivePlayer, Message: "player is already in the priva"}
	ErrRosterFull            = &Error{Code: CodeRosterFull, Message: "too many players"}
	ErrNotActive             = &Error{Code: CodeNotActive, Message: "player is not in the priva"}
	ErrNotRunning            = &Error{Code: CodeNotRunning, Message: "the priva is not running"}
	ErrInsufficientPlayers   = &Error{Code: CodeInsufficientPlayers, Message: "not enough players"}
	ErrInvalidCombination    = &Error{Code: CodeInvalidCombination, Message: "invalid team combination"}
	ErrNoActiveBattle        = &Error{Code: CodeNoActiveBattle, Message: "no battle in progress"}
	ErrInvalidOutcome        = &Error{Code: CodeInvalidOutcome, Message: "invalid battle outcome"}
	ErrNothingToUndo         = &Error{Code: CodeNothingToUndo, Message: "nothing to undo"}
	ErrInvalidThreshold      = &Error{Code: CodeInvalidThreshold, Message: "invalid win goal"}
	ErrUnknownType           = &Error{Code: CodeUnknownType, Message: "unknown priva type"}
	ErrInvalidArguments      = &Error{Code: CodeInvalidArguments, Message: "invalid constructor arguments"}
)

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}
