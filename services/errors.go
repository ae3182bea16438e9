package services

import "errors"

// Sentinel errors shared across services and the HTTP error mapping.
var (
	ErrNotFound         = errors.New("requested resource not found")
	ErrValidationFailed = errors.New("validation failed")

	// Authentication and authorization.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPasswordTooShort   = errors.New("password is too short")
	ErrEmailTaken         = errors.New("email address is already in use")
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")

	// Tournament lifecycle.
	ErrStageTransitionInvalid = errors.New("invalid tournament stage transition")
	ErrGroupsNotDrawn         = errors.New("group draw has not been made")
	ErrGroupStageUnfinished   = errors.New("group stage has unplayed matches")
	ErrTournamentNotKnockout  = errors.New("tournament is not in the knockout stage")

	// Teams and rosters.
	ErrTeamNameConflict   = errors.New("team name is already in use for this tournament")
	ErrTeamExcluded       = errors.New("team has been excluded from the tournament")
	ErrTeamInactive       = errors.New("team is not active")
	ErrJerseyNumberTaken  = errors.New("jersey number is already taken in this team")
	ErrPlayerSuspended    = errors.New("player is suspended and cannot be fielded")
	ErrPlayerNotInTeam    = errors.New("player does not belong to the team")

	// Matches.
	ErrMatchAlreadyCompleted = errors.New("match is already completed")
	ErrMatchNotCompleted     = errors.New("match is not completed")
	ErrTeamNotInMatch        = errors.New("team does not play in this match")
	ErrSameTeamMatch         = errors.New("a team cannot play against itself")
	ErrNegativeScore         = errors.New("goals must not be negative")
	ErrWalkoverNeedsAbsence  = errors.New("walkover requires an absent side")

	// Finances.
	ErrAmountNotPositive   = errors.New("amount must be positive")
	ErrCardAlreadyPaid     = errors.New("card fine is already paid")
	ErrRefereeFeeUnpaid    = errors.New("referee fee has not been collected from both sides")
	ErrPaymentAlreadyMade  = errors.New("payment is already settled")
)
