package domain

import "errors"

var (
	ErrInvalidFlagKey = errors.New("invalid_flag_key")
	ErrUnknownFlag    = errors.New("unknown_flag")
	ErrInvalidUserID  = errors.New("invalid_user_id")
	ErrInvalidTeamID  = errors.New("invalid_team_id")
)
