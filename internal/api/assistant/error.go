package assistant

import "ProjectLark/pkg/response"

var (
	ErrEmptyTranscript      = response.NewError(400, "transcript is required")
	ErrNoConnection         = response.NewError(503, "no internet connection")
	ErrCommandNotRecognized = response.NewError(422, "command not recognized")
	ErrTTSFailed            = response.NewError(502, "failed to synthesize speech")
	ErrHistoryUnavailable   = response.NewError(500, "failed to load command history")
)
