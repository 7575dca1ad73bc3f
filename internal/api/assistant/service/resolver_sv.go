package assistantService

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"ProjectLark/internal/api/assistant"
	"ProjectLark/internal/entity"
	"ProjectLark/pkg/backend"
	"ProjectLark/pkg/connectivity"
	contextPkg "ProjectLark/pkg/context"
)

// resolverFunc is one resolution tier. A (nil, nil) return is a miss: the
// chain moves on to the next tier. A non-nil error terminates resolution.
type resolverFunc struct {
	tier entity.ResolutionTier
	fn   func(ctx context.Context, transcript string) (*entity.ResolvedCommand, error)
}

// resolve tries the tiers in strict cheap-to-expensive order and stops at
// the first success. The remote tier is the tier of last resort and is
// gated on connectivity.
func (s *assistantService) resolve(ctx context.Context, transcript string) (*entity.ResolvedCommand, error) {
	requestID := contextPkg.GetRequestID(ctx)

	resolvers := []resolverFunc{
		{tier: entity.TierOffline, fn: s.resolveOffline},
		{tier: entity.TierLocal, fn: s.resolveLocal},
		{tier: entity.TierRemote, fn: s.resolveRemote},
	}

	for _, resolver := range resolvers {
		resolved, err := resolver.fn(ctx, transcript)
		if err != nil {
			return nil, err
		}
		if resolved != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"tier":       string(resolver.tier),
				"action":     string(resolved.Action),
			}).Debug("Command resolved")
			return resolved, nil
		}
	}

	return nil, assistant.ErrCommandNotRecognized
}

func (s *assistantService) resolveOffline(_ context.Context, transcript string) (*entity.ResolvedCommand, error) {
	return s.offline.Match(transcript), nil
}

func (s *assistantService) resolveLocal(_ context.Context, transcript string) (*entity.ResolvedCommand, error) {
	return s.local.Match(transcript), nil
}

func (s *assistantService) resolveRemote(ctx context.Context, transcript string) (*entity.ResolvedCommand, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if !s.monitor.Check(ctx, connectivity.DefaultRetries) {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
		}).Warn("Offline after exhausting connectivity retries, skipping remote tier")
		return nil, assistant.ErrNoConnection
	}

	interp, err := s.backend.ProcessCommand(ctx, transcript)
	if err != nil {
		if backend.IsParse(err) {
			// Malformed interpreter output downgrades to a general query
			// and retries once in that mode, instead of surfacing the
			// parse failure.
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Interpreter returned malformed JSON, downgrading to general query")
			return &entity.ResolvedCommand{
				Command:    transcript,
				Action:     entity.ActionGeneralQuery,
				Parameters: map[string]string{"query": transcript},
				Tier:       entity.TierRemote,
			}, nil
		}
		return nil, err
	}

	command := interp.Command
	if command == "" {
		command = transcript
	}

	return &entity.ResolvedCommand{
		Command:    command,
		Action:     entity.ParseAction(interp.Action),
		Parameters: interp.Parameters,
		Tier:       entity.TierRemote,
	}, nil
}

// failureResult converts a terminal resolution error into the well-formed
// result the caller always receives.
func (s *assistantService) failureResult(transcript string, err error) *entity.ExecutionResult {
	message := backend.UserMessage(err)
	if errors.Is(err, assistant.ErrNoConnection) {
		message = "No internet connection. Only offline commands are available."
	}
	if errors.Is(err, assistant.ErrCommandNotRecognized) {
		message = "Command not recognized. Try rephrasing, or say 'help' for examples."
	}

	return &entity.ExecutionResult{
		ResolvedCommand: entity.ResolvedCommand{
			Command: transcript,
			Action:  entity.ActionUnknown,
		},
		Executed: false,
		Error:    message,
	}
}
