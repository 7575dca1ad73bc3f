package assistantService

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"ProjectLark/internal/entity"
	"ProjectLark/pkg/backend"
	contextPkg "ProjectLark/pkg/context"
)

const defaultLanguage = "english"

// execute dispatches a resolved command to its domain handler. Handler
// failures are caught here and converted into a non-executed result; no
// error crosses this boundary.
func (s *assistantService) execute(ctx context.Context, sessionID string, resolved *entity.ResolvedCommand) *entity.ExecutionResult {
	requestID := contextPkg.GetRequestID(ctx)

	var (
		result   string
		metadata map[string]interface{}
		err      error
	)

	switch resolved.Action {
	case entity.ActionMiranda:
		result, metadata, err = s.handleMiranda(ctx, sessionID, resolved)
	case entity.ActionStatute:
		result, metadata, err = s.handleStatute(ctx, sessionID, resolved)
	case entity.ActionThreat:
		result, metadata, err = s.handleThreat(ctx, sessionID, resolved)
	case entity.ActionTactical:
		result, metadata, err = s.handleTactical(ctx, resolved)
	default:
		// general_query, unknown, and any unexpected tag from the remote
		// interpreter all answer as a general query.
		result, metadata, err = s.handleGeneral(ctx, resolved)
	}

	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"action":     string(resolved.Action),
			"error":      err.Error(),
		}).Warn("Command execution failed")

		return &entity.ExecutionResult{
			ResolvedCommand: *resolved,
			Executed:        false,
			Error:           backend.UserMessage(err),
			Metadata:        metadata,
		}
	}

	return &entity.ExecutionResult{
		ResolvedCommand: *resolved,
		Executed:        true,
		Result:          result,
		Metadata:        metadata,
	}
}

// handleMiranda resolves the effective language (explicit parameter, then
// session preference, then english), persists it, and returns a
// confirmation the caller uses to trigger the actual rights playback. No
// network involved: this must work fully offline.
func (s *assistantService) handleMiranda(ctx context.Context, sessionID string, resolved *entity.ResolvedCommand) (string, map[string]interface{}, error) {
	language := resolved.Param("language")
	if language == "" {
		language = s.contexts.GetLanguagePreference(ctx, sessionID)
	}
	if language == "" {
		language = defaultLanguage
	}

	s.contexts.SetLanguagePreference(ctx, sessionID, language)

	result := fmt.Sprintf("Reading Miranda rights in %s.", language)
	metadata := map[string]interface{}{"language": language}

	return result, metadata, nil
}

func (s *assistantService) handleStatute(ctx context.Context, sessionID string, resolved *entity.ResolvedCommand) (string, map[string]interface{}, error) {
	statute := resolved.Param("statute")
	if statute == "" {
		statute = s.contexts.GetLastStatute(ctx, sessionID)
	}
	if statute == "" {
		// No statute number anywhere: answer the raw text as a general
		// query instead of failing.
		return s.handleGeneral(ctx, resolved)
	}

	s.contexts.SetLastStatute(ctx, sessionID, statute)

	result, err := s.cache.Fetch(ctx, "legal:"+statute, func(ctx context.Context) (string, error) {
		return s.backend.Legal(ctx, statute)
	})
	if err != nil {
		return "", nil, err
	}

	return result, map[string]interface{}{"statute": statute}, nil
}

func (s *assistantService) handleThreat(ctx context.Context, sessionID string, resolved *entity.ResolvedCommand) (string, map[string]interface{}, error) {
	location := resolved.Param("location")
	previous := s.contexts.GetThreatContext(ctx, sessionID)
	s.contexts.SetThreatContext(ctx, sessionID, location)

	situation := resolved.Param("threat")
	if situation == "" {
		situation = resolved.Command
	}

	result, err := s.cache.Fetch(ctx, "threat:"+situation, func(ctx context.Context) (string, error) {
		return s.backend.Threat(ctx, situation)
	})
	if err != nil {
		return "", nil, err
	}

	metadata := map[string]interface{}{}
	if location != "" {
		metadata["location"] = location
	}

	if previous != nil {
		result = fmt.Sprintf("[Prior assessment at %s] %s",
			previous.AssessedAt.Format(time.Kitchen), result)
		metadata["prior_assessment"] = previous.AssessedAt
	}

	return result, metadata, nil
}

// handleTactical always forwards the full original text; there is no local
// shortcut for tactical guidance.
func (s *assistantService) handleTactical(ctx context.Context, resolved *entity.ResolvedCommand) (string, map[string]interface{}, error) {
	result, err := s.cache.Fetch(ctx, "tactical:"+resolved.Command, func(ctx context.Context) (string, error) {
		return s.backend.Tactical(ctx, resolved.Command)
	})
	if err != nil {
		return "", nil, err
	}

	return result, nil, nil
}

func (s *assistantService) handleGeneral(ctx context.Context, resolved *entity.ResolvedCommand) (string, map[string]interface{}, error) {
	query := resolved.Param("query")
	if query == "" {
		query = resolved.Command
	}

	result, err := s.cache.Fetch(ctx, "general:"+query, func(ctx context.Context) (string, error) {
		return s.backend.General(ctx, query)
	})
	if err != nil {
		return "", nil, err
	}

	return result, nil, nil
}
