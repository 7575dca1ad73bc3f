package assistantService

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"ProjectLark/internal/api/assistant"
	"ProjectLark/internal/entity"
	contextPkg "ProjectLark/pkg/context"
)

const defaultSessionID = "default"

// ProcessCommand is the pipeline entry point: correction, chain splitting,
// then per-sub-command resolution and dispatch. For a chained utterance the
// sub-commands run strictly in textual order and the final sub-command's
// result is returned; every sub-command is still recorded individually.
func (s *assistantService) ProcessCommand(ctx context.Context, sessionID, transcript string) *entity.ExecutionResult {
	requestID := contextPkg.GetRequestID(ctx)

	if sessionID == "" {
		sessionID = defaultSessionID
	}

	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return s.failureResult(transcript, assistant.ErrEmptyTranscript)
	}

	s.beginRun(requestID)
	defer s.endRun()

	corrected := s.corrector.SuggestCorrection(transcript)
	if corrected != transcript {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"original":   transcript,
			"corrected":  corrected,
		}).Debug("Applied transcript correction")
	}

	commands := splitChain(corrected)
	if len(commands) > 1 {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"count":      len(commands),
		}).Info("Chained command detected")
	}

	var final *entity.ExecutionResult
	for _, command := range commands {
		final = s.runSingle(ctx, sessionID, transcript, command)
	}

	s.noteCompleted(final)

	return final
}

// runSingle resolves and executes one sub-command, recording the outcome
// regardless of success.
func (s *assistantService) runSingle(ctx context.Context, sessionID, rawTranscript, command string) *entity.ExecutionResult {
	start := time.Now()

	var result *entity.ExecutionResult

	resolved, err := s.resolve(ctx, command)
	if err != nil {
		result = s.failureResult(command, err)
	} else {
		result = s.execute(ctx, sessionID, resolved)
	}

	s.recordCommand(rawTranscript, command, result, time.Since(start))

	return result
}

func (s *assistantService) recordCommand(rawTranscript, command string, result *entity.ExecutionResult, latency time.Duration) {
	id, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(logrus.Fields{"error": err.Error()}).Warn("Failed to generate command record ID")
		return
	}

	response := result.Result
	if !result.Executed {
		response = result.Error
	}

	s.recorder.Record(entity.CommandRecord{
		ID:         id,
		Transcript: rawTranscript,
		Corrected:  command,
		Action:     result.Action,
		Tier:       result.Tier,
		Executed:   result.Executed,
		Response:   response,
		Confidence: result.Confidence,
		LatencyMs:  latency.Milliseconds(),
		Metadata:   result.Metadata,
		CreatedAt:  time.Now(),
	})
}

// beginRun flips the advisory in-progress flag. Overlapping invocations
// (typed input while voice input is active) are permitted: the flag only
// feeds the UI affordance.
func (s *assistantService) beginRun(requestID string) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	if s.state.InProgress {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
		}).Warn("Pipeline already in progress, proceeding anyway")
	}

	s.state.InProgress = true
}

func (s *assistantService) endRun() {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.state.InProgress = false
}

func (s *assistantService) noteCompleted(result *entity.ExecutionResult) {
	if result == nil {
		return
	}

	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.state.LastCommand = result.Command
	s.state.LastAction = result.Action
}

func (s *assistantService) GetState() entity.PipelineState {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	state := s.state
	state.Offline = !s.monitor.Online()
	return state
}

func (s *assistantService) TestMatcher(req assistant.MatcherTestRequest) *assistant.MatcherTestResponse {
	resolved, details := s.local.Explain(req.Text)
	if resolved == nil {
		if offline := s.offline.Match(req.Text); offline != nil {
			return &assistant.MatcherTestResponse{
				Input:      req.Text,
				Matched:    true,
				Action:     string(offline.Action),
				Confidence: offline.Confidence,
				Parameters: offline.Parameters,
			}
		}
		return &assistant.MatcherTestResponse{Input: req.Text}
	}

	return &assistant.MatcherTestResponse{
		Input:      req.Text,
		Matched:    true,
		Action:     string(resolved.Action),
		Confidence: resolved.Confidence,
		Parameters: resolved.Parameters,
		Matches:    details,
	}
}
