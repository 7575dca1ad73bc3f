package assistantService

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"ProjectLark/internal/api/assistant"
	assistantRepository "ProjectLark/internal/api/assistant/repository"
	"ProjectLark/internal/entity"
	"ProjectLark/pkg/analytics"
	"ProjectLark/pkg/backend"
	"ProjectLark/pkg/connectivity"
	"ProjectLark/pkg/contextstore"
	"ProjectLark/pkg/corrector"
	"ProjectLark/pkg/matcher"
	"ProjectLark/pkg/respcache"
	"ProjectLark/pkg/utils"
)

type IAssistantService interface {
	// ProcessCommand runs the full pipeline for one utterance: correction,
	// chain splitting, tiered resolution and dispatch. It never returns an
	// error for resolution or execution failures; those terminate in the
	// ExecutionResult.
	ProcessCommand(ctx context.Context, sessionID, transcript string) *entity.ExecutionResult

	Synthesize(ctx context.Context, text, voice string) ([]byte, bool, error)

	GetHistory(ctx context.Context, page, limit int) ([]entity.CommandRecord, int, error)
	GetAnalytics(ctx context.Context) (*assistant.AnalyticsSummary, error)

	GetState() entity.PipelineState
	TestMatcher(req assistant.MatcherTestRequest) *assistant.MatcherTestResponse
}

type assistantService struct {
	log       *logrus.Logger
	repo      assistantRepository.Repository
	offline   matcher.IOfflineMatcher
	local     matcher.IMatcher
	corrector corrector.ICorrector
	backend   backend.IBackend
	monitor   *connectivity.Monitor
	cache     *respcache.Cache
	contexts  contextstore.IContextStore
	recorder  analytics.IRecorder
	utils     utils.IUtils

	stateMu sync.Mutex
	state   entity.PipelineState
}

func NewAssistantService(
	log *logrus.Logger,
	repo assistantRepository.Repository,
	offlineMatcher matcher.IOfflineMatcher,
	localMatcher matcher.IMatcher,
	commandCorrector corrector.ICorrector,
	backendClient backend.IBackend,
	monitor *connectivity.Monitor,
	cache *respcache.Cache,
	contexts contextstore.IContextStore,
	recorder analytics.IRecorder,
	utilsInstance utils.IUtils,
) IAssistantService {
	return &assistantService{
		log:       log,
		repo:      repo,
		offline:   offlineMatcher,
		local:     localMatcher,
		corrector: commandCorrector,
		backend:   backendClient,
		monitor:   monitor,
		cache:     cache,
		contexts:  contexts,
		recorder:  recorder,
		utils:     utilsInstance,
	}
}
