package contextstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Conversational memory carried across commands within a session: last
// language, last statute, last threat situation. Store failures are logged
// and swallowed; missing context never fails the pipeline.

const sessionTTL = time.Hour

type ThreatContext struct {
	Location   string    `json:"location,omitempty"`
	AssessedAt time.Time `json:"assessed_at"`
}

type IContextStore interface {
	GetLanguagePreference(ctx context.Context, sessionID string) string
	SetLanguagePreference(ctx context.Context, sessionID, language string)
	GetLastStatute(ctx context.Context, sessionID string) string
	SetLastStatute(ctx context.Context, sessionID, statute string)
	GetThreatContext(ctx context.Context, sessionID string) *ThreatContext
	SetThreatContext(ctx context.Context, sessionID, location string)
}

type contextStore struct {
	client *redis.Client
	log    *logrus.Logger
}

func New(log *logrus.Logger) IContextStore {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	log.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		log.Info("Successfully connected to Redis")
	}

	return &contextStore{client: client, log: log}
}

func (s *contextStore) GetLanguagePreference(ctx context.Context, sessionID string) string {
	return s.get(ctx, key(sessionID, "language"))
}

func (s *contextStore) SetLanguagePreference(ctx context.Context, sessionID, language string) {
	s.set(ctx, key(sessionID, "language"), language)
}

func (s *contextStore) GetLastStatute(ctx context.Context, sessionID string) string {
	return s.get(ctx, key(sessionID, "last_statute"))
}

func (s *contextStore) SetLastStatute(ctx context.Context, sessionID, statute string) {
	s.set(ctx, key(sessionID, "last_statute"), statute)
}

func (s *contextStore) GetThreatContext(ctx context.Context, sessionID string) *ThreatContext {
	raw := s.get(ctx, key(sessionID, "threat"))
	if raw == "" {
		return nil
	}

	var tc ThreatContext
	if err := json.Unmarshal([]byte(raw), &tc); err != nil {
		s.log.WithFields(logrus.Fields{"error": err.Error()}).Warn("Malformed threat context entry, dropping")
		return nil
	}

	return &tc
}

func (s *contextStore) SetThreatContext(ctx context.Context, sessionID, location string) {
	tc := ThreatContext{Location: location, AssessedAt: time.Now()}
	raw, err := json.Marshal(tc)
	if err != nil {
		s.log.WithFields(logrus.Fields{"error": err.Error()}).Warn("Failed to marshal threat context")
		return
	}
	s.set(ctx, key(sessionID, "threat"), string(raw))
}

func (s *contextStore) get(ctx context.Context, k string) string {
	val, err := s.client.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		return ""
	} else if err != nil {
		s.log.WithFields(logrus.Fields{"key": k, "error": err.Error()}).Warn("Context store read failed")
		return ""
	}
	return val
}

func (s *contextStore) set(ctx context.Context, k, v string) {
	if err := s.client.Set(ctx, k, v, sessionTTL).Err(); err != nil {
		s.log.WithFields(logrus.Fields{"key": k, "error": err.Error()}).Warn("Context store write failed")
	}
}

func key(sessionID, field string) string {
	return fmt.Sprintf("lark:session:%s:%s", sessionID, field)
}
