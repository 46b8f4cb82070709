// Package analytics composes the upstream client, session cache,
// crawler, enrichment pool and ranking rules into the public query
// operations.
package analytics

import (
	"context"
	"net/url"
	"strings"

	"igstats/pkg/cache"
	"igstats/pkg/config"
	"igstats/pkg/enrich"
	"igstats/pkg/errors"
	"igstats/pkg/hiker"
	"igstats/pkg/logger"
	"igstats/pkg/models"
	"igstats/pkg/normalize"
)

// Service owns one upstream client, one session cache and one
// enrichment pool. Operations are safe for concurrent use; the cache
// tables are the only shared mutable state.
type Service struct {
	client  *hiker.Client
	session *cache.Session
	pool    *enrich.Pool
	cfg     *config.Config
	logger  logger.Logger
}

// NewService wires a service from its collaborators.
func NewService(client *hiker.Client, cfg *config.Config, log logger.Logger) *Service {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Service{
		client:  client,
		session: cache.NewSession(),
		pool:    enrich.NewPool(cfg.Enrich.MaxWorkers, cfg.Enrich.RetryAttempts+1, cfg.Enrich.RetryDelay, log),
		cfg:     cfg,
		logger:  log,
	}
}

// Session exposes the memoization tables, mainly for tests and cache
// inspection.
func (s *Service) Session() *cache.Session {
	return s.session
}

// Client returns the underlying upstream client.
func (s *Service) Client() *hiker.Client {
	return s.client
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// userByUsername resolves one username, consulting the session cache
// before the upstream call.
func (s *Service) userByUsername(ctx context.Context, username string) (*hiker.RawUser, error) {
	key := normalize.UsernameKey(username)
	if key == "" {
		return nil, errors.New(errors.ErrorTypeInvalidTarget, "username is required")
	}
	if cached, ok := s.session.UsersByName.Get(key); ok {
		return cached, nil
	}

	var user hiker.RawUser
	params := url.Values{"username": {username}}
	if err := s.client.GetJSON(ctx, hiker.EndpointUserByUsername, params, &user); err != nil {
		return nil, err
	}
	if user.UserID() == "" && user.Username == "" {
		return nil, errors.New(errors.ErrorTypeUnexpectedShape, "profile payload for %q carried no user", username)
	}
	s.session.PutUser(&user)
	return &user, nil
}

// userByID resolves one user id, trying the GraphQL profile endpoint
// first and falling back to the REST lookup.
func (s *Service) userByID(ctx context.Context, userID string) (*hiker.RawUser, error) {
	key := strings.TrimSpace(userID)
	if key == "" {
		return nil, errors.New(errors.ErrorTypeInvalidTarget, "user id is required")
	}
	if cached, ok := s.session.UsersByID.Get(key); ok {
		return cached, nil
	}

	var user hiker.RawUser
	gqlErr := s.client.GetJSON(ctx, hiker.EndpointUserWebProfile, url.Values{"user_id": {key}}, &user)
	if gqlErr == nil && (user.UserID() != "" || user.Username != "") {
		s.session.PutUser(&user)
		return &user, nil
	}
	if gqlErr != nil {
		s.logger.WithField("user_id", key).WithError(gqlErr).Debug("gql profile lookup failed, trying rest fallback")
	}

	user = hiker.RawUser{}
	if err := s.client.GetJSON(ctx, hiker.EndpointUserByID, url.Values{"id": {key}}, &user); err != nil {
		return nil, err
	}
	if user.UserID() == "" && user.Username == "" {
		return nil, errors.New(errors.ErrorTypeUnexpectedShape, "user payload for id %s carried no user", key)
	}
	s.session.PutUser(&user)
	return &user, nil
}

// userByTarget parses a profile target (username, @username or URL)
// and resolves it.
func (s *Service) userByTarget(ctx context.Context, target string) (string, *hiker.RawUser, error) {
	username := normalize.ExtractUsername(target)
	if username == "" {
		return "", nil, errors.New(errors.ErrorTypeInvalidTarget, "invalid profile URL or username: %q", target)
	}
	user, err := s.userByUsername(ctx, username)
	if err != nil {
		return "", nil, err
	}
	return username, user, nil
}

// EnrichUsersByID resolves each unique user id to a full profile
// record through the bounded enrichment pool. Partial results are
// returned alongside an enrichment_exhausted error when some ids fail
// every retry.
func (s *Service) EnrichUsersByID(ctx context.Context, userIDs []string, onProgress enrich.Progress) (map[string]models.Profile, error) {
	fetch := func(ctx context.Context, id string) (models.Profile, error) {
		user, err := s.userByID(ctx, id)
		if err != nil {
			return models.Profile{}, err
		}
		return normalize.Profile(user, user.Username.String()), nil
	}
	return s.pool.Run(ctx, userIDs, fetch, onProgress)
}
