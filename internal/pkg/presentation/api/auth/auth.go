package auth

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/diwise/iot-sensor-monitor/internal/pkg/infrastructure/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/go-chi/jwtauth/v5"
	"github.com/open-policy-agent/opa/rego"
	"go.opentelemetry.io/otel"
)

type userContextKey struct{ name string }

var userCtxKey = &userContextKey{"user"}

var tracer = otel.Tracer("iot-sensor-monitor/authz")

//go:embed default.rego
var DefaultPolicy string

type Action string

const (
	ReadIncidents  Action = "incident:read"
	CreateIncident Action = "incident:create"
	UpdateIncident Action = "incident:update"
	ReadComments   Action = "comment:read"
	CreateComment  Action = "comment:create"
	ReadSeries     Action = "series:read"
	ReadDashboard  Action = "dashboard:read"
)

const (
	RoleAdmin string = "admin"
	RoleUser  string = "user"
)

const (
	claimName     string = "name"
	claimUsername string = "preferred_username"
	claimSubject  string = "sub"
	claimRole     string = "role"
)

// User is the verified identity behind a request.
type User struct {
	Name string
	Role string
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Authenticator interface {
	// Verify validates the bearer token and stores the acting user in the request context.
	Verify() func(http.Handler) http.Handler
	// RequireAccess lets the request through only if the policy allows action for the user's role.
	RequireAccess(action Action) func(http.Handler) http.Handler
}

type impl struct {
	tokenAuth *jwtauth.JWTAuth
	query     rego.PreparedEvalQuery
}

func NewAuthenticator(ctx context.Context, tokenAuth *jwtauth.JWTAuth, policies io.Reader) (Authenticator, error) {
	module, err := io.ReadAll(policies)
	if err != nil {
		return nil, fmt.Errorf("unable to read authz policies: %w", err)
	}

	query, err := rego.New(
		rego.Query("x = data.dashboard.authz.allow"),
		rego.Module("dashboard.rego", string(module)),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, err
	}

	return &impl{tokenAuth: tokenAuth, query: query}, nil
}

func (a *impl) Verify() func(http.Handler) http.Handler {
	verifier := jwtauth.Verifier(a.tokenAuth)

	return func(next http.Handler) http.Handler {
		return verifier(jwtauth.Authenticator(withUser(next)))
	}
}

func withUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := logging.GetLoggerFromContext(r.Context())

		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			logger.Info().Err(err).Msg("no valid token in request")
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		user := userFromClaims(claims)
		if user.Name == "" {
			logger.Info().Msg("token does not identify a user")
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func (a *impl) RequireAccess(action Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var err error

			logger := logging.GetLoggerFromContext(r.Context())

			ctx, span := tracer.Start(r.Context(), "check-access")
			defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

			user, ok := UserFromContext(ctx)
			if !ok {
				err = errors.New("no acting user in request context")
				logger.Info().Err(err).Msg("access denied")
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}

			input := map[string]any{
				"user":   user.Name,
				"role":   user.Role,
				"action": string(action),
			}

			results, err := a.query.Eval(ctx, rego.EvalInput(input))
			if err != nil {
				logger.Error().Err(err).Msg("opa eval failed")
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			if len(results) == 0 {
				err = errors.New("opa query could not be satisfied")
				logger.Error().Err(err).Msg("auth failed")
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			allowed, ok := results[0].Bindings["x"].(bool)
			if !ok || !allowed {
				err = fmt.Errorf("%s is not allowed to %s", user.Name, action)
				logger.Warn().Err(err).Msg("access denied")
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func userFromClaims(claims map[string]any) User {
	str := func(key string) string {
		s, _ := claims[key].(string)
		return strings.TrimSpace(s)
	}

	user := User{Role: str(claimRole)}

	for _, key := range []string{claimName, claimUsername, claimSubject} {
		if name := str(key); name != "" {
			user.Name = name
			break
		}
	}

	return user
}

func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userCtxKey, user)
}

func UserFromContext(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(userCtxKey).(User)
	return user, ok
}
