package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/Abhishek40905/ancome-backend/internal/config"
	"github.com/Abhishek40905/ancome-backend/internal/models"
	"github.com/Abhishek40905/ancome-backend/internal/store"
	"github.com/Abhishek40905/ancome-backend/internal/utils"
	"github.com/Abhishek40905/ancome-backend/pkg/logger"
)

type AuthService struct {
	users     store.Users
	idp       IdentityProvider
	state     *StateCodec
	jwtConfig *config.JWTConfig
}

func NewAuthService(users store.Users, idp IdentityProvider, state *StateCodec, jwtCfg *config.JWTConfig) *AuthService {
	return &AuthService{
		users:     users,
		idp:       idp,
		state:     state,
		jwtConfig: jwtCfg,
	}
}

type LoginResult struct {
	Token    string
	ExpireAt time.Time
	User     *models.User
}

// VerifyResult answers the "am I logged in" probe. It never carries an error.
type VerifyResult struct {
	Login        bool   `json:"login"`
	IsSuperAdmin bool   `json:"isSuperAdmin"`
	UserID       string `json:"user_id,omitempty"`
	Message      string `json:"message"`
}

// BeginLogin returns the consent URL and the signed state cookie value.
func (s *AuthService) BeginLogin() (redirectURL, stateCookie string, err error) {
	state, cookie, err := s.state.Issue()
	if err != nil {
		return "", "", err
	}
	return s.idp.AuthCodeURL(state), cookie, nil
}

// StateTTL is how long a login attempt may take.
func (s *AuthService) StateTTL() time.Duration {
	return s.state.TTL()
}

// CompleteLogin verifies the state, resolves the GitHub account, creates or
// refreshes the local user and issues a session token.
func (s *AuthService) CompleteLogin(ctx context.Context, code, state, stateCookie string) (*LoginResult, error) {
	if err := s.state.Verify(stateCookie, state); err != nil {
		return nil, err
	}
	if code == "" {
		return nil, missingField("code")
	}

	profile, err := s.idp.FetchProfile(ctx, code)
	if err != nil {
		return nil, err
	}

	displayName := profile.Name
	if displayName == "" {
		displayName = profile.Login
	}
	user, err := s.users.UpsertUser(ctx, &models.User{
		ExternalID:  profile.Login,
		Username:    profile.Login,
		DisplayName: displayName,
		AvatarURL:   profile.AvatarURL,
		Email:       profile.Email,
	})
	if err != nil {
		return nil, err
	}

	token, err := utils.GenerateToken(user.ID, user.ExternalID, s.jwtConfig.ExpireHour)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("user_id", user.ID).
		Str("login", user.ExternalID).
		Str("github_id", strconv.FormatInt(profile.ID, 10)).
		Msg("user logged in")

	return &LoginResult{
		Token:    token,
		ExpireAt: time.Now().Add(time.Duration(s.jwtConfig.ExpireHour) * time.Hour),
		User:     user,
	}, nil
}

// Authenticate resolves a session token to the current user record. The
// user is always reloaded so role changes apply on the next request.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := utils.ParseToken(token)
	if err != nil {
		return nil, err
	}
	return s.users.FindUserByID(ctx, claims.UserID)
}

// Verify reports the login state for token without failing.
func (s *AuthService) Verify(ctx context.Context, token string) VerifyResult {
	if token == "" {
		return VerifyResult{Message: "no token present"}
	}
	user, err := s.Authenticate(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return VerifyResult{Message: "user not found"}
		}
		return VerifyResult{Message: "wrong access token"}
	}
	return VerifyResult{
		Login:        true,
		IsSuperAdmin: user.IsSuperAdmin(),
		UserID:       user.ID,
		Message:      "user logged in successfully",
	}
}

// ListUsers returns the public projection of every user.
func (s *AuthService) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.UserSummary, 0, len(users))
	for i := range users {
		out = append(out, users[i].Summary())
	}
	return out, nil
}
