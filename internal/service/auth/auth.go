package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bakikhata/bakikhata/internal/apperrors"
	"github.com/bakikhata/bakikhata/internal/models"
	"github.com/bakikhata/bakikhata/internal/repository"
	"github.com/bakikhata/bakikhata/internal/service/auth/tokenmanager"
)

const refreshCookieName = "refreshtoken"

// Interface to create or compare user password hashes
type PasswordHasher interface {
	// Generate hash from password
	Hash(password string) (string, error)

	// Compare known hashedPassword and user provided password
	// Must be protected against timing attacks
	Compare(hashedPassword string, password string) error
}

type Config struct {
	// Hasher used during registration and login
	// DefaultHasher is used when nil
	Hasher PasswordHasher
}

type RegisterParams struct {
	Phone     string
	Password  string
	FirstName string
	LastName  string
}

type AuthService struct {
	// Manager to issue and validate token pairs
	token *tokenmanager.TokenManager

	// hasher to hash or compare user passwords
	hasher PasswordHasher

	// Repository to access long term data
	storage repository.Storage
}

func NewService(cfg Config, token *tokenmanager.TokenManager, storage repository.Storage) (*AuthService, error) {
	hasher := cfg.Hasher
	if hasher == nil {
		hasher = DefaultHasher
	}

	if token == nil || storage == nil {
		return nil, errors.New("token manager and storage must not be nil")
	}

	return &AuthService{
		token:   token,
		hasher:  hasher,
		storage: storage,
	}, nil
}

// Register creates a user account and links every customer row recorded
// under the same phone to it, in one transaction. Linking is a
// deterministic join on phone: no heuristics, unique per shop.
func (s *AuthService) Register(ctx context.Context, params RegisterParams) (models.User, models.TokenPair, error) {
	var user models.User
	var pair models.TokenPair

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return user, pair, fmt.Errorf("can't use this as password, Err: %w", err)
	}

	err = s.storage.InTx(ctx, func(st repository.Storage) error {
		user, err = st.User().CreateUser(ctx, models.User{
			ID:             uuid.New(),
			CreatedAt:      time.Now(),
			Phone:          params.Phone,
			FirstName:      params.FirstName,
			LastName:       params.LastName,
			HashedPassword: hash,
		})
		if err != nil {
			return err
		}

		_, err = st.Customer().LinkUserByPhone(ctx, user.ID, user.Phone)
		return err
	})
	if err != nil {
		return user, pair, err
	}

	pair, err = s.token.GeneratePair(ctx, user)
	if err != nil {
		return user, pair, fmt.Errorf("token could not be generated. Err: %w", err)
	}

	return user, pair, nil
}

func (s *AuthService) Login(ctx context.Context, phone string, password string) (models.User, models.TokenPair, error) {
	var pair models.TokenPair

	user, err := s.storage.User().GetUserByPhone(ctx, phone)
	if err != nil {
		return user, pair, apperrors.ErrUserNotFound
	}

	err = s.hasher.Compare(user.HashedPassword, password)
	if err != nil {
		return user, pair, apperrors.ErrUserNotFound
	}

	pair, err = s.token.GeneratePair(ctx, user)
	if err != nil {
		return user, pair, fmt.Errorf("token could not be generated. Err: %w", err)
	}

	return user, pair, nil
}

// Refresh issues a fresh pair for a valid single-use refresh token
func (s *AuthService) Refresh(ctx context.Context, refresh string) (models.TokenPair, error) {
	var pair models.TokenPair

	token, err := s.token.UseRefreshToken(ctx, refresh)
	if err != nil {
		return pair, err
	}

	user, err := s.storage.User().GetUserByID(ctx, token.UserID)
	if err != nil {
		return pair, err
	}

	return s.token.GeneratePair(ctx, user)
}

// Role reports the server-asserted session role: a user owning a shop
// acts as owner, everyone else as customer. Clients never infer it.
func (s *AuthService) Role(ctx context.Context, user models.User) (string, error) {
	_, err := s.storage.Shop().GetShopByOwner(ctx, user.ID)

	switch {
	case err == nil:
		return models.RoleOwner, nil
	case errors.Is(err, apperrors.ErrShopNotFound):
		return models.RoleCustomer, nil
	default:
		return "", err
	}
}

// Set auth tokens to the response: access in Authorization header,
// refresh in an HttpOnly cookie
func (s *AuthService) SetTokens(ctx context.Context, w http.ResponseWriter, pair models.TokenPair) {
	w.Header().Set("Authorization", "Bearer "+pair.Access.Value)

	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    pair.Refresh.Value,
		Path:     "/",
		MaxAge:   int(s.token.RefreshTTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// Set auth tokens to a request, the way a client would. Used in tests
func (s *AuthService) SetTokenPairToRequest(r *http.Request, pair models.TokenPair) {
	r.Header.Set("Authorization", "Bearer "+pair.Access.Value)
	r.AddCookie(&http.Cookie{Name: refreshCookieName, Value: pair.Refresh.Value})
}

// Get refresh token string from request cookie
func (s *AuthService) GetRefresh(r *http.Request) (string, error) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil {
		return "", fmt.Errorf("refresh cookie not found. Err: %w", apperrors.ErrRefreshTokenNotFound)
	}
	return cookie.Value, nil
}

// Auth authenticates the request by its bearer access token
func (s *AuthService) Auth(ctx context.Context, r *http.Request) (models.User, error) {
	var user models.User

	header := r.Header.Get("Authorization")
	access, found := strings.CutPrefix(header, "Bearer ")
	if !found || access == "" {
		return user, errors.New("authorization header missed or invalid")
	}

	userID, err := s.token.ParseAccess(ctx, access)
	if err != nil {
		return user, err
	}

	return s.storage.User().GetUserByID(ctx, userID)
}
