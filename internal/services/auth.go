package services

import (
	"context"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/nodetree-backend/internal/data/repos"
	"github.com/yungbote/nodetree-backend/internal/data/txn"
	types "github.com/yungbote/nodetree-backend/internal/domain"
	"github.com/yungbote/nodetree-backend/internal/pkg/apperr"
	"github.com/yungbote/nodetree-backend/internal/pkg/dbctx"
	"github.com/yungbote/nodetree-backend/internal/platform/ctxutil"
	"github.com/yungbote/nodetree-backend/internal/platform/logger"
)

type JWTClaims struct {
	jwt.RegisteredClaims
}

// Session is what login and refresh hand back to the client.
type Session struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    int64       `json:"expires_in"`
	User         *types.User `json:"user"`
}

type AuthService interface {
	Register(dbc dbctx.Context, in types.NewUser) (*types.User, error)
	Login(dbc dbctx.Context, username, password string) (*Session, error)
	Refresh(dbc dbctx.Context, refreshToken string) (*Session, error)
	Logout(dbc dbctx.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	log           *logger.Logger
	tx            txn.Runner
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	users         UserService
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewAuthService(
	log *logger.Logger,
	tx txn.Runner,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	users UserService,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &authService{
		log:           log.With("service", "AuthService"),
		tx:            tx,
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		users:         users,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// Register creates an active, non-staff account.
func (as *authService) Register(dbc dbctx.Context, in types.NewUser) (*types.User, error) {
	in.IsActive = true
	in.IsStaff = false
	return as.users.Create(dbc, in)
}

func (as *authService) Login(dbc dbctx.Context, username, password string) (*Session, error) {
	const op = "auth.login"
	if username == "" || password == "" {
		return nil, apperr.InvalidArgument(op, "username and password are required")
	}
	var session *Session
	err := as.tx.InTx(dbc, func(dbc dbctx.Context) error {
		u, err := as.userRepo.GetByUsername(dbc, username)
		if err != nil {
			return mapRepoErr(op, err)
		}
		if u == nil || bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
			return apperr.Unauthorized(op, "invalid credentials")
		}
		if !u.IsActive {
			return apperr.Forbidden(op, "account is disabled")
		}
		now := as.now().UTC()
		if _, err := as.userTokenRepo.FullDeleteExpired(dbc, now); err != nil {
			return mapRepoErr(op, err)
		}
		s, err := as.issue(dbc, u, now)
		if err != nil {
			return err
		}
		if err := as.userRepo.TouchLastLogin(dbc, u.UserID, now); err != nil {
			return mapRepoErr(op, err)
		}
		u.LastLogin = &now
		session = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	as.log.Info("user logged in", "user_id", session.User.UserID)
	return session, nil
}

// Refresh rotates the refresh token: the old row is removed and a new pair issued.
func (as *authService) Refresh(dbc dbctx.Context, refreshToken string) (*Session, error) {
	const op = "auth.refresh"
	if refreshToken == "" {
		return nil, apperr.InvalidArgument(op, "refresh_token is required")
	}
	var (
		session *Session
		expired bool
	)
	err := as.tx.InTx(dbc, func(dbc dbctx.Context) error {
		found, err := as.userTokenRepo.GetByRefreshTokens(dbc, []string{refreshToken})
		if err != nil {
			return mapRepoErr(op, err)
		}
		if len(found) == 0 {
			return apperr.Unauthorized(op, "invalid refresh token")
		}
		existing := found[0]
		now := as.now().UTC()
		if err := as.userTokenRepo.FullDeleteByTokens(dbc, []*types.UserToken{existing}); err != nil {
			return mapRepoErr(op, err)
		}
		if existing.Expired(now) {
			// Commit the delete; the error is reported after the transaction.
			expired = true
			return nil
		}
		u, err := as.userRepo.GetByID(dbc, existing.UserID)
		if err != nil {
			return mapRepoErr(op, err)
		}
		if u == nil {
			return apperr.Unauthorized(op, "invalid refresh token")
		}
		if !u.IsActive {
			return apperr.Forbidden(op, "account is disabled")
		}
		s, err := as.issue(dbc, u, now)
		if err != nil {
			return err
		}
		session = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	if expired {
		return nil, apperr.Unauthorized(op, "refresh token expired")
	}
	return session, nil
}

func (as *authService) Logout(dbc dbctx.Context) error {
	const op = "auth.logout"
	rd := ctxutil.GetRequestData(dbc.Ctx)
	if rd == nil || rd.TokenString == "" {
		as.log.Warn("No request data found in context")
		return apperr.Unauthorized(op, "not authenticated")
	}
	return as.tx.InTx(dbc, func(dbc dbctx.Context) error {
		found, err := as.userTokenRepo.GetByAccessTokens(dbc, []string{rd.TokenString})
		if err != nil {
			return mapRepoErr(op, err)
		}
		if err := as.userTokenRepo.FullDeleteByTokens(dbc, found); err != nil {
			return mapRepoErr(op, err)
		}
		return nil
	})
}

func (as *authService) issue(dbc dbctx.Context, u *types.User, now time.Time) (*Session, error) {
	const op = "auth.issue"
	access, err := as.generateAccessToken(u, now)
	if err != nil {
		return nil, apperr.Internal(op, err)
	}
	row := &types.UserToken{
		ID:           uuid.New(),
		UserID:       u.UserID,
		AccessToken:  access,
		RefreshToken: uuid.New().String(),
		ExpiresAt:    now.Add(as.refreshTTL),
	}
	if _, err := as.userTokenRepo.Create(dbc, []*types.UserToken{row}); err != nil {
		return nil, mapRepoErr(op, err)
	}
	return &Session{
		AccessToken:  access,
		RefreshToken: row.RefreshToken,
		ExpiresIn:    int64(as.accessTTL / time.Second),
		User:         u,
	}, nil
}

func (as *authService) generateAccessToken(u *types.User, now time.Time) (string, error) {
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.UserID, 10),
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

// SetContextFromToken validates the JWT, checks the session still exists and
// attaches the caller to ctx.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	const op = "auth.token"
	if tokenString == "" {
		return ctx, apperr.Unauthorized(op, "missing token")
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(as.now))
	if err != nil {
		return ctx, apperr.New(apperr.CodeUnauthorized, op, "invalid or expired token", err)
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return ctx, apperr.Unauthorized(op, "invalid or expired token")
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return ctx, apperr.New(apperr.CodeUnauthorized, op, "invalid user id in token", err)
	}

	dbc := dbctx.Context{Ctx: ctx}
	found, err := as.userTokenRepo.GetByAccessTokens(dbc, []string{tokenString})
	if err != nil {
		return ctx, mapRepoErr(op, err)
	}
	if len(found) == 0 {
		return ctx, apperr.Unauthorized(op, "session has ended")
	}
	u, err := as.userRepo.GetByID(dbc, userID)
	if err != nil {
		return ctx, mapRepoErr(op, err)
	}
	if u == nil || !u.IsActive {
		return ctx, apperr.Unauthorized(op, "account unavailable")
	}

	rd := &ctxutil.RequestData{
		TokenString:  tokenString,
		RefreshToken: found[0].RefreshToken,
		UserID:       userID,
		IsStaff:      u.IsStaff,
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
