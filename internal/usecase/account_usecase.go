package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"grocerystore/internal/config"
	"grocerystore/internal/domain/model"
	repo "grocerystore/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// セッションとアクセストークンの有効期限
const sessionTTL = 24 * time.Hour

// usecaseがValidatorInterfaceに依存する約束
type AccountValidator interface {
	ValidateRegister(ctx context.Context, name, username, email, password string) error
	ValidateProfile(ctx context.Context, name, username, email string) error
}

type UserDTO struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type RegisterInput struct {
	Name     string
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	User        UserDTO `json:"user"`
	AccessToken string  `json:"access_token"`
	ExpiresIn   int     `json:"expires_in"`
}

type UpdateProfileInput struct {
	Name     string
	Username string
	Email    string
}

type AccountUsecase struct {
	cfg       config.Config
	users     repo.UserRepository
	sessions  repo.SessionRepository
	tx        repo.TransactionManager
	validator AccountValidator
}

// DI
func NewAccountUsecase(
	cfg config.Config,
	users repo.UserRepository,
	sessions repo.SessionRepository,
	tx repo.TransactionManager,
	validator AccountValidator,
) *AccountUsecase {
	return &AccountUsecase{
		cfg:       cfg,
		users:     users,
		sessions:  sessions,
		tx:        tx,
		validator: validator,
	}
}

// Register は会員登録。username/emailは全ユーザーで一意。
func (u *AccountUsecase) Register(ctx context.Context, in RegisterInput) (UserDTO, error) {
	if err := u.validator.ValidateRegister(ctx, in.Name, in.Username, in.Email, in.Password); err != nil {
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	//重複チェック
	if _, err := u.users.FindByUsername(ctx, in.Username); err == nil {
		return UserDTO{}, NewHTTPError(http.StatusConflict, "username already taken")
	} else if err != repo.ErrNotFound {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if _, err := u.users.FindByEmail(ctx, in.Email); err == nil {
		return UserDTO{}, NewHTTPError(http.StatusConflict, "email already registered")
	} else if err != repo.ErrNotFound {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//パスワードは必ずハッシュ化して保存（平文保存しない）
	pwHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	user := &model.User{
		Name:         strings.TrimSpace(in.Name),
		Username:     strings.TrimSpace(in.Username),
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: string(pwHash),
		Role:         model.RoleUser,
	}

	if err := u.users.Create(ctx, user); err != nil {
		//チェックとINSERTの間に同じ値が入った場合はunique制約で弾かれる
		if err == repo.ErrDuplicate {
			return UserDTO{}, NewHTTPError(http.StatusConflict, "username or email already taken")
		}
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toUserDTO(user), nil
}

// Login はメール＋パスワードで認証する。
// requireAdminのときは管理者以外を同じメッセージで弾く
// （どちらが違ったかは漏らさない）。
func (u *AccountUsecase) Login(ctx context.Context, in LoginInput, requireAdmin bool) (LoginResult, error) {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return LoginResult{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	user, err := u.users.FindByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil || user == nil {
		return LoginResult{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return LoginResult{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	if requireAdmin && user.Role != model.RoleAdmin {
		return LoginResult{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	//セッション作成。SessionGuardがこの行でログアウト済みか判定する
	session := &model.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(sessionTTL),
	}
	if err := u.sessions.Create(ctx, session); err != nil {
		return LoginResult{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	accessToken, expiresIn, err := u.issueAccessToken(user, session.ID)
	if err != nil {
		return LoginResult{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return LoginResult{
		User:        toUserDTO(user),
		AccessToken: accessToken,
		ExpiresIn:   expiresIn,
	}, nil
}

// Logout はセッションを失効させる。
func (u *AccountUsecase) Logout(ctx context.Context, userID int64, sessionID string) error {
	if userID <= 0 || sessionID == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	s, err := u.sessions.FindByID(ctx, sessionID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if s.UserID != userID {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if err := u.sessions.Revoke(ctx, sessionID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *AccountUsecase) Me(ctx context.Context, userID int64) (UserDTO, error) {
	if userID <= 0 {
		return UserDTO{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := u.users.FindByID(ctx, userID)
	if err == repo.ErrNotFound {
		return UserDTO{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toUserDTO(user), nil
}

// UpdateProfile はプロフィール更新。
// 重複チェックは自分自身の現在値を除外する。
func (u *AccountUsecase) UpdateProfile(ctx context.Context, userID int64, in UpdateProfileInput) (UserDTO, error) {
	if userID <= 0 {
		return UserDTO{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := u.validator.ValidateProfile(ctx, in.Name, in.Username, in.Email); err != nil {
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if existing, err := u.users.FindByUsername(ctx, strings.TrimSpace(in.Username)); err == nil {
		if existing.ID != userID {
			return UserDTO{}, NewHTTPError(http.StatusConflict, "username already taken")
		}
	} else if err != repo.ErrNotFound {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if existing, err := u.users.FindByEmail(ctx, strings.TrimSpace(in.Email)); err == nil {
		if existing.ID != userID {
			return UserDTO{}, NewHTTPError(http.StatusConflict, "email already registered")
		}
	} else if err != repo.ErrNotFound {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	user, err := u.users.FindByID(ctx, userID)
	if err == repo.ErrNotFound {
		return UserDTO{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	user.Name = strings.TrimSpace(in.Name)
	user.Username = strings.TrimSpace(in.Username)
	user.Email = strings.TrimSpace(in.Email)

	if err := u.users.Update(ctx, user); err != nil {
		switch err {
		case repo.ErrDuplicate:
			return UserDTO{}, NewHTTPError(http.StatusConflict, "username or email already taken")
		case repo.ErrNotFound:
			return UserDTO{}, NewHTTPError(http.StatusNotFound, "not found")
		default:
			return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	return toUserDTO(user), nil
}

// DeleteAccount は退会。管理者アカウントは消せない。
// カート行とセッションも一緒に消す。
func (u *AccountUsecase) DeleteAccount(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := u.users.FindByID(ctx, userID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user.Role == model.RoleAdmin {
		return NewHTTPError(http.StatusForbidden, "forbidden")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Carts().DeleteByUserID(ctx, userID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Sessions().DeleteByUserID(ctx, userID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Users().Delete(ctx, userID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

// ListUsers は管理者用の全ユーザー一覧。
func (u *AccountUsecase) ListUsers(ctx context.Context, adminUserID int64) ([]UserDTO, error) {
	if adminUserID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	users, err := u.users.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]UserDTO, 0, len(users))
	for i := range users {
		outs = append(outs, toUserDTO(&users[i]))
	}
	return outs, nil
}

// EnsureBootstrapAdmin は起動時に管理者がいなければ作る。
func (u *AccountUsecase) EnsureBootstrapAdmin(ctx context.Context) error {
	_, err := u.users.FindByUsername(ctx, u.cfg.AdminUsername)
	if err == nil {
		return nil
	}
	if err != repo.ErrNotFound {
		return err
	}

	pwHash, err := bcrypt.GenerateFromPassword([]byte(u.cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &model.User{
		Name:         u.cfg.AdminName,
		Username:     u.cfg.AdminUsername,
		Email:        u.cfg.AdminEmail,
		PasswordHash: string(pwHash),
		Role:         model.RoleAdmin,
	}
	return u.users.Create(ctx, admin)
}

// jwt発行。sidでセッションと紐づける。
func (u *AccountUsecase) issueAccessToken(user *model.User, sessionID string) (string, int, error) {
	now := time.Now()
	exp := now.Add(sessionTTL)

	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"sid":  sessionID,
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := t.SignedString([]byte(u.cfg.JWTSecret))
	if err != nil {
		return "", 0, err
	}

	return signed, int(sessionTTL.Seconds()), nil
}

func toUserDTO(u *model.User) UserDTO {
	return UserDTO{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		Email:    u.Email,
		Role:     string(u.Role),
	}
}
