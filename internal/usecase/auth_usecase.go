package usecase

import (
	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/repository"

	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	//400 入力不足
	ErrValidation = errors.New("validation error")
	//401 認証失敗（token無し・署名不正・期限切れ・ユーザー不在はすべてここ）
	ErrUnauthorized = errors.New("unauthorized")
	//403 権限
	ErrForbidden = errors.New("forbidden")
	//401 署名は正しいが保存値と不一致（ローテ済み/ログアウト済み）。
	//clientは再ログインが必要なのでErrUnauthorizedとは分ける
	ErrRefreshReused = errors.New("refresh token is expired or used")
	//409 重複
	ErrConflict = errors.New("conflict")
	//429 ログイン連打
	ErrRateLimited = errors.New("too many attempts")
	//500
	ErrInternal = errors.New("internal error")
)

// usecaseがValidatorInterfaceに依存する約束
type AuthValidator interface {
	ValidateRegister(ctx context.Context, username string, email string, password string) error
	ValidateLogin(ctx context.Context, identifier string, password string) error
	ValidateChangePassword(ctx context.Context, oldPassword string, newPassword string) error
}

// ログイン試行の流量制限。超過時はErrRateLimitedを返す約束
type LoginLimiter interface {
	Enforce(ctx context.Context, identifier string) error
	Reset(ctx context.Context, identifier string) error
}

type UserDTO struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	Avatar     string    `json:"avatar"`
	CoverImage string    `json:"cover_image"`
	CreatedAt  time.Time `json:"created_at"`
}

type TokenPairDTO struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"` // access tokenの残り秒
}

type AuthRegisterRequest struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	FullName   string `json:"full_name"`
	Avatar     string `json:"avatar"`
	CoverImage string `json:"cover_image"`
}

type AuthRegisterResponse struct {
	User UserDTO `json:"user"`
}

type AuthLoginRequest struct {
	// emailでもusernameでもログインできる
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type AuthLoginResponse struct {
	User  UserDTO      `json:"user"`
	Token TokenPairDTO `json:"token"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

type AuthUsecase struct {
	cfg       config.Config
	users     repository.UserRepository
	sessions  repository.SessionRepository
	validator AuthValidator
	limiter   LoginLimiter
}

func NewAuthUsecase(
	cfg config.Config,
	users repository.UserRepository,
	sessions repository.SessionRepository,
	validator AuthValidator,
	limiter LoginLimiter,
) *AuthUsecase {
	return &AuthUsecase{
		cfg:       cfg,
		users:     users,
		sessions:  sessions,
		validator: validator,
		limiter:   limiter,
	}
}

func (u *AuthUsecase) Register(ctx context.Context, req AuthRegisterRequest) (*AuthRegisterResponse, error) {
	//入力検証（validatorに寄せる）
	if err := u.validator.ValidateRegister(ctx, req.Username, req.Email, req.Password); err != nil {
		return nil, err
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.TrimSpace(req.Email)

	//username/emailの重複チェック
	if existing, err := u.users.FindByUsername(ctx, username); err != nil {
		return nil, ErrInternal
	} else if existing != nil {
		return nil, ErrConflict
	}
	if existing, err := u.users.FindByEmail(ctx, email); err != nil {
		return nil, ErrInternal
	} else if existing != nil {
		return nil, ErrConflict
	}

	//パスワードは必ずハッシュ化して保存（平文保存しない）
	pwHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrInternal
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		FullName:     strings.TrimSpace(req.FullName),
		Avatar:       req.Avatar,
		CoverImage:   req.CoverImage,
		PasswordHash: string(pwHash),
	}

	//保存（unique違反はチェックとの競合時のみ）
	if err := u.users.Create(ctx, user); err != nil {
		return nil, ErrConflict
	}

	dto := toUserDTO(user)
	return &AuthRegisterResponse{User: dto}, nil
}

func (u *AuthUsecase) Login(ctx context.Context, req AuthLoginRequest) (*AuthLoginResponse, error) {
	if err := u.validator.ValidateLogin(ctx, req.Identifier, req.Password); err != nil {
		return nil, err
	}

	identifier := strings.TrimSpace(req.Identifier)

	//連打チェック（Redis未設定ならnoop）
	if err := u.limiter.Enforce(ctx, strings.ToLower(identifier)); err != nil {
		if errors.Is(err, ErrRateLimited) {
			return nil, ErrRateLimited
		}
		return nil, ErrInternal
	}

	//ユーザー取得（@が入っていればemail扱い）
	user, err := u.findByIdentifier(ctx, identifier)
	if err != nil || user == nil {
		return nil, ErrUnauthorized
	}

	//パスワード照合（bcrypt）
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrUnauthorized
	}

	//成功したらカウンタは消す
	_ = u.limiter.Reset(ctx, strings.ToLower(identifier))

	//token pair発行＋セッション保存。保存が失敗したらtokenは返さない
	pair, err := u.issueAndStore(ctx, user)
	if err != nil {
		return nil, ErrInternal
	}

	dto := toUserDTO(user)
	return &AuthLoginResponse{User: dto, Token: *pair}, nil
}

// Refreshはrefresh tokenを新しいpairに交換する。
// 署名が正しくても保存値と一致しない限り成功しない（使い回し防止）。
func (u *AuthUsecase) Refresh(ctx context.Context, refreshToken string) (*TokenPairDTO, error) {
	if refreshToken == "" {
		return nil, ErrUnauthorized
	}

	//署名・期限の検証（refresh secret）
	userID, err := u.parseRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrUnauthorized
	}

	//ユーザーがまだ存在するか
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}
	if user == nil {
		return nil, ErrUnauthorized
	}

	//新しいpairに署名してから、保存値が一致する場合だけ差し替える（CAS）。
	//0件更新＝supersededかrevoked。どちらかはclientに区別させない
	accessToken, newRefresh, expiresIn, err := u.signTokenPair(user)
	if err != nil {
		return nil, ErrInternal
	}

	expiresAt := time.Now().Add(u.cfg.JWT.RefreshTTL)
	err = u.sessions.Rotate(ctx, user.ID, hashToken(refreshToken), hashToken(newRefresh), expiresAt)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, ErrRefreshReused
		}
		return nil, ErrInternal
	}

	return &TokenPairDTO{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
		ExpiresIn:    expiresIn,
	}, nil
}

// Logoutはセッション行を消す。提示値の照合は不要（認証済みのuserIDで消す）
func (u *AuthUsecase) Logout(ctx context.Context, userID int64) (*SuccessResponse, error) {
	if err := u.sessions.DeleteByUserID(ctx, userID); err != nil {
		return nil, ErrInternal
	}
	return &SuccessResponse{Message: "logout success"}, nil
}

func (u *AuthUsecase) Me(ctx context.Context, user *model.User) UserDTO {
	return toUserDTO(user)
}

func (u *AuthUsecase) ChangePassword(ctx context.Context, user *model.User, oldPassword string, newPassword string) (*SuccessResponse, error) {
	if err := u.validator.ValidateChangePassword(ctx, oldPassword, newPassword); err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return nil, ErrUnauthorized
	}

	pwHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrInternal
	}

	user.PasswordHash = string(pwHash)
	if err := u.users.Update(ctx, user); err != nil {
		return nil, ErrInternal
	}

	return &SuccessResponse{Message: "password changed"}, nil
}

func (u *AuthUsecase) findByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	if strings.Contains(identifier, "@") {
		return u.users.FindByEmail(ctx, identifier)
	}
	return u.users.FindByUsername(ctx, strings.ToLower(identifier))
}

// 署名→保存の順。保存が確認できるまでtokenは呼び出し側に渡らない
func (u *AuthUsecase) issueAndStore(ctx context.Context, user *model.User) (*TokenPairDTO, error) {
	accessToken, refreshToken, expiresIn, err := u.signTokenPair(user)
	if err != nil {
		return nil, err
	}

	session := &model.Session{
		ID:               uuid.NewString(),
		UserID:           user.ID,
		RefreshTokenHash: hashToken(refreshToken),
		ExpiresAt:        time.Now().Add(u.cfg.JWT.RefreshTTL),
	}

	//user_idが既にあれば上書き＝前のセッションはここで失効
	if err := u.sessions.Upsert(ctx, session); err != nil {
		return nil, err
	}

	return &TokenPairDTO{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	}, nil
}

// access/refreshの2本に署名する。secretもTTLも別。
// HS256は決定的なので、同一秒内の発行でも別のtokenになるよう両方にjtiを振る。
// ExpiresInは署名したexpそのものから出す
func (u *AuthUsecase) signTokenPair(user *model.User) (string, string, int, error) {
	now := time.Now()
	accessExp := now.Add(u.cfg.JWT.AccessTTL)

	accessClaims := jwt.MapClaims{
		"sub":       user.ID,
		"email":     user.Email,
		"username":  user.Username,
		"full_name": user.FullName,
		"jti":       uuid.NewString(),
		"iat":       now.Unix(),
		"exp":       accessExp.Unix(),
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).
		SignedString([]byte(u.cfg.JWT.AccessSecret))
	if err != nil {
		return "", "", 0, err
	}

	//refresh側はsubとjtiだけ
	refreshClaims := jwt.MapClaims{
		"sub": user.ID,
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(u.cfg.JWT.RefreshTTL).Unix(),
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).
		SignedString([]byte(u.cfg.JWT.RefreshSecret))
	if err != nil {
		return "", "", 0, err
	}

	return accessToken, refreshToken, int(accessExp.Unix() - now.Unix()), nil
}

// refresh tokenの署名・期限を検証してsub（user id）を返す
func (u *AuthUsecase) parseRefreshToken(refreshToken string) (int64, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)

	token, err := parser.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		return []byte(u.cfg.JWT.RefreshSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrUnauthorized
	}

	return parseSubject(claims["sub"])
}

// subをint64に変換する（数値でもstringでも受ける）
func parseSubject(v interface{}) (int64, error) {
	switch t := v.(type) {
	case float64:
		return int64(t), nil
	case string:
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, errors.New("invalid sub")
	}
}

// DB保存用のハッシュ（平文のtokenは保存しない）
func hashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// model.UserをAPI返却用DTOに変換。
func toUserDTO(u *model.User) UserDTO {
	return UserDTO{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FullName:   u.FullName,
		Avatar:     u.Avatar,
		CoverImage: u.CoverImage,
		CreatedAt:  u.CreatedAt,
	}
}
