package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nao1215/tasksphere/pkg/middleware"
	"github.com/nao1215/tasksphere/pkg/trust"
)

// loginRequest はログインリクエストのJSON構造。
type loginRequest struct {
	// Email はメールアドレス。
	Email string `json:"email" binding:"required"`
	// Password はパスワード。
	Password string `json:"password" binding:"required"`
}

// loginResponse はログイン成功時のJSON構造。
type loginResponse struct {
	// JWTToken は発行したアクセストークン。
	JWTToken string `json:"jwtToken"`
	// UserName はユーザーの表示名。
	UserName string `json:"userName"`
	// UserID はユーザーの一意識別子。
	UserID string `json:"userId"`
}

// createUserRequest はユーザー登録リクエストのJSON構造。
type createUserRequest struct {
	// Email はメールアドレス。
	Email string `json:"email" binding:"required,email"`
	// Password はパスワード。bcryptの上限に合わせて72バイト以下。
	Password string `json:"password" binding:"required,min=8,max=72"`
	// Name は表示名。
	Name string `json:"name" binding:"required"`
	// Roles はロール。省略時はUSER。
	Roles []string `json:"roles"`
}

// userResponse はユーザーのJSONレスポンス構造。
type userResponse struct {
	// UserID はユーザーの一意識別子。
	UserID string `json:"userId"`
	// Email はメールアドレス。
	Email string `json:"email"`
	// Name は表示名。
	Name string `json:"name"`
	// Roles はロール。
	Roles []string `json:"roles"`
	// CreatedAt は作成日時。
	CreatedAt string `json:"createdAt"`
}

// toUserResponse はUserをJSONレスポンスに変換する。
func toUserResponse(u User) userResponse {
	return userResponse{
		UserID:    u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Roles:     trust.Identity{Roles: u.Roles}.RoleList(),
		CreatedAt: u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// routes はuserサービスのルート定義。service.Serviceを実装する。
type routes struct {
	// accounts はログインとユーザー登録の処理。
	accounts *Accounts
	// log はロガー。
	log *zap.Logger
}

// Name はサービス名を返す。
func (r *routes) Name() string { return "user" }

// RegisterPublicRoutes はログインを登録する。
func (r *routes) RegisterPublicRoutes(g gin.IRoutes) {
	g.POST("/api/users/login", r.handleLogin())
	g.POST("/auth/login", r.handleLogin())
}

// RegisterProtectedRoutes は信頼ヘッダーが必要なルートを登録する。
func (r *routes) RegisterProtectedRoutes(g gin.IRoutes) {
	g.GET("/api/users/me", r.handleMe())
	g.POST("/api/users", r.handleCreate())
}

// handleLogin はログインを処理するハンドラを返す。
// ログにはメールアドレスやパスワードを出力しない。
func (r *routes) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
			return
		}

		res, err := r.accounts.Login(c.Request.Context(), req.Email, req.Password)
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			r.log.Info("ログインに失敗しました", zap.String("trace_id", middleware.TraceID(c)))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		case err != nil:
			r.log.Error("ログイン処理でエラーが発生しました",
				zap.String("trace_id", middleware.TraceID(c)),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed. Please try again."})
			return
		}

		c.JSON(http.StatusOK, loginResponse{
			JWTToken: res.Token.Value,
			UserName: res.User.Name,
			UserID:   res.User.ID,
		})
	}
}

// handleMe は呼び出し元ユーザーのプロフィールを返すハンドラを返す。
func (r *routes) handleMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := trust.IdentityFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "ユーザーIDが取得できません"})
			return
		}

		u, err := r.accounts.Profile(c.Request.Context(), id.UserID)
		if errors.Is(err, ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ユーザーが見つかりません"})
			return
		}
		if err != nil {
			r.log.Error("ユーザー取得エラー", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ユーザーの取得に失敗しました"})
			return
		}
		c.JSON(http.StatusOK, toUserResponse(u))
	}
}

// handleCreate はユーザー登録を処理するハンドラを返す。ADMINロールが必要。
func (r *routes) handleCreate() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := trust.IdentityFrom(c)
		if !ok || !id.HasRole(RoleAdmin) {
			c.JSON(http.StatusForbidden, gin.H{"error": "管理者権限が必要です"})
			return
		}

		var req createUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "リクエストが不正です"})
			return
		}

		u, err := r.accounts.Register(c.Request.Context(), NewUser{
			Email:    req.Email,
			Password: req.Password,
			Name:     req.Name,
			Roles:    req.Roles,
		})
		if errors.Is(err, ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "メールアドレスは既に登録されています"})
			return
		}
		if err != nil {
			r.log.Error("ユーザー登録エラー", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ユーザーの登録に失敗しました"})
			return
		}
		c.JSON(http.StatusCreated, toUserResponse(u))
	}
}
