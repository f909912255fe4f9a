package task

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nao1215/tasksphere/pkg/trust"
)

// createTaskRequest はタスク作成リクエストのJSON構造。
type createTaskRequest struct {
	// Title はタイトル。
	Title string `json:"title" binding:"required"`
	// Description は説明。
	Description string `json:"description"`
	// Status は状態。省略時はTODO。
	Status string `json:"status" binding:"omitempty,oneof=TODO IN_PROGRESS DONE"`
	// AssignedTo は担当ユーザーのID。省略時は呼び出し元。
	AssignedTo string `json:"assignedTo"`
}

// taskResponse はタスクのJSONレスポンス構造。
type taskResponse struct {
	// ID はタスクの一意識別子。
	ID string `json:"id"`
	// Title はタイトル。
	Title string `json:"title"`
	// Description は説明。
	Description string `json:"description"`
	// Status は状態。
	Status string `json:"status"`
	// AssignedTo は担当ユーザーのID。
	AssignedTo string `json:"assignedTo"`
	// CreatedBy は作成したユーザーのID。
	CreatedBy string `json:"createdBy"`
	// CreatedAt は作成日時。
	CreatedAt string `json:"createdAt"`
}

// toTaskResponse はTaskをJSONレスポンスに変換する。
func toTaskResponse(t Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		AssignedTo:  t.AssignedTo,
		CreatedBy:   t.CreatedBy,
		CreatedAt:   t.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// routes はtaskサービスのルート定義。service.Serviceを実装する。
type routes struct {
	// store はタスクの永続化先。
	store *Store
	// log はロガー。
	log *zap.Logger
}

// Name はサービス名を返す。
func (r *routes) Name() string { return "task" }

// RegisterPublicRoutes は公開ルートを登録する。taskサービスには無い。
func (r *routes) RegisterPublicRoutes(gin.IRoutes) {}

// RegisterProtectedRoutes はタスクAPIを登録する。
func (r *routes) RegisterProtectedRoutes(g gin.IRoutes) {
	g.POST("/api/tasks", r.handleCreate())
	g.GET("/api/tasks", r.handleList())
	g.GET("/api/tasks/:id", r.handleGet())
}

// handleCreate はタスク作成を処理するハンドラを返す。
func (r *routes) handleCreate() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := trust.IdentityFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "ユーザーIDが取得できません"})
			return
		}

		var req createTaskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "リクエストが不正です"})
			return
		}

		t := Task{
			ID:          uuid.NewString(),
			Title:       strings.TrimSpace(req.Title),
			Description: req.Description,
			Status:      req.Status,
			AssignedTo:  req.AssignedTo,
			CreatedBy:   id.UserID,
		}
		if t.Status == "" {
			t.Status = StatusTodo
		}
		if t.AssignedTo == "" {
			t.AssignedTo = id.UserID
		}

		if err := r.store.Create(c.Request.Context(), t); err != nil {
			r.log.Error("タスク作成エラー", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "タスクの作成に失敗しました"})
			return
		}

		created, err := r.store.Get(c.Request.Context(), t.ID)
		if err != nil {
			r.log.Error("作成したタスクの取得エラー", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "タスクの作成に失敗しました"})
			return
		}
		c.JSON(http.StatusCreated, toTaskResponse(created))
	}
}

// handleList はタスク一覧を返すハンドラを返す。
// assignedToクエリが無い場合は呼び出し元が担当するタスクを返す。
func (r *routes) handleList() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := trust.IdentityFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "ユーザーIDが取得できません"})
			return
		}

		assignee := c.DefaultQuery("assignedTo", id.UserID)
		tasks, err := r.store.ListByAssignee(c.Request.Context(), assignee)
		if err != nil {
			r.log.Error("タスク一覧取得エラー", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "タスク一覧の取得に失敗しました"})
			return
		}

		resp := make([]taskResponse, 0, len(tasks))
		for _, t := range tasks {
			resp = append(resp, toTaskResponse(t))
		}
		c.JSON(http.StatusOK, gin.H{"tasks": resp})
	}
}

// handleGet はタスク詳細を返すハンドラを返す。
func (r *routes) handleGet() gin.HandlerFunc {
	return func(c *gin.Context) {
		t, err := r.store.Get(c.Request.Context(), c.Param("id"))
		if errors.Is(err, ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "タスクが見つかりません"})
			return
		}
		if err != nil {
			r.log.Error("タスク取得エラー", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "タスクの取得に失敗しました"})
			return
		}
		c.JSON(http.StatusOK, toTaskResponse(t))
	}
}
