package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hitoshi/eventman/internal/middleware"
	"github.com/hitoshi/eventman/internal/model"
	"github.com/hitoshi/eventman/internal/participation"
	"github.com/hitoshi/eventman/internal/user"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// Get はユーザープロフィールを返す。
	Get(ctx context.Context, userID int64) (*model.User, error)
	// Update はユーザープロフィールを部分更新する。
	Update(ctx context.Context, userID int64, in user.UpdateInput) (*model.User, error)
}

// ParticipationServiceInterface は参加イベント一覧サービスのインターフェース。
type ParticipationServiceInterface interface {
	// FindEventsByUser はユーザーの参加イベントを開催日程ごとに展開して返す。
	FindEventsByUser(ctx context.Context, userID int64, status *model.ParticipantStatus) ([]model.ParticipationEntry, error)
}

// UserHandler はユーザープロフィールと参加イベント一覧のHTTPハンドラー。
type UserHandler struct {
	userService          UserServiceInterface
	participationService ParticipationServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(userService UserServiceInterface, participationService ParticipationServiceInterface) *UserHandler {
	return &UserHandler{
		userService:          userService,
		participationService: participationService,
	}
}

// --- リクエスト/レスポンス型 ---

// updateUserRequest はプロフィール更新リクエストのボディ。
// nilのフィールドは変更しない部分更新を行う。
type updateUserRequest struct {
	Nickname       *string `json:"nickname"`
	Description    *string `json:"description"`
	Email          *string `json:"email"`
	Password       *string `json:"password"`
	AvatarImageURL *string `json:"avatar_image_url"`
}

// userResponse はユーザープロフィールのAPIレスポンス。
// パスワードハッシュは含めない。
type userResponse struct {
	ID             int64     `json:"id"`
	Nickname       string    `json:"nickname"`
	Description    string    `json:"description"`
	Email          string    `json:"email"`
	AvatarImageURL string    `json:"avatar_image_url"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// participationResponse は参加イベント一覧の1行のレスポンス。
type participationResponse struct {
	Event             eventResponse `json:"event"`
	ParticipantStatus string        `json:"participant_status"`
	ParticipantRole   string        `json:"participant_role"`
	AppliedAt         time.Time     `json:"applied_at"`
}

// toUserResponse はドメインのUserをレスポンス型に変換する。
func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:             u.ID,
		Nickname:       u.Nickname,
		Description:    u.Description,
		Email:          u.Email,
		AvatarImageURL: u.AvatarImageURL,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

// GetMe は認証済みユーザーのプロフィールを取得する。
// GET /api/users/me
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	u, err := h.userService.Get(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccessResponse(w, http.StatusOK, toUserResponse(u))
}

// UpdateMe は認証済みユーザーのプロフィールを更新する。
// PUT /api/users/me
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "リクエストボディの解析に失敗しました")
		return
	}

	updated, err := h.userService.Update(r.Context(), userID, user.UpdateInput{
		Nickname:       req.Nickname,
		Description:    req.Description,
		Email:          req.Email,
		Password:       req.Password,
		AvatarImageURL: req.AvatarImageURL,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccessResponse(w, http.StatusOK, toUserResponse(updated))
}

// ListMyEvents は認証済みユーザーの参加イベント一覧を取得する。
// GET /api/users/me/events?status=pending|approved|rejected
func (h *UserHandler) ListMyEvents(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	status, err := participation.ParseStatus(r.URL.Query().Get("status"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	entries, err := h.participationService.FindEventsByUser(r.Context(), userID, status)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]participationResponse, len(entries))
	for i, entry := range entries {
		results[i] = participationResponse{
			Event:             toEventResponse(entry.Event, []model.Occurrence{entry.Occurrence}),
			ParticipantStatus: string(entry.Status),
			ParticipantRole:   string(entry.Role),
			AppliedAt:         entry.AppliedAt,
		}
	}

	writeSuccessResponse(w, http.StatusOK, results)
}
