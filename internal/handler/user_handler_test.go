package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/eventman/internal/model"
	"github.com/hitoshi/eventman/internal/user"
)

// --- モック定義 ---

// mockUserService はUserServiceInterfaceのモック実装。
type mockUserService struct {
	getFn    func(ctx context.Context, userID int64) (*model.User, error)
	updateFn func(ctx context.Context, userID int64, in user.UpdateInput) (*model.User, error)
}

func (m *mockUserService) Get(ctx context.Context, userID int64) (*model.User, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID)
	}
	return nil, model.NewUserNotFoundError()
}

func (m *mockUserService) Update(ctx context.Context, userID int64, in user.UpdateInput) (*model.User, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, userID, in)
	}
	return nil, errors.New("updateFn not set")
}

// mockParticipationService はParticipationServiceInterfaceのモック実装。
type mockParticipationService struct {
	findEventsByUserFn func(ctx context.Context, userID int64, status *model.ParticipantStatus) ([]model.ParticipationEntry, error)
}

func (m *mockParticipationService) FindEventsByUser(ctx context.Context, userID int64, status *model.ParticipantStatus) ([]model.ParticipationEntry, error) {
	if m.findEventsByUserFn != nil {
		return m.findEventsByUserFn(ctx, userID, status)
	}
	return nil, nil
}

func testUser() *model.User {
	return &model.User{
		ID:             12,
		Nickname:       "VRChatユーザー",
		Description:    "音楽イベントが好きです",
		Email:          "user@example.com",
		AvatarImageURL: "https://cdn.example.com/avatar.png",
		PasswordHash:   "$2a$10$secret",
		CreatedAt:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// --- GET /api/users/me テスト ---

func TestUserHandler_GetMe_Success(t *testing.T) {
	svc := &mockUserService{
		getFn: func(ctx context.Context, userID int64) (*model.User, error) {
			if userID != 12 {
				t.Errorf("userID = %d, want 12", userID)
			}
			return testUser(), nil
		},
	}

	h := NewUserHandler(svc, &mockParticipationService{})

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req = withUserID(req, 12)
	w := httptest.NewRecorder()

	h.GetMe(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	env := decodeEnvelope(t, w)
	var data userResponse
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("dataのデコードに失敗: %v", err)
	}
	if data.Nickname != "VRChatユーザー" {
		t.Errorf("nickname = %q", data.Nickname)
	}

	// パスワードハッシュがレスポンスに含まれないこと
	if strings.Contains(w.Body.String(), "secret") {
		t.Error("レスポンスにパスワードハッシュが含まれている")
	}
}

func TestUserHandler_GetMe_NoUserID_ReturnsUnauthorized(t *testing.T) {
	h := NewUserHandler(&mockUserService{}, &mockParticipationService{})

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	// ユーザーIDを注入しない
	w := httptest.NewRecorder()

	h.GetMe(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestUserHandler_GetMe_UserNotFound_Returns404(t *testing.T) {
	svc := &mockUserService{
		getFn: func(ctx context.Context, userID int64) (*model.User, error) {
			return nil, model.NewUserNotFoundError()
		},
	}

	h := NewUserHandler(svc, &mockParticipationService{})

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req = withUserID(req, 12)
	w := httptest.NewRecorder()

	h.GetMe(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// --- PUT /api/users/me テスト ---

func TestUserHandler_UpdateMe_Success(t *testing.T) {
	var gotInput user.UpdateInput
	svc := &mockUserService{
		updateFn: func(ctx context.Context, userID int64, in user.UpdateInput) (*model.User, error) {
			gotInput = in
			updated := testUser()
			updated.Nickname = *in.Nickname
			return updated, nil
		},
	}

	h := NewUserHandler(svc, &mockParticipationService{})

	body := `{"nickname": "新しい名前", "description": "更新後の自己紹介"}`
	req := httptest.NewRequest(http.MethodPut, "/api/users/me", strings.NewReader(body))
	req = withUserID(req, 12)
	w := httptest.NewRecorder()

	h.UpdateMe(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body=%s", w.Code, http.StatusOK, w.Body.String())
	}

	if gotInput.Nickname == nil || *gotInput.Nickname != "新しい名前" {
		t.Errorf("Nickname = %v", gotInput.Nickname)
	}
	if gotInput.Description == nil || *gotInput.Description != "更新後の自己紹介" {
		t.Errorf("Description = %v", gotInput.Description)
	}
	// 指定しなかったフィールドはnilで渡ること
	if gotInput.Email != nil {
		t.Errorf("Email = %v, want nil", gotInput.Email)
	}
	if gotInput.Password != nil {
		t.Errorf("Password = %v, want nil", gotInput.Password)
	}

	env := decodeEnvelope(t, w)
	var data userResponse
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("dataのデコードに失敗: %v", err)
	}
	if data.Nickname != "新しい名前" {
		t.Errorf("nickname = %q", data.Nickname)
	}
}

func TestUserHandler_UpdateMe_InvalidJSON_Returns400(t *testing.T) {
	h := NewUserHandler(&mockUserService{}, &mockParticipationService{})

	req := httptest.NewRequest(http.MethodPut, "/api/users/me", strings.NewReader(`{broken`))
	req = withUserID(req, 12)
	w := httptest.NewRecorder()

	h.UpdateMe(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestUserHandler_UpdateMe_ValidationError_ReturnsFieldErrors(t *testing.T) {
	svc := &mockUserService{
		updateFn: func(ctx context.Context, userID int64, in user.UpdateInput) (*model.User, error) {
			verr := &model.ValidationError{}
			verr.Add("nickname", "ニックネームは必須です")
			verr.Add("email", "有効なメールアドレスを入力してください")
			return nil, verr
		},
	}

	h := NewUserHandler(svc, &mockParticipationService{})

	body := `{"nickname": "", "email": "bad"}`
	req := httptest.NewRequest(http.MethodPut, "/api/users/me", strings.NewReader(body))
	req = withUserID(req, 12)
	w := httptest.NewRecorder()

	h.UpdateMe(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	env := decodeEnvelope(t, w)
	if len(env.Errors) != 2 {
		t.Errorf("errors件数 = %d, want 2", len(env.Errors))
	}
}

func TestUserHandler_UpdateMe_NicknameTaken_Returns409(t *testing.T) {
	svc := &mockUserService{
		updateFn: func(ctx context.Context, userID int64, in user.UpdateInput) (*model.User, error) {
			return nil, model.NewNicknameTakenError()
		},
	}

	h := NewUserHandler(svc, &mockParticipationService{})

	body := `{"nickname": "使用済みの名前"}`
	req := httptest.NewRequest(http.MethodPut, "/api/users/me", strings.NewReader(body))
	req = withUserID(req, 12)
	w := httptest.NewRecorder()

	h.UpdateMe(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusConflict)
	}

	env := decodeEnvelope(t, w)
	if env.Message != "このニックネームは既に使用されています。" {
		t.Errorf("message = %q", env.Message)
	}
}

// --- GET /api/users/me/events テスト ---

func TestUserHandler_ListMyEvents_Success(t *testing.T) {
	var gotUserID int64
	var gotStatus *model.ParticipantStatus
	svc := &mockParticipationService{
		findEventsByUserFn: func(ctx context.Context, userID int64, status *model.ParticipantStatus) ([]model.ParticipationEntry, error) {
			gotUserID = userID
			gotStatus = status
			eo := testEventOccurrence(3, 30)
			return []model.ParticipationEntry{
				{
					Event:      eo.Event,
					Occurrence: eo.Occurrence,
					Status:     model.ParticipantStatusApproved,
					Role:       model.ParticipantRoleParticipant,
					AppliedAt:  time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC),
				},
			}, nil
		},
	}

	h := NewUserHandler(&mockUserService{}, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me/events?status=approved", nil)
	req = withUserID(req, 12)
	w := httptest.NewRecorder()

	h.ListMyEvents(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	if gotUserID != 12 {
		t.Errorf("userID = %d, want 12", gotUserID)
	}
	if gotStatus == nil || *gotStatus != model.ParticipantStatusApproved {
		t.Errorf("status = %v, want approved", gotStatus)
	}

	env := decodeEnvelope(t, w)
	var data []participationResponse
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("dataのデコードに失敗: %v", err)
	}
	if len(data) != 1 {
		t.Fatalf("entries件数 = %d, want 1", len(data))
	}
	if data[0].ParticipantStatus != "approved" {
		t.Errorf("participant_status = %q, want %q", data[0].ParticipantStatus, "approved")
	}
	if data[0].ParticipantRole != "participant" {
		t.Errorf("participant_role = %q, want %q", data[0].ParticipantRole, "participant")
	}
	if data[0].Event.ID != 3 {
		t.Errorf("event id = %d, want 3", data[0].Event.ID)
	}
}

func TestUserHandler_ListMyEvents_NoStatusFilter_PassesNil(t *testing.T) {
	statusPassed := false
	svc := &mockParticipationService{
		findEventsByUserFn: func(ctx context.Context, userID int64, status *model.ParticipantStatus) ([]model.ParticipationEntry, error) {
			statusPassed = status == nil
			return nil, nil
		},
	}

	h := NewUserHandler(&mockUserService{}, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me/events", nil)
	req = withUserID(req, 12)
	w := httptest.NewRecorder()

	h.ListMyEvents(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !statusPassed {
		t.Error("status未指定時はnilをサービスに渡すべき")
	}
}

func TestUserHandler_ListMyEvents_InvalidStatus_Returns400(t *testing.T) {
	called := false
	svc := &mockParticipationService{
		findEventsByUserFn: func(ctx context.Context, userID int64, status *model.ParticipantStatus) ([]model.ParticipationEntry, error) {
			called = true
			return nil, nil
		},
	}

	h := NewUserHandler(&mockUserService{}, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me/events?status=cancelled", nil)
	req = withUserID(req, 12)
	w := httptest.NewRecorder()

	h.ListMyEvents(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if called {
		t.Error("statusが不正な場合はサービスを呼んではいけない")
	}
}

func TestUserHandler_ListMyEvents_NoUserID_ReturnsUnauthorized(t *testing.T) {
	h := NewUserHandler(&mockUserService{}, &mockParticipationService{})

	req := httptest.NewRequest(http.MethodGet, "/api/users/me/events", nil)
	// ユーザーIDを注入しない
	w := httptest.NewRecorder()

	h.ListMyEvents(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestUserHandler_ListMyEvents_StoreError_Returns500(t *testing.T) {
	svc := &mockParticipationService{
		findEventsByUserFn: func(ctx context.Context, userID int64, status *model.ParticipantStatus) ([]model.ParticipationEntry, error) {
			return nil, errors.New("connection refused")
		},
	}

	h := NewUserHandler(&mockUserService{}, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me/events", nil)
	req = withUserID(req, 12)
	w := httptest.NewRecorder()

	h.ListMyEvents(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}
