package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/eventman/internal/middleware"
)

// withUserID は認証済みユーザーIDをリクエストコンテキストに注入する。
func withUserID(req *http.Request, userID int64) *http.Request {
	ctx := middleware.ContextWithUserID(req.Context(), userID)
	return req.WithContext(ctx)
}

// envelope はテストでレスポンスエンベロープをデコードするための型。
type envelope struct {
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Errors     []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

// decodeEnvelope はレスポンスボディをエンベロープとしてデコードする。
func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
		t.Fatalf("レスポンスのデコードに失敗: %v", err)
	}
	return env
}
