package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/eventman/internal/metrics"
	"github.com/hitoshi/eventman/internal/middleware"
)

// DBPinger はヘルスチェックで使用するデータベース疎通確認のインターフェース。
// *sql.DBが実装する。
type DBPinger interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	CSRFConfig        middleware.CSRFConfig
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// メトリクス（nil許容）
	StatusRecorder middleware.HTTPStatusRecorder
	EventMetrics   EventMetricsRecorder
	Gatherer       prometheus.Gatherer

	// サービス
	ListingService       ListingServiceInterface
	EventService         EventCreationServiceInterface
	DeviceService        DeviceServiceInterface
	UserService          UserServiceInterface
	ParticipationService ParticipationServiceInterface

	// ヘルスチェック
	DB DBPinger
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Metrics → Logging → (CSRF) → (Session → RateLimit)
//
// 一覧・詳細・デバイスの読み取り系は認証不要、
// イベント作成とプロフィール関連はセッション認証を必須とする。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	if deps.StatusRecorder != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.StatusRecorder))
	}
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))

	eventHandler := NewEventHandler(deps.ListingService, deps.EventService, deps.EventMetrics)
	deviceHandler := NewDeviceHandler(deps.DeviceService)
	userHandler := NewUserHandler(deps.UserService, deps.ParticipationService)

	// --- 運用エンドポイント ---

	r.Get("/health", NewHealthHandler(deps.DB))
	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	// --- APIエンドポイント ---

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))

		r.Method(http.MethodGet, "/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig))

		// 認証不要の読み取り系
		r.Get("/events", eventHandler.ListEvents)
		r.Get("/events/{id}", eventHandler.GetEvent)
		r.Get("/devices", deviceHandler.ListDevices)

		// 認証が必要なルート
		// ミドルウェアスタック: Session → RateLimit(General)
		r.Group(func(r chi.Router) {
			r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
			r.Use(deps.RateLimiter.GeneralMiddleware())

			// POST /api/events - イベント作成（作成専用レート制限を追加）
			r.With(deps.RateLimiter.EventRegistrationMiddleware()).Post("/events", eventHandler.CreateEvent)

			r.Route("/users/me", func(r chi.Router) {
				r.Get("/", userHandler.GetMe)
				r.Put("/", userHandler.UpdateMe)
				r.Get("/events", userHandler.ListMyEvents)
			})
		})
	})

	return r
}

// NewHealthHandler はデータベース疎通を確認するヘルスチェックハンドラーを返す。
// GET /health
func NewHealthHandler(db DBPinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				writeErrorResponse(w, http.StatusServiceUnavailable, "データベースに接続できません")
				return
			}
		}
		writeSuccessResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
