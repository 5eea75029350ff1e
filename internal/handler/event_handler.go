package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/eventman/internal/event"
	"github.com/hitoshi/eventman/internal/listing"
	"github.com/hitoshi/eventman/internal/middleware"
	"github.com/hitoshi/eventman/internal/model"
)

// ListingServiceInterface はイベントハンドラーが必要とする一覧エンジンのインターフェース。
type ListingServiceInterface interface {
	// FindEvents はイベント一覧をランキング・ページネーション付きで返す。
	FindEvents(ctx context.Context, q model.ListingQuery) (*listing.Result, error)
	// FindEventByID はイベント詳細を最初の開催日程付きで返す。
	FindEventByID(ctx context.Context, id int64) (*model.EventOccurrence, error)
}

// EventCreationServiceInterface はイベント作成サービスのインターフェース。
type EventCreationServiceInterface interface {
	// Create はイベント・開催日程・主催者参加レコードを登録する。
	Create(ctx context.Context, organizerID int64, in event.CreateInput) (*model.EventWithOccurrences, error)
}

// EventMetricsRecorder はイベント作成のメトリクス収集インターフェース。nil許容。
type EventMetricsRecorder interface {
	RecordEventCreated(deviceID int64)
}

// EventHandler はイベント一覧・詳細・作成のHTTPハンドラー。
type EventHandler struct {
	listingService  ListingServiceInterface
	creationService EventCreationServiceInterface
	metrics         EventMetricsRecorder
}

// NewEventHandler はEventHandlerを生成する。metricsはnil許容。
func NewEventHandler(listingService ListingServiceInterface, creationService EventCreationServiceInterface, metrics EventMetricsRecorder) *EventHandler {
	return &EventHandler{
		listingService:  listingService,
		creationService: creationService,
		metrics:         metrics,
	}
}

// --- リクエスト/レスポンス型 ---

// createEventRequest はイベント作成リクエストのボディ。
type createEventRequest struct {
	Title              string `json:"title"`
	Description        string `json:"description"`
	DeviceID           int64  `json:"device_id"`
	MainImageURL       string `json:"main_image_url"`
	StartDate          string `json:"start_date"`
	EndDate            string `json:"end_date"`
	Deadline           string `json:"deadline"`
	MaxParticipantsNum *int   `json:"max_participants_num"`
}

// eventDateResponse は開催日程のレスポンス。
type eventDateResponse struct {
	ID        int64     `json:"id"`
	EventID   int64     `json:"event_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// eventResponse はイベント情報のAPIレスポンス。
// event_datesには一覧・詳細では該当する開催日程1件のみ、
// 作成直後のレスポンスでは登録した全日程が入る。
type eventResponse struct {
	ID                 int64               `json:"id"`
	Title              string              `json:"title"`
	Description        string              `json:"description,omitempty"`
	DeviceID           int64               `json:"device_id"`
	DeviceName         string              `json:"device_name"`
	MaxParticipantsNum *int                `json:"max_participants_num,omitempty"`
	MainImageURL       string              `json:"main_image_url"`
	Deadline           *time.Time          `json:"deadline,omitempty"`
	EventDates         []eventDateResponse `json:"event_dates"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// eventListResponse はイベント一覧のレスポンスデータ。
// Totalはページ切り出し前のランキング済み全件数。
type eventListResponse struct {
	Events []eventResponse `json:"events"`
	Total  int             `json:"total"`
}

// toEventResponse はイベントと開催日程をレスポンス型に変換する。
func toEventResponse(ev model.Event, occurrences []model.Occurrence) eventResponse {
	dates := make([]eventDateResponse, len(occurrences))
	for i, occ := range occurrences {
		dates[i] = eventDateResponse{
			ID:        occ.ID,
			EventID:   occ.EventID,
			StartDate: occ.StartDate,
			EndDate:   occ.EndDate,
		}
	}

	return eventResponse{
		ID:                 ev.ID,
		Title:              ev.Title,
		Description:        ev.Description,
		DeviceID:           ev.DeviceID,
		DeviceName:         ev.DeviceName,
		MaxParticipantsNum: ev.MaxParticipants,
		MainImageURL:       ev.MainImageURL,
		Deadline:           ev.Deadline,
		EventDates:         dates,
		CreatedAt:          ev.CreatedAt,
		UpdatedAt:          ev.UpdatedAt,
	}
}

// ListEvents はイベント一覧を取得する。
// GET /api/events?device_id=&limit=&offset=&sort=newest|upcoming
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	q, err := listing.ParseQuery(r.URL.Query())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	result, err := h.listingService.FindEvents(r.Context(), q)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	events := make([]eventResponse, len(result.Items))
	for i, item := range result.Items {
		events[i] = toEventResponse(item.Event, []model.Occurrence{item.Occurrence})
	}

	writeSuccessResponse(w, http.StatusOK, eventListResponse{
		Events: events,
		Total:  result.Total,
	})
}

// GetEvent はイベント詳細を取得する。
// GET /api/events/:id
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		verr := &model.ValidationError{}
		verr.Add("id", "idは正の整数である必要があります")
		writeValidationErrorResponse(w, verr)
		return
	}

	eo, err := h.listingService.FindEventByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccessResponse(w, http.StatusOK, toEventResponse(eo.Event, []model.Occurrence{eo.Occurrence}))
}

// CreateEvent はイベントを作成する。
// POST /api/events
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "リクエストボディの解析に失敗しました")
		return
	}

	created, err := h.creationService.Create(r.Context(), userID, event.CreateInput{
		Title:              req.Title,
		Description:        req.Description,
		DeviceID:           req.DeviceID,
		MainImageURL:       req.MainImageURL,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		Deadline:           req.Deadline,
		MaxParticipantsNum: req.MaxParticipantsNum,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordEventCreated(created.Event.DeviceID)
	}

	writeSuccessResponse(w, http.StatusCreated, toEventResponse(created.Event, created.Occurrences))
}
