package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/hitoshi/eventman/internal/model"
)

// DeviceServiceInterface はデバイスハンドラーが必要とするサービスインターフェース。
type DeviceServiceInterface interface {
	// List は生存中のデバイス一覧をID昇順で返す。
	List(ctx context.Context) ([]model.Device, error)
}

// DeviceHandler はデバイスカタログのHTTPハンドラー。
type DeviceHandler struct {
	service DeviceServiceInterface
}

// NewDeviceHandler はDeviceHandlerを生成する。
func NewDeviceHandler(service DeviceServiceInterface) *DeviceHandler {
	return &DeviceHandler{service: service}
}

// deviceResponse はデバイス情報のAPIレスポンス。
type deviceResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListDevices はデバイス一覧を取得する。
// GET /api/devices
func (h *DeviceHandler) ListDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]deviceResponse, len(devices))
	for i, d := range devices {
		results[i] = deviceResponse{
			ID:        d.ID,
			Name:      d.Name,
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		}
	}

	writeSuccessResponse(w, http.StatusOK, results)
}
