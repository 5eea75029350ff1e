// Package device は対応プラットフォーム（デバイス）参照のドメインロジックを提供する。
package device

import (
	"context"
	"fmt"

	"github.com/hitoshi/eventman/internal/model"
	"github.com/hitoshi/eventman/internal/repository"
)

// Service はデバイス参照のサービス層。
type Service struct {
	deviceRepo repository.DeviceRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(deviceRepo repository.DeviceRepository) *Service {
	return &Service{deviceRepo: deviceRepo}
}

// List は削除されていないデバイスの一覧をID昇順で返す。
// イベント作成フォームの選択肢として使用される。
func (s *Service) List(ctx context.Context) ([]model.Device, error) {
	devices, err := s.deviceRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("デバイス一覧の取得に失敗しました: %w", err)
	}
	return devices, nil
}
