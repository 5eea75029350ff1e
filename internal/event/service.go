// Package event はイベント作成のドメインロジックを提供する。
package event

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hitoshi/eventman/internal/model"
	"github.com/hitoshi/eventman/internal/repository"
	"github.com/hitoshi/eventman/internal/security"
)

// タイトルの最大文字数。
const maxTitleLength = 100

// CreateInput はイベント作成リクエストの入力値。
// 日時フィールドはRFC 3339形式の文字列で受け取り、サービス層でパースする。
type CreateInput struct {
	Title              string
	Description        string
	DeviceID           int64
	MainImageURL       string
	StartDate          string
	EndDate            string
	Deadline           string
	MaxParticipantsNum *int
}

// Service はイベント作成のサービス層。
// 入力検証、説明文のサニタイズ、画像URLの安全性検証を行ったうえで
// イベント・開催日程・主催者参加レコードを登録する。
type Service struct {
	eventRepo   repository.EventRepository
	deviceRepo  repository.DeviceRepository
	sanitizer   security.ContentSanitizerService
	imageGuard  security.ImageGuardService
	probeImages bool
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	eventRepo repository.EventRepository,
	deviceRepo repository.DeviceRepository,
	sanitizer security.ContentSanitizerService,
	imageGuard security.ImageGuardService,
) *Service {
	return &Service{
		eventRepo:  eventRepo,
		deviceRepo: deviceRepo,
		sanitizer:  sanitizer,
		imageGuard: imageGuard,
	}
}

// WithImageProbe は画像URLへの到達性検証を有効化する。
// 有効時、イベント作成のたびに画像URLへHEADリクエストを送る。
func (s *Service) WithImageProbe(enabled bool) *Service {
	s.probeImages = enabled
	return s
}

// validateInput は作成入力の全フィールドを検証し、違反をすべて収集する。
// 最初の違反で打ち切らず、全フィールド分のエラーを返す。
func validateInput(in CreateInput) (start, end time.Time, deadline *time.Time, verr *model.ValidationError) {
	verr = &model.ValidationError{}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		verr.Add("title", "イベントタイトルは必須です")
	} else if len([]rune(title)) > maxTitleLength {
		verr.Add("title", "イベントタイトルは100文字以内である必要があります")
	}

	if in.DeviceID < 1 {
		verr.Add("device_id", "有効なデバイスIDが必要です")
	}

	if in.MainImageURL == "" {
		verr.Add("main_image_url", "イベント画像は必須です")
	}

	if in.StartDate == "" {
		verr.Add("start_date", "開催日時は必須です")
	} else {
		parsed, err := time.Parse(time.RFC3339, in.StartDate)
		if err != nil {
			verr.Add("start_date", "開催日時の形式が正しくありません")
		} else {
			start = parsed
		}
	}

	if in.EndDate == "" {
		verr.Add("end_date", "終了日時は必須です")
	} else {
		parsed, err := time.Parse(time.RFC3339, in.EndDate)
		if err != nil {
			verr.Add("end_date", "終了日時の形式が正しくありません")
		} else {
			end = parsed
			if !start.IsZero() && !end.After(start) {
				verr.Add("end_date", "終了日時は開始日時より後である必要があります")
			}
		}
	}

	if in.Deadline != "" {
		parsed, err := time.Parse(time.RFC3339, in.Deadline)
		if err != nil {
			verr.Add("deadline", "締切日時の形式が正しくありません")
		} else {
			deadline = &parsed
		}
	}

	if in.MaxParticipantsNum != nil && *in.MaxParticipantsNum < 1 {
		verr.Add("max_participants_num", "参加人数上限は1以上である必要があります")
	}

	return start, end, deadline, verr
}

// Create はイベントを作成し、主催者として作成ユーザーを参加登録する。
//
// 入力の違反はすべて収集してValidationErrorで返す。検証通過後、
// デバイスの存在確認、画像URLの安全性検証、説明文のサニタイズを行い、
// イベント・開催日程・主催者参加レコードを単一トランザクションで登録する。
func (s *Service) Create(ctx context.Context, organizerID int64, in CreateInput) (*model.EventWithOccurrences, error) {
	start, end, deadline, verr := validateInput(in)
	if verr.HasErrors() {
		return nil, verr
	}

	// デバイスの存在確認
	device, err := s.deviceRepo.FindByID(ctx, in.DeviceID)
	if err != nil {
		return nil, fmt.Errorf("デバイスの取得に失敗しました: %w", err)
	}
	if device == nil {
		return nil, model.NewDeviceNotFoundError(in.DeviceID)
	}

	// 画像URLの安全性検証
	if err := s.imageGuard.ValidateURL(in.MainImageURL); err != nil {
		slog.Warn("イベント画像URLをブロックしました",
			slog.String("url", in.MainImageURL),
			slog.String("error", err.Error()),
		)
		return nil, model.NewImageURLBlockedError(err.Error())
	}
	if s.probeImages {
		if err := s.imageGuard.ProbeImage(ctx, in.MainImageURL); err != nil {
			slog.Warn("イベント画像URLの取得に失敗しました",
				slog.String("url", in.MainImageURL),
				slog.String("error", err.Error()),
			)
			return nil, model.NewImageURLBlockedError(err.Error())
		}
	}

	ev := &model.Event{
		Title:           strings.TrimSpace(in.Title),
		Description:     s.sanitizer.Sanitize(strings.TrimSpace(in.Description)),
		DeviceID:        in.DeviceID,
		DeviceName:      device.Name,
		MainImageURL:    in.MainImageURL,
		Deadline:        deadline,
		MaxParticipants: in.MaxParticipantsNum,
	}
	occurrences := []model.Occurrence{
		{StartDate: start, EndDate: end},
	}

	if err := s.eventRepo.Create(ctx, ev, occurrences, organizerID); err != nil {
		return nil, fmt.Errorf("イベントの作成に失敗しました: %w", err)
	}

	slog.Info("イベントを作成しました",
		slog.Int64("event_id", ev.ID),
		slog.Int64("organizer_id", organizerID),
	)

	result, err := s.eventRepo.FindByID(ctx, ev.ID)
	if err != nil {
		return nil, fmt.Errorf("作成したイベントの取得に失敗しました: %w", err)
	}
	if result == nil {
		return nil, model.NewEventNotFoundError(ev.ID)
	}

	return result, nil
}
