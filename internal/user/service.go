// Package user はユーザープロフィールのドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/eventman/internal/model"
	"github.com/hitoshi/eventman/internal/repository"
	"github.com/hitoshi/eventman/internal/security"
)

const (
	maxNicknameLength    = 50
	maxDescriptionLength = 500
	minPasswordLength    = 8
)

// emailPattern はメールアドレスの形式検証パターン。
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UpdateInput はプロフィール更新リクエストの入力値。
// nilのフィールドは「更新しない」を意味する。
type UpdateInput struct {
	Nickname       *string
	Description    *string
	Email          *string
	Password       *string
	AvatarImageURL *string
}

// Service はユーザープロフィールのサービス層。
// プロフィールの取得と更新のビジネスロジックを提供する。
type Service struct {
	userRepo   repository.UserRepository
	sanitizer  security.ContentSanitizerService
	imageGuard security.ImageGuardService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	userRepo repository.UserRepository,
	sanitizer security.ContentSanitizerService,
	imageGuard security.ImageGuardService,
) *Service {
	return &Service{
		userRepo:   userRepo,
		sanitizer:  sanitizer,
		imageGuard: imageGuard,
	}
}

// Get はユーザーのプロフィールを取得する。
func (s *Service) Get(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}
	return user, nil
}

// validateInput は更新入力の全フィールドを検証し、違反をすべて収集する。
func validateInput(in UpdateInput) *model.ValidationError {
	verr := &model.ValidationError{}

	if in.Nickname != nil {
		if *in.Nickname == "" {
			verr.Add("nickname", "ニックネームは必須です")
		} else if len([]rune(*in.Nickname)) > maxNicknameLength {
			verr.Add("nickname", "ニックネームは50文字以内で入力してください")
		}
	}

	if in.Description != nil && len([]rune(*in.Description)) > maxDescriptionLength {
		verr.Add("description", "自己紹介文は500文字以内で入力してください")
	}

	if in.Email != nil {
		if *in.Email == "" {
			verr.Add("email", "メールアドレスは必須です")
		} else if !emailPattern.MatchString(*in.Email) {
			verr.Add("email", "有効なメールアドレスを入力してください")
		}
	}

	// 空文字列のパスワードは「変更しない」を意味するため許可する
	if in.Password != nil && *in.Password != "" && len(*in.Password) < minPasswordLength {
		verr.Add("password", "パスワードは8文字以上で入力してください")
	}

	return verr
}

// Update はユーザーのプロフィールを更新する。
//
// 入力の違反はすべて収集してValidationErrorで返す。ニックネームが
// 他のユーザーに使用されている場合はNICKNAME_TAKENを返す。
// 自己紹介文はサニタイズし、アバター画像URLは安全性を検証したうえで保存する。
// パスワードが指定された場合はbcryptでハッシュ化して保存する。
func (s *Service) Update(ctx context.Context, userID int64, in UpdateInput) (*model.User, error) {
	if verr := validateInput(in); verr.HasErrors() {
		return nil, verr
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}

	if in.Nickname != nil && *in.Nickname != user.Nickname {
		// ニックネームの重複確認
		existing, err := s.userRepo.FindByNickname(ctx, *in.Nickname)
		if err != nil {
			return nil, fmt.Errorf("ニックネームの重複確認に失敗しました: %w", err)
		}
		if existing != nil && existing.ID != userID {
			return nil, model.NewNicknameTakenError()
		}
		user.Nickname = *in.Nickname
	}

	if in.Description != nil {
		user.Description = s.sanitizer.Sanitize(*in.Description)
	}

	if in.Email != nil {
		user.Email = *in.Email
	}

	if in.AvatarImageURL != nil {
		if *in.AvatarImageURL != "" {
			if err := s.imageGuard.ValidateURL(*in.AvatarImageURL); err != nil {
				slog.Warn("アバター画像URLをブロックしました",
					slog.String("url", *in.AvatarImageURL),
					slog.String("error", err.Error()),
				)
				return nil, model.NewImageURLBlockedError(err.Error())
			}
		}
		user.AvatarImageURL = *in.AvatarImageURL
	}

	if in.Password != nil && *in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("パスワードのハッシュ化に失敗しました: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("ユーザーの更新に失敗しました: %w", err)
	}

	slog.Info("プロフィールを更新しました",
		slog.Int64("user_id", userID),
	)

	return user, nil
}
