package feedback

import (
	"context"
	"strings"
	"time"

	"recipe-cleaner/internal/backend"
	"recipe-cleaner/internal/core/session"
	"recipe-cleaner/internal/core/store"
	"recipe-cleaner/internal/infrastructure/config"
	"recipe-cleaner/internal/pkg/common"

	"go.uber.org/zap"
)

// Service 意見回饋與評分
// 都是一次性的輕量送出；評分有會話層級的去重旗標，
// 只有完整的流程重置會清掉它，單純的視圖切換不會。
type Service struct {
	config  *config.Config
	client  *backend.Client
	session *session.Manager
	state   *store.Store
}

// NewService 創建回饋服務
func NewService(cfg *config.Config, client *backend.Client, sess *session.Manager, state *store.Store) *Service {
	return &Service{
		config:  cfg,
		client:  client,
		session: sess,
		state:   state,
	}
}

// Send 送出意見回饋
// 成功後清空輸入、標記已送出，固定延遲後還原視圖。
func (s *Service) Send(ctx context.Context, message, feedbackType string) error {
	if strings.TrimSpace(message) == "" {
		return common.NewValidationError("feedback message is empty")
	}
	if feedbackType == "" {
		feedbackType = "general"
	}

	if err := s.client.SendFeedback(ctx, message, feedbackType, s.session.Auth()); err != nil {
		common.LogError("回饋送出失敗", zap.Error(err))
		return err
	}

	s.state.SetFeedbackSent(true)
	time.AfterFunc(s.config.Feedback.RevertDelay, func() {
		s.state.SetFeedbackSent(false)
	})

	common.LogInfo("回饋已送出", zap.String("type", feedbackType))
	return nil
}

// Rate 送出星級評分，本次會話只允許一次
func (s *Service) Rate(ctx context.Context, stars int) error {
	if stars < 1 || stars > 5 {
		return common.NewValidationError("stars must be between 1 and 5")
	}
	if !s.state.MarkRated() {
		return common.NewValidationError("already rated this session")
	}

	if err := s.client.SubmitRating(ctx, stars, s.session.Auth()); err != nil {
		// 送出失敗不該吃掉使用者唯一的評分機會
		s.state.UnmarkRated()
		common.LogError("評分送出失敗", zap.Error(err))
		return err
	}

	common.LogInfo("評分已送出", zap.Int("stars", stars))
	return nil
}

// Summary 評分摘要
func (s *Service) Summary(ctx context.Context) (*common.RatingSummary, error) {
	return s.client.RatingsSummary(ctx)
}
