package fasting

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fastinglab/fasting-be/internal/models"
)

// GormStore 用两张表落地引擎的 Store 契约：
// fasting_sessions 存会话（活跃的和历史的都在这），active_refs 是活跃位指针
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{DB: db} }

// ReadActiveSession 顺着 active_refs 指针取活跃会话；没有指针就是没有会话
func (s *GormStore) ReadActiveSession(ctx context.Context, visitorID string) (*models.FastingSession, error) {
	var ref models.ActiveRef
	err := s.DB.WithContext(ctx).Where("visitor_id = ?", visitorID).Take(&ref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var sess models.FastingSession
	if err := s.DB.WithContext(ctx).Where("id = ?", ref.SessionID).Take(&sess).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 指针悬空（会话被清了）：当成没有活跃会话，顺手把指针删掉
			_ = s.DB.WithContext(ctx).Where("visitor_id = ?", visitorID).Delete(&models.ActiveRef{}).Error
			return nil, nil
		}
		return nil, err
	}
	return &sess, nil
}

// ReadHistory 取该游客的历史会话（不含活跃位上那条），按开始时间倒序
func (s *GormStore) ReadHistory(ctx context.Context, visitorID string) ([]models.FastingSession, error) {
	var ref models.ActiveRef
	activeID := ""
	if err := s.DB.WithContext(ctx).Where("visitor_id = ?", visitorID).Take(&ref).Error; err == nil {
		activeID = ref.SessionID
	}
	var out []models.FastingSession
	q := s.DB.WithContext(ctx).Where("visitor_id = ?", visitorID)
	if activeID != "" {
		q = q.Where("id <> ?", activeID)
	}
	if err := q.Order("start_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// InsertHistory 写入一条终态会话
// 同一条会话重复收口时走 upsert，保证重试是幂等的而不是报错
func (s *GormStore) InsertHistory(ctx context.Context, sess *models.FastingSession) error {
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "end_at", "duration_minutes", "completed", "source"}),
	}).Create(sess).Error
}

// ReplaceActiveSession 整体替换活跃位：传 nil 只清指针（End 走这条，行刚被
// InsertHistory 收进历史），否则落会话并指过去
func (s *GormStore) ReplaceActiveSession(ctx context.Context, visitorID string, sess *models.FastingSession) error {
	if sess == nil {
		return s.DB.WithContext(ctx).Where("visitor_id = ?", visitorID).Delete(&models.ActiveRef{}).Error
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(sess).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "visitor_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"session_id", "updated_at"}),
		}).Create(&models.ActiveRef{VisitorID: visitorID, SessionID: sess.ID}).Error
	})
}

// DiscardActiveSession 丢弃活跃会话：指针和会话行一起删，什么都不留
// 取消必须走这里——只清指针的话，落过库的会话行会被 ReadHistory 捞回去
func (s *GormStore) DiscardActiveSession(ctx context.Context, visitorID string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ref models.ActiveRef
		err := tx.Where("visitor_id = ?", visitorID).Take(&ref).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.Where("id = ?", ref.SessionID).Delete(&models.FastingSession{}).Error; err != nil {
			return err
		}
		return tx.Where("visitor_id = ?", visitorID).Delete(&models.ActiveRef{}).Error
	})
}
