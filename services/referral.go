package services

import (
	"errors"
	"log"
	"strings"

	"gmonad-points-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReferralBonus is credited to both sides of a redeemed referral.
const ReferralBonus = 10

var (
	ErrCodeNotFound    = errors.New("referral code not found")
	ErrSelfReferral    = errors.New("self-referral not allowed")
	ErrAlreadyRedeemed = errors.New("referral already redeemed")
)

type ReferralService struct {
	DB *gorm.DB
}

func NewReferralService(db *gorm.DB) *ReferralService {
	return &ReferralService{DB: db}
}

// DeriveCode builds the stable referral code for a user id: first eight
// characters, upper-cased, hyphens stripped.
func DeriveCode(userID string) string {
	code := userID
	if len(code) > 8 {
		code = code[:8]
	}
	return strings.ReplaceAll(strings.ToUpper(code), "-", "")
}

// EnsureHomeRow returns the user's home ledger row, creating it with zeroed
// counters on first sight. A unique-constraint conflict means another session
// won the insert; the winner's row is returned from a second lookup.
func (s *ReferralService) EnsureHomeRow(userID, username string) (*models.Referral, error) {
	return s.ensureHomeRow(s.DB, userID, username)
}

func (s *ReferralService) ensureHomeRow(db *gorm.DB, userID, username string) (*models.Referral, error) {
	var row models.Referral
	err := db.Where("referrer_id = ? AND referee_id IS NULL", userID).First(&row).Error
	if err == nil {
		return &row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	code := DeriveCode(userID)
	row = models.Referral{
		ID:           uuid.NewString(),
		ReferrerID:   userID,
		ReferralCode: &code,
		Username:     username,
	}
	if createErr := db.Create(&row).Error; createErr != nil {
		var winner models.Referral
		if qerr := db.Where("referrer_id = ? AND referee_id IS NULL", userID).First(&winner).Error; qerr == nil {
			return &winner, nil
		}
		log.Printf("❌ referral code generation failed for %s: %v", userID, createErr)
		return nil, createErr
	}
	return &row, nil
}

// Code returns the user's stable referral code.
func (s *ReferralService) Code(userID, username string) (string, error) {
	row, err := s.EnsureHomeRow(userID, username)
	if err != nil {
		return "", err
	}
	if row.ReferralCode == nil {
		return DeriveCode(userID), nil
	}
	return *row.ReferralCode, nil
}

// ReferralStats summarizes a user's side of the referral program.
type ReferralStats struct {
	Code          string `json:"referral_code"`
	Referrals     int64  `json:"referrals"`
	PointsEarned  int64  `json:"points_awarded"`
	RefereePoints int64  `json:"referee_points"`
}

// Stats returns the user's code, the number of successful referrals and the
// points accrued on both sides.
func (s *ReferralService) Stats(userID, username string) (*ReferralStats, error) {
	home, err := s.EnsureHomeRow(userID, username)
	if err != nil {
		return nil, err
	}

	stats := &ReferralStats{RefereePoints: home.RefereePoints}
	if home.ReferralCode != nil {
		stats.Code = *home.ReferralCode
	}

	if err := s.DB.Model(&models.Referral{}).
		Where("referrer_id = ? AND referee_id IS NOT NULL", userID).
		Count(&stats.Referrals).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Referral{}).
		Where("referrer_id = ? AND referee_id IS NOT NULL", userID).
		Select("COALESCE(SUM(points_awarded), 0)").
		Scan(&stats.PointsEarned).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

// Redeem resolves an inbound code and awards both sides in one transaction:
// a redemption row for the referrer and a referee_points credit on the
// referee's home row. Codes fan out; the unique (referrer_id, referee_id)
// pair is what makes a redemption one-time.
func (s *ReferralService) Redeem(code, refereeID, refereeUsername string) (*models.Referral, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrCodeNotFound
	}

	var redemption models.Referral
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var home models.Referral
		if err := tx.Where("referral_code = ? AND referee_id IS NULL", code).First(&home).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCodeNotFound
			}
			return err
		}

		if home.ReferrerID == refereeID {
			return ErrSelfReferral
		}

		var count int64
		if err := tx.Model(&models.Referral{}).
			Where("referrer_id = ? AND referee_id = ?", home.ReferrerID, refereeID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyRedeemed
		}

		redemption = models.Referral{
			ID:               uuid.NewString(),
			ReferrerID:       home.ReferrerID,
			RefereeID:        &refereeID,
			ReferralCodeUsed: code,
			Username:         home.Username,
			PointsAwarded:    ReferralBonus,
		}
		if err := tx.Create(&redemption).Error; err != nil {
			return err
		}

		refHome, err := s.ensureHomeRow(tx, refereeID, refereeUsername)
		if err != nil {
			return err
		}
		return tx.Model(&models.Referral{}).
			Where("id = ?", refHome.ID).
			Update("referee_points", gorm.Expr("referee_points + ?", ReferralBonus)).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Referral redeemed: %s → %s (+%d both sides)", redemption.ReferrerID, refereeID, ReferralBonus)
	return &redemption, nil
}
