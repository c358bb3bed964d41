package services

import (
	"log"
	"os"
	"strconv"
	"time"

	"account-service/internal/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// TradingService keeps the local mirror of trading-bridge accounts
// fresh. The mirror is read-only from the API's point of view.
type TradingService struct {
	DB     *gorm.DB
	Bridge *BridgeClient
}

func NewTradingService(db *gorm.DB, bridge *BridgeClient) *TradingService {
	return &TradingService{DB: db, Bridge: bridge}
}

func (s *TradingService) ListAccounts(userID string) ([]models.TradingAccount, error) {
	var accounts []models.TradingAccount
	err := s.DB.Where("user_id = ?", userID).Order("created_at ASC").Find(&accounts).Error
	return accounts, err
}

// SyncUserAccounts pulls the bridge records for one user and upserts the
// mirror rows, keyed by the bridge record id.
func (s *TradingService) SyncUserAccounts(userID, email string) (int, error) {
	bridgeUser, err := s.Bridge.GetUserByEmail(email)
	if err != nil {
		return 0, err
	}
	if bridgeUser == nil {
		return 0, nil
	}

	bridgeAccounts, err := s.Bridge.GetAccountsByUser(bridgeUser.ID)
	if err != nil {
		return 0, err
	}

	synced := 0
	now := time.Now()
	for _, src := range bridgeAccounts {
		updates := map[string]interface{}{
			"login":        src.MetaTraderID,
			"server":       src.Name,
			"balance":      src.Balance,
			"equity":       src.Equity,
			"margin":       src.Margin,
			"free_margin":  src.Equity - src.Margin,
			"total_pnl":    src.TotalPnl,
			"status":       src.Status,
			"last_updated": now,
		}

		var mirror models.TradingAccount
		err := s.DB.Where("bridge_id = ?", src.ID).First(&mirror).Error
		if err == gorm.ErrRecordNotFound {
			mirror = models.TradingAccount{
				UserID:      userID,
				BridgeID:    src.ID,
				Login:       src.MetaTraderID,
				Server:      src.Name,
				Balance:     src.Balance,
				Equity:      src.Equity,
				Margin:      src.Margin,
				FreeMargin:  src.Equity - src.Margin,
				TotalPnl:    src.TotalPnl,
				Status:      src.Status,
				LastUpdated: now,
			}
			if err := s.DB.Create(&mirror).Error; err != nil {
				return synced, err
			}
			synced++
			continue
		}
		if err != nil {
			return synced, err
		}

		if err := s.DB.Model(&mirror).Updates(updates).Error; err != nil {
			return synced, err
		}
		synced++
	}

	return synced, nil
}

// SyncAll refreshes the mirror for every completed profile.
func (s *TradingService) SyncAll() {
	var profiles []models.Profile
	if err := s.DB.Where("email != '' AND has_completed_profile = ?", true).Find(&profiles).Error; err != nil {
		log.Printf("trading sync: failed to list profiles: %v", err)
		return
	}

	total := 0
	for _, p := range profiles {
		n, err := s.SyncUserAccounts(p.UserID, p.Email)
		if err != nil {
			log.Printf("trading sync: user %s: %v", p.UserID, err)
			continue
		}
		total += n
	}
	log.Printf("trading sync: refreshed %d accounts for %d profiles", total, len(profiles))
}

// StartScheduler runs the bridge sync on an interval (minutes, from
// TRADING_SYNC_MINUTES, default 5).
func (s *TradingService) StartScheduler() {
	minutes := 5
	if v := os.Getenv("TRADING_SYNC_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			minutes = n
		}
	}

	c := cron.New()
	_, err := c.AddFunc("@every "+strconv.Itoa(minutes)+"m", func() {
		log.Println("Running scheduled trading account sync...")
		s.SyncAll()
	})
	if err != nil {
		log.Printf("Error scheduling trading sync: %v", err)
		return
	}
	c.Start()
	log.Printf("Trading Sync Scheduler started (Every %d minutes)", minutes)
}
