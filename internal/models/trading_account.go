package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TradingAccount is a read-only mirror of an account record in the
// external trading bridge. Rows are created and refreshed by the sync
// scheduler; the API never writes balance figures itself.
type TradingAccount struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	UserID      string    `gorm:"column:user_id;size:36;not null;index:idx_trading_account_user" json:"user_id"`
	BridgeID    string    `gorm:"column:bridge_id;size:36;not null;uniqueIndex:idx_trading_account_bridge" json:"bridge_id"`
	Login       string    `gorm:"column:login;size:50;not null" json:"login"`
	Server      string    `gorm:"column:server;size:100;not null" json:"server"`
	AccountType string    `gorm:"column:account_type;size:20;default:standard" json:"account_type"`
	Currency    string    `gorm:"column:currency;size:10;default:USD" json:"currency"`
	Balance     float64   `gorm:"column:balance;type:decimal(20,2);default:0.00" json:"balance"`
	Equity      float64   `gorm:"column:equity;type:decimal(20,2);default:0.00" json:"equity"`
	Margin      float64   `gorm:"column:margin;type:decimal(20,2);default:0.00" json:"margin"`
	FreeMargin  float64   `gorm:"column:free_margin;type:decimal(20,2);default:0.00" json:"free_margin"`
	TotalPnl    float64   `gorm:"column:total_pnl;type:decimal(20,2);default:0.00" json:"total_pnl"`
	Leverage    int       `gorm:"column:leverage;default:100" json:"leverage"`
	Status      string    `gorm:"column:status;size:20;default:active" json:"status"`
	LastUpdated time.Time `gorm:"column:last_updated" json:"last_updated"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (TradingAccount) TableName() string {
	return "metatrader_accounts"
}

func (a *TradingAccount) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
