package services

import (
	"github.com/shopspring/decimal"

	"gagyebu/internal/ledger"
	"gagyebu/internal/models"
	"gagyebu/internal/store"
)

// settingService reads and writes key/value settings.
type settingService struct {
	store       store.Store
	defaultRate decimal.Decimal
}

// NewSettingService creates a new SettingServicer. defaultRate is used
// while no exchange rate has been saved.
func NewSettingService(st store.Store, defaultRate decimal.Decimal) SettingServicer {
	return &settingService{store: st, defaultRate: defaultRate}
}

func (s *settingService) GetExchangeRate() (ledger.ExchangeRate, error) {
	raw, ok, err := s.store.GetSetting(models.SettingAEDToKRWRate)
	if err != nil {
		return ledger.ExchangeRate{}, err
	}
	if !ok {
		return ledger.NewExchangeRate(s.defaultRate)
	}
	return ledger.ParseExchangeRate(raw)
}

func (s *settingService) SetExchangeRate(rate decimal.Decimal) (ledger.ExchangeRate, error) {
	r, err := ledger.NewExchangeRate(rate)
	if err != nil {
		return ledger.ExchangeRate{}, err
	}
	if err := s.store.PutSetting(models.SettingAEDToKRWRate, rate.String()); err != nil {
		return ledger.ExchangeRate{}, err
	}
	return r, nil
}
