package billing

import "github.com/jhoicas/gst-billing-api/internal/application/dto"

// SettingsUseCase exposes what the invoice form needs to render its pickers.
type SettingsUseCase struct {
	catalog      *Catalog
	shop         dto.ShopProfile
	numberPrefix string
}

// NewSettingsUseCase builds the use case.
func NewSettingsUseCase(catalog *Catalog, shop dto.ShopProfile, numberPrefix string) *SettingsUseCase {
	return &SettingsUseCase{catalog: catalog, shop: shop, numberPrefix: numberPrefix}
}

// Get returns the shop profile and the rate/unit catalogue.
func (uc *SettingsUseCase) Get() dto.BillingSettingsResponse {
	return dto.BillingSettingsResponse{
		Shop:         uc.shop,
		NumberPrefix: uc.numberPrefix,
		GSTRates:     uc.catalog.Rates(),
		Units:        uc.catalog.Units(),
		DefaultRate:  uc.catalog.DefaultRate().String(),
		DefaultUnit:  uc.catalog.DefaultUnit(),
	}
}
