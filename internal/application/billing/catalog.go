package billing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gst-billing-api/internal/domain"
)

var (
	// ErrRateNotAllowed is returned for a GST rate outside the catalogue.
	ErrRateNotAllowed = fmt.Errorf("%w: gst rate not allowed", domain.ErrInvalidInput)
	// ErrUnitNotAllowed is returned for a unit outside the catalogue.
	ErrUnitNotAllowed = fmt.Errorf("%w: unit not allowed", domain.ErrInvalidInput)
)

// Catalog is the set of GST rates and units the invoice form may use.
// An empty list accepts any value.
type Catalog struct {
	rates       []decimal.Decimal
	rateLabels  []string
	units       []string
	defaultRate decimal.Decimal
	defaultUnit string
}

// NewCatalog parses the configured rate and unit lists.
func NewCatalog(rates, units []string, defaultRate, defaultUnit string) (*Catalog, error) {
	c := &Catalog{defaultUnit: strings.ToUpper(strings.TrimSpace(defaultUnit))}

	for _, r := range rates {
		d, err := decimal.NewFromString(strings.TrimSpace(r))
		if err != nil {
			return nil, fmt.Errorf("catalog: gst rate %q: %w", r, err)
		}
		if d.IsNegative() {
			return nil, fmt.Errorf("catalog: gst rate %q is negative", r)
		}
		if err := checkStorable("gst rate", d, rateDigits); err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		c.rates = append(c.rates, d)
		c.rateLabels = append(c.rateLabels, d.String())
	}
	for _, u := range units {
		c.units = append(c.units, strings.ToUpper(strings.TrimSpace(u)))
	}

	if defaultRate == "" {
		defaultRate = "0"
	}
	d, err := decimal.NewFromString(strings.TrimSpace(defaultRate))
	if err != nil {
		return nil, fmt.Errorf("catalog: default rate %q: %w", defaultRate, err)
	}
	c.defaultRate = d
	if err := c.ValidateRate(d); err != nil {
		return nil, fmt.Errorf("catalog: default rate %s: %w", d, err)
	}
	if c.defaultUnit == "" {
		c.defaultUnit = "PCS"
	}
	if err := c.ValidateUnit(c.defaultUnit); err != nil {
		return nil, fmt.Errorf("catalog: default unit %s: %w", c.defaultUnit, err)
	}
	return c, nil
}

// ValidateRate accepts r when it is non-negative and, if a catalogue is set,
// one of its rates.
func (c *Catalog) ValidateRate(r decimal.Decimal) error {
	if r.IsNegative() {
		return ErrRateNotAllowed
	}
	if len(c.rates) == 0 {
		return nil
	}
	for _, allowed := range c.rates {
		if allowed.Equal(r) {
			return nil
		}
	}
	return ErrRateNotAllowed
}

// ValidateUnit accepts u (case-insensitive) when it is in the catalogue.
func (c *Catalog) ValidateUnit(u string) error {
	if len(c.units) == 0 {
		return nil
	}
	u = strings.ToUpper(strings.TrimSpace(u))
	for _, allowed := range c.units {
		if allowed == u {
			return nil
		}
	}
	return ErrUnitNotAllowed
}

// NormalizeUnit returns the unit as stored: upper case, defaulted when blank.
func (c *Catalog) NormalizeUnit(u string) string {
	u = strings.ToUpper(strings.TrimSpace(u))
	if u == "" {
		return c.defaultUnit
	}
	return u
}

// Accessors for the settings endpoint; slices are copies.
func (c *Catalog) Rates() []string              { return append([]string(nil), c.rateLabels...) }
func (c *Catalog) Units() []string              { return append([]string(nil), c.units...) }
func (c *Catalog) DefaultRate() decimal.Decimal { return c.defaultRate }
func (c *Catalog) DefaultUnit() string          { return c.defaultUnit }
