package repository

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"catalog-service/internal/models"
)

const defaultTimeout = 5 * time.Second

type settings struct {
	timeout time.Duration
	now     func() time.Time
}

// Option configura un Store.
type Option func(*settings)

// WithTimeout fija el tiempo máximo de cada operación. Las lecturas de
// listados y agregaciones usan el doble.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithClock reemplaza el reloj usado para createdAt/updatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

func newSettings(opts []Option) settings {
	s := &settings{timeout: defaultTimeout, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return *s
}

func (s settings) queryTimeout() time.Duration { return 2 * s.timeout }

// timestamp devuelve la hora actual con la precisión que guarda BSON.
func (s settings) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// prepareForInsert copia el lote y asigna ids, timestamps y el valor por
// defecto de isActive.
func prepareForInsert(products []models.Product, now time.Time) []models.Product {
	out := make([]models.Product, len(products))
	for i := range products {
		p := products[i].Clone()
		p.ID = primitive.NewObjectID()
		for j := range p.Variants {
			p.Variants[j].ID = primitive.NewObjectID()
		}
		if p.IsActive == nil {
			p.SetActive(true)
		}
		p.CreatedAt = now
		p.UpdatedAt = now
		out[i] = p
	}
	return out
}

type skuRef struct {
	record  int
	variant int
}

// skuIndex mapea cada SKU del lote a su registro y variante.
func skuIndex(products []models.Product) map[string]skuRef {
	idx := make(map[string]skuRef)
	for i, p := range products {
		for j, v := range p.Variants {
			idx[v.SKU] = skuRef{record: i, variant: j}
		}
	}
	return idx
}

func existingSKUError(products []models.Product, ref skuRef, sku string) error {
	return &models.ValidationError{
		Record:  ref.record,
		Name:    products[ref.record].Name,
		Field:   fmt.Sprintf("variants[%d].sku", ref.variant),
		Message: fmt.Sprintf("sku %q already exists in the catalog", sku),
	}
}
