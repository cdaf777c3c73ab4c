package cart

import (
	"context"

	"gorm.io/gorm"

	"tienda-gateway/models"
)

// GormPersister stores cart snapshots as rows in a relational database,
// one row per line item with an explicit position column so insertion
// order survives the round trip.
type GormPersister struct {
	db *gorm.DB
}

func NewGormPersister(db *gorm.DB) *GormPersister {
	return &GormPersister{db: db}
}

func (p *GormPersister) Load(ctx context.Context, sessionID string) ([]models.LineItem, error) {
	var rows []models.CartRow
	err := p.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("position ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]models.LineItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, models.LineItem{
			ProductID: row.ProductID,
			Quantity:  row.Quantity,
			Name:      row.Name,
			Price:     row.Price,
			Image:     row.Image,
		})
	}
	return items, nil
}

// Save replaces the session's rows wholesale inside a transaction. The
// snapshot is small (a shopper's cart) so delete-and-insert beats diffing.
func (p *GormPersister) Save(ctx context.Context, sessionID string, items []models.LineItem) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", sessionID).Delete(&models.CartRow{}).Error; err != nil {
			return err
		}
		for i, item := range items {
			row := models.CartRow{
				SessionID: sessionID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Position:  i,
				Name:      item.Name,
				Price:     item.Price,
				Image:     item.Image,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (p *GormPersister) Delete(ctx context.Context, sessionID string) error {
	return p.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&models.CartRow{}).Error
}
