package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// createCatalogTables creates the products, categories and join tables.
func createCatalogTables() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "001_create_catalog",
		Migrate: func(tx *gorm.DB) error {
			err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS products (
					id SERIAL PRIMARY KEY,
					name VARCHAR(255) NOT NULL,
					inn VARCHAR(12) NOT NULL,
					barcode VARCHAR(13) NOT NULL,
					description TEXT,

					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,

					CONSTRAINT uq_products_inn UNIQUE (inn),
					CONSTRAINT uq_products_barcode UNIQUE (barcode)
				);
			`).Error
			if err != nil {
				return err
			}

			err = tx.Exec(`
				CREATE TABLE IF NOT EXISTS categories (
					id SERIAL PRIMARY KEY,
					name VARCHAR(255) NOT NULL,

					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,

					CONSTRAINT uq_categories_name UNIQUE (name)
				);
			`).Error
			if err != nil {
				return err
			}

			err = tx.Exec(`
				CREATE TABLE IF NOT EXISTS product_categories (
					product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
					category_id INTEGER NOT NULL REFERENCES categories(id) ON DELETE CASCADE,

					PRIMARY KEY (product_id, category_id)
				);
			`).Error
			if err != nil {
				return err
			}

			// Create indexes
			indexes := []string{
				"CREATE INDEX IF NOT EXISTS idx_products_name ON products(name);",
				"CREATE INDEX IF NOT EXISTS idx_product_categories_category ON product_categories(category_id);",
			}

			for _, idx := range indexes {
				if err := tx.Exec(idx).Error; err != nil {
					return err
				}
			}

			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			for _, stmt := range []string{
				"DROP TABLE IF EXISTS product_categories;",
				"DROP TABLE IF EXISTS products;",
				"DROP TABLE IF EXISTS categories;",
			} {
				if err := tx.Exec(stmt).Error; err != nil {
					return err
				}
			}

			return nil
		},
	}
}
