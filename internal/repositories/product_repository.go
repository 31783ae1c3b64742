package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"pos_backend/internal/models"

	"github.com/lib/pq"
)

// ProductRepository defines database operations for products, variants, their
// direct ingredient/consumable links and modifier groups. All child rows are
// loaded eagerly by foreign id; nothing here relies on implicit graph
// traversal, which is what made the stock resolution fragile before.
type ProductRepository interface {
	CreateProduct(executor SQLExecutor, product *models.Product) (int64, error)
	GetProductByID(id int64) (*models.Product, error)
	GetProducts(categoryID *int64, page, pageSize int) ([]models.Product, int, error)
	UpdateProduct(executor SQLExecutor, product *models.Product) error
	DeleteProduct(executor SQLExecutor, id int64) error

	// Row-locked reads used by the checkout engine.
	GetProductForUpdate(executor SQLExecutor, id int64) (*models.Product, error)
	GetVariantForUpdate(executor SQLExecutor, id int64) (*models.ProductVariant, error)

	// Signed stock adjustments, NULL-safe; return the balance after the change.
	AdjustProductStock(executor SQLExecutor, id int64, delta float64) (float64, error)
	AdjustVariantStock(executor SQLExecutor, id int64, delta float64) (float64, error)

	// Direct link rows, keyed by owning id.
	GetProductIngredients(executor SQLExecutor, productID int64) ([]models.ProductIngredient, error)
	GetProductConsumables(executor SQLExecutor, productID int64) ([]models.ProductConsumable, error)
	GetVariantIngredients(executor SQLExecutor, variantID int64) ([]models.ProductVariantIngredient, error)
	GetVariantConsumables(executor SQLExecutor, variantID int64) ([]models.ProductVariantConsumable, error)

	// GetModifiersByIDs returns the modifiers in the same order as ids and
	// fails with ErrNotFound if any id is missing.
	GetModifiersByIDs(executor SQLExecutor, ids []int64) ([]models.Modifier, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository.
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) CreateProduct(executor SQLExecutor, product *models.Product) (int64, error) {
	query := `INSERT INTO products
	            (name, description, price, category_id, has_variants, track_stock, stock_quantity,
	             master_recipe_id, output_weight, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	          RETURNING id`
	currentTime := time.Now()
	err := executor.QueryRow(query,
		product.Name, product.Description, product.Price, product.CategoryID, product.HasVariants,
		product.TrackStock, product.StockQuantity, product.MasterRecipeID, product.OutputWeight,
		currentTime, currentTime,
	).Scan(&product.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return 0, fmt.Errorf("%w: creating product (constraint: %s): %w", ErrForeignKeyViolation, pqErr.Constraint, err)
		}
		return 0, fmt.Errorf("%w: creating product: %w", ErrDatabaseError, err)
	}

	if err := r.insertChildren(executor, product); err != nil {
		return 0, err
	}
	return product.ID, nil
}

// insertChildren writes variants, link rows and modifier groups for a product
// whose simple fields are already persisted.
func (r *productRepository) insertChildren(executor SQLExecutor, product *models.Product) error {
	for i := range product.Ingredients {
		pi := &product.Ingredients[i]
		pi.ProductID = product.ID
		err := executor.QueryRow(
			`INSERT INTO product_ingredients (product_id, ingredient_id, quantity) VALUES ($1, $2, $3) RETURNING id`,
			pi.ProductID, pi.IngredientID, pi.Quantity,
		).Scan(&pi.ID)
		if err != nil {
			return fmt.Errorf("%w: creating product ingredient link: %w", ErrDatabaseError, err)
		}
	}
	for i := range product.Consumables {
		pc := &product.Consumables[i]
		pc.ProductID = product.ID
		err := executor.QueryRow(
			`INSERT INTO product_consumables (product_id, consumable_id, quantity) VALUES ($1, $2, $3) RETURNING id`,
			pc.ProductID, pc.ConsumableID, pc.Quantity,
		).Scan(&pc.ID)
		if err != nil {
			return fmt.Errorf("%w: creating product consumable link: %w", ErrDatabaseError, err)
		}
	}

	if product.HasVariants {
		for i := range product.Variants {
			v := &product.Variants[i]
			v.ProductID = product.ID
			err := executor.QueryRow(
				`INSERT INTO product_variants
				   (product_id, name, price, sku, stock_quantity, master_recipe_id, output_weight)
				 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
				v.ProductID, v.Name, v.Price, v.SKU, v.StockQuantity, v.MasterRecipeID, v.OutputWeight,
			).Scan(&v.ID)
			if err != nil {
				return fmt.Errorf("%w: creating product variant: %w", ErrDatabaseError, err)
			}
			for j := range v.Ingredients {
				vi := &v.Ingredients[j]
				vi.VariantID = v.ID
				err := executor.QueryRow(
					`INSERT INTO product_variant_ingredients (variant_id, ingredient_id, quantity) VALUES ($1, $2, $3) RETURNING id`,
					vi.VariantID, vi.IngredientID, vi.Quantity,
				).Scan(&vi.ID)
				if err != nil {
					return fmt.Errorf("%w: creating variant ingredient link: %w", ErrDatabaseError, err)
				}
			}
			for j := range v.Consumables {
				vc := &v.Consumables[j]
				vc.VariantID = v.ID
				err := executor.QueryRow(
					`INSERT INTO product_variant_consumables (variant_id, consumable_id, quantity) VALUES ($1, $2, $3) RETURNING id`,
					vc.VariantID, vc.ConsumableID, vc.Quantity,
				).Scan(&vc.ID)
				if err != nil {
					return fmt.Errorf("%w: creating variant consumable link: %w", ErrDatabaseError, err)
				}
			}
		}
	}

	for _, groupID := range product.ProcessGroupIDs {
		if _, err := executor.Exec(
			`INSERT INTO product_process_groups (product_id, group_id) VALUES ($1, $2)`,
			product.ID, groupID,
		); err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
				return fmt.Errorf("%w: linking process group %d: %w", ErrForeignKeyViolation, groupID, err)
			}
			return fmt.Errorf("%w: linking process group %d: %w", ErrDatabaseError, groupID, err)
		}
	}

	for i := range product.ModifierGroups {
		g := &product.ModifierGroups[i]
		g.ProductID = product.ID
		err := executor.QueryRow(
			`INSERT INTO modifier_groups (product_id, name, is_required) VALUES ($1, $2, $3) RETURNING id`,
			g.ProductID, g.Name, g.IsRequired,
		).Scan(&g.ID)
		if err != nil {
			return fmt.Errorf("%w: creating modifier group: %w", ErrDatabaseError, err)
		}
		for j := range g.Modifiers {
			m := &g.Modifiers[j]
			m.GroupID = g.ID
			err := executor.QueryRow(
				`INSERT INTO modifiers (group_id, name, price_change, ingredient_id, quantity) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
				m.GroupID, m.Name, m.PriceChange, m.IngredientID, m.Quantity,
			).Scan(&m.ID)
			if err != nil {
				return fmt.Errorf("%w: creating modifier: %w", ErrDatabaseError, err)
			}
		}
	}
	return nil
}

func (r *productRepository) GetProductByID(id int64) (*models.Product, error) {
	product := &models.Product{}
	query := `SELECT p.id, p.name, p.description, p.price, p.category_id, p.has_variants, p.track_stock,
	                 p.stock_quantity, p.master_recipe_id, p.output_weight, p.room_id, p.created_at, p.updated_at
	          FROM products p
	          WHERE p.id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&product.ID, &product.Name, &product.Description, &product.Price, &product.CategoryID,
		&product.HasVariants, &product.TrackStock, &product.StockQuantity,
		&product.MasterRecipeID, &product.OutputWeight, &product.RoomID, &product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting product by ID %d: %w", ErrDatabaseError, id, err)
	}
	if err := r.loadChildren(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepository) loadChildren(product *models.Product) error {
	var err error
	product.Ingredients, err = r.GetProductIngredients(r.db, product.ID)
	if err != nil {
		return err
	}
	product.Consumables, err = r.GetProductConsumables(r.db, product.ID)
	if err != nil {
		return err
	}

	variantRows, err := r.db.Query(
		`SELECT id, product_id, name, price, sku, stock_quantity, master_recipe_id, output_weight
		 FROM product_variants WHERE product_id = $1 ORDER BY id`, product.ID)
	if err != nil {
		return fmt.Errorf("%w: getting variants for product %d: %w", ErrDatabaseError, product.ID, err)
	}
	defer variantRows.Close()
	for variantRows.Next() {
		var v models.ProductVariant
		if err := variantRows.Scan(&v.ID, &v.ProductID, &v.Name, &v.Price, &v.SKU, &v.StockQuantity, &v.MasterRecipeID, &v.OutputWeight); err != nil {
			return fmt.Errorf("%w: scanning variant: %w", ErrDatabaseError, err)
		}
		product.Variants = append(product.Variants, v)
	}
	if err = variantRows.Err(); err != nil {
		return fmt.Errorf("%w: iterating variants: %w", ErrDatabaseError, err)
	}
	for i := range product.Variants {
		v := &product.Variants[i]
		if v.Ingredients, err = r.GetVariantIngredients(r.db, v.ID); err != nil {
			return err
		}
		if v.Consumables, err = r.GetVariantConsumables(r.db, v.ID); err != nil {
			return err
		}
	}

	pgRows, err := r.db.Query(
		`SELECT pg.id, pg.name
		 FROM process_groups pg
		 JOIN product_process_groups ppg ON ppg.group_id = pg.id
		 WHERE ppg.product_id = $1
		 ORDER BY pg.id`, product.ID)
	if err != nil {
		return fmt.Errorf("%w: getting process groups for product %d: %w", ErrDatabaseError, product.ID, err)
	}
	defer pgRows.Close()
	for pgRows.Next() {
		var pg models.ProcessGroup
		if err := pgRows.Scan(&pg.ID, &pg.Name); err != nil {
			return fmt.Errorf("%w: scanning process group: %w", ErrDatabaseError, err)
		}
		pg.Options = []models.ProcessOption{}
		product.ProcessGroups = append(product.ProcessGroups, pg)
		product.ProcessGroupIDs = append(product.ProcessGroupIDs, pg.ID)
	}
	if err = pgRows.Err(); err != nil {
		return fmt.Errorf("%w: iterating process groups: %w", ErrDatabaseError, err)
	}

	groupRows, err := r.db.Query(
		`SELECT id, product_id, name, is_required FROM modifier_groups WHERE product_id = $1 ORDER BY id`, product.ID)
	if err != nil {
		return fmt.Errorf("%w: getting modifier groups for product %d: %w", ErrDatabaseError, product.ID, err)
	}
	defer groupRows.Close()
	for groupRows.Next() {
		var g models.ModifierGroup
		if err := groupRows.Scan(&g.ID, &g.ProductID, &g.Name, &g.IsRequired); err != nil {
			return fmt.Errorf("%w: scanning modifier group: %w", ErrDatabaseError, err)
		}
		g.Modifiers = []models.Modifier{}
		product.ModifierGroups = append(product.ModifierGroups, g)
	}
	if err = groupRows.Err(); err != nil {
		return fmt.Errorf("%w: iterating modifier groups: %w", ErrDatabaseError, err)
	}
	for i := range product.ModifierGroups {
		g := &product.ModifierGroups[i]
		modRows, err := r.db.Query(
			`SELECT id, group_id, name, price_change, ingredient_id, quantity FROM modifiers WHERE group_id = $1 ORDER BY id`, g.ID)
		if err != nil {
			return fmt.Errorf("%w: getting modifiers for group %d: %w", ErrDatabaseError, g.ID, err)
		}
		for modRows.Next() {
			var m models.Modifier
			if err := modRows.Scan(&m.ID, &m.GroupID, &m.Name, &m.PriceChange, &m.IngredientID, &m.Quantity); err != nil {
				modRows.Close()
				return fmt.Errorf("%w: scanning modifier: %w", ErrDatabaseError, err)
			}
			g.Modifiers = append(g.Modifiers, m)
		}
		if err = modRows.Err(); err != nil {
			modRows.Close()
			return fmt.Errorf("%w: iterating modifiers: %w", ErrDatabaseError, err)
		}
		modRows.Close()
	}
	return nil
}

func (r *productRepository) GetProducts(categoryID *int64, page, pageSize int) ([]models.Product, int, error) {
	products := []models.Product{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT
	    p.id, p.name, p.description, p.price, p.category_id, p.has_variants, p.track_stock,
	    p.stock_quantity, p.master_recipe_id, p.output_weight, p.room_id, p.created_at, p.updated_at,
	    c.id, c.name, c.slug,
	    COUNT(*) OVER() AS total_count
	  FROM products p
	  LEFT JOIN categories c ON p.category_id = c.id`)

	var args []interface{}
	argCount := 1
	if categoryID != nil {
		queryBuilder.WriteString(fmt.Sprintf(" WHERE p.category_id = $%d", argCount))
		args = append(args, *categoryID)
		argCount++
	}
	queryBuilder.WriteString(" ORDER BY p.name")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting products: %w", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var product models.Product
		var catID sql.NullInt64
		var catName, catSlug sql.NullString
		if err := rows.Scan(
			&product.ID, &product.Name, &product.Description, &product.Price, &product.CategoryID,
			&product.HasVariants, &product.TrackStock, &product.StockQuantity,
			&product.MasterRecipeID, &product.OutputWeight, &product.RoomID, &product.CreatedAt, &product.UpdatedAt,
			&catID, &catName, &catSlug,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning product: %w", ErrDatabaseError, err)
		}
		if catID.Valid {
			product.Category = &models.Category{ID: catID.Int64, Name: catName.String, Slug: catSlug.String}
		}
		products = append(products, product)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating products: %w", ErrDatabaseError, err)
	}

	for i := range products {
		if err := r.loadChildren(&products[i]); err != nil {
			return nil, 0, err
		}
	}
	return products, totalCount, nil
}

func (r *productRepository) UpdateProduct(executor SQLExecutor, product *models.Product) error {
	query := `UPDATE products SET
	            name = $1, description = $2, price = $3, category_id = $4, has_variants = $5,
	            track_stock = $6, master_recipe_id = $7, output_weight = $8, updated_at = $9
	          WHERE id = $10`
	result, err := executor.Exec(query,
		product.Name, product.Description, product.Price, product.CategoryID, product.HasVariants,
		product.TrackStock, product.MasterRecipeID, product.OutputWeight, time.Now(), product.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating product ID %d: %w", ErrDatabaseError, product.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}

	// Children are replaced wholesale on update; the simplest scheme that
	// keeps link rows keyed by current ids.
	deletes := []string{
		`DELETE FROM product_variant_ingredients WHERE variant_id IN (SELECT id FROM product_variants WHERE product_id = $1)`,
		`DELETE FROM product_variant_consumables WHERE variant_id IN (SELECT id FROM product_variants WHERE product_id = $1)`,
		`DELETE FROM product_variants WHERE product_id = $1`,
		`DELETE FROM product_ingredients WHERE product_id = $1`,
		`DELETE FROM product_consumables WHERE product_id = $1`,
		`DELETE FROM modifiers WHERE group_id IN (SELECT id FROM modifier_groups WHERE product_id = $1)`,
		`DELETE FROM modifier_groups WHERE product_id = $1`,
		`DELETE FROM product_process_groups WHERE product_id = $1`,
	}
	for _, q := range deletes {
		if _, err := executor.Exec(q, product.ID); err != nil {
			return fmt.Errorf("%w: clearing children of product ID %d: %w", ErrDatabaseError, product.ID, err)
		}
	}
	return r.insertChildren(executor, product)
}

func (r *productRepository) DeleteProduct(executor SQLExecutor, id int64) error {
	deletes := []string{
		`DELETE FROM product_variant_ingredients WHERE variant_id IN (SELECT id FROM product_variants WHERE product_id = $1)`,
		`DELETE FROM product_variant_consumables WHERE variant_id IN (SELECT id FROM product_variants WHERE product_id = $1)`,
		`DELETE FROM product_variants WHERE product_id = $1`,
		`DELETE FROM product_ingredients WHERE product_id = $1`,
		`DELETE FROM product_consumables WHERE product_id = $1`,
		`DELETE FROM modifiers WHERE group_id IN (SELECT id FROM modifier_groups WHERE product_id = $1)`,
		`DELETE FROM modifier_groups WHERE product_id = $1`,
		`DELETE FROM product_process_groups WHERE product_id = $1`,
	}
	for _, q := range deletes {
		if _, err := executor.Exec(q, id); err != nil {
			return fmt.Errorf("%w: clearing children of product ID %d: %w", ErrDatabaseError, id, err)
		}
	}
	result, err := executor.Exec(`DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting product ID %d: %w", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Row-Locked Reads & Stock Adjustments ---

func (r *productRepository) GetProductForUpdate(executor SQLExecutor, id int64) (*models.Product, error) {
	product := &models.Product{}
	query := `SELECT id, name, description, price, category_id, has_variants, track_stock,
	                 stock_quantity, master_recipe_id, output_weight, created_at, updated_at
	          FROM products WHERE id = $1 FOR UPDATE`
	err := executor.QueryRow(query, id).Scan(
		&product.ID, &product.Name, &product.Description, &product.Price, &product.CategoryID,
		&product.HasVariants, &product.TrackStock, &product.StockQuantity,
		&product.MasterRecipeID, &product.OutputWeight, &product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: locking product ID %d: %w", ErrDatabaseError, id, err)
	}
	return product, nil
}

func (r *productRepository) GetVariantForUpdate(executor SQLExecutor, id int64) (*models.ProductVariant, error) {
	variant := &models.ProductVariant{}
	query := `SELECT id, product_id, name, price, sku, stock_quantity, master_recipe_id, output_weight
	          FROM product_variants WHERE id = $1 FOR UPDATE`
	err := executor.QueryRow(query, id).Scan(
		&variant.ID, &variant.ProductID, &variant.Name, &variant.Price, &variant.SKU,
		&variant.StockQuantity, &variant.MasterRecipeID, &variant.OutputWeight,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: locking variant ID %d: %w", ErrDatabaseError, id, err)
	}
	return variant, nil
}

func (r *productRepository) AdjustProductStock(executor SQLExecutor, id int64, delta float64) (float64, error) {
	var newStock float64
	query := `UPDATE products
	          SET stock_quantity = COALESCE(stock_quantity, 0) + $1, updated_at = $2
	          WHERE id = $3
	          RETURNING stock_quantity`
	err := executor.QueryRow(query, delta, time.Now(), id).Scan(&newStock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("%w: adjusting stock for product ID %d: %w", ErrDatabaseError, id, err)
	}
	return newStock, nil
}

func (r *productRepository) AdjustVariantStock(executor SQLExecutor, id int64, delta float64) (float64, error) {
	var newStock float64
	query := `UPDATE product_variants
	          SET stock_quantity = COALESCE(stock_quantity, 0) + $1
	          WHERE id = $2
	          RETURNING stock_quantity`
	err := executor.QueryRow(query, delta, id).Scan(&newStock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("%w: adjusting stock for variant ID %d: %w", ErrDatabaseError, id, err)
	}
	return newStock, nil
}

// --- Direct Link Rows ---

func (r *productRepository) GetProductIngredients(executor SQLExecutor, productID int64) ([]models.ProductIngredient, error) {
	links := []models.ProductIngredient{}
	query := `SELECT pi.id, pi.product_id, pi.ingredient_id, pi.quantity, i.name
	          FROM product_ingredients pi
	          JOIN ingredients i ON pi.ingredient_id = i.id
	          WHERE pi.product_id = $1
	          ORDER BY pi.id`
	rows, err := executor.Query(query, productID)
	if err != nil {
		return nil, fmt.Errorf("%w: getting product ingredient links for product %d: %w", ErrDatabaseError, productID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var link models.ProductIngredient
		var name string
		if err := rows.Scan(&link.ID, &link.ProductID, &link.IngredientID, &link.Quantity, &name); err != nil {
			return nil, fmt.Errorf("%w: scanning product ingredient link: %w", ErrDatabaseError, err)
		}
		link.IngredientName = &name
		links = append(links, link)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating product ingredient links: %w", ErrDatabaseError, err)
	}
	return links, nil
}

func (r *productRepository) GetProductConsumables(executor SQLExecutor, productID int64) ([]models.ProductConsumable, error) {
	links := []models.ProductConsumable{}
	query := `SELECT pc.id, pc.product_id, pc.consumable_id, pc.quantity, c.name
	          FROM product_consumables pc
	          JOIN consumables c ON pc.consumable_id = c.id
	          WHERE pc.product_id = $1
	          ORDER BY pc.id`
	rows, err := executor.Query(query, productID)
	if err != nil {
		return nil, fmt.Errorf("%w: getting product consumable links for product %d: %w", ErrDatabaseError, productID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var link models.ProductConsumable
		var name string
		if err := rows.Scan(&link.ID, &link.ProductID, &link.ConsumableID, &link.Quantity, &name); err != nil {
			return nil, fmt.Errorf("%w: scanning product consumable link: %w", ErrDatabaseError, err)
		}
		link.ConsumableName = &name
		links = append(links, link)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating product consumable links: %w", ErrDatabaseError, err)
	}
	return links, nil
}

func (r *productRepository) GetVariantIngredients(executor SQLExecutor, variantID int64) ([]models.ProductVariantIngredient, error) {
	links := []models.ProductVariantIngredient{}
	query := `SELECT vi.id, vi.variant_id, vi.ingredient_id, vi.quantity, i.name
	          FROM product_variant_ingredients vi
	          JOIN ingredients i ON vi.ingredient_id = i.id
	          WHERE vi.variant_id = $1
	          ORDER BY vi.id`
	rows, err := executor.Query(query, variantID)
	if err != nil {
		return nil, fmt.Errorf("%w: getting variant ingredient links for variant %d: %w", ErrDatabaseError, variantID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var link models.ProductVariantIngredient
		var name string
		if err := rows.Scan(&link.ID, &link.VariantID, &link.IngredientID, &link.Quantity, &name); err != nil {
			return nil, fmt.Errorf("%w: scanning variant ingredient link: %w", ErrDatabaseError, err)
		}
		link.IngredientName = &name
		links = append(links, link)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating variant ingredient links: %w", ErrDatabaseError, err)
	}
	return links, nil
}

func (r *productRepository) GetVariantConsumables(executor SQLExecutor, variantID int64) ([]models.ProductVariantConsumable, error) {
	links := []models.ProductVariantConsumable{}
	query := `SELECT vc.id, vc.variant_id, vc.consumable_id, vc.quantity, c.name
	          FROM product_variant_consumables vc
	          JOIN consumables c ON vc.consumable_id = c.id
	          WHERE vc.variant_id = $1
	          ORDER BY vc.id`
	rows, err := executor.Query(query, variantID)
	if err != nil {
		return nil, fmt.Errorf("%w: getting variant consumable links for variant %d: %w", ErrDatabaseError, variantID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var link models.ProductVariantConsumable
		var name string
		if err := rows.Scan(&link.ID, &link.VariantID, &link.ConsumableID, &link.Quantity, &name); err != nil {
			return nil, fmt.Errorf("%w: scanning variant consumable link: %w", ErrDatabaseError, err)
		}
		link.ConsumableName = &name
		links = append(links, link)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating variant consumable links: %w", ErrDatabaseError, err)
	}
	return links, nil
}

func (r *productRepository) GetModifiersByIDs(executor SQLExecutor, ids []int64) ([]models.Modifier, error) {
	if len(ids) == 0 {
		return []models.Modifier{}, nil
	}
	query := `SELECT id, group_id, name, price_change, ingredient_id, quantity
	          FROM modifiers WHERE id = ANY($1)`
	rows, err := executor.Query(query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("%w: getting modifiers: %w", ErrDatabaseError, err)
	}
	defer rows.Close()

	byID := make(map[int64]models.Modifier, len(ids))
	for rows.Next() {
		var m models.Modifier
		if err := rows.Scan(&m.ID, &m.GroupID, &m.Name, &m.PriceChange, &m.IngredientID, &m.Quantity); err != nil {
			return nil, fmt.Errorf("%w: scanning modifier: %w", ErrDatabaseError, err)
		}
		byID[m.ID] = m
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating modifiers: %w", ErrDatabaseError, err)
	}

	modifiers := make([]models.Modifier, 0, len(ids))
	for _, id := range ids {
		m, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: modifier ID %d", ErrNotFound, id)
		}
		modifiers = append(modifiers, m)
	}
	return modifiers, nil
}
