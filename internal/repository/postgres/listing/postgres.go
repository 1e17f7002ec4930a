package listing

import (
	"context"
	"errors"
	"strings"

	"campus-market-go/internal/domain/campus"
	listingdomain "campus-market-go/internal/domain/listing"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// itemColumns are the columns a seller operation may change. added_at is never rewritten.
var itemColumns = []string{
	"name",
	"description",
	"price",
	"is_sold",
	"whatsapp",
	"category_id",
	"hostel_name",
	"phone",
	"updated_at",
}

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(listingdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) ListCandidates(ctx context.Context, filter listingdomain.FeedFilter) ([]listingdomain.Item, error) {
	query := r.db.WithContext(ctx).
		Model(&listingdomain.Item{}).
		Preload("Seller").
		Preload("Category")

	if filter.Campus != nil {
		query = query.Where("items.seller_id IN (?)", r.sellersOnCampus(ctx, *filter.Campus))
	}
	if filter.CategoryID != nil {
		query = query.Where("items.category_id = ?", *filter.CategoryID)
	}
	if filter.Query != "" {
		pattern := containsPattern(filter.Query)
		query = query.Where(
			"items.name ILIKE ? OR items.hostel_name ILIKE ? OR items.description ILIKE ? OR items.category_id IN (?)",
			pattern, pattern, pattern,
			r.db.WithContext(ctx).Table("categories").Select("id").Where("name ILIKE ?", pattern),
		)
	}

	var items []listingdomain.Item
	if err := query.Order("items.id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) CategoryCounts(ctx context.Context, campusFilter *campus.Code) ([]listingdomain.CategoryCount, error) {
	join := r.db.WithContext(ctx).Table("categories")
	if campusFilter != nil {
		join = join.Joins(
			"LEFT JOIN items ON items.category_id = categories.id AND items.seller_id IN (SELECT id FROM persons WHERE campus = ?)",
			*campusFilter,
		)
	} else {
		join = join.Joins("LEFT JOIN items ON items.category_id = categories.id")
	}

	var counts []listingdomain.CategoryCount
	if err := join.
		Select("categories.id, categories.name, categories.icon_class, COUNT(items.id) AS item_count").
		Group("categories.id").
		Order("categories.id").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *PostgresRepository) ImagesForItems(ctx context.Context, itemIDs []uint) (map[uint][]listingdomain.Image, error) {
	result := make(map[uint][]listingdomain.Image)
	if len(itemIDs) == 0 {
		return result, nil
	}

	var images []listingdomain.Image
	if err := r.db.WithContext(ctx).
		Where("item_id IN ?", itemIDs).
		Order("item_id, display_order, id").
		Find(&images).Error; err != nil {
		return nil, err
	}
	for _, image := range images {
		result[image.ItemID] = append(result[image.ItemID], image)
	}
	return result, nil
}

func (r *PostgresRepository) GetItem(ctx context.Context, id uint) (*listingdomain.Item, error) {
	var item listingdomain.Item
	if err := r.withRelations(ctx).Where("items.id = ?", id).Take(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, listingdomain.ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) SimilarItems(ctx context.Context, categoryID, excludeID uint, limit int) ([]listingdomain.Item, error) {
	var items []listingdomain.Item
	if err := r.withRelations(ctx).
		Where("items.category_id = ? AND items.id <> ?", categoryID, excludeID).
		Order("items.updated_at DESC").
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) ListBySeller(ctx context.Context, sellerID uint) ([]listingdomain.Item, error) {
	var items []listingdomain.Item
	if err := r.withRelations(ctx).
		Where("items.seller_id = ?", sellerID).
		Order("items.id").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) ListBySellerAndIDs(ctx context.Context, sellerID uint, ids []uint) ([]listingdomain.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []listingdomain.Item
	if err := r.withRelations(ctx).
		Where("items.seller_id = ? AND items.id IN ?", sellerID, ids).
		Order("items.id").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) CreateItem(ctx context.Context, item *listingdomain.Item) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error
}

func (r *PostgresRepository) SaveItem(ctx context.Context, item *listingdomain.Item) error {
	result := r.db.WithContext(ctx).
		Model(&listingdomain.Item{ID: item.ID}).
		Select(itemColumns).
		Updates(item)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return listingdomain.ErrItemNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteItem(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&listingdomain.Item{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return listingdomain.ErrItemNotFound
	}
	return nil
}

func (r *PostgresRepository) ListImages(ctx context.Context, itemID uint) ([]listingdomain.Image, error) {
	var images []listingdomain.Image
	if err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("display_order, id").
		Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

func (r *PostgresRepository) CreateImages(ctx context.Context, images []listingdomain.Image) error {
	if len(images) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&images).Error
}

func (r *PostgresRepository) UpdateImageOrder(ctx context.Context, imageID uint, order int) error {
	return r.db.WithContext(ctx).
		Model(&listingdomain.Image{}).
		Where("id = ?", imageID).
		Update("display_order", order).Error
}

func (r *PostgresRepository) DeleteImages(ctx context.Context, imageIDs []uint) error {
	if len(imageIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("id IN ?", imageIDs).
		Delete(&listingdomain.Image{}).Error
}

func (r *PostgresRepository) ListCategories(ctx context.Context) ([]listingdomain.Category, error) {
	var categories []listingdomain.Category
	if err := r.db.WithContext(ctx).Order("id").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *PostgresRepository) CategoryExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&listingdomain.Category{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) ListHostels(ctx context.Context, campusFilter *campus.Code) ([]listingdomain.Hostel, error) {
	query := r.db.WithContext(ctx).Order("name")
	if campusFilter != nil {
		query = query.Where("campus = ?", *campusFilter)
	}

	var hostels []listingdomain.Hostel
	if err := query.Find(&hostels).Error; err != nil {
		return nil, err
	}
	return hostels, nil
}

func (r *PostgresRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&listingdomain.Item{}).
		Preload("Seller").
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order, id")
		})
}

func (r *PostgresRepository) sellersOnCampus(ctx context.Context, code campus.Code) *gorm.DB {
	return r.db.WithContext(ctx).Table("persons").Select("id").Where("campus = ?", code)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching value as a literal substring.
func containsPattern(value string) string {
	return "%" + likeEscaper.Replace(value) + "%"
}
