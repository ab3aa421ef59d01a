package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/entities"
)

var (
	ErrItemNotFound      = errors.New("item not found")
	ErrInvalidCatalog    = errors.New("invalid catalog")
	ErrUnsupportedFormat = errors.New("unsupported catalog format")
)

// Sheet names of an XLSX catalog.
const (
	CategoriesSheet = "categories"
	ItemsSheet      = "items"
)

// CatalogRepository provides read-only access to the vocabulary catalog.
// It is loaded once at startup and safe for concurrent reads.
type CatalogRepository struct {
	items      []entities.Item
	byID       map[string]entities.Item
	categories []entities.Category
	difficulty entities.CategoryDifficulty
}

// NewCatalogRepository loads the catalog from a .json or .xlsx file.
func NewCatalogRepository(path string) (*CatalogRepository, error) {
	var (
		categories []entities.Category
		items      []entities.Item
		err        error
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		categories, items, err = readJSON(path)
	case ".xlsx":
		categories, items, err = readXLSX(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	return NewCatalog(categories, items)
}

// NewCatalog validates categories and items and builds a repository from them.
func NewCatalog(categories []entities.Category, items []entities.Item) (*CatalogRepository, error) {
	r := &CatalogRepository{
		items:      make([]entities.Item, 0, len(items)),
		byID:       make(map[string]entities.Item, len(items)),
		categories: make([]entities.Category, 0, len(categories)),
		difficulty: make(entities.CategoryDifficulty, len(categories)),
	}

	for _, c := range categories {
		c.ID = strings.TrimSpace(c.ID)
		if c.ID == "" {
			return nil, fmt.Errorf("%w: category without id", ErrInvalidCatalog)
		}
		if _, dup := r.difficulty[c.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate category %q", ErrInvalidCatalog, c.ID)
		}
		if c.Difficulty < 1 {
			return nil, fmt.Errorf("%w: category %q has difficulty %d", ErrInvalidCatalog, c.ID, c.Difficulty)
		}
		if c.Name == "" {
			c.Name = c.ID
		}

		r.categories = append(r.categories, c)
		r.difficulty[c.ID] = c.Difficulty
	}

	for _, it := range items {
		it.ID = strings.TrimSpace(it.ID)
		it.Category = strings.TrimSpace(it.Category)
		if it.ID == "" {
			return nil, fmt.Errorf("%w: item %q without id", ErrInvalidCatalog, it.Text)
		}
		if _, dup := r.byID[it.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate item %q", ErrInvalidCatalog, it.ID)
		}
		if _, ok := r.difficulty[it.Category]; !ok {
			return nil, fmt.Errorf("%w: item %q has unknown category %q", ErrInvalidCatalog, it.ID, it.Category)
		}
		if strings.TrimSpace(it.Text) == "" || strings.TrimSpace(it.Translation) == "" {
			return nil, fmt.Errorf("%w: item %q needs text and translation", ErrInvalidCatalog, it.ID)
		}

		r.items = append(r.items, it)
		r.byID[it.ID] = it
	}

	return r, nil
}

// Items returns every item in catalog order.
func (r *CatalogRepository) Items() []entities.Item {
	return append([]entities.Item(nil), r.items...)
}

// Item returns the item with the given id.
func (r *CatalogRepository) Item(id string) (entities.Item, error) {
	it, ok := r.byID[id]
	if !ok {
		return entities.Item{}, fmt.Errorf("get item %q: %w", id, ErrItemNotFound)
	}
	return it, nil
}

// Categories returns every category in catalog order.
func (r *CatalogRepository) Categories() []entities.Category {
	return append([]entities.Category(nil), r.categories...)
}

// Difficulty returns the category id to tier mapping.
func (r *CatalogRepository) Difficulty() entities.CategoryDifficulty {
	return maps.Clone(r.difficulty)
}

// ItemsInCategories returns the items of the given categories in catalog order.
func (r *CatalogRepository) ItemsInCategories(categoryIDs []string) []entities.Item {
	wanted := make(map[string]struct{}, len(categoryIDs))
	for _, id := range categoryIDs {
		wanted[id] = struct{}{}
	}

	result := make([]entities.Item, 0)
	for _, it := range r.items {
		if _, ok := wanted[it.Category]; ok {
			result = append(result, it)
		}
	}

	return result
}

func readJSON(path string) ([]entities.Category, []entities.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read catalog: %w", err)
	}

	var wrapper struct {
		Categories []entities.Category `json:"categories"`
		Items      []entities.Item     `json:"items"`
	}
	if err = json.Unmarshal(data, &wrapper); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal catalog JSON: %w", err)
	}

	return wrapper.Categories, wrapper.Items, nil
}

// readXLSX reads the "categories" sheet (id, name, difficulty) and the
// "items" sheet (id, category, text, translation). The first row of each
// sheet is a header.
func readXLSX(path string) ([]entities.Category, []entities.Item, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open catalog workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	catRows, err := f.GetRows(CategoriesSheet)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s sheet: %w", CategoriesSheet, err)
	}

	var categories []entities.Category
	for i, row := range dataRows(catRows) {
		difficulty, err := strconv.Atoi(cell(row, 2))
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s row %d: difficulty %q", ErrInvalidCatalog, CategoriesSheet, i+2, cell(row, 2))
		}
		categories = append(categories, entities.Category{
			ID:         cell(row, 0),
			Name:       cell(row, 1),
			Difficulty: difficulty,
		})
	}

	itemRows, err := f.GetRows(ItemsSheet)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s sheet: %w", ItemsSheet, err)
	}

	var items []entities.Item
	for _, row := range dataRows(itemRows) {
		items = append(items, entities.Item{
			ID:          cell(row, 0),
			Category:    cell(row, 1),
			Text:        cell(row, 2),
			Translation: cell(row, 3),
		})
	}

	return categories, items, nil
}

// dataRows drops the header and trailing blank rows.
func dataRows(rows [][]string) [][]string {
	if len(rows) <= 1 {
		return nil
	}
	rows = rows[1:]
	for len(rows) > 0 && strings.TrimSpace(strings.Join(rows[len(rows)-1], "")) == "" {
		rows = rows[:len(rows)-1]
	}
	return rows
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
