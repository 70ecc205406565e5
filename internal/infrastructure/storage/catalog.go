package storage

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"part-inspector/internal/domain/entity"
	"part-inspector/internal/domain/port"
	"part-inspector/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// catalogFile формат файла каталога. JSON тоже читается: он подмножество YAML.
type catalogFile struct {
	Products   []entity.Product `yaml:"products"`
	ItemChecks []itemCheckEntry `yaml:"item_checks"`
}

// itemCheckEntry правило задаётся строкой rule_json или вложенным объектом rule
type itemCheckEntry struct {
	ID          int64          `yaml:"id"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	RuleJSON    string         `yaml:"rule_json"`
	Rule        map[string]any `yaml:"rule"`
	IsActive    *bool          `yaml:"is_active"` // по умолчанию true
}

func (e itemCheckEntry) toItemCheck() (entity.ItemCheck, error) {
	ic := entity.ItemCheck{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		RuleJSON:    e.RuleJSON,
		IsActive:    e.IsActive == nil || *e.IsActive,
	}
	if e.Rule != nil {
		raw, err := json.Marshal(e.Rule)
		if err != nil {
			return ic, fmt.Errorf("item check %d: encode rule: %w", e.ID, err)
		}
		ic.RuleJSON = string(raw)
	}
	return ic, nil
}

// Catalog справочник продукции и item check, загружаемый из файла.
// Правила разбираются один раз при загрузке; битое правило не мешает остальным.
type Catalog struct {
	mu       sync.RWMutex
	products map[string]entity.Product
	checks   []entity.ItemCheck
	rules    []entity.CheckRule
}

// NewCatalog создаёт каталог из готовых записей
func NewCatalog(products []entity.Product, checks []entity.ItemCheck) *Catalog {
	c := &Catalog{}
	c.replace(products, checks)
	return c
}

// LoadCatalog читает каталог из YAML или JSON файла. Пустой путь: пустой каталог.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return NewCatalog(nil, nil), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	c := &Catalog{}
	if err := c.load(data); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}

	log.Info(log.Fields{
		"path":        path,
		"products":    len(c.products),
		"item_checks": len(c.checks),
	}, "catalog loaded")
	return c, nil
}

// Reload перечитывает каталог из файла; при ошибке прежнее содержимое сохраняется.
func (c *Catalog) Reload(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	return c.load(data)
}

func (c *Catalog) load(data []byte) error {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse catalog: %w", err)
	}

	checks := make([]entity.ItemCheck, 0, len(file.ItemChecks))
	for _, e := range file.ItemChecks {
		ic, err := e.toItemCheck()
		if err != nil {
			return err
		}
		checks = append(checks, ic)
	}

	c.replace(file.Products, checks)
	return nil
}

func (c *Catalog) replace(products []entity.Product, checks []entity.ItemCheck) {
	byNumber := make(map[string]entity.Product, len(products))
	for _, p := range products {
		byNumber[strings.TrimSpace(p.PartNumber)] = p
	}

	rules := make([]entity.CheckRule, 0, len(checks))
	for _, ic := range checks {
		if !ic.IsActive {
			continue
		}
		rule := entity.ParseItemCheck(ic)
		if rule.Err != nil {
			log.Warn(log.Fields{"check_id": ic.ID, "error": rule.Err.Error()}, "[Catalog.replace] malformed rule")
		}
		rules = append(rules, rule)
	}

	c.mu.Lock()
	c.products = byNumber
	c.checks = checks
	c.rules = rules
	c.mu.Unlock()
}

// ActiveRules возвращает копию активных правил в порядке файла
func (c *Catalog) ActiveRules(ctx context.Context) ([]entity.CheckRule, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]entity.CheckRule, len(c.rules))
	copy(out, c.rules)
	return out, nil
}

// ItemChecks возвращает все описания проверок, включая неактивные
func (c *Catalog) ItemChecks() []entity.ItemCheck {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]entity.ItemCheck, len(c.checks))
	copy(out, c.checks)
	return out
}

// FindProduct ищет продукт по точному номеру детали
func (c *Catalog) FindProduct(ctx context.Context, partNumber string) (*entity.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.products[strings.TrimSpace(partNumber)]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

var (
	_ port.RuleSource     = (*Catalog)(nil)
	_ port.ProductCatalog = (*Catalog)(nil)
)
