// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package menustore

import (
	"fmt"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/bureau-foundation/kiosk/lib/kioskapi"
	"github.com/bureau-foundation/kiosk/lib/menu"
)

// DefaultMenu returns the built-in menu used to seed an empty database
// when no seed file is configured.
func DefaultMenu() []menu.Item {
	return []menu.Item{
		{Name: "宫保鸡丁", Price: 28, Category: "中式经典"},
		{Name: "鱼香肉丝", Price: 24, Category: "中式经典"},
		{Name: "麻婆豆腐", Price: 22, Category: "中式经典"},
		{Name: "米饭", Price: 3, Category: "中式经典"},
		{Name: "澳洲M5牛排", Price: 128, Category: "西式料理"},
		{Name: "黑松露意面", Price: 58, Category: "西式料理"},
		{Name: "凯撒沙拉", Price: 32, Category: "西式料理"},
		{Name: "奶油蘑菇汤", Price: 28, Category: "西式料理"},
		{Name: "冬阴功汤", Price: 45, Category: "东南亚风味"},
		{Name: "泰式咖喱蟹", Price: 168, Category: "东南亚风味"},
		{Name: "海南鸡饭", Price: 35, Category: "东南亚风味"},
		{Name: "越式春卷", Price: 26, Category: "东南亚风味"},
		{Name: "冰美式", Price: 15, Category: "饮品甜点"},
		{Name: "提拉米苏", Price: 25, Category: "饮品甜点"},
		{Name: "手作酸奶", Price: 18, Category: "饮品甜点"},
	}
}

// ParseSeed decodes a seed document: a JSON object in the same shape
// as the menu response data ({"name": {"price", "category", "image"}}),
// with comments and trailing commas allowed. Key order is the listing
// order.
func ParseSeed(data []byte, fallbackCategory string) ([]menu.Item, error) {
	catalog, err := kioskapi.DecodeMenu(jsonc.ToJSON(data), fallbackCategory)
	if err != nil {
		return nil, err
	}
	return catalog.Items(), nil
}

// LoadSeedFile reads and parses a seed file.
func LoadSeedFile(path, fallbackCategory string) ([]menu.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("menustore: reading seed file: %w", err)
	}
	items, err := ParseSeed(data, fallbackCategory)
	if err != nil {
		return nil, fmt.Errorf("menustore: parsing seed file %s: %w", path, err)
	}
	return items, nil
}
