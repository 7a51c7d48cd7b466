package models

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Older deployments wrote bare JSON arrays (items, logs, sales buckets, key
// lists) and report objects without a schemaVersion tag. All upgrade logic
// lives here, in the UnmarshalJSON of each persisted document type, so
// callers always see the current shape and never sniff at raw JSON.

func isLegacyArray(b []byte) bool {
	return bytes.HasPrefix(bytes.TrimSpace(b), []byte("["))
}

func (c *ItemCollection) UnmarshalJSON(b []byte) error {
	if isLegacyArray(b) {
		var items []Item
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		*c = ItemCollection{SchemaVersion: CurrentSchemaVersion, Items: items}
		return nil
	}
	type alias ItemCollection
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	if a.SchemaVersion == 0 {
		a.SchemaVersion = CurrentSchemaVersion
	}
	*c = ItemCollection(a)
	return nil
}

func (l *ActionLog) UnmarshalJSON(b []byte) error {
	if isLegacyArray(b) {
		var entries []LogEntry
		if err := json.Unmarshal(b, &entries); err != nil {
			return err
		}
		*l = ActionLog{SchemaVersion: CurrentSchemaVersion, Entries: entries}
		return nil
	}
	type alias ActionLog
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	if a.SchemaVersion == 0 {
		a.SchemaVersion = CurrentSchemaVersion
	}
	*l = ActionLog(a)
	return nil
}

func (s *SalesBucket) UnmarshalJSON(b []byte) error {
	if isLegacyArray(b) {
		var sales []Sale
		if err := json.Unmarshal(b, &sales); err != nil {
			return err
		}
		*s = SalesBucket{SchemaVersion: CurrentSchemaVersion, Sales: sales}
		return nil
	}
	type alias SalesBucket
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	if a.SchemaVersion == 0 {
		a.SchemaVersion = CurrentSchemaVersion
	}
	*s = SalesBucket(a)
	return nil
}

func (k *KeyList) UnmarshalJSON(b []byte) error {
	if isLegacyArray(b) {
		var keys []APIKey
		if err := json.Unmarshal(b, &keys); err != nil {
			return err
		}
		*k = KeyList{SchemaVersion: CurrentSchemaVersion, Keys: keys}
		return nil
	}
	type alias KeyList
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	if a.SchemaVersion == 0 {
		a.SchemaVersion = CurrentSchemaVersion
	}
	*k = KeyList(a)
	return nil
}

// A legacy daily report could be a bare array from the very first server
// version. That shape carried no usable totals, so it upgrades to an empty
// report; the caller fills in the date.
func (d *DailyReport) UnmarshalJSON(b []byte) error {
	if isLegacyArray(b) {
		*d = DailyReport{SchemaVersion: CurrentSchemaVersion, Transactions: []Sale{}}
		return nil
	}
	type alias DailyReport
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	if a.SchemaVersion == 0 {
		a.SchemaVersion = CurrentSchemaVersion
	}
	*d = DailyReport(a)
	return nil
}

// Legacy monthly reports stored popularItems as a map keyed by item id.
// The map is flattened into the current ranked slice, quantity descending
// with name as the tie-break.
func (m *MonthlyReport) UnmarshalJSON(b []byte) error {
	type alias MonthlyReport
	var a struct {
		alias
		PopularItems json.RawMessage `json:"popularItems"`
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*m = MonthlyReport(a.alias)
	if m.SchemaVersion == 0 {
		m.SchemaVersion = CurrentSchemaVersion
	}

	if len(a.PopularItems) == 0 {
		return nil
	}
	var ranked []PopularItem
	if err := json.Unmarshal(a.PopularItems, &ranked); err == nil {
		m.PopularItems = ranked
		return nil
	}
	var legacy map[string]struct {
		Name     string `json:"name"`
		Quantity int    `json:"quantity"`
	}
	if err := json.Unmarshal(a.PopularItems, &legacy); err != nil {
		return err
	}
	for id, v := range legacy {
		m.PopularItems = append(m.PopularItems, PopularItem{ID: id, Name: v.Name, Quantity: v.Quantity})
	}
	sort.Slice(m.PopularItems, func(i, j int) bool {
		if m.PopularItems[i].Quantity != m.PopularItems[j].Quantity {
			return m.PopularItems[i].Quantity > m.PopularItems[j].Quantity
		}
		return m.PopularItems[i].Name < m.PopularItems[j].Name
	})
	return nil
}
