package service

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"go-employee-console/internal/model"
	"go-employee-console/pkg/apiclient"
)

// DefaultSettingKeys is the display and save order of the known settings.
var DefaultSettingKeys = []string{"theme", "language", "notifications", "timezone"}

// DefaultSettings apply when a key is missing from the settings table.
func DefaultSettings() map[string]string {
	return map[string]string{
		"theme":         "light",
		"language":      "English",
		"notifications": "true",
		"timezone":      "GMT+5:30",
	}
}

// SettingsPage is the settings bag merged over the defaults.
type SettingsPage struct {
	Values map[string]string
	Keys   []string
	Error  string
}

// SaveResult reports one key's write.
type SaveResult struct {
	Key   string
	Value string
	Err   error
}

type SaveReport struct {
	Results []SaveResult
}

// Failed returns the keys whose write failed, for a retry.
func (r SaveReport) Failed() map[string]string {
	out := map[string]string{}
	for _, res := range r.Results {
		if res.Err != nil {
			out[res.Key] = res.Value
		}
	}
	return out
}

func (r SaveReport) OK() bool {
	return len(r.Failed()) == 0
}

type SettingsService struct {
	md  MasterData
	log *zap.Logger
}

func NewSettingsService(md MasterData, log *zap.Logger) *SettingsService {
	if log == nil {
		log = zap.NewNop()
	}
	return &SettingsService{md: md, log: log}
}

// Load lists the settings table and merges it over the defaults.
func (s *SettingsService) Load(ctx context.Context) SettingsPage {
	values := DefaultSettings()
	page := SettingsPage{Values: values}
	rows, err := listAs[model.Setting](ctx, s.md, model.TableSettings, nil)
	if err != nil {
		s.log.Warn("load settings failed", zap.Error(err))
		page.Error = apiclient.Message(err, "Failed to fetch settings")
	}
	for _, r := range rows {
		if r.Key != "" {
			values[r.Key] = r.Value
		}
	}
	page.Keys = orderedKeys(values)
	return page
}

// orderedKeys lists the known keys first, then any others sorted.
func orderedKeys(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	known := map[string]bool{}
	for _, k := range DefaultSettingKeys {
		known[k] = true
		if _, ok := values[k]; ok {
			keys = append(keys, k)
		}
	}
	var extra []string
	for k := range values {
		if !known[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}

// Save writes each key with its own call, one after another. A failure does
// not undo earlier writes; the report says which keys to retry.
func (s *SettingsService) Save(ctx context.Context, values map[string]string) SaveReport {
	var report SaveReport
	for _, key := range orderedKeys(values) {
		value := values[key]
		err := s.md.Insert(ctx, model.TableSettings, model.SettingFields{Key: key, Value: value}.Fields(), apiclient.TagOmit)
		if err != nil {
			s.log.Warn("save setting failed", zap.String("key", key), zap.Error(err))
		}
		report.Results = append(report.Results, SaveResult{Key: key, Value: value, Err: err})
		if ctx.Err() != nil {
			break
		}
	}
	return report
}
