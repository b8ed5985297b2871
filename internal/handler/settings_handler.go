package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"go-employee-console/internal/service"
	"go-employee-console/internal/session"
	"go-employee-console/internal/web"
)

// Languages offered on the settings page.
var Languages = []string{"English", "Français", "Español", "Hindi"}

type SettingsHandler struct {
	Base
	settings *service.SettingsService
}

func NewSettingsHandler(base Base, settings *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{Base: base, settings: settings}
}

type settingsView struct {
	Values    map[string]string
	Languages []string
	Extra     []string
	// Failed lists the keys to retry, comma separated.
	Failed  string
	Results []service.SaveResult
	Error   string
}

func extraKeys(keys []string) []string {
	known := map[string]bool{}
	for _, k := range service.DefaultSettingKeys {
		known[k] = true
	}
	var extra []string
	for _, k := range keys {
		if !known[k] {
			extra = append(extra, k)
		}
	}
	return extra
}

// Settings renders the settings bag.
// GET /dashboard/setting
func (h *SettingsHandler) Settings(c *fiber.Ctx) error {
	page := h.settings.Load(h.backendCtx(c))
	view := settingsView{
		Values:    page.Values,
		Languages: Languages,
		Extra:     extraKeys(page.Keys),
		Error:     page.Error,
	}
	return h.render(c, fiber.StatusOK, web.PageSettings, h.page(c, "Settings", "setting", view))
}

// postedSettings collects every non-underscore form field.
func postedSettings(c *fiber.Ctx) map[string]string {
	values := map[string]string{}
	c.Request().PostArgs().VisitAll(func(k, v []byte) {
		key := string(k)
		if key == "" || strings.HasPrefix(key, "_") {
			return
		}
		values[key] = strings.TrimSpace(string(v))
	})
	return values
}

// Save writes each setting. With _retry set only the listed keys are
// written again.
// POST /dashboard/setting
func (h *SettingsHandler) Save(c *fiber.Ctx) error {
	values := postedSettings(c)
	if retry := c.FormValue("_retry"); retry != "" {
		only := map[string]string{}
		for _, k := range strings.Split(retry, ",") {
			if v, ok := values[k]; ok {
				only[k] = v
			}
		}
		values = only
	}

	report := h.settings.Save(h.backendCtx(c), values)
	if report.OK() {
		return h.redirectWith(c, "/dashboard/setting", session.FlashSuccess, "Settings saved successfully!")
	}

	page := h.settings.Load(h.backendCtx(c))
	for k, v := range postedSettings(c) {
		page.Values[k] = v
	}
	failed := report.Failed()
	keys := make([]string, 0, len(failed))
	for _, r := range report.Results {
		if r.Err != nil {
			keys = append(keys, r.Key)
		}
	}
	view := settingsView{
		Values:    page.Values,
		Languages: Languages,
		Extra:     extraKeys(page.Keys),
		Failed:    strings.Join(keys, ","),
		Results:   report.Results,
		Error:     "Some settings could not be saved",
	}
	return h.render(c, fiber.StatusOK, web.PageSettings, h.page(c, "Settings", "setting", view))
}
