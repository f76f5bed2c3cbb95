package config

import (
	"time"

	"github.com/nibzard/tasktxt/internal/recur"
)

// TodayDate returns the configured date override, or now's local date.
func (c *Config) TodayDate(now time.Time) string {
	if c.Today != "" {
		return c.Today
	}
	return recur.FormatDate(now)
}

// CreateDateFor returns the date new tasks are stamped with, or "" when
// AddCreateDate is off.
func (c *Config) CreateDateFor(today string) string {
	if !c.AddCreateDate {
		return ""
	}
	return today
}
