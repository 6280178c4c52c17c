package watcher

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// cronParser — парсер расписаний: стандартные 5 полей и дескрипторы (@every 5m, @hourly).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseSchedule разбирает расписание сканирования.
func ParseSchedule(spec string) (cron.Schedule, error) {
	schedule, err := cronParser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidSchedule, spec, err)
	}
	return schedule, nil
}
