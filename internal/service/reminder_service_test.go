package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"golang-maintenance/internal/model"
	"golang-maintenance/pkg/utils"
)

func reminderExecution(scheduled time.Time, template *model.MaintenanceTemplate) *model.MaintenanceExecution {
	return &model.MaintenanceExecution{
		ID:            1,
		TemplateID:    1,
		AssetID:       1,
		ScheduledDate: utils.DateOnly(scheduled),
		Status:        model.StatusScheduled,
		Template:      template,
	}
}

func TestApplicableReminders(t *testing.T) {
	loc := utils.GetWibTimeLocation()
	morning := time.Date(2025, 3, 10, 9, 0, 0, 0, loc)
	today := utils.DateOnly(morning)

	allOn := &model.MaintenanceTemplate{
		Notify24hBefore:  true,
		Notify2hBefore:   true,
		NotifyOnSchedule: true,
	}

	t.Run("tomorrow gets the 24h reminder", func(t *testing.T) {
		kinds := applicableReminders(reminderExecution(today.AddDate(0, 0, 1), allOn), morning)
		assert.Equal(t, []model.ReminderType{model.Reminder24hBefore}, kinds)
	})

	t.Run("today gets both same-day reminders after work start", func(t *testing.T) {
		kinds := applicableReminders(reminderExecution(today, allOn), morning)
		assert.ElementsMatch(t, []model.ReminderType{model.Reminder2hBefore, model.ReminderOnSchedule}, kinds)
	})

	t.Run("past due always nags regardless of flags", func(t *testing.T) {
		allOff := &model.MaintenanceTemplate{}
		kinds := applicableReminders(reminderExecution(today.AddDate(0, 0, -2), allOff), morning)
		assert.Equal(t, []model.ReminderType{model.ReminderOverdue}, kinds)
	})

	t.Run("disabled flags suppress lead-time reminders", func(t *testing.T) {
		allOff := &model.MaintenanceTemplate{}
		kinds := applicableReminders(reminderExecution(today.AddDate(0, 0, 1), allOff), morning)
		assert.Empty(t, kinds)

		kinds = applicableReminders(reminderExecution(today, allOff), morning)
		assert.Empty(t, kinds)
	})

	t.Run("same-day reminders wait for the workday window", func(t *testing.T) {
		midnight := time.Date(2025, 3, 10, 0, 30, 0, 0, loc)
		kinds := applicableReminders(reminderExecution(today, allOn), midnight)
		assert.Empty(t, kinds)
	})
}

func TestRecipientPrefersAssignee(t *testing.T) {
	pic := &model.User{ID: 1, PhoneNumber: "0811111111"}
	assignee := &model.User{ID: 2, PhoneNumber: "0822222222"}
	template := &model.MaintenanceTemplate{PIC: pic}

	execution := reminderExecution(utils.TodayWIB(), template)
	assert.Equal(t, pic, recipientOf(execution))

	execution.AssignedTo = assignee
	assert.Equal(t, assignee, recipientOf(execution))
}

func TestComposeMessageMentionsAssetAndDate(t *testing.T) {
	template := &model.MaintenanceTemplate{Name: "Servis Kompresor"}
	execution := reminderExecution(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), template)
	execution.Asset = &model.Asset{ID: 1, Name: "Kompresor A"}

	msg := composeMessage(reminderCandidate{execution: *execution, kind: model.ReminderOverdue})
	assert.Contains(t, msg, "Servis Kompresor")
	assert.Contains(t, msg, "Kompresor A")
	assert.Contains(t, msg, "2025-03-10")
}
