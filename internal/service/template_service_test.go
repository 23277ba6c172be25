package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"golang-maintenance/config"
	"golang-maintenance/internal/dto"
	"golang-maintenance/internal/model"
	"golang-maintenance/pkg/logger"
	"golang-maintenance/pkg/utils"
)

type templateServiceFixture struct {
	service       TemplateService
	templateRepo  *fakeTemplateRepo
	executionRepo *fakeExecutionRepo
	assetRepo     *fakeAssetRepo
	userRepo      *fakeUserRepo
}

func newTemplateServiceFixture(assetIDs ...uint) *templateServiceFixture {
	cfg := &config.Config{Generator: config.Generator{HorizonMonths: 24}}
	log := &logger.Logger{Logger: zap.NewNop()}
	templateRepo := newFakeTemplateRepo()
	executionRepo := newFakeExecutionRepo()
	assetRepo := newFakeAssetRepo(assetIDs...)
	userRepo := newFakeUserRepo()

	return &templateServiceFixture{
		service:       NewTemplateService(cfg, log, templateRepo, executionRepo, assetRepo, userRepo, &fakeUnitOfWork{}),
		templateRepo:  templateRepo,
		executionRepo: executionRepo,
		assetRepo:     assetRepo,
		userRepo:      userRepo,
	}
}

func weeklyJanuaryRequest(assetIDs []uint) dto.CreateTemplateRequest {
	return dto.CreateTemplateRequest{
		Name:         "Perawatan Mingguan",
		ScheduleType: "interval",
		IntervalDays: 7,
		StartDate:    "2025-01-01",
		EndDate:      "2025-01-31",
		AssetIDs:     assetIDs,
	}
}

func TestTemplateServiceCreateGeneratesExecutions(t *testing.T) {
	f := newTemplateServiceFixture(1, 2)

	template, result, err := f.service.Create(context.Background(), weeklyJanuaryRequest([]uint{1, 2}), nil)
	require.NoError(t, err)
	require.NotNil(t, template)

	// 5 weekly dates in January times 2 assets.
	assert.Equal(t, int64(10), result.Created)
	assert.Equal(t, int64(0), result.Removed)
	assert.Len(t, f.executionRepo.executions, 10)
	for _, e := range f.executionRepo.executions {
		assert.Equal(t, model.StatusScheduled, e.Status)
		assert.Equal(t, template.ID, e.TemplateID)
	}
}

func TestTemplateServiceCreateRejectsInvalidSchedule(t *testing.T) {
	f := newTemplateServiceFixture(1)

	req := weeklyJanuaryRequest([]uint{1})
	req.IntervalDays = 0

	_, _, err := f.service.Create(context.Background(), req, nil)
	require.ErrorIs(t, err, ErrInvalidScheduleParameters)

	// Validation failed before any write.
	assert.Empty(t, f.templateRepo.templates)
	assert.Empty(t, f.executionRepo.executions)
}

func TestTemplateServiceGenerateIsIdempotent(t *testing.T) {
	f := newTemplateServiceFixture(1, 2)

	template, _, err := f.service.Create(context.Background(), weeklyJanuaryRequest([]uint{1, 2}), nil)
	require.NoError(t, err)

	result, err := f.service.Generate(context.Background(), template.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Created)
	assert.Equal(t, int64(0), result.Removed)
	assert.Len(t, f.executionRepo.executions, 10)
}

func TestTemplateServiceGenerateExtendsUnboundedSchedule(t *testing.T) {
	f := newTemplateServiceFixture(1)

	// Unbounded template whose start date is older than the generation
	// horizon. The window follows today, so generation must still reach
	// into the future instead of dying at start+horizon.
	start := utils.TodayWIB().AddDate(-3, 0, 0)
	req := dto.CreateTemplateRequest{
		Name:         "Inspeksi Rutin",
		ScheduleType: "interval",
		IntervalDays: 30,
		StartDate:    utils.FormatDate(start),
		AssetIDs:     []uint{1},
	}
	template, result, err := f.service.Create(context.Background(), req, nil)
	require.NoError(t, err)
	require.Positive(t, result.Created)

	var latest time.Time
	for _, e := range f.executionRepo.executions {
		if e.ScheduledDate.After(latest) {
			latest = e.ScheduledDate
		}
	}
	assert.True(t, latest.After(utils.TodayWIB()),
		"latest scheduled date %s must be in the future", utils.FormatDate(latest))

	// Rerunning generation the same day adds nothing; the window only
	// moves with the clock.
	again, err := f.service.Generate(context.Background(), template.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), again.Created)
}

func TestTemplateServiceUpdateShrinkingWindowRemovesNothing(t *testing.T) {
	f := newTemplateServiceFixture(1)

	template, _, err := f.service.Create(context.Background(), weeklyJanuaryRequest([]uint{1}), nil)
	require.NoError(t, err)
	require.Len(t, f.executionRepo.executions, 5)

	// Shrink the window to a single week. Dates that fell out of the window
	// stay: removal is only ever asset-driven.
	update := dto.UpdateTemplateRequest{
		Name:         template.Name,
		ScheduleType: "interval",
		IntervalDays: 7,
		StartDate:    "2025-01-01",
		EndDate:      "2025-01-07",
		AssetIDs:     []uint{1},
	}
	_, result, err := f.service.Update(context.Background(), template.ID, update)
	require.NoError(t, err)

	assert.Equal(t, int64(0), result.Created)
	assert.Equal(t, int64(0), result.Removed)
	assert.Len(t, f.executionRepo.executions, 5)
}

func TestTemplateServiceUpdateRemovedAssetLosesExecutions(t *testing.T) {
	f := newTemplateServiceFixture(1, 2)

	template, _, err := f.service.Create(context.Background(), weeklyJanuaryRequest([]uint{1, 2}), nil)
	require.NoError(t, err)

	update := dto.UpdateTemplateRequest{
		Name:         template.Name,
		ScheduleType: "interval",
		IntervalDays: 7,
		StartDate:    "2025-01-01",
		EndDate:      "2025-01-31",
		AssetIDs:     []uint{1},
	}
	_, result, err := f.service.Update(context.Background(), template.ID, update)
	require.NoError(t, err)

	assert.Equal(t, int64(5), result.Removed)
	for _, e := range f.executionRepo.executions {
		if e.AssetID == 2 {
			assert.True(t, e.IsDeleted)
		} else {
			assert.False(t, e.IsDeleted)
		}
	}
}

func TestTemplateServiceUpdateRecordedOutcomesSurvive(t *testing.T) {
	f := newTemplateServiceFixture(1)

	template, _, err := f.service.Create(context.Background(), weeklyJanuaryRequest([]uint{1}), nil)
	require.NoError(t, err)

	// Mark one execution done out of band, then re-run a full reconcile.
	var doneID uint
	for id, e := range f.executionRepo.executions {
		e.Status = model.StatusDone
		doneID = id
		break
	}

	result, err := f.service.Generate(context.Background(), template.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Created)
	assert.Equal(t, model.StatusDone, f.executionRepo.executions[doneID].Status)
}

func TestTemplateServiceSoftDeleteAndRestoreCascade(t *testing.T) {
	f := newTemplateServiceFixture(1)

	template, _, err := f.service.Create(context.Background(), weeklyJanuaryRequest([]uint{1}), nil)
	require.NoError(t, err)

	actor := uint(9)
	require.NoError(t, f.service.SoftDelete(context.Background(), template.ID, &actor))

	stored, err := f.templateRepo.FindByID(context.Background(), template.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsDeleted)
	for _, e := range f.executionRepo.executions {
		assert.True(t, e.IsDeleted)
	}

	require.NoError(t, f.service.Restore(context.Background(), template.ID))
	stored, err = f.templateRepo.FindByID(context.Background(), template.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsDeleted)
	for _, e := range f.executionRepo.executions {
		assert.False(t, e.IsDeleted)
	}
}

func TestTemplateServiceHardDeleteRemovesEverything(t *testing.T) {
	f := newTemplateServiceFixture(1)

	template, _, err := f.service.Create(context.Background(), weeklyJanuaryRequest([]uint{1}), nil)
	require.NoError(t, err)

	require.NoError(t, f.service.HardDelete(context.Background(), template.ID))
	assert.Empty(t, f.templateRepo.templates)
	assert.Empty(t, f.executionRepo.executions)
}

func TestTemplateServiceDuplicateCreatesIndependentSet(t *testing.T) {
	f := newTemplateServiceFixture(1)

	template, _, err := f.service.Create(context.Background(), weeklyJanuaryRequest([]uint{1}), nil)
	require.NoError(t, err)

	clone, result, err := f.service.Duplicate(context.Background(), template.ID, dto.DuplicateTemplateRequest{
		StartDate: "2025-02-01",
		EndDate:   "2025-02-28",
	}, nil)
	require.NoError(t, err)
	require.NotEqual(t, template.ID, clone.ID)

	// 4 weekly dates in February for one asset.
	assert.Equal(t, int64(4), result.Created)
	assert.Len(t, f.executionRepo.executions, 9)
}

func TestTemplateServiceSoftDeletedTemplateIsNotFound(t *testing.T) {
	f := newTemplateServiceFixture(1)

	template, _, err := f.service.Create(context.Background(), weeklyJanuaryRequest([]uint{1}), nil)
	require.NoError(t, err)
	require.NoError(t, f.service.SoftDelete(context.Background(), template.ID, nil))

	_, err = f.service.Generate(context.Background(), template.ID)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}
