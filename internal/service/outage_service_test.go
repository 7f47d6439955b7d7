package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/olehvh/cek-outage-api/internal/models"
	appErrors "github.com/olehvh/cek-outage-api/pkg/errors"
)

type mockFeed struct {
	page string
	err  error
}

func (m *mockFeed) Fetch(ctx context.Context) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.page, nil
}

type mockProvider struct {
	schedules map[string]*models.GroupSchedule
	err       error
}

func (m *mockProvider) FetchSchedule(ctx context.Context, group string) (*models.GroupSchedule, error) {
	if m.err != nil {
		return nil, m.err
	}
	if gs, ok := m.schedules[group]; ok {
		return gs, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "no schedule for group")
}

var kyiv = func() *time.Location {
	loc, err := time.LoadLocation("Europe/Kyiv")
	if err != nil {
		return time.FixedZone("EET", 2*60*60)
	}
	return loc
}()

var serviceNow = time.Date(2025, time.July, 10, 12, 0, 0, 0, kyiv)

// feedPage renders announcement messages the way the channel page does,
// newest first.
func feedPage(newestFirst ...string) string {
	var b strings.Builder
	for _, text := range newestFirst {
		b.WriteString(`<div class="tgme_widget_message_wrap js-widget_message_wrap">`)
		b.WriteString(`<div class="tgme_widget_message_text js-message_text" dir="auto">`)
		b.WriteString(strings.ReplaceAll(text, "\n", "<br/>"))
		b.WriteString(`</div></div>`)
	}
	return b.String()
}

func newTestService(feedSrc FeedFetcher, providerSrc ScheduleProvider) *OutageService {
	svc := NewOutageService(feedSrc, providerSrc, nil, nil, validator.New(), zap.NewNop())
	svc.now = func() time.Time { return serviceNow }
	return svc
}

func TestGroupScheduleFeedAuthoritative(t *testing.T) {
	feedSrc := &mockFeed{page: feedPage(
		"Додаткові відключення 10 ЛИПНЯ\n📌 1.1 14:00 - 16:00",
		"Графік погодинних відключень на 10 ЛИПНЯ\n📌 1.1 06:00 - 11:00",
	)}
	providerSrc := &mockProvider{err: errors.New("provider down")}

	svc := newTestService(feedSrc, providerSrc)
	gs, err := svc.GroupSchedule(context.Background(), "1.1")

	require.NoError(t, err)
	require.NotNil(t, gs.Today)
	assert.Equal(t, models.StatusScheduleApplies, gs.Today.Status)
	assert.Equal(t, []models.Slot{
		{Start: 0, End: 360, Type: models.SlotNotPlanned},
		{Start: 360, End: 660, Type: models.SlotDefinite},
		{Start: 660, End: 840, Type: models.SlotNotPlanned},
		{Start: 840, End: 960, Type: models.SlotDefinite},
		{Start: 960, End: 1440, Type: models.SlotNotPlanned},
	}, gs.Today.Slots)
}

func TestGroupScheduleProviderFallback(t *testing.T) {
	secondary := &models.GroupSchedule{
		Today: &models.DayRecord{
			Date:   time.Date(2025, time.July, 10, 0, 0, 0, 0, kyiv),
			Status: models.StatusEmergencyShutdowns,
			Slots:  []models.Slot{},
		},
		UpdatedOn: serviceNow,
	}
	feedSrc := &mockFeed{page: "<html><body>no messages</body></html>"}
	providerSrc := &mockProvider{schedules: map[string]*models.GroupSchedule{"2.1": secondary}}

	svc := newTestService(feedSrc, providerSrc)
	gs, err := svc.GroupSchedule(context.Background(), "2.1")

	require.NoError(t, err)
	assert.Equal(t, secondary, gs)
}

func TestGroupScheduleEmergencyStatusInjected(t *testing.T) {
	feedSrc := &mockFeed{page: feedPage(
		"Графік погодинних відключень на 10 ЛИПНЯ\n📌 1.1 06:00 - 11:00",
	)}
	providerSrc := &mockProvider{schedules: map[string]*models.GroupSchedule{
		"1.1": {
			Today: &models.DayRecord{
				Date:   time.Date(2025, time.July, 10, 0, 0, 0, 0, kyiv),
				Status: models.StatusEmergencyShutdowns,
				Slots:  []models.Slot{{Start: 0, End: 1440, Type: models.SlotDefinite}},
			},
		},
	}}

	svc := newTestService(feedSrc, providerSrc)
	gs, err := svc.GroupSchedule(context.Background(), "1.1")

	require.NoError(t, err)
	require.NotNil(t, gs.Today)
	// Status comes from the provider, slots stay feed-derived.
	assert.Equal(t, models.StatusEmergencyShutdowns, gs.Today.Status)
	assert.Equal(t, []models.Slot{
		{Start: 0, End: 360, Type: models.SlotNotPlanned},
		{Start: 360, End: 660, Type: models.SlotDefinite},
		{Start: 660, End: 1440, Type: models.SlotNotPlanned},
	}, gs.Today.Slots)
}

func TestGroupScheduleNonEmergencyStatusNotInjected(t *testing.T) {
	feedSrc := &mockFeed{page: feedPage(
		"Графік погодинних відключень на 10 ЛИПНЯ\n📌 1.1 06:00 - 11:00",
	)}
	providerSrc := &mockProvider{schedules: map[string]*models.GroupSchedule{
		"1.1": {
			Today: &models.DayRecord{Status: models.StatusWaitingForSchedule},
		},
	}}

	svc := newTestService(feedSrc, providerSrc)
	gs, err := svc.GroupSchedule(context.Background(), "1.1")

	require.NoError(t, err)
	assert.Equal(t, models.StatusScheduleApplies, gs.Today.Status)
}

func TestGroupScheduleBothSourcesFailed(t *testing.T) {
	feedSrc := &mockFeed{err: errors.New("network down")}
	providerSrc := &mockProvider{err: errors.New("provider down")}

	svc := newTestService(feedSrc, providerSrc)
	_, err := svc.GroupSchedule(context.Background(), "1.1")

	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrSourcesUnavailable.Code, appErr.Code)
}

func TestGroupScheduleInvalidGroup(t *testing.T) {
	svc := newTestService(&mockFeed{}, &mockProvider{})

	_, err := svc.GroupSchedule(context.Background(), "not-a-group")

	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestFeedScheduleListsAllGroups(t *testing.T) {
	feedSrc := &mockFeed{page: feedPage(
		"Відключення 10 ЛИПНЯ\n📌 2.2 12:00 до 15:00",
		"Графік погодинних відключень на 10 ЛИПНЯ\n📌 1.1 06:00 - 11:00",
	)}

	svc := newTestService(feedSrc, &mockProvider{})
	schedule, err := svc.FeedSchedule(context.Background())

	require.NoError(t, err)
	assert.Len(t, schedule, 2)
	assert.Contains(t, schedule, "1.1")
	assert.Contains(t, schedule, "2.2")
}

func TestFeedScheduleFetchError(t *testing.T) {
	feedSrc := &mockFeed{err: appErrors.Clone(appErrors.ErrUpstream, "feed returned status 502")}

	svc := newTestService(feedSrc, &mockProvider{})
	_, err := svc.FeedSchedule(context.Background())

	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrUpstream.Code, appErr.Code)
}

func TestReconcilePrecedence(t *testing.T) {
	primary := models.Schedule{
		"1.1": &models.GroupSchedule{
			Today: &models.DayRecord{Status: models.StatusScheduleApplies},
		},
	}
	secondary := &models.GroupSchedule{
		Today:    &models.DayRecord{Status: models.StatusEmergencyShutdowns},
		Tomorrow: &models.DayRecord{Status: models.StatusEmergencyShutdowns},
	}

	gs, err := Reconcile(primary, secondary, "1.1")

	require.NoError(t, err)
	assert.Equal(t, models.StatusEmergencyShutdowns, gs.Today.Status)
	// The primary never had a tomorrow entry; injection does not invent one.
	assert.Nil(t, gs.Tomorrow)
}

func TestReconcileNoData(t *testing.T) {
	_, err := Reconcile(models.Schedule{}, nil, "3.1")

	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrSourcesUnavailable.Code, appErr.Code)
}
