package ventilation

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/boreas/internal/model"
	"github.com/Nixie-Tech-LLC/boreas/internal/week"
)

type staticPrograms []model.ProgramRow

func (s staticPrograms) ListProgramRows(context.Context) ([]model.ProgramRow, error) {
	return s, nil
}

type failingPrograms struct{}

func (failingPrograms) ListProgramRows(context.Context) ([]model.ProgramRow, error) {
	return nil, errors.New("database is down")
}

// 2024-01-01 is a monday.
func monday(hour, minute int) time.Time {
	return time.Date(2024, 1, 1, hour, minute, 0, 0, time.UTC)
}

func morningRows() staticPrograms {
	return staticPrograms{
		{ID: 1, Day: week.Monday, Start: week.NewClock(8, 0, 0), End: week.NewClock(10, 0, 0), Action: "ventilation", Name: "Morning", IsActive: true},
		{ID: 2, Day: week.Monday, Start: week.NewClock(8, 0, 0), End: week.NewClock(10, 0, 0), Action: "heating", Name: "Other", IsActive: true},
	}
}

func newDispatcher(programs ProgramSource, pub Publisher, states StateStore, now *time.Time) *Dispatcher {
	d := NewDispatcher(Config{Action: "ventilation", TopicPrefix: "boreas"}, programs, pub, states)
	d.now = func() time.Time { return *now }
	return d
}

func TestTopic(t *testing.T) {
	d := NewDispatcher(Config{Action: "ventilation", TopicPrefix: "site"}, staticPrograms{}, LogPublisher{}, NewMemoryStates())
	assert.Equal(t, "site/ventilation/set", d.Topic())
	assert.Equal(t, time.Minute, d.cfg.Interval)
}

func TestTickPublishesOnlyOnChange(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := NewMockPublisher(ctrl)
	now := monday(7, 0)
	d := newDispatcher(morningRows(), pub, NewMemoryStates(), &now)
	ctx := context.Background()

	var sent []Command
	capture := func(_ context.Context, _ string, payload []byte) error {
		var c Command
		require.NoError(t, json.Unmarshal(payload, &c))
		sent = append(sent, c)
		return nil
	}
	pub.EXPECT().Publish(gomock.Any(), "boreas/ventilation/set", gomock.Any()).DoAndReturn(capture).Times(3)

	// first tick always publishes, even when off
	st, err := d.Tick(ctx)
	require.NoError(t, err)
	assert.False(t, st.On)

	now = monday(7, 30)
	_, err = d.Tick(ctx)
	require.NoError(t, err)

	now = monday(8, 0)
	st, err = d.Tick(ctx)
	require.NoError(t, err)
	assert.True(t, st.On)
	assert.Equal(t, "1", st.ProgramID)
	assert.Equal(t, monday(10, 0), st.Until)

	now = monday(9, 59)
	_, err = d.Tick(ctx)
	require.NoError(t, err)

	now = monday(10, 0)
	st, err = d.Tick(ctx)
	require.NoError(t, err)
	assert.False(t, st.On)

	require.Len(t, sent, 3)
	assert.False(t, sent[0].On)
	assert.True(t, sent[1].On)
	assert.Equal(t, "Morning", sent[1].Name)
	require.NotNil(t, sent[1].Until)
	assert.Equal(t, monday(10, 0), sent[1].Until.UTC())
	assert.False(t, sent[2].On)
	assert.Nil(t, sent[2].Until)
}

func TestTickRetriesFailedPublish(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := NewMockPublisher(ctrl)
	states := NewMemoryStates()
	now := monday(8, 30)
	d := newDispatcher(morningRows(), pub, states, &now)
	ctx := context.Background()

	gomock.InOrder(
		pub.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("broker unavailable")),
		pub.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil),
	)

	_, err := d.Tick(ctx)
	require.Error(t, err)
	_, known, err := d.Status(ctx)
	require.NoError(t, err)
	assert.False(t, known)

	now = monday(8, 31)
	st, err := d.Tick(ctx)
	require.NoError(t, err)
	assert.True(t, st.On)

	saved, known, err := d.Status(ctx)
	require.NoError(t, err)
	require.True(t, known)
	assert.Equal(t, monday(8, 31), saved.UpdatedAt)
}

func TestTickIgnoresOtherActionsAndDisabledPrograms(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := NewMockPublisher(ctrl)
	rows := staticPrograms{
		{ID: 5, Day: week.Monday, Start: week.NewClock(8, 0, 0), End: week.NewClock(10, 0, 0), Action: "ventilation", Name: "Off", IsActive: false},
		{ID: 6, Day: week.Monday, Start: week.NewClock(8, 0, 0), End: week.NewClock(10, 0, 0), Action: "heating", Name: "Heat", IsActive: true},
	}
	now := monday(9, 0)
	d := newDispatcher(rows, pub, NewMemoryStates(), &now)

	pub.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	st, err := d.Tick(context.Background())
	require.NoError(t, err)
	assert.False(t, st.On)
}

func TestTickSourceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := NewMockPublisher(ctrl)
	now := monday(9, 0)
	d := newDispatcher(failingPrograms{}, pub, NewMemoryStates(), &now)

	_, err := d.Tick(context.Background())
	assert.ErrorContains(t, err, "list programs")
}

func TestRunStopsOnCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := NewMockPublisher(ctrl)
	pub.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	d := NewDispatcher(Config{Action: "ventilation", TopicPrefix: "boreas", Interval: time.Hour}, morningRows(), pub, NewMemoryStates())

	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	require.Eventually(t, func() bool {
		_, known, _ := d.Status(context.Background())
		return known
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not stop")
	}
}

func TestStateSame(t *testing.T) {
	until := monday(10, 0)
	a := State{On: true, ProgramID: "1", Until: until, UpdatedAt: monday(8, 0)}
	b := State{On: true, ProgramID: "1", Until: until.In(time.FixedZone("X", 3600)), UpdatedAt: monday(9, 0)}
	assert.True(t, a.Same(b))
	assert.False(t, a.Same(State{}))
}
