package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finboard/internal/amqp"
	"finboard/internal/core"
)

type recordingPublisher struct {
	sent []*amqp.BudgetAlertMessage
	err  error
}

func (p *recordingPublisher) PublishBudgetAlert(_ context.Context, msg *amqp.BudgetAlertMessage) error {
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, msg)
	return nil
}

func budget(id string, spending int64, active, notified bool) core.Budget {
	return core.Budget{
		ID:                id,
		Name:              id,
		Amount:            decimal.NewFromInt(200),
		Limit:             decimal.NewFromInt(150),
		CurrentSpending:   decimal.NewFromInt(spending),
		IsActive:          active,
		NotificationsSent: notified,
	}
}

func TestNeedsAlert(t *testing.T) {
	tests := []struct {
		name string
		b    core.Budget
		want bool
	}{
		{"over limit", budget("b", 151, true, false), true},
		{"at limit", budget("b", 150, true, false), false},
		{"inactive", budget("b", 200, false, false), false},
		{"already notified", budget("b", 200, true, true), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NeedsAlert(tt.b))
		})
	}
}

func TestAlertProcessor_PublishesThenMarks(t *testing.T) {
	backend := &stubBackend{budgets: []core.Budget{
		budget("over", 180, true, false),
		budget("under", 60, true, false),
		budget("done", 180, true, true),
	}}
	pub := &recordingPublisher{}

	report, err := NewAlertProcessor(backend, pub, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, AlertReport{Checked: 3, Sent: 1}, report)
	require.Len(t, pub.sent, 1)
	assert.Equal(t, "over", pub.sent[0].BudgetID)
	assert.Equal(t, "100.0%", pub.sent[0].Label)
	assert.Equal(t, []string{"over"}, backend.markedIDs)
}

func TestAlertProcessor_FailedPublishLeavesFlag(t *testing.T) {
	backend := &stubBackend{budgets: []core.Budget{budget("over", 180, true, false)}}
	pub := &recordingPublisher{err: errors.New("broker gone")}

	report, err := NewAlertProcessor(backend, pub, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, AlertReport{Checked: 1, Failed: 1}, report)
	assert.Empty(t, backend.markedIDs)
}

func TestAlertProcessor_ListFailure(t *testing.T) {
	backend := &stubBackend{budgetsErr: errUpstream}
	_, err := NewAlertProcessor(backend, &recordingPublisher{}, nil).Run(context.Background())
	assert.ErrorIs(t, err, errUpstream)
}

func TestAlertProcessor_SendsOncePerBudget(t *testing.T) {
	ctx := context.Background()
	store := seededStoreWithOverspentBudget(t)
	pub := &recordingPublisher{}
	p := NewAlertProcessor(store, pub, nil)

	_, err := p.Run(ctx)
	require.NoError(t, err)
	_, err = p.Run(ctx)
	require.NoError(t, err)

	assert.Len(t, pub.sent, 1)
}
