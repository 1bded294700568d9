package collection

import (
	"errors"
	"testing"
	"time"

	"github.com/clube/backend/internal/domain/finance"
	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTemplate(t *testing.T, tenantID uuid.UUID) *Template {
	t.Helper()
	tmpl, err := NewTemplate(tenantID, "Lembrete", ChannelEmail,
		"Mensalidade {{.Dues.Period}} em aberto",
		"Olá {{.Member.Name}}, sua mensalidade de {{.Dues.Amount}} venceu há {{.Dues.DaysOverdue}} dias. {{.Club.Name}}")
	require.NoError(t, err)
	return tmpl
}

func TestTemplate_Render(t *testing.T) {
	tmpl := newTestTemplate(t, uuid.New())

	subject, body, err := tmpl.Render(MessageData{
		Member: MemberData{Name: "Carlos"},
		Dues:   DuesData{Period: "2026-03", Amount: "R$ 150,00", DaysOverdue: 12},
		Club:   ClubData{Name: "Clube Recreativo"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Mensalidade 2026-03 em aberto", subject)
	assert.Equal(t, "Olá Carlos, sua mensalidade de R$ 150,00 venceu há 12 dias. Clube Recreativo", body)
}

func TestTemplate_Validation(t *testing.T) {
	tenantID := uuid.New()

	_, err := NewTemplate(tenantID, "Quebrado", ChannelSMS, "", "Olá {{.Member.Name")
	assert.True(t, errors.Is(err, shared.ErrValidation))

	_, err = NewTemplate(tenantID, "Sem assunto", ChannelEmail, "", "Olá")
	assert.True(t, errors.Is(err, shared.ErrValidation))

	_, err = NewTemplate(tenantID, "Pombo", "PIGEON", "", "Olá")
	assert.True(t, errors.Is(err, shared.ErrValidation))

	sms, err := NewTemplate(tenantID, "SMS", "sms", "", "Olá {{.Member.Name}}")
	require.NoError(t, err)
	assert.Equal(t, ChannelSMS, sms.Channel)
}

func TestTemplate_RenderUnknownField(t *testing.T) {
	tmpl, err := NewTemplate(uuid.New(), "SMS", ChannelSMS, "", "Olá {{.Member.Nickname}}")
	require.NoError(t, err)
	_, _, err = tmpl.Render(MessageData{})
	assert.Error(t, err)
}

func TestCampaign(t *testing.T) {
	tenantID := uuid.New()
	tmpl := newTestTemplate(t, tenantID)

	c, err := NewCampaign(tenantID, "Atrasados março", tmpl, nil, 5)
	require.NoError(t, err)
	assert.Equal(t, []finance.ObligationStatus{finance.StatusOverdue}, c.TargetStatuses)
	assert.True(t, errors.Is(c.EnsureRunnable(), shared.ErrInvalidState))

	require.NoError(t, c.ChangeStatus(CampaignActive))
	assert.NoError(t, c.EnsureRunnable())

	assert.True(t, c.Matches(finance.StatusOverdue, 5))
	assert.False(t, c.Matches(finance.StatusOverdue, 4))
	assert.False(t, c.Matches(finance.StatusPending, 10))

	c.RecordRun(3, 1, time.Now())
	c.RecordRun(2, 0, time.Now())
	assert.Equal(t, 5, c.SentCount)
	assert.Equal(t, 1, c.FailedCount)

	_, err = NewCampaign(tenantID, "Pagos", tmpl, []finance.ObligationStatus{finance.StatusPaid}, 0)
	assert.True(t, errors.Is(err, shared.ErrValidation))

	_, err = NewCampaign(uuid.New(), "Outro clube", tmpl, nil, 0)
	assert.ErrorIs(t, err, shared.ErrCrossTenant)
}

func TestDispatch_Retries(t *testing.T) {
	tenantID := uuid.New()
	c, err := NewCampaign(tenantID, "Atrasados", newTestTemplate(t, tenantID), nil, 0)
	require.NoError(t, err)

	d := NewDispatch(c, DispatchKey{MemberID: uuid.New(), DuesRecordID: uuid.New()}, ChannelEmail, "a@b.com", "s", "m")
	assert.True(t, d.NeedsDelivery())

	for i := 0; i < MaxAttempts; i++ {
		d.MarkFailed(errors.New("smtp timeout"))
	}
	assert.Equal(t, MaxAttempts, d.Attempts)
	assert.False(t, d.NeedsDelivery())
	assert.Equal(t, "smtp timeout", d.LastError)

	ok := NewDispatch(c, DispatchKey{MemberID: uuid.New(), DuesRecordID: uuid.New()}, ChannelEmail, "a@b.com", "s", "m")
	ok.MarkSent(time.Now())
	ok.Cancel()
	assert.Equal(t, DispatchSent, ok.Status)
	assert.False(t, ok.NeedsDelivery())
}
