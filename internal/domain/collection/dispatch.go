package collection

import (
	"time"

	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MaxAttempts is how many times a failed dispatch is retried across runs
const MaxAttempts = 3

// DispatchStatus is the delivery state of one message
type DispatchStatus string

const (
	DispatchPending  DispatchStatus = "PENDING"
	DispatchSent     DispatchStatus = "SENT"
	DispatchFailed   DispatchStatus = "FAILED"
	DispatchCanceled DispatchStatus = "CANCELED"
)

// DispatchKey identifies a dispatch; a campaign sends at most one message per
// member and dues record.
type DispatchKey struct {
	MemberID     uuid.UUID
	DuesRecordID uuid.UUID
}

// Dispatch is one billing message of a campaign (envio de cobrança)
type Dispatch struct {
	shared.TenantAggregateRoot
	CampaignID   uuid.UUID
	MemberID     uuid.UUID
	DuesRecordID uuid.UUID
	Channel      Channel
	Recipient    string
	Subject      string
	Message      string
	Status       DispatchStatus
	Attempts     int
	LastError    string
	SentAt       *time.Time
}

// NewDispatch creates a pending dispatch with the rendered message
func NewDispatch(c *Campaign, key DispatchKey, channel Channel, recipient, subject, message string) *Dispatch {
	return &Dispatch{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(c.TenantID),
		CampaignID:          c.ID,
		MemberID:            key.MemberID,
		DuesRecordID:        key.DuesRecordID,
		Channel:             channel,
		Recipient:           recipient,
		Subject:             subject,
		Message:             message,
		Status:              DispatchPending,
	}
}

// Key returns the uniqueness key of the dispatch
func (d *Dispatch) Key() DispatchKey {
	return DispatchKey{MemberID: d.MemberID, DuesRecordID: d.DuesRecordID}
}

// NeedsDelivery reports whether a run should try to deliver the dispatch
func (d *Dispatch) NeedsDelivery() bool {
	return d.Status == DispatchPending || (d.Status == DispatchFailed && d.Attempts < MaxAttempts)
}

// MarkSent records a successful delivery
func (d *Dispatch) MarkSent(at time.Time) {
	d.Status = DispatchSent
	d.Attempts++
	d.SentAt = &at
	d.LastError = ""
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
}

// MarkFailed records a failed delivery
func (d *Dispatch) MarkFailed(err error) {
	d.Status = DispatchFailed
	d.Attempts++
	d.LastError = err.Error()
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
}

// Cancel stops a dispatch whose dues record got paid or canceled meanwhile
func (d *Dispatch) Cancel() {
	if d.Status == DispatchSent {
		return
	}
	d.Status = DispatchCanceled
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
}
