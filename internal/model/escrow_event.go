package model

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

type EscrowAction string

const (
	EscrowActionCreated   EscrowAction = "created"
	EscrowActionAccepted  EscrowAction = "accepted"
	EscrowActionFunded    EscrowAction = "funded"
	EscrowActionConfirmed EscrowAction = "payment_confirmed"
	EscrowActionPaid      EscrowAction = "paid"
	EscrowActionDisputed  EscrowAction = "disputed"
	EscrowActionResolved  EscrowAction = "resolved"
	EscrowActionCompleted EscrowAction = "completed"
	EscrowActionCancelled EscrowAction = "cancelled"
	EscrowActionExpired   EscrowAction = "expired"
)

// EscrowEvent is one append-only audit record of an escrow trade. Hash covers
// the record's content and PrevHash, chaining every event of a trade.
type EscrowEvent struct {
	ID         int64        `gorm:"column:id;primaryKey" json:"id"`
	TradeID    int64        `gorm:"column:trade_id;index" json:"tradeId"`
	ActorID    string       `gorm:"column:actor_id" json:"actorId"`
	Action     EscrowAction `gorm:"column:action" json:"action"`
	FromStatus EscrowStatus `gorm:"column:from_status" json:"fromStatus"`
	ToStatus   EscrowStatus `gorm:"column:to_status" json:"toStatus"`
	Note       string       `gorm:"column:note" json:"note"`
	PrevHash   string       `gorm:"column:prev_hash" json:"prevHash"`
	Hash       string       `gorm:"column:hash" json:"hash"`
	CreatedAt  time.Time    `gorm:"column:created_at" json:"createdAt"`
}

func (EscrowEvent) TableName() string {
	return "escrow_events"
}

// ComputeHash derives the chain hash from the event content and PrevHash.
// CreatedAt is truncated to the microsecond precision postgres keeps.
func (e *EscrowEvent) ComputeHash() string {
	payload := strings.Join([]string{
		e.PrevHash,
		strconv.FormatInt(e.TradeID, 10),
		string(e.Action),
		string(e.FromStatus),
		string(e.ToStatus),
		e.ActorID,
		e.Note,
		e.CreatedAt.UTC().Truncate(time.Microsecond).Format(time.RFC3339Nano),
	}, "|")

	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// VerifyChain checks that events (ordered by id) form an unbroken hash chain.
// It returns the index of the first broken event, or -1 when the chain holds.
func VerifyChain(events []EscrowEvent) int {
	prev := ""
	for i := range events {
		if events[i].PrevHash != prev || events[i].ComputeHash() != events[i].Hash {
			return i
		}
		prev = events[i].Hash
	}
	return -1
}
