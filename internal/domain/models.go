// Package domain defines the persistence models for users, debates, rounds,
// and votes. These types are mapped with GORM and form the core data layer
// of the debate application.
//
// Two unique indexes carry the application's concurrency guarantees and are
// relied on by the service layer instead of in-memory locks:
//   - rounds(debate_id, round_number): at most one round per slot per debate
//   - votes(debate_id, voter_id): at most one vote per voter per debate
package domain

import (
	"time"

	"gorm.io/gorm"
)

// DebateStatus is the closed set of debate lifecycle states.
type DebateStatus string

const (
	// StatusActive marks a debate still accepting rounds.
	StatusActive DebateStatus = "active"
	// StatusCompleted marks a debate whose third round has been persisted.
	// Completed debates accept votes and nothing else.
	StatusCompleted DebateStatus = "completed"
)

// VoteSide is the closed set of vote targets.
type VoteSide string

const (
	// VoteHuman is a vote for the debate owner's arguments.
	VoteHuman VoteSide = "human"
	// VoteAI is a vote for the generated counter-arguments.
	VoteAI VoteSide = "ai"
)

// Valid reports whether s is one of the two accepted vote sides.
func (s VoteSide) Valid() bool { return s == VoteHuman || s == VoteAI }

// Categories is the closed tag set a debate may be filed under.
var Categories = map[string]struct{}{
	"food": {}, "tech": {}, "philosophy": {}, "sports": {},
	"life": {}, "education": {}, "pop-culture": {},
}

// DefaultCategory is applied when a request omits the category or names an
// unknown one.
const DefaultCategory = "life"

// NormalizeCategory maps an arbitrary tag onto the closed category set,
// falling back to DefaultCategory.
func NormalizeCategory(c string) string {
	if _, ok := Categories[c]; ok {
		return c
	}
	return DefaultCategory
}

// User is a registered debater. The rating record (Rating, Wins, Losses,
// Streak, BestStreak) is mutated only by the vote aggregator's batched
// recompute, never directly by request handlers.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Username: unique display handle used for login and public profiles.
//   - PasswordHash: bcrypt hash; never serialized.
//   - Rating: Elo skill estimate, starts at the population default.
//   - Wins / Losses: cumulative recompute outcomes.
//   - Streak / BestStreak: consecutive wins and its high-water mark.
type User struct {
	ID           string         `json:"id"          gorm:"type:char(36);primaryKey"`
	Username     string         `json:"username"    gorm:"type:varchar(64);not null;uniqueIndex:ux_users_username"`
	PasswordHash string         `json:"-"           gorm:"type:varchar(255);not null"`
	Rating       int            `json:"rating"      gorm:"not null;default:1200"`
	Wins         int            `json:"wins"        gorm:"not null;default:0"`
	Losses       int            `json:"losses"      gorm:"not null;default:0"`
	Streak       int            `json:"streak"      gorm:"not null;default:0"`
	BestStreak   int            `json:"best_streak" gorm:"not null;default:0"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-"           gorm:"index"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Debate is a three-round exchange owned by a single user. Status is
// monotonic: active → completed, flipped exactly once when round 3 persists.
type Debate struct {
	ID        string         `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID    string         `json:"user_id"    gorm:"type:char(36);not null;index:idx_user_debates"`
	Topic     string         `json:"topic"      gorm:"type:varchar(200);not null"`
	Category  string         `json:"category"   gorm:"type:varchar(32);not null;default:'life';index"`
	Status    DebateStatus   `json:"status"     gorm:"type:varchar(16);not null;default:'active';check:status IN ('active','completed');index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"          gorm:"index"`

	// Owner is the debating user.
	Owner User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Debate.
func (Debate) TableName() string { return "debates" }

// Round is one exchange of a human argument and its generated
// counter-argument. Rounds are immutable once created; the unique index on
// (debate_id, round_number) is the authoritative at-most-once guard for
// concurrent submissions of the same slot.
type Round struct {
	ID           string    `json:"id"            gorm:"type:char(36);primaryKey"`
	DebateID     string    `json:"debate_id"     gorm:"type:char(36);not null;uniqueIndex:ux_rounds_debate_number,priority:1"`
	RoundNumber  int       `json:"round_number"  gorm:"not null;uniqueIndex:ux_rounds_debate_number,priority:2;check:round_number BETWEEN 1 AND 3"`
	UserArgument string    `json:"user_argument" gorm:"type:text;not null"`
	AIArgument   string    `json:"ai_argument"   gorm:"type:text;not null"`
	CreatedAt    time.Time `json:"created_at"`

	// Debate is the parent exchange. Rounds are cascade-deleted with it.
	Debate Debate `json:"-" gorm:"foreignKey:DebateID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Round.
func (Round) TableName() string { return "rounds" }

// Vote is a spectator's verdict on a completed debate. Votes are append-only
// and never deleted; the unique index on (debate_id, voter_id) enforces one
// vote per voter per debate.
type Vote struct {
	ID        string    `json:"id"        gorm:"type:char(36);primaryKey"`
	DebateID  string    `json:"debate_id" gorm:"type:char(36);not null;uniqueIndex:ux_votes_debate_voter,priority:1"`
	VoterID   string    `json:"voter_id"  gorm:"type:char(36);not null;uniqueIndex:ux_votes_debate_voter,priority:2"`
	VoteFor   VoteSide  `json:"vote_for"  gorm:"type:varchar(8);not null;check:vote_for IN ('human','ai')"`
	CreatedAt time.Time `json:"created_at"`

	// Debate is the voted-on exchange. Votes are cascade-deleted with it.
	Debate Debate `json:"-" gorm:"foreignKey:DebateID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Vote.
func (Vote) TableName() string { return "votes" }

// Complete performs the single legal status transition. It returns false when
// the debate is already completed, making re-invocation a visible no-op for
// the caller instead of a silent double transition.
func (d *Debate) Complete() bool {
	if d.Status != StatusActive {
		return false
	}
	d.Status = StatusCompleted
	return true
}
