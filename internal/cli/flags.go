package cli

import (
	"fmt"
	"strconv"
	"time"

	"codeberg.org/snonux/turktranslate/internal"
	"codeberg.org/snonux/turktranslate/internal/publisher"
)

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile   string
	Verbose   bool
	Profile   string
	Journal   string
	NoJournal bool

	// Publish flags
	Reward         string
	Expiration     time.Duration
	MinApproval    int
	MaxTasks       int
	MaxAssignments int
	Languages      string
	TaskURL        string

	// Review flags
	Yes        bool
	Strict     bool
	Judge      string
	JudgeModel string

	// History flags
	Limit int
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Expiration:     24 * time.Hour,
		MinApproval:    80,
		MaxAssignments: 2,
		TaskURL:        publisher.DefaultTaskURL,
		Limit:          20,
	}
}

// ValidatePublish checks the publish options before any remote call
func ValidatePublish(flags *Flags) error {
	if err := ValidateReward(flags.Reward); err != nil {
		return err
	}
	if flags.Expiration <= 0 {
		return fmt.Errorf("expiration must be positive, got %s", flags.Expiration)
	}
	if flags.MinApproval < 0 || flags.MinApproval > 100 {
		return fmt.Errorf("min-approval must be between 0 and 100, got %d", flags.MinApproval)
	}
	if flags.MaxAssignments < 1 {
		return fmt.Errorf("max-assignments must be at least 1, got %d", flags.MaxAssignments)
	}
	if flags.MaxTasks < 0 {
		return fmt.Errorf("max-tasks must not be negative, got %d", flags.MaxTasks)
	}
	if flags.TaskURL == "" {
		return fmt.Errorf("task URL not set")
	}
	if _, err := internal.ParseLanguages(flags.Languages); err != nil {
		return err
	}
	return nil
}

// ValidateReward checks a reward amount in USD such as "0.05"
func ValidateReward(reward string) error {
	if reward == "" {
		return fmt.Errorf("reward not set (use --reward or MTURK_REWARD)")
	}
	v, err := strconv.ParseFloat(reward, 64)
	if err != nil || v <= 0 {
		return fmt.Errorf("invalid reward %q: must be a positive USD amount", reward)
	}
	return nil
}
